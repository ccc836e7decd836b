package config

import "time"

// LoginThrottleConfig bounds login attempts per client IP in a fixed
// window.  It needs Redis; without it logins are not throttled.
type LoginThrottleConfig struct {
	Enabled     bool
	MaxAttempts int
	Window      time.Duration
	Prefix      string
}

func loadLoginThrottleConfig(p *parser) LoginThrottleConfig {
	c := LoginThrottleConfig{
		Enabled:     p.getBool("LOGIN_THROTTLE_ENABLED", true),
		MaxAttempts: p.getInt("LOGIN_THROTTLE_MAX", 5),
		Window:      p.getDuration("LOGIN_THROTTLE_WINDOW", time.Minute),
		Prefix:      envStr("LOGIN_THROTTLE_PREFIX", "login"),
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	return c
}
