package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
	"github.com/iliyamo/cinema-ticketing/internal/utils"
)

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	Users     *repository.UserStore
	JWTSecret string
	AccessTTL time.Duration
	Log       *zap.Logger
	Now       func() time.Time
}

type signupReq struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	FavoriteGenre string `json:"favorite_genre"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// userView is a user without credentials.
type userView struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Phone         string        `json:"phone,omitempty"`
	Address       string        `json:"address,omitempty"`
	FavoriteGenre string        `json:"favorite_genre,omitempty"`
	Orders        []model.Order `json:"orders"`
}

func newUserView(u model.User) userView {
	orders := u.Orders
	if orders == nil {
		orders = []model.Order{}
	}
	return userView{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		Address:       u.Address,
		FavoriteGenre: u.FavoriteGenre,
		Orders:        orders,
	}
}

type authResp struct {
	User   userView  `json:"user"`
	Access tokenPart `json:"access"`
}

// Signup creates an account.  It does not log the user in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return badRequest(c, "first_name/last_name required")
	}

	// The password is hashed by the store; only trimmed profile
	// fields reach it.
	u, err := h.Users.CreateUser(c.Request().Context(), repository.NewUser{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Phone:         strings.TrimSpace(req.Phone),
		Address:       strings.TrimSpace(req.Address),
		FavoriteGenre: strings.TrimSpace(req.FavoriteGenre),
	})
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, newUserView(u))
}

// Login makes the user the active session and returns an access token
// whose subject is their email.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}

	// A failed login leaves any current session in place.
	u, err := h.Users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, h.Log, err)
	}
	tok, err := h.issue(u.Email)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, authResp{User: newUserView(u), Access: tok})
}

// Logout clears the active session.  Outstanding tokens stop working
// because they no longer match it.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Users.Logout(c.Request().Context()); err != nil {
		return fail(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) issue(email string) (tokenPart, error) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	tok, err := utils.NewAccessToken(h.JWTSecret, email, h.AccessTTL, now())
	if err != nil {
		return tokenPart{}, err
	}
	return tokenPart{Token: tok.Token, Expires: tok.Exp}, nil
}
