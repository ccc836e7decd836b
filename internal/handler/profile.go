package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

// ProfileHandler serves the active user's profile.  Email changes
// return a fresh token because the old one names the previous email.
type ProfileHandler struct {
	Auth *AuthHandler
}

type profileReq struct {
	Email         *string `json:"email"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	FavoriteGenre *string `json:"favorite_genre"`
}

type fieldReq struct {
	Value string `json:"value"`
}

type profileResp struct {
	User   userView   `json:"user"`
	Access *tokenPart `json:"access,omitempty"`
}

// Me handles GET /v1/me.
func (h *ProfileHandler) Me(c echo.Context) error {
	u, err := h.Auth.Users.ActiveUser(c.Request().Context())
	if err != nil {
		return fail(c, h.Auth.Log, err)
	}
	return c.JSON(http.StatusOK, newUserView(u))
}

// Update handles PUT /v1/me.  Omitted fields keep their value.
func (h *ProfileHandler) Update(c echo.Context) error {
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx := c.Request().Context()
	u, err := h.Auth.Users.ActiveUser(ctx)
	if err != nil {
		return fail(c, h.Auth.Log, err)
	}
	oldEmail := u.Email

	// nil means the field was absent from the body.
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.Email, req.Email)
	set(&u.FirstName, req.FirstName)
	set(&u.LastName, req.LastName)
	set(&u.Phone, req.Phone)
	set(&u.Address, req.Address)
	set(&u.FavoriteGenre, req.FavoriteGenre)
	if u.Email == "" {
		return badRequest(c, "email required")
	}

	if err := h.Auth.Users.UpdateUser(ctx, u); err != nil {
		return fail(c, h.Auth.Log, err)
	}
	return h.respond(c, oldEmail)
}

// ChangeField handles PUT /v1/me/:field.
func (h *ProfileHandler) ChangeField(c echo.Context) error {
	field, ok := repository.ParseField(c.Param("field"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown field"})
	}
	var req fieldReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	value := req.Value
	if field != repository.FieldPassword {
		value = strings.TrimSpace(value)
	}
	if value == "" && (field == repository.FieldPassword || field == repository.FieldEmail) {
		return badRequest(c, "value required")
	}

	ctx := c.Request().Context()
	before, err := h.Auth.Users.ActiveEmail(ctx)
	if err != nil {
		return fail(c, h.Auth.Log, err)
	}
	if err := h.Auth.Users.ChangeField(ctx, field, value); err != nil {
		return fail(c, h.Auth.Log, err)
	}
	return h.respond(c, before)
}

// Stats handles GET /v1/me/stats.
func (h *ProfileHandler) Stats(c echo.Context) error {
	st, err := h.Auth.Users.Stats(c.Request().Context())
	if err != nil {
		return fail(c, h.Auth.Log, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *ProfileHandler) respond(c echo.Context, oldEmail string) error {
	u, err := h.Auth.Users.ActiveUser(c.Request().Context())
	if err != nil {
		return fail(c, h.Auth.Log, err)
	}
	resp := profileResp{User: newUserView(u)}
	// The token subject is the email, so a changed email needs a new
	// token; the old one is already rejected.
	if u.Email != oldEmail {
		tok, err := h.Auth.issue(u.Email)
		if err != nil {
			return fail(c, h.Auth.Log, err)
		}
		resp.Access = &tok
	}
	return c.JSON(http.StatusOK, resp)
}
