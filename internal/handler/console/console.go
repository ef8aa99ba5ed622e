// Package console serves the admin console pages and the Add User dialog
// endpoints. Pages are server-rendered; htmx swaps the dialog and its fields
// in place.
package console

import (
	"context"
	"errors"
	"net/http"

	"admin-console/internal/api"
	"admin-console/internal/cache"
	"admin-console/internal/form"
	"admin-console/internal/notify"
	"admin-console/internal/session"

	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	LoginPath = "/admin/login"
	UsersPath = "/admin/users"

	SessionCookie = "console_session"
	cookiePath    = "/admin"

	htmxRequestHeader  = "HX-Request"
	htmxRedirectHeader = "HX-Redirect"
)

// UserLister reads the console-wide list of users.
type UserLister interface {
	List(ctx context.Context) ([]api.User, error)
}

// Authenticator exchanges operator credentials for an access token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*api.Token, error)
}

type Options struct {
	Sessions *session.Registry
	Users    UserLister
	Auth     Authenticator
	// Cache backs the per-session toast queue.
	Cache  cache.Cache
	Logger *zap.Logger
	// SecureCookies marks cookies Secure; enable behind TLS.
	SecureCookies bool
}

type Handler struct {
	sessions *session.Registry
	users    UserLister
	auth     Authenticator
	cache    cache.Cache
	log      *zap.Logger
	secure   bool
}

func New(opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		sessions: opts.Sessions,
		users:    opts.Users,
		auth:     opts.Auth,
		cache:    opts.Cache,
		log:      log,
		secure:   opts.SecureCookies,
	}
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get(htmxRequestHeader) == "true"
}

// session resolves the visitor's session, issuing a cookie for new ones.
func (h *Handler) session(c echo.Context) *session.Session {
	var id string
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		id = cookie.Value
	}
	s, created := h.sessions.Get(id)
	if created {
		c.SetCookie(&http.Cookie{
			Name:     SessionCookie,
			Value:    s.ID,
			Path:     cookiePath,
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

func (h *Handler) drainToasts(ctx context.Context, sessionID string) []notify.Toast {
	toasts, err := notify.NewFlash(h.cache, sessionID).Drain(ctx)
	if err != nil {
		h.log.Error("drain toasts", zap.String("session", sessionID), zap.Error(err))
		return nil
	}
	return toasts
}

// redirect sends the browser to path; htmx requests get HX-Redirect since a
// 303 would be followed by the XHR instead of the page.
func redirect(c echo.Context, path string) error {
	if isHTMX(c) {
		c.Response().Header().Set(htmxRedirectHeader, path)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, path)
}

func fieldParam(c echo.Context) (form.Spec, error) {
	spec, ok := form.Lookup(form.FieldName(c.Param("field")))
	if !ok {
		return form.Spec{}, echo.NewHTTPError(http.StatusNotFound, "unknown field")
	}
	return spec, nil
}

func dialogError(err error) error {
	switch {
	case errors.Is(err, form.ErrSubmitting):
		return echo.NewHTTPError(http.StatusConflict, "a submission is already in progress")
	case errors.Is(err, form.ErrClosed):
		return echo.NewHTTPError(http.StatusConflict, "the dialog is not open")
	case errors.Is(err, form.ErrUnknownField):
		return echo.NewHTTPError(http.StatusNotFound, "unknown field")
	case errors.Is(err, form.ErrNotCheckbox):
		return echo.NewHTTPError(http.StatusBadRequest, "field is not a checkbox")
	}
	return err
}
