package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Conqueror226/danaya/internal/platform/auth"
	"github.com/Conqueror226/danaya/internal/platform/directory"
	"github.com/Conqueror226/danaya/internal/platform/metrics"
	"github.com/Conqueror226/danaya/internal/platform/token"
	"github.com/Conqueror226/danaya/pkg/pagination"
)

// Handler exposes the authentication endpoints. The directory client is
// optional; without it token responses simply omit the hospital block.
type Handler struct {
	svc      *Service
	issuer   *token.Issuer
	verifier *token.Verifier
	registry *directory.Client
}

func NewHandler(svc *Service, issuer *token.Issuer, verifier *token.Verifier, registry *directory.Client) *Handler {
	return &Handler{svc: svc, issuer: issuer, verifier: verifier, registry: registry}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/token", h.IssueTokenForm)
	e.POST("/login", h.IssueTokenJSON)

	authed := e.Group("/users", Authenticated(h.verifier, h.svc))
	authed.GET("/me", h.CurrentUser)
	authed.POST("/register", h.Register, auth.RequireRole("admin"))
	authed.GET("/list", h.List, auth.RequireRole("admin"))
}

// TokenResponse is the login envelope. Hospital is present only when the
// account carries a hospital ID and the registry resolved it.
type TokenResponse struct {
	AccessToken string              `json:"access_token"`
	TokenType   string              `json:"token_type"`
	ExpiresIn   int                 `json:"expires_in"`
	User        *Account            `json:"user"`
	Hospital    *directory.Facility `json:"hospital,omitempty"`
}

// IssueTokenForm handles the OAuth2-style form login (POST /token with
// username/password form fields).
func (h *Handler) IssueTokenForm(c echo.Context) error {
	email := c.FormValue("username")
	password := c.FormValue("password")
	if email == "" || password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	return h.issueToken(c, email, password)
}

// IssueTokenJSON handles the JSON login (POST /login).
func (h *Handler) IssueTokenJSON(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if creds.Email == "" || creds.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	return h.issueToken(c, creds.Email, creds.Password)
}

func (h *Handler) issueToken(c echo.Context, email, password string) error {
	acct, err := h.svc.Authenticate(c.Request().Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadCredential):
			metrics.RecordLogin("bad_credential")
			return unauthorized(c, "incorrect email or password")
		case errors.Is(err, ErrAccountInactive):
			metrics.RecordLogin("inactive")
			return echo.NewHTTPError(http.StatusForbidden, msgDeactivated)
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
		}
	}
	metrics.RecordLogin("success")

	tok, err := h.issuer.Issue(acct.Email, acct.Role, acct.HospitalID, timeNow())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}

	resp := &TokenResponse{
		AccessToken: tok,
		TokenType:   "bearer",
		ExpiresIn:   int(h.issuer.TTL().Seconds()),
		User:        acct,
	}
	if h.registry != nil && acct.HospitalID != "" {
		resp.Hospital = h.registry.Lookup(c.Request().Context(), acct.HospitalID)
	}
	return c.JSON(http.StatusOK, resp)
}

// CurrentUser returns the account resolved by the authentication middleware.
func (h *Handler) CurrentUser(c echo.Context) error {
	p := auth.PrincipalFromContext(c.Request().Context())
	acct, ok := p.(*Account)
	if !ok {
		return unauthorized(c, msgInvalid)
	}
	return c.JSON(http.StatusOK, acct)
}

// Register creates a new account. Admin only; the middleware chain enforces
// the role before this runs.
func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if in.Email == "" || in.Password == "" || in.FullName == "" || in.Role == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email, password, full_name and role are required")
	}

	acct, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRole):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid role: must be one of doctor, nurse, pharmacist, lab_tech, admin")
		case errors.Is(err, ErrDuplicateEmail):
			return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "registration failed")
		}
	}
	return c.JSON(http.StatusCreated, acct)
}

// List returns a page of accounts. Admin only.
func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	accts, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list users")
	}
	if accts == nil {
		accts = []*Account{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(accts, total, p.Limit, p.Offset))
}
