package authhandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrdesk/internal/domain/audit"
	"hrdesk/internal/domain/auth"
	"hrdesk/internal/domain/core"
	"hrdesk/internal/transport/http/api"
	"hrdesk/internal/transport/http/middleware"
	"hrdesk/internal/transport/http/shared"
)

type Handler struct {
	Service   *auth.Service
	Employees *core.Service
	Audit     *audit.Service
}

func NewHandler(service *auth.Service, employees *core.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signin", h.handleSignIn)
		r.Post("/signup", h.handleSignUp)
		r.Get("/me", h.handleMe)
	})
}

// userView is an account with its linked employee profile, if any.
type userView struct {
	auth.User
	Employee *core.Employee `json:"employee,omitempty"`
}

type sessionView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload auth.SignInInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	session, err := h.Service.SignIn(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, err, "signin_failed", "failed to sign in", reqID)
		return
	}
	view, err := h.sessionView(r, session)
	if err != nil {
		shared.WriteError(w, err, "signin_failed", "failed to sign in", reqID)
		return
	}
	api.Success(w, view, reqID)
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload auth.SignUpInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	var actor *auth.Principal
	actorID := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = &user
		actorID = user.UserID
	}

	session, err := h.Service.SignUp(r.Context(), actor, payload)
	if err != nil {
		shared.WriteError(w, err, "signup_failed", "failed to create account", reqID)
		return
	}
	if actorID == "" {
		actorID = session.User.ID
	}
	if err := h.Audit.Record(r.Context(), actorID, "auth.signup", "user", session.User.ID, reqID, shared.ClientIP(r), nil, session.User); err != nil {
		slog.Warn("audit auth.signup failed", "err", err)
	}

	view, err := h.sessionView(r, session)
	if err != nil {
		shared.WriteError(w, err, "signup_failed", "failed to create account", reqID)
		return
	}
	api.Created(w, view, reqID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	account, err := h.Service.Me(r.Context(), user)
	if err != nil {
		shared.WriteError(w, err, "me_failed", "failed to load account", reqID)
		return
	}
	view, err := h.userView(r, account)
	if err != nil {
		shared.WriteError(w, err, "me_failed", "failed to load account", reqID)
		return
	}
	api.Success(w, view, reqID)
}

func (h *Handler) sessionView(r *http.Request, session auth.Session) (sessionView, error) {
	user, err := h.userView(r, session.User)
	if err != nil {
		return sessionView{}, err
	}
	return sessionView{Token: session.Token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

func (h *Handler) userView(r *http.Request, account auth.User) (userView, error) {
	view := userView{User: account}
	if h.Employees == nil {
		return view, nil
	}
	profile, err := h.Employees.Profile(r.Context(), account.Principal())
	if err != nil {
		return userView{}, err
	}
	view.Employee = profile
	return view, nil
}
