package leavehandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdesk/internal/domain/audit"
	"hrdesk/internal/domain/leave"
	"hrdesk/internal/transport/http/api"
	"hrdesk/internal/transport/http/middleware"
	"hrdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Audit   *audit.Service
}

func NewHandler(service *leave.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{leaveID}", h.handleGet)
		r.Put("/{leaveID}", h.handleUpdate)
		r.Delete("/{leaveID}", h.handleDelete)
		r.Post("/{leaveID}/status", h.handleTransition)
	})
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	filter := leave.Filter{
		EmployeeID: shared.QueryValue(r, "employeeId"),
		Search:     shared.QueryValue(r, "search"),
		Status:     shared.QueryValue(r, "status"),
		LeaveType:  shared.QueryValue(r, "type"),
	}
	result, err := h.Service.List(r.Context(), user, filter, shared.ParsePage(r))
	if err != nil {
		shared.WriteError(w, err, "leave_list_failed", "failed to list leaves", reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	rec, err := h.Service.Get(r.Context(), user, chi.URLParam(r, "leaveID"))
	if err != nil {
		shared.WriteError(w, err, "leave_get_failed", "failed to load leave", reqID)
		return
	}
	api.Success(w, rec, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload leave.CreateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	rec, err := h.Service.Create(r.Context(), user, payload)
	if err != nil {
		shared.WriteError(w, err, "leave_create_failed", "failed to create leave", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.create", "leave", rec.ID, reqID, shared.ClientIP(r), nil, rec); err != nil {
		slog.Warn("audit leave.create failed", "err", err)
	}
	api.Created(w, rec, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload leave.UpdateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	rec, err := h.Service.Update(r.Context(), user, chi.URLParam(r, "leaveID"), payload)
	if err != nil {
		shared.WriteError(w, err, "leave_update_failed", "failed to update leave", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.update", "leave", rec.ID, reqID, shared.ClientIP(r), payload, rec); err != nil {
		slog.Warn("audit leave.update failed", "err", err)
	}
	api.Success(w, rec, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	rec, err := h.Service.Delete(r.Context(), user, chi.URLParam(r, "leaveID"))
	if err != nil {
		shared.WriteError(w, err, "leave_delete_failed", "failed to delete leave", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.delete", "leave", rec.ID, reqID, shared.ClientIP(r), rec, nil); err != nil {
		slog.Warn("audit leave.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"message": "Leave deleted successfully"}, reqID)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload statusPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	rec, err := h.Service.TransitionStatus(r.Context(), user, chi.URLParam(r, "leaveID"), payload.Status)
	if err != nil {
		shared.WriteError(w, err, "leave_status_failed", "failed to update leave status", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.status", "leave", rec.ID, reqID, shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit leave.status failed", "err", err)
	}
	api.Success(w, rec, reqID)
}
