package attendancehandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/attendance"
	"hrdesk/internal/domain/audit"
	"hrdesk/internal/transport/http/api"
	"hrdesk/internal/transport/http/middleware"
	"hrdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Audit   *audit.Service
}

func NewHandler(service *attendance.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{attendanceID}", h.handleGet)
		r.Put("/{attendanceID}", h.handleUpdate)
		r.Delete("/{attendanceID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	filter := attendance.Filter{
		EmployeeID: shared.QueryValue(r, "employeeId"),
		Search:     shared.QueryValue(r, "search"),
		Status:     shared.QueryValue(r, "status"),
	}
	if raw := shared.QueryValue(r, "date"); raw != "" {
		day, err := apperr.ParseDate(raw)
		if err != nil {
			shared.FailValidation(w, reqID, []apperr.FieldIssue{{Field: "date", Reason: "must be a valid date in YYYY-MM-DD format"}})
			return
		}
		filter.Date = &day
	}

	result, err := h.Service.List(r.Context(), user, filter, shared.ParsePage(r))
	if err != nil {
		shared.WriteError(w, err, "attendance_list_failed", "failed to list attendance", reqID)
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

	rec, err := h.Service.Get(r.Context(), user, chi.URLParam(r, "attendanceID"))
	if err != nil {
		shared.WriteError(w, err, "attendance_get_failed", "failed to load attendance", reqID)
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

	var payload attendance.CreateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	rec, err := h.Service.Create(r.Context(), user, payload)
	if err != nil {
		shared.WriteError(w, err, "attendance_create_failed", "failed to create attendance", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "attendance.create", "attendance", rec.ID, reqID, shared.ClientIP(r), nil, rec); err != nil {
		slog.Warn("audit attendance.create failed", "err", err)
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

	var payload attendance.UpdateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	rec, err := h.Service.Update(r.Context(), user, chi.URLParam(r, "attendanceID"), payload)
	if err != nil {
		shared.WriteError(w, err, "attendance_update_failed", "failed to update attendance", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "attendance.update", "attendance", rec.ID, reqID, shared.ClientIP(r), payload, rec); err != nil {
		slog.Warn("audit attendance.update failed", "err", err)
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

	rec, err := h.Service.Delete(r.Context(), user, chi.URLParam(r, "attendanceID"))
	if err != nil {
		shared.WriteError(w, err, "attendance_delete_failed", "failed to delete attendance", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "attendance.delete", "attendance", rec.ID, reqID, shared.ClientIP(r), rec, nil); err != nil {
		slog.Warn("audit attendance.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"message": "Attendance record deleted successfully"}, reqID)
}
