package payrollhandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrdesk/internal/domain/audit"
	"hrdesk/internal/domain/payroll"
	"hrdesk/internal/transport/http/api"
	"hrdesk/internal/transport/http/middleware"
	"hrdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
	Audit   *audit.Service
}

func NewHandler(service *payroll.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{payrollID}", h.handleGet)
		r.Put("/{payrollID}", h.handleUpdate)
		r.Delete("/{payrollID}", h.handleDelete)
		r.Post("/{payrollID}/status", h.handleTransition)
		r.Get("/{payrollID}/payslip", h.handlePayslip)
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

	filter := payroll.Filter{
		Search: shared.QueryValue(r, "search"),
		Status: shared.QueryValue(r, "status"),
		Month:  shared.QueryValue(r, "month"),
	}
	result, err := h.Service.List(r.Context(), user, filter, shared.ParsePage(r))
	if err != nil {
		shared.WriteError(w, err, "payroll_list_failed", "failed to list payroll", reqID)
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

	rec, err := h.Service.Get(r.Context(), user, chi.URLParam(r, "payrollID"))
	if err != nil {
		shared.WriteError(w, err, "payroll_get_failed", "failed to load payroll", reqID)
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

	var payload payroll.CreateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	rec, err := h.Service.Create(r.Context(), user, payload)
	if err != nil {
		shared.WriteError(w, err, "payroll_create_failed", "failed to create payroll", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.create", "payroll", rec.ID, reqID, shared.ClientIP(r), nil, auditView(rec)); err != nil {
		slog.Warn("audit payroll.create failed", "err", err)
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

	var payload payroll.UpdateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	rec, err := h.Service.Update(r.Context(), user, chi.URLParam(r, "payrollID"), payload)
	if err != nil {
		shared.WriteError(w, err, "payroll_update_failed", "failed to update payroll", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.update", "payroll", rec.ID, reqID, shared.ClientIP(r), nil, auditView(rec)); err != nil {
		slog.Warn("audit payroll.update failed", "err", err)
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

	rec, err := h.Service.Delete(r.Context(), user, chi.URLParam(r, "payrollID"))
	if err != nil {
		shared.WriteError(w, err, "payroll_delete_failed", "failed to delete payroll", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.delete", "payroll", rec.ID, reqID, shared.ClientIP(r), auditView(rec), nil); err != nil {
		slog.Warn("audit payroll.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"message": "Payroll record deleted successfully"}, reqID)
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

	rec, err := h.Service.TransitionStatus(r.Context(), user, chi.URLParam(r, "payrollID"), payload.Status)
	if err != nil {
		shared.WriteError(w, err, "payroll_status_failed", "failed to update payroll status", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.status", "payroll", rec.ID, reqID, shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit payroll.status failed", "err", err)
	}
	api.Success(w, rec, reqID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	data, rec, err := h.Service.Payslip(r.Context(), user, chi.URLParam(r, "payrollID"))
	if err != nil {
		shared.WriteError(w, err, "payslip_failed", "failed to render payslip", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s.pdf", rec.PayDate.Format("2006-01")))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("payslip write failed", "err", err)
	}
}

// auditView keeps the bank account out of audit payloads.
func auditView(rec payroll.Payroll) payroll.Payroll {
	rec.BankAccount = ""
	return rec
}
