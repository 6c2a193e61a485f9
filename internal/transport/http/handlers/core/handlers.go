package corehandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdesk/internal/domain/audit"
	"hrdesk/internal/domain/core"
	"hrdesk/internal/transport/http/api"
	"hrdesk/internal/transport/http/middleware"
	"hrdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
	Audit   *audit.Service
}

func NewHandler(service *core.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.Post("/", h.handleCreateEmployee)
		r.Get("/stats/overview", h.handleEmployeeStats)
		r.Get("/{employeeID}", h.handleGetEmployee)
		r.Put("/{employeeID}", h.handleUpdateEmployee)
		r.Delete("/{employeeID}", h.handleDeleteEmployee)
	})
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.handleListDepartments)
		r.Post("/", h.handleCreateDepartment)
		r.Get("/{departmentID}", h.handleGetDepartment)
		r.Put("/{departmentID}", h.handleUpdateDepartment)
		r.Delete("/{departmentID}", h.handleDeleteDepartment)
		r.Get("/{departmentID}/employees", h.handleDepartmentEmployees)
	})
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	filter := core.EmployeeFilter{
		Search:     shared.QueryValue(r, "search"),
		Department: shared.QueryValue(r, "department"),
		Status:     shared.QueryValue(r, "status"),
	}
	result, err := h.Service.ListEmployees(r.Context(), user, filter, shared.ParsePage(r))
	if err != nil {
		shared.WriteError(w, err, "employee_list_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleEmployeeStats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	stats, err := h.Service.EmployeeStats(r.Context(), user)
	if err != nil {
		shared.WriteError(w, err, "employee_stats_failed", "failed to load employee stats", reqID)
		return
	}
	api.Success(w, stats, reqID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	emp, err := h.Service.GetEmployee(r.Context(), user, chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, err, "employee_get_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload core.EmployeeInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	emp, err := h.Service.CreateEmployee(r.Context(), user, payload)
	if err != nil {
		shared.WriteError(w, err, "employee_create_failed", "failed to create employee", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "employee.create", "employee", emp.ID, reqID, shared.ClientIP(r), nil, emp); err != nil {
		slog.Warn("audit employee.create failed", "err", err)
	}
	api.Created(w, emp, reqID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload core.EmployeeUpdate
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	emp, err := h.Service.UpdateEmployee(r.Context(), user, chi.URLParam(r, "employeeID"), payload)
	if err != nil {
		shared.WriteError(w, err, "employee_update_failed", "failed to update employee", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "employee.update", "employee", emp.ID, reqID, shared.ClientIP(r), payload, emp); err != nil {
		slog.Warn("audit employee.update failed", "err", err)
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	emp, err := h.Service.DeleteEmployee(r.Context(), user, chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, err, "employee_delete_failed", "failed to delete employee", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "employee.delete", "employee", emp.ID, reqID, shared.ClientIP(r), emp, nil); err != nil {
		slog.Warn("audit employee.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"message": "Employee deleted successfully"}, reqID)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	deps, err := h.Service.ListDepartments(r.Context(), user)
	if err != nil {
		shared.WriteError(w, err, "department_list_failed", "failed to list departments", reqID)
		return
	}
	api.Success(w, deps, reqID)
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	dep, err := h.Service.GetDepartment(r.Context(), user, chi.URLParam(r, "departmentID"))
	if err != nil {
		shared.WriteError(w, err, "department_get_failed", "failed to load department", reqID)
		return
	}
	api.Success(w, dep, reqID)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload core.DepartmentInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	dep, err := h.Service.CreateDepartment(r.Context(), user, payload)
	if err != nil {
		shared.WriteError(w, err, "department_create_failed", "failed to create department", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "department.create", "department", dep.ID, reqID, shared.ClientIP(r), nil, dep); err != nil {
		slog.Warn("audit department.create failed", "err", err)
	}
	api.Created(w, dep, reqID)
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload core.DepartmentUpdate
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	dep, err := h.Service.UpdateDepartment(r.Context(), user, chi.URLParam(r, "departmentID"), payload)
	if err != nil {
		shared.WriteError(w, err, "department_update_failed", "failed to update department", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "department.update", "department", dep.ID, reqID, shared.ClientIP(r), payload, dep); err != nil {
		slog.Warn("audit department.update failed", "err", err)
	}
	api.Success(w, dep, reqID)
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	dep, err := h.Service.DeleteDepartment(r.Context(), user, chi.URLParam(r, "departmentID"))
	if err != nil {
		shared.WriteError(w, err, "department_delete_failed", "failed to delete department", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "department.delete", "department", dep.ID, reqID, shared.ClientIP(r), dep, nil); err != nil {
		slog.Warn("audit department.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"message": "Department deleted successfully"}, reqID)
}

func (h *Handler) handleDepartmentEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	members, err := h.Service.DepartmentMembers(r.Context(), user, chi.URLParam(r, "departmentID"))
	if err != nil {
		shared.WriteError(w, err, "department_members_failed", "failed to list department employees", reqID)
		return
	}
	api.Success(w, members, reqID)
}
