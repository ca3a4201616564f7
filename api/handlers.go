/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll and leave-accounting engine via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain
  logic in payroll and leave.

ENDPOINTS:
  Employees:
    GET    /api/employees                     List all employees
    POST   /api/employees                     Create/update employee
    GET    /api/employees/{id}                Get employee details
    GET    /api/employees/{id}/leave-summary  Multi-year leave balance
    POST   /api/employees/{id}/leave-projection What-if balance check
    GET    /api/employees/{id}/leave-ledger   Ledger history

  Time entries:
    POST   /api/time-entries/validate  Dry-run row validation
    POST   /api/time-entries           Validate and persist a batch
    DELETE /api/time-entries/{id}      Soft-delete a row

  Reports:
    GET    /api/reports/period-totals  Aggregated pay report (JSON or PDF)
    GET    /api/reports/global-days    Per-day salaried aggregates

  Configuration:
    GET/POST /api/services             Billable service catalog
    GET/POST /api/rates                Rate card entries
    GET/PUT  /api/policies/leave       Leave policy
    GET/PUT  /api/policies/leave-pay   Leave pay valuation policy
    GET      /api/holidays/lookup      Holiday rule matching a date
    POST     /api/leave-ledger         Append normalized ledger records

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input, malformed dates
  - 404: Resource not found
  - 422: Batch rejected because some rows carry validation errors
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tutorpay/payroll-engine/leave"
	"github.com/tutorpay/payroll-engine/payroll"
	"github.com/tutorpay/payroll-engine/report"
	"github.com/tutorpay/payroll-engine/store/sqlite"
)

var (
	errEmptyBatch     = errors.New("empty batch")
	errPeriodInverted = errors.New("end date is before start date")
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Caps  payroll.Capabilities
}

// NewHandler creates a new handler with the given store. Session
// metadata support is detected once from the store schema.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store: store,
		Caps:  payroll.Capabilities{SessionMetadata: store.MetadataSupported()},
	}
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

// ListEmployees returns all employees.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, employeeDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns one employee by ID.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, employeeDTO(*emp))
}

// CreateEmployee creates or updates an employee record.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	emp := payroll.Employee{
		ID:              payroll.EmployeeID(req.ID),
		Name:            req.Name,
		Type:            payroll.EmployeeType(req.EmployeeType),
		WorkingDays:     payroll.ParseWorkingDays(req.WorkingDays),
		AnnualLeaveDays: decimal.NewFromFloat(req.AnnualLeaveDays),
		MonthlyRate:     decimal.NewFromFloat(req.MonthlyRate),
		LeavePayMethod:  req.LeavePayMethod,
		EmploymentScope: req.EmploymentScope,
	}
	switch emp.Type {
	case payroll.EmployeeHourly, payroll.EmployeeGlobal, payroll.EmployeeInstructor:
	default:
		writeError(w, http.StatusBadRequest, "unknown employee type", nil)
		return
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date", err)
			return
		}
		emp.StartDate = &start
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, employeeDTO(emp))
}

// =============================================================================
// TIME ENTRY ENDPOINTS
// =============================================================================

// ValidateTimeEntries runs the row validator without persisting.
// POST /api/time-entries/validate
func (h *Handler) ValidateTimeEntries(w http.ResponseWriter, r *http.Request) {
	rows, _, err := h.validateBatch(w, r)
	if err != nil {
		return // validateBatch wrote the error
	}

	dtos := make([]ValidatedRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, validatedRowDTO(row))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTimeEntries validates a batch and persists it only when every
// row is clean. A batch with any violation is rejected whole so a
// payroll period never holds half an import.
// POST /api/time-entries
func (h *Handler) CreateTimeEntries(w http.ResponseWriter, r *http.Request) {
	rows, clean, err := h.validateBatch(w, r)
	if err != nil {
		return
	}

	dtos := make([]ValidatedRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, validatedRowDTO(row))
	}
	if !clean {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": "batch contains invalid rows",
			"rows":  dtos,
		})
		return
	}

	entries := make([]payroll.TimeEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.Entry)
	}
	if err := h.Store.InsertTimeEntries(r.Context(), entries); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save time entries", err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos)
}

// DeleteTimeEntry soft-deletes one row. The row stays in the table and
// is skipped by all aggregations.
// DELETE /api/time-entries/{id}
func (h *Handler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.SoftDeleteTimeEntry(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "time entry not found", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// validateBatch parses the request, loads reference data and runs the
// validator. Returns clean=true when no row carries errors.
func (h *Handler) validateBatch(w http.ResponseWriter, r *http.Request) ([]payroll.ValidatedRow, bool, error) {
	var req ValidateRowsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return nil, false, err
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "rows are required", nil)
		return nil, false, errEmptyBatch
	}

	entries := make([]payroll.TimeEntry, 0, len(req.Rows))
	for _, raw := range req.Rows {
		entry, err := raw.toEntry()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date in row", err)
			return nil, false, err
		}
		entries = append(entries, entry)
	}

	ctx := r.Context()
	employees, err := h.Store.EmployeesByID(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employees", err)
		return nil, false, err
	}
	services, err := h.Store.ServicesByID(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load services", err)
		return nil, false, err
	}
	rateCard, err := h.Store.RateCard(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load rate card", err)
		return nil, false, err
	}

	resolver := payroll.RateCardResolver(rateCard, employees)
	opts := payroll.ValidateOptions{IncludeDuplicates: req.IncludeDuplicates}
	rows, err := payroll.ValidateRows(entries, employees, services, resolver, opts, h.Caps)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "validation failed", err)
		return nil, false, err
	}

	clean := true
	for _, row := range rows {
		if !row.Valid() {
			clean = false
			break
		}
	}
	return rows, clean, nil
}

// =============================================================================
// REPORT ENDPOINTS
// =============================================================================

// PeriodTotals returns the aggregated pay report for a period.
// GET /api/reports/period-totals?start=2024-02-01&end=2024-02-29
// Optional filters: employee_id, service_id, employee_type, scope
// (repeatable). format=pdf returns the printable report instead.
func (h *Handler) PeriodTotals(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err)
		return
	}

	ctx := r.Context()
	employees, err := h.Store.EmployeesByID(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employees", err)
		return
	}

	// Leave valuation looks back up to twelve months before the period.
	history, err := h.Store.ListTimeEntries(ctx, start.AddDate(-1, 0, 0), end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load time entries", err)
		return
	}
	payPolicy, err := h.Store.LeavePayPolicy(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load pay policy", err)
		return
	}

	q := r.URL.Query()
	filter := payroll.PeriodFilter{Start: start, End: end}
	for _, v := range q["employee_id"] {
		filter.EmployeeIDs = append(filter.EmployeeIDs, payroll.EmployeeID(v))
	}
	for _, v := range q["service_id"] {
		filter.ServiceIDs = append(filter.ServiceIDs, payroll.ServiceID(v))
	}
	for _, v := range q["employee_type"] {
		filter.EmployeeTypes = append(filter.EmployeeTypes, payroll.EmployeeType(v))
	}
	filter.EmploymentScopes = append(filter.EmploymentScopes, q["scope"]...)

	totals := payroll.ComputePeriodTotals(payroll.PeriodTotalsInput{
		Entries:       history,
		Employees:     employees,
		Filter:        filter,
		LeaveDayValue: payroll.NewLeaveDayValuer(history, payPolicy),
		Caps:          h.Caps,
	})

	if q.Get("format") == "pdf" {
		pdf, err := report.PeriodPDF(totals, employees, start, end)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to render report", err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=period-totals.pdf")
		w.WriteHeader(http.StatusOK)
		w.Write(pdf)
		return
	}
	writeJSON(w, http.StatusOK, periodTotalsDTO(totals))
}

// GlobalDays returns per-day aggregates for salaried employees.
// GET /api/reports/global-days?start=2024-02-01&end=2024-02-29
func (h *Handler) GlobalDays(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err)
		return
	}

	ctx := r.Context()
	employees, err := h.Store.EmployeesByID(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employees", err)
		return
	}
	entries, err := h.Store.ListTimeEntries(ctx, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load time entries", err)
		return
	}

	aggregates := payroll.CollectGlobalDayAggregates(entries, employees, h.Caps)

	keys := make([]string, 0, len(aggregates))
	for k := range aggregates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dtos := make([]DayAggregateDTO, 0, len(keys))
	for _, k := range keys {
		agg := aggregates[k]
		dtos = append(dtos, DayAggregateDTO{
			EmployeeID:  string(agg.EmployeeID),
			Date:        agg.Date.Format("2006-01-02"),
			DayType:     string(agg.DayType),
			Entries:     len(agg.Indices),
			DailyAmount: agg.DailyAmount.InexactFloat64(),
			Multiplier:  agg.Multiplier.InexactFloat64(),
			Payable:     agg.Payable,
			Conflict:    agg.Conflict,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LEAVE ENDPOINTS
// =============================================================================

// LeaveSummary returns the year-by-year leave balance for an employee.
// GET /api/employees/{id}/leave-summary?as_of=2024-06-30
func (h *Handler) LeaveSummary(w http.ResponseWriter, r *http.Request) {
	emp, ledger, policy, asOf, ok := h.leaveContext(w, r)
	if !ok {
		return
	}
	summary := leave.ComputeEmployeeSummary(emp.LeaveTerms(), ledger, policy, asOf)
	writeJSON(w, http.StatusOK, leaveSummaryDTO(summary))
}

// LeaveProjection answers "can this employee take N more days".
// POST /api/employees/{id}/leave-projection
func (h *Handler) LeaveProjection(w http.ResponseWriter, r *http.Request) {
	var req LeaveProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	emp, ledger, policy, asOf, ok := h.leaveContext(w, r)
	if !ok {
		return
	}
	if req.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid as_of", err)
			return
		}
		asOf = parsed
	}

	delta := decimal.NewFromFloat(req.DeltaDays)
	proj := leave.ProjectAfterChange(emp.LeaveTerms(), ledger, policy, asOf, delta)
	writeJSON(w, http.StatusOK, LeaveProjectionDTO{
		Summary:            leaveSummaryDTO(proj.Summary),
		ProjectedRemaining: proj.ProjectedRemaining.InexactFloat64(),
		Allowed:            proj.Allowed,
	})
}

// LeaveLedger returns the employee's ledger in chronological order.
// GET /api/employees/{id}/leave-ledger
func (h *Handler) LeaveLedger(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))
	entries, err := h.Store.LeaveLedger(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load ledger", err)
		return
	}
	if entries == nil {
		entries = []leave.LedgerEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// AppendLeaveLedger normalizes raw ledger records and appends them.
// A single bad record rejects the whole batch.
// POST /api/leave-ledger
func (h *Handler) AppendLeaveLedger(w http.ResponseWriter, r *http.Request) {
	var req AppendLedgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "entries are required", nil)
		return
	}

	entries, err := leave.NormalizeLedgerEntries(req.Entries)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ledger record", err)
		return
	}
	if err := h.Store.AppendLeaveLedger(r.Context(), entries); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to append ledger", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"appended": len(entries)})
}

// leaveContext loads the employee, ledger and policy needed by the
// leave endpoints. Writes the error response itself on failure.
func (h *Handler) leaveContext(w http.ResponseWriter, r *http.Request) (payroll.Employee, []leave.LedgerEntry, leave.Policy, time.Time, bool) {
	var zero payroll.Employee
	ctx := r.Context()
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employee", err)
		return zero, nil, leave.Policy{}, time.Time{}, false
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "employee not found", nil)
		return zero, nil, leave.Policy{}, time.Time{}, false
	}

	ledger, err := h.Store.LeaveLedger(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load ledger", err)
		return zero, nil, leave.Policy{}, time.Time{}, false
	}
	policy, err := h.Store.LeavePolicy(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leave policy", err)
		return zero, nil, leave.Policy{}, time.Time{}, false
	}

	asOf := time.Now().UTC()
	if v := r.URL.Query().Get("as_of"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid as_of", err)
			return zero, nil, leave.Policy{}, time.Time{}, false
		}
		asOf = parsed
	}
	return *emp, ledger, policy, asOf, true
}

// =============================================================================
// SERVICE AND RATE ENDPOINTS
// =============================================================================

// ListServices returns the billable service catalog.
// GET /api/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Store.ServicesByID(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load services", err)
		return
	}

	out := make([]payroll.Service, 0, len(services))
	for _, svc := range services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

// CreateService adds or renames a service.
// POST /api/services
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	svc := payroll.Service{ID: payroll.ServiceID(req.ID), Name: req.Name}
	if err := h.Store.SaveService(r.Context(), svc); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save service", err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

// ListRates returns all rate card entries.
// GET /api/rates
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.RateCard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load rate card", err)
		return
	}
	if entries == nil {
		entries = []payroll.RateCardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// CreateRate adds a rate card entry.
// POST /api/rates
func (h *Handler) CreateRate(w http.ResponseWriter, r *http.Request) {
	var req RateCardEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", nil)
		return
	}
	validFrom, err := time.Parse("2006-01-02", req.ValidFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid valid_from", err)
		return
	}

	entry := payroll.RateCardEntry{
		EmployeeID: payroll.EmployeeID(req.EmployeeID),
		ServiceID:  payroll.ServiceID(req.ServiceID),
		ValidFrom:  validFrom,
		Rate:       decimal.NewFromFloat(req.Rate),
	}
	if err := h.Store.SaveRateCardEntry(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save rate", err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// =============================================================================
// POLICY ENDPOINTS
// =============================================================================

// GetLeavePolicy returns the org leave policy.
// GET /api/policies/leave
func (h *Handler) GetLeavePolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.Store.LeavePolicy(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leave policy", err)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

// PutLeavePolicy replaces the org leave policy.
// PUT /api/policies/leave
func (h *Handler) PutLeavePolicy(w http.ResponseWriter, r *http.Request) {
	var policy leave.Policy
	if err := json.NewDecoder(r.Body).Decode(&policy); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.Store.SaveLeavePolicy(r.Context(), policy); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save leave policy", err)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

// GetLeavePayPolicy returns the leave valuation policy.
// GET /api/policies/leave-pay
func (h *Handler) GetLeavePayPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.Store.LeavePayPolicy(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load pay policy", err)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

// PutLeavePayPolicy replaces the leave valuation policy.
// PUT /api/policies/leave-pay
func (h *Handler) PutLeavePayPolicy(w http.ResponseWriter, r *http.Request) {
	var policy leave.PayPolicy
	if err := json.NewDecoder(r.Body).Decode(&policy); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	switch policy.DefaultMethod {
	case leave.PayMethodLegalLookback, leave.PayMethodAvgHourly, leave.PayMethodFixedRate:
	default:
		writeError(w, http.StatusBadRequest, "unknown pay method", nil)
		return
	}
	if err := h.Store.SaveLeavePayPolicy(r.Context(), policy); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save pay policy", err)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

// LookupHoliday returns the first holiday rule covering a date, or
// null when none matches.
// GET /api/holidays/lookup?date=2024-05-11
func (h *Handler) LookupHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}

	policy, err := h.Store.LeavePolicy(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leave policy", err)
		return
	}
	writeJSON(w, http.StatusOK, leave.FindHolidayForDate(policy, date))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// parsePeriod reads the start/end query params (inclusive dates).
func parsePeriod(r *http.Request) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errPeriodInverted
	}
	return start, end, nil
}
