package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/UnknownOlympus/demeter/internal/lib/logger/sl"
	"github.com/UnknownOlympus/demeter/internal/models"
	"github.com/UnknownOlympus/demeter/internal/repository"
)

// Messages returned to clients. Store error details are only ever logged.
const (
	MsgNotFound     = "User not found"
	MsgListFailed   = "Error fetching users from the database"
	MsgCreateFailed = "Error creating user in the database"
	MsgGetFailed    = "Error fetching user from the database"
	MsgUpdateFailed = "Error updating user in the database"
	MsgDeleteFailed = "Error deleting user from the database"
)

type messageResponse struct {
	Message string `json:"message"`
}

// Handlers serves the /users endpoints on top of an employee repository.
type Handlers struct {
	log  *slog.Logger
	repo repository.EmployeeRepoIface
}

func NewHandlers(log *slog.Logger, repo repository.EmployeeRepoIface) *Handlers {
	return &Handlers{log: log, repo: repo}
}

func (h *Handlers) initLogger(opn string, req *http.Request) *slog.Logger {
	return h.log.With(
		slog.String("op", opn),
		slog.String("division", "http"),
		slog.String("request_id", middleware.GetReqID(req.Context())),
	)
}

// ListEmployees handles GET /users.
func (h *Handlers) ListEmployees(writer http.ResponseWriter, req *http.Request) {
	const opn = "Handlers.ListEmployees"
	log := h.initLogger(opn, req)

	employees, err := h.repo.ListEmployees(req.Context())
	if err != nil {
		log.ErrorContext(req.Context(), "Failed to list employees", sl.Err(err))
		h.writeJSON(writer, req, http.StatusInternalServerError, messageResponse{Message: MsgListFailed})
		return
	}

	h.writeJSON(writer, req, http.StatusOK, employees)
}

// CreateEmployee handles POST /users. Only the name is stored; phone and hire date stay null.
func (h *Handlers) CreateEmployee(writer http.ResponseWriter, req *http.Request) {
	const opn = "Handlers.CreateEmployee"
	log := h.initLogger(opn, req)

	name, err := decodeName(req)
	if err != nil {
		log.ErrorContext(req.Context(), "Failed to decode request body", sl.Err(err))
		h.writeJSON(writer, req, http.StatusInternalServerError, messageResponse{Message: MsgCreateFailed})
		return
	}

	employee, err := h.repo.CreateEmployee(req.Context(), name)
	if err != nil {
		log.ErrorContext(req.Context(), "Failed to create employee", sl.Err(err))
		h.writeJSON(writer, req, http.StatusInternalServerError, messageResponse{Message: MsgCreateFailed})
		return
	}

	log.DebugContext(req.Context(), "Employee created", "id", employee.ID)
	h.writeJSON(writer, req, http.StatusCreated, employee)
}

// GetEmployee handles GET /users/{id}.
func (h *Handlers) GetEmployee(writer http.ResponseWriter, req *http.Request) {
	const opn = "Handlers.GetEmployee"
	log := h.initLogger(opn, req)

	identifier, ok := parseEmployeeID(chi.URLParam(req, "id"))
	if !ok {
		h.notFound(writer, req, log)
		return
	}

	employee, err := h.repo.GetEmployeeByID(req.Context(), identifier)
	h.respondWithRow(writer, req, log, employee, err, MsgGetFailed)
}

// UpdateEmployee handles PUT /users/{id}. Only the name can be changed.
func (h *Handlers) UpdateEmployee(writer http.ResponseWriter, req *http.Request) {
	const opn = "Handlers.UpdateEmployee"
	log := h.initLogger(opn, req)

	identifier, ok := parseEmployeeID(chi.URLParam(req, "id"))
	if !ok {
		h.notFound(writer, req, log)
		return
	}

	name, err := decodeName(req)
	if err != nil {
		log.ErrorContext(req.Context(), "Failed to decode request body", sl.Err(err))
		h.writeJSON(writer, req, http.StatusInternalServerError, messageResponse{Message: MsgUpdateFailed})
		return
	}

	employee, err := h.repo.UpdateEmployeeName(req.Context(), identifier, name)
	h.respondWithRow(writer, req, log, employee, err, MsgUpdateFailed)
}

// DeleteEmployee handles DELETE /users/{id} and answers with the removed row.
func (h *Handlers) DeleteEmployee(writer http.ResponseWriter, req *http.Request) {
	const opn = "Handlers.DeleteEmployee"
	log := h.initLogger(opn, req)

	identifier, ok := parseEmployeeID(chi.URLParam(req, "id"))
	if !ok {
		h.notFound(writer, req, log)
		return
	}

	employee, err := h.repo.DeleteEmployee(req.Context(), identifier)
	h.respondWithRow(writer, req, log, employee, err, MsgDeleteFailed)
}

// decodeName reads the {"employeename": ...} body and coerces the name to text.
func decodeName(req *http.Request) (pgtype.Text, error) {
	var input models.EmployeeInput
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		return pgtype.Text{}, fmt.Errorf("failed to decode body: %w", err)
	}

	return input.NameParam()
}

func (h *Handlers) respondWithRow(
	writer http.ResponseWriter,
	req *http.Request,
	log *slog.Logger,
	employee models.Employee,
	err error,
	failure string,
) {
	switch {
	case errors.Is(err, repository.ErrEmployeeNotFound):
		h.notFound(writer, req, log)
	case err != nil:
		log.ErrorContext(req.Context(), "Store request failed", sl.Err(err))
		h.writeJSON(writer, req, http.StatusInternalServerError, messageResponse{Message: failure})
	default:
		h.writeJSON(writer, req, http.StatusOK, employee)
	}
}

func (h *Handlers) notFound(writer http.ResponseWriter, req *http.Request, log *slog.Logger) {
	log.DebugContext(req.Context(), "Employee not found", "id", chi.URLParam(req, "id"))
	h.writeJSON(writer, req, http.StatusNotFound, messageResponse{Message: MsgNotFound})
}

func (h *Handlers) writeJSON(writer http.ResponseWriter, req *http.Request, status int, body any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write response", sl.Err(err))
	}
}

// parseEmployeeID reads the leading base-10 integer of raw: leading whitespace and one sign
// are skipped and parsing stops at the first non-digit, so "4abc", "4.0" and "1e3" all
// yield their integer prefix. Without any digit, or outside the SERIAL column range,
// no row can match and callers answer 404 without asking the store.
func parseEmployeeID(raw string) (int, bool) {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)

	end := 0
	if end < len(trimmed) && (trimmed[end] == '+' || trimmed[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	identifier, err := strconv.ParseInt(trimmed[:end], 10, 32)
	if err != nil {
		return 0, false
	}

	return int(identifier), true
}
