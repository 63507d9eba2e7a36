package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// Employee represents a row of the users table.
// Phone and HireDate are nullable and serialize as JSON null when absent.
type Employee struct {
	ID       int         `json:"employeeId"`
	Name     string      `json:"employeeName"`
	Phone    pgtype.Text `json:"phone"`
	HireDate pgtype.Date `json:"hireDate"`
}

// EmployeeInput is the request body accepted by the create and update endpoints.
// The name is kept raw so that any JSON value can be coerced to text; a missing or
// null employeename reaches the store as NULL.
type EmployeeInput struct {
	EmployeeName json.RawMessage `json:"employeename"`
}

// NameParam returns the name as a nullable text parameter. Strings are used as is,
// numbers and booleans take their textual form, objects and arrays their compact JSON.
func (in EmployeeInput) NameParam() (pgtype.Text, error) {
	if len(in.EmployeeName) == 0 {
		return pgtype.Text{}, nil
	}

	var value any
	if err := json.Unmarshal(in.EmployeeName, &value); err != nil {
		return pgtype.Text{}, fmt.Errorf("failed to decode employeename: %w", err)
	}

	switch typed := value.(type) {
	case nil:
		return pgtype.Text{}, nil
	case string:
		return pgtype.Text{String: typed, Valid: true}, nil
	case float64:
		return pgtype.Text{String: strconv.FormatFloat(typed, 'f', -1, 64), Valid: true}, nil
	case bool:
		return pgtype.Text{String: strconv.FormatBool(typed), Valid: true}, nil
	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, in.EmployeeName); err != nil {
			return pgtype.Text{}, fmt.Errorf("failed to compact employeename: %w", err)
		}
		return pgtype.Text{String: compact.String(), Valid: true}, nil
	}
}
