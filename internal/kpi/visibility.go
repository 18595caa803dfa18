package kpi

import (
	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/internal/auth"
	"github.com/mazta/kpi-dashboard/internal/sheets"
)

// Scope is the caller's visibility: role plus the department and person
// the session is bound to.
type Scope struct {
	Role       auth.Role
	Department string
	Personal   string
}

func ScopeFromSession(s auth.Session) Scope {
	return Scope{
		Role:       s.Role,
		Department: s.Department,
		Personal:   s.Personal,
	}
}

// SeesAllDepartments is true only for admins. The legacy "ALL"
// department wildcard is deliberately not honored for other roles.
func (s Scope) SeesAllDepartments() bool {
	return s.Role == auth.RoleAdmin
}

// CanViewDepartment rejects a head or staff caller asking about a
// department other than their own. A rejection is a permission error,
// distinct from an empty result.
func (s Scope) CanViewDepartment(dept string) error {
	if s.SeesAllDepartments() {
		return nil
	}
	if sheets.EqualFold(s.Department, dept) {
		return nil
	}
	return internal.ErrDepartmentDenied
}

// VisibleRecords returns the subset of records the caller may see.
// Admin sees everything unchanged. Head sees their department. Staff see
// their department and, on employee-scoped sheets, only their own rows.
// Pure over its inputs.
func VisibleRecords(records []sheets.Record, scope Scope, employeeScoped bool) []sheets.Record {
	if scope.SeesAllDepartments() {
		return records
	}

	out := make([]sheets.Record, 0, len(records))
	for _, rec := range records {
		if !sheets.EqualFold(rec.Department(), scope.Department) {
			continue
		}
		if employeeScoped && scope.Role == auth.RoleStaff && scope.Personal != "" &&
			!sheets.EqualFold(rec.Personal(), scope.Personal) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
