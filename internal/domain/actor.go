package domain

import "strings"

// Role of the authenticated caller
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleConsultant Role = "consultant"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
)

// ParseRole parses a role claim
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleCustomer, RoleConsultant, RoleStaff, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}

// Actor is the caller identity passed explicitly into every operation
type Actor struct {
	UserID int64
	Role   Role
}

// IsStaff returns true for staff and admin
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

// CanManage returns true if the actor may change the appointment lifecycle
func (a Actor) CanManage(appt *Appointment) bool {
	if a.IsStaff() {
		return true
	}
	return a.Role == RoleConsultant && appt.ConsultantID == a.UserID
}

// CanView returns true if the actor may read the appointment
func (a Actor) CanView(appt *Appointment) bool {
	if a.CanManage(appt) {
		return true
	}
	return a.Role == RoleCustomer && appt.CustomerID == a.UserID
}

// CanListCustomer returns true if the actor may list appointments of the customer
func (a Actor) CanListCustomer(customerID int64) bool {
	return a.IsStaff() || (a.Role == RoleCustomer && a.UserID == customerID)
}

// CanListConsultant returns true if the actor may list appointments of the consultant
func (a Actor) CanListConsultant(consultantID int64) bool {
	return a.IsStaff() || (a.Role == RoleConsultant && a.UserID == consultantID)
}
