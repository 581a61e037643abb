package model

import "github.com/samber/lo"

// Role is the closed set of identities a user can hold.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleGuest   Role = "guest"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleManager, RoleStaff, RoleGuest}

// Capability names an operation family gated by role.
type Capability string

const (
	CapManageUsers      Capability = "manage_users"
	CapManageFacilities Capability = "manage_facilities"
	CapManageEmployees  Capability = "manage_employees"
	CapManageInventory  Capability = "manage_inventory"
	CapManageAccounts   Capability = "manage_accounts"
	CapViewFinancials   Capability = "view_financials"
	CapViewReports      Capability = "view_reports"
	CapFrontDesk        Capability = "front_desk"
	CapRecordSales      Capability = "record_sales"
	CapViewAllRecords   Capability = "view_all_records"
	CapViewFacilities   Capability = "view_facilities"
	CapSelfService      Capability = "self_service"
)

var (
	guestCaps = []Capability{CapViewFacilities, CapSelfService}
	staffCaps = append([]Capability{CapFrontDesk, CapRecordSales, CapViewAllRecords}, guestCaps...)
	mgrCaps   = append([]Capability{CapViewReports}, staffCaps...)
	adminCaps = append([]Capability{
		CapManageUsers, CapManageFacilities, CapManageEmployees,
		CapManageInventory, CapManageAccounts, CapViewFinancials,
	}, mgrCaps...)
)

// capabilities is the single source of truth for authorization.
var capabilities = map[Role][]Capability{
	RoleAdmin:   adminCaps,
	RoleManager: mgrCaps,
	RoleStaff:   staffCaps,
	RoleGuest:   guestCaps,
}

// ParseRole accepts only the enumerated role names.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

func (r Role) Valid() bool { return lo.Contains(Roles, r) }

// Can reports whether r holds c.  Unknown roles hold nothing.
func (r Role) Can(c Capability) bool { return lo.Contains(capabilities[r], c) }

// Elevated reports whether r sees every row of user-scoped collections.
func (r Role) Elevated() bool { return r.Can(CapViewAllRecords) }
