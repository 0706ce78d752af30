package auth

import "sort"

// Permission is an action string checked by the permission gate.
type Permission string

const (
	PermManageUsers         Permission = "manage_users"
	PermManageDepartments   Permission = "manage_departments"
	PermViewActivityLog     Permission = "view_activity_log"
	PermViewReports         Permission = "view_reports"
	PermViewEvents          Permission = "view_events"
	PermManageEvents        Permission = "manage_events"
	PermSellTickets         Permission = "sell_tickets"
	PermPurchaseTickets     Permission = "purchase_tickets"
	PermCheckInTickets      Permission = "check_in_tickets"
	PermViewInventory       Permission = "view_inventory"
	PermManageInventory     Permission = "manage_inventory"
	PermProcessSales        Permission = "process_sales"
	PermViewSales           Permission = "view_sales"
	PermViewMembers         Permission = "view_members"
	PermManageMembers       Permission = "manage_members"
	PermViewOwnMembership   Permission = "view_own_membership"
	PermManageOwnMembership Permission = "manage_own_membership"
)

// permissionTable maps each non-admin role to its allowed actions. Admin
// passes every check in Identity.Can and has no entry.
var permissionTable = map[Role]map[Permission]bool{
	RoleCurator: set(
		PermViewReports,
		PermViewEvents,
		PermManageEvents,
	),
	RoleShopStaff: set(
		PermViewInventory,
		PermManageInventory,
		PermProcessSales,
		PermViewSales,
	),
	RoleEventStaff: set(
		PermViewEvents,
		PermManageEvents,
		PermSellTickets,
		PermCheckInTickets,
		PermViewMembers,
		PermManageMembers,
	),
	RoleMember: set(
		PermViewEvents,
		PermPurchaseTickets,
		PermViewOwnMembership,
		PermManageOwnMembership,
	),
}

// allPermissions is what an admin is shown on the dashboard.
var allPermissions = []Permission{
	PermManageUsers, PermManageDepartments, PermViewActivityLog, PermViewReports,
	PermViewEvents, PermManageEvents, PermSellTickets, PermPurchaseTickets,
	PermCheckInTickets, PermViewInventory, PermManageInventory, PermProcessSales,
	PermViewSales, PermViewMembers, PermManageMembers, PermViewOwnMembership,
	PermManageOwnMembership,
}

func set(perms ...Permission) map[Permission]bool {
	m := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}

// Allowed is the raw table lookup without the admin bypass.
func Allowed(role Role, p Permission) bool {
	return permissionTable[role][p]
}

// PermissionsFor returns the sorted action list granted to a role.
func PermissionsFor(role Role) []Permission {
	if role == RoleAdmin {
		out := make([]Permission, len(allPermissions))
		copy(out, allPermissions)
		return out
	}
	out := make([]Permission, 0, len(permissionTable[role]))
	for p := range permissionTable[role] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
