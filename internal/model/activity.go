package model

import "time"

// Activity action tags written to activity_log.action.
const (
	ActionLogin             = "LOGIN"
	ActionLogout            = "LOGOUT"
	ActionCreateUser        = "CREATE_USER"
	ActionUpdateUser        = "UPDATE_USER"
	ActionCreateDepartment  = "CREATE_DEPARTMENT"
	ActionAssignManager     = "ASSIGN_MANAGER"
	ActionCreateEvent       = "CREATE_EVENT"
	ActionPurchaseTicket    = "PURCHASE_TICKET"
	ActionCheckIn           = "CHECK_IN"
	ActionCreateItem        = "CREATE_ITEM"
	ActionSale              = "SALE"
	ActionReorderConfirmed  = "REORDER_CONFIRMED"
	ActionReorderRejected   = "REORDER_REJECTED"
	ActionMembershipRenew   = "MEMBERSHIP_RENEW"
	ActionMembershipUpgrade = "MEMBERSHIP_UPGRADE"
	ActionMembershipDown    = "MEMBERSHIP_DOWNGRADE"
	ActionMembershipCancel  = "MEMBERSHIP_CANCEL"
)

// ActivityLogEntry is an immutable, append-only audit row.
type ActivityLogEntry struct {
	ID          uint64    `json:"log_id"`      // activity_log.log_id
	UserID      *uint64   `json:"user_id"`     // activity_log.user_id (nullable)
	Action      string    `json:"action"`      // activity_log.action
	TableName   string    `json:"table_name"`  // activity_log.table_name
	RecordID    *uint64   `json:"record_id"`   // activity_log.record_id (nullable)
	Description string    `json:"description"` // activity_log.description
	IPAddress   string    `json:"ip_address"`  // activity_log.ip_address
	CreatedAt   time.Time `json:"created_at"`  // activity_log.created_at
}
