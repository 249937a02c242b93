package services

import "inventory_backend/internal/models"

// Actions gated by role. Every mutating or sensitive route names one of
// these; the check is an explicit function call, independent of any UI or
// framework construct.
const (
	ActionManageUsers      = "users:manage"
	ActionManageCategories = "categories:manage"
	ActionManageProducts   = "products:manage"
	ActionViewProducts     = "products:view"
	ActionRecordSale       = "sales:record"
	ActionUndoSale         = "sales:undo"
	ActionViewReports      = "reports:view"
	ActionViewLogs         = "logs:view"
	ActionPruneLogs        = "logs:prune"
)

var rolePermissions = map[string][]string{
	models.RoleAdmin: {
		ActionManageUsers, ActionManageCategories, ActionManageProducts, ActionViewProducts,
		ActionRecordSale, ActionUndoSale, ActionViewReports, ActionViewLogs, ActionPruneLogs,
	},
	models.RoleManager: {
		ActionManageCategories, ActionManageProducts, ActionViewProducts,
		ActionRecordSale, ActionUndoSale, ActionViewReports, ActionViewLogs,
	},
	models.RoleRetailer: {
		ActionViewProducts, ActionRecordSale, ActionViewReports,
	},
}

// Can reports whether a role is allowed to perform an action. Unknown roles
// and unknown actions are both denied.
func Can(role, action string) bool {
	for _, allowed := range rolePermissions[role] {
		if allowed == action {
			return true
		}
	}
	return false
}
