package auth

import "github.com/dukerupert/megapdv/internal/domain"

// Action is a capability gated by role.
type Action string

const (
	ActionViewDashboard  Action = "view_dashboard"
	ActionOperatePDV     Action = "operate_pdv"
	ActionManageProducts Action = "manage_products"
	ActionViewSales      Action = "view_sales"
	ActionManageUsers    Action = "manage_users"
	ActionViewReports    Action = "view_reports"
)

var permissions = map[domain.Role]map[Action]bool{
	domain.RoleAdmin: {
		ActionViewDashboard:  true,
		ActionOperatePDV:     true,
		ActionManageProducts: true,
		ActionViewSales:      true,
		ActionManageUsers:    true,
		ActionViewReports:    true,
	},
	domain.RoleManager: {
		ActionViewDashboard:  true,
		ActionOperatePDV:     true,
		ActionManageProducts: true,
		ActionViewSales:      true,
		ActionViewReports:    true,
	},
	domain.RoleCashier: {
		ActionOperatePDV: true,
		ActionViewSales:  true,
	},
}

// Can reports whether role may perform action. Unknown roles can do nothing.
func Can(role domain.Role, action Action) bool {
	return permissions[role][action]
}

// MenuItem is one entry of the back-office navigation.
type MenuItem struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Action Action `json:"action"`
}

var menu = []MenuItem{
	{Label: "Dashboard", Path: "/dashboard", Action: ActionViewDashboard},
	{Label: "PDV", Path: "/pdv", Action: ActionOperatePDV},
	{Label: "Produtos", Path: "/products", Action: ActionManageProducts},
	{Label: "Vendas", Path: "/sales", Action: ActionViewSales},
	{Label: "Usuários", Path: "/users", Action: ActionManageUsers},
	{Label: "Relatórios", Path: "/reports", Action: ActionViewReports},
}

// Menu returns the navigation entries role is allowed to open.
func Menu(role domain.Role) []MenuItem {
	items := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if Can(role, item.Action) {
			items = append(items, item)
		}
	}
	return items
}

// HomePath is where a user lands after login: the dashboard when allowed,
// otherwise the register.
func HomePath(role domain.Role) string {
	if Can(role, ActionViewDashboard) {
		return "/dashboard"
	}
	return "/pdv"
}
