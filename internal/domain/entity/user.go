package entity

// Roles válidos para los usuarios del panel.
const (
	RoleSuperAdmin    = "superadmin"
	RoleBusinessAdmin = "business_admin"
	RoleStoreAdmin    = "store_admin"
	RoleCashier       = "cashier"
)

// ReportRoles roles con acceso a los reportes de ventas.
var ReportRoles = []string{RoleSuperAdmin, RoleBusinessAdmin, RoleStoreAdmin, RoleCashier}

// IsBusinessWideRole indica si el rol ve todas las tiendas del negocio.
func IsBusinessWideRole(role string) bool {
	return role == RoleSuperAdmin || role == RoleBusinessAdmin
}

// IsSingleStoreRole indica si el rol solo ve su propia tienda.
func IsSingleStoreRole(role string) bool {
	return role == RoleStoreAdmin || role == RoleCashier
}
