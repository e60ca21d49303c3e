package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management (OWNER only)
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Product management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	{Code: "product:adjust_stock", Name: "Adjust Product Stock"},
	// Supplier management
	{Code: "supplier:view", Name: "View Supplier"},
	{Code: "supplier:create", Name: "Create Supplier"},
	{Code: "supplier:update", Name: "Update Supplier"},
	{Code: "supplier:delete", Name: "Delete Supplier"},
	// Purchase orders
	{Code: "purchase_order:view", Name: "View Purchase Order"},
	{Code: "purchase_order:create", Name: "Create Purchase Order"},
	{Code: "purchase_order:approve", Name: "Approve Purchase Order"},
	{Code: "purchase_order:receive", Name: "Receive Purchase Order"},
	{Code: "purchase_order:cancel", Name: "Cancel Purchase Order"},
	{Code: "purchase_order:delete", Name: "Delete Purchase Order"},
	// Cashier
	{Code: "transaction:view", Name: "View Transaction"},
	{Code: "transaction:create", Name: "Create Transaction"},
	// Audit trails (OWNER only)
	{Code: "audit:view", Name: "View Audit Logs"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
