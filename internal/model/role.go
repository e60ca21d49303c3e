package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // OWNER, PEGAWAI
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleOwner   = "OWNER"
	RolePegawai = "PEGAWAI"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleOwner,
		Name:        "Owner",
		Description: "Full access: inventory, purchasing, users, and audit trails",
	},
	{
		Code:        RolePegawai,
		Name:        "Pegawai",
		Description: "Cashier and day-to-day inventory access",
	},
}
