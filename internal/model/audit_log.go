package model

// AuditLog records who did what to which entity. Written by the services
// in the same database transaction as the change itself.
type AuditLog struct {
	BaseModel
	ActorID    string `gorm:"type:varchar(255);index" json:"actor_id"`
	ActorEmail string `gorm:"type:varchar(255)" json:"actor_email"`
	Action     string `gorm:"type:varchar(50);not null" json:"action"` // create, update, delete, receive, cancel, ...
	Entity     string `gorm:"type:varchar(50);not null;index" json:"entity"`
	EntityID   string `gorm:"type:varchar(255)" json:"entity_id"`
	Detail     string `gorm:"type:text" json:"detail,omitempty"`
}
