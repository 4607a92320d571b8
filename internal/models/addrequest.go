package models

import "time"

// AddRequestStatus is the review state of a user-submitted add-request.
type AddRequestStatus string

const (
	AddRequestPending  AddRequestStatus = "pending"
	AddRequestApproved AddRequestStatus = "approved"
	AddRequestRejected AddRequestStatus = "rejected"
)

// AddRequest is an external entity from the web/API surface: a user's
// request to index a repository. The core only reads rows whose status
// has transitioned to "approved".
type AddRequest struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Owner     string           `gorm:"size:255;index" json:"owner"`
	Repo      string           `gorm:"size:255;index" json:"repo"`
	UserEmail string           `gorm:"size:255" json:"user_email"`
	Locale    string           `gorm:"size:10;default:en" json:"locale"`
	Status    AddRequestStatus `gorm:"size:20;index" json:"status"`

	ProcessedAt *time.Time `json:"processed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (AddRequest) TableName() string { return "add_requests" }

// RemovalRequestStatus is the review state of a removal request.
type RemovalRequestStatus string

const (
	RemovalRequestPending  RemovalRequestStatus = "pending"
	RemovalRequestApproved RemovalRequestStatus = "approved"
	RemovalRequestRejected RemovalRequestStatus = "rejected"
)

// RemovalRequest is an external entity: a request to block a skill. The
// core writes the resolution status and, when approved, sets is_blocked
// on the target skill.
type RemovalRequest struct {
	ID      uint                 `gorm:"primaryKey;autoIncrement" json:"id"`
	SkillID string               `gorm:"size:400;index" json:"skill_id"`
	Reason  string               `gorm:"size:1000" json:"reason"`
	Status  RemovalRequestStatus `gorm:"size:20;index" json:"status"`

	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (RemovalRequest) TableName() string { return "removal_requests" }
