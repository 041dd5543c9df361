package model

// 项目状态
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusSuspended = "suspended"
)

// 成员状态
const (
	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"
)

// 成员类型
const (
	MembershipOwner       = "owner"
	MembershipStudent     = "student"
	MembershipShiftLeader = "shiftLeader"
	MembershipClient      = "client"
	MembershipManager     = "manager"
	MembershipMember      = "member"
	MembershipObserver    = "observer"
)

// Project 项目表，对应 projects
type Project struct {
	ProjectID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"project_id"`
	Name        string  `gorm:"type:varchar(200);not null"                     json:"name"`
	Description *string `gorm:"type:text"                                      json:"description,omitempty"`
	Status      string  `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | completed | suspended
	OwnerID     string  `gorm:"type:uuid;not null;index"                       json:"owner_id"`
	OwnerRole   string  `gorm:"type:varchar(20);not null"                      json:"owner_role"` // admin | client
	BaseModel
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }

// ProjectMember 项目成员表，对应 project_members
type ProjectMember struct {
	MemberID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	ProjectID      string `gorm:"type:uuid;not null;index"                       json:"project_id"`
	UserID         string `gorm:"type:uuid;not null;index"                       json:"user_id"`
	UserRole       string `gorm:"type:varchar(20);not null"                      json:"user_role"`
	MembershipType string `gorm:"type:varchar(20);not null"                      json:"membership_type"`
	AddedBy        string `gorm:"type:uuid;not null"                             json:"added_by"`
	AddedByRole    string `gorm:"type:varchar(20);not null"                      json:"added_by_role"`
	Status         string `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | inactive
	BaseModel
}

// TableName 指定表名
func (ProjectMember) TableName() string { return "project_members" }
