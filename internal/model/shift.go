package model

import "time"

// 班次状态
const (
	ShiftStatusDraft      = "draft"
	ShiftStatusPublished  = "published"
	ShiftStatusInProgress = "inProgress"
	ShiftStatusCompleted  = "completed"
	ShiftStatusCancelled  = "cancelled"
)

// 班次时段与类型
const (
	TimeTypeDay   = "day"
	TimeTypeNight = "night"

	ShiftTypeNormal = "normal"
	ShiftTypeFiller = "filler"
)

// 排班分配状态
const (
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusCompleted = "completed"
	AssignmentStatusCancelled = "cancelled"
)

// Shift 班次表，对应 shifts
// ScheduledStart / ScheduledEnd 为绝对时间戳，跨午夜班次同样成立
type Shift struct {
	ShiftID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	ProjectID        string    `gorm:"type:uuid;not null;index"                       json:"project_id"`
	ShiftLeaderID    *string   `gorm:"type:uuid"                                      json:"shift_leader_id,omitempty"`
	GatemanID        *string   `gorm:"type:uuid"                                      json:"gateman_id,omitempty"`
	Date             time.Time `gorm:"type:date;not null"                             json:"date"`
	TimeType         string    `gorm:"type:varchar(10);not null;default:'day'"        json:"time_type"` // day | night
	ScheduledStart   time.Time `gorm:"not null;index"                                 json:"scheduled_start"`
	ScheduledEnd     time.Time `gorm:"not null"                                       json:"scheduled_end"`
	RequiredStudents int       `gorm:"not null;default:0"                             json:"required_students"`
	AssignedCount    int       `gorm:"not null;default:0"                             json:"assigned_count"`
	ShiftType        string    `gorm:"type:varchar(10);not null;default:'normal'"     json:"shift_type"` // normal | filler
	Status           string    `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"`
	CreatedBy        string    `gorm:"type:uuid;not null"                             json:"created_by"`
	CreatedByRole    string    `gorm:"type:varchar(20);not null"                      json:"created_by_role"`
	BaseModel

	// 关联
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// ShiftAssignment 排班分配表，对应 shift_assignments
type ShiftAssignment struct {
	AssignmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	ShiftID      string `gorm:"type:uuid;not null;index"                       json:"shift_id"`
	StudentID    string `gorm:"type:uuid;not null;index"                       json:"student_id"`
	Status       string `gorm:"type:varchar(20);not null;default:'assigned'"   json:"status"` // assigned | completed | cancelled
	BaseModel

	// 关联
	Shift *Shift `gorm:"foreignKey:ShiftID" json:"shift,omitempty"`
}

// TableName 指定表名
func (ShiftAssignment) TableName() string { return "shift_assignments" }
