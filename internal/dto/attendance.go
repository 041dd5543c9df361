package dto

import "time"

// ── 考勤模块 DTO ──

// ClockRequest 打卡 / 签退请求，at 为空时取服务器当前时间
type ClockRequest struct {
	ShiftID string     `json:"shiftId" binding:"required,uuid"`
	At      *time.Time `json:"at"`
}

// VerifyAttendanceRequest 核验请求
type VerifyAttendanceRequest struct {
	ShiftID   string `json:"shiftId"   binding:"required,uuid"`
	StudentID string `json:"studentId" binding:"required,uuid"`
}

// AttendanceResponse 考勤记录响应
type AttendanceResponse struct {
	AttendanceID       string  `json:"attendanceId"`
	ShiftID            string  `json:"shiftId"`
	StudentID          string  `json:"studentId"`
	ClockInTime        *string `json:"clockInTime"`
	ClockOutTime       *string `json:"clockOutTime"`
	AttendanceStatus   string  `json:"attendanceStatus"`
	IsLate             bool    `json:"isLate"`
	VerificationStatus string  `json:"verificationStatus"`
	VerifiedBy         *string `json:"verifiedBy"`
	VerifiedAt         *string `json:"verifiedAt"`
}
