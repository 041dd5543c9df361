package dto

import (
	"time"

	"shift-hub/backend/internal/model"
)

// ── 用户 / 身份解析 DTO ──

// 信封状态
const (
	EnvelopeSuccess = "success"
	EnvelopeError   = "error"
)

// UserLookupRequest 按邮箱或 ID 查找工作人员（二选一）
type UserLookupRequest struct {
	Email string `form:"email" binding:"omitempty,email"`
	ID    string `form:"id"    binding:"omitempty,uuid"`
}

// WorkerResponse 工作人员信息
type WorkerResponse struct {
	UserID    string                  `json:"userId"`
	Role      string                  `json:"role"`
	FirstName string                  `json:"firstName"`
	LastName  string                  `json:"lastName"`
	Email     string                  `json:"email"`
	Phone     *string                 `json:"phone,omitempty"`
	CreatedAt string                  `json:"createdAt"`
	Student   *StudentProfileResponse `json:"student,omitempty"`
	Gateman   *GatemanProfileResponse `json:"gateman,omitempty"`
}

// StudentProfileResponse 学生专属字段
type StudentProfileResponse struct {
	DateOfBirth        *string `json:"dateOfBirth,omitempty"`
	AvailabilityStatus string  `json:"availabilityStatus"`
	PunctualityScore   float64 `json:"punctualityScore"`
	Rating             float64 `json:"rating"`
}

// GatemanProfileResponse 门卫专属字段
type GatemanProfileResponse struct {
	ClientID *string `json:"clientId"`
}

// UserEnvelope 身份解析结果信封，data 为 null 时 status=error
type UserEnvelope struct {
	Status   string          `json:"status"`
	Data     *WorkerResponse `json:"data"`
	Message  string          `json:"message,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// NewWorkerResponse 将领域模型转换为响应
func NewWorkerResponse(w *model.Worker) WorkerResponse {
	resp := WorkerResponse{
		UserID:    w.UserID,
		Role:      w.Role,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Email:     w.Email,
		Phone:     w.Phone,
		CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339),
	}
	if w.Student != nil {
		sp := &StudentProfileResponse{
			AvailabilityStatus: w.Student.AvailabilityStatus,
			PunctualityScore:   w.Student.PunctualityScore,
			Rating:             w.Student.Rating,
		}
		if w.Student.DateOfBirth != nil {
			dob := w.Student.DateOfBirth.Format("2006-01-02")
			sp.DateOfBirth = &dob
		}
		resp.Student = sp
	}
	if w.Gateman != nil {
		resp.Gateman = &GatemanProfileResponse{ClientID: w.Gateman.ClientID}
	}
	return resp
}
