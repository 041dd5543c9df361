package handler

import (
	"github.com/gin-gonic/gin"

	"shift-hub/backend/internal/service"
	"shift-hub/backend/pkg/response"
)

// CalendarHandler 班次日历订阅处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// MyShifts 导出当前用户已分配班次为 iCalendar
// GET /api/v1/shifts/me/calendar.ics
func (h *CalendarHandler) MyShifts(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	body, err := h.calendarSvc.ExportShifts(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.File(c, "text/calendar; charset=utf-8", "shifts.ics", []byte(body))
}
