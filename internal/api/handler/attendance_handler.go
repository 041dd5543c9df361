package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shift-hub/backend/internal/dto"
	"shift-hub/backend/internal/service"
	"shift-hub/backend/pkg/response"
)

// AttendanceHandler 考勤处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	now           func() time.Time
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc, now: time.Now}
}

// ClockIn 学生打卡
// POST /api/v1/attendance/clock-in
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.ClockIn(c.Request.Context(), req.ShiftID, userID, h.at(req.At))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// ClockOut 学生签退
// POST /api/v1/attendance/clock-out
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.ClockOut(c.Request.Context(), req.ShiftID, userID, h.at(req.At))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Verify 班长 / 门卫核验考勤
// POST /api/v1/attendance/verify
func (h *AttendanceHandler) Verify(c *gin.Context) {
	verifierID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.VerifyAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.Verify(c.Request.Context(), req.ShiftID, req.StudentID, verifierID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ListForShift 查询班次的全部考勤记录
// GET /api/v1/attendance/shifts/:id
func (h *AttendanceHandler) ListForShift(c *gin.Context) {
	shiftID := c.Param("id")
	if _, err := uuid.Parse(shiftID); err != nil {
		response.BadRequest(c, 10001, "无效的班次 ID")
		return
	}

	result, err := h.attendanceSvc.ListForShift(c.Request.Context(), shiftID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// at 请求未携带时间时使用服务器当前时间
func (h *AttendanceHandler) at(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return h.now()
}

func (h *AttendanceHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 14001, "班次不存在")
	case errors.Is(err, service.ErrAttendanceNotFound):
		response.NotFound(c, 14002, "考勤记录不存在")
	case errors.Is(err, service.ErrNotAssigned):
		response.Forbidden(c, 14003, "未分配到该班次")
	case errors.Is(err, service.ErrShiftCancelled):
		response.BadRequest(c, 14004, "班次已取消")
	case errors.Is(err, service.ErrClockOutBeforeIn):
		response.BadRequest(c, 14005, "签退时间不能早于打卡时间")
	case errors.Is(err, service.ErrNotClockedIn):
		response.BadRequest(c, 14006, "尚未打卡")
	case errors.Is(err, service.ErrAlreadyClockedIn):
		response.Conflict(c, 14007, "已打卡，不能重复打卡")
	case errors.Is(err, service.ErrAlreadyClockedOut):
		response.Conflict(c, 14008, "已签退")
	case errors.Is(err, service.ErrAlreadyVerified):
		response.Conflict(c, 14009, "考勤记录已核验")
	case errors.Is(err, service.ErrAttendanceConflict):
		response.Conflict(c, 14010, "考勤记录已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
