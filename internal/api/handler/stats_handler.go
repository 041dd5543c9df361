package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shift-hub/backend/internal/service"
	"shift-hub/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StatsHandler 工时统计处理器
type StatsHandler struct {
	statsSvc  service.StatsService
	exportSvc service.ExportService
	timeout   time.Duration
	now       func() time.Time
}

// NewStatsHandler 创建 StatsHandler
func NewStatsHandler(statsSvc service.StatsService, exportSvc service.ExportService, timeout time.Duration) *StatsHandler {
	return &StatsHandler{
		statsSvc:  statsSvc,
		exportSvc: exportSvc,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Me 当前用户的项目工时统计
// GET /api/v1/stats/me
func (h *StatsHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	h.respondStats(c, userID)
}

// Worker 指定工作人员的项目工时统计
// GET /api/v1/stats/workers/:id
func (h *StatsHandler) Worker(c *gin.Context) {
	userID := c.Param("id")
	if _, err := uuid.Parse(userID); err != nil {
		response.BadRequest(c, 10001, "无效的用户 ID")
		return
	}
	h.respondStats(c, userID)
}

// ExportMe 导出当前用户的工时统计 Excel
// GET /api/v1/stats/me/export
func (h *StatsHandler) ExportMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	buf, filename, err := h.exportSvc.ExportStats(ctx, userID, h.now())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.File(c, xlsxContentType, filename, buf.Bytes())
}

// respondStats 聚合永不失败，超时或存储故障时返回全零结果
func (h *StatsHandler) respondStats(c *gin.Context, userID string) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	response.OK(c, h.statsSvc.Aggregate(ctx, userID, h.now()))
}

func (h *StatsHandler) withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}
