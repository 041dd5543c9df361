package handler

import (
	"github.com/gin-gonic/gin"

	"shift-hub/backend/internal/dto"
	"shift-hub/backend/internal/service"
	"shift-hub/backend/pkg/response"
)

// UserHandler 跨角色用户查询处理器
type UserHandler struct {
	identitySvc service.IdentityService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(identitySvc service.IdentityService) *UserHandler {
	return &UserHandler{identitySvc: identitySvc}
}

// Lookup 按邮箱或 ID 在所有角色分区中查找用户
// GET /api/v1/users/lookup?email=xxx 或 ?id=xxx
// 查找结果统一以信封形式返回，未找到时 status=error
func (h *UserHandler) Lookup(c *gin.Context) {
	var req dto.UserLookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	switch {
	case req.Email != "" && req.ID != "":
		response.BadRequest(c, 10001, "email 与 id 只能二选一")
	case req.Email != "":
		response.OK(c, h.identitySvc.LookupByEmailEnvelope(c.Request.Context(), req.Email))
	case req.ID != "":
		response.OK(c, h.identitySvc.LookupByIDEnvelope(c.Request.Context(), req.ID))
	default:
		response.BadRequest(c, 10001, "email 或 id 不能为空")
	}
}
