package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shift-hub/backend/pkg/metrics"
)

// Metrics Prometheus 请求指标中间件
// route 取注册时的路由模板，避免路径参数撑爆标签基数
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
