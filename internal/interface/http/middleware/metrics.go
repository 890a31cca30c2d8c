package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/benhanover/kaplat/pkg/metrics"
)

// Metrics HTTP指标中间件
// 设计说明:
// 1. path标签用路由模板(c.FullPath)而不是原始URL,
//    避免查询参数导致标签基数爆炸
// 2. 指标未初始化时所有记录函数都是空操作,测试无需关心
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		c.Next()
		metrics.DecGauge(metrics.HTTPRequestsInProgress)

		path := c.FullPath()
		if path == "" {
			// 未注册的路由(404)
			path = "unmatched"
		}

		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}
