package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey Context中请求ID的键
const RequestIDKey = "request_id"

// RequestID 请求ID中间件
// 设计说明:
// 1. 每个请求分配一个UUID,写入Context和响应头X-Request-ID
// 2. 客户端带X-Request-ID请求头时沿用客户端的值,便于跨服务追踪
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// GetRequestID 从Context获取请求ID
func GetRequestID(c *gin.Context) string {
	if id, ok := c.Get(RequestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// AccessLog 访问日志中间件
// 每个请求一行:请求ID、方法、路径、状态码、耗时。
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Printf("[%s] %s %s -> %d (%v)",
			GetRequestID(c),
			c.Request.Method,
			c.Request.URL.RequestURI(),
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
