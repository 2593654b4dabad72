package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qiwen/vendormall/pkg/metrics"
)

// Metrics HTTP请求指标中间件
// 设计说明:
// 1. 路径标签用FullPath()(路由模板, 如/api/v1/products/:id),
//    避免按真实URL展开导致标签基数爆炸
// 2. in-progress gauge在defer前后对称增减, panic也能正确回落
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = "unmatched" // 404等未命中路由的请求归并到一个标签
		}

		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		defer metrics.DecGauge(metrics.HTTPRequestsInProgress)

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": status,
		})
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}
