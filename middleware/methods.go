package middleware

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

// 路徑存在但方法不允許，在進入 handler 前回應 405
func MethodNotAllowedHandler(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"ok":    false,
		"error": "不支援的請求方法: " + c.Request.Method,
	})
}

func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"ok":    false,
		"error": "找不到此路徑",
	})
}
