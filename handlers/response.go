package handlers

import (
	"Market/logger"
	"github.com/gin-gonic/gin"
	"net/http"
	"strconv"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// 回應失敗，5xx 錯誤另外寫入日誌
func fail(c *gin.Context, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}
	c.JSON(status, gin.H{
		"ok":    false,
		"error": message,
	})
}

// 從路徑讀取數字ID
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "不合法的ID", err)
		return 0, false
	}
	return uint(id), true
}

// 讀取 limit 與 offset，限制最高查詢數量為50
func parsePaging(c *gin.Context) (int, int, bool) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		fail(c, http.StatusBadRequest, "查詢數量輸入錯誤", err)
		return 0, 0, false
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		fail(c, http.StatusBadRequest, "offset輸入錯誤", err)
		return 0, 0, false
	}
	return limit, offset, true
}
