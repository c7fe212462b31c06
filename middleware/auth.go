package middleware

import (
	"Market/jwt"
	"Market/logger"
	"Market/store"
	"github.com/gin-gonic/gin"
	"strings"
)

const (
	UserIDKey = "UserID"
	RoleKey   = "Role"
	TokenKey  = "Token"
)

// 頁面請求無法帶 Authorization 時改由 cookie 傳遞 token
const SessionCookie = "token"

type TokenVerifier interface {
	VerifyToken(tokenString string) (*jwt.Claims, error)
}

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// 解析 session，無效時以未登入身分繼續
func AuthMiddleware(verifier TokenVerifier, sessions store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := verifier.VerifyToken(token)
		if err != nil {
			logger.Debug().Err(err).Msg("無法驗證Token")
			c.Next()
			return
		}

		//從資料庫檢查Token是否已登出
		exists, err := sessions.IsLoginTokenExists(c.Request.Context(), token)
		if err != nil {
			logger.Error().Err(err).Msg("無法查詢Login Token")
			c.Next()
			return
		}
		if !exists {
			c.Next()
			return
		}

		c.Set(TokenKey, token)
		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// 取得目前登入的使用者ID
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}
