package handlers

import (
	"Market/jwt"
	"Market/middleware"
	"Market/models"
	"Market/store"
	"errors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"net/http"
	"time"
)

// 註冊使用者帳戶
func RegisterHandler(c *gin.Context, users store.UserStore) {
	var registerReq struct {
		Username string `json:"username" binding:"required,username"`
		Email    string `json:"email" binding:"required,email,max=255"`
		Password string `json:"password" binding:"required,password"`
		Name     string `json:"name" binding:"max=50"`
	}
	if err := c.ShouldBindJSON(&registerReq); err != nil {
		fail(c, http.StatusBadRequest, registerErrorMessage(err), err)
		return
	}

	ctx := c.Request.Context()

	//檢查使用者名稱是否重複
	exists, err := users.IsUsernameExists(ctx, registerReq.Username)
	if err != nil {
		fail(c, http.StatusInternalServerError, "註冊失敗:檢查使用者名稱失敗", err)
		return
	}
	if exists {
		fail(c, http.StatusConflict, "註冊失敗:使用者名稱已被使用", nil)
		return
	}

	//檢查Email是否重複
	exists, err = users.IsEmailExists(ctx, registerReq.Email)
	if err != nil {
		fail(c, http.StatusInternalServerError, "註冊失敗:檢查信箱失敗", err)
		return
	}
	if exists {
		fail(c, http.StatusConflict, "註冊失敗:信箱已被使用", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registerReq.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "無法生成Hashed密碼", err)
		return
	}

	name := registerReq.Name
	if name == "" {
		name = registerReq.Username
	}
	newUser := models.User{
		Username: registerReq.Username,
		Email:    registerReq.Email,
		Password: string(hashedPassword),
		Name:     name,
		Role:     "user",
	}
	if err := users.CreateUser(ctx, &newUser); err != nil {
		fail(c, http.StatusInternalServerError, "無法儲存使用者資料至資料庫", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ok":      true,
		"profile": newUser,
	})
}

func LoginHandler(c *gin.Context, users store.UserStore, sessions store.SessionStore, tokens *jwt.Manager) {
	//檢查是否已經登入
	if _, ok := middleware.CurrentUserID(c); ok {
		c.JSON(http.StatusOK, gin.H{
			"ok": true,
		})
		return
	}

	var loginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		fail(c, http.StatusBadRequest, "綁定請求資料錯誤", err)
		return
	}

	ctx := c.Request.Context()

	user, err := users.FindUserByUsername(ctx, loginReq.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusUnauthorized, "帳號或密碼錯誤", err)
			return
		}
		fail(c, http.StatusInternalServerError, "資料庫錯誤", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginReq.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "帳號或密碼錯誤", err)
		return
	}

	token, expiresAt, err := tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		fail(c, http.StatusInternalServerError, "生成JWT Token錯誤", err)
		return
	}

	//儲存LoginToken
	loginToken := models.LoginToken{
		Token:          token,
		ExpirationTime: expiresAt,
		UserID:         user.ID,
		Role:           user.Role,
	}
	if err := sessions.CreateLoginToken(ctx, &loginToken); err != nil {
		fail(c, http.StatusInternalServerError, "儲存Login Token失敗", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(time.Until(expiresAt).Seconds()), "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"token": token,
	})
}

func LogOutHandler(c *gin.Context, sessions store.SessionStore) {
	token := c.GetString(middleware.TokenKey)

	//刪除此LoginToken
	rows, err := sessions.DeleteLoginToken(c.Request.Context(), token)
	if err != nil {
		fail(c, http.StatusInternalServerError, "資料庫錯誤", err)
		return
	}
	if rows == 0 {
		fail(c, http.StatusBadRequest, "找不到此token或已登出", nil)
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
	})
}

// 查詢目前登入的使用者資料
func GetMyProfileHandler(c *gin.Context, users store.UserStore) {
	userID, _ := middleware.CurrentUserID(c)

	user, err := users.FindUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "找不到此使用者", err)
			return
		}
		fail(c, http.StatusInternalServerError, "查詢使用者資料失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"profile": user,
		"email":   user.Email,
	})
}

// 查詢使用者公開資料與販售中的商品
func GetUserProfileHandler(c *gin.Context, users store.UserStore, products store.ProductStore) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := users.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "找不到此使用者", err)
			return
		}
		fail(c, http.StatusInternalServerError, "查詢使用者資料失敗", err)
		return
	}

	userProducts, err := products.ListProductsByUser(ctx, userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "查詢使用者商品失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"profile":  user,
		"products": userProducts,
	})
}
