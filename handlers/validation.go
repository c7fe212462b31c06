package handlers

import (
	"errors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{8,20}$`)

// 密碼需同時包含的字元種類
var passwordClasses = []func(rune) bool{
	unicode.IsUpper,
	unicode.IsLower,
	unicode.IsDigit,
	func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) },
}

// 8到20個英數字、底線或連字號
func ValidateUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// 8到50個字元，不含空白，大小寫、數字、符號各至少一個
func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 50 || strings.ContainsFunc(password, unicode.IsSpace) {
		return false
	}
	for _, class := range passwordClasses {
		if !strings.ContainsFunc(password, class) {
			return false
		}
	}
	return true
}

var (
	registerOnce sync.Once
	registerErr  error
)

// 註冊 binding tag 使用的 username 與 password 規則
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("handlers: unexpected validator engine")
			return
		}
		registerErr = errors.Join(
			v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
				return ValidateUsername(fl.Field().String())
			}),
			v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
				return ValidatePassword(fl.Field().String())
			}),
		)
	})
	return registerErr
}

// 依驗證失敗的欄位回傳錯誤訊息
func registerErrorMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return "綁定請求資料錯誤"
	}
	switch fieldErrors[0].Field() {
	case "Username":
		return "註冊失敗:不合法的使用者名稱"
	case "Email":
		return "註冊失敗:不合法的信箱"
	case "Password":
		return "註冊失敗:不合法的密碼"
	default:
		return "綁定請求資料錯誤"
	}
}
