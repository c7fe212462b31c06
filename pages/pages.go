// Package pages 伺服器端渲染的頁面樣板
package pages

import (
	"Market/models"
	"embed"
	"fmt"
	"html/template"
	"io"
)

const (
	ProductTemplate = "product"
	ProfileTemplate = "profile"
	StreamTemplate  = "stream"
)

//go:embed templates/*.tmpl
var files embed.FS

var funcs = template.FuncMap{
	"price":    Price,
	"favClass": FavoriteClass,
}

var templates = template.Must(template.New("pages").Funcs(funcs).ParseFS(files, "templates/*.tmpl"))

type ProductPage struct {
	Product *models.Product
	Related []models.Product
	IsLiked bool
}

type ProfilePage struct {
	User     *models.User
	Products []models.Product
}

type StreamPage struct {
	Stream   *models.Stream
	Messages []models.Message
}

// 提供給 gin 的 SetHTMLTemplate
func Templates() *template.Template {
	return templates
}

func Render(w io.Writer, name string, data any) error {
	return templates.ExecuteTemplate(w, name, data)
}

func Price(price uint) string {
	return fmt.Sprintf("$%d", price)
}

// 收藏按鈕的樣式依是否已收藏切換
func FavoriteClass(liked bool) string {
	if liked {
		return "p-2 ml-1 rounded-md hover:bg-red-100 text-red-500"
	}
	return "p-2 ml-1 rounded-md text-gray-500 hover:bg-gray-100"
}
