package handlers

import (
	"Market/logger"
	"Market/middleware"
	"Market/pages"
	"Market/store"
	"errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
)

func pageError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.String(http.StatusNotFound, "Not Found")
		return
	}
	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("頁面渲染失敗")
	c.String(http.StatusInternalServerError, "Internal Server Error")
}

// 商品詳細頁面
func ProductPageHandler(c *gin.Context, products store.ProductStore, favorites store.FavoriteStore) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	detail, err := LoadProductDetail(c.Request.Context(), products, favorites, productID, userID)
	if err != nil {
		pageError(c, err)
		return
	}

	c.HTML(http.StatusOK, pages.ProductTemplate, pages.ProductPage{
		Product: detail.Product,
		Related: detail.RelatedProduct,
		IsLiked: detail.IsLiked,
	})
}

// 使用者個人頁面
func ProfilePageHandler(c *gin.Context, users store.UserStore, products store.ProductStore) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := users.FindUser(ctx, userID)
	if err != nil {
		pageError(c, err)
		return
	}
	userProducts, err := products.ListProductsByUser(ctx, userID)
	if err != nil {
		pageError(c, err)
		return
	}

	c.HTML(http.StatusOK, pages.ProfileTemplate, pages.ProfilePage{
		User:     user,
		Products: userProducts,
	})
}

// 直播頁面
func StreamPageHandler(c *gin.Context, streams store.StreamStore) {
	streamID, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	stream, err := streams.FindStream(ctx, streamID)
	if err != nil {
		pageError(c, err)
		return
	}
	messages, err := streams.ListMessages(ctx, streamID)
	if err != nil {
		pageError(c, err)
		return
	}

	c.HTML(http.StatusOK, pages.StreamTemplate, pages.StreamPage{
		Stream:   stream,
		Messages: messages,
	})
}
