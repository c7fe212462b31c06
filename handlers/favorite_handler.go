package handlers

import (
	"Market/cache"
	"Market/events"
	"Market/logger"
	"Market/middleware"
	"Market/models"
	"Market/store"
	"errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
)

// 切換目前使用者對商品的收藏
func ToggleFavoriteHandler(c *gin.Context, products store.ProductStore, favorites store.FavoriteStore, list cache.ProductList, publisher events.Publisher) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	ctx := c.Request.Context()

	_, err := products.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "找不到此商品", err)
			return
		}
		fail(c, http.StatusInternalServerError, "查詢商品資料失敗", err)
		return
	}

	liked, err := favorites.ToggleFavorite(ctx, userID, productID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "更新收藏失敗", err)
		return
	}

	//列表中的收藏數已變更
	if err := list.Invalidate(ctx); err != nil {
		logger.Warn().Err(err).Msg("無法清除Redis商品列表")
	}
	publisher.Publish(ctx, events.Event{
		Type:     events.FavoriteToggled,
		EntityID: productID,
		UserID:   userID,
		Liked:    &liked,
	})

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"isLiked": liked,
	})
}

// 查詢目前使用者收藏的商品
func GetFavoriteListHandler(c *gin.Context, favorites store.FavoriteStore) {
	userID, _ := middleware.CurrentUserID(c)

	list, err := favorites.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "無法讀取收藏列表", err)
		return
	}
	if list == nil {
		list = []models.Favorite{}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"favorites": list,
	})
}
