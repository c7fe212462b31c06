package handlers

import (
	"Market/cache"
	"Market/events"
	"Market/logger"
	"Market/middleware"
	"Market/models"
	"Market/store"
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
)

const relatedLimit = 4

type ProductDetail struct {
	Product        *models.Product  `json:"product"`
	RelatedProduct []models.Product `json:"relatedProduct"`
	IsLiked        bool             `json:"isLiked"`
}

// 查詢商品、相似商品及目前使用者是否收藏，API 與頁面共用
func LoadProductDetail(ctx context.Context, products store.ProductStore, favorites store.FavoriteStore, productID, userID uint) (*ProductDetail, error) {
	product, err := products.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	related, err := products.RelatedProducts(ctx, product, relatedLimit)
	if err != nil {
		return nil, err
	}
	if related == nil {
		related = []models.Product{}
	}

	isLiked := false
	if userID != 0 {
		isLiked, err = favorites.IsFavorite(ctx, userID, productID)
		if err != nil {
			return nil, err
		}
	}

	return &ProductDetail{
		Product:        product,
		RelatedProduct: related,
		IsLiked:        isLiked,
	}, nil
}

// 查詢商品詳細資料
func GetProductDataHandler(c *gin.Context, products store.ProductStore, favorites store.FavoriteStore) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	detail, err := LoadProductDetail(c.Request.Context(), products, favorites, productID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "找不到此商品", err)
			return
		}
		fail(c, http.StatusInternalServerError, "查詢商品資料失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"product":        detail.Product,
		"relatedProduct": detail.RelatedProduct,
		"isLiked":        detail.IsLiked,
	})
}

// 查詢商品列表，優先從Redis讀取，失敗則從資料庫讀取並儲存至Redis
func GetProductListHandler(c *gin.Context, products store.ProductStore, list cache.ProductList) {
	limit, offset, ok := parsePaging(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	page, total, err := list.Page(ctx, offset, limit)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn().Err(err).Msg("無法從Redis讀取商品列表")
		}

		summaries, err := products.ListProductSummaries(ctx)
		if err != nil {
			fail(c, http.StatusInternalServerError, "無法讀取商品列表", err)
			return
		}
		if err := list.Fill(ctx, summaries); err != nil {
			logger.Warn().Err(err).Msg("無法將商品列表加入Redis")
		}

		total = int64(len(summaries))
		page = paginate(summaries, offset, limit)
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"products":   page,
		"totalCount": total,
	})
}

func paginate(summaries []models.ProductSummary, offset, limit int) []models.ProductSummary {
	if offset >= len(summaries) {
		return []models.ProductSummary{}
	}
	return summaries[offset:min(offset+limit, len(summaries))]
}

// 新增商品
func CreateProductHandler(c *gin.Context, products store.ProductStore, list cache.ProductList, publisher events.Publisher) {
	userID, _ := middleware.CurrentUserID(c)

	var productReq struct {
		Name        string `json:"name" binding:"required,max=100"`
		Price       uint   `json:"price" binding:"required"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
	if err := c.ShouldBindJSON(&productReq); err != nil {
		fail(c, http.StatusBadRequest, "綁定請求資料錯誤", err)
		return
	}

	product := models.Product{
		Name:        productReq.Name,
		Price:       productReq.Price,
		Description: productReq.Description,
		Image:       productReq.Image,
		UserID:      userID,
	}
	if err := products.CreateProduct(c.Request.Context(), &product); err != nil {
		fail(c, http.StatusInternalServerError, "新增商品失敗", err)
		return
	}

	if err := list.Invalidate(c.Request.Context()); err != nil {
		logger.Warn().Err(err).Msg("無法清除Redis商品列表")
	}
	publisher.Publish(c.Request.Context(), events.Event{
		Type:     events.ProductCreated,
		EntityID: product.ID,
		UserID:   userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"ok":      true,
		"product": product,
	})
}
