// Package store 以 gorm 實作各資源的資料存取，handlers 只依賴這裡定義的介面
package store

import (
	"Market/models"
	"context"
	"gorm.io/gorm"
)

type StreamStore interface {
	FindStream(ctx context.Context, id uint) (*models.Stream, error)
	ListStreams(ctx context.Context, offset, limit int) ([]models.Stream, error)
	CreateStream(ctx context.Context, stream *models.Stream) error
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, streamID uint) ([]models.Message, error)
}

type ProductStore interface {
	FindProduct(ctx context.Context, id uint) (*models.Product, error)
	RelatedProducts(ctx context.Context, product *models.Product, limit int) ([]models.Product, error)
	ListProductSummaries(ctx context.Context) ([]models.ProductSummary, error)
	ListProductsByUser(ctx context.Context, userID uint) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
}

type FavoriteStore interface {
	IsFavorite(ctx context.Context, userID, productID uint) (bool, error)
	ToggleFavorite(ctx context.Context, userID, productID uint) (bool, error)
	ListFavorites(ctx context.Context, userID uint) ([]models.Favorite, error)
}

type UserStore interface {
	FindUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	IsUsernameExists(ctx context.Context, username string) (bool, error)
	IsEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
}

type SessionStore interface {
	CreateLoginToken(ctx context.Context, token *models.LoginToken) error
	IsLoginTokenExists(ctx context.Context, token string) (bool, error)
	DeleteLoginToken(ctx context.Context, token string) (int64, error)
}

// Store 實作上述所有介面
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var (
	_ StreamStore   = (*Store)(nil)
	_ ProductStore  = (*Store)(nil)
	_ FavoriteStore = (*Store)(nil)
	_ UserStore     = (*Store)(nil)
	_ SessionStore  = (*Store)(nil)
)
