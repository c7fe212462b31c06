package store

import (
	"Market/models"
	"context"
	"strings"
)

func (s *Store) FindProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Preload("User").
		First(&product, id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// 商品名稱拆成關鍵字，去除重複
func RelatedTerms(name string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, word := range strings.Fields(name) {
		word = strings.ToLower(word)
		if seen[word] {
			continue
		}
		seen[word] = true
		terms = append(terms, word)
	}
	return terms
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LIKE 的包含比對，關鍵字內的 % 與 _ 以字面比對
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// 名稱包含任一相同關鍵字的其他商品，新的在前
func (s *Store) RelatedProducts(ctx context.Context, product *models.Product, limit int) ([]models.Product, error) {
	terms := RelatedTerms(product.Name)
	if len(terms) == 0 {
		return []models.Product{}, nil
	}

	match := s.db.Where("LOWER(name) LIKE ?", containsPattern(terms[0]))
	for _, term := range terms[1:] {
		match = match.Or("LOWER(name) LIKE ?", containsPattern(term))
	}

	related := []models.Product{}
	err := s.db.WithContext(ctx).
		Where("id <> ?", product.ID).
		Where(match).
		Order("id DESC").
		Limit(limit).
		Find(&related).
		Error
	return related, err
}

func (s *Store) ListProductSummaries(ctx context.Context) ([]models.ProductSummary, error) {
	var summaries []models.ProductSummary
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.id, products.created_at, products.name, products.price, products.image, COUNT(favorites.id) AS favorites").
		Joins("LEFT JOIN favorites ON favorites.product_id = products.id").
		Group("products.id").
		Order("products.id DESC").
		Find(&summaries).
		Error
	return summaries, err
}

func (s *Store) ListProductsByUser(ctx context.Context, userID uint) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&products).
		Error
	return products, err
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}
