// Package storetest 提供記憶體版本的 store，供 handlers 與 routers 測試使用
package storetest

import (
	"Market/models"
	"Market/store"
	"context"
	"gorm.io/gorm"
	"sort"
	"strings"
	"sync"
	"time"
)

type Memory struct {
	mu        sync.Mutex
	nextID    map[string]uint
	users     map[uint]*models.User
	products  map[uint]*models.Product
	favorites map[[2]uint]models.Favorite
	streams   map[uint]*models.Stream
	messages  []models.Message
	tokens    map[string]models.LoginToken
	calls     map[string]int

	// 設定後所有查詢皆回傳此錯誤
	Err error
}

func NewMemory() *Memory {
	return &Memory{
		nextID:    make(map[string]uint),
		users:     make(map[uint]*models.User),
		products:  make(map[uint]*models.Product),
		favorites: make(map[[2]uint]models.Favorite),
		streams:   make(map[uint]*models.Stream),
		tokens:    make(map[string]models.LoginToken),
		calls:     make(map[string]int),
	}
}

var (
	_ store.StreamStore   = (*Memory)(nil)
	_ store.ProductStore  = (*Memory)(nil)
	_ store.FavoriteStore = (*Memory)(nil)
	_ store.UserStore     = (*Memory)(nil)
	_ store.SessionStore  = (*Memory)(nil)
)

// 回傳某個方法被呼叫的次數
func (m *Memory) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *Memory) begin(method string) error {
	m.calls[method]++
	return m.Err
}

// 每種資料各自從 1 開始編號
func (m *Memory) id(kind string) uint {
	m.nextID[kind]++
	return m.nextID[kind]
}

func (m *Memory) AddUser(user models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		user.ID = m.id("user")
	}
	m.users[user.ID] = &user
	return &user
}

func (m *Memory) AddProduct(product models.Product) *models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID == 0 {
		product.ID = m.id("product")
	}
	m.products[product.ID] = &product
	return &product
}

func (m *Memory) AddStream(stream models.Stream) *models.Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stream.ID == 0 {
		stream.ID = m.id("stream")
	}
	m.streams[stream.ID] = &stream
	return &stream
}

func (m *Memory) FindStream(_ context.Context, id uint) (*models.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("FindStream"); err != nil {
		return nil, err
	}
	stream, ok := m.streams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *stream
	return &found, nil
}

func (m *Memory) ListStreams(_ context.Context, offset, limit int) ([]models.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("ListStreams"); err != nil {
		return nil, err
	}
	streams := []models.Stream{}
	for _, stream := range m.streams {
		streams = append(streams, *stream)
	}
	sort.Slice(streams, func(i, j int) bool { return streams[i].ID > streams[j].ID })
	if offset >= len(streams) {
		return []models.Stream{}, nil
	}
	return streams[offset:min(offset+limit, len(streams))], nil
}

func (m *Memory) CreateStream(_ context.Context, stream *models.Stream) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("CreateStream"); err != nil {
		return err
	}
	stream.ID = m.id("stream")
	stream.CreatedAt = time.Now()
	saved := *stream
	m.streams[stream.ID] = &saved
	return nil
}

func (m *Memory) CreateMessage(_ context.Context, message *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("CreateMessage"); err != nil {
		return err
	}
	message.ID = m.id("message")
	message.CreatedAt = time.Now()
	m.messages = append(m.messages, *message)
	return nil
}

func (m *Memory) ListMessages(_ context.Context, streamID uint) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("ListMessages"); err != nil {
		return nil, err
	}
	messages := []models.Message{}
	for _, message := range m.messages {
		if message.StreamID == streamID {
			message.User = m.users[message.UserID]
			messages = append(messages, message)
		}
	}
	return messages, nil
}

func (m *Memory) FindProduct(_ context.Context, id uint) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("FindProduct"); err != nil {
		return nil, err
	}
	product, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *product
	found.User = m.users[found.UserID]
	return &found, nil
}

func (m *Memory) RelatedProducts(_ context.Context, product *models.Product, limit int) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("RelatedProducts"); err != nil {
		return nil, err
	}
	terms := store.RelatedTerms(product.Name)
	related := []models.Product{}
	for _, candidate := range m.sortedProducts() {
		if candidate.ID == product.ID || len(related) == limit {
			continue
		}
		name := strings.ToLower(candidate.Name)
		for _, term := range terms {
			if strings.Contains(name, term) {
				related = append(related, candidate)
				break
			}
		}
	}
	return related, nil
}

// 依 ID 由大到小
func (m *Memory) sortedProducts() []models.Product {
	products := make([]models.Product, 0, len(m.products))
	for _, product := range m.products {
		products = append(products, *product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID > products[j].ID })
	return products
}

func (m *Memory) ListProductSummaries(_ context.Context) ([]models.ProductSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("ListProductSummaries"); err != nil {
		return nil, err
	}
	summaries := []models.ProductSummary{}
	for _, product := range m.sortedProducts() {
		var count int64
		for key := range m.favorites {
			if key[1] == product.ID {
				count++
			}
		}
		summaries = append(summaries, models.ProductSummary{
			ID:        product.ID,
			CreatedAt: product.CreatedAt,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Favorites: count,
		})
	}
	return summaries, nil
}

func (m *Memory) ListProductsByUser(_ context.Context, userID uint) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("ListProductsByUser"); err != nil {
		return nil, err
	}
	products := []models.Product{}
	for _, product := range m.sortedProducts() {
		if product.UserID == userID {
			products = append(products, product)
		}
	}
	return products, nil
}

func (m *Memory) CreateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("CreateProduct"); err != nil {
		return err
	}
	product.ID = m.id("product")
	product.CreatedAt = time.Now()
	saved := *product
	m.products[product.ID] = &saved
	return nil
}

func (m *Memory) IsFavorite(_ context.Context, userID, productID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("IsFavorite"); err != nil {
		return false, err
	}
	_, ok := m.favorites[[2]uint{userID, productID}]
	return ok, nil
}

func (m *Memory) ToggleFavorite(_ context.Context, userID, productID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("ToggleFavorite"); err != nil {
		return false, err
	}
	key := [2]uint{userID, productID}
	if _, ok := m.favorites[key]; ok {
		delete(m.favorites, key)
		return false, nil
	}
	m.favorites[key] = models.Favorite{
		ID:        m.id("favorite"),
		CreatedAt: time.Now(),
		UserID:    userID,
		ProductID: productID,
	}
	return true, nil
}

func (m *Memory) ListFavorites(_ context.Context, userID uint) ([]models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("ListFavorites"); err != nil {
		return nil, err
	}
	favorites := []models.Favorite{}
	for key, favorite := range m.favorites {
		if key[0] == userID {
			if product, ok := m.products[favorite.ProductID]; ok {
				copied := *product
				favorite.Product = &copied
			}
			favorites = append(favorites, favorite)
		}
	}
	sort.Slice(favorites, func(i, j int) bool { return favorites[i].ID > favorites[j].ID })
	return favorites, nil
}

func (m *Memory) FindUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("FindUser"); err != nil {
		return nil, err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *user
	return &found, nil
}

func (m *Memory) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("FindUserByUsername"); err != nil {
		return nil, err
	}
	for _, user := range m.users {
		if user.Username == username {
			found := *user
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Memory) IsUsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("IsUsernameExists"); err != nil {
		return false, err
	}
	for _, user := range m.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) IsEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("IsEmailExists"); err != nil {
		return false, err
	}
	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("CreateUser"); err != nil {
		return err
	}
	user.ID = m.id("user")
	user.CreatedAt = time.Now()
	saved := *user
	m.users[user.ID] = &saved
	return nil
}

func (m *Memory) CreateLoginToken(_ context.Context, token *models.LoginToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("CreateLoginToken"); err != nil {
		return err
	}
	m.tokens[token.Token] = *token
	return nil
}

func (m *Memory) IsLoginTokenExists(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["IsLoginTokenExists"]++
	loginToken, ok := m.tokens[token]
	return ok && loginToken.ExpirationTime.After(time.Now()), nil
}

func (m *Memory) DeleteLoginToken(_ context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("DeleteLoginToken"); err != nil {
		return 0, err
	}
	if _, ok := m.tokens[token]; !ok {
		return 0, nil
	}
	delete(m.tokens, token)
	return 1, nil
}
