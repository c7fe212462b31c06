package routers

import (
	"Market/cache"
	"Market/events"
	"Market/jwt"
	"Market/models"
	"Market/store/storetest"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryList struct {
	mu          sync.Mutex
	items       []models.ProductSummary
	filled      bool
	fills       int
	invalidated int
}

func (l *memoryList) Page(_ context.Context, offset, limit int) ([]models.ProductSummary, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.filled {
		return nil, 0, cache.ErrMiss
	}
	if offset >= len(l.items) {
		return []models.ProductSummary{}, int64(len(l.items)), nil
	}
	return l.items[offset:min(offset+limit, len(l.items))], int64(len(l.items)), nil
}

func (l *memoryList) Fill(_ context.Context, products []models.ProductSummary) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = products
	l.filled = true
	l.fills++
	return nil
}

func (l *memoryList) Invalidate(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.filled = false
	l.invalidated++
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

type testServer struct {
	router    *gin.Engine
	mem       *storetest.Memory
	list      *memoryList
	publisher *recordingPublisher
	tokens    *jwt.Manager
	registry  *prometheus.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	s := &testServer{
		mem:       storetest.NewMemory(),
		list:      &memoryList{},
		publisher: &recordingPublisher{},
		tokens:    jwt.NewManager(key, time.Hour),
		registry:  prometheus.NewRegistry(),
	}
	s.router = SetupRouters(Dependencies{
		Streams:     s.mem,
		Products:    s.mem,
		Favorites:   s.mem,
		Users:       s.mem,
		Sessions:    s.mem,
		ProductList: s.list,
		Publisher:   s.publisher,
		Tokens:      s.tokens,
		Registry:    s.registry,
	})
	require.NotNil(t, s.router)
	return s
}

// 建立使用者並直接寫入有效的 LoginToken
func (s *testServer) login(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	user := s.mem.AddUser(models.User{Username: username, Name: username, Role: "user"})
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	require.NoError(t, s.mem.CreateLoginToken(context.Background(), &models.LoginToken{
		Token:          token,
		ExpirationTime: expiresAt,
		UserID:         user.ID,
		Role:           user.Role,
	}))
	return user, token
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestGetStream(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "streamer01")
	stream := s.mem.AddStream(models.Stream{Name: "Live sale", Price: 100, Description: "tonight"})

	w := s.do(http.MethodGet, "/api/streams/"+itoa(stream.ID), token, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	got, ok := body["stream"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Live sale", got["name"])
	assert.EqualValues(t, 100, got["price"])
	assert.Equal(t, "tonight", got["description"])
}

func TestGetMissingStreamReturnsNull(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "streamer01")

	for _, id := range []string{"999", "0", "-1", "99999999999999999999999"} {
		w := s.do(http.MethodGet, "/api/streams/"+id, token, "")
		require.Equal(t, http.StatusOK, w.Code, id)

		body := decode(t, w)
		assert.Equal(t, true, body["ok"], id)
		assert.Contains(t, body, "stream", id)
		assert.Nil(t, body["stream"], id)
	}
	assert.Equal(t, 1, s.mem.Calls("FindStream"))
}

func TestGetStreamRejectsOtherMethods(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "streamer01")
	s.mem.AddStream(models.Stream{Name: "Live sale"})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := s.do(method, "/api/streams/1", token, "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, false, decode(t, w)["ok"])
	}
	assert.Zero(t, s.mem.Calls("FindStream"))
}

func TestGetStreamRequiresLogin(t *testing.T) {
	s := newTestServer(t)
	s.mem.AddStream(models.Stream{Name: "Live sale"})

	w := s.do(http.MethodGet, "/api/streams/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, decode(t, w)["ok"])
	assert.Zero(t, s.mem.Calls("FindStream"))

	w = s.do(http.MethodGet, "/api/streams/1", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetStreamErrors(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "streamer01")

	for _, id := range []string{"abc", "1.5", "1e3"} {
		w := s.do(http.MethodGet, "/api/streams/"+id, token, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}

	s.mem.Err = assert.AnError
	w := s.do(http.MethodGet, "/api/streams/1", token, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, decode(t, w)["ok"])
}

func TestStreamMessages(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "streamer01")

	w := s.do(http.MethodPost, "/api/streams", token, `{"name":"Evening live","price":20}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/streams/1/messages", token, `{"message":"hello"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(http.MethodPost, "/api/streams/42/messages", token, `{"message":"hello"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/streams/1/messages", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	messages := decode(t, w)["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].(map[string]any)["message"])

	assert.Equal(t, []string{events.StreamCreated, events.MessageCreated}, s.publisher.Types())
}

func TestGetProductDetail(t *testing.T) {
	s := newTestServer(t)
	user, token := s.login(t, "shopper01")
	seller := s.mem.AddUser(models.User{Username: "seller0001", Name: "Seller"})
	product := s.mem.AddProduct(models.Product{Name: "Blue Chair", Price: 250, UserID: seller.ID})
	s.mem.AddProduct(models.Product{Name: "Red Chair", Price: 120, UserID: seller.ID})
	s.mem.AddProduct(models.Product{Name: "Lamp", Price: 50, UserID: seller.ID})
	_, err := s.mem.ToggleFavorite(context.Background(), user.ID, product.ID)
	require.NoError(t, err)

	w := s.do(http.MethodGet, "/api/products/"+itoa(product.ID), token, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, true, body["isLiked"])
	got := body["product"].(map[string]any)
	assert.Equal(t, "Blue Chair", got["name"])
	assert.Equal(t, "Seller", got["user"].(map[string]any)["name"])

	related := body["relatedProduct"].([]any)
	require.Len(t, related, 1)
	assert.Equal(t, "Red Chair", related[0].(map[string]any)["name"])
}

func TestGetProductDetailWithoutRelated(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "shopper01")
	product := s.mem.AddProduct(models.Product{Name: "Unique", Price: 1})

	w := s.do(http.MethodGet, "/api/products/"+itoa(product.ID), token, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, false, body["isLiked"])
	assert.Equal(t, []any{}, body["relatedProduct"])

	w = s.do(http.MethodGet, "/api/products/999", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleFavorite(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "shopper01")
	product := s.mem.AddProduct(models.Product{Name: "Desk", Price: 300})
	path := "/api/products/" + itoa(product.ID) + "/favorite"

	w := s.do(http.MethodPost, path, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isLiked"])

	w = s.do(http.MethodPost, path, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["isLiked"])

	assert.Equal(t, 2, s.list.invalidated)
	assert.Equal(t, []string{events.FavoriteToggled, events.FavoriteToggled}, s.publisher.Types())

	w = s.do(http.MethodPost, "/api/products/999/favorite", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductListUsesCache(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "shopper01")
	for _, name := range []string{"A", "B", "C"} {
		s.mem.AddProduct(models.Product{Name: name, Price: 1})
	}

	w := s.do(http.MethodGet, "/api/products?limit=2", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 3, body["totalCount"])
	require.Len(t, body["products"], 2)
	assert.Equal(t, "C", body["products"].([]any)[0].(map[string]any)["name"])
	assert.Equal(t, 1, s.list.fills)

	w = s.do(http.MethodGet, "/api/products?limit=2&offset=2", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode(t, w)["products"], 1)
	assert.Equal(t, 1, s.list.fills)
	assert.Equal(t, 1, s.mem.Calls("ListProductSummaries"))

	w = s.do(http.MethodGet, "/api/products?limit=abc", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductInvalidatesCache(t *testing.T) {
	s := newTestServer(t)
	user, token := s.login(t, "seller0001")

	w := s.do(http.MethodPost, "/api/products", token, `{"name":"Old Camera","price":1200}`)
	require.Equal(t, http.StatusCreated, w.Code)
	got := decode(t, w)["product"].(map[string]any)
	assert.Equal(t, "Old Camera", got["name"])
	assert.EqualValues(t, user.ID, got["userId"])
	assert.Equal(t, 1, s.list.invalidated)
	assert.Equal(t, []string{events.ProductCreated}, s.publisher.Types())

	w = s.do(http.MethodPost, "/api/products", token, `{"price":1200}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterLoginLogout(t *testing.T) {
	s := newTestServer(t)
	credentials := `{"username":"marketuser","password":"Passw0rd!"}`

	w := s.do(http.MethodPost, "/api/users/register", "", `{"username":"marketuser","email":"user@example.com","password":"Passw0rd!"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	profile := decode(t, w)["profile"].(map[string]any)
	assert.Equal(t, "marketuser", profile["username"])
	assert.NotContains(t, profile, "password")

	w = s.do(http.MethodPost, "/api/users/register", "", `{"username":"marketuser","email":"other@example.com","password":"Passw0rd!"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/users/login", "", `{"username":"marketuser","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/users/login", "", credentials)
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=")

	w = s.do(http.MethodGet, "/api/users/me", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user@example.com", decode(t, w)["email"])

	w = s.do(http.MethodPost, "/api/users/logout", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/users/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []string{
		`{"username":"short","email":"user@example.com","password":"Passw0rd!"}`,
		`{"username":"marketuser","email":"not-an-email","password":"Passw0rd!"}`,
		`{"username":"marketuser","email":"user@example.com","password":"password"}`,
		`{"username":"marketuser"}`,
	}
	for _, body := range cases {
		w := s.do(http.MethodPost, "/api/users/register", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Zero(t, s.mem.Calls("CreateUser"))
}

func TestLoginStoresHashedPassword(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/users/register", "", `{"username":"marketuser","email":"user@example.com","password":"Passw0rd!"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	user, err := s.mem.FindUserByUsername(context.Background(), "marketuser")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd!", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Passw0rd!")))
}

func TestUserProfileAndFavorites(t *testing.T) {
	s := newTestServer(t)
	user, token := s.login(t, "shopper01")
	product := s.mem.AddProduct(models.Product{Name: "Guitar", Price: 900, UserID: user.ID})
	_, err := s.mem.ToggleFavorite(context.Background(), user.ID, product.ID)
	require.NoError(t, err)

	w := s.do(http.MethodGet, "/api/users/"+itoa(user.ID), token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode(t, w)["products"], 1)

	w = s.do(http.MethodGet, "/api/users/me/favorites", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	favorites := decode(t, w)["favorites"].([]any)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Guitar", favorites[0].(map[string]any)["product"].(map[string]any)["name"])
}

func TestProductPage(t *testing.T) {
	s := newTestServer(t)
	seller := s.mem.AddUser(models.User{Username: "seller0001", Name: "Seller"})
	product := s.mem.AddProduct(models.Product{Name: "Blue Chair", Price: 250, UserID: seller.ID})

	w := s.do(http.MethodGet, "/products/"+itoa(product.ID), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Blue Chair")
	assert.Contains(t, w.Body.String(), "$250")
	assert.Zero(t, s.mem.Calls("IsFavorite"))

	w = s.do(http.MethodGet, "/products/999", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamPage(t *testing.T) {
	s := newTestServer(t)
	stream := s.mem.AddStream(models.Stream{Name: "Live sale"})

	w := s.do(http.MethodGet, "/streams/"+itoa(stream.ID), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Live sale")
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/nothing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["ok"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/streams/1", "", "")

	w := s.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `market_http_requests_total{method="GET",route="/api/streams/:id",status="401"} 1`)
}
