package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"zaffira/internal/cache"
	"zaffira/internal/metrics"
	"zaffira/internal/models"
	"zaffira/internal/services"
)

// memoryDB backs the stores the routed flows below touch.
type memoryDB struct {
	mu           sync.Mutex
	users        map[primitive.ObjectID]models.User
	products     map[primitive.ObjectID]models.Product
	carts        map[primitive.ObjectID]models.Cart
	appointments map[primitive.ObjectID]models.Appointment
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users:        map[primitive.ObjectID]models.User{},
		products:     map[primitive.ObjectID]models.Product{},
		carts:        map[primitive.ObjectID]models.Cart{},
		appointments: map[primitive.ObjectID]models.Appointment{},
	}
}

type memoryUsers struct{ *memoryDB }

func (m memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (m memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m memoryUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = *user
	return nil
}

func (m memoryUsers) Replace(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m memoryUsers) List(context.Context, int64, int64) ([]models.User, error) {
	return nil, nil
}

func (m memoryUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

type memoryProducts struct{ *memoryDB }

func (m memoryProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (m memoryProducts) List(context.Context, services.CatalogFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m memoryProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	m.products[p.ID] = *p
	return nil
}

func (m memoryProducts) Replace(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m memoryProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m memoryProducts) Count(context.Context) (int64, error) { return 0, nil }

type memoryCarts struct{ *memoryDB }

func (m memoryCarts) FindByOwner(_ context.Context, key services.CartKey) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.carts {
		if (key.UserID != nil && c.User != nil && *c.User == *key.UserID) || (key.UserID == nil && c.GuestID == key.GuestID) {
			c.Items = append([]models.LineItem{}, c.Items...)
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m memoryCarts) Save(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	stored := *cart
	stored.Items = append([]models.LineItem{}, cart.Items...)
	m.carts[cart.ID] = stored
	return nil
}

type memoryAppointments struct{ *memoryDB }

func (m memoryAppointments) FindByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (m memoryAppointments) ListByUser(context.Context, primitive.ObjectID) ([]models.Appointment, error) {
	return nil, nil
}

func (m memoryAppointments) List(context.Context, string) ([]models.Appointment, error) {
	return nil, nil
}

func (m memoryAppointments) Create(_ context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = primitive.NewObjectID()
	m.appointments[a.ID] = *a
	return nil
}

func (m memoryAppointments) Replace(_ context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments[a.ID] = *a
	return nil
}

func (m memoryAppointments) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.appointments, id)
	return nil
}

func (m memoryAppointments) CountByStatus(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type quietMailer struct{}

func (quietMailer) SendResetCode(context.Context, string, string) error { return nil }

type testServer struct {
	router *gin.Engine
	db     *memoryDB
	tokens *services.TokenManager
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	db := newMemoryDB()
	log := zap.NewNop()
	users := memoryUsers{db}
	products := memoryProducts{db}
	carts := memoryCarts{db}
	tokens := services.NewTokenManager("router-secret", time.Hour)

	router := NewRouter(Deps{
		Accounts:     services.NewAccountService(users, tokens, log),
		Resets:       services.NewPasswordResetService(users, quietMailer{}, log),
		Products:     services.NewProductService(products, cache.Noop{}, nil, log),
		Carts:        services.NewCartService(carts, products, log),
		Appointments: services.NewAppointmentService(memoryAppointments{db}, carts, log),
		Health:       func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) },
		Metrics:      metrics.NewHTTPMetrics("zaffira-test"),
		Logger:       log,
		CORSOrigins:  []string{"http://localhost:5173"},
	})
	return &testServer{router: router, db: db, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedUser(t *testing.T, role string) (models.User, string) {
	t.Helper()
	user := models.User{ID: primitive.NewObjectID(), Name: role, Email: role + "@zaffira.example", Role: role}
	s.db.mu.Lock()
	s.db.users[user.ID] = user
	s.db.mu.Unlock()
	token, err := s.tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return user, token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestRegisterLoginProfile(t *testing.T) {
	s := newTestServer()

	w := s.do(t, http.MethodPost, "/users/register", "", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "secret1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("password hash leaked: %s", w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/users/register", "", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "secret1"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: %d", w.Code)
	}

	w = s.do(t, http.MethodPost, "/users/login", "", map[string]string{"email": "ada@example.com", "password": "secret1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)

	if w := s.do(t, http.MethodGet, "/users/profile", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("profile without token: %d", w.Code)
	}
	w = s.do(t, http.MethodGet, "/users/profile", login.Token, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ada@example.com") {
		t.Fatalf("profile: %d %s", w.Code, w.Body.String())
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer()
	_, userToken := s.seedUser(t, models.RoleUser)
	_, adminToken := s.seedUser(t, models.RoleAdmin)
	product := map[string]any{"name": "Ring", "price": 100, "sku": "R-1", "category": "Rings"}

	if w := s.do(t, http.MethodPost, "/products", "", product); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/products", userToken, product); w.Code != http.StatusForbidden {
		t.Fatalf("user create: %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/products", adminToken, product); w.Code != http.StatusCreated {
		t.Fatalf("admin create: %d %s", w.Code, w.Body.String())
	}
	if w := s.do(t, http.MethodGet, "/admin/appointments", userToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("user admin list: %d", w.Code)
	}
}

func TestGuestCartToAppointment(t *testing.T) {
	s := newTestServer()
	ring := models.Product{ID: primitive.NewObjectID(), Name: "Ring", Price: 125.5}
	s.db.products[ring.ID] = ring

	w := s.do(t, http.MethodPost, "/cart", "", map[string]any{"productId": ring.ID.Hex(), "quantity": 2}, "X-Guest-ID", "guest-42")
	if w.Code != http.StatusOK {
		t.Fatalf("add: %d %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/cart?guestId=guest-42", "", nil)
	var cart models.Cart
	decode(t, w, &cart)
	if cart.TotalPrice != 251 || len(cart.Items) != 1 {
		t.Fatalf("unexpected cart %#v", cart)
	}

	if w := s.do(t, http.MethodGet, "/cart", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("cart without owner: %d", w.Code)
	}

	w = s.do(t, http.MethodPost, "/appointments", "", map[string]any{
		"guestId":       "guest-42",
		"date":          "2024-05-01",
		"customerName":  "Bo",
		"customerEmail": "bo@example.com",
		"customerPhone": "555",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}
	var appt models.Appointment
	decode(t, w, &appt)
	if appt.TotalAmount != 251 || appt.Status != models.StatusPending || len(appt.CartItems) != 1 {
		t.Fatalf("unexpected appointment %#v", appt)
	}
}

func TestUpdateCartItemRequiresQuantity(t *testing.T) {
	s := newTestServer()
	ring := models.Product{ID: primitive.NewObjectID(), Name: "Ring", Price: 80}
	s.db.products[ring.ID] = ring
	guest := []string{"X-Guest-ID", "guest-7"}

	if w := s.do(t, http.MethodPost, "/cart", "", map[string]any{"productId": ring.ID.Hex(), "quantity": 3}, guest...); w.Code != http.StatusOK {
		t.Fatalf("add: %d %s", w.Code, w.Body.String())
	}

	w := s.do(t, http.MethodPut, "/cart", "", map[string]any{"productId": ring.ID.Hex()}, guest...)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "quantity is required") {
		t.Fatalf("missing quantity: %d %s", w.Code, w.Body.String())
	}

	var cart models.Cart
	decode(t, s.do(t, http.MethodGet, "/cart", "", nil, guest...), &cart)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 || cart.TotalPrice != 240 {
		t.Fatalf("cart changed by rejected update: %#v", cart)
	}

	w = s.do(t, http.MethodPut, "/cart", "", map[string]any{"productId": ring.ID.Hex(), "quantity": 0}, guest...)
	decode(t, w, &cart)
	if w.Code != http.StatusOK || len(cart.Items) != 0 {
		t.Fatalf("explicit zero should remove the line: %d %s", w.Code, w.Body.String())
	}
}

func TestForgotPasswordCooldownOverHTTP(t *testing.T) {
	s := newTestServer()
	user, _ := s.seedUser(t, models.RoleUser)

	if w := s.do(t, http.MethodPost, "/users/forgot-password", "", map[string]string{"email": "ghost@example.com"}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown email: %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/users/forgot-password", "", map[string]string{"email": user.Email}); w.Code != http.StatusOK {
		t.Fatalf("first request: %d %s", w.Code, w.Body.String())
	}
	if w := s.do(t, http.MethodPost, "/users/forgot-password", "", map[string]string{"email": user.Email}); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", w.Code)
	}
	w := s.do(t, http.MethodPost, "/users/reset-password", "", map[string]string{"email": user.Email, "otp": "not-it", "newPassword": "secret1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("wrong code: %d", w.Code)
	}
}

func TestMetricsAndHealth(t *testing.T) {
	s := newTestServer()
	s.do(t, http.MethodGet, "/health", "", nil)

	w := s.do(t, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `http_requests_total{`) {
		t.Fatalf("metrics: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `path="/health"`) {
		t.Fatal("expected /health to be counted by route")
	}
}

func TestCORSConfig(t *testing.T) {
	open := corsConfig([]string{"*"})
	if !open.AllowAllOrigins || open.AllowCredentials || len(open.AllowOrigins) != 0 {
		t.Fatalf("unexpected wildcard config %#v", open)
	}
	listed := corsConfig([]string{"https://shop.example"})
	if listed.AllowAllOrigins || !listed.AllowCredentials || listed.AllowOrigins[0] != "https://shop.example" {
		t.Fatalf("unexpected listed config %#v", listed)
	}
}
