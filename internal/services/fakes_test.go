package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"zaffira/internal/models"
)

// The fakes copy documents in and out so that callers cannot mutate stored
// state through a pointer, the way a real database behaves.

var testLogger = zap.NewNop()

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeUserStore struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]models.User
	replaces int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]models.User{}}
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) Replace(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return models.ErrNotFound
	}
	for id, u := range s.users {
		if id != user.ID && u.Email == user.Email {
			return models.ErrDuplicate
		}
	}
	s.users[user.ID] = *user
	s.replaces++
	return nil
}

func (s *fakeUserStore) List(_ context.Context, skip, limit int64) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if skip >= int64(len(out)) {
		return []models.User{}, nil
	}
	out = out[skip:]
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeUserStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *fakeUserStore) get(id primitive.ObjectID) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *fakeUserStore) seed(user models.User) models.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()
	return user
}

type fakeProductStore struct {
	mu         sync.Mutex
	products   map[primitive.ObjectID]models.Product
	listCalls  int
	lastFilter CatalogFilter
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[primitive.ObjectID]models.Product{}}
}

func (s *fakeProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (s *fakeProductStore) List(_ context.Context, filter CatalogFilter) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	s.lastFilter = filter
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeProductStore) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.SKU == product.SKU {
			return models.ErrDuplicate
		}
	}
	product.ID = primitive.NewObjectID()
	s.products[product.ID] = *product
	return nil
}

func (s *fakeProductStore) Replace(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; !ok {
		return models.ErrNotFound
	}
	for id, p := range s.products {
		if id != product.ID && p.SKU == product.SKU {
			return models.ErrDuplicate
		}
	}
	s.products[product.ID] = *product
	return nil
}

func (s *fakeProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *fakeProductStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.products)), nil
}

func (s *fakeProductStore) seed(p models.Product) models.Product {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.mu.Lock()
	s.products[p.ID] = p
	s.mu.Unlock()
	return p
}

type fakeSupplierStore struct {
	mu        sync.Mutex
	suppliers map[primitive.ObjectID]models.Supplier
}

func newFakeSupplierStore() *fakeSupplierStore {
	return &fakeSupplierStore{suppliers: map[primitive.ObjectID]models.Supplier{}}
}

func (s *fakeSupplierStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.suppliers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &v, nil
}

func (s *fakeSupplierStore) List(context.Context) ([]models.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Supplier, 0, len(s.suppliers))
	for _, v := range s.suppliers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeSupplierStore) Create(_ context.Context, supplier *models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	supplier.ID = primitive.NewObjectID()
	s.suppliers[supplier.ID] = *supplier
	return nil
}

func (s *fakeSupplierStore) Replace(_ context.Context, supplier *models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[supplier.ID]; !ok {
		return models.ErrNotFound
	}
	s.suppliers[supplier.ID] = *supplier
	return nil
}

func (s *fakeSupplierStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.suppliers, id)
	return nil
}

func (s *fakeSupplierStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.suppliers)), nil
}

type fakeCartStore struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]models.Cart
	// afterFind, when set, runs after every lookup outside the lock.
	afterFind func()
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[primitive.ObjectID]models.Cart{}}
}

func copyCart(c models.Cart) models.Cart {
	c.Items = append([]models.LineItem{}, c.Items...)
	return c
}

func (s *fakeCartStore) FindByOwner(_ context.Context, key CartKey) (*models.Cart, error) {
	cart, err := s.findByOwner(key)
	if s.afterFind != nil {
		s.afterFind()
	}
	return cart, err
}

func (s *fakeCartStore) findByOwner(key CartKey) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carts {
		if key.UserID != nil && c.User != nil && *c.User == *key.UserID {
			out := copyCart(c)
			return &out, nil
		}
		if key.UserID == nil && key.GuestID != "" && c.GuestID == key.GuestID {
			out := copyCart(c)
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeCartStore) Save(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	s.carts[cart.ID] = copyCart(*cart)
	return nil
}

func (s *fakeCartStore) only(t interface{ Fatalf(string, ...any) }) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.carts) != 1 {
		t.Fatalf("expected exactly one stored cart, got %d", len(s.carts))
	}
	for _, c := range s.carts {
		return copyCart(c)
	}
	return models.Cart{}
}

type fakeAppointmentStore struct {
	mu           sync.Mutex
	appointments map[primitive.ObjectID]models.Appointment
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{appointments: map[primitive.ObjectID]models.Appointment{}}
}

func (s *fakeAppointmentStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	a.CartItems = append([]models.LineItem{}, a.CartItems...)
	return &a, nil
}

func (s *fakeAppointmentStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Appointment, error) {
	return s.filter(func(a models.Appointment) bool { return a.User != nil && *a.User == userID }), nil
}

func (s *fakeAppointmentStore) List(_ context.Context, status string) ([]models.Appointment, error) {
	return s.filter(func(a models.Appointment) bool { return status == "" || a.Status == status }), nil
}

func (s *fakeAppointmentStore) filter(keep func(models.Appointment) bool) []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range s.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *fakeAppointmentStore) Create(_ context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = primitive.NewObjectID()
	stored := *a
	stored.CartItems = append([]models.LineItem{}, a.CartItems...)
	s.appointments[a.ID] = stored
	return nil
}

func (s *fakeAppointmentStore) Replace(_ context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[a.ID]; !ok {
		return models.ErrNotFound
	}
	s.appointments[a.ID] = *a
	return nil
}

func (s *fakeAppointmentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.appointments, id)
	return nil
}

func (s *fakeAppointmentStore) CountByStatus(context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int64{}
	for _, a := range s.appointments {
		out[a.Status]++
	}
	return out, nil
}

func (s *fakeAppointmentStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appointments)
}

type fakeConsultationStore struct {
	mu            sync.Mutex
	consultations map[primitive.ObjectID]models.Consultation
}

func newFakeConsultationStore() *fakeConsultationStore {
	return &fakeConsultationStore{consultations: map[primitive.ObjectID]models.Consultation{}}
}

func (s *fakeConsultationStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Consultation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.consultations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (s *fakeConsultationStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Consultation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Consultation{}
	for _, c := range s.consultations {
		if c.User == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeConsultationStore) List(_ context.Context, status string) ([]models.Consultation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Consultation{}
	for _, c := range s.consultations {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeConsultationStore) Create(_ context.Context, c *models.Consultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = primitive.NewObjectID()
	s.consultations[c.ID] = *c
	return nil
}

func (s *fakeConsultationStore) Replace(_ context.Context, c *models.Consultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consultations[c.ID]; !ok {
		return models.ErrNotFound
	}
	s.consultations[c.ID] = *c
	return nil
}

func (s *fakeConsultationStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consultations[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.consultations, id)
	return nil
}

func (s *fakeConsultationStore) CountByStatus(context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int64{}
	for _, c := range s.consultations {
		out[c.Status]++
	}
	return out, nil
}

type sentCode struct {
	to   string
	code string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (m *fakeMailer) SendResetCode(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentCode{to: to, code: code})
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *fakeCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	c.invalidated++
}

type fakeImageStore struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
	err     error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{saved: map[string][]byte{}}
}

func (s *fakeImageStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[name] = body
	return "/uploads/products/" + name, nil
}

func (s *fakeImageStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	return s.err
}

var errBoom = errors.New("boom")
