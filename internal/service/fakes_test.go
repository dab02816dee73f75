package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

// memStore is an in-memory stand-in for the storefront tables. Transactions
// are serialized and roll back by restoring a snapshot.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	products  []*models.Product
	lines     []*memLine
	orders    []*models.Order
	addresses []*models.ShippingAddress
	reviews   []*models.Review
	sellers   []*models.Seller
	nextID    int64

	// call counters
	upserts, deletes, counts, lists int
	failOrderCreates                int
}

type memLine struct {
	id, userID, productID int64
	orderID               int64
	quantity              int
}

func newMemStore() *memStore {
	return &memStore{nextID: 100}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addProduct(slug string, price float64) *models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Product{
		ID:       m.id(),
		Slug:     slug,
		Name:     strings.ToUpper(slug),
		Price:    price,
		Category: models.Category{ID: 1, Slug: "shirts", Name: "Shirts"},
		Seller:   models.Seller{ID: 1, Slug: "acme", Name: "Acme"},
	}
	m.products = append(m.products, p)
	return p
}

func (m *memStore) addSeller(userID int64, slug string, approved bool) *models.Seller {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.Seller{ID: m.id(), UserID: userID, Slug: slug, Name: strings.ToUpper(slug), Approved: approved}
	m.sellers = append(m.sellers, s)
	return s
}

// addSellerProduct adds a product owned by seller.
func (m *memStore) addSellerProduct(seller *models.Seller, slug string, price float64) *models.Product {
	p := m.addProduct(slug, price)
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Seller = *seller
	return p
}

// addOrderWith records an order of userID holding one line per product.
func (m *memStore) addOrderWith(userID int64, txRef string, productIDs ...int64) *models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := &models.Order{ID: m.id(), UserID: userID, TxRef: txRef, Status: models.OrderStatusPending}
	m.orders = append(m.orders, o)
	for _, pid := range productIDs {
		m.lines = append(m.lines, &memLine{id: m.id(), userID: userID, productID: pid, orderID: o.ID, quantity: 1})
	}
	return o
}

func (m *memStore) addAddress(userID int64, city string) *models.ShippingAddress {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &models.ShippingAddress{
		ID: m.id(), UserID: userID, FullName: "Ada Obi", Email: "ada@example.com",
		Phone: "+234800", Address: "1 Marina", City: city, Country: "Nigeria", Zipcode: "100001",
	}
	m.addresses = append(m.addresses, a)
	return a
}

func (m *memStore) liveLines(userID int64) []*memLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*memLine
	for _, l := range m.lines {
		if l.userID == userID && l.orderID == 0 {
			out = append(out, l)
		}
	}
	return out
}

func (m *memStore) productByID(id int64) *models.Product {
	for _, p := range m.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

type snapshot struct {
	lines     []memLine
	orders    []*models.Order
	addresses []*models.ShippingAddress
}

func (m *memStore) snapshot() snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := snapshot{
		orders:    append([]*models.Order(nil), m.orders...),
		addresses: append([]*models.ShippingAddress(nil), m.addresses...),
	}
	for _, l := range m.lines {
		s.lines = append(s.lines, *l)
	}
	return s
}

func (m *memStore) restore(s snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = s.orders
	m.addresses = s.addresses
	m.lines = m.lines[:0]
	for i := range s.lines {
		l := s.lines[i]
		m.lines = append(m.lines, &l)
	}
}

type fakeTx struct{ *memStore }

func (t fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()

	snap := t.snapshot()
	if err := fn(ctx); err != nil {
		t.restore(snap)
		return err
	}
	return nil
}

type fakeProducts struct{ *memStore }

func (f fakeProducts) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (f fakeProducts) match(filter *models.ProductFilter) []*models.Product {
	var out []*models.Product
	for _, p := range f.products {
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		if filter.CategorySlug != "" && p.Category.Slug != filter.CategorySlug {
			continue
		}
		if filter.SellerSlug != "" && p.Seller.Slug != filter.SellerSlug {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f fakeProducts) Count(ctx context.Context, filter *models.ProductFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts++
	return len(f.match(filter)), nil
}

func (f fakeProducts) List(ctx context.Context, filter *models.ProductFilter, offset, limit int) ([]*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	all := f.match(filter)
	out := make([]*models.Product, 0)
	for i := offset; i < len(all) && i < offset+limit; i++ {
		out = append(out, all[i])
	}
	return out, nil
}

func (f fakeProducts) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return []*models.Category{{ID: 1, Slug: "shirts", Name: "Shirts"}}, nil
}

func (f fakeProducts) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	if slug == "shirts" {
		return &models.Category{ID: 1, Slug: "shirts", Name: "Shirts"}, nil
	}
	return nil, errors.ErrNotFound
}

func (f fakeProducts) GetSellerBySlug(ctx context.Context, slug string) (*models.Seller, error) {
	if slug == "acme" {
		return &models.Seller{ID: 1, Slug: "acme", Name: "Acme"}, nil
	}
	return nil, errors.ErrNotFound
}

func (f fakeProducts) RecomputeRating(ctx context.Context, productID int64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.productByID(productID)
	if p == nil {
		return 0, errors.ErrNotFound
	}
	sum, n := 0, 0
	for _, r := range f.reviews {
		if r.ProductID == productID {
			sum += r.Rating
			n++
		}
	}
	p.AverageRating = 0
	if n > 0 {
		p.AverageRating = float64(sum) / float64(n)
	}
	return p.AverageRating, nil
}

type fakeCart struct{ *memStore }

func (f fakeCart) UpsertLine(ctx context.Context, userID, productID int64, quantity int) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	for _, l := range f.lines {
		if l.userID == userID && l.productID == productID && l.orderID == 0 {
			l.quantity = quantity
			return l.id, false, nil
		}
	}
	l := &memLine{id: f.id(), userID: userID, productID: productID, quantity: quantity}
	f.lines = append(f.lines, l)
	return l.id, true, nil
}

func (f fakeCart) DeleteLine(ctx context.Context, userID, productID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	for i, l := range f.lines {
		if l.userID == userID && l.productID == productID && l.orderID == 0 {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f fakeCart) ListLive(ctx context.Context, userID int64) ([]models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.CartLine, 0)
	for _, l := range f.lines {
		if l.userID == userID && l.orderID == 0 {
			out = append(out, models.CartLine{
				ID:       l.id,
				UserID:   l.userID,
				LineItem: models.LineItem{Product: *f.productByID(l.productID), Quantity: l.quantity},
			})
		}
	}
	return out, nil
}

func (f fakeCart) LockLive(ctx context.Context, userID int64) ([]models.CartLine, error) {
	return f.ListLive(ctx, userID)
}

func (f fakeCart) Reparent(ctx context.Context, userID, orderID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, l := range f.lines {
		if l.userID == userID && l.orderID == 0 {
			l.orderID = orderID
			n++
		}
	}
	return n, nil
}

type fakeAddresses struct{ *memStore }

func (f fakeAddresses) ListByUser(ctx context.Context, userID int64) ([]*models.ShippingAddress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.ShippingAddress, 0)
	for _, a := range f.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f fakeAddresses) GetForUser(ctx context.Context, id, userID int64) (*models.ShippingAddress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.addresses {
		if a.ID == id && a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (f fakeAddresses) Create(ctx context.Context, addr *models.ShippingAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	addr.ID = f.id()
	cp := *addr
	f.addresses = append(f.addresses, &cp)
	return nil
}

func (f fakeAddresses) Update(ctx context.Context, addr *models.ShippingAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.addresses {
		if a.ID == addr.ID && a.UserID == addr.UserID {
			cp := *addr
			f.addresses[i] = &cp
			return nil
		}
	}
	return errors.ErrNotFound
}

func (f fakeAddresses) Delete(ctx context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.addresses {
		if a.ID == id && a.UserID == userID {
			f.addresses = append(f.addresses[:i], f.addresses[i+1:]...)
			return nil
		}
	}
	return errors.ErrNotFound
}

type fakeOrders struct{ *memStore }

func (f fakeOrders) Create(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOrderCreates > 0 {
		f.failOrderCreates--
		return repository.ErrDuplicate
	}
	for _, o := range f.orders {
		if o.TxRef == order.TxRef {
			return repository.ErrDuplicate
		}
	}
	order.ID = f.id()
	cp := *order
	f.orders = append(f.orders, &cp)
	return nil
}

func (f fakeOrders) GetByTxRef(ctx context.Context, txRef string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.TxRef == txRef {
			cp := *o
			return &cp, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (f fakeOrders) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	f.mu.Lock()
	var out []*models.Order
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].UserID == userID {
			cp := *f.orders[i]
			out = append(out, &cp)
		}
	}
	f.mu.Unlock()

	for _, o := range out {
		lines, _ := f.ListLines(ctx, o.ID)
		o.Items = lines
	}
	return out, nil
}

func (f fakeOrders) ListLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.OrderLine, 0)
	for _, l := range f.lines {
		if l.orderID == orderID {
			out = append(out, models.OrderLine{
				ID:       l.id,
				OrderID:  orderID,
				LineItem: models.LineItem{Product: *f.productByID(l.productID), Quantity: l.quantity},
			})
		}
	}
	return out, nil
}

func (f fakeOrders) ListBySeller(ctx context.Context, sellerID int64) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Order, 0)
	for i := len(f.orders) - 1; i >= 0; i-- {
		o := *f.orders[i]
		o.Items = nil
		for _, l := range f.lines {
			p := f.productByID(l.productID)
			if l.orderID == o.ID && p != nil && p.Seller.ID == sellerID {
				o.Items = append(o.Items, models.OrderLine{
					ID:       l.id,
					OrderID:  o.ID,
					LineItem: models.LineItem{Product: *p, Quantity: l.quantity},
				})
			}
		}
		if len(o.Items) > 0 {
			out = append(out, &o)
		}
	}
	return out, nil
}

type fakeSellers struct{ *memStore }

func (f fakeSellers) GetByUserID(ctx context.Context, userID int64) (*models.Seller, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sellers {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (f fakeSellers) ListProducts(ctx context.Context, sellerID int64) ([]*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Product, 0)
	for _, p := range f.products {
		if p.Seller.ID == sellerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f fakeSellers) GetProductForUpdate(ctx context.Context, slug string) (*models.Product, error) {
	return fakeProducts(f).GetBySlug(ctx, slug)
}

func (f fakeSellers) CreateProduct(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == product.Slug {
			return repository.ErrDuplicate
		}
	}
	product.ID = f.id()
	cp := *product
	f.products = append(f.products, &cp)
	return nil
}

func (f fakeSellers) UpdateProduct(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if p.ID == product.ID {
			cp := *product
			f.products[i] = &cp
			return nil
		}
	}
	return errors.ErrNotFound
}

func (f fakeSellers) DeleteProduct(ctx context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if p.ID == productID {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return errors.ErrNotFound
}

type fakeReviews struct{ *memStore }

func (f fakeReviews) Create(ctx context.Context, review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.UserID == review.UserID && r.ProductID == review.ProductID {
			return repository.ErrDuplicate
		}
	}
	review.ID = f.id()
	cp := *review
	f.reviews = append(f.reviews, &cp)
	return nil
}

func (f fakeReviews) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (f fakeReviews) List(ctx context.Context, productID int64) ([]*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Review, 0)
	for i := len(f.reviews) - 1; i >= 0; i-- {
		if r := f.reviews[i]; productID == 0 || r.ProductID == productID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f fakeReviews) Update(ctx context.Context, review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.reviews {
		if r.ID == review.ID {
			cp := *review
			f.reviews[i] = &cp
			return nil
		}
	}
	return errors.ErrNotFound
}

func (f fakeReviews) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.reviews {
		if r.ID == id {
			f.reviews = append(f.reviews[:i], f.reviews[i+1:]...)
			return nil
		}
	}
	return errors.ErrNotFound
}

type fakeCache struct {
	mu          sync.Mutex
	data        map[int64][]*models.Order
	invalidated []int64
	gets        int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[int64][]*models.Order)}
}

func (c *fakeCache) GetByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.data[userID], nil
}

func (c *fakeCache) SetByUserID(ctx context.Context, userID int64, orders []*models.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[userID] = orders
	return nil
}

func (c *fakeCache) InvalidateByUserID(ctx context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	orders  []string
	reviews []int64
}

func (p *recordingPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, order.TxRef)
	return nil
}

func (p *recordingPublisher) PublishReviewChanged(ctx context.Context, review *models.Review) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reviews = append(p.reviews, review.ProductID)
	return nil
}

type sequenceTokens struct {
	mu sync.Mutex
	n  int
}

func (s *sequenceTokens) NewTxRef() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("tx_%03d", s.n)
}

var (
	_ repository.Transactor        = fakeTx{}
	_ repository.ProductRepository = fakeProducts{}
	_ repository.CartRepository    = fakeCart{}
	_ repository.AddressRepository = fakeAddresses{}
	_ repository.OrderRepository   = fakeOrders{}
	_ repository.ReviewRepository  = fakeReviews{}
	_ repository.SellerRepository  = fakeSellers{}
	_ repository.OrderCache        = (*fakeCache)(nil)
)
