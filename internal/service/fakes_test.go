package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/internal/ws"
)

// store is an in-memory stand-in for the database shared by the fake repositories.
type store struct {
	mu           sync.Mutex
	products     map[uuid.UUID]*model.Product
	variants     map[uuid.UUID]*model.ProductVariant
	transactions map[uuid.UUID]*model.Transaction
	profiles     map[uuid.UUID]*model.Profile
	logs         []model.InventoryLog
	collections  map[uuid.UUID]*model.Collection

	// stolen units are taken right before Place runs, simulating a concurrent buyer.
	stolen      int
	placeErr    error
	shippingErr error
}

func newStore() *store {
	return &store{
		products:     map[uuid.UUID]*model.Product{},
		variants:     map[uuid.UUID]*model.ProductVariant{},
		transactions: map[uuid.UUID]*model.Transaction{},
		profiles:     map[uuid.UUID]*model.Profile{},
		collections:  map[uuid.UUID]*model.Collection{},
	}
}

var sizeM = &model.Size{ID: 3, Name: "M", DisplayOrder: 3}

// addProduct inserts an available product with one size-M variant.
func (s *store) addProduct(price int64, inventory int) (*model.Product, *model.ProductVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &model.Product{SKU: uuid.NewString()[:8], Name: "Linen Shirt", Price: price, IsAvailable: true, ImageURL: "/img/shirt.jpg"}
	p.ID = uuid.New()
	v := &model.ProductVariant{ProductID: p.ID, SizeID: sizeM.ID, Size: sizeM, InventoryCount: inventory}
	v.ID = uuid.New()
	s.products[p.ID] = p
	s.variants[v.ID] = v
	return p, v
}

func (s *store) addProfile(email string) *model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &model.Profile{Email: email, FirstName: "Ana", LastName: "Quispe", TokenVersion: "v1"}
	p.ID = uuid.New()
	_ = p.SetPassword("secret123")
	s.profiles[p.ID] = p
	return p
}

func (s *store) inventory(variantID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.variants[variantID].InventoryCount
}

func (s *store) logCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

func (s *store) transactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

func (s *store) productWithVariants(p *model.Product) model.Product {
	out := *p
	out.Variants = nil
	for _, v := range s.variants {
		if v.ProductID == p.ID {
			out.Variants = append(out.Variants, *v)
		}
	}
	return out
}

type fakeProductRepo struct{ s *store }

func (r fakeProductRepo) ListAvailable(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Product
	for _, p := range r.s.products {
		if p.IsAvailable {
			out = append(out, r.s.productWithVariants(p))
		}
	}
	return out, nil
}

func (r fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.s.productWithVariants(p)
	return &out, nil
}

func (r fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			out := *p
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeProductRepo) FindVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.variants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *v
	p := *r.s.products[v.ProductID]
	out.Product = &p
	return &out, nil
}

func (r fakeProductRepo) Create(ctx context.Context, product *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	product.ID = uuid.New()
	r.s.products[product.ID] = product
	return nil
}

type fakeTransactionRepo struct{ s *store }

func (r fakeTransactionRepo) Place(ctx context.Context, order *model.Transaction, actor string) (*model.InventoryLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.placeErr != nil {
		return nil, r.s.placeErr
	}
	v, ok := r.s.variants[order.VariantID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v.InventoryCount -= r.s.stolen
	r.s.stolen = 0
	if v.InventoryCount < order.Quantity {
		return nil, repository.ErrStockConflict
	}
	prev := v.InventoryCount
	v.InventoryCount -= order.Quantity

	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	stored := *order
	r.s.transactions[order.ID] = &stored

	entry := model.InventoryLog{
		ID: uuid.New(), VariantID: v.ID, PreviousCount: prev, NewCount: v.InventoryCount,
		Reason: model.PurchaseReason(order.ID), Actor: actor,
	}
	r.s.logs = append(r.s.logs, entry)
	return &entry, nil
}

func (r fakeTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (r fakeTransactionRepo) FindAll(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Transaction
	for _, t := range r.s.transactions {
		if filter.BuyerID != nil && t.BuyerID != *filter.BuyerID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Department != "" && t.Department != filter.Department {
			continue
		}
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b model.Transaction) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r fakeTransactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, to model.TransactionStatus, allowedFrom []model.TransactionStatus, actor string) (*model.Transaction, *repository.StockChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	if !slices.Contains(allowedFrom, t.Status) {
		return nil, nil, repository.ErrStatusConflict
	}
	var change *repository.StockChange
	if to == model.StatusCancelled {
		v := r.s.variants[t.VariantID]
		prev := v.InventoryCount
		v.InventoryCount += t.Quantity
		entry := model.InventoryLog{
			ID: uuid.New(), VariantID: v.ID, PreviousCount: prev, NewCount: v.InventoryCount,
			Reason: model.CancellationReason(t.ID), Actor: actor,
		}
		r.s.logs = append(r.s.logs, entry)
		change = &repository.StockChange{ProductID: t.ProductID, Log: &entry}
	}
	t.Status = to
	out := *t
	return &out, change, nil
}

func (r fakeTransactionRepo) SetPaymentStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus, actor string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.PaymentStatus = status
	return nil
}

type fakeProfileRepo struct{ s *store }

func (r fakeProfileRepo) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if p.Email == email {
			out := *p
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r fakeProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	profile.ID = uuid.New()
	stored := *profile
	r.s.profiles[profile.ID] = &stored
	return nil
}

func (r fakeProfileRepo) modify(id uuid.UUID, fn func(p *model.Profile)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(p)
	return nil
}

func (r fakeProfileRepo) UpdateDetails(ctx context.Context, id uuid.UUID, firstName, lastName, phone string) error {
	return r.modify(id, func(p *model.Profile) { p.FirstName, p.LastName, p.Phone = firstName, lastName, phone })
}

func (r fakeProfileRepo) UpdateShipping(ctx context.Context, id uuid.UUID, department, province, address string) error {
	if r.s.shippingErr != nil {
		return r.s.shippingErr
	}
	return r.modify(id, func(p *model.Profile) { p.Department, p.Province, p.Address = department, province, address })
}

func (r fakeProfileRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return r.modify(id, func(p *model.Profile) { p.Password = hashedPassword })
}

func (r fakeProfileRepo) UpdateTokenVersion(ctx context.Context, id uuid.UUID, version string) error {
	return r.modify(id, func(p *model.Profile) { p.TokenVersion = version })
}

type fakeInventoryRepo struct{ s *store }

func (r fakeInventoryRepo) SetCount(ctx context.Context, variantID uuid.UUID, newCount int, reason, actor string) (*model.InventoryLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.variants[variantID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	entry := model.InventoryLog{
		ID: uuid.New(), VariantID: variantID, PreviousCount: v.InventoryCount, NewCount: newCount,
		Reason: reason, Actor: actor,
	}
	v.InventoryCount = newCount
	r.s.logs = append(r.s.logs, entry)
	return &entry, nil
}

func (r fakeInventoryRepo) ListLogs(ctx context.Context, variantID uuid.UUID, limit int) ([]model.InventoryLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.InventoryLog
	for _, l := range r.s.logs {
		if l.VariantID == variantID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeCollectionRepo struct{ s *store }

func (r fakeCollectionRepo) ListEnabled(ctx context.Context) ([]model.Collection, error) {
	return r.filter(func(c *model.Collection) bool { return c.Enabled }), nil
}

func (r fakeCollectionRepo) ListCurrent(ctx context.Context, now time.Time) ([]model.Collection, error) {
	return r.filter(func(c *model.Collection) bool { return c.IsCurrent(now) }), nil
}

func (r fakeCollectionRepo) filter(keep func(c *model.Collection) bool) []model.Collection {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Collection
	for _, c := range r.s.collections {
		if keep(c) {
			out = append(out, *c)
		}
	}
	return out
}

func (r fakeCollectionRepo) FindBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	for _, c := range r.filter(func(c *model.Collection) bool { return c.Enabled && c.Slug == slug }) {
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (r fakeCollectionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.collections[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r fakeCollectionRepo) Create(ctx context.Context, c *model.Collection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = uuid.New()
	stored := *c
	r.s.collections[c.ID] = &stored
	return nil
}

func (r fakeCollectionRepo) Update(ctx context.Context, c *model.Collection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *c
	r.s.collections[c.ID] = &stored
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.StockEvent
}

func (p *recordingPublisher) Publish(e ws.StockEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func buyer(p *model.Profile) *Actor {
	return &Actor{ID: p.ID, Email: p.Email, Name: p.FullName()}
}

func admin() *Actor {
	return &Actor{ID: uuid.New(), Email: "admin@store.pe", Name: "Admin", IsAdmin: true}
}
