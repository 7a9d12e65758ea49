package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
	"github.com/sangkips/phoneshop-pos/pkg/realtime"
	"github.com/shopspring/decimal"
)

type fakeTransactor struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return fn(ctx)
}

type fakeProducts struct {
	mu    sync.Mutex
	items map[uuid.UUID]entity.Product
}

func newFakeProducts(products ...entity.Product) *fakeProducts {
	f := &fakeProducts{items: make(map[uuid.UUID]entity.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProducts) CreateBatch(ctx context.Context, products []entity.Product) error {
	for i := range products {
		if err := f.Create(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProducts) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) all() []entity.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Product, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeProducts) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range f.all() {
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		if params.LowStock && !p.IsLowStock() {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProducts) ListAll(context.Context) ([]entity.Product, error) {
	return f.all(), nil
}

func (f *fakeProducts) GetLowStock(context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range f.all() {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Categories(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range f.all() {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (f *fakeProducts) UpdatePieces(_ context.Context, id uuid.UUID, pieces int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.items[id]
	p.Pieces = pieces
	f.items[id] = p
	return nil
}

func (f *fakeProducts) DecrementBatch(_ context.Context, dec map[uuid.UUID]int) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var failed []uuid.UUID
	for id, qty := range dec {
		if p, ok := f.items[id]; !ok || p.Pieces < qty {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, qty := range dec {
		p := f.items[id]
		p.Pieces -= qty
		f.items[id] = p
	}
	return nil, nil
}

func (f *fakeProducts) pieces(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id].Pieces
}

type fakeCustomers struct {
	mu    sync.Mutex
	items map[uuid.UUID]entity.Customer
}

func newFakeCustomers(customers ...entity.Customer) *fakeCustomers {
	f := &fakeCustomers{items: make(map[uuid.UUID]entity.Customer)}
	for _, c := range customers {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		f.items[c.ID] = c
	}
	return f
}

func (f *fakeCustomers) Create(_ context.Context, c *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.items[c.ID] = *c
	return nil
}

func (f *fakeCustomers) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCustomers) Update(_ context.Context, c *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.items[c.ID]
	cur.Name, cur.Phone, cur.Email, cur.Address = c.Name, c.Phone, c.Email, c.Address
	f.items[c.ID] = cur
	return nil
}

func (f *fakeCustomers) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeCustomers) List(_ context.Context, _ *pagination.PaginationParams, search string, withLoans bool) ([]entity.Customer, int64, error) {
	all, _ := f.ListAll(context.Background())
	var out []entity.Customer
	for _, c := range all {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			continue
		}
		if withLoans && !c.HasLoan() {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCustomers) ListAll(context.Context) ([]entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Customer, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCustomers) IncreaseLoan(_ context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return false, nil
	}
	c.LoanBalance = c.LoanBalance.Add(amount)
	f.items[id] = c
	return true, nil
}

func (f *fakeCustomers) DecreaseLoan(_ context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return false, nil
	}
	c.LoanBalance = decimal.Max(decimal.Zero, c.LoanBalance.Sub(amount))
	f.items[id] = c
	return true, nil
}

func (f *fakeCustomers) AddLoyaltyPoints(_ context.Context, id uuid.UUID, points int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return false, nil
	}
	c.LoyaltyPoints += points
	f.items[id] = c
	return true, nil
}

type fakeLoans struct {
	mu      sync.Mutex
	entries []entity.LoanTransaction
}

func (f *fakeLoans) Create(_ context.Context, t *entity.LoanTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	f.entries = append(f.entries, *t)
	return nil
}

func (f *fakeLoans) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]entity.LoanTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.LoanTransaction
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].CustomerID == customerID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

type fakeSales struct {
	mu       sync.Mutex
	items    map[uuid.UUID]entity.Sale
	products *fakeProducts
	failWith error
	// beforeCreate runs at the start of Create, while the checkout is
	// still inside its transaction.
	beforeCreate func()
}

func newFakeSales(products *fakeProducts) *fakeSales {
	return &fakeSales{items: make(map[uuid.UUID]entity.Sale), products: products}
}

func (f *fakeSales) Create(_ context.Context, s *entity.Sale) error {
	if f.beforeCreate != nil {
		f.beforeCreate()
	}
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	f.items[s.ID] = *s
	return nil
}

func (f *fakeSales) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	f.mu.Lock()
	s, ok := f.items[id]
	f.mu.Unlock()
	if !ok {
		return nil, nil
	}
	items := make([]entity.SaleItem, len(s.Items))
	for i, item := range s.Items {
		if f.products != nil {
			item.Product, _ = f.products.GetByID(ctx, item.ProductID)
		}
		items[i] = item
	}
	s.Items = items
	return &s, nil
}

func (f *fakeSales) List(_ context.Context, _ *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Sale, 0, len(f.items))
	for _, s := range f.items {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSales) ListBetween(_ context.Context, from, to time.Time) ([]entity.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Sale
	for _, s := range f.items {
		if !s.CreatedAt.Before(from) && !s.CreatedAt.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSales) UpdateDetails(_ context.Context, id uuid.UUID, d repository.SaleDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.items[id]
	if d.CustomerName != nil {
		s.CustomerName = d.CustomerName
	}
	if d.Signature != nil {
		s.Signature = d.Signature
	}
	if d.Description != nil {
		s.Description = d.Description
	}
	f.items[id] = s
	return nil
}

func (f *fakeSales) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type fakeLosses struct {
	items map[uuid.UUID]entity.Loss
}

func newFakeLosses(losses ...entity.Loss) *fakeLosses {
	f := &fakeLosses{items: make(map[uuid.UUID]entity.Loss)}
	for _, l := range losses {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		f.items[l.ID] = l
	}
	return f
}

func (f *fakeLosses) Create(_ context.Context, l *entity.Loss) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	f.items[l.ID] = *l
	return nil
}

func (f *fakeLosses) GetByID(_ context.Context, id uuid.UUID) (*entity.Loss, error) {
	l, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (f *fakeLosses) Update(_ context.Context, l *entity.Loss) error {
	f.items[l.ID] = *l
	return nil
}

func (f *fakeLosses) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeLosses) List(_ context.Context, _ *pagination.PaginationParams, reason string) ([]entity.Loss, int64, error) {
	var out []entity.Loss
	for _, l := range f.items {
		if reason == "" || l.Reason == reason {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeLosses) ListBetween(_ context.Context, from, to time.Time) ([]entity.Loss, error) {
	var out []entity.Loss
	for _, l := range f.items {
		if !l.CreatedAt.Before(from) && !l.CreatedAt.After(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeUsers struct {
	items map[uuid.UUID]entity.User
}

func newFakeUsers(users ...entity.User) *fakeUsers {
	f := &fakeUsers{items: make(map[uuid.UUID]entity.User)}
	for _, u := range users {
		f.items[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.items[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.items {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Update(_ context.Context, u *entity.User) error {
	f.items[u.ID] = *u
	return nil
}

func (f *fakeUsers) List(_ context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error) {
	var out []entity.User
	for _, u := range f.items {
		if search == "" || strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(search)) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := int64(len(out))

	params.Validate()
	start := params.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + params.PerPage
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

type fakeProfiles struct {
	items map[uuid.UUID]entity.UserProfile
}

func newFakeProfiles(profiles ...entity.UserProfile) *fakeProfiles {
	f := &fakeProfiles{items: make(map[uuid.UUID]entity.UserProfile)}
	for _, p := range profiles {
		f.items[p.UserID] = p
	}
	return f
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	p, ok := f.items[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProfiles) Create(_ context.Context, p *entity.UserProfile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.items[p.UserID] = *p
	return nil
}

func (f *fakeProfiles) Update(_ context.Context, p *entity.UserProfile) error {
	f.items[p.UserID] = *p
	return nil
}

// recorder captures published changes
type recorder struct {
	mu      sync.Mutex
	changes []realtime.Change
}

func (r *recorder) add(c realtime.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) Inserted(table string, rec realtime.Identifiable) {
	r.add(realtime.Change{Table: table, Type: realtime.Insert, ID: rec.GetID(), Record: rec})
}

func (r *recorder) Updated(table string, rec realtime.Identifiable) {
	r.add(realtime.Change{Table: table, Type: realtime.Update, ID: rec.GetID(), Record: rec})
}

func (r *recorder) Deleted(table string, id uuid.UUID) {
	r.add(realtime.Change{Table: table, Type: realtime.Delete, ID: id})
}

func (r *recorder) count(table string, typ realtime.ChangeType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.changes {
		if c.Table == table && c.Type == typ {
			n++
		}
	}
	return n
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
