package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
	"github.com/sangkips/orderdesk-api/pkg/pagination"
)

var (
	testNow   = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	testClock = func() time.Time { return testNow }
	testLog   = zerolog.Nop()

	staff = entity.Actor{UserID: uuid.New(), Email: "am@orderdesk.test", Role: enum.UserRoleAccountManager}
	admin = entity.Actor{UserID: uuid.New(), Email: "admin@orderdesk.test", Role: enum.UserRoleAdmin}
	buyer = entity.Actor{UserID: uuid.New(), Email: "buyer@shop.test", Role: enum.UserRoleCustomer}
)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(n int) *int { return &n }

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]entity.Customer
	deleted   map[uuid.UUID]entity.Customer

	failDerived    map[uuid.UUID]error
	vanishOnUpdate bool
	derivedWrites  int
	lastContact    map[string]interface{}
}

func newFakeCustomerRepo(customers ...entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{
		customers:   make(map[uuid.UUID]entity.Customer),
		deleted:     make(map[uuid.UUID]entity.Customer),
		failDerived: make(map[uuid.UUID]error),
	}
	for _, c := range customers {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) get(id uuid.UUID) entity.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customers[id]
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = testNow
	r.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Email != nil && strings.EqualFold(*c.Email, email) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, params *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	all, _ := r.ListAll(ctx)
	var out []entity.Customer
	for _, c := range all {
		if params.Status != nil && c.Status != *params.Status {
			continue
		}
		if params.Grade != nil && c.Grade != *params.Grade {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(c.CompanyName), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) ListAll(ctx context.Context) ([]entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *fakeCustomerRepo) UpdateContact(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastContact = fields
	if r.vanishOnUpdate {
		delete(r.customers, id)
	}
	c, ok := r.customers[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "company_name":
			c.CompanyName = v.(string)
		case "contact_person":
			c.ContactPerson = v.(string)
		case "phone":
			c.Phone = v.(string)
		case "email":
			c.Email = v.(*string)
		case "industry":
			c.Industry = v.(string)
		case "birthday":
			c.Birthday = v.(*time.Time)
		case "renewal_date":
			c.RenewalDate = v.(*time.Time)
		}
	}
	r.customers[id] = c
	return 1, nil
}

func (r *fakeCustomerRepo) UpdateDerived(ctx context.Context, id uuid.UUID, derived entity.DerivedFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failDerived[id]; err != nil {
		return err
	}
	c, ok := r.customers[id]
	if !ok {
		return nil
	}
	c.Apply(derived)
	r.customers[id] = c
	r.derivedWrites++
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return 0, nil
	}
	delete(r.customers, id)
	r.deleted[id] = c
	return 1, nil
}

func (r *fakeCustomerRepo) CountBySegment(ctx context.Context) ([]repository.SegmentCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[[2]string]int64)
	for _, c := range r.customers {
		counts[[2]string{string(c.Grade), string(c.Status)}]++
	}
	var out []repository.SegmentCount
	for k, n := range counts {
		out = append(out, repository.SegmentCount{Grade: enum.CustomerGrade(k[0]), Status: enum.CustomerStatus(k[1]), Count: n})
	}
	return out, nil
}

type fakeInteractionRepo struct {
	mu           sync.Mutex
	interactions map[uuid.UUID]entity.Interaction
	customers    *fakeCustomerRepo
}

func newFakeInteractionRepo(customers *fakeCustomerRepo) *fakeInteractionRepo {
	return &fakeInteractionRepo{interactions: make(map[uuid.UUID]entity.Interaction), customers: customers}
}

func (r *fakeInteractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.interactions[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (r *fakeInteractionRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Interaction
	for _, i := range r.interactions {
		if i.CustomerID == customerID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (r *fakeInteractionRepo) CreateAndTouch(ctx context.Context, interaction *entity.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if interaction.ID == uuid.Nil {
		interaction.ID = uuid.New()
	}
	r.interactions[interaction.ID] = *interaction

	r.customers.mu.Lock()
	defer r.customers.mu.Unlock()
	c, ok := r.customers.customers[interaction.CustomerID]
	if !ok {
		return errors.New("customer missing")
	}
	if c.LastInteractionDate == nil || interaction.CreatedAt.After(*c.LastInteractionDate) {
		at := interaction.CreatedAt
		c.LastInteractionDate = &at
	}
	r.customers.customers[c.ID] = c
	return nil
}

func (r *fakeInteractionRepo) CompleteAction(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.interactions[id]
	i.ActionCompleted = true
	r.interactions[id] = i
	return nil
}

func (r *fakeInteractionRepo) LatestOpenActions(ctx context.Context, customerIDs ...uuid.UUID) (map[uuid.UUID]entity.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	only := make(map[uuid.UUID]bool)
	for _, id := range customerIDs {
		only[id] = true
	}
	out := make(map[uuid.UUID]entity.Interaction)
	for _, i := range r.interactions {
		if !i.HasOpenAction() || (len(only) > 0 && !only[i.CustomerID]) {
			continue
		}
		if cur, ok := out[i.CustomerID]; !ok || i.CreatedAt.After(cur.CreatedAt) {
			out[i.CustomerID] = i
		}
	}
	return out, nil
}

type fakeReadRepo struct {
	mu    sync.Mutex
	reads map[string]entity.ReminderRead
	calls int
}

func newFakeReadRepo() *fakeReadRepo {
	return &fakeReadRepo{reads: make(map[string]entity.ReminderRead)}
}

func (r *fakeReadRepo) MarkRead(ctx context.Context, reminderID string, userID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.reads[reminderID]; ok {
		return nil
	}
	r.reads[reminderID] = entity.ReminderRead{ReminderID: reminderID, UserID: userID, ReadAt: at}
	return nil
}

func (r *fakeReadRepo) ReadSet(ctx context.Context, reminderIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for _, id := range reminderIDs {
		if _, ok := r.reads[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	mu         sync.Mutex
	orders     map[uuid.UUID]entity.Order
	aggregates map[string]entity.OrderAggregate
	buyers     []entity.Buyer
	customers  *fakeCustomerRepo
	products   *fakeProductRepo
	aggErr     error
}

func newFakeOrderRepo(customers *fakeCustomerRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:     make(map[uuid.UUID]entity.Order),
		aggregates: make(map[string]entity.OrderAggregate),
		customers:  customers,
		products:   newFakeProductRepo(),
	}
}

func (r *fakeOrderRepo) CreateWithItems(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.products.take(order.Items); err != nil {
		return err
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, userID uuid.UUID, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.orders {
		if !params.SkipUserFilter && o.UserID != userID {
			continue
		}
		if params.Status != nil && o.Status != *params.Status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status == enum.OrderStatusCancelled {
		return false, nil
	}
	o.Status = status
	r.orders[id] = o
	return true, nil
}

func (r *fakeOrderRepo) Cancel(ctx context.Context, id uuid.UUID, from []enum.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || !slices.Contains(from, o.Status) {
		return false, nil
	}
	o.Status = enum.OrderStatusCancelled
	r.orders[id] = o
	r.products.give(o.Items)
	return true, nil
}

func (r *fakeOrderRepo) AggregateByEmail(ctx context.Context) (map[string]entity.OrderAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aggErr != nil {
		return nil, r.aggErr
	}
	out := make(map[string]entity.OrderAggregate, len(r.aggregates))
	for k, v := range r.aggregates {
		out[k] = v
	}
	return out, nil
}

// ListBuyersWithoutCustomer skips buyers whose email matches a live or removed customer
func (r *fakeOrderRepo) ListBuyersWithoutCustomer(ctx context.Context) ([]entity.Buyer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers.mu.Lock()
	defer r.customers.mu.Unlock()

	known := func(email string) bool {
		for _, set := range []map[uuid.UUID]entity.Customer{r.customers.customers, r.customers.deleted} {
			for _, c := range set {
				if c.Email != nil && strings.EqualFold(*c.Email, email) {
					return true
				}
			}
		}
		return false
	}

	var out []entity.Buyer
	for _, b := range r.buyers {
		if !known(b.Email) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]entity.Product
}

func newFakeProductRepo(products ...entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) add(p entity.Product) entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *fakeProductRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

// take mirrors the guarded decrement: all or nothing
func (r *fakeProductRepo) take(items []entity.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		p, ok := r.products[item.ProductID]
		if !ok || !p.IsActive || p.Stock < item.Quantity {
			return &repository.InsufficientStockError{ProductID: item.ProductID}
		}
	}
	for _, item := range items {
		p := r.products[item.ProductID]
		p.Stock -= item.Quantity
		r.products[p.ID] = p
	}
	return nil
}

func (r *fakeProductRepo) give(items []entity.OrderItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		p := r.products[item.ProductID]
		p.Stock += item.Quantity
		r.products[p.ID] = p
	}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	*product = r.add(*product)
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		if !p.IsActive && !params.IncludeInactive {
			continue
		}
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "price":
			p.Price = v.(int64)
		case "stock":
			p.Stock = v.(int)
		case "category":
			p.Category = v.(string)
		case "is_active":
			p.IsActive = v.(bool)
		}
	}
	r.products[id] = p
	return 1, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) find(match func(entity.User) bool) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username }), nil
}

func (r *fakeUserRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role enum.UserRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.Role = role
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	for k, v := range fields {
		switch k {
		case "email":
			u.Email = v.(string)
		case "company_name":
			u.CompanyName = v.(string)
		case "password":
			u.Password = v.(string)
		case "is_active":
			u.IsActive = v.(bool)
		}
	}
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) TouchLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.LastLogin = &at
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) ListStaffEmails(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, u := range r.users {
		if u.IsActive && u.Role.IsStaff() {
			out = append(out, u.Email)
		}
	}
	sort.Strings(out)
	return out, nil
}
