package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/arzan03/productsdb-api/internal/repository/repotest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = zerolog.New(io.Discard)

type publishedEvent struct {
	Type string
	Data interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Data: data})
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type mapCache struct {
	mu     sync.Mutex
	values map[string][]string
}

func newMapCache() *mapCache { return &mapCache{values: map[string][]string{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, values []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = values
}

func (c *mapCache) Close() error { return nil }

type memReceipts struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemReceipts() *memReceipts { return &memReceipts{objects: map[string][]byte{}} }

func (r *memReceipts) Put(_ context.Context, key string, data []byte, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return r.putErr
	}
	r.objects[key] = data
	return nil
}

func (r *memReceipts) Exists(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.objects[key]
	return ok, nil
}

func (r *memReceipts) PresignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	return "https://receipts.example.com/" + key + "?expires=" + expiry.String(), nil
}

func amount(v float64) *models.Amount {
	a := models.Amount(v)
	return &a
}

func flag(v bool) *models.Flag {
	f := models.Flag(v)
	return &f
}

func catalog() *repotest.ProductStore {
	return repotest.NewProductStore(
		models.Product{ProductName: "Trail Shoe", Brand: "Acme", Category: "Footwear", Price: 90, Extra: models.Extra{"dateAdded": "2024-01-10"}},
		models.Product{ProductName: "Road Shoe", Brand: "acme sport", Category: "Footwear", Price: 120, Extra: models.Extra{"dateAdded": "2024-03-02"}},
		models.Product{ProductName: "Rain Jacket", Brand: "Northwind", Category: "Outerwear", Price: 150, Extra: models.Extra{"dateAdded": "2023-11-20"}},
		models.Product{ProductName: "Wool Socks", Brand: "Northwind", Category: "Accessories", Price: 12, Extra: models.Extra{"dateAdded": "2024-02-14"}},
		models.Product{ProductName: "Phone Case", Brand: "Gadgetry", Category: "Mobiles", Price: 25, Extra: models.Extra{"dateAdded": "2024-04-01"}},
	)
}

func TestProductFilterBrandAllEqualsNoFilter(t *testing.T) {
	svc := NewProductService(catalog(), nil, &testLogger)
	ctx := context.Background()

	all, err := svc.Filter(ctx, ProductQuery{Brand: "All", Size: "100"})
	require.NoError(t, err)
	none, err := svc.Filter(ctx, ProductQuery{Size: "100"})
	require.NoError(t, err)

	assert.Equal(t, none.TotalCount, all.TotalCount)
	assert.Equal(t, none.Result, all.Result)
	assert.Equal(t, int64(5), all.TotalCount)
}

func TestProductFilterBrandIsCaseInsensitiveSubstring(t *testing.T) {
	svc := NewProductService(catalog(), nil, &testLogger)

	page, err := svc.Filter(context.Background(), ProductQuery{Brand: "ACME"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.TotalCount)
	for _, p := range page.Result {
		assert.Contains(t, []string{"Acme", "acme sport"}, p.Brand)
	}
}

func TestProductFilterSortsByPrice(t *testing.T) {
	svc := NewProductService(catalog(), nil, &testLogger)
	ctx := context.Background()

	asc, err := svc.Filter(ctx, ProductQuery{LowToHigh: "Ascending"})
	require.NoError(t, err)
	for i := 1; i < len(asc.Result); i++ {
		assert.LessOrEqual(t, asc.Result[i-1].Price, asc.Result[i].Price)
	}

	desc, err := svc.Filter(ctx, ProductQuery{LowToHigh: "Descending"})
	require.NoError(t, err)
	for i := 1; i < len(desc.Result); i++ {
		assert.GreaterOrEqual(t, desc.Result[i-1].Price, desc.Result[i].Price)
	}
}

func TestProductFilterPriceRangeAndPaging(t *testing.T) {
	svc := NewProductService(catalog(), nil, &testLogger)

	page, err := svc.Filter(context.Background(), ProductQuery{
		MinPrice:  "20",
		MaxPrice:  "150",
		LowToHigh: "Ascending",
		Page:      "2",
		Size:      "2",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4), page.TotalCount)
	require.Len(t, page.Result, 2)
	assert.Equal(t, "Road Shoe", page.Result[0].ProductName)
	assert.Equal(t, "Rain Jacket", page.Result[1].ProductName)
}

func TestProductFilterNewestFirst(t *testing.T) {
	svc := NewProductService(catalog(), nil, &testLogger)

	page, err := svc.Filter(context.Background(), ProductQuery{NewestFirst: "true"})
	require.NoError(t, err)
	require.NotEmpty(t, page.Result)
	assert.Equal(t, "Phone Case", page.Result[0].ProductName)
}

func TestProductFilterRejectsMalformedPrice(t *testing.T) {
	svc := NewProductService(catalog(), nil, &testLogger)

	_, err := svc.Filter(context.Background(), ProductQuery{MinPrice: "cheap"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductFilterPropagatesStoreErrors(t *testing.T) {
	store := catalog()
	store.Err = errors.New("connection reset")
	svc := NewProductService(store, nil, &testLogger)

	_, err := svc.Filter(context.Background(), ProductQuery{})
	assert.EqualError(t, err, "connection reset")
}

func TestPaginatedProducts(t *testing.T) {
	svc := NewProductService(catalog(), nil, &testLogger)
	ctx := context.Background()

	first, err := svc.Paginated(ctx, "1", "2")
	require.NoError(t, err)
	second, err := svc.Paginated(ctx, "2", "2")
	require.NoError(t, err)
	all, err := svc.All(ctx)
	require.NoError(t, err)

	assert.Equal(t, all[:2], first)
	assert.Equal(t, all[2:4], second)

	defaults, err := svc.Paginated(ctx, "", "not-a-number")
	require.NoError(t, err)
	assert.Len(t, defaults, 5)
}

func TestDistinctValuesAreCached(t *testing.T) {
	store := catalog()
	c := newMapCache()
	svc := NewProductService(store, c, &testLogger)
	ctx := context.Background()

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Accessories", "Footwear", "Mobiles", "Outerwear"}, categories)

	// A failing store proves the second call is served from the cache.
	store.Err = errors.New("down")
	cached, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, categories, cached)

	_, err = svc.Brands(ctx)
	assert.Error(t, err)
}

func TestCreateUserIsIdempotentOnEmail(t *testing.T) {
	store := repotest.NewUserStore()
	pub := &recordingPublisher{}
	svc := NewUserService(store, pub)
	ctx := context.Background()

	first, err := svc.Create(ctx, &models.User{Email: "ana@example.com", Name: "Ana"})
	require.NoError(t, err)
	assert.True(t, first.Acknowledged)
	assert.NotNil(t, first.InsertedID)

	second, err := svc.Create(ctx, &models.User{Email: "ana@example.com", Name: "Other"})
	require.NoError(t, err)
	assert.Nil(t, second.InsertedID)
	assert.Equal(t, "user already exists", second.Message)

	users := store.All()
	require.Len(t, users, 1)
	assert.Equal(t, "Ana", users[0].Name)
	assert.Equal(t, []string{"user.created"}, pub.types())
}

func TestCreateUserValidatesEmail(t *testing.T) {
	svc := NewUserService(repotest.NewUserStore(), nil)

	_, err := svc.Create(context.Background(), &models.User{Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIsAdmin(t *testing.T) {
	store := repotest.NewUserStore(
		models.User{Email: "boss@example.com", Role: models.RoleAdmin},
		models.User{Email: "ana@example.com", Role: models.RoleEmployee},
	)
	svc := NewUserService(store, nil)
	ctx := context.Background()

	admin, err := svc.IsAdmin(ctx, "boss@example.com", "boss@example.com")
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = svc.IsAdmin(ctx, "ana@example.com", "ana@example.com")
	require.NoError(t, err)
	assert.False(t, admin)

	admin, err = svc.IsAdmin(ctx, "ghost@example.com", "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, admin)

	_, err = svc.IsAdmin(ctx, "boss@example.com", "ana@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.IsAdmin(ctx, "boss@example.com", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateSalaryOnlyRaises(t *testing.T) {
	store := repotest.NewUserStore(models.User{Email: "ana@example.com", Role: models.RoleEmployee, Salary: amount(3000)})
	pub := &recordingPublisher{}
	svc := NewUserService(store, pub)
	ctx := context.Background()

	lower, err := svc.UpdateSalary(ctx, "ana@example.com", "2500")
	require.NoError(t, err)
	assert.False(t, lower.Updated)
	assert.Equal(t, int64(0), lower.ModifiedCount)
	assert.Equal(t, models.Amount(3000), *store.All()[0].Salary)

	higher, err := svc.UpdateSalary(ctx, "ana@example.com", "3500")
	require.NoError(t, err)
	assert.True(t, higher.Updated)
	assert.Equal(t, int64(1), higher.ModifiedCount)
	assert.Equal(t, models.Amount(3500), *store.All()[0].Salary)

	same, err := svc.UpdateSalary(ctx, "ana@example.com", "3500")
	require.NoError(t, err)
	assert.True(t, same.Updated)
	assert.Equal(t, int64(1), same.MatchedCount)

	assert.Equal(t, []string{"user.salary_updated"}, pub.types())
}

func TestUpdateSalaryErrors(t *testing.T) {
	svc := NewUserService(repotest.NewUserStore(models.User{Email: "ana@example.com"}), nil)
	ctx := context.Background()

	_, err := svc.UpdateSalary(ctx, "ghost@example.com", "100")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateSalary(ctx, "ana@example.com", "lots")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateSalary(ctx, "", "100")
	assert.ErrorIs(t, err, ErrValidation)

	res, err := svc.UpdateSalary(ctx, "ana@example.com", "100")
	require.NoError(t, err)
	assert.True(t, res.Updated)
}

func TestSetVerifiedStoresBoolean(t *testing.T) {
	store := repotest.NewUserStore(models.User{Email: "ana@example.com", Role: models.RoleEmployee})
	svc := NewUserService(store, nil)
	ctx := context.Background()

	res, err := svc.SetVerified(ctx, "ana@example.com", "true")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)
	require.NotNil(t, store.All()[0].Verified)
	assert.True(t, bool(*store.All()[0].Verified))

	_, err = svc.SetVerified(ctx, "ana@example.com", "maybe")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerifiedListAndEmployees(t *testing.T) {
	store := repotest.NewUserStore(
		models.User{Email: "a@example.com", Role: models.RoleEmployee, Verified: flag(true)},
		models.User{Email: "b@example.com", Role: models.RoleHR, Verified: flag(true)},
		models.User{Email: "c@example.com", Role: models.RoleEmployee, Verified: flag(false)},
		models.User{Email: "d@example.com", Role: models.RoleAdmin, Verified: flag(true)},
		models.User{Email: "e@example.com", Role: models.RoleEmployee},
	)
	svc := NewUserService(store, nil)
	ctx := context.Background()

	verified, err := svc.VerifiedList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, emails(verified))

	employees, err := svc.Employees(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "c@example.com", "e@example.com"}, emails(employees))
}

func TestDeleteUser(t *testing.T) {
	store := repotest.NewUserStore(models.User{Email: "ana@example.com"})
	pub := &recordingPublisher{}
	svc := NewUserService(store, pub)
	ctx := context.Background()

	res, err := svc.Delete(ctx, "65f000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.DeletedCount)

	res, err = svc.Delete(ctx, store.All()[0].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)
	assert.Empty(t, store.All())

	_, err = svc.Delete(ctx, "xyz")
	assert.ErrorIs(t, err, ErrInvalidID)

	assert.Equal(t, []string{"user.deleted"}, pub.types())
}

func TestMakeAdminAndHR(t *testing.T) {
	store := repotest.NewUserStore(models.User{Email: "ana@example.com", Role: models.RoleEmployee})
	svc := NewUserService(store, nil)
	ctx := context.Background()

	res, err := svc.MakeHR(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)
	assert.Equal(t, models.RoleHR, store.All()[0].Role)

	res, err = svc.MakeAdmin(ctx, store.All()[0].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, models.RoleAdmin, store.All()[0].Role)

	_, err = svc.MakeAdmin(ctx, "12")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestTasksListNewestFirst(t *testing.T) {
	store := repotest.NewTaskStore()
	svc := NewTaskService(store, nil)
	ctx := context.Background()

	for _, date := range []string{"2024-05-01", "2024-05-03", "2024-05-02"} {
		_, err := svc.Create(ctx, &models.Task{Email: "ana@example.com", Extra: models.Extra{"date": date}})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, &models.Task{Email: "bo@example.com", Extra: models.Extra{"date": "2024-06-01"}})
	require.NoError(t, err)

	tasks, err := svc.ListByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "2024-05-03", tasks[0].Extra["date"])
	assert.Equal(t, "2024-05-01", tasks[2].Extra["date"])

	_, err = svc.ListByEmail(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, &models.Task{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordPaymentArchivesReceipt(t *testing.T) {
	store := repotest.NewPaymentStore()
	receipts := newMemReceipts()
	pub := &recordingPublisher{}
	svc := NewPaymentService(store, receipts, pub, &testLogger)
	ctx := context.Background()

	payment := &models.Payment{PaidTo: "ana@example.com", Extra: models.Extra{"salary": 3000.0, "month": "May"}}
	res, err := svc.Record(ctx, payment)
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)

	key := payment.ID.Hex() + ".json"
	assert.Contains(t, receipts.objects, key)
	assert.Equal(t, key, payment.ReceiptKey)
	assert.Equal(t, []string{"payment.recorded"}, pub.types())

	link, err := svc.ReceiptURL(ctx, payment.ID.Hex())
	require.NoError(t, err)
	assert.Contains(t, link.ReceiptURL, key)
	assert.Equal(t, "15m0s", link.ExpiresIn)

	list, err := svc.ListFor(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, key, list[0].ReceiptKey)
}

func TestRecordPaymentSurvivesArchiveFailure(t *testing.T) {
	store := repotest.NewPaymentStore()
	receipts := newMemReceipts()
	receipts.putErr = errors.New("bucket unavailable")
	svc := NewPaymentService(store, receipts, nil, &testLogger)
	ctx := context.Background()

	payment := &models.Payment{PaidTo: "ana@example.com"}
	_, err := svc.Record(ctx, payment)
	require.NoError(t, err)
	assert.Empty(t, payment.ReceiptKey)

	_, err = svc.ReceiptURL(ctx, payment.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReceiptURLErrors(t *testing.T) {
	ctx := context.Background()

	disabled := NewPaymentService(repotest.NewPaymentStore(), nil, nil, &testLogger)
	_, err := disabled.ReceiptURL(ctx, "65f000000000000000000001")
	assert.ErrorIs(t, err, ErrUnavailable)

	svc := NewPaymentService(repotest.NewPaymentStore(), newMemReceipts(), nil, &testLogger)
	_, err = svc.ReceiptURL(ctx, "65f000000000000000000001")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ReceiptURL(ctx, "bad")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("s3cret", time.Hour)

	token, err := tokens.Issue("ana@example.com")
	require.NoError(t, err)

	email, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)
}

func TestTokenRejections(t *testing.T) {
	tokens := NewTokenService("s3cret", time.Hour)

	_, err := tokens.Issue("nope")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewTokenService("", time.Hour).Issue("ana@example.com")
	assert.ErrorIs(t, err, ErrUnavailable)

	other, err := NewTokenService("other", time.Hour).Issue("ana@example.com")
	require.NoError(t, err)
	_, err = tokens.Parse(other)
	assert.ErrorIs(t, err, ErrUnauthorized)

	expired := NewTokenService("s3cret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("ana@example.com")
	require.NoError(t, err)
	_, err = tokens.Parse(old)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = tokens.Parse("")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func emails(users []models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Email)
	}
	return out
}
