package orders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/go-user-orders.git/internal/cache"
	"github.com/ariefcatur/go-user-orders.git/internal/userclient"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	orders    []Order
	createErr error
	findErr   error
	findCalls int
}

func (f *fakeStore) Create(ctx context.Context, userID, product string, price float64) (Order, error) {
	if f.createErr != nil {
		return Order{}, f.createErr
	}
	o := Order{
		ID:        gofakeit.UUID(),
		UserID:    userID,
		Product:   product,
		Price:     price,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeStore) FindByUserID(ctx context.Context, userID string) ([]Order, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeCache struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	delErr  error
	deleted []string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (f *fakeCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.data, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeLookup struct {
	user  userclient.User
	err   error
	calls int
}

func (f *fakeLookup) Get(ctx context.Context, id string) (userclient.User, error) {
	f.calls++
	if f.err != nil {
		return userclient.User{}, f.err
	}
	return f.user, nil
}

func newTestService(store *fakeStore, c *fakeCache, l *fakeLookup) *Service {
	return &Service{
		Repo:  store,
		Cache: c,
		Users: l,
		TTL:   5 * time.Minute,
		Log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestCreateRejectsUnknownUser(t *testing.T) {
	store := &fakeStore{}
	c := newFakeCache()
	svc := newTestService(store, c, &fakeLookup{err: userclient.ErrNotFound})

	_, err := svc.Create(context.Background(), "nonexistent", "Widget", 9.99)

	require.ErrorIs(t, err, ErrUserNotFound)
	require.Empty(t, store.orders, "no order may be persisted for an unknown user")
	require.Empty(t, c.deleted, "cache must stay untouched")
	require.Empty(t, c.data)
}

func TestCreateLookupUnavailable(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, newFakeCache(), &fakeLookup{err: userclient.ErrUnavailable})

	_, err := svc.Create(context.Background(), "user1", "Widget", 9.99)

	require.ErrorIs(t, err, ErrUserServiceUnavailable)
	require.NotErrorIs(t, err, ErrUserNotFound)
	require.Empty(t, store.orders)
}

func TestCreateStoreFailureLeavesCacheAlone(t *testing.T) {
	store := &fakeStore{createErr: errors.New("db down")}
	c := newFakeCache()
	c.data[cache.UserOrdersKey("user1")] = []byte(`[]`)
	svc := newTestService(store, c, &fakeLookup{})

	_, err := svc.Create(context.Background(), "user1", "Widget", 9.99)

	require.Error(t, err)
	require.Empty(t, c.deleted)
	require.Contains(t, c.data, cache.UserOrdersKey("user1"))
}

func TestCreateInvalidatesOrderList(t *testing.T) {
	store := &fakeStore{}
	c := newFakeCache()
	key := cache.UserOrdersKey("user1")
	c.data[key] = []byte(`[]`) // stale snapshot from before the write
	svc := newTestService(store, c, &fakeLookup{})

	o, err := svc.Create(context.Background(), "user1", "Widget", 9.99)
	require.NoError(t, err)
	require.Equal(t, StatusPending, o.Status)
	require.NotEmpty(t, o.ID)

	require.Contains(t, c.deleted, key)
	require.NotContains(t, c.data, key)

	// first read after the write must come from the store, not the cache
	list, err := svc.ListByUser(context.Background(), "user1")
	require.NoError(t, err)
	require.Equal(t, 1, store.findCalls)
	require.Len(t, list, 1)
	require.Equal(t, o.ID, list[0].ID)
}

func TestCreateSurvivesCacheDeleteFailure(t *testing.T) {
	store := &fakeStore{}
	c := newFakeCache()
	c.delErr = errors.New("redis down")
	svc := newTestService(store, c, &fakeLookup{})

	o, err := svc.Create(context.Background(), "user1", "Widget", 9.99)

	require.NoError(t, err, "the write is durable; invalidation failure must not fail the request")
	require.Len(t, store.orders, 1)
	require.Equal(t, o.ID, store.orders[0].ID)
}

func TestListByUserServedFromCacheOnSecondCall(t *testing.T) {
	store := &fakeStore{}
	c := newFakeCache()
	svc := newTestService(store, c, &fakeLookup{})

	for i := 0; i < 2; i++ {
		_, err := store.Create(context.Background(), "user1", gofakeit.ProductName(), gofakeit.Price(1, 100))
		require.NoError(t, err)
	}
	store.findCalls = 0

	first, err := svc.ListByUser(context.Background(), "user1")
	require.NoError(t, err)
	second, err := svc.ListByUser(context.Background(), "user1")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, store.findCalls, "second call must be served from cache")
}

func TestListByUserCacheErrorFallsThroughToStore(t *testing.T) {
	store := &fakeStore{}
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	svc := newTestService(store, c, &fakeLookup{})

	_, err := store.Create(context.Background(), "user1", "Widget", 9.99)
	require.NoError(t, err)
	store.findCalls = 0

	list, err := svc.ListByUser(context.Background(), "user1")

	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, store.findCalls)
}

// Exercises the real lookup client against a stub user service.
func TestCreateOrderFlow(t *testing.T) {
	known := userclient.User{
		ID:        gofakeit.UUID(),
		Name:      "John Doe",
		Email:     "john@example.com",
		CreatedAt: time.Now().UTC(),
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/"+known.ID {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(known)
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	store := &fakeStore{}
	c := newFakeCache()
	svc := newTestService(store, c, nil)
	svc.Users = userclient.New(ts.URL, time.Second)

	o, err := svc.Create(context.Background(), known.ID, "Widget", 9.99)
	require.NoError(t, err)
	require.Equal(t, StatusPending, o.Status)
	require.Contains(t, c.deleted, cache.UserOrdersKey(known.ID))

	_, err = svc.Create(context.Background(), "no-such-user", "Widget", 9.99)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Len(t, store.orders, 1)
}
