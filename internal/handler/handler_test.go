package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/config"
	"cardapio-backend/internal/credential"
	"cardapio-backend/internal/errs"
	"cardapio-backend/internal/metrics"
	"cardapio-backend/internal/router"
	"cardapio-backend/internal/store"
	"cardapio-backend/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// 2024-06-10 12:00 in Sao Paulo, a Monday.
var fixedNow = time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

func testBusiness() config.BusinessConfig {
	return config.Default().Business
}

type fixture struct {
	store      *memstore.Store
	handler    *Handler
	dispatcher *router.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	h := New(Options{
		Store:    s,
		Metrics:  metrics.NewRecorder("test"),
		Business: testBusiness(),
		Now:      func() time.Time { return fixedNow },
	})
	return &fixture{store: s, handler: h, dispatcher: router.NewDispatcher(h.Table(), nil)}
}

// call dispatches a request and decodes the JSON body generically.
func (f *fixture) call(t *testing.T, method, target string, body any) (int, any) {
	t.Helper()
	u, err := url.Parse(target)
	require.NoError(t, err)

	req := &api.Request{Method: method, Path: u.Path, Query: u.Query(), Headers: http.Header{}}
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req.Body = raw
	}

	resp := f.dispatcher.Dispatch(context.Background(), req)
	if resp.Body == nil {
		return resp.StatusCode, nil
	}
	raw, err := json.Marshal(resp.Body)
	require.NoError(t, err)
	var out any
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func obj(t *testing.T, v any) map[string]any {
	t.Helper()
	m, ok := v.(map[string]any)
	require.True(t, ok, "expected object, got %T", v)
	return m
}

func TestReplaceAllWithEmptyArrayEmptiesCollection(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(store.Products, bson.M{"id": 1, "name": "old"})

	status, body := f.call(t, http.MethodPost, "/products", []any{})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), obj(t, body)["total"])
	assert.Empty(t, f.store.Docs(store.Products))
}

func TestReplaceAllRejectsNonArray(t *testing.T) {
	f := newFixture(t)

	status, _ := f.call(t, http.MethodPost, "/products", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSnapshotAfterProductSave(t *testing.T) {
	f := newFixture(t)
	products := []map[string]any{
		{"name": "Margherita", "category": "Pizzas", "price": 40},
		{"name": "Calabresa", "category": "Pizzas", "price": 42},
		{"name": "Coca-Cola", "category": "Bebidas", "price": 8},
		{"name": "Água", "category": " ", "price": 4},
	}
	status, _ := f.call(t, http.MethodPost, "/products", products)
	require.Equal(t, http.StatusOK, status)

	f.store.Seed(store.Users, bson.M{"username": "admin", "password": "x"})
	f.store.Seed(store.Orders, bson.M{"id": "1"})

	status, body := f.call(t, http.MethodGet, "/database", nil)
	require.Equal(t, http.StatusOK, status)
	snap := obj(t, body)

	list := snap["products"].([]any)
	require.Len(t, list, 4)
	first := obj(t, list[0])
	assert.Equal(t, "Margherita", first["name"])
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, true, first["active"])
	assert.NotContains(t, first, "_id")

	assert.Equal(t, []any{"Pizzas", "Bebidas"}, snap["categories"])
	assert.NotContains(t, snap, "users")
	assert.NotContains(t, snap, "orders")
	assert.Equal(t, "Cardápio Online", obj(t, snap["configuration"])["businessName"])
}

func TestEmptyPathServesSnapshot(t *testing.T) {
	f := newFixture(t)

	status, body := f.call(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, obj(t, body), "products")
}

func TestProductIDsOutOfRangeAreRejected(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(store.Products, bson.M{"id": 1, "name": "kept"})

	for _, id := range []any{1e19, -1e19, "9.3e18"} {
		status, body := f.call(t, http.MethodPost, "/products", []map[string]any{
			{"id": id, "name": "big"},
			{"name": "needs an id"},
		})
		assert.Equal(t, http.StatusBadRequest, status, id)
		assert.Equal(t, "[0].id", obj(t, obj(t, body)["errors"].([]any)[0])["field"], id)
	}
	assert.Len(t, f.store.Docs(store.Products), 1)

	status, _ := f.call(t, http.MethodPost, "/products", []map[string]any{
		{"id": float64(1 << 53), "name": "large"},
		{"name": "next"},
	})
	require.Equal(t, http.StatusOK, status)
	docs := f.store.Docs(store.Products)
	require.Len(t, docs, 2)
	assert.Equal(t, int64(1<<53)+1, docs[1]["id"])
}

func TestProductsListHidesInactive(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(store.Products,
		bson.M{"id": 1, "name": "a", "active": true, "order": 2},
		bson.M{"id": 2, "name": "b", "active": false, "order": 1},
		bson.M{"id": 3, "name": "c", "order": 0},
	)

	_, body := f.call(t, http.MethodGet, "/products", nil)
	list := body.([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "c", obj(t, list[0])["name"])

	_, body = f.call(t, http.MethodGet, "/products?all=true", nil)
	assert.Len(t, body.([]any), 3)
}

func TestCouponSaveNormalizesCodes(t *testing.T) {
	f := newFixture(t)

	status, _ := f.call(t, http.MethodPost, "/coupons", []map[string]any{{"code": " save10 "}})
	require.Equal(t, http.StatusOK, status)

	docs := f.store.Docs(store.Coupons)
	require.Len(t, docs, 1)
	assert.Equal(t, "SAVE10", docs[0]["code"])
	assert.Equal(t, true, docs[0]["active"])
	assert.Equal(t, 0, docs[0]["usageCount"])

	status, _ = f.call(t, http.MethodPost, "/coupons", []map[string]any{{"code": "A"}, {"code": "a "}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Len(t, f.store.Docs(store.Coupons), 1, "failed save must not clear the collection")
}

func TestValidateCoupon(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(store.Coupons,
		bson.M{"code": "SAVE10", "active": true, "discountType": "percentage", "discountValue": 10.0, "validUntil": "2024-06-10"},
		bson.M{"code": "OLD", "validUntil": "2024-06-09"},
		bson.M{"code": "MIN50", "minimumOrderValue": 50.0},
		bson.M{"code": "USED", "usageLimit": 3.0, "usageCount": 3.0},
	)

	for _, code := range []string{"SAVE10", "save10 ", " Save10"} {
		status, body := f.call(t, http.MethodPost, "/coupons/validate", map[string]any{"code": code, "orderTotal": 80})
		require.Equal(t, http.StatusOK, status)
		res := obj(t, body)
		assert.Equal(t, true, res["valid"], code)
		assert.Equal(t, 8.0, res["discount"])
		assert.Equal(t, "SAVE10", obj(t, res["coupon"])["code"])
	}

	tests := []struct {
		code   string
		total  float64
		reason string
	}{
		{"OLD", 80, "coupon_expired"},
		{"MIN50", 49.99, "min_order_value_not_met"},
		{"USED", 80, "usage_limit_reached"},
		{"NOPE", 80, "coupon_not_found"},
	}
	for _, tc := range tests {
		status, body := f.call(t, http.MethodPost, "/coupons/validate", map[string]any{"code": tc.code, "orderTotal": tc.total})
		require.Equal(t, http.StatusOK, status, tc.code)
		res := obj(t, body)
		assert.Equal(t, false, res["valid"], tc.code)
		assert.Equal(t, tc.reason, res["reason"], tc.code)
	}

	_, body := f.call(t, http.MethodPost, "/coupons/validate", map[string]any{"code": "MIN50", "orderTotal": 50.00})
	assert.Equal(t, true, obj(t, body)["valid"])

	status, _ := f.call(t, http.MethodPost, "/coupons/validate", map[string]any{"orderTotal": 10})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestOrderBatchSkipsItemsWithoutID(t *testing.T) {
	f := newFixture(t)

	status, body := f.call(t, http.MethodPost, "/orders", []map[string]any{
		{"id": "A1", "status": "new", "total": 50},
		{"status": "new", "total": 10},
	})
	require.Equal(t, http.StatusOK, status)
	res := obj(t, body)
	assert.Equal(t, float64(1), res["created"])
	assert.Equal(t, true, res["success"])
	assert.Len(t, res["skipped"], 1)
	assert.Empty(t, res["errors"])

	docs := f.store.Docs(store.Orders)
	require.Len(t, docs, 1)
	assert.Equal(t, fixedNow, docs[0]["creationDate"])
}

func TestOrderUpsertIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(store.Orders, bson.M{"id": float64(42), "status": "new", "creationDate": "2024-01-01T10:00:00Z"})

	_, body := f.call(t, http.MethodPost, "/orders", map[string]any{"id": "42", "status": "done"})
	res := obj(t, body)
	assert.Equal(t, float64(0), res["created"])
	assert.Equal(t, float64(1), res["updated"])

	docs := f.store.Docs(store.Orders)
	require.Len(t, docs, 1)
	assert.Equal(t, "done", docs[0]["status"])
	assert.Equal(t, "2024-01-01T10:00:00Z", docs[0]["creationDate"])
}

func TestOrdersListNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(store.Orders,
		bson.M{"id": "old", "creationDate": "2024-01-01T10:00:00Z"},
		bson.M{"id": "undated"},
		bson.M{"id": "new", "createdAt": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		bson.M{"id": "mid", "date": "2024-02-01"},
	)

	_, body := f.call(t, http.MethodGet, "/orders", nil)
	var ids []any
	for _, o := range body.([]any) {
		ids = append(ids, obj(t, o)["id"])
	}
	assert.Equal(t, []any{"new", "mid", "old", "undated"}, ids)
}

func TestDeleteOrderByStringIDMatchesNumber(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(store.Orders, bson.M{"id": 42, "status": "new"})

	status, body := f.call(t, http.MethodDelete, "/orders?id=42", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, obj(t, body)["success"])
	assert.Empty(t, f.store.Docs(store.Orders))

	status, _ = f.call(t, http.MethodDelete, "/orders?id=42", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteOrderFromBody(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(store.Orders, bson.M{"id": "7"})

	status, _ := f.call(t, http.MethodDelete, "/orders", map[string]any{"id": 7})
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, f.store.Docs(store.Orders))

	status, _ = f.call(t, http.MethodDelete, "/orders", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLoginAdminByRole(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(store.Users, bson.M{"username": "owner", "role": "admin", "password": credential.LegacyHash("s3cret")})

	status, body := f.call(t, http.MethodPost, "/auth/login", map[string]any{"username": "ADMIN", "password": "s3cret"})
	require.Equal(t, http.StatusOK, status)
	res := obj(t, body)
	assert.Equal(t, true, res["success"])
	user := obj(t, res["user"])
	assert.Equal(t, "owner", user["username"])
	assert.NotContains(t, user, "password")

	stored := f.store.Docs(store.Users)[0]["password"].(string)
	assert.True(t, strings.HasPrefix(stored, "$2"), "legacy credential should be rehashed")

	// the rehashed credential still verifies
	_, body = f.call(t, http.MethodPost, "/auth/login", map[string]any{"username": "admin", "password": "s3cret"})
	assert.Equal(t, true, obj(t, body)["success"])
}

func TestLoginFailuresAreDomainOutcomes(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(store.Users,
		bson.M{"username": "maria", "phone": "11999990000", "password": "plain"},
		bson.M{"username": "jose", "password": "pw", "active": false},
	)

	tests := []struct {
		name     string
		username string
		password string
		success  bool
	}{
		{"phone and plaintext", "11999990000", "plain", true},
		{"wrong password", "maria", "nope", false},
		{"unknown user", "ana", "x", false},
		{"inactive user", "jose", "pw", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := f.call(t, http.MethodPost, "/auth/login", map[string]any{"username": tc.username, "password": tc.password})
			require.Equal(t, http.StatusOK, status)
			res := obj(t, body)
			assert.Equal(t, tc.success, res["success"])
			if tc.success {
				assert.NotContains(t, obj(t, res["user"]), "password")
			} else {
				assert.NotContains(t, res, "user")
			}
		})
	}

	status, _ := f.call(t, http.MethodPost, "/auth/login", map[string]any{"username": "maria"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUsersUpsertByPhoneHashesPasswords(t *testing.T) {
	f := newFixture(t)

	status, body := f.call(t, http.MethodPost, "/users", []map[string]any{
		{"phone": "11988887777", "name": "Ana", "password": "pw"},
		{"name": "no phone"},
	})
	require.Equal(t, http.StatusOK, status)
	res := obj(t, body)
	assert.Equal(t, float64(1), res["created"])
	assert.Len(t, res["skipped"], 1)

	docs := f.store.Docs(store.Users)
	require.Len(t, docs, 1)
	ok, scheme := credential.Verify("pw", docs[0]["password"].(string))
	assert.True(t, ok)
	assert.Equal(t, credential.SchemeBcrypt, scheme)

	_, body = f.call(t, http.MethodPost, "/users", map[string]any{"phone": 11988887777, "name": "Ana Maria"})
	assert.Equal(t, float64(1), obj(t, body)["updated"])

	_, body = f.call(t, http.MethodGet, "/users", nil)
	list := body.([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana Maria", obj(t, list[0])["name"])
	assert.NotContains(t, obj(t, list[0]), "password")
}

func TestHoursOverrideOnEmptyStore(t *testing.T) {
	f := newFixture(t)

	status, body := f.call(t, http.MethodPut, "/hours", map[string]any{"manualOverrideOpen": true})
	require.Equal(t, http.StatusOK, status)
	res := obj(t, body)
	hours := obj(t, res["hours"])
	assert.Equal(t, true, hours["manualOverrideOpen"])
	assert.NotEmpty(t, hours["overrideChangedAt"])
	schedule := obj(t, hours["schedule"])
	assert.Len(t, schedule, 7)
	assert.Equal(t, map[string]any{"open": true, "start": "18:30", "end": "23:00"}, schedule["monday"])
	assert.Equal(t, true, obj(t, res["status"])["open"])

	docs := f.store.Docs(store.Hours)
	require.Len(t, docs, 1)

	// clearing the override falls back to the schedule: closed at noon
	_, _ = f.call(t, http.MethodPut, "/hours", map[string]any{"manualOverrideOpen": nil})
	_, body = f.call(t, http.MethodGet, "/status", nil)
	st := obj(t, body)
	assert.Equal(t, false, st["open"])
	assert.Equal(t, "monday", st["today"])
	assert.Len(t, f.store.Docs(store.Hours), 1)

	status, _ = f.call(t, http.MethodPut, "/hours", map[string]any{"something": true})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHoursSave(t *testing.T) {
	f := newFixture(t)

	status, _ := f.call(t, http.MethodPost, "/hours", map[string]any{
		"schedule": map[string]any{"Monday": map[string]any{"open": true, "start": "11:00", "end": "15:00"}},
	})
	require.Equal(t, http.StatusOK, status)

	_, body := f.call(t, http.MethodGet, "/status", nil)
	assert.Equal(t, true, obj(t, body)["open"])

	status, _ = f.call(t, http.MethodPost, "/hours", map[string]any{
		"schedule": map[string]any{"someday": map[string]any{"open": true}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHoursSaveTracksOverrideChanges(t *testing.T) {
	mem := memstore.New()
	now := fixedNow
	h := New(Options{Store: mem, Business: testBusiness(), Now: func() time.Time { return now }})
	f := &fixture{store: mem, handler: h, dispatcher: router.NewDispatcher(h.Table(), nil)}

	week := map[string]any{"monday": map[string]any{"open": true, "start": "11:00", "end": "15:00"}}
	changedAt := func() any {
		_, body := f.call(t, http.MethodGet, "/hours", nil)
		return obj(t, body)["overrideChangedAt"]
	}

	_, _ = f.call(t, http.MethodPut, "/hours", map[string]any{"manualOverrideOpen": true})
	require.Equal(t, "2024-06-10T15:00:00Z", changedAt())

	// same override: the timestamp is carried forward
	now = fixedNow.Add(time.Hour)
	status, _ := f.call(t, http.MethodPost, "/hours", map[string]any{"schedule": week, "manualOverrideOpen": true})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2024-06-10T15:00:00Z", changedAt())

	// override dropped: stamped with the save time
	now = fixedNow.Add(2 * time.Hour)
	status, body := f.call(t, http.MethodPost, "/hours", map[string]any{"schedule": week})
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, obj(t, obj(t, body)["hours"])["manualOverrideOpen"])
	assert.Equal(t, "2024-06-10T17:00:00Z", changedAt())
}

func TestSettingsDefaultsAndSave(t *testing.T) {
	f := newFixture(t)

	_, body := f.call(t, http.MethodGet, "/config", nil)
	cfg := obj(t, body)
	assert.Equal(t, "Cardápio Online", cfg["businessName"])
	assert.Equal(t, float64(0), cfg["deliveryFee"])
	assert.Equal(t, float64(30), cfg["prepTimeMinutes"])

	status, _ := f.call(t, http.MethodPost, "/config", map[string]any{"pixKey": "key", "deliveryFee": 5})
	require.Equal(t, http.StatusOK, status)

	_, body = f.call(t, http.MethodGet, "/config", nil)
	cfg = obj(t, body)
	assert.Equal(t, "key", cfg["pixKey"])
	assert.Equal(t, float64(5), cfg["deliveryFee"])
	assert.Equal(t, float64(30), cfg["prepTimeMinutes"])

	// a partial update keeps the saved fee
	status, _ = f.call(t, http.MethodPost, "/config", map[string]any{"phone": "5511999"})
	require.Equal(t, http.StatusOK, status)
	_, body = f.call(t, http.MethodGet, "/config", nil)
	cfg = obj(t, body)
	assert.Equal(t, "5511999", cfg["phone"])
	assert.Equal(t, "key", cfg["pixKey"])
	assert.Equal(t, float64(5), cfg["deliveryFee"])

	// an explicit zero clears it
	status, _ = f.call(t, http.MethodPost, "/config", map[string]any{"deliveryFee": 0})
	require.Equal(t, http.StatusOK, status)
	_, body = f.call(t, http.MethodGet, "/config", nil)
	assert.Equal(t, float64(0), obj(t, body)["deliveryFee"])

	status, _ = f.call(t, http.MethodPost, "/config", map[string]any{"deliveryFee": -1})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUploadImage(t *testing.T) {
	f := newFixture(t)
	img := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png"))

	status, body := f.call(t, http.MethodPost, "/upload-image", map[string]any{
		"base64Image": img, "productId": 12, "productName": "X-Burger",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/images/products/x-burger-12.png", obj(t, body)["path"])

	status, _ = f.call(t, http.MethodPost, "/upload-image", map[string]any{"base64Image": "%%%"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestOptionsListsEndpointMethods(t *testing.T) {
	f := newFixture(t)

	resp := f.dispatcher.Dispatch(context.Background(), &api.Request{Method: http.MethodOptions, Path: "/orders"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "GET, POST, DELETE, OPTIONS", resp.Headers.Get("Access-Control-Allow-Methods"))
}

// failingUpserts rejects writes of one id and passes everything else
// through to the wrapped store.
type failingUpserts struct {
	store.Store
	id string
}

func (f failingUpserts) Collection(ctx context.Context, name string) (store.Collection, error) {
	c, err := f.Store.Collection(ctx, name)
	if err != nil {
		return nil, err
	}
	return failingCollection{Collection: c, id: f.id}, nil
}

type failingCollection struct {
	store.Collection
	id string
}

func (c failingCollection) UpsertOne(ctx context.Context, filter, set, setOnInsert bson.M) (store.UpsertResult, error) {
	if set["id"] == c.id {
		return store.UpsertResult{}, errors.New("write conflict")
	}
	return c.Collection.UpsertOne(ctx, filter, set, setOnInsert)
}

func TestOrderBatchIsolatesFailingItems(t *testing.T) {
	mem := memstore.New()
	h := New(Options{
		Store:    failingUpserts{Store: mem, id: "BAD"},
		Business: testBusiness(),
		Now:      func() time.Time { return fixedNow },
	})
	f := &fixture{store: mem, handler: h, dispatcher: router.NewDispatcher(h.Table(), nil)}

	status, body := f.call(t, http.MethodPost, "/orders", []map[string]any{
		{"id": "A", "total": 10},
		{"id": "BAD", "total": 20},
		{"id": "C", "total": 30},
	})
	require.Equal(t, http.StatusOK, status)

	res := obj(t, body)
	assert.Equal(t, false, res["success"])
	assert.Equal(t, float64(2), res["created"])
	assert.Equal(t, float64(2), res["total"])
	assert.Empty(t, res["skipped"])

	failed := res["errors"].([]any)
	require.Len(t, failed, 1)
	issue := obj(t, failed[0])
	assert.Equal(t, float64(1), issue["index"])
	assert.Equal(t, "BAD", issue["key"])
	assert.Equal(t, "write conflict", issue["error"])

	var ids []any
	for _, d := range mem.Docs(store.Orders) {
		ids = append(ids, d["id"])
	}
	assert.ElementsMatch(t, []any{"A", "C"}, ids)
}

type unreachableStore struct{ err error }

func (u unreachableStore) Collection(context.Context, string) (store.Collection, error) {
	return nil, u.err
}

func (unreachableStore) Close(context.Context) error { return nil }

func TestConnectionFailuresMapToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unreachable", errs.NewConnectionError("ping", context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"not configured", errs.NewConnectionError("configure", errs.ErrMissingConnectionString), http.StatusInternalServerError},
		{"auth failure", errs.NewConnectionError("connect", errors.New("auth error: sasl conversation error")), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := New(Options{Store: unreachableStore{err: tc.err}, Business: testBusiness()})
			d := router.NewDispatcher(h.Table(), nil)

			resp := d.Dispatch(context.Background(), &api.Request{Method: http.MethodGet, Path: "/products"})
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
