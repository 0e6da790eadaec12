package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/five82/storefront/internal/api"
	"github.com/five82/storefront/internal/form"
	"github.com/five82/storefront/internal/mockapi"
	"github.com/five82/storefront/internal/state"
)

// fakeService is an in-memory api.Service that records calls.
type fakeService struct {
	mu       sync.Mutex
	products []api.Product
	basket   []api.BasketItem
	calls    []string
	fail     map[api.Op]bool

	// optional hooks run on success before returning
	onAdd    func(f *fakeService, id int64, qty int)
	onDelete func(f *fakeService, id int64)
	lastPut  api.ProductPatch
	nextID   int64
}

func newFake(products []api.Product, basket []api.BasketItem) *fakeService {
	return &fakeService{products: products, basket: basket, fail: map[api.Op]bool{}, nextID: 100}
}

func (f *fakeService) record(op api.Op, format string, args ...any) error {
	f.calls = append(f.calls, string(op)+fmt.Sprintf(format, args...))
	if f.fail[op] {
		return &api.NetworkError{Op: op, Status: 500, Err: api.ErrStatus}
	}
	return nil
}

func (f *fakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeService) mutations() []string {
	var out []string
	for _, c := range f.Calls() {
		switch {
		case c == string(api.OpListProducts), c == string(api.OpGetBasket):
		default:
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeService) ListProducts(context.Context) ([]api.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(api.OpListProducts, ""); err != nil {
		return nil, err
	}
	return append([]api.Product(nil), f.products...), nil
}

func (f *fakeService) GetProduct(_ context.Context, id int64) (api.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(api.OpGetProduct, "(%d)", id); err != nil {
		return api.Product{}, err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return api.Product{}, &api.NetworkError{Op: api.OpGetProduct, Status: 404, Err: api.ErrStatus}
}

func (f *fakeService) CreateProduct(_ context.Context, d api.ProductDraft) (api.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(api.OpCreateProduct, "(%s)", d.Name); err != nil {
		return api.Product{}, err
	}
	p := api.Product{ID: f.nextID, Name: d.Name, Price: d.Price, Description: d.Description, Stock: d.Stock}
	f.nextID++
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeService) UpdateProduct(_ context.Context, id int64, patch api.ProductPatch) (api.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(api.OpUpdateProduct, "(%d)", id); err != nil {
		return api.Product{}, err
	}
	f.lastPut = patch
	for i := range f.products {
		if f.products[i].ID != id {
			continue
		}
		if patch.Name != nil {
			f.products[i].Name = *patch.Name
		}
		if patch.Price != nil {
			f.products[i].Price = *patch.Price
		}
		if patch.Stock != nil {
			f.products[i].Stock = *patch.Stock
		}
		return f.products[i], nil
	}
	return api.Product{}, nil
}

func (f *fakeService) DeleteProduct(_ context.Context, id int64) (api.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(api.OpDeleteProduct, "(%d)", id); err != nil {
		return api.Ack{}, err
	}
	if f.onDelete != nil {
		f.onDelete(f, id)
	}
	return api.Ack{Message: "Product was deleted successfully!"}, nil
}

func (f *fakeService) GetBasket(context.Context) ([]api.BasketItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(api.OpGetBasket, ""); err != nil {
		return nil, err
	}
	return append([]api.BasketItem(nil), f.basket...), nil
}

func (f *fakeService) AddToBasket(_ context.Context, id int64, qty int) (api.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(api.OpAddToBasket, "(%d,%d)", id, qty); err != nil {
		return api.Ack{}, err
	}
	if f.onAdd != nil {
		f.onAdd(f, id, qty)
	}
	return api.Ack{Message: "ok"}, nil
}

func (f *fakeService) RemoveFromBasket(_ context.Context, id int64) (api.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(api.OpRemoveFromBasket, "(%d)", id); err != nil {
		return api.Ack{}, err
	}
	for i := range f.basket {
		if f.basket[i].Product.ID == id {
			f.basket[i].Quantity--
			if f.basket[i].Quantity == 0 {
				f.basket = append(f.basket[:i], f.basket[i+1:]...)
			}
			return api.Ack{Message: "ok"}, nil
		}
	}
	return api.Ack{}, &api.NetworkError{Op: api.OpRemoveFromBasket, Status: 404, Err: api.ErrStatus}
}

func newController(t *testing.T, svc api.Service) *Controller {
	t.Helper()
	return New(svc, &state.Store{}, zap.NewNop())
}

func TestLoad_PopulatesBothResources(t *testing.T) {
	svc := newFake(
		[]api.Product{{ID: 1, Name: "Pen", Price: 1.5, Stock: 10}},
		[]api.BasketItem{{Product: api.Product{ID: 1, Price: 1.5}, Quantity: 2}},
	)
	c := newController(t, svc)

	require.NoError(t, c.Load(context.Background()))

	snap := c.Snapshot()
	require.Len(t, snap.Products, 1)
	require.Len(t, snap.Basket, 1)
	assert.False(t, snap.Busy())
	assert.Equal(t, "$3.00", state.FormatMoney(snap.BasketTotal()))
}

func TestLoad_FailuresAreIndependent(t *testing.T) {
	svc := newFake([]api.Product{{ID: 1, Name: "Pen", Price: 1.5, Stock: 10}}, nil)
	svc.fail[api.OpGetBasket] = true
	c := newController(t, svc)

	err := c.Load(context.Background())
	require.Error(t, err)

	snap := c.Snapshot()
	assert.Len(t, snap.Products, 1, "product fetch should land despite basket failure")
	assert.Empty(t, snap.Op(state.OpProducts).Err)
	assert.Equal(t, "Failed to fetch basket", snap.Op(state.OpBasket).Err)
	assert.False(t, snap.Op(state.OpBasket).InFlight)
}

// Scenario A
func TestAddToBasket_RefetchesBothLists(t *testing.T) {
	svc := newFake([]api.Product{{ID: 1, Name: "Pen", Price: 1.5, Stock: 10}}, []api.BasketItem{})
	svc.onAdd = func(f *fakeService, id int64, qty int) {
		f.products[0].Stock = 9
		f.basket = []api.BasketItem{{Product: f.products[0], Quantity: qty}}
	}
	c := newController(t, svc)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	pen := c.Snapshot().Products[0]
	require.NoError(t, c.AddToBasket(ctx, pen))

	assert.Equal(t, []string{"add_to_basket(1,1)"}, svc.mutations())
	calls := svc.Calls()
	assert.Len(t, calls, 5, "load (2) + add (1) + refetch (2)")

	snap := c.Snapshot()
	assert.Equal(t, 9, snap.Products[0].Stock)
	require.Len(t, snap.VisibleBasket(), 1)
	assert.Equal(t, "$1.50", state.FormatMoney(snap.BasketTotal()))
	assert.False(t, snap.Op(state.OpBasketAdd).InFlight)
	assert.Empty(t, snap.Op(state.OpBasketAdd).Err)
}

// Scenario B
func TestConfirmDelete_FailureLeavesSnapshotAndDialog(t *testing.T) {
	svc := newFake([]api.Product{{ID: 1, Name: "Pen", Price: 1.5, Stock: 10}}, nil)
	svc.fail[api.OpDeleteProduct] = true
	c := newController(t, svc)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	before := c.Snapshot()
	c.OpenDelete(before.Products[0])

	err := c.ConfirmDelete(ctx)
	var netErr *api.NetworkError
	require.True(t, errors.As(err, &netErr))

	after := c.Snapshot()
	assert.Equal(t, before.Products, after.Products)
	assert.Equal(t, before.Basket, after.Basket)
	assert.Equal(t, before.LastUpdated, after.LastUpdated)
	assert.Equal(t, "Failed to delete product", after.Op(state.OpDelete).Err)
	assert.False(t, after.Op(state.OpDelete).InFlight)
	assert.True(t, after.Dialogs.Delete.Open)
	assert.Equal(t, int64(1), after.Dialogs.Delete.Target.ID)
}

// Scenario C
func TestCancelEdit_NoCallsAndDraftDiscarded(t *testing.T) {
	cup := api.Product{ID: 2, Name: "Cup", Price: 3, Stock: 5}
	svc := newFake([]api.Product{cup}, nil)
	c := newController(t, svc)
	require.NoError(t, c.Load(context.Background()))

	c.OpenEdit(cup)
	c.SetEditField(form.FieldName, "Mug")
	require.Equal(t, "Mug", c.Snapshot().Dialogs.Edit.Draft.Name)

	c.Cancel(state.DialogEdit)

	assert.Empty(t, svc.mutations())
	snap := c.Snapshot()
	assert.False(t, snap.Dialogs.Edit.Open)
	assert.Equal(t, form.Draft{}, snap.Dialogs.Edit.Draft)
	assert.Equal(t, []api.Product{cup}, svc.products)
}

func TestSubmitAdd_SuccessClosesAndResets(t *testing.T) {
	svc := newFake(nil, nil)
	c := newController(t, svc)
	ctx := context.Background()

	c.OpenAdd()
	c.SetAddField(form.FieldName, "Lamp")
	c.SetAddField(form.FieldPrice, "12.5")
	c.SetAddField(form.FieldStock, "abc")
	require.NoError(t, c.SubmitAdd(ctx))

	snap := c.Snapshot()
	require.Len(t, snap.Products, 1)
	assert.Equal(t, int64(100), snap.Products[0].ID, "server assigns id")
	assert.Equal(t, 0, snap.Products[0].Stock)
	assert.False(t, snap.Dialogs.Add.Open)
	assert.Equal(t, form.DefaultDraft(), snap.Dialogs.Add.Draft)
}

func TestSubmitAdd_FailureKeepsDraft(t *testing.T) {
	svc := newFake(nil, nil)
	svc.fail[api.OpCreateProduct] = true
	c := newController(t, svc)

	c.OpenAdd()
	c.SetAddField(form.FieldName, "Lamp")
	require.Error(t, c.SubmitAdd(context.Background()))

	snap := c.Snapshot()
	assert.True(t, snap.Dialogs.Add.Open)
	assert.Equal(t, "Lamp", snap.Dialogs.Add.Draft.Name)
	assert.Equal(t, "Failed to add product", snap.Op(state.OpCreate).Err)
	assert.Equal(t, []string{"create_product(Lamp)"}, svc.Calls(), "no refetch after failure")

	// reopening after cancel starts clean
	c.Cancel(state.DialogAdd)
	c.OpenAdd()
	snap = c.Snapshot()
	assert.Equal(t, form.DefaultDraft(), snap.Dialogs.Add.Draft)
	assert.Empty(t, snap.Op(state.OpCreate).Err)
}

func TestSubmitEdit_SendsChangedFieldsOnly(t *testing.T) {
	cup := api.Product{ID: 2, Name: "Cup", Price: 3, Stock: 5}
	svc := newFake([]api.Product{cup}, nil)
	c := newController(t, svc)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	c.OpenEdit(cup)
	c.SetEditField(form.FieldPrice, "4.25")
	require.NoError(t, c.SubmitEdit(ctx))

	assert.Nil(t, svc.lastPut.Name)
	require.NotNil(t, svc.lastPut.Price)
	assert.Equal(t, 4.25, *svc.lastPut.Price)
	snap := c.Snapshot()
	assert.Equal(t, 4.25, snap.Products[0].Price)
	assert.False(t, snap.Dialogs.Edit.Open)
}

func TestEditDraftNotLiveSynced(t *testing.T) {
	cup := api.Product{ID: 2, Name: "Cup", Price: 3, Stock: 5}
	svc := newFake([]api.Product{cup}, nil)
	c := newController(t, svc)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	c.OpenEdit(cup)
	svc.mu.Lock()
	svc.products[0].Stock = 1
	svc.mu.Unlock()
	require.NoError(t, c.RefreshProducts(ctx))

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Products[0].Stock)
	assert.Equal(t, 5, snap.Dialogs.Edit.Draft.Stock)
}

func TestSubmitWithoutDialog(t *testing.T) {
	svc := newFake(nil, nil)
	c := newController(t, svc)
	ctx := context.Background()

	assert.ErrorIs(t, c.SubmitAdd(ctx), ErrDialogClosed)
	assert.ErrorIs(t, c.SubmitEdit(ctx), ErrDialogClosed)
	assert.ErrorIs(t, c.ConfirmDelete(ctx), ErrDialogClosed)
	assert.Empty(t, svc.Calls())
}

func TestAddToBasket_OutOfStockSkipsClient(t *testing.T) {
	svc := newFake(nil, nil)
	c := newController(t, svc)

	err := c.AddToBasket(context.Background(), api.Product{ID: 1, Stock: 0})
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, svc.Calls())
}

func TestRemoveFromBasket_RepeatedPastZero(t *testing.T) {
	pen := api.Product{ID: 1, Name: "Pen", Price: 1.5, Stock: 9}
	svc := newFake([]api.Product{pen}, []api.BasketItem{{Product: pen, Quantity: 1}})
	c := newController(t, svc)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.RemoveFromBasket(ctx, 1))
	require.Error(t, c.RemoveFromBasket(ctx, 1))

	snap := c.Snapshot()
	assert.Empty(t, snap.Basket)
	assert.Equal(t, "Failed to remove from basket", snap.Op(state.OpBasketRemove).Err)
	for _, item := range snap.VisibleBasket() {
		assert.Positive(t, item.Quantity)
	}
}

func TestDeletedProductDropsFromBasketView(t *testing.T) {
	pen := api.Product{ID: 1, Name: "Pen", Price: 1.5, Stock: 9}
	cup := api.Product{ID: 2, Name: "Cup", Price: 3, Stock: 5}
	svc := newFake([]api.Product{pen, cup}, []api.BasketItem{{Product: pen, Quantity: 1}, {Product: cup, Quantity: 1}})
	svc.onDelete = func(f *fakeService, id int64) {
		f.products = f.products[:1]
	}
	c := newController(t, svc)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	c.OpenView(cup)
	c.OpenDelete(cup)
	require.NoError(t, c.ConfirmDelete(ctx))

	snap := c.Snapshot()
	assert.Len(t, snap.Basket, 2, "server keeps the line")
	assert.Len(t, snap.VisibleBasket(), 1)
	assert.Equal(t, "$1.50", state.FormatMoney(snap.BasketTotal()))
	assert.False(t, snap.Dialogs.Delete.Open)
	assert.False(t, snap.Dialogs.View.Open)
}

func TestMutationSucceedsEvenIfRefetchFails(t *testing.T) {
	pen := api.Product{ID: 1, Name: "Pen", Price: 1.5, Stock: 9}
	svc := newFake([]api.Product{pen}, nil)
	c := newController(t, svc)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	svc.mu.Lock()
	svc.fail[api.OpListProducts] = true
	svc.mu.Unlock()

	c.OpenDelete(pen)
	require.NoError(t, c.ConfirmDelete(ctx))

	snap := c.Snapshot()
	assert.False(t, snap.Dialogs.Delete.Open)
	assert.Empty(t, snap.Op(state.OpDelete).Err)
	assert.Equal(t, "Failed to fetch products", snap.Op(state.OpProducts).Err)
	assert.Len(t, snap.Products, 1, "previous list kept on fetch failure")
}

func TestConcurrentIntentsKeepIndependentStatus(t *testing.T) {
	pen := api.Product{ID: 1, Name: "Pen", Price: 1.5, Stock: 9}
	svc := newFake([]api.Product{pen}, nil)
	svc.fail[api.OpCreateProduct] = true
	svc.onAdd = func(f *fakeService, id int64, qty int) {
		f.basket = []api.BasketItem{{Product: f.products[0], Quantity: qty}}
	}
	c := newController(t, svc)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	c.OpenAdd()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = c.SubmitAdd(ctx) }()
	go func() { defer wg.Done(); _ = c.AddToBasket(ctx, pen) }()
	wg.Wait()

	snap := c.Snapshot()
	assert.False(t, snap.Busy())
	assert.Equal(t, "Failed to add product", snap.Op(state.OpCreate).Err)
	assert.Empty(t, snap.Op(state.OpBasketAdd).Err)
	assert.Len(t, snap.Basket, 1)
}

func TestIntegration_AgainstMockBackend(t *testing.T) {
	srv := httptest.NewServer(mockapi.New(nil, api.Product{ID: 1, Name: "Pen", Price: 1.5, Stock: 10}).Handler())
	defer srv.Close()
	client, err := api.NewClient(srv.URL)
	require.NoError(t, err)

	c := newController(t, client)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.AddToBasket(ctx, c.Snapshot().Products[0]))
	snap := c.Snapshot()
	assert.Equal(t, 9, snap.Products[0].Stock)
	assert.Equal(t, "$1.50", state.FormatMoney(snap.BasketTotal()))

	// duplicate name is a server-side rejection
	c.OpenAdd()
	c.SetAddField(form.FieldName, "Pen")
	require.Error(t, c.SubmitAdd(ctx))
	snap = c.Snapshot()
	assert.True(t, snap.Dialogs.Add.Open)
	assert.Equal(t, "Failed to add product", snap.Op(state.OpCreate).Err)

	c.SetAddField(form.FieldName, "Cup")
	c.SetAddField(form.FieldPrice, "3")
	c.SetAddField(form.FieldStock, "5")
	require.NoError(t, c.SubmitAdd(ctx))
	snap = c.Snapshot()
	require.Len(t, snap.Products, 2)
	assert.Equal(t, int64(2), snap.Products[1].ID)

	require.NoError(t, c.RemoveFromBasket(ctx, 1))
	require.Error(t, c.RemoveFromBasket(ctx, 1))
	snap = c.Snapshot()
	assert.Empty(t, snap.Basket)
	assert.Equal(t, 10, snap.Products[0].Stock)
}

func TestConfirmDelete_NoContentCountsAsSuccess(t *testing.T) {
	var mu sync.Mutex
	deleted := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/products/1":
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/products/" && deleted:
			_, _ = w.Write([]byte(`[]`))
		case r.URL.Path == "/products/":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Pen","price":1.5,"stock":10}]`))
		case r.URL.Path == "/basket/":
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	client, err := api.NewClient(srv.URL)
	require.NoError(t, err)

	c := newController(t, client)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	c.OpenDelete(c.Snapshot().Products[0])

	require.NoError(t, c.ConfirmDelete(ctx))

	snap := c.Snapshot()
	assert.Empty(t, snap.Products)
	assert.Empty(t, snap.Op(state.OpDelete).Err)
	assert.False(t, snap.Dialogs.Delete.Open)
}
