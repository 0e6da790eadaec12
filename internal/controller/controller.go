package controller

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/storefront/internal/api"
	"github.com/five82/storefront/internal/form"
	"github.com/five82/storefront/internal/state"
)

var (
	// ErrDialogClosed is returned when a submit arrives for a dialog that
	// is not open.
	ErrDialogClosed = errors.New("controller: dialog not open")
	// ErrOutOfStock is returned by AddToBasket for products with no stock.
	// The client is not called.
	ErrOutOfStock = errors.New("controller: product out of stock")
)

// Controller owns the snapshot and is the only caller of the API client.
type Controller struct {
	svc   api.Service
	store *state.Store
	log   *zap.Logger
}

// New wires a controller to its client and store. A nil logger disables
// logging.
func New(svc api.Service, store *state.Store, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if store == nil {
		store = &state.Store{}
	}
	return &Controller{svc: svc, store: store, log: log.Named("controller")}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() state.Snapshot {
	return c.store.Snapshot()
}

// Subscribe forwards to the store.
func (c *Controller) Subscribe() (<-chan state.Snapshot, func()) {
	return c.store.Subscribe()
}

// Load performs the initial fetch. Products and basket are requested
// concurrently; a failure in one does not affect the other.
func (c *Controller) Load(ctx context.Context) error {
	return c.RefreshAll(ctx)
}

// RefreshAll refetches products and basket concurrently and waits for both.
// The first error is returned; each resource records its own status.
func (c *Controller) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.RefreshProducts(ctx) })
	g.Go(func() error { return c.RefreshBasket(ctx) })
	return g.Wait()
}

// RefreshProducts replaces the product list with the server's copy.
func (c *Controller) RefreshProducts(ctx context.Context) error {
	ticket := c.store.Ticket(state.ResourceProducts)
	c.store.Begin(state.OpProducts)
	defer c.store.Finish(state.OpProducts)

	products, err := c.svc.ListProducts(ctx)
	if err != nil {
		c.store.FailFetch(state.ResourceProducts, ticket, api.Message(err))
		c.log.Warn("fetch products failed", zap.Uint64("ticket", ticket), zap.Error(err))
		return err
	}
	if !c.store.ApplyProducts(ticket, products) {
		c.log.Debug("dropped stale products response", zap.Uint64("ticket", ticket))
	}
	return nil
}

// RefreshBasket replaces the basket with the server's copy.
func (c *Controller) RefreshBasket(ctx context.Context) error {
	ticket := c.store.Ticket(state.ResourceBasket)
	c.store.Begin(state.OpBasket)
	defer c.store.Finish(state.OpBasket)

	basket, err := c.svc.GetBasket(ctx)
	if err != nil {
		c.store.FailFetch(state.ResourceBasket, ticket, api.Message(err))
		c.log.Warn("fetch basket failed", zap.Uint64("ticket", ticket), zap.Error(err))
		return err
	}
	if !c.store.ApplyBasket(ticket, basket) {
		c.log.Debug("dropped stale basket response", zap.Uint64("ticket", ticket))
	}
	return nil
}

// SubmitAdd creates a product from the add dialog's draft.
func (c *Controller) SubmitAdd(ctx context.Context) error {
	d := c.store.Snapshot().Dialogs.Add
	if !d.Open {
		return ErrDialogClosed
	}
	req := d.Draft.CreateRequest()
	return c.mutate(ctx, state.OpCreate, func(ctx context.Context) error {
		created, err := c.svc.CreateProduct(ctx, req)
		if err == nil {
			c.log.Info("product created", zap.Int64("product_id", created.ID), zap.String("name", created.Name))
		}
		return err
	}, func(dl *state.Dialogs) {
		dl.Add = state.AddDialog{Draft: form.DefaultDraft()}
	}, zap.String("name", req.Name))
}

// SubmitEdit sends the fields of the edit draft that differ from the
// product captured when the dialog opened.
func (c *Controller) SubmitEdit(ctx context.Context) error {
	d := c.store.Snapshot().Dialogs.Edit
	if !d.Open {
		return ErrDialogClosed
	}
	target := d.Target
	patch := d.Draft.PatchFrom(target)
	return c.mutate(ctx, state.OpUpdate, func(ctx context.Context) error {
		_, err := c.svc.UpdateProduct(ctx, target.ID, patch)
		return err
	}, func(dl *state.Dialogs) {
		if dl.Edit.Target.ID == target.ID {
			dl.Edit = state.EditDialog{}
		}
	}, zap.Int64("product_id", target.ID))
}

// ConfirmDelete deletes the product referenced by the delete dialog.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	d := c.store.Snapshot().Dialogs.Delete
	if !d.Open {
		return ErrDialogClosed
	}
	target := d.Target
	return c.mutate(ctx, state.OpDelete, func(ctx context.Context) error {
		_, err := c.svc.DeleteProduct(ctx, target.ID)
		return err
	}, func(dl *state.Dialogs) {
		if dl.Delete.Target.ID == target.ID {
			dl.Delete = state.TargetDialog{}
		}
		// the product is gone; a view of it would be stale
		if dl.View.Target.ID == target.ID {
			dl.View = state.TargetDialog{}
		}
	}, zap.Int64("product_id", target.ID))
}

// AddToBasket puts one unit of p into the basket.
func (c *Controller) AddToBasket(ctx context.Context, p api.Product) error {
	if !p.InStock() {
		c.log.Debug("add to basket ignored", zap.Int64("product_id", p.ID), zap.Int("stock", p.Stock))
		return ErrOutOfStock
	}
	return c.mutate(ctx, state.OpBasketAdd, func(ctx context.Context) error {
		_, err := c.svc.AddToBasket(ctx, p.ID, 1)
		return err
	}, nil, zap.Int64("product_id", p.ID))
}

// RemoveFromBasket takes one unit of a product out of the basket.
func (c *Controller) RemoveFromBasket(ctx context.Context, productID int64) error {
	return c.mutate(ctx, state.OpBasketRemove, func(ctx context.Context) error {
		_, err := c.svc.RemoveFromBasket(ctx, productID)
		return err
	}, nil, zap.Int64("product_id", productID))
}

// mutate runs the shared protocol for every mutating intent: mark the op in
// flight, call the server, refetch everything on success and only then run
// onSuccess, or record the failure and leave data and dialogs untouched.
func (c *Controller) mutate(ctx context.Context, op state.Op, call func(context.Context) error, onSuccess func(*state.Dialogs), fields ...zap.Field) error {
	c.store.Begin(op)
	defer c.store.Finish(op)

	fields = append(fields, zap.Stringer("op", op))
	start := time.Now()
	if err := call(ctx); err != nil {
		c.store.Fail(op, api.Message(err))
		c.log.Warn("intent failed", append(fields, zap.Error(err))...)
		return err
	}

	if err := c.RefreshAll(ctx); err != nil {
		// fetch status already carries the message
		c.log.Warn("refetch after mutation failed", append(fields, zap.Error(err))...)
	}
	if onSuccess != nil {
		c.store.UpdateDialogs(onSuccess)
	}
	c.log.Info("intent completed", append(fields, zap.Duration("elapsed", time.Since(start)))...)
	return nil
}

// OpenAdd shows the add dialog. The draft is the defaults unless a failed
// submit left values behind.
func (c *Controller) OpenAdd() {
	c.store.ClearError(state.OpCreate)
	c.store.UpdateDialogs(func(d *state.Dialogs) {
		d.Add.Open = true
	})
}

// OpenEdit captures p into a fresh edit draft. Later snapshot changes do
// not reach the draft.
func (c *Controller) OpenEdit(p api.Product) {
	c.store.ClearError(state.OpUpdate)
	c.store.UpdateDialogs(func(d *state.Dialogs) {
		d.Edit = state.EditDialog{Open: true, Target: p, Draft: form.FromProduct(p)}
	})
}

// OpenView shows p read-only.
func (c *Controller) OpenView(p api.Product) {
	c.store.UpdateDialogs(func(d *state.Dialogs) {
		d.View = state.TargetDialog{Open: true, Target: p}
	})
}

// OpenDelete asks for confirmation before deleting p.
func (c *Controller) OpenDelete(p api.Product) {
	c.store.ClearError(state.OpDelete)
	c.store.UpdateDialogs(func(d *state.Dialogs) {
		d.Delete = state.TargetDialog{Open: true, Target: p}
	})
}

// Cancel closes a dialog and discards its draft without any network call.
func (c *Controller) Cancel(kind state.DialogKind) {
	if op, ok := kind.Op(); ok {
		c.store.ClearError(op)
	}
	c.store.UpdateDialogs(func(d *state.Dialogs) {
		switch kind {
		case state.DialogAdd:
			d.Add = state.AddDialog{Draft: form.DefaultDraft()}
		case state.DialogEdit:
			d.Edit = state.EditDialog{}
		case state.DialogView:
			d.View = state.TargetDialog{}
		case state.DialogDelete:
			d.Delete = state.TargetDialog{}
		}
	})
}

// SetAddField updates one field of the add draft from raw input.
// Numeric fields that do not parse become zero.
func (c *Controller) SetAddField(field form.Field, raw string) {
	c.store.UpdateDialogs(func(d *state.Dialogs) {
		if d.Add.Open {
			d.Add.Draft = d.Add.Draft.Set(field, raw)
		}
	})
}

// SetEditField updates one field of the edit draft from raw input.
func (c *Controller) SetEditField(field form.Field, raw string) {
	c.store.UpdateDialogs(func(d *state.Dialogs) {
		if d.Edit.Open {
			d.Edit.Draft = d.Edit.Draft.Set(field, raw)
		}
	})
}
