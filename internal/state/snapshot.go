package state

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/five82/storefront/internal/api"
	"github.com/five82/storefront/internal/form"
)

// Op identifies an operation kind with its own in-flight and error status.
type Op int

const (
	OpProducts Op = iota
	OpBasket
	OpCreate
	OpUpdate
	OpDelete
	OpBasketAdd
	OpBasketRemove
	opCount
)

// Ops lists every operation kind.
var Ops = []Op{OpProducts, OpBasket, OpCreate, OpUpdate, OpDelete, OpBasketAdd, OpBasketRemove}

func (o Op) String() string {
	switch o {
	case OpProducts:
		return "products"
	case OpBasket:
		return "basket"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpBasketAdd:
		return "basket_add"
	case OpBasketRemove:
		return "basket_remove"
	default:
		return "unknown"
	}
}

// OpStatus is the operation-scoped loading flag and error message.
type OpStatus struct {
	InFlight bool
	Err      string
}

// DialogKind names one of the product dialogs.
type DialogKind int

const (
	DialogAdd DialogKind = iota
	DialogEdit
	DialogView
	DialogDelete
)

func (k DialogKind) String() string {
	switch k {
	case DialogAdd:
		return "add"
	case DialogEdit:
		return "edit"
	case DialogView:
		return "view"
	case DialogDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Op returns the operation a dialog submits, if any.
func (k DialogKind) Op() (Op, bool) {
	switch k {
	case DialogAdd:
		return OpCreate, true
	case DialogEdit:
		return OpUpdate, true
	case DialogDelete:
		return OpDelete, true
	default:
		return 0, false
	}
}

// AddDialog is the create form.
type AddDialog struct {
	Open  bool
	Draft form.Draft
}

// EditDialog holds the product being edited and the draft captured when
// the dialog opened.
type EditDialog struct {
	Open   bool
	Target api.Product
	Draft  form.Draft
}

// TargetDialog references a product for viewing or deletion.
type TargetDialog struct {
	Open   bool
	Target api.Product
}

// Dialogs is the ephemeral dialog selection state.
type Dialogs struct {
	Add    AddDialog
	Edit   EditDialog
	View   TargetDialog
	Delete TargetDialog
}

// Active returns the first open dialog in add, edit, view, delete order.
func (d Dialogs) Active() (DialogKind, bool) {
	switch {
	case d.Add.Open:
		return DialogAdd, true
	case d.Edit.Open:
		return DialogEdit, true
	case d.View.Open:
		return DialogView, true
	case d.Delete.Open:
		return DialogDelete, true
	default:
		return 0, false
	}
}

// IsOpen reports whether the given dialog is open.
func (d Dialogs) IsOpen(kind DialogKind) bool {
	switch kind {
	case DialogAdd:
		return d.Add.Open
	case DialogEdit:
		return d.Edit.Open
	case DialogView:
		return d.View.Open
	case DialogDelete:
		return d.Delete.Open
	default:
		return false
	}
}

// Snapshot is the latest product and basket data plus UI selection state.
type Snapshot struct {
	// Version increases with every change to the store.
	Version     uint64
	Products    []api.Product
	Basket      []api.BasketItem
	Dialogs     Dialogs
	Status      [opCount]OpStatus
	LastUpdated time.Time
}

// Op returns the status of a single operation kind.
func (s Snapshot) Op(op Op) OpStatus {
	if op < 0 || op >= opCount {
		return OpStatus{}
	}
	return s.Status[op]
}

// Busy reports whether any operation is in flight.
func (s Snapshot) Busy() bool {
	for _, st := range s.Status {
		if st.InFlight {
			return true
		}
	}
	return false
}

// Product looks up a product by id.
func (s Snapshot) Product(id int64) (api.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return api.Product{}, false
}

// VisibleBasket returns the basket lines whose product still exists in the
// product list. Lines referencing deleted products are dropped.
func (s Snapshot) VisibleBasket() []api.BasketItem {
	if len(s.Basket) == 0 {
		return nil
	}
	known := make(map[int64]struct{}, len(s.Products))
	for _, p := range s.Products {
		known[p.ID] = struct{}{}
	}
	out := make([]api.BasketItem, 0, len(s.Basket))
	for _, item := range s.Basket {
		if _, ok := known[item.Product.ID]; ok {
			out = append(out, item)
		}
	}
	return out
}

// BasketTotal sums price times quantity over the visible basket.
func (s Snapshot) BasketTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.VisibleBasket() {
		total = total.Add(LineTotal(item))
	}
	return total
}

// BasketUnits counts units across the visible basket.
func (s Snapshot) BasketUnits() int {
	units := 0
	for _, item := range s.VisibleBasket() {
		units += item.Quantity
	}
	return units
}

func (s Snapshot) clone() Snapshot {
	dup := s
	dup.Products = cloneSlice(s.Products)
	dup.Basket = cloneSlice(s.Basket)
	return dup
}

func cloneSlice[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
