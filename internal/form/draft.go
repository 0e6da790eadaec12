package form

import (
	"strconv"

	"github.com/five82/storefront/internal/api"
)

// Field identifies an editable product field.
type Field int

const (
	FieldName Field = iota
	FieldDescription
	FieldPrice
	FieldStock
)

// Fields lists the form fields in tab order.
var Fields = []Field{FieldName, FieldDescription, FieldPrice, FieldStock}

func (f Field) String() string {
	switch f {
	case FieldName:
		return "Product Name"
	case FieldDescription:
		return "Description"
	case FieldPrice:
		return "Price ($)"
	case FieldStock:
		return "Stock"
	default:
		return "Field(" + strconv.Itoa(int(f)) + ")"
	}
}

// Numeric reports whether the field goes through numeric coercion.
func (f Field) Numeric() bool {
	return f == FieldPrice || f == FieldStock
}

// Draft holds not-yet-submitted product values.
type Draft struct {
	Name        string
	Price       float64
	Description string
	Stock       int
}

// DefaultDraft is the empty add-product form.
func DefaultDraft() Draft {
	return Draft{}
}

// FromProduct captures a product's current values.
func FromProduct(p api.Product) Draft {
	return Draft{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Stock:       p.Stock,
	}
}

// Set returns a copy of d with field updated from raw input.
func (d Draft) Set(field Field, raw string) Draft {
	switch field {
	case FieldName:
		d.Name = raw
	case FieldDescription:
		d.Description = raw
	case FieldPrice:
		d.Price = ParseFloat(raw)
	case FieldStock:
		d.Stock = ParseInt(raw)
	}
	return d
}

// Value renders a field for display in an input widget.
func (d Draft) Value(field Field) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldDescription:
		return d.Description
	case FieldPrice:
		return strconv.FormatFloat(d.Price, 'f', -1, 64)
	case FieldStock:
		return strconv.Itoa(d.Stock)
	default:
		return ""
	}
}

// CreateRequest converts the draft into a create payload.
func (d Draft) CreateRequest() api.ProductDraft {
	return api.ProductDraft{
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
		Stock:       d.Stock,
	}
}

// PatchFrom returns the fields of d that differ from orig.
func (d Draft) PatchFrom(orig api.Product) api.ProductPatch {
	var patch api.ProductPatch
	if d.Name != orig.Name {
		name := d.Name
		patch.Name = &name
	}
	if d.Price != orig.Price {
		price := d.Price
		patch.Price = &price
	}
	if d.Description != orig.Description {
		desc := d.Description
		patch.Description = &desc
	}
	if d.Stock != orig.Stock {
		stock := d.Stock
		patch.Stock = &stock
	}
	return patch
}
