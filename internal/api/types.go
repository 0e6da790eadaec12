package api

// Product mirrors the product resource served under /products/.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
}

// InStock reports whether the product can still be added to the basket.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductDraft is the create payload for POST /products/.
type ProductDraft struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Stock       int     `json:"stock"`
}

// ProductPatch is the partial update payload for PUT /products/{id}.
// Nil fields are left untouched by the server.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil && p.Stock == nil
}

// BasketItem pairs a product snapshot with the quantity held in the basket.
type BasketItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// BasketRequest is the payload for POST /basket/.
type BasketRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Ack is the acknowledgement body returned by delete and basket mutations.
type Ack struct {
	Message string `json:"message"`
}
