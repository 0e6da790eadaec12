package api

import (
	"errors"
	"fmt"
)

// Op names a remote operation. Each op carries a fixed user-facing message.
type Op string

const (
	OpListProducts     Op = "list_products"
	OpGetProduct       Op = "get_product"
	OpCreateProduct    Op = "create_product"
	OpUpdateProduct    Op = "update_product"
	OpDeleteProduct    Op = "delete_product"
	OpGetBasket        Op = "get_basket"
	OpAddToBasket      Op = "add_to_basket"
	OpRemoveFromBasket Op = "remove_from_basket"
)

var opMessages = map[Op]string{
	OpListProducts:     "Failed to fetch products",
	OpGetProduct:       "Failed to fetch product",
	OpCreateProduct:    "Failed to add product",
	OpUpdateProduct:    "Failed to update product",
	OpDeleteProduct:    "Failed to delete product",
	OpGetBasket:        "Failed to fetch basket",
	OpAddToBasket:      "Failed to add to basket",
	OpRemoveFromBasket: "Failed to remove from basket",
}

// Message returns the static human-readable failure message for the op.
func (o Op) Message() string {
	if msg, ok := opMessages[o]; ok {
		return msg
	}
	return "Request failed"
}

// NetworkError is the single failure kind returned by Client. Transport
// failures, non-2xx statuses and undecodable bodies all collapse into it.
type NetworkError struct {
	Op     Op
	Method string
	Path   string
	Status int // zero when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if errors.Is(e.Err, ErrStatus) {
		return fmt.Sprintf("%s: api %s %s returned status %d", e.Op, e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Message returns the fixed message shown to the user for this failure.
func (e *NetworkError) Message() string {
	return e.Op.Message()
}

// ErrStatus is wrapped by NetworkError when the server answered with a
// non-success status.
var ErrStatus = errors.New("non-success status")

// Message extracts a display message from err. Errors that are not a
// NetworkError fall back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Message()
	}
	return err.Error()
}
