// Package mockapi serves the storefront REST surface from memory.
//
// It backs cmd/storefront-mock for local development and the controller
// integration tests. Products and basket lines live in process memory and
// are lost on exit.
//
// Behaviour follows the production backend:
//
//   - POST /products/ rejects duplicate names, missing fields and negative
//     values with 400.
//   - Unknown product ids answer 404.
//   - POST /basket/ takes stock from the product and adds to the line, 400
//     when stock is short.
//   - DELETE /basket/{id} returns one unit to stock and drops the line at
//     zero.
//   - Deleting a product leaves its basket lines in place.
//
// Error bodies have the shape {"detail": "..."}.
package mockapi
