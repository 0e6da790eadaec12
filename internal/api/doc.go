// Package api provides an HTTP client for the storefront REST API.
//
// # Overview
//
// The client is stateless apart from its configuration. It translates
// product and basket operations into JSON requests against a base URL
// supplied at construction time and normalizes every failure into a single
// *NetworkError.
//
// # Endpoints
//
//   - GET    /products/          list products
//   - GET    /products/{id}      fetch one product
//   - POST   /products/          create a product (server assigns the id)
//   - PUT    /products/{id}      partial update
//   - DELETE /products/{id}      delete a product
//   - GET    /basket/            list basket lines
//   - POST   /basket/            add {product_id, quantity}
//   - DELETE /basket/{productId} remove one unit
//
// # Error Handling
//
// Transport failures, non-2xx statuses and undecodable bodies are all
// reported as *NetworkError. There is no distinction between "not found",
// "validation failed" and "server unavailable" at this level; callers use
// NetworkError.Message for the fixed per-operation text and errors.As to
// reach the details:
//
//	products, err := client.ListProducts(ctx)
//	var netErr *api.NetworkError
//	switch {
//	case err == nil:
//		render(products)
//	case errors.As(err, &netErr):
//		show(netErr.Message()) // "Failed to fetch products"
//	}
//
// # Request Handling
//
// All requests:
//   - use the caller's context for cancellation
//   - set Accept, User-Agent and a fresh X-Request-ID header
//   - run inside an OpenTelemetry client span
//   - wait on the optional rate limiter first
//   - are logged at debug level when a logger is attached
package api
