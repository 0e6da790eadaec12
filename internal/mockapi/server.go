package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/five82/storefront/internal/api"
)

// Server is an in-memory storefront backend.
type Server struct {
	mu       sync.Mutex
	products []api.Product
	basket   []line
	nextID   int64
	log      *zap.Logger
}

// line keeps the last known product values so a line survives deletion of
// its product.
type line struct {
	product  api.Product
	quantity int
}

type errorBody struct {
	Detail string `json:"detail"`
}

// New returns a server seeded with products. Seed ids are kept; new ids
// continue after the highest seed id.
func New(log *zap.Logger, seed ...api.Product) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{log: log.Named("mockapi"), nextID: 1}
	for _, p := range seed {
		if p.ID == 0 {
			p.ID = s.nextID
		}
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.products = append(s.products, p)
	}
	return s
}

// Handler returns the HTTP surface of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Post("/", s.createProduct)
		r.Get("/{id}", s.getProduct)
		r.Put("/{id}", s.updateProduct)
		r.Delete("/{id}", s.deleteProduct)
	})
	r.Route("/basket", func(r chi.Router) {
		r.Get("/", s.getBasket)
		r.Post("/", s.addToBasket)
		r.Delete("/{id}", s.removeFromBasket)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
		)
	})
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]api.Product{}, s.products...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Product not found!")
		return
	}
	writeJSON(w, http.StatusOK, s.products[i])
}

type createRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"`
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Name == nil || req.Price == nil || req.Stock == nil {
		writeError(w, http.StatusBadRequest, "name, price and stock are required")
		return
	}
	if err := validate(req.Price, req.Stock); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(*req.Name, 0) {
		writeError(w, http.StatusBadRequest, "Product name already registered!")
		return
	}
	p := api.Product{ID: s.nextID, Name: *req.Name, Price: *req.Price, Stock: *req.Stock}
	if req.Description != nil {
		p.Description = *req.Description
	}
	s.nextID++
	s.products = append(s.products, p)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch api.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := validate(patch.Price, patch.Stock); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Product not found!")
		return
	}
	if patch.Name != nil && s.nameTaken(*patch.Name, id) {
		writeError(w, http.StatusBadRequest, "Product name already registered!")
		return
	}
	p := &s.products[i]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	writeJSON(w, http.StatusOK, *p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Product not found!")
		return
	}
	// basket lines referencing the product are left alone
	s.products = append(s.products[:i], s.products[i+1:]...)
	writeJSON(w, http.StatusOK, api.Ack{Message: "Product was deleted successfully!"})
}

func (s *Server) getBasket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.BasketItem, 0, len(s.basket))
	for _, l := range s.basket {
		p := l.product
		if i := s.indexOf(p.ID); i >= 0 {
			p = s.products[i]
		}
		out = append(out, api.BasketItem{Product: p, Quantity: l.quantity})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addToBasket(w http.ResponseWriter, r *http.Request) {
	var req api.BasketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(req.ProductID)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Product not found!")
		return
	}
	p := &s.products[i]
	if p.Stock < req.Quantity {
		writeError(w, http.StatusBadRequest, "Not enough stock!")
		return
	}
	p.Stock -= req.Quantity
	if j := s.lineOf(p.ID); j >= 0 {
		s.basket[j].quantity += req.Quantity
		s.basket[j].product = *p
	} else {
		s.basket = append(s.basket, line{product: *p, quantity: req.Quantity})
	}
	writeJSON(w, http.StatusOK, api.Ack{Message: "Product added to basket"})
}

func (s *Server) removeFromBasket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	j := s.lineOf(id)
	if j < 0 {
		writeError(w, http.StatusNotFound, "Product not in basket!")
		return
	}
	s.basket[j].quantity--
	if s.basket[j].quantity <= 0 {
		s.basket = append(s.basket[:j], s.basket[j+1:]...)
	}
	if i := s.indexOf(id); i >= 0 {
		s.products[i].Stock++
	}
	writeJSON(w, http.StatusOK, api.Ack{Message: "Product removed from basket"})
}

func (s *Server) indexOf(id int64) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) lineOf(id int64) int {
	for i, l := range s.basket {
		if l.product.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) nameTaken(name string, except int64) bool {
	for _, p := range s.products {
		if p.ID != except && p.Name == name {
			return true
		}
	}
	return false
}

func validate(price *float64, stock *int) error {
	if price != nil && *price < 0 {
		return errors.New("price must not be negative")
	}
	if stock != nil && *stock < 0 {
		return errors.New("stock must not be negative")
	}
	return nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}
