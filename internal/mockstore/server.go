// Package mockstore is an in-memory stand-in for the Reel2Cart backend,
// used by integration tests and local development. It implements the REST
// surface the client consumes plus an SSE change feed on /events.
package mockstore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

type Server struct {
	mu sync.Mutex

	carts     map[string]*domain.Cart            // userID -> cart
	wishlists map[string][]domain.WishlistEntry  // userID -> entries
	reels     []domain.Reel
	likes     map[string]map[string]bool // reelID -> userID -> liked
	follows   map[string]map[string]bool // userID -> sellerID -> followed
	messages  []domain.Message
	jobs      []domain.DeliveryJob
	sellers   []domain.SellerApplication
	offers    []domain.Offer
	notes     map[string][]domain.Notification // userID -> notifications
	users     map[string]domain.Session        // email -> user
	rates     domain.RateTable

	hub *hub
}

func NewServer() *Server {
	s := &Server{
		carts:     make(map[string]*domain.Cart),
		wishlists: make(map[string][]domain.WishlistEntry),
		likes:     make(map[string]map[string]bool),
		follows:   make(map[string]map[string]bool),
		notes:     make(map[string][]domain.Notification),
		users:     make(map[string]domain.Session),
		rates: domain.RateTable{
			Base: "INR",
			Rates: map[string]float64{
				"INR": 1, "USD": 0.012, "EUR": 0.011, "GBP": 0.0095, "AED": 0.044,
			},
		},
		hub: newHub(),
	}
	return s
}

// Seed installs fixture data for development runs.
func (s *Server) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reels = []domain.Reel{
		{ID: "r1", SellerID: "sel1", Title: "Handmade mugs", VideoURL: "/v/r1.mp4", Likes: 12},
		{ID: "r2", SellerID: "sel2", Title: "Summer kurtas", VideoURL: "/v/r2.mp4", Likes: 48},
	}
	s.jobs = []domain.DeliveryJob{
		{ID: "j1", OrderID: "o1", Status: domain.JobAvailable, Address: "12 MG Road", Payout: 55},
		{ID: "j2", OrderID: "o2", Status: domain.JobAvailable, Address: "4 Park Street", Payout: 80},
	}
	s.sellers = []domain.SellerApplication{
		{ID: "s1", Name: "Asha", ShopName: "Asha Crafts", Status: "pending"},
	}
	s.offers = []domain.Offer{
		{ID: "of1", Title: "10% off first order", Discount: 10, ExpiresAt: time.Now().Add(72 * time.Hour)},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/{userID}", s.getCart)
		r.Post("/add", s.addCartItem)
		r.Post("/update-quantity", s.updateCartQuantity)
		r.Post("/remove", s.removeCartItem)
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.Get("/{userID}", s.getWishlist)
		r.Post("/add", s.addWishlistItem)
		r.Post("/remove", s.removeWishlistItem)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/reels", s.getReels)
		r.Post("/{productID}/like", s.likeProduct)
		r.Post("/{productID}/comment", s.commentProduct)
	})

	r.Post("/sellers/{sellerID}/follow", s.followSeller)
	r.Get("/users/{userID}/following", s.getFollowing)

	r.Route("/messages", func(r chi.Router) {
		r.Get("/{userID}", s.getConversations)
		r.Get("/{userID}/{otherID}", s.getMessages)
		r.Post("/send", s.sendMessage)
	})

	r.Route("/delivery", func(r chi.Router) {
		r.Get("/available", s.getAvailableJobs)
		r.Get("/my-jobs/{partnerID}", s.getMyJobs)
		r.Post("/accept", s.acceptJob)
		r.Post("/update-status", s.updateJobStatus)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/stats", s.getStats)
		r.Get("/pending-sellers", s.getPendingSellers)
		r.Get("/offers", s.getOffers)
		r.Post("/sellers/decide", s.decideSeller)
	})

	r.Get("/notifications/{userID}", s.getNotifications)

	r.Post("/auth/login", s.login)
	r.Post("/auth/register", s.register)

	r.Get("/rates", s.getRates)
	r.Get("/events", s.hub.serve)

	return r
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(w, http.StatusOK, s.cartLocked(userID))
}

// cartLocked returns the user's cart, creating an empty one on first use.
// Caller holds s.mu.
func (s *Server) cartLocked(userID string) *domain.Cart {
	cart, ok := s.carts[userID]
	if !ok {
		cart = &domain.Cart{UserID: userID, Items: []domain.CartItem{}}
		s.carts[userID] = cart
	}
	return cart
}

type cartRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "userId and productId are required")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	s.mu.Lock()
	cart := s.cartLocked(req.UserID)
	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: req.ProductID,
			Name:      "Product " + req.ProductID,
			Price:     100,
			Quantity:  req.Quantity,
		})
	}
	cart.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.hub.publish("cart")
	respondJSON(w, http.StatusCreated, map[string]string{"message": "added"})
}

func (s *Server) updateCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	cart := s.cartLocked(req.UserID)
	updated := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			if req.Quantity <= 0 {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			} else {
				cart.Items[i].Quantity = req.Quantity
			}
			updated = true
			break
		}
	}
	cart.UpdatedAt = time.Now()
	s.mu.Unlock()

	if !updated {
		respondError(w, http.StatusNotFound, "item not in cart")
		return
	}
	s.hub.publish("cart")
	respondJSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	cart := s.cartLocked(req.UserID)
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			break
		}
	}
	cart.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.hub.publish("cart")
	respondJSON(w, http.StatusOK, map[string]string{"message": "removed"})
}

func (s *Server) getWishlist(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s.mu.Lock()
	entries := s.wishlists[userID]
	if entries == nil {
		entries = []domain.WishlistEntry{}
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, entries)
}

type wishlistRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

func (s *Server) addWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	for _, e := range s.wishlists[req.UserID] {
		if e.ProductID == req.ProductID {
			s.mu.Unlock()
			respondJSON(w, http.StatusOK, map[string]string{"message": "already in wishlist"})
			return
		}
	}
	s.wishlists[req.UserID] = append(s.wishlists[req.UserID], domain.WishlistEntry{
		ProductID: req.ProductID,
		Name:      "Product " + req.ProductID,
		Price:     100,
		AddedAt:   time.Now(),
	})
	s.mu.Unlock()

	s.hub.publish("wishlist")
	respondJSON(w, http.StatusCreated, map[string]string{"message": "added"})
}

func (s *Server) removeWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	list := s.wishlists[req.UserID]
	for i, e := range list {
		if e.ProductID == req.ProductID {
			s.wishlists[req.UserID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.hub.publish("wishlist")
	respondJSON(w, http.StatusOK, map[string]string{"message": "removed"})
}

func (s *Server) getReels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	reels := make([]domain.Reel, len(s.reels))
	copy(reels, s.reels)
	s.mu.Unlock()
	// Single page for the mock; real pagination lives in the backend.
	if r.URL.Query().Get("page") != "" && r.URL.Query().Get("page") != "0" {
		reels = []domain.Reel{}
	}
	respondJSON(w, http.StatusOK, reels)
}

func (s *Server) likeProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	if s.likes[productID] == nil {
		s.likes[productID] = make(map[string]bool)
	}
	liked := !s.likes[productID][req.UserID]
	s.likes[productID][req.UserID] = liked
	for i := range s.reels {
		if s.reels[i].ID == productID {
			if liked {
				s.reels[i].Likes++
			} else {
				s.reels[i].Likes--
			}
		}
	}
	s.mu.Unlock()

	s.hub.publish("reels")
	respondJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (s *Server) commentProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	var req struct {
		UserID string `json:"userId"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	s.mu.Lock()
	var comments []domain.Comment
	for i := range s.reels {
		if s.reels[i].ID == productID {
			s.reels[i].Comments = append(s.reels[i].Comments, domain.Comment{
				ID:        uuid.NewString(),
				UserID:    req.UserID,
				Text:      req.Text,
				CreatedAt: time.Now(),
			})
			comments = make([]domain.Comment, len(s.reels[i].Comments))
			copy(comments, s.reels[i].Comments)
			break
		}
	}
	s.mu.Unlock()

	if comments == nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	s.hub.publish("reels")
	respondJSON(w, http.StatusOK, comments)
}

func (s *Server) followSeller(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerID")
	var req struct {
		UserID string `json:"userId"`
		Follow bool   `json:"follow"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	if s.follows[req.UserID] == nil {
		s.follows[req.UserID] = make(map[string]bool)
	}
	s.follows[req.UserID][sellerID] = req.Follow
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]bool{"following": req.Follow})
}

func (s *Server) getFollowing(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s.mu.Lock()
	ids := []string{}
	for sellerID, on := range s.follows[userID] {
		if on {
			ids = append(ids, sellerID)
		}
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, ids)
}

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	otherID := chi.URLParam(r, "otherID")

	s.mu.Lock()
	msgs := []domain.Message{}
	for _, m := range s.messages {
		if (m.From == userID && m.To == otherID) || (m.From == otherID && m.To == userID) {
			msgs = append(msgs, m)
		}
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, msgs)
}

func (s *Server) getConversations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	s.mu.Lock()
	latest := make(map[string]domain.Message)
	for _, m := range s.messages {
		var other string
		switch userID {
		case m.From:
			other = m.To
		case m.To:
			other = m.From
		default:
			continue
		}
		if prev, ok := latest[other]; !ok || m.SentAt.After(prev.SentAt) {
			latest[other] = m
		}
	}
	convs := []domain.Conversation{}
	for other, m := range latest {
		convs = append(convs, domain.Conversation{
			OtherID:     other,
			LastMessage: m.Text,
			LastAt:      m.SentAt,
		})
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, convs)
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.From == "" || req.To == "" || req.Text == "" {
		respondError(w, http.StatusBadRequest, "from, to and text are required")
		return
	}

	s.mu.Lock()
	s.messages = append(s.messages, domain.Message{
		ID:     uuid.NewString(),
		From:   req.From,
		To:     req.To,
		Text:   req.Text,
		SentAt: time.Now(),
	})
	s.mu.Unlock()

	s.hub.publish("messages")
	respondJSON(w, http.StatusCreated, map[string]string{"message": "sent"})
}

func (s *Server) getAvailableJobs(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	jobs := []domain.DeliveryJob{}
	for _, j := range s.jobs {
		if j.Status == domain.JobAvailable {
			jobs = append(jobs, j)
		}
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, jobs)
}

func (s *Server) getMyJobs(w http.ResponseWriter, r *http.Request) {
	partnerID := chi.URLParam(r, "partnerID")
	s.mu.Lock()
	jobs := []domain.DeliveryJob{}
	for _, j := range s.jobs {
		if j.PartnerID == partnerID {
			jobs = append(jobs, j)
		}
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, jobs)
}

func (s *Server) acceptJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID     string `json:"jobId"`
		PartnerID string `json:"partnerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	for i := range s.jobs {
		if s.jobs[i].ID == req.JobID {
			if s.jobs[i].Status != domain.JobAvailable {
				s.mu.Unlock()
				respondError(w, http.StatusConflict, "job already taken")
				return
			}
			s.jobs[i].Status = domain.JobAccepted
			s.jobs[i].PartnerID = req.PartnerID
			s.mu.Unlock()
			s.hub.publish("delivery")
			respondJSON(w, http.StatusOK, map[string]string{"message": "accepted"})
			return
		}
	}
	s.mu.Unlock()
	respondError(w, http.StatusNotFound, "job not found")
}

func (s *Server) updateJobStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID     string `json:"jobId"`
		PartnerID string `json:"partnerId"`
		Status    string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	for i := range s.jobs {
		if s.jobs[i].ID == req.JobID && s.jobs[i].PartnerID == req.PartnerID {
			s.jobs[i].Status = req.Status
			s.mu.Unlock()
			s.hub.publish("delivery")
			respondJSON(w, http.StatusOK, map[string]string{"message": "updated"})
			return
		}
	}
	s.mu.Unlock()
	respondError(w, http.StatusNotFound, "job not found")
}

func (s *Server) getStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	stats := domain.AdminStats{
		Users:   len(s.users),
		Sellers: len(s.sellers),
		Orders:  len(s.jobs),
		Revenue: 12500,
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) getPendingSellers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	apps := []domain.SellerApplication{}
	for _, a := range s.sellers {
		if a.Status == "pending" {
			apps = append(apps, a)
		}
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, apps)
}

func (s *Server) getOffers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	offers := make([]domain.Offer, len(s.offers))
	copy(offers, s.offers)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, offers)
}

func (s *Server) decideSeller(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SellerID string `json:"sellerId"`
		Approve  bool   `json:"approve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	for i := range s.sellers {
		if s.sellers[i].ID == req.SellerID {
			if req.Approve {
				s.sellers[i].Status = "approved"
			} else {
				s.sellers[i].Status = "rejected"
			}
			s.mu.Unlock()
			s.hub.publish("admin")
			respondJSON(w, http.StatusOK, map[string]string{"message": "decided"})
			return
		}
	}
	s.mu.Unlock()
	respondError(w, http.StatusNotFound, "seller not found")
}

func (s *Server) getNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s.mu.Lock()
	notes := s.notes[userID]
	if notes == nil {
		notes = []domain.Notification{}
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, notes)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	user, ok := s.users[req.Email]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user, "token": uuid.NewString()})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Email]; exists {
		s.mu.Unlock()
		respondError(w, http.StatusConflict, "email already registered")
		return
	}
	user := domain.Session{UserID: uuid.NewString(), Name: req.Name, Email: req.Email, Role: "buyer"}
	s.users[req.Email] = user
	s.mu.Unlock()

	respondJSON(w, http.StatusCreated, map[string]any{"user": user, "token": uuid.NewString()})
}

func (s *Server) getRates(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	rates := s.rates
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, rates)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
