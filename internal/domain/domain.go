package domain

import "time"

// Session identifies the signed-in user. An absent or zero session means
// guest mode: resource screens degrade to a sign-in prompt instead of
// issuing user-scoped requests.
type Session struct {
	UserID  string `json:"userId"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	IsGuest bool   `json:"isGuest"`
}

func (s Session) Guest() bool {
	return s.IsGuest || s.UserID == ""
}

// GuestSession is what callers get when no session has been persisted.
func GuestSession() Session {
	return Session{IsGuest: true}
}

type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"` // denominated in the base currency
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	SellerID  string  `json:"sellerId,omitempty"`
}

type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt,omitempty"`
}

// Keys returns the product ids of every item, in item order.
func (c Cart) Keys() []string {
	keys := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		keys = append(keys, it.ProductID)
	}
	return keys
}

func (c Cart) Item(productID string) (CartItem, bool) {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return CartItem{}, false
}

type WishlistEntry struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	AddedAt   time.Time `json:"addedAt,omitempty"`
}

type Comment struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Reel is one entry of the short-form video feed.
type Reel struct {
	ID        string    `json:"_id"`
	SellerID  string    `json:"sellerId"`
	ProductID string    `json:"productId,omitempty"`
	Title     string    `json:"title,omitempty"`
	VideoURL  string    `json:"videoUrl"`
	Likes     int       `json:"likes"`
	Liked     bool      `json:"liked"`
	Comments  []Comment `json:"comments,omitempty"`
	PostedAt  time.Time `json:"postedAt,omitempty"`
}

type Message struct {
	ID     string    `json:"_id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`

	// Pending marks an optimistic local message not yet confirmed by the
	// backend. Never serialized.
	Pending bool `json:"-"`
}

type Conversation struct {
	OtherID     string    `json:"otherId"`
	OtherName   string    `json:"otherName,omitempty"`
	LastMessage string    `json:"lastMessage"`
	LastAt      time.Time `json:"lastAt"`
	Unread      int       `json:"unread"`
}

type DeliveryJob struct {
	ID        string    `json:"_id"`
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	Address   string    `json:"address"`
	Payout    float64   `json:"payout"`
	PartnerID string    `json:"partnerId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Delivery job statuses as reported by the backend.
const (
	JobAvailable = "available"
	JobAccepted  = "accepted"
	JobPickedUp  = "picked_up"
	JobDelivered = "delivered"
)

type SellerApplication struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	ShopName  string    `json:"shopName"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"appliedAt,omitempty"`
}

type Offer struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Discount  float64   `json:"discount"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Notification struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type AdminStats struct {
	Users   int     `json:"users"`
	Sellers int     `json:"sellers"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// RateTable maps currency codes to conversion rates from the base currency.
// The base currency's own rate is always 1.
type RateTable struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetchedAt,omitempty"`
}
