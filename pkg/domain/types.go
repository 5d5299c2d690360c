package domain

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type EbookStatus string

const (
	EbookActive   EbookStatus = "ACTIVE"
	EbookInactive EbookStatus = "INACTIVE"
	EbookSoldOut  EbookStatus = "SOLD_OUT"
)

type OrderStatus string

const (
	OrderPending  OrderStatus = "PENDING"
	OrderPaid     OrderStatus = "PAID"
	OrderCanceled OrderStatus = "CANCELED"
)

// Session is the client-held authentication state. A zero Session means
// logged out; Token, UserID and Role are always present together.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

// Active reports whether a credential is held.
func (s Session) Active() bool {
	return s.Token != ""
}

type Ebook struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	Price       int64       `json:"price"`
	Status      EbookStatus `json:"status"`
	Description string      `json:"description,omitempty"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
}

// CartLine is one displayed cart row. SubTotal must equal Price*Quantity
// whenever the line is not mid-mutation.
type CartLine struct {
	EbookID  int64  `json:"ebookId"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	SubTotal int64  `json:"subTotal"`
}

// CartSummary is server-derived; the client replaces it wholesale and
// never mutates it locally.
type CartSummary struct {
	Items         []CartLine `json:"items"`
	TotalQuantity int        `json:"totalQuantity"`
	TotalAmount   int64      `json:"totalAmount"`
}

type OrderLine struct {
	EbookID  int64  `json:"ebookId"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	SubTotal int64  `json:"subTotal"`
}

type Order struct {
	ID          int64       `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	Status      OrderStatus `json:"status"`
	TotalAmount int64       `json:"totalAmount"`
	FinalAmount int64       `json:"finalAmount"`
	CreatedAt   string      `json:"createdAt"` // LocalDateTime string from the server, passed through untouched
	Items       []OrderLine `json:"items,omitempty"`
}

// OrderSummary is the list-view row returned by GET /orders; the server
// keys it by orderId rather than id.
type OrderSummary struct {
	OrderID     int64       `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	Status      OrderStatus `json:"status"`
	TotalAmount int64       `json:"totalAmount"`
	FinalAmount int64       `json:"finalAmount"`
	CreatedAt   string      `json:"createdAt"`
}

type DownloadToken struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// EbookPage is the paginated admin catalog envelope.
type EbookPage struct {
	Items []Ebook `json:"items"`
	Page  int     `json:"page"`
	Size  int     `json:"size"`
	Total int64   `json:"total"`
}
