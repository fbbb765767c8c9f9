package transactions

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentExpired   PaymentStatus = "expired"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded, PaymentExpired:
		return true
	}
	return false
}

// Transaction is a ticket purchase made from the mobile app. The admin
// dashboard only reads these, payment state is driven by the payment
// gateway callbacks.
type Transaction struct {
	ID                    string        `json:"id"`
	UserID                string        `json:"user_id"`
	TransactionCode       string        `json:"transaction_code"`
	RouteID               string        `json:"route_id"`
	OriginStopID          string        `json:"origin_stop_id"`
	DestinationStopID     string        `json:"destination_stop_id"`
	Amount                float64       `json:"amount"`
	Quantity              int           `json:"quantity"`
	PaymentMethod         string        `json:"payment_method"`
	PaymentStatus         PaymentStatus `json:"payment_status"`
	MidtransTransactionID *string       `json:"midtrans_transaction_id,omitempty"`
	MidtransOrderID       *string       `json:"midtrans_order_id,omitempty"`
	PurchaseDate          *time.Time    `json:"purchase_date,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

type TicketStatus string

const (
	TicketActive    TicketStatus = "active"
	TicketUsed      TicketStatus = "used"
	TicketExpired   TicketStatus = "expired"
	TicketCancelled TicketStatus = "cancelled"
)

type Ticket struct {
	ID            string       `json:"id"`
	TransactionID string       `json:"transaction_id"`
	TicketCode    string       `json:"ticket_code"`
	QRCodeData    string       `json:"qr_code_data"`
	Status        TicketStatus `json:"status"`
	ValidUntil    time.Time    `json:"valid_until"`
	UsedAt        *time.Time   `json:"used_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

type UserSummary struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email,omitempty"`
}

type RouteSummary struct {
	ID          string `json:"id"`
	RouteNumber string `json:"route_number"`
	RouteName   string `json:"route_name"`
}

type StopSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TransactionWithDetails struct {
	Transaction
	User            *UserSummary  `json:"user,omitempty"`
	Route           *RouteSummary `json:"route,omitempty"`
	OriginStop      *StopSummary  `json:"origin_stop,omitempty"`
	DestinationStop *StopSummary  `json:"destination_stop,omitempty"`
	Tickets         []Ticket      `json:"tickets,omitempty"`
}

// Summary aggregates the listed window: completed count and revenue only
// consider payment_status == completed.
type Summary struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Revenue   float64 `json:"revenue"`
}

type ListFilters struct {
	Status PaymentStatus
	Method string
	Search string
	From   time.Time
	To     time.Time
	Page   int
}
