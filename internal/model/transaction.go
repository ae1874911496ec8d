package model

import "github.com/google/uuid"

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusShipped    TransactionStatus = "shipped"
	StatusDelivered  TransactionStatus = "delivered"
	StatusCancelled  TransactionStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentPending  PaymentStatus = "pending"
	PaymentRefunded PaymentStatus = "refunded"
)

var statusTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// ParseTransactionStatus validates a status coming from a request.
func ParseTransactionStatus(s string) (TransactionStatus, bool) {
	switch st := TransactionStatus(s); st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether the fulfilment flow allows s -> next.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusesLeadingTo lists every status from which next can be reached in one step.
func StatusesLeadingTo(next TransactionStatus) []TransactionStatus {
	var from []TransactionStatus
	for _, s := range []TransactionStatus{StatusPending, StatusProcessing, StatusShipped} {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

// Transaction is a placed order for a single product variant.
type Transaction struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	VariantID uuid.UUID       `gorm:"type:uuid;not null;index" json:"variant_id"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	Price     int64           `gorm:"not null" json:"price"`
	Quantity  int             `gorm:"not null;check:chk_transaction_quantity,quantity > 0" json:"quantity"`

	BuyerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"buyer_id"`
	Buyer      *Profile  `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	BuyerName  string    `gorm:"type:varchar(255)" json:"buyer_name"`
	BuyerEmail string    `gorm:"type:varchar(255)" json:"buyer_email"`

	Department string `gorm:"type:varchar(64);not null;index" json:"department"`
	Province   string `gorm:"type:varchar(64);not null" json:"province"`
	Address    string `gorm:"type:text;not null" json:"address"`

	PaymentMethod    string            `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus    PaymentStatus     `gorm:"type:varchar(20);not null" json:"payment_status"`
	PaymentReference string            `gorm:"type:varchar(64)" json:"payment_reference,omitempty"`
	Status           TransactionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
}

// Total is price * quantity.
func (t *Transaction) Total() int64 {
	return t.Price * int64(t.Quantity)
}
