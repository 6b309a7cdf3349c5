package deliveries

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeSea Type = "sea"
	TypeAir Type = "air"
)

type Destination string

const (
	DestDubai Destination = "dubai"
	DestIraq  Destination = "iraq"
)

// OrderCategory groups deliveries under an order number.
type OrderCategory struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Delivery is one shipment. Photo fields hold Telegram file ids so the
// receipt and cargo pictures can be re-sent on demand.
type Delivery struct {
	ID              string
	OrderCategoryID string
	DeliveryDate    time.Time
	CartonCount     int64
	Weight          decimal.Decimal
	ReceiptNumber   string
	Type            Type
	Destination     Destination
	Description     string
	ReceiptPhotoID  string
	CargoPhotoID    string
	Arrived         bool
	CreatedAt       time.Time
}
