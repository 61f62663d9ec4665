package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusFoodProcessing OrderStatus = "Food Processing"
	StatusOutForDelivery OrderStatus = "Out for delivery"
	StatusDelivered      OrderStatus = "Delivered"
)

type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCOD    PaymentMethod = "cod"
)

// statusRank orders the fulfilment states; a higher rank is further along.
var statusRank = map[OrderStatus]int{
	StatusFoodProcessing: 0,
	StatusOutForDelivery: 1,
	StatusDelivered:      2,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanMoveTo reports whether next is the same state or a later one.
func (s OrderStatus) CanMoveTo(next OrderStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return next.Valid()
	}
	to, ok := statusRank[next]
	return ok && to >= from
}

// OrderItem is the snapshot of a catalog item taken when the order is placed.
type OrderItem struct {
	ItemID   string          `json:"_id" bson:"itemId"`
	Name     string          `json:"name" bson:"name"`
	Price    decimal.Decimal `json:"price" bson:"price"`
	Quantity int             `json:"quantity" bson:"quantity"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Address struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
	Email     string `json:"email" bson:"email"`
	Street    string `json:"street" bson:"street"`
	City      string `json:"city" bson:"city"`
	State     string `json:"state" bson:"state"`
	Zipcode   string `json:"zipcode" bson:"zipcode"`
	Country   string `json:"country" bson:"country"`
	Phone     string `json:"phone" bson:"phone"`
}

type Order struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id"`
	UserID        string             `json:"userId" bson:"userId"`
	Items         []OrderItem        `json:"items" bson:"items"`
	Amount        decimal.Decimal    `json:"amount" bson:"amount"`
	Address       Address            `json:"address" bson:"address"`
	Status        OrderStatus        `json:"status" bson:"status"`
	Payment       bool               `json:"payment" bson:"payment"`
	PaymentMethod PaymentMethod      `json:"paymentMethod" bson:"paymentMethod"`
	Date          time.Time          `json:"date" bson:"date"`
}

// Subtotal sums the line totals of items.
func Subtotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
