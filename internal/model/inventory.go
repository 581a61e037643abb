package model

import (
	"strings"
	"time"
)

// InventoryItem is a stock-tracked product sold over the bar or
// restaurant counter.
type InventoryItem struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Quantity   int64     `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (i *InventoryItem) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(i.Name) == "" {
		v.Add("name", "This field may not be blank.")
	}
	if i.Quantity < 0 {
		v.Add("quantity", "Quantity cannot be negative.")
	}
	if i.PriceCents < 0 {
		v.Add("price_cents", "Price cannot be negative.")
	}
	return v.OrNil()
}

// Sell takes qty units off the shelf and returns the sale total.  On
// failure the item is unchanged.
func (i *InventoryItem) Sell(qty int64) (int64, error) {
	if qty <= 0 {
		return 0, Invalid("quantity_sold", "Ensure this value is greater than or equal to 1.")
	}
	if qty > i.Quantity {
		return 0, &StockError{Available: i.Quantity}
	}
	i.Quantity -= qty
	return qty * i.PriceCents, nil
}

// Transaction is one inventory sale.  AccountType/AccountID tie the sale
// to a bar or restaurant till when it was rung up there.
type Transaction struct {
	ID              uint64       `json:"id"`
	ItemID          uint64       `json:"item_id"`
	ItemName        string       `json:"item_name,omitempty"`
	UserID          uint64       `json:"user_id"`
	AccountType     *AccountKind `json:"account_type"`
	AccountID       *uint64      `json:"account_id"`
	QuantitySold    int64        `json:"quantity_sold"`
	TotalPriceCents int64        `json:"total_price_cents"`
	Date            time.Time    `json:"date"`
}
