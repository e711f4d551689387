package warehouse

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotificationKind classifies what a stock change meant for the product.
type NotificationKind string

const (
	// NotificationNew marks stock arriving for a product that was empty.
	NotificationNew NotificationKind = "NEW"
	// NotificationBargain marks a batch priced below the previous minimum.
	NotificationBargain NotificationKind = "BARGAIN"
	// NotificationRestock marks any other stock arrival.
	NotificationRestock NotificationKind = "RESTOCK"
)

// Notification is an immutable record of a product stock/price change,
// queued FIFO into the inbox of every subscribed partner.
type Notification struct {
	ID        uuid.UUID
	Kind      NotificationKind
	ProductID string
	Price     decimal.Decimal
}

func newNotification(kind NotificationKind, productID string, price decimal.Decimal) Notification {
	return Notification{
		ID:        uuid.New(),
		Kind:      kind,
		ProductID: productID,
		Price:     price,
	}
}

// Observer receives product change notifications. Partners implement it.
type Observer interface {
	// ObserverKey identifies the observer within a product's subscriber set.
	ObserverKey() string
	// Notify delivers one notification synchronously.
	Notify(n Notification)
}
