package persistence

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goncaloinunes/warehouse-manager/internal/domain/warehouse"
)

// MetaModel is the single-row header of a warehouse file: the clock, the
// transaction counter and the settled balance.
type MetaModel struct {
	ID                int             `gorm:"primaryKey"`
	Day               int             `gorm:"not null"`
	NextTransactionID int             `gorm:"not null"`
	AvailableBalance  decimal.Decimal `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (MetaModel) TableName() string {
	return "warehouse_meta"
}

// PartnerModel is the persistence model for one partner account.
type PartnerModel struct {
	ID      string                  `gorm:"primaryKey;type:text"`
	Name    string                  `gorm:"type:text;not null"`
	Address string                  `gorm:"type:text;not null"`
	Status  warehouse.PartnerStatus `gorm:"type:text;not null"`
	Points  decimal.Decimal         `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a partner snapshot.
func (m *PartnerModel) ToDomain() warehouse.PartnerSnapshot {
	return warehouse.PartnerSnapshot{
		ID:      m.ID,
		Name:    m.Name,
		Address: m.Address,
		Status:  m.Status,
		Points:  m.Points,
	}
}

// PartnerModelFromDomain creates a persistence model from a partner snapshot.
func PartnerModelFromDomain(s warehouse.PartnerSnapshot) PartnerModel {
	return PartnerModel{
		ID:      s.ID,
		Name:    s.Name,
		Address: s.Address,
		Status:  s.Status,
		Points:  s.Points,
	}
}

// ProductModel is the persistence model for one catalog product. Recipe
// components live in their own table.
type ProductModel struct {
	ID          string                `gorm:"primaryKey;type:text"`
	Kind        warehouse.ProductKind `gorm:"type:text;not null"`
	Alpha       decimal.Decimal       `gorm:"type:text;not null"`
	AllTimeHigh decimal.Decimal       `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// RecipeComponentModel is one recipe entry of an aggregate product. Position
// preserves recipe order.
type RecipeComponentModel struct {
	ProductID   string `gorm:"primaryKey;type:text"`
	Position    int    `gorm:"primaryKey"`
	ComponentID string `gorm:"type:text;not null"`
	Quantity    int    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RecipeComponentModel) TableName() string {
	return "recipe_components"
}

// BatchModel is the persistence model for one stock lot.
type BatchModel struct {
	ID         uuid.UUID       `gorm:"primaryKey;type:text"`
	ProductID  string          `gorm:"type:text;not null;index"`
	SupplierID string          `gorm:"type:text;not null"`
	Price      decimal.Decimal `gorm:"type:text;not null"`
	Quantity   int             `gorm:"not null"`
	Seq        int64           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BatchModel) TableName() string {
	return "batches"
}

// ToDomain converts the persistence model to a batch snapshot.
func (m *BatchModel) ToDomain() warehouse.BatchSnapshot {
	return warehouse.BatchSnapshot{
		ID:         m.ID,
		ProductID:  m.ProductID,
		SupplierID: m.SupplierID,
		Price:      m.Price,
		Quantity:   m.Quantity,
		Seq:        m.Seq,
	}
}

// BatchModelFromDomain creates a persistence model from a batch snapshot.
func BatchModelFromDomain(s warehouse.BatchSnapshot) BatchModel {
	return BatchModel{
		ID:         s.ID,
		ProductID:  s.ProductID,
		SupplierID: s.SupplierID,
		Price:      s.Price,
		Quantity:   s.Quantity,
		Seq:        s.Seq,
	}
}

// SubscriptionModel is one product-observer edge.
type SubscriptionModel struct {
	ProductID string `gorm:"primaryKey;type:text"`
	PartnerID string `gorm:"primaryKey;type:text"`
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// TransactionModel is the persistence model for one ledger entry. Breakdown
// audit lines live in their own table.
type TransactionModel struct {
	ID          int                       `gorm:"primaryKey"`
	Kind        warehouse.TransactionKind `gorm:"type:text;not null"`
	ProductID   string                    `gorm:"type:text;not null"`
	PartnerID   string                    `gorm:"type:text;not null;index"`
	Quantity    int                       `gorm:"not null"`
	BaseValue   decimal.Decimal           `gorm:"type:text;not null"`
	UnitPrice   decimal.Decimal           `gorm:"type:text;not null"`
	CreatedOn   int                       `gorm:"not null"`
	Paid        bool                      `gorm:"not null"`
	PaymentDay  int                       `gorm:"not null"`
	DeadlineDay int                       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// BreakdownLineModel is one audit line of a breakdown transaction.
type BreakdownLineModel struct {
	TransactionID int             `gorm:"primaryKey"`
	Position      int             `gorm:"primaryKey"`
	ComponentID   string          `gorm:"type:text;not null"`
	Price         decimal.Decimal `gorm:"type:text;not null"`
	Quantity      int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BreakdownLineModel) TableName() string {
	return "breakdown_lines"
}

// NotificationModel is one pending inbox entry. The autoincrement key
// preserves inbox order across save and load.
type NotificationModel struct {
	ID             uint                       `gorm:"primaryKey;autoIncrement"`
	PartnerID      string                     `gorm:"type:text;not null;index"`
	NotificationID uuid.UUID                  `gorm:"type:text;not null"`
	Kind           warehouse.NotificationKind `gorm:"type:text;not null"`
	ProductID      string                     `gorm:"type:text;not null"`
	Price          decimal.Decimal            `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a notification snapshot.
func (m *NotificationModel) ToDomain() warehouse.NotificationSnapshot {
	return warehouse.NotificationSnapshot{
		PartnerID:      m.PartnerID,
		NotificationID: m.NotificationID,
		Kind:           m.Kind,
		ProductID:      m.ProductID,
		Price:          m.Price,
	}
}

func allModels() []any {
	return []any{
		&MetaModel{},
		&PartnerModel{},
		&ProductModel{},
		&RecipeComponentModel{},
		&BatchModel{},
		&SubscriptionModel{},
		&TransactionModel{},
		&BreakdownLineModel{},
		&NotificationModel{},
	}
}
