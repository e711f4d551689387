// Package persistence stores whole-warehouse snapshots in single-file
// SQLite databases. One warehouse file is one database; saving rewrites it
// from scratch inside a single transaction.
package persistence

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	application "github.com/goncaloinunes/warehouse-manager/internal/application/warehouse"
	"github.com/goncaloinunes/warehouse-manager/internal/domain/warehouse"
	"github.com/goncaloinunes/warehouse-manager/internal/infrastructure/logger"
)

// SnapshotStore implements the application's snapshot store port on SQLite.
type SnapshotStore struct {
	gormLogger gormlogger.Interface
}

// NewSnapshotStore creates a store whose queries log through zap at the
// given GORM level.
func NewSnapshotStore(zapLogger *zap.Logger, level gormlogger.LogLevel) *SnapshotStore {
	return &SnapshotStore{
		gormLogger: logger.NewGormLogger(zapLogger, level),
	}
}

func (s *SnapshotStore) open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 s.gormLogger,
		SkipDefaultTransaction: true,
	})
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Save writes the snapshot to the file at path, replacing any previous
// content.
func (s *SnapshotStore) Save(path string, snap *warehouse.Snapshot) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replace warehouse file: %w", err)
	}

	db, err := s.open(path)
	if err != nil {
		return fmt.Errorf("create warehouse file: %w", err)
	}
	defer closeDB(db)

	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("migrate warehouse file: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		meta := MetaModel{
			ID:                1,
			Day:               snap.Day,
			NextTransactionID: snap.NextTransactionID,
			AvailableBalance:  snap.AvailableBalance,
		}
		if err := tx.Create(&meta).Error; err != nil {
			return err
		}

		for _, ps := range snap.Partners {
			model := PartnerModelFromDomain(ps)
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}

		for _, ps := range snap.Products {
			model := ProductModel{
				ID:          ps.ID,
				Kind:        ps.Kind,
				Alpha:       ps.Alpha,
				AllTimeHigh: ps.AllTimeHigh,
			}
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
			for i, item := range ps.Components {
				component := RecipeComponentModel{
					ProductID:   ps.ID,
					Position:    i,
					ComponentID: item.ProductID,
					Quantity:    item.Quantity,
				}
				if err := tx.Create(&component).Error; err != nil {
					return err
				}
			}
		}

		for _, bs := range snap.Batches {
			model := BatchModelFromDomain(bs)
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}

		for _, ss := range snap.Subscriptions {
			model := SubscriptionModel{ProductID: ss.ProductID, PartnerID: ss.PartnerID}
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}

		for _, ts := range snap.Transactions {
			model := TransactionModel{
				ID:          ts.ID,
				Kind:        ts.Kind,
				ProductID:   ts.ProductID,
				PartnerID:   ts.PartnerID,
				Quantity:    ts.Quantity,
				BaseValue:   ts.BaseValue,
				UnitPrice:   ts.UnitPrice,
				CreatedOn:   ts.CreatedOn,
				Paid:        ts.Paid,
				PaymentDay:  ts.PaymentDay,
				DeadlineDay: ts.DeadlineDay,
			}
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
			for i, line := range ts.Lines {
				lineModel := BreakdownLineModel{
					TransactionID: ts.ID,
					Position:      i,
					ComponentID:   line.ComponentID,
					Price:         line.Price,
					Quantity:      line.Quantity,
				}
				if err := tx.Create(&lineModel).Error; err != nil {
					return err
				}
			}
		}

		for _, ns := range snap.Notifications {
			model := NotificationModel{
				PartnerID:      ns.PartnerID,
				NotificationID: ns.NotificationID,
				Kind:           ns.Kind,
				ProductID:      ns.ProductID,
				Price:          ns.Price,
			}
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads a snapshot from the file at path. A missing, unreadable or
// malformed file yields *application.FileUnavailableError.
func (s *SnapshotStore) Load(path string) (*warehouse.Snapshot, error) {
	// gorm.Open would create a missing file; check first.
	if _, err := os.Stat(path); err != nil {
		return nil, &application.FileUnavailableError{Path: path, Err: err}
	}

	db, err := s.open(path)
	if err != nil {
		return nil, &application.FileUnavailableError{Path: path, Err: err}
	}
	defer closeDB(db)

	snap, err := s.load(db)
	if err != nil {
		return nil, &application.FileUnavailableError{Path: path, Err: err}
	}
	return snap, nil
}

func (s *SnapshotStore) load(db *gorm.DB) (*warehouse.Snapshot, error) {
	var meta MetaModel
	if err := db.First(&meta).Error; err != nil {
		return nil, fmt.Errorf("read warehouse header: %w", err)
	}
	snap := &warehouse.Snapshot{
		Day:               meta.Day,
		NextTransactionID: meta.NextTransactionID,
		AvailableBalance:  meta.AvailableBalance,
	}

	var partners []PartnerModel
	if err := db.Order("id").Find(&partners).Error; err != nil {
		return nil, err
	}
	for i := range partners {
		snap.Partners = append(snap.Partners, partners[i].ToDomain())
	}

	var products []ProductModel
	if err := db.Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	for _, pm := range products {
		ps := warehouse.ProductSnapshot{
			ID:          pm.ID,
			Kind:        pm.Kind,
			Alpha:       pm.Alpha,
			AllTimeHigh: pm.AllTimeHigh,
		}
		var components []RecipeComponentModel
		if err := db.Where("product_id = ?", pm.ID).Order("position").Find(&components).Error; err != nil {
			return nil, err
		}
		for _, cm := range components {
			ps.Components = append(ps.Components, warehouse.RecipeItem{
				ProductID: cm.ComponentID,
				Quantity:  cm.Quantity,
			})
		}
		snap.Products = append(snap.Products, ps)
	}

	var batches []BatchModel
	if err := db.Order("seq").Find(&batches).Error; err != nil {
		return nil, err
	}
	for i := range batches {
		snap.Batches = append(snap.Batches, batches[i].ToDomain())
	}

	var subscriptions []SubscriptionModel
	if err := db.Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	for _, sm := range subscriptions {
		snap.Subscriptions = append(snap.Subscriptions, warehouse.SubscriptionSnapshot{
			ProductID: sm.ProductID,
			PartnerID: sm.PartnerID,
		})
	}

	var transactions []TransactionModel
	if err := db.Order("id").Find(&transactions).Error; err != nil {
		return nil, err
	}
	for _, tm := range transactions {
		ts := warehouse.TransactionSnapshot{
			ID:          tm.ID,
			Kind:        tm.Kind,
			ProductID:   tm.ProductID,
			PartnerID:   tm.PartnerID,
			Quantity:    tm.Quantity,
			BaseValue:   tm.BaseValue,
			UnitPrice:   tm.UnitPrice,
			CreatedOn:   tm.CreatedOn,
			Paid:        tm.Paid,
			PaymentDay:  tm.PaymentDay,
			DeadlineDay: tm.DeadlineDay,
		}
		var lines []BreakdownLineModel
		if err := db.Where("transaction_id = ?", tm.ID).Order("position").Find(&lines).Error; err != nil {
			return nil, err
		}
		for _, lm := range lines {
			ts.Lines = append(ts.Lines, warehouse.BreakdownLine{
				ComponentID: lm.ComponentID,
				Price:       lm.Price,
				Quantity:    lm.Quantity,
			})
		}
		snap.Transactions = append(snap.Transactions, ts)
	}

	var notifications []NotificationModel
	if err := db.Order("id").Find(&notifications).Error; err != nil {
		return nil, err
	}
	for i := range notifications {
		snap.Notifications = append(snap.Notifications, notifications[i].ToDomain())
	}

	return snap, nil
}
