// Package warehouse exposes the application facade over the warehouse core:
// string-keyed operations for the outer interfaces, read models, file
// association, and flat-file import.
package warehouse

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/goncaloinunes/warehouse-manager/internal/domain/shared"
	"github.com/goncaloinunes/warehouse-manager/internal/domain/warehouse"
	flatimport "github.com/goncaloinunes/warehouse-manager/internal/infrastructure/import"
)

// ErrNoFileAssociated is returned by Save when the warehouse has never been
// saved or loaded, so no target file is known.
var ErrNoFileAssociated = shared.NewDomainError("NO_FILE_ASSOCIATED", "no file associated with the current warehouse")

// FileUnavailableError is returned when a warehouse file cannot be read or
// does not hold a valid snapshot.
type FileUnavailableError struct {
	Path string
	Err  error
}

func (e *FileUnavailableError) Error() string {
	return fmt.Sprintf("warehouse file %q unavailable: %v", e.Path, e.Err)
}

func (e *FileUnavailableError) Unwrap() error {
	return e.Err
}

// SnapshotStore persists whole-warehouse snapshots under named files.
type SnapshotStore interface {
	Save(path string, snap *warehouse.Snapshot) error
	// Load returns *FileUnavailableError when the file is missing or corrupt.
	Load(path string) (*warehouse.Snapshot, error)
}

// Service is the application facade. It owns one warehouse, the file it is
// associated with, and the snapshot store used to save and load it.
type Service struct {
	warehouse *warehouse.Warehouse
	store     SnapshotStore
	filename  string
	logger    *zap.Logger
}

// NewService creates a facade over a fresh, empty warehouse.
func NewService(store SnapshotStore, logger *zap.Logger) *Service {
	return &Service{
		warehouse: warehouse.New(),
		store:     store,
		logger:    logger.Named("warehouse"),
	}
}

// Date returns the current warehouse day.
func (s *Service) Date() int {
	return s.warehouse.Date()
}

// AdvanceDate moves the clock forward by offset days.
func (s *Service) AdvanceDate(offset int) error {
	if err := s.warehouse.AdvanceDate(offset); err != nil {
		return err
	}
	s.logger.Info("date advanced", zap.Int("offset", offset), zap.Int("day", s.warehouse.Date()))
	return nil
}

// AvailableBalance returns the settled cash position.
func (s *Service) AvailableBalance() decimal.Decimal {
	return s.warehouse.AvailableBalance()
}

// AccountingBalance returns the available balance plus outstanding credit.
func (s *Service) AccountingBalance() decimal.Decimal {
	return s.warehouse.AccountingBalance()
}

// RegisterPartner adds a partner to the catalog.
func (s *Service) RegisterPartner(id, name, address string) (PartnerView, error) {
	partner, err := s.warehouse.RegisterPartner(id, name, address)
	if err != nil {
		return PartnerView{}, err
	}
	s.logger.Info("partner registered", zap.String("partner", partner.ID()))
	return newPartnerView(partner), nil
}

// Partner returns the read model of one partner.
func (s *Service) Partner(id string) (PartnerView, error) {
	partner, err := s.warehouse.Partner(id)
	if err != nil {
		return PartnerView{}, err
	}
	return newPartnerView(partner), nil
}

// Partners returns every partner ordered by identifier.
func (s *Service) Partners() []PartnerView {
	partners := s.warehouse.Partners()
	views := make([]PartnerView, 0, len(partners))
	for _, p := range partners {
		views = append(views, newPartnerView(p))
	}
	return views
}

// Notifications returns the partner's pending inbox without draining it.
func (s *Service) Notifications(partnerID string) ([]NotificationView, error) {
	partner, err := s.warehouse.Partner(partnerID)
	if err != nil {
		return nil, err
	}
	return newNotificationViews(partner.Notifications()), nil
}

// ClearNotifications empties the partner's inbox.
func (s *Service) ClearNotifications(partnerID string) error {
	partner, err := s.warehouse.Partner(partnerID)
	if err != nil {
		return err
	}
	partner.ClearNotifications()
	return nil
}

// ToggleSubscription flips the partner's subscription to the product.
func (s *Service) ToggleSubscription(partnerID, productID string) error {
	partner, err := s.warehouse.Partner(partnerID)
	if err != nil {
		return err
	}
	product, err := s.warehouse.Product(productID)
	if err != nil {
		return err
	}
	s.warehouse.ToggleSubscription(product, partner)
	return nil
}

// RegisterSimpleProduct adds a simple product to the catalog.
func (s *Service) RegisterSimpleProduct(id string) ProductView {
	product := s.warehouse.RegisterSimpleProduct(id)
	s.logger.Info("product registered", zap.String("product", product.ID()))
	return newProductView(product)
}

// RegisterAggregateProduct adds an aggregate product whose recipe references
// already-registered components.
func (s *Service) RegisterAggregateProduct(id string, items []warehouse.RecipeItem, alpha decimal.Decimal) (ProductView, error) {
	product, err := s.warehouse.RegisterAggregateProduct(id, items, alpha)
	if err != nil {
		return ProductView{}, err
	}
	s.logger.Info("product registered", zap.String("product", product.ID()))
	return newProductView(product), nil
}

// Product returns the read model of one product.
func (s *Service) Product(id string) (ProductView, error) {
	product, err := s.warehouse.Product(id)
	if err != nil {
		return ProductView{}, err
	}
	return newProductView(product), nil
}

// Products returns the catalog ordered by identifier.
func (s *Service) Products() []ProductView {
	products := s.warehouse.Products()
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	return views
}

// ProductExists reports whether the product id is registered.
func (s *Service) ProductExists(id string) bool {
	return s.warehouse.ProductExists(id)
}

// Batches returns every batch ordered by product, supplier and price.
func (s *Service) Batches() []BatchView {
	return newBatchViews(s.warehouse.AllBatchesSorted())
}

// BatchesByProduct returns a product's batches in creation order.
func (s *Service) BatchesByProduct(productID string) ([]BatchView, error) {
	batches, err := s.warehouse.BatchesByProduct(productID)
	if err != nil {
		return nil, err
	}
	return newBatchViews(batches), nil
}

// BatchesBySupplier returns every batch supplied by the partner.
func (s *Service) BatchesBySupplier(partnerID string) ([]BatchView, error) {
	batches, err := s.warehouse.BatchesBySupplier(partnerID)
	if err != nil {
		return nil, err
	}
	return newBatchViews(batches), nil
}

// BatchesUnderPrice returns every batch priced strictly below the limit.
func (s *Service) BatchesUnderPrice(limit decimal.Decimal) []BatchView {
	return newBatchViews(s.warehouse.BatchesUnderPrice(limit))
}

// RegisterAcquisition buys stock from a partner.
func (s *Service) RegisterAcquisition(partnerID, productID string, price decimal.Decimal, quantity int) (TransactionView, error) {
	partner, err := s.warehouse.Partner(partnerID)
	if err != nil {
		return TransactionView{}, err
	}
	product, err := s.warehouse.Product(productID)
	if err != nil {
		return TransactionView{}, err
	}
	acquisition := s.warehouse.RegisterAcquisition(partner, product, price, quantity)
	s.logger.Info("acquisition registered",
		zap.Int("transaction", acquisition.ID()),
		zap.String("partner", partner.ID()),
		zap.String("product", product.ID()),
		zap.Int("quantity", quantity))
	return newTransactionView(acquisition), nil
}

// RegisterCreditSale sells stock to a partner on credit, due deadline days
// after the current day.
func (s *Service) RegisterCreditSale(partnerID, productID string, deadline, quantity int) (TransactionView, error) {
	partner, err := s.warehouse.Partner(partnerID)
	if err != nil {
		return TransactionView{}, err
	}
	product, err := s.warehouse.Product(productID)
	if err != nil {
		return TransactionView{}, err
	}
	sale, err := s.warehouse.RegisterCreditSale(partner, product, deadline, quantity)
	if err != nil {
		return TransactionView{}, err
	}
	s.logger.Info("credit sale registered",
		zap.Int("transaction", sale.ID()),
		zap.String("partner", partner.ID()),
		zap.String("product", product.ID()),
		zap.Int("quantity", quantity))
	return newTransactionView(sale), nil
}

// RegisterBreakdown disassembles aggregate stock back into components. The
// returned view is zero-valued (with ok=false semantics via Kind == "") when
// the product is simple and the operation was a checked no-op.
func (s *Service) RegisterBreakdown(partnerID, productID string, quantity int) (TransactionView, error) {
	partner, err := s.warehouse.Partner(partnerID)
	if err != nil {
		return TransactionView{}, err
	}
	product, err := s.warehouse.Product(productID)
	if err != nil {
		return TransactionView{}, err
	}
	breakdown, err := s.warehouse.RegisterBreakdown(partner, product, quantity)
	if err != nil {
		return TransactionView{}, err
	}
	if breakdown == nil {
		return TransactionView{}, nil
	}
	s.logger.Info("breakdown registered",
		zap.Int("transaction", breakdown.ID()),
		zap.String("partner", partner.ID()),
		zap.String("product", product.ID()),
		zap.Int("quantity", quantity))
	return newTransactionView(breakdown), nil
}

// Pay settles a transaction by ledger id.
func (s *Service) Pay(transactionID int) (TransactionView, error) {
	transaction, err := s.warehouse.Transaction(transactionID)
	if err != nil {
		return TransactionView{}, err
	}
	s.warehouse.Pay(transaction)
	s.logger.Info("transaction paid", zap.Int("transaction", transactionID))
	return newTransactionView(transaction), nil
}

// Transaction returns the read model of one ledger entry.
func (s *Service) Transaction(id int) (TransactionView, error) {
	transaction, err := s.warehouse.Transaction(id)
	if err != nil {
		return TransactionView{}, err
	}
	return newTransactionView(transaction), nil
}

// PaymentsByPartner returns the partner's settled transactions in ledger
// order.
func (s *Service) PaymentsByPartner(partnerID string) ([]TransactionView, error) {
	payments, err := s.warehouse.PaymentsByPartner(partnerID)
	if err != nil {
		return nil, err
	}
	return newTransactionViews(payments), nil
}

// PartnerAcquisitions returns the partner's acquisition history.
func (s *Service) PartnerAcquisitions(partnerID string) ([]TransactionView, error) {
	partner, err := s.warehouse.Partner(partnerID)
	if err != nil {
		return nil, err
	}
	acquisitions := partner.Acquisitions()
	views := make([]TransactionView, 0, len(acquisitions))
	for _, a := range acquisitions {
		views = append(views, newTransactionView(a))
	}
	return views, nil
}

// PartnerSales returns the partner's sale history, credit sales and
// breakdowns alike.
func (s *Service) PartnerSales(partnerID string) ([]TransactionView, error) {
	partner, err := s.warehouse.Partner(partnerID)
	if err != nil {
		return nil, err
	}
	return newTransactionViews(partner.Sales()), nil
}

// importRegistry replays import entries into the warehouse. Imported batches
// go straight to stock, bypassing the transaction ledger and the balance.
type importRegistry struct {
	w *warehouse.Warehouse
}

func (r importRegistry) RegisterPartner(id, name, address string) error {
	_, err := r.w.RegisterPartner(id, name, address)
	return err
}

func (r importRegistry) ProductExists(id string) bool {
	return r.w.ProductExists(id)
}

func (r importRegistry) RegisterSimpleProduct(id string) error {
	r.w.RegisterSimpleProduct(id)
	return nil
}

func (r importRegistry) RegisterAggregateProduct(id string, alpha decimal.Decimal, items []warehouse.RecipeItem) error {
	_, err := r.w.RegisterAggregateProduct(id, items, alpha)
	return err
}

func (r importRegistry) AddBatch(productID, partnerID string, price decimal.Decimal, quantity int) error {
	product, err := r.w.Product(productID)
	if err != nil {
		return err
	}
	partner, err := r.w.Partner(partnerID)
	if err != nil {
		return err
	}
	product.AddBatch(price, quantity, partner)
	return nil
}

// ImportFile seeds the warehouse from a pipe-delimited bootstrap file. The
// notifications generated while batches land are cleared afterwards: a
// bootstrap is not market activity.
func (s *Service) ImportFile(path string) error {
	if err := flatimport.ParseFile(path, importRegistry{w: s.warehouse}); err != nil {
		return err
	}
	for _, partner := range s.warehouse.Partners() {
		partner.ClearNotifications()
	}
	s.logger.Info("import finished", zap.String("path", path))
	return nil
}

// HasFile reports whether the warehouse is associated with a file.
func (s *Service) HasFile() bool {
	return s.filename != ""
}

// Filename returns the associated file path, empty when none.
func (s *Service) Filename() string {
	return s.filename
}

// Save writes the warehouse to its associated file. Fails with
// ErrNoFileAssociated when the warehouse was never saved or loaded.
func (s *Service) Save() error {
	if s.filename == "" {
		return ErrNoFileAssociated
	}
	return s.SaveAs(s.filename)
}

// SaveAs writes the warehouse to the given file and associates it.
func (s *Service) SaveAs(path string) error {
	if err := s.store.Save(path, s.warehouse.Snapshot()); err != nil {
		return err
	}
	s.filename = path
	s.logger.Info("warehouse saved", zap.String("path", path))
	return nil
}

// Load replaces the current warehouse with the one stored in the given file
// and associates it. The current warehouse is kept on failure.
func (s *Service) Load(path string) error {
	snap, err := s.store.Load(path)
	if err != nil {
		return err
	}
	restored, err := warehouse.Restore(snap)
	if err != nil {
		return &FileUnavailableError{Path: path, Err: err}
	}
	s.warehouse = restored
	s.filename = path
	s.logger.Info("warehouse loaded", zap.String("path", path))
	return nil
}
