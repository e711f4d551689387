// Package flatimport parses the pipe-delimited bootstrap files used to seed
// a warehouse: one entry per line, fields separated by '|'.
//
//	PARTNER|id|name|address
//	BATCH_S|product|partner|price|quantity
//	BATCH_M|product|partner|price|quantity|alpha|component:qty#component:qty
//
// Batch entries register their product on first sight; batches are added
// directly to stock, outside the transaction ledger.
package flatimport

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/goncaloinunes/warehouse-manager/internal/domain/warehouse"
)

// Entry tags accepted in import files.
const (
	tagPartner        = "PARTNER"
	tagSimpleBatch    = "BATCH_S"
	tagAggregateBatch = "BATCH_M"
)

// Registry is the sink an import file is replayed into.
type Registry interface {
	RegisterPartner(id, name, address string) error
	ProductExists(id string) bool
	RegisterSimpleProduct(id string) error
	RegisterAggregateProduct(id string, alpha decimal.Decimal, items []warehouse.RecipeItem) error
	AddBatch(productID, partnerID string, price decimal.Decimal, quantity int) error
}

// ParseFile replays the entries of the file at path into the registry. It
// stops at the first malformed entry or registration failure.
func ParseFile(path string, registry Registry) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" {
			continue
		}
		if err := parseEntry(entry, line, registry); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	return nil
}

func parseEntry(entry string, line int, registry Registry) error {
	fields := strings.Split(entry, "|")
	switch fields[0] {
	case tagPartner:
		return parsePartner(fields, entry, line, registry)
	case tagSimpleBatch:
		return parseSimpleBatch(fields, entry, line, registry)
	case tagAggregateBatch:
		return parseAggregateBatch(fields, entry, line, registry)
	default:
		return badEntry(line, entry, ErrCodeImportBadEntry, ErrUnknownEntryKind.Error())
	}
}

func parsePartner(fields []string, entry string, line int, registry Registry) error {
	if len(fields) != 4 {
		return badEntry(line, entry, ErrCodeImportBadEntry, "PARTNER takes exactly 3 fields")
	}
	if err := registry.RegisterPartner(fields[1], fields[2], fields[3]); err != nil {
		return badEntry(line, entry, ErrCodeImportRegistration, err.Error())
	}
	return nil
}

func parseSimpleBatch(fields []string, entry string, line int, registry Registry) error {
	if len(fields) != 5 {
		return badEntry(line, entry, ErrCodeImportBadEntry, "BATCH_S takes exactly 4 fields")
	}
	price, quantity, err := parseBatchNumbers(fields[3], fields[4], entry, line)
	if err != nil {
		return err
	}
	if !registry.ProductExists(fields[1]) {
		if err := registry.RegisterSimpleProduct(fields[1]); err != nil {
			return badEntry(line, entry, ErrCodeImportRegistration, err.Error())
		}
	}
	if err := registry.AddBatch(fields[1], fields[2], price, quantity); err != nil {
		return badEntry(line, entry, ErrCodeImportRegistration, err.Error())
	}
	return nil
}

func parseAggregateBatch(fields []string, entry string, line int, registry Registry) error {
	if len(fields) != 7 {
		return badEntry(line, entry, ErrCodeImportBadEntry, "BATCH_M takes exactly 6 fields")
	}
	price, quantity, err := parseBatchNumbers(fields[3], fields[4], entry, line)
	if err != nil {
		return err
	}
	if !registry.ProductExists(fields[1]) {
		alpha, err := decimal.NewFromString(fields[5])
		if err != nil {
			return badEntry(line, entry, ErrCodeImportBadNumber, fmt.Sprintf("bad markup %q", fields[5]))
		}
		items, err := parseRecipe(fields[6], entry, line)
		if err != nil {
			return err
		}
		if err := registry.RegisterAggregateProduct(fields[1], alpha, items); err != nil {
			return badEntry(line, entry, ErrCodeImportRegistration, err.Error())
		}
	}
	if err := registry.AddBatch(fields[1], fields[2], price, quantity); err != nil {
		return badEntry(line, entry, ErrCodeImportRegistration, err.Error())
	}
	return nil
}

func parseBatchNumbers(priceField, quantityField, entry string, line int) (decimal.Decimal, int, error) {
	price, err := decimal.NewFromString(priceField)
	if err != nil {
		return decimal.Zero, 0, badEntry(line, entry, ErrCodeImportBadNumber, fmt.Sprintf("bad price %q", priceField))
	}
	quantity, err := strconv.Atoi(quantityField)
	if err != nil || quantity <= 0 {
		return decimal.Zero, 0, badEntry(line, entry, ErrCodeImportBadNumber, fmt.Sprintf("bad quantity %q", quantityField))
	}
	return price, quantity, nil
}

// parseRecipe parses "component:qty#component:qty" recipe descriptors.
func parseRecipe(descriptor, entry string, line int) ([]warehouse.RecipeItem, error) {
	var items []warehouse.RecipeItem
	for _, part := range strings.Split(descriptor, "#") {
		pieces := strings.Split(part, ":")
		if len(pieces) != 2 {
			return nil, badEntry(line, entry, ErrCodeImportBadRecipe, fmt.Sprintf("bad recipe component %q", part))
		}
		quantity, err := strconv.Atoi(pieces[1])
		if err != nil || quantity <= 0 {
			return nil, badEntry(line, entry, ErrCodeImportBadRecipe, fmt.Sprintf("bad recipe quantity %q", pieces[1]))
		}
		items = append(items, warehouse.RecipeItem{ProductID: pieces[0], Quantity: quantity})
	}
	return items, nil
}
