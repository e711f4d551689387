package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	application "github.com/goncaloinunes/warehouse-manager/internal/application/warehouse"
	"github.com/goncaloinunes/warehouse-manager/internal/domain/warehouse"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func buildWarehouse(t *testing.T) *warehouse.Warehouse {
	t.Helper()
	w := warehouse.New()
	partner, err := w.RegisterPartner("P1", "One", "Lisbon")
	require.NoError(t, err)

	g1 := w.RegisterSimpleProduct("G1")
	g2 := w.RegisterSimpleProduct("G2")
	a1, err := w.RegisterAggregateProduct("A1", []warehouse.RecipeItem{
		{ProductID: "G1", Quantity: 2},
		{ProductID: "G2", Quantity: 1},
	}, dec("0.15"))
	require.NoError(t, err)

	w.RegisterAcquisition(partner, g1, dec("5.50"), 10)
	w.RegisterAcquisition(partner, g2, dec("7"), 4)
	w.RegisterAcquisition(partner, a1, dec("20"), 3)

	require.NoError(t, w.AdvanceDate(3))
	sale, err := w.RegisterCreditSale(partner, g1, 10, 2)
	require.NoError(t, err)
	w.Pay(sale)
	_, err = w.RegisterCreditSale(partner, g1, 5, 1)
	require.NoError(t, err)
	_, err = w.RegisterBreakdown(partner, a1, 1)
	require.NoError(t, err)
	return w
}

func newTestStore() *SnapshotStore {
	return NewSnapshotStore(zap.NewNop(), gormlogger.Silent)
}

func TestSnapshotStoreRoundtrip(t *testing.T) {
	store := newTestStore()
	path := filepath.Join(t.TempDir(), "warehouse.db")
	original := buildWarehouse(t)

	require.NoError(t, store.Save(path, original.Snapshot()))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	restored, err := warehouse.Restore(loaded)
	require.NoError(t, err)

	t.Run("header", func(t *testing.T) {
		assert.Equal(t, original.Date(), restored.Date())
		assert.True(t, restored.AvailableBalance().Equal(original.AvailableBalance()))
		assert.True(t, restored.AccountingBalance().Equal(original.AccountingBalance()))
	})

	t.Run("catalogs and stock", func(t *testing.T) {
		require.Len(t, restored.Partners(), 1)
		require.Len(t, restored.Products(), 3)

		a1, err := restored.Product("A1")
		require.NoError(t, err)
		require.NotNil(t, a1.Recipe())
		assert.True(t, a1.Recipe().Alpha().Equal(dec("0.15")))
		require.Len(t, a1.Recipe().Components(), 2)

		for _, id := range []string{"G1", "G2", "A1"} {
			want, err := original.Product(id)
			require.NoError(t, err)
			got, err := restored.Product(id)
			require.NoError(t, err)
			assert.Equal(t, want.TotalStock(), got.TotalStock(), id)
			assert.True(t, want.AllTimeHigh().Equal(got.AllTimeHigh()), id)
		}
	})

	t.Run("batches keep identity and exact prices", func(t *testing.T) {
		want := original.AllBatchesSorted()
		got := restored.AllBatchesSorted()
		require.Equal(t, len(want), len(got))
		for i := range want {
			assert.Equal(t, want[i].ID(), got[i].ID())
			assert.True(t, want[i].Price().Equal(got[i].Price()))
			assert.Equal(t, want[i].Quantity(), got[i].Quantity())
			assert.Equal(t, want[i].Seq(), got[i].Seq())
		}
	})

	t.Run("ledger with variant fields", func(t *testing.T) {
		want := original.Transactions()
		got := restored.Transactions()
		require.Equal(t, len(want), len(got))
		for i := range want {
			assert.Equal(t, want[i].Kind(), got[i].Kind())
			assert.True(t, want[i].BaseValue().Equal(got[i].BaseValue()))
			assert.Equal(t, want[i].IsPaid(), got[i].IsPaid())
			if sale, ok := want[i].(*warehouse.CreditSale); ok {
				assert.Equal(t, sale.DeadlineDay(), got[i].(*warehouse.CreditSale).DeadlineDay())
			}
			if breakdown, ok := want[i].(*warehouse.BreakdownSale); ok {
				assert.Equal(t, breakdown.Lines(), got[i].(*warehouse.BreakdownSale).Lines())
			}
		}
	})

	t.Run("notifications keep order", func(t *testing.T) {
		wantPartner, err := original.Partner("P1")
		require.NoError(t, err)
		gotPartner, err := restored.Partner("P1")
		require.NoError(t, err)
		want := wantPartner.Notifications()
		got := gotPartner.Notifications()
		require.Equal(t, len(want), len(got))
		for i := range want {
			assert.Equal(t, want[i].ID, got[i].ID)
			assert.Equal(t, want[i].Kind, got[i].Kind)
			assert.Equal(t, want[i].ProductID, got[i].ProductID)
			assert.True(t, want[i].Price.Equal(got[i].Price))
		}
	})
}

func TestSnapshotStoreSaveReplaces(t *testing.T) {
	store := newTestStore()
	path := filepath.Join(t.TempDir(), "warehouse.db")

	first := warehouse.New()
	_, err := first.RegisterPartner("P1", "One", "Addr")
	require.NoError(t, err)
	require.NoError(t, store.Save(path, first.Snapshot()))

	second := warehouse.New()
	_, err = second.RegisterPartner("P2", "Two", "Addr")
	require.NoError(t, err)
	require.NoError(t, store.Save(path, second.Snapshot()))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Partners, 1)
	assert.Equal(t, "P2", loaded.Partners[0].ID)
}

func TestSnapshotStoreLoadFailures(t *testing.T) {
	store := newTestStore()

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent.db")
		_, err := store.Load(path)
		var unavailable *application.FileUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, path, unavailable.Path)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "load must not create the file")
	})

	t.Run("file without a warehouse inside", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.db")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
		_, err := store.Load(path)
		var unavailable *application.FileUnavailableError
		require.ErrorAs(t, err, &unavailable)
	})
}
