package export

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"path/filepath"
	"testing"

	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/LeJamon/goPyth/pkg/account/accounttest"
	"github.com/LeJamon/goPyth/pkg/traverse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mappingKey = accounttest.Key(1)
	productKey = accounttest.Key(2)
	priceKey   = accounttest.Key(3)
	publisher  = accounttest.Key(4)
)

func directory() *accounttest.Ledger {
	return accounttest.NewLedger().
		Put(mappingKey, accounttest.Mapping(account.ZeroKey, productKey)).
		Put(productKey, accounttest.Product(priceKey,
			accounttest.Attr{Key: account.AttrSymbol, Value: "BTC/USD"},
			accounttest.Attr{Key: account.AttrAssetType, Value: "Crypto"},
			accounttest.Attr{Key: account.AttrQuoteCurrency, Value: "USD"},
		)).
		Put(priceKey, accounttest.Price(accounttest.PriceSpec{
			Type:       account.PriceTypePrice,
			Expo:       -8,
			Num:        2,
			NumQuoters: 1,
			LastSlot:   100,
			ValidSlot:  99,
			TWAP:       account.Ema{Val: 6000000000000},
			Product:    productKey,
			Aggregate: account.PriceInfo{
				Price:   6012345678900,
				Conf:    1500000000,
				Status:  account.PriceStatusTrading,
				PubSlot: 100,
			},
			Components: []account.PriceComponent{
				{
					Publisher: publisher,
					Aggregate: account.PriceInfo{Price: 6012345678900, Conf: 1, Status: account.PriceStatusTrading, PubSlot: 99},
					Latest:    account.PriceInfo{Price: 6012345678901, Conf: 2, Status: account.PriceStatusTrading, PubSlot: 100},
				},
			},
		}))
}

func openSQLite(t *testing.T) *Exporter {
	t.Helper()
	e, err := Open(context.Background(), Config{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "pyth.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestExporter_WriteAll(t *testing.T) {
	ctx := context.Background()
	e := openSQLite(t)

	stats, err := e.WriteAll(ctx, traverse.Products(ctx, directory(), mappingKey))
	require.NoError(t, err)
	assert.Equal(t, Stats{Products: 1, Prices: 1}, stats)

	var symbol, quote, priceRef string
	require.NoError(t, e.DB().QueryRow(
		`SELECT symbol, quote_currency, price_key FROM products WHERE product_key = ?`,
		productKey.String(),
	).Scan(&symbol, &quote, &priceRef))
	assert.Equal(t, "BTC/USD", symbol)
	assert.Equal(t, "USD", quote)
	assert.Equal(t, priceKey.String(), priceRef)
	assert.Equal(t, 3, count(t, e.DB(), "product_attributes"))

	var (
		aggPrice int64
		aggConf  int64
		status   string
		expo     int
	)
	require.NoError(t, e.DB().QueryRow(
		`SELECT agg_price, agg_conf, agg_status, exponent FROM prices WHERE price_key = ?`,
		priceKey.String(),
	).Scan(&aggPrice, &aggConf, &status, &expo))
	assert.Equal(t, int64(6012345678900), aggPrice)
	assert.Equal(t, int64(1500000000), aggConf)
	assert.Equal(t, "trading", status)
	assert.Equal(t, -8, expo)

	var pub string
	var latest int64
	require.NoError(t, e.DB().QueryRow(
		`SELECT publisher, latest_price FROM price_components WHERE price_key = ?`,
		priceKey.String(),
	).Scan(&pub, &latest))
	assert.Equal(t, publisher.String(), pub)
	assert.Equal(t, int64(6012345678901), latest)

	t.Run("idempotent", func(t *testing.T) {
		_, err := e.WriteAll(ctx, traverse.Products(ctx, directory(), mappingKey))
		require.NoError(t, err)
		assert.Equal(t, 1, count(t, e.DB(), "products"))
		assert.Equal(t, 3, count(t, e.DB(), "product_attributes"))
		assert.Equal(t, 1, count(t, e.DB(), "prices"))
		assert.Equal(t, 1, count(t, e.DB(), "price_components"))
	})
}

func TestExporter_SkipsItemErrors(t *testing.T) {
	ctx := context.Background()
	e := openSQLite(t)

	ledger := directory().Fail(priceKey, errors.New("rpc down"))
	stats, err := e.WriteAll(ctx, traverse.Products(ctx, ledger, mappingKey))
	require.NoError(t, err)
	assert.Equal(t, Stats{Products: 1, Skipped: 1}, stats)
	assert.Equal(t, 1, count(t, e.DB(), "products"))
	assert.Zero(t, count(t, e.DB(), "prices"))
}

func TestExporter_MappingErrorIsFatal(t *testing.T) {
	ctx := context.Background()
	e := openSQLite(t)

	_, err := e.WriteAll(ctx, traverse.Products(ctx, accounttest.NewLedger(), mappingKey))
	assert.ErrorIs(t, err, accounttest.ErrNoAccount)
}

func TestExporter_ProductWithoutPrice(t *testing.T) {
	ctx := context.Background()
	e := openSQLite(t)

	ledger := accounttest.NewLedger().
		Put(mappingKey, accounttest.Mapping(account.ZeroKey, productKey)).
		Put(productKey, accounttest.Product(account.ZeroKey))

	stats, err := e.WriteAll(ctx, traverse.Products(ctx, ledger, mappingKey))
	require.NoError(t, err)
	assert.Equal(t, Stats{Products: 1}, stats)

	var priceRef string
	require.NoError(t, e.DB().QueryRow(`SELECT price_key FROM products`).Scan(&priceRef))
	assert.Equal(t, account.ZeroKey.String(), priceRef)
}

func TestExporter_OutOfRange(t *testing.T) {
	ctx := context.Background()
	e := openSQLite(t)

	ledger := accounttest.NewLedger().
		Put(mappingKey, accounttest.Mapping(account.ZeroKey, productKey)).
		Put(productKey, accounttest.Product(priceKey)).
		Put(priceKey, accounttest.Price(accounttest.PriceSpec{
			Product:   productKey,
			Aggregate: account.PriceInfo{Conf: 1 << 63},
		}))

	_, err := e.WriteAll(ctx, traverse.Products(ctx, ledger, mappingKey))
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestExporter_IgnoresEntryWithoutProduct(t *testing.T) {
	e := openSQLite(t)

	var seq iter.Seq2[traverse.Entry, error] = func(yield func(traverse.Entry, error) bool) {
		yield(traverse.Entry{ProductKey: productKey}, nil)
	}
	_, err := e.WriteAll(context.Background(), seq)
	require.NoError(t, err)
	assert.Zero(t, count(t, e.DB(), "products"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql", DSN: "x"}, nil)
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		query  string
		want   string
	}{
		{"sqlite unchanged", DriverSQLite, "SELECT ? , ?", "SELECT ? , ?"},
		{"postgres numbered", DriverPostgres, "VALUES (?, ?, ?)", "VALUES ($1, $2, $3)"},
		{"no placeholders", DriverPostgres, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rebind(tt.driver, tt.query))
		})
	}

	assert.Contains(t, rebind(DriverPostgres, upsertPrice), "$19")
	assert.NotContains(t, rebind(DriverPostgres, upsertPrice), "?")
}
