// Package export writes walked product directories into a SQL database.
package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/LeJamon/goPyth/pkg/traverse"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrValueOutOfRange is returned for unsigned values above math.MaxInt64.
var ErrValueOutOfRange = errors.New("value does not fit a BIGINT column")

// Config selects the target database.
type Config struct {
	Driver string
	DSN    string
}

// Stats counts what WriteAll stored and skipped.
type Stats struct {
	Products int
	Prices   int
	Skipped  int
}

// Exporter upserts traversal entries. Writing the same directory twice
// leaves the database unchanged.
type Exporter struct {
	db     *sql.DB
	driver string
	logger *zap.Logger

	upsertProduct    string
	deleteAttributes string
	insertAttribute  string
	upsertPrice      string
	deleteComponents string
	insertComponent  string
}

// Open connects to the database and creates missing tables.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Exporter, error) {
	if cfg.Driver != DriverSQLite && cfg.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported export driver: %s", cfg.Driver)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// One writer avoids SQLITE_BUSY between pooled connections.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	e := &Exporter{
		db:               db,
		driver:           cfg.Driver,
		logger:           logger.With(zap.String("component", "export")),
		upsertProduct:    rebind(cfg.Driver, upsertProduct),
		deleteAttributes: rebind(cfg.Driver, deleteAttributes),
		insertAttribute:  rebind(cfg.Driver, insertAttribute),
		upsertPrice:      rebind(cfg.Driver, upsertPrice),
		deleteComponents: rebind(cfg.Driver, deleteComponents),
		insertComponent:  rebind(cfg.Driver, insertComponent),
	}

	if err := e.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return e, nil
}

func (e *Exporter) initSchema(ctx context.Context) error {
	for _, q := range schema {
		if _, err := e.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// DB exposes the underlying connection pool for queries.
func (e *Exporter) DB() *sql.DB {
	return e.db
}

func (e *Exporter) Close() error {
	return e.db.Close()
}

// Write stores one entry in a single transaction. An entry without a
// product is ignored.
func (e *Exporter) Write(ctx context.Context, entry traverse.Entry) (err error) {
	if entry.Product == nil {
		return nil
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = e.writeProduct(ctx, tx, entry); err != nil {
		return fmt.Errorf("product %s: %w", entry.ProductKey, err)
	}
	if entry.Price != nil {
		if err = e.writePrice(ctx, tx, entry.PriceKey, entry.Price); err != nil {
			return fmt.Errorf("price %s: %w", entry.PriceKey, err)
		}
	}
	return tx.Commit()
}

func (e *Exporter) writeProduct(ctx context.Context, tx *sql.Tx, entry traverse.Entry) error {
	p := entry.Product
	priceKey, _ := p.PriceAccount()

	if _, err := tx.ExecContext(ctx, e.upsertProduct,
		entry.ProductKey.String(), entry.MappingKey.String(),
		p.Symbol(), p.AssetType(), p.QuoteCurrency(), priceKey.String(),
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, e.deleteAttributes, entry.ProductKey.String()); err != nil {
		return err
	}
	pos := 0
	for k, v := range p.Attributes() {
		if _, err := tx.ExecContext(ctx, e.insertAttribute, entry.ProductKey.String(), pos, k, v); err != nil {
			return err
		}
		pos++
	}
	return nil
}

func (e *Exporter) writePrice(ctx context.Context, tx *sql.Tx, key account.Key, p *account.Price) error {
	agg := p.Aggregate()
	next, _ := p.Next()

	u := unsigned{}
	args := []any{
		key.String(), p.Product().String(), p.PriceType().String(), p.Exponent(),
		p.NumComponents(), p.NumQuoters(),
		u.int64(p.LastSlot()), u.int64(p.ValidSlot()),
		p.TWAP().Val, p.TWAC().Val,
		u.int64(p.PrevSlot()), p.PrevPrice(), u.int64(p.PrevConf()),
		agg.Price, u.int64(agg.Conf), agg.Status.String(), agg.CorpAction.String(), u.int64(agg.PubSlot),
		next.String(),
	}
	if u.err != nil {
		return u.err
	}
	if _, err := tx.ExecContext(ctx, e.upsertPrice, args...); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, e.deleteComponents, key.String()); err != nil {
		return err
	}
	for i, c := range p.Components() {
		if !c.Active() {
			continue
		}
		args := []any{
			key.String(), i, c.Publisher.String(),
			c.Aggregate.Price, u.int64(c.Aggregate.Conf), c.Aggregate.Status.String(), u.int64(c.Aggregate.PubSlot),
			c.Latest.Price, u.int64(c.Latest.Conf), c.Latest.Status.String(), u.int64(c.Latest.PubSlot),
		}
		if u.err != nil {
			return u.err
		}
		if _, err := tx.ExecContext(ctx, e.insertComponent, args...); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll drains seq. Per-account failures reported by the walk are
// logged and counted; any other error stops the export.
func (e *Exporter) WriteAll(ctx context.Context, seq iter.Seq2[traverse.Entry, error]) (Stats, error) {
	var stats Stats
	var lastProduct account.Key

	for entry, err := range seq {
		if err != nil {
			var itemErr *traverse.ItemError
			if !errors.As(err, &itemErr) || itemErr.Stage == traverse.StageMapping {
				return stats, err
			}
			stats.Skipped++
			// A broken price account still leaves its product worth keeping.
			if itemErr.Stage != traverse.StagePrice {
				continue
			}
			entry.Price = nil
		}

		if entry.Product == nil {
			continue
		}
		if err := e.Write(ctx, entry); err != nil {
			return stats, err
		}
		if entry.ProductKey != lastProduct {
			stats.Products++
			lastProduct = entry.ProductKey
		}
		if entry.Price != nil {
			stats.Prices++
		}
	}

	e.logger.Info("Export finished",
		zap.Int("products", stats.Products),
		zap.Int("prices", stats.Prices),
		zap.Int("skipped", stats.Skipped))
	return stats, nil
}

type unsigned struct {
	err error
}

func (u *unsigned) int64(v uint64) int64 {
	if v > math.MaxInt64 {
		u.err = fmt.Errorf("%w: %d", ErrValueOutOfRange, v)
		return 0
	}
	return int64(v)
}
