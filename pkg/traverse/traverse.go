// Package traverse walks the product directory: the linked list of mapping
// accounts, each product they list, and every price account chained from
// that product.
package traverse

import (
	"context"
	"fmt"
	"iter"

	"github.com/LeJamon/goPyth/pkg/account"
	"go.uber.org/zap"
)

// Loader fetches the raw bytes of an account. The walk never does I/O on
// its own; retries and caching, if any, belong to the Loader.
type Loader interface {
	Load(ctx context.Context, key account.Key) ([]byte, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, key account.Key) ([]byte, error)

func (f LoaderFunc) Load(ctx context.Context, key account.Key) ([]byte, error) {
	return f(ctx, key)
}

// Entry is one price feed of one product. Price is nil when the product
// has no price account.
type Entry struct {
	MappingKey account.Key
	ProductKey account.Key
	Product    *account.Product
	PriceKey   account.Key
	Price      *account.Price
}

const (
	DefaultMaxMappingHops = 1024
	DefaultMaxPriceHops   = 64
)

type options struct {
	maxMappingHops int
	maxPriceHops   int
	logger         *zap.Logger
}

// Option configures a walk.
type Option func(*options)

// WithMaxMappingHops bounds the number of mapping accounts visited.
func WithMaxMappingHops(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxMappingHops = n
		}
	}
}

// WithMaxPriceHops bounds the number of price accounts followed per product.
func WithMaxPriceHops(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPriceHops = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

type walker struct {
	options
	loader Loader
}

// Products lazily enumerates every (product, price) pair reachable from
// the mapping account first.
//
// A failure confined to one product or price account is yielded as an
// *ItemError and the walk moves on to the next product. A failure to load
// or decode a mapping account, a mapping cycle, or a cancelled ctx is
// yielded and ends the sequence, since the rest of the directory is no
// longer reachable. Each call starts a fresh walk that loads accounts
// again.
func Products(ctx context.Context, loader Loader, first account.Key, opts ...Option) iter.Seq2[Entry, error] {
	w := &walker{
		options: options{
			maxMappingHops: DefaultMaxMappingHops,
			maxPriceHops:   DefaultMaxPriceHops,
			logger:         zap.NewNop(),
		},
		loader: loader,
	}
	for _, opt := range opts {
		opt(&w.options)
	}

	return func(yield func(Entry, error) bool) {
		w.walk(ctx, first, yield)
	}
}

func (w *walker) walk(ctx context.Context, first account.Key, yield func(Entry, error) bool) {
	visited := make(map[account.Key]struct{})

	for key, hops := first, 0; !key.IsZero(); hops++ {
		if err := ctx.Err(); err != nil {
			yield(Entry{}, err)
			return
		}

		if _, seen := visited[key]; seen {
			w.fail(yield, Entry{MappingKey: key}, StageMapping, key,
				fmt.Errorf("%w: mapping %s visited twice", account.ErrCyclicReference, key))
			return
		}
		if hops >= w.maxMappingHops {
			w.fail(yield, Entry{MappingKey: key}, StageMapping, key,
				fmt.Errorf("%w: more than %d mapping accounts", account.ErrCyclicReference, w.maxMappingHops))
			return
		}
		visited[key] = struct{}{}

		w.logger.Debug("Loading mapping account", zap.Stringer("key", key), zap.Int("hop", hops))
		m, err := w.loadMapping(ctx, key)
		if err != nil {
			w.fail(yield, Entry{MappingKey: key}, StageMapping, key, err)
			return
		}

		for _, productKey := range m.Products() {
			if !w.product(ctx, key, productKey, yield) {
				return
			}
		}

		key, _ = m.Next()
	}
}

func (w *walker) loadMapping(ctx context.Context, key account.Key) (*account.Mapping, error) {
	data, err := w.loader.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return account.ParseMapping(data)
}

// product yields the entries of one product and reports whether the walk
// should go on.
func (w *walker) product(ctx context.Context, mappingKey, productKey account.Key, yield func(Entry, error) bool) bool {
	if err := ctx.Err(); err != nil {
		yield(Entry{}, err)
		return false
	}

	entry := Entry{MappingKey: mappingKey, ProductKey: productKey}

	data, err := w.loader.Load(ctx, productKey)
	if err == nil {
		entry.Product, err = account.ParseProduct(data)
	}
	if err != nil {
		return w.fail(yield, entry, StageProduct, productKey, err)
	}

	priceKey, ok := entry.Product.PriceAccount()
	if !ok {
		return yield(entry, nil)
	}

	seen := make(map[account.Key]struct{})
	for hops := 0; ; hops++ {
		if err := ctx.Err(); err != nil {
			yield(Entry{}, err)
			return false
		}

		entry.PriceKey, entry.Price = priceKey, nil
		if _, dup := seen[priceKey]; dup || hops >= w.maxPriceHops {
			return w.fail(yield, entry, StagePrice, priceKey,
				fmt.Errorf("%w: price chain of product %s", account.ErrCyclicReference, productKey))
		}
		seen[priceKey] = struct{}{}

		data, err := w.loader.Load(ctx, priceKey)
		if err == nil {
			entry.Price, err = account.ParsePrice(data)
		}
		if err != nil {
			return w.fail(yield, entry, StagePrice, priceKey, err)
		}

		if !yield(entry, nil) {
			return false
		}

		if priceKey, ok = entry.Price.Next(); !ok {
			return true
		}
	}
}

func (w *walker) fail(yield func(Entry, error) bool, entry Entry, stage Stage, key account.Key, err error) bool {
	itemErr := &ItemError{Stage: stage, Key: key, Err: err}
	w.logger.Warn("Skipping account", zap.String("stage", string(stage)), zap.Stringer("key", key), zap.Error(err))
	return yield(entry, itemErr)
}
