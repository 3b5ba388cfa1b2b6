// Package rpcloader fetches account data from a Solana JSON-RPC node.
package rpcloader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LeJamon/goPyth/internal/retry"
	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrAccountNotFound is returned when the node reports no such account.
var ErrAccountNotFound = errors.New("account not found")

// Config holds the connection and pacing settings of a Loader.
type Config struct {
	Endpoint   string
	Commitment string
	// Timeout bounds each request, not the whole retry loop.
	Timeout time.Duration
	// RPS is the steady request rate; 0 means unlimited.
	RPS   float64
	Burst int
	Retry retry.Config
}

type accountInfoClient interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
}

// Loader implements traverse.Loader over getAccountInfo. It is safe for
// concurrent use; all callers share one rate limiter.
type Loader struct {
	client     accountInfoClient
	closer     func() error
	commitment rpc.CommitmentType
	timeout    time.Duration
	limiter    *rate.Limiter
	retry      retry.Config
	logger     *zap.Logger
}

// New connects to cfg.Endpoint. A nil logger discards output.
func New(cfg Config, logger *zap.Logger) *Loader {
	client := rpc.New(cfg.Endpoint)
	l := newLoader(client, cfg, logger)
	l.closer = client.Close
	return l
}

func newLoader(client accountInfoClient, cfg Config, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), max(cfg.Burst, 1))
	}

	return &Loader{
		client:     client,
		closer:     func() error { return nil },
		commitment: rpc.CommitmentType(cfg.Commitment),
		timeout:    cfg.Timeout,
		limiter:    limiter,
		retry:      cfg.Retry,
		logger:     logger.With(zap.String("component", "rpcloader")),
	}
}

// Load returns the raw data of key. Transport failures are retried with
// backoff; a missing account is not.
func (l *Loader) Load(ctx context.Context, key account.Key) ([]byte, error) {
	var data []byte
	err := retry.WithBackoff(ctx, l.retry, l.logger, "getAccountInfo "+key.String(), func() error {
		var err error
		data, err = l.fetch(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, key account.Key) ([]byte, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, retry.Permanent(err)
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	out, err := l.client.GetAccountInfoWithOpts(ctx, solana.PublicKeyFromBytes(key[:]), &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: l.commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) || (err == nil && (out == nil || out.Value == nil)) {
		return nil, retry.Permanent(fmt.Errorf("%w: %s", ErrAccountNotFound, key))
	}
	if err != nil {
		return nil, err
	}
	if out.Value.Data == nil {
		return nil, retry.Permanent(fmt.Errorf("account %s: response carries no data", key))
	}

	data := out.Value.Data.GetBinary()
	l.logger.Debug("Fetched account",
		zap.Stringer("key", key),
		zap.Int("bytes", len(data)),
		zap.Uint64("slot", out.Context.Slot))
	return data, nil
}

func (l *Loader) Close() error {
	return l.closer()
}
