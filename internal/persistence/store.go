package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bistrohub/ordering/internal/cart"
	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"github.com/bistrohub/ordering/pkg/logger"
	"github.com/bistrohub/ordering/pkg/redis"
)

const (
	DefaultCartTTL     = 12 * time.Hour
	DefaultTrackingTTL = 30 * 24 * time.Hour
)

// KV is the key-value surface the store needs. *redis.Client satisfies it.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
	TrackingKey(sessionID string) string
}

// TrackingHandle locates the last submitted order for the tracking surface.
type TrackingHandle struct {
	OrderID                  int64  `json:"orderId"`
	CustomerPhone            string `json:"customerPhone"`
	DiscountPercentageEarned int    `json:"discountPercentageEarned"`
}

// Store persists one session's cart and tracking handle.
type Store interface {
	SaveCart(ctx context.Context, c *cart.Cart) error
	LoadCart(ctx context.Context) (*cart.Cart, error)
	ClearCart(ctx context.Context) error
	SaveTrackingHandle(ctx context.Context, h TrackingHandle) error
	LoadTrackingHandle(ctx context.Context) (*TrackingHandle, error)
	ClearTrackingHandle(ctx context.Context) error
}

// Options sets the lifetimes of the two storage tiers. Zero values fall back
// to the defaults.
type Options struct {
	CartTTL     time.Duration
	TrackingTTL time.Duration
}

type kvStore struct {
	kv          KV
	sessionID   string
	cartTTL     time.Duration
	trackingTTL time.Duration
	logg        *logger.Logger
}

// New returns a Store scoped to sessionID. logg may be nil.
func New(kv KV, sessionID string, opts Options, logg *logger.Logger) (Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id required")
	}
	if opts.CartTTL <= 0 {
		opts.CartTTL = DefaultCartTTL
	}
	if opts.TrackingTTL <= 0 {
		opts.TrackingTTL = DefaultTrackingTTL
	}
	return &kvStore{
		kv:          kv,
		sessionID:   sessionID,
		cartTTL:     opts.CartTTL,
		trackingTTL: opts.TrackingTTL,
		logg:        logg,
	}, nil
}

func (s *kvStore) SaveCart(ctx context.Context, c *cart.Cart) error {
	if c == nil {
		return s.ClearCart(ctx)
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(s.sessionID), string(payload), s.cartTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// LoadCart returns nil when nothing usable is saved.
func (s *kvStore) LoadCart(ctx context.Context) (*cart.Cart, error) {
	key := s.kv.CartKey(s.sessionID)
	raw, ok, err := s.read(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var c cart.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.corrupt(ctx, key, err)
		return nil, nil
	}
	return &c, nil
}

func (s *kvStore) ClearCart(ctx context.Context) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(s.sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *kvStore) SaveTrackingHandle(ctx context.Context, h TrackingHandle) error {
	payload, err := json.Marshal(h)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode tracking handle")
	}
	if err := s.kv.Set(ctx, s.kv.TrackingKey(s.sessionID), string(payload), s.trackingTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save tracking handle")
	}
	return nil
}

// LoadTrackingHandle returns nil when nothing usable is saved.
func (s *kvStore) LoadTrackingHandle(ctx context.Context) (*TrackingHandle, error) {
	key := s.kv.TrackingKey(s.sessionID)
	raw, ok, err := s.read(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var h TrackingHandle
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		s.corrupt(ctx, key, err)
		return nil, nil
	}
	if h.OrderID <= 0 {
		s.corrupt(ctx, key, fmt.Errorf("invalid order id %d", h.OrderID))
		return nil, nil
	}
	return &h, nil
}

func (s *kvStore) ClearTrackingHandle(ctx context.Context) error {
	if err := s.kv.Del(ctx, s.kv.TrackingKey(s.sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear tracking handle")
	}
	return nil
}

// read maps a missing key to ok=false. Other read failures are reported as
// dependency errors.
func (s *kvStore) read(ctx context.Context, key string) (string, bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if redis.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read "+key)
	}
	if strings.TrimSpace(raw) == "" {
		return "", false, nil
	}
	return raw, true, nil
}

func (s *kvStore) corrupt(ctx context.Context, key string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"key":   key,
		"error": err.Error(),
	}), "discarding malformed persisted value")
}
