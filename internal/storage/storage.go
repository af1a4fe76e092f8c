// Package storage defines the string key-value persistence the cart and the
// order history are written to.
package storage

import (
	"context"
	"strings"
)

// Well-known keys.
const (
	KeyCart   = "cart"
	KeyOrders = "orders"
)

// BaseKey strips any namespace from key, so "session:abc:cart" gives "cart".
func BaseKey(key string) string {
	return key[strings.LastIndexByte(key, ':')+1:]
}

// Store is a synchronous string key-value store. Get returns an
// apperrors.NotFound error when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Prefixed namespaces every key of an underlying store.
type Prefixed struct {
	store  Store
	prefix string
}

// WithPrefix returns a Store that reads and writes prefix+key on s.
func WithPrefix(s Store, prefix string) *Prefixed {
	return &Prefixed{store: s, prefix: prefix}
}

// Get reads prefix+key.
func (p *Prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.store.Get(ctx, p.prefix+key)
}

// Set writes prefix+key.
func (p *Prefixed) Set(ctx context.Context, key, value string) error {
	return p.store.Set(ctx, p.prefix+key, value)
}
