package domain

import (
	"context"
	"io"
	"time"
)

// CacheRepository defines the interface for the session store
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CartClient defines the interface for the storefront cart API
type CartClient interface {
	AddItems(ctx context.Context, req *AddToCartRequest) (*CartAddResponse, error)
}

// EventPublisher delivers cart events to external listeners
type EventPublisher interface {
	Publish(ctx context.Context, event CartEvent) error
}

// ProductDecoder turns an embedded snapshot into a validated Product
type ProductDecoder interface {
	DecodeProduct(raw []byte) (*Product, error)
}

// CardExtractor finds product cards in collection markup
type CardExtractor interface {
	ExtractCards(r io.Reader) ([]Card, error)
}
