package service

import (
	"context"
	"log"
	"time"

	"finman/internal/cache"
	"finman/internal/errors"
	"finman/internal/metals"
)

const (
	metalsCacheTTL = 10 * time.Minute
	metalsCacheKey = "metals:latest"
)

// trackedMetals are the spot prices the app surfaces.
var trackedMetals = []string{"gold", "silver", "platinum"}

// MetalsService serves spot prices through a short-lived cache. A warm cache
// absorbs upstream outages; a cold one maps them to ErrUpstream.
type MetalsService interface {
	Latest(ctx context.Context) ([]metals.Price, error)
}

type metalsService struct {
	client *metals.Client
	cache  *cache.Client
}

// NewMetalsService creates a new metals price service.
func NewMetalsService(client *metals.Client, cache *cache.Client) MetalsService {
	return &metalsService{client: client, cache: cache}
}

func (s *metalsService) Latest(ctx context.Context) ([]metals.Price, error) {
	var cached []metals.Price
	if s.cache.GetJSON(ctx, metalsCacheKey, &cached) {
		return cached, nil
	}

	prices, err := s.client.Latest(ctx, trackedMetals)
	if err != nil {
		log.Printf("metals feed: %v", err)
		return nil, errors.ErrUpstream
	}

	s.cache.SetJSON(ctx, metalsCacheKey, prices, metalsCacheTTL)
	return prices, nil
}
