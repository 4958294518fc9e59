package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finman/internal/errors"
	"finman/internal/metals"
)

func TestMetalsService_Latest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","metals":{"gold":2411.30,"silver":31.25,"platinum":988.10,"palladium":940.00}}`))
	}))
	defer srv.Close()

	svc := NewMetalsService(metals.NewClient(srv.URL, srv.Client()), nil)

	prices, err := svc.Latest(context.Background())
	require.NoError(t, err)
	// Only the tracked metals come back, in request order.
	require.Len(t, prices, 3)
	assert.Equal(t, "gold", prices[0].Metal)
	assert.True(t, prices[0].Price.Equal(decimal.RequireFromString("2411.30")))
	assert.Equal(t, "silver", prices[1].Metal)
	assert.Equal(t, "platinum", prices[2].Metal)
}

func TestMetalsService_UpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewMetalsService(metals.NewClient(srv.URL, srv.Client()), nil)

	_, err := svc.Latest(context.Background())
	assert.ErrorIs(t, err, errors.ErrUpstream)
}
