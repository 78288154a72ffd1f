package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinGeckoUSDPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "sui", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sui":{"usd":3.1415926535}}`))
	}))
	defer srv.Close()

	oracle := NewCoinGecko(srv.URL, time.Second, nil)
	price, err := oracle.USDPrice(context.Background(), "SUI")
	require.NoError(t, err)
	assert.Equal(t, "3.1415926535", price.String())
}

func TestCoinGeckoMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewCoinGecko(srv.URL, time.Second, nil).USDPrice(context.Background(), "sui")
	assert.ErrorIs(t, err, ErrPriceNotFound)
}

func TestCoinGeckoDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewCoinGecko(srv.URL, time.Second, nil).USDPrice(context.Background(), "sui")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCoinGeckoRequiresID(t *testing.T) {
	_, err := NewCoinGecko("", time.Second, nil).USDPrice(context.Background(), " ")
	assert.Error(t, err)
}
