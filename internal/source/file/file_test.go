package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const fixtureJSON = `{
  "pool": {
    "address": "0xpool",
    "coinTypeA": "0x2::sui::SUI",
    "coinTypeB": "0x5::usdc::USDC",
    "coinAmountA": "1000",
    "coinAmountB": 2000,
    "currentSqrtPrice": "18446744073709551616",
    "currentTickIndex": 0,
    "liquidity": "1000000000000",
    "feeRate": 2500,
    "tickSpacing": 60
  },
  "ticks": [
    {"index": -60, "sqrtPrice": "18391489138086808590", "liquidityNet": "5", "liquidityGross": "5", "rewardersGrowthOutside": ["1"]},
    {"index": 60, "sqrtPrice": 18502164862064767720, "liquidityNet": "340282366920938463463374607431768211451", "liquidityGross": "5"}
  ],
  "coins": [
    {"coin_type": "0x2::sui::SUI", "symbol": "SUI", "name": "Sui", "decimals": 9},
    {"coin_type": "0x5::usdc::USDC", "symbol": "USDC", "name": "USD Coin", "decimals": 6}
  ]
}`

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.json")
	if err := os.WriteFile(path, []byte(fixtureJSON), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()

	pool, err := src.FetchPool(ctx, "0xPOOL")
	if err != nil {
		t.Fatalf("fetch pool: %v", err)
	}
	if pool.CoinAmountB.String() != "2000" || pool.SqrtPriceBits != 64 || pool.FeeRate != 2500 {
		t.Fatalf("unexpected pool %+v", pool)
	}

	ticks, err := src.FetchTicks(ctx, pool)
	if err != nil {
		t.Fatalf("fetch ticks: %v", err)
	}
	if len(ticks) != 2 || ticks[1].SqrtPrice.String() != "18502164862064767720" {
		t.Fatalf("unexpected ticks %+v", ticks)
	}
	ticks[0].LiquidityNet.SetInt64(99)
	again, _ := src.FetchTicks(ctx, pool)
	if again[0].LiquidityNet.String() != "5" {
		t.Fatalf("FetchTicks must return copies")
	}

	meta, err := src.FetchCoinMeta(ctx, "0x5::usdc::USDC")
	if err != nil || meta.Decimals != 6 {
		t.Fatalf("unexpected coin meta %+v, %v", meta, err)
	}
	if _, err := src.FetchCoinMeta(ctx, "0x9::x::X"); err == nil {
		t.Fatalf("expected error for unknown coin")
	}

	pools, err := src.FindPools(ctx, "0x5::usdc::USDC", "0x2::sui::SUI")
	if err != nil || len(pools) != 1 {
		t.Fatalf("expected fixture pool for reversed pair, got %d, %v", len(pools), err)
	}
}

func TestParseRejectsMissingSqrtPrice(t *testing.T) {
	if _, err := Parse([]byte(`{"pool":{"address":"0x1"}}`)); err == nil {
		t.Fatalf("expected error for missing pool sqrt price")
	}
	if _, err := Parse([]byte(`{"pool":{"address":"0x1","currentSqrtPrice":"1"},"ticks":[{"index":1}]}`)); err == nil {
		t.Fatalf("expected error for missing tick sqrt price")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
