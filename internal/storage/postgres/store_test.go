package postgres

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"depthScope/internal/model"
)

func TestImpactRowsSkipsMissingDirections(t *testing.T) {
	snap := model.DepthSnapshot{
		PriceImpacts: []model.PriceImpact{
			{PriceImpact: json.Number("0.5"), A2B: &model.RateRecord{Amount: "1"}, B2A: &model.RateRecord{Amount: "2"}},
			{PriceImpact: json.Number("2"), A2B: &model.RateRecord{Amount: "3"}},
			{PriceImpact: json.Number("50")},
		},
	}
	rows := impactRows(snap)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1].direction != "b2a" || rows[1].rate.Amount != "2" {
		t.Fatalf("unexpected row %+v", rows[1])
	}
	if rows[2].targetPct != "2" || rows[2].direction != "a2b" {
		t.Fatalf("unexpected row %+v", rows[2])
	}
}

func TestImpactArgsCarryFullRateResult(t *testing.T) {
	row := impactRow{
		targetPct: "2",
		direction: "a2b",
		rate: &model.RateRecord{
			Amount: "1000", EstimatedAmountIn: "1003", EstimatedAmountOut: "990",
			EstimatedFeeAmount: "3", PriceImpactPct: "2.01", USDAmountIn: "5", USDAmountOut: "4.9",
			EstimatedEndIndex: -200, EstimatedEndPrice: "0.98", IsExceed: true,
		},
	}
	args := impactArgs(7, row)
	if strings.Count(insertImpactSQL, "$") != len(args) {
		t.Fatalf("placeholder count does not match %d args", len(args))
	}
	if args[4] != "1003" {
		t.Fatalf("expected amount_in 1003, got %v", args[4])
	}
	if args[11] != "0.98" {
		t.Fatalf("expected end_price 0.98, got %v", args[11])
	}

	row.rate.EstimatedEndPrice = ""
	if args := impactArgs(7, row); args[11] != nil {
		t.Fatalf("expected NULL end_price, got %v", args[11])
	}
	for _, col := range []string{"amount_in NUMERIC", "end_price NUMERIC"} {
		if !strings.Contains(schemaSQL, "ADD COLUMN IF NOT EXISTS "+col) {
			t.Fatalf("schema does not migrate %s", col)
		}
	}
}

func TestSchemaDefinesTables(t *testing.T) {
	for _, table := range []string{"pools", "depth_snapshots", "price_impacts"} {
		if !strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("schema is missing table %s", table)
		}
	}
}

func TestNewStoreRequiresDSN(t *testing.T) {
	if _, err := NewStore(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

// TestStoreRoundTrip runs against a live database when DEPTHSCOPE_TEST_PG_DSN is set.
func TestStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("DEPTHSCOPE_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("DEPTHSCOPE_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	store, err := NewStore(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}

	entry := model.PoolListEntry{
		PoolAddress: "0xtestpool", CoinTypeA: "0x2::sui::SUI", CoinTypeB: "0x5::usdc::USDC",
		SymbolA: "SUI", SymbolB: "USDC", FeeRate: 2500, TickSpacing: 60,
		Liquidity: "1000", CurrentPrice: "1.5", USDPoolAmount: "10",
	}
	if err := store.PutPoolList(ctx, "SUI", "USDC", []model.PoolListEntry{entry}); err != nil {
		t.Fatalf("put pool list: %v", err)
	}

	snap := model.DepthSnapshot{
		PoolAddress: "0xtestpool", PoolName: "SUI-USDC[60]", CoinTypeA: entry.CoinTypeA, CoinTypeB: entry.CoinTypeB,
		SymbolA: "SUI", SymbolB: "USDC", FeeTier: 2500, TickSpacing: 60,
		CurrentSqrtPrice: "18446744073709551616", CurrentPrice: "1", Liquidity: "1000",
		AccumulatedUSDAmountA: "1", AccumulatedUSDAmountB: "2", USDAmount: "3", NumeraireUSD: "2",
		CapturedAt: "2025-01-01T00:00:00Z",
		PriceImpacts: []model.PriceImpact{{
			PriceImpact: json.Number("0.5"),
			A2B: &model.RateRecord{Amount: "1", EstimatedAmountIn: "1", EstimatedAmountOut: "1", EstimatedFeeAmount: "0",
				PriceImpactPct: "0.5", USDAmountIn: "1", USDAmountOut: "1"},
		}},
	}
	if err := store.PutDepthSnapshot(ctx, snap); err != nil {
		t.Fatalf("put snapshot: %v", err)
	}

	var count int
	if err := store.pool.QueryRow(ctx, `SELECT count(*) FROM price_impacts pi JOIN depth_snapshots ds ON ds.id = pi.snapshot_id WHERE ds.pool_address = $1`, "0xtestpool").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count < 1 {
		t.Fatalf("expected stored price impacts")
	}

	var amountIn string
	if err := store.pool.QueryRow(ctx, `SELECT pi.amount_in::text FROM price_impacts pi JOIN depth_snapshots ds ON ds.id = pi.snapshot_id WHERE ds.pool_address = $1 ORDER BY ds.id DESC LIMIT 1`, "0xtestpool").Scan(&amountIn); err != nil {
		t.Fatalf("amount in: %v", err)
	}
	if amountIn != "1" {
		t.Fatalf("expected amount_in 1, got %s", amountIn)
	}
}
