package model

import (
	"encoding/json"
	"testing"
)

func TestDepthSnapshotJSONFieldNames(t *testing.T) {
	snap := DepthSnapshot{
		PoolAddress:      "0xabc",
		CurrentSqrtPrice: "18446744073709551616",
		PriceImpacts: []PriceImpact{
			{PriceImpact: json.Number("0.5"), A2B: &RateRecord{Amount: "1000"}},
		},
		Ticks: []TickRecord{{Index: -2, LiquidityNet: "-10", RewardersGrowthOutside: []string{}}},
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if _, ok := decoded["currentSqrtPrice"].(string); !ok {
		t.Fatalf("currentSqrtPrice should be string")
	}
	impacts, ok := decoded["priceImpacts"].([]interface{})
	if !ok || len(impacts) != 1 {
		t.Fatalf("priceImpacts missing: %v", decoded["priceImpacts"])
	}
	entry := impacts[0].(map[string]interface{})
	if v, ok := entry["priceImpact"].(float64); !ok || v != 0.5 {
		t.Fatalf("priceImpact should be a number, got %v", entry["priceImpact"])
	}
	if entry["b2a"] != nil {
		t.Fatalf("missing direction should be null, got %v", entry["b2a"])
	}
	ticks := decoded["ticks"].([]interface{})
	tick := ticks[0].(map[string]interface{})
	if tick["liquidityNet"] != "-10" {
		t.Fatalf("liquidityNet mismatch: %v", tick["liquidityNet"])
	}
}

func TestPoolListEntryKeepsSnakeCaseStateKeys(t *testing.T) {
	data, err := json.Marshal(PoolListEntry{CurrentSqrtPrice: "1", FeeRate: 2500})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["current_sqrt_price"] != "1" {
		t.Fatalf("current_sqrt_price missing: %v", decoded)
	}
	if decoded["fee_rate"] != float64(2500) {
		t.Fatalf("fee_rate mismatch: %v", decoded["fee_rate"])
	}
}
