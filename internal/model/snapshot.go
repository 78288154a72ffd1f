package model

import "encoding/json"

// DepthSnapshot is the serialized per-pool depth and price impact report.
type DepthSnapshot struct {
	PoolName              string        `json:"poolName"`
	PoolAddress           string        `json:"poolAddress"`
	FeeTier               uint32        `json:"feeTier"`
	TickSpacing           int32         `json:"tickSpacing"`
	CurrentTickIndex      int32         `json:"currentTickIndex"`
	CurrentSqrtPrice      string        `json:"currentSqrtPrice"`
	CurrentPrice          string        `json:"currentPrice"`
	CoinTypeA             string        `json:"coinTypeA"`
	CoinTypeB             string        `json:"coinTypeB"`
	SymbolA               string        `json:"symbolA"`
	SymbolB               string        `json:"symbolB"`
	DecimalsA             uint8         `json:"decimalsA"`
	DecimalsB             uint8         `json:"decimalsB"`
	Liquidity             string        `json:"liquidity"`
	CoinAmountA           string        `json:"coinAmountA"`
	CoinAmountB           string        `json:"coinAmountB"`
	AccumulatedAmountA    string        `json:"accumulatedAmountA"`
	AccumulatedAmountB    string        `json:"accumulatedAmountB"`
	AccumulatedUSDAmountA string        `json:"accumulatedUsdAmountA"`
	AccumulatedUSDAmountB string        `json:"accumulatedUsdAmountB"`
	USDAmount             string        `json:"usdAmount"`
	NumeraireUSD          string        `json:"numeraireUsd"`
	CapturedAt            string        `json:"capturedAt"`
	PriceImpacts          []PriceImpact `json:"priceImpacts"`
	Ticks                 []TickRecord  `json:"ticks"`
}

// PriceImpact is the serialized threshold search result for both directions.
type PriceImpact struct {
	PriceImpact json.Number `json:"priceImpact"`
	A2B         *RateRecord `json:"a2b"`
	B2A         *RateRecord `json:"b2a"`
}

// RateRecord is a serialized RateResultExtended.
type RateRecord struct {
	EstimatedAmountIn     string `json:"estimatedAmountIn"`
	EstimatedAmountOut    string `json:"estimatedAmountOut"`
	EstimatedEndSqrtPrice string `json:"estimatedEndSqrtPrice"`
	EstimatedFeeAmount    string `json:"estimatedFeeAmount"`
	IsExceed              bool   `json:"isExceed"`
	Amount                string `json:"amount"`
	AToB                  bool   `json:"aToB"`
	ByAmountIn            bool   `json:"byAmountIn"`
	PriceImpactPct        string `json:"priceImpactPct"`
	SymbolIn              string `json:"symbolIn"`
	SymbolOut             string `json:"symbolOut"`
	DecimalsIn            uint8  `json:"decimalsIn"`
	DecimalsOut           uint8  `json:"decimalsOut"`
	USDAmountIn           string `json:"usdAmountIn"`
	USDAmountOut          string `json:"usdAmountOut"`
	EstimatedEndIndex     int32  `json:"estimatedEndIndex"`
	EstimatedEndPrice     string `json:"estimatedEndPrice"`
}

// TickRecord is a serialized ExtendedTick.
type TickRecord struct {
	Index                  int32    `json:"index"`
	SqrtPrice              string   `json:"sqrtPrice"`
	Price                  string   `json:"price"`
	RawLiquidityNet        string   `json:"rawLiquidityNet"`
	LiquidityNet           string   `json:"liquidityNet"`
	LiquidityGross         string   `json:"liquidityGross"`
	AmountA                string   `json:"amountA"`
	AmountB                string   `json:"amountB"`
	USDAmountA             string   `json:"usdAmountA"`
	USDAmountB             string   `json:"usdAmountB"`
	USDAmount              string   `json:"usdAmount"`
	AccumulatedLiquidity   string   `json:"accumulatedLiquidity"`
	AccumulatedAmountA     string   `json:"accumulatedAmountA"`
	AccumulatedAmountB     string   `json:"accumulatedAmountB"`
	AccumulatedUSDAmountA  string   `json:"accumulatedUsdAmountA"`
	AccumulatedUSDAmountB  string   `json:"accumulatedUsdAmountB"`
	AccumulatedUSDAmount   string   `json:"accumulatedUsdAmount"`
	FeeGrowthOutsideA      string   `json:"feeGrowthOutsideA"`
	FeeGrowthOutsideB      string   `json:"feeGrowthOutsideB"`
	RewardersGrowthOutside []string `json:"rewardersGrowthOutside"`
}

// PoolListEntry is a serialized pool summary for a coin pair listing.
type PoolListEntry struct {
	PoolAddress      string `json:"poolAddress"`
	PoolType         string `json:"poolType"`
	PoolName         string `json:"poolName"`
	PoolNameUnique   string `json:"poolNameUnique"`
	CoinTypeA        string `json:"coinTypeA"`
	CoinTypeB        string `json:"coinTypeB"`
	SymbolA          string `json:"symbolA"`
	SymbolB          string `json:"symbolB"`
	CoinAmountA      string `json:"coinAmountA"`
	CoinAmountB      string `json:"coinAmountB"`
	CurrentSqrtPrice string `json:"current_sqrt_price"`
	CurrentTickIndex int32  `json:"current_tick_index"`
	FeeGrowthGlobalA string `json:"fee_growth_global_a"`
	FeeGrowthGlobalB string `json:"fee_growth_global_b"`
	FeeProtocolCoinA string `json:"fee_protocol_coin_a"`
	FeeProtocolCoinB string `json:"fee_protocol_coin_b"`
	FeeRate          uint32 `json:"fee_rate"`
	IsPause          bool   `json:"is_pause"`
	Liquidity        string `json:"liquidity"`
	TickSpacing      int32  `json:"tickSpacing"`
	CurrentPrice     string `json:"currentPrice"`
	USDPoolAmount    string `json:"usdPoolAmount"`
}
