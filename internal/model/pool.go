package model

import "math/big"

// Pool is a snapshot of a concentrated-liquidity pool's state.
type Pool struct {
	Address          string
	Name             string
	PoolType         string
	CoinTypeA        string
	CoinTypeB        string
	CoinAmountA      *big.Int
	CoinAmountB      *big.Int
	CurrentSqrtPrice *big.Int
	CurrentTickIndex int32
	Liquidity        *big.Int
	// FeeRate is expressed in parts per million.
	FeeRate          uint32
	TickSpacing      int32
	FeeGrowthGlobalA *big.Int
	FeeGrowthGlobalB *big.Int
	FeeProtocolCoinA *big.Int
	FeeProtocolCoinB *big.Int
	IsPause          bool
	// SqrtPriceBits is the fixed-point resolution of sqrt prices: 64 or 96.
	SqrtPriceBits uint
}

// CoinMeta captures coin or ERC20 token metadata.
type CoinMeta struct {
	CoinType string `json:"coin_type"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}
