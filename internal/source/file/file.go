package file

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"depthScope/internal/model"
)

// fixture is the on-disk layout. Integers may be JSON numbers or strings.
type fixture struct {
	Pool  poolRecord       `json:"pool"`
	Ticks []tickRecord     `json:"ticks"`
	Coins []model.CoinMeta `json:"coins"`
	Pools []poolRecord     `json:"pools"`
}

type poolRecord struct {
	Address          string       `json:"address"`
	Name             string       `json:"name"`
	PoolType         string       `json:"poolType"`
	CoinTypeA        string       `json:"coinTypeA"`
	CoinTypeB        string       `json:"coinTypeB"`
	CoinAmountA      model.BigInt `json:"coinAmountA"`
	CoinAmountB      model.BigInt `json:"coinAmountB"`
	CurrentSqrtPrice model.BigInt `json:"currentSqrtPrice"`
	CurrentTickIndex int32        `json:"currentTickIndex"`
	Liquidity        model.BigInt `json:"liquidity"`
	FeeRate          uint32       `json:"feeRate"`
	TickSpacing      int32        `json:"tickSpacing"`
	FeeGrowthGlobalA model.BigInt `json:"feeGrowthGlobalA"`
	FeeGrowthGlobalB model.BigInt `json:"feeGrowthGlobalB"`
	FeeProtocolCoinA model.BigInt `json:"feeProtocolCoinA"`
	FeeProtocolCoinB model.BigInt `json:"feeProtocolCoinB"`
	IsPause          bool         `json:"isPause"`
	SqrtPriceBits    uint         `json:"sqrtPriceBits"`
}

type tickRecord struct {
	Index                  int32          `json:"index"`
	SqrtPrice              model.BigInt   `json:"sqrtPrice"`
	LiquidityNet           model.BigInt   `json:"liquidityNet"`
	LiquidityGross         model.BigInt   `json:"liquidityGross"`
	FeeGrowthOutsideA      model.BigInt   `json:"feeGrowthOutsideA"`
	FeeGrowthOutsideB      model.BigInt   `json:"feeGrowthOutsideB"`
	RewardersGrowthOutside []model.BigInt `json:"rewardersGrowthOutside"`
}

// Source serves a pool, its ticks and coin metadata from a fixture file.
type Source struct {
	pool  model.Pool
	ticks []model.Tick
	coins map[string]model.CoinMeta
	pools []model.Pool
}

// Load reads a fixture file.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes fixture JSON.
func Parse(data []byte) (*Source, error) {
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if fx.Pool.CurrentSqrtPrice.Int == nil {
		return nil, fmt.Errorf("fixture pool %q: currentSqrtPrice is required", fx.Pool.Address)
	}

	src := &Source{
		pool:  fx.Pool.toPool(),
		coins: make(map[string]model.CoinMeta, len(fx.Coins)),
	}
	for i, t := range fx.Ticks {
		if t.SqrtPrice.Int == nil {
			return nil, fmt.Errorf("fixture tick %d: sqrtPrice is required", i)
		}
		src.ticks = append(src.ticks, t.toTick())
	}
	for _, c := range fx.Coins {
		src.coins[c.CoinType] = c
	}
	for _, p := range fx.Pools {
		src.pools = append(src.pools, p.toPool())
	}
	return src, nil
}

func (p poolRecord) toPool() model.Pool {
	bits := p.SqrtPriceBits
	if bits == 0 {
		bits = 64
	}
	return model.Pool{
		Address:          p.Address,
		Name:             p.Name,
		PoolType:         p.PoolType,
		CoinTypeA:        p.CoinTypeA,
		CoinTypeB:        p.CoinTypeB,
		CoinAmountA:      p.CoinAmountA.Value(),
		CoinAmountB:      p.CoinAmountB.Value(),
		CurrentSqrtPrice: p.CurrentSqrtPrice.OrNil(),
		CurrentTickIndex: p.CurrentTickIndex,
		Liquidity:        p.Liquidity.Value(),
		FeeRate:          p.FeeRate,
		TickSpacing:      p.TickSpacing,
		FeeGrowthGlobalA: p.FeeGrowthGlobalA.Value(),
		FeeGrowthGlobalB: p.FeeGrowthGlobalB.Value(),
		FeeProtocolCoinA: p.FeeProtocolCoinA.Value(),
		FeeProtocolCoinB: p.FeeProtocolCoinB.Value(),
		IsPause:          p.IsPause,
		SqrtPriceBits:    bits,
	}
}

func (t tickRecord) toTick() model.Tick {
	rewards := make([]*big.Int, 0, len(t.RewardersGrowthOutside))
	for _, r := range t.RewardersGrowthOutside {
		rewards = append(rewards, r.Value())
	}
	return model.Tick{
		Index:                  t.Index,
		SqrtPrice:              t.SqrtPrice.OrNil(),
		LiquidityNet:           t.LiquidityNet.Value(),
		LiquidityGross:         t.LiquidityGross.Value(),
		FeeGrowthOutsideA:      t.FeeGrowthOutsideA.Value(),
		FeeGrowthOutsideB:      t.FeeGrowthOutsideB.Value(),
		RewardersGrowthOutside: rewards,
	}
}

// Close is a no-op.
func (s *Source) Close() {}

// FetchPool returns the fixture pool, or a listed pool with that address.
// An empty address selects the fixture pool.
func (s *Source) FetchPool(_ context.Context, address string) (model.Pool, error) {
	if address == "" || strings.EqualFold(address, s.pool.Address) {
		return s.pool, nil
	}
	for _, p := range s.pools {
		if strings.EqualFold(address, p.Address) {
			return p, nil
		}
	}
	return model.Pool{}, fmt.Errorf("pool %s not in fixture", address)
}

// FetchTicks returns copies of the fixture ticks. Only the fixture pool has ticks.
func (s *Source) FetchTicks(_ context.Context, pool model.Pool) ([]model.Tick, error) {
	if pool.Address != "" && !strings.EqualFold(pool.Address, s.pool.Address) {
		return nil, nil
	}
	out := make([]model.Tick, len(s.ticks))
	for i, t := range s.ticks {
		out[i] = t.Clone()
	}
	return out, nil
}

// FetchCoinMeta returns fixture coin metadata.
func (s *Source) FetchCoinMeta(_ context.Context, coinType string) (model.CoinMeta, error) {
	meta, ok := s.coins[coinType]
	if !ok {
		return model.CoinMeta{}, fmt.Errorf("coin %s not in fixture", coinType)
	}
	return meta, nil
}

// FindPools returns the fixture pools trading the pair in either order.
func (s *Source) FindPools(_ context.Context, coinA, coinB string) ([]model.Pool, error) {
	candidates := s.pools
	if len(candidates) == 0 {
		candidates = []model.Pool{s.pool}
	}
	var out []model.Pool
	for _, p := range candidates {
		if (p.CoinTypeA == coinA && p.CoinTypeB == coinB) || (p.CoinTypeA == coinB && p.CoinTypeB == coinA) {
			out = append(out, p)
		}
	}
	return out, nil
}
