package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"depthScope/internal/chain"
	"depthScope/internal/clmm"
	"depthScope/internal/model"
)

// DefaultFeeTiers are the V3 fee tiers probed by FindPools.
var DefaultFeeTiers = []uint32{100, 500, 3000, 10000}

const poolTypeV3 = "UniswapV3Pool"

// Caller is the contract-call surface of the chain client.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BatchCallContract(ctx context.Context, calls []chain.ContractCall) ([][]byte, error)
	Close()
}

// Source reads V3 pools over EVM JSON-RPC.
type Source struct {
	client   Caller
	factory  common.Address
	feeTiers []uint32
	logger   *zap.Logger
}

// New creates a V3 reader. A zero factory disables FindPools.
func New(client Caller, factory common.Address, feeTiers []uint32, logger *zap.Logger) *Source {
	if len(feeTiers) == 0 {
		feeTiers = DefaultFeeTiers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{client: client, factory: factory, feeTiers: feeTiers, logger: logger}
}

// Close closes the RPC connection.
func (s *Source) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *Source) call(ctx context.Context, target common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &target, Data: data}
	resp, err := s.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

// FetchPool loads pool state at the latest block.
func (s *Source) FetchPool(ctx context.Context, address string) (model.Pool, error) {
	if !common.IsHexAddress(address) {
		return model.Pool{}, fmt.Errorf("invalid pool address %q", address)
	}
	pool := common.HexToAddress(address)

	parsed, err := PoolABI()
	if err != nil {
		return model.Pool{}, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := s.call(ctx, pool, parsed, "token0")
	if err != nil {
		return model.Pool{}, err
	}
	token0, err := asAddress(values[0])
	if err != nil {
		return model.Pool{}, fmt.Errorf("token0: %w", err)
	}

	values, err = s.call(ctx, pool, parsed, "token1")
	if err != nil {
		return model.Pool{}, err
	}
	token1, err := asAddress(values[0])
	if err != nil {
		return model.Pool{}, fmt.Errorf("token1: %w", err)
	}

	values, err = s.call(ctx, pool, parsed, "fee")
	if err != nil {
		return model.Pool{}, err
	}
	fee, err := firstBigInt(values, "fee")
	if err != nil {
		return model.Pool{}, err
	}

	values, err = s.call(ctx, pool, parsed, "tickSpacing")
	if err != nil {
		return model.Pool{}, err
	}
	spacingInt, err := firstBigInt(values, "tick spacing")
	if err != nil {
		return model.Pool{}, err
	}
	spacing, err := int24FromBig(spacingInt)
	if err != nil {
		return model.Pool{}, fmt.Errorf("tick spacing: %w", err)
	}

	values, err = s.call(ctx, pool, parsed, "liquidity")
	if err != nil {
		return model.Pool{}, err
	}
	liquidity, err := firstBigInt(values, "liquidity")
	if err != nil {
		return model.Pool{}, err
	}

	values, err = s.call(ctx, pool, parsed, "slot0")
	if err != nil {
		return model.Pool{}, err
	}
	if len(values) < 2 {
		return model.Pool{}, fmt.Errorf("slot0 return size %d", len(values))
	}
	sqrtPrice, err := asBigInt(values[0])
	if err != nil {
		return model.Pool{}, fmt.Errorf("slot0 sqrt price: %w", err)
	}
	tickInt, err := asBigInt(values[1])
	if err != nil {
		return model.Pool{}, fmt.Errorf("slot0 tick: %w", err)
	}
	tick, err := int24FromBig(tickInt)
	if err != nil {
		return model.Pool{}, fmt.Errorf("slot0 tick: %w", err)
	}

	balances, err := s.balances(ctx, pool, token0, token1)
	if err != nil {
		return model.Pool{}, err
	}

	out := model.Pool{
		Address:          pool.Hex(),
		PoolType:         poolTypeV3,
		CoinTypeA:        token0.Hex(),
		CoinTypeB:        token1.Hex(),
		CoinAmountA:      balances[0],
		CoinAmountB:      balances[1],
		CurrentSqrtPrice: sqrtPrice,
		CurrentTickIndex: tick,
		Liquidity:        liquidity,
		FeeRate:          uint32(fee.Uint64()),
		TickSpacing:      spacing,
		FeeGrowthGlobalA: new(big.Int),
		FeeGrowthGlobalB: new(big.Int),
		FeeProtocolCoinA: new(big.Int),
		FeeProtocolCoinB: new(big.Int),
		SqrtPriceBits:    clmm.X96.Resolution,
	}
	s.fillOptional(ctx, pool, parsed, &out)
	return out, nil
}

// fillOptional reads fee accounting fields that forks do not always expose.
func (s *Source) fillOptional(ctx context.Context, pool common.Address, parsed abi.ABI, out *model.Pool) {
	if values, err := s.call(ctx, pool, parsed, "feeGrowthGlobal0X128"); err == nil {
		if v, err := firstBigInt(values, "feeGrowthGlobal0X128"); err == nil {
			out.FeeGrowthGlobalA = v
		}
	} else {
		s.logger.Debug("feeGrowthGlobal0X128 call failed", zap.String("pool", pool.Hex()), zap.Error(err))
	}
	if values, err := s.call(ctx, pool, parsed, "feeGrowthGlobal1X128"); err == nil {
		if v, err := firstBigInt(values, "feeGrowthGlobal1X128"); err == nil {
			out.FeeGrowthGlobalB = v
		}
	} else {
		s.logger.Debug("feeGrowthGlobal1X128 call failed", zap.String("pool", pool.Hex()), zap.Error(err))
	}
	if values, err := s.call(ctx, pool, parsed, "protocolFees"); err == nil && len(values) == 2 {
		if v, err := asBigInt(values[0]); err == nil {
			out.FeeProtocolCoinA = v
		}
		if v, err := asBigInt(values[1]); err == nil {
			out.FeeProtocolCoinB = v
		}
	} else if err != nil {
		s.logger.Debug("protocolFees call failed", zap.String("pool", pool.Hex()), zap.Error(err))
	}
}

func (s *Source) balances(ctx context.Context, owner common.Address, tokens ...common.Address) ([]*big.Int, error) {
	parsed, err := ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	data, err := parsed.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}

	calls := make([]chain.ContractCall, 0, len(tokens))
	for _, token := range tokens {
		calls = append(calls, chain.ContractCall{To: token, Data: data})
	}
	results, err := s.client.BatchCallContract(ctx, calls)
	if err != nil {
		return nil, err
	}

	out := make([]*big.Int, 0, len(results))
	for i, resp := range results {
		values, err := parsed.Unpack("balanceOf", resp)
		if err != nil {
			return nil, fmt.Errorf("unpack balanceOf %s: %w", tokens[i].Hex(), err)
		}
		bal, err := firstBigInt(values, "balanceOf")
		if err != nil {
			return nil, err
		}
		out = append(out, bal)
	}
	return out, nil
}

// FetchTicks scans the tick bitmap and loads every initialized tick.
func (s *Source) FetchTicks(ctx context.Context, pool model.Pool) ([]model.Tick, error) {
	if !common.IsHexAddress(pool.Address) {
		return nil, fmt.Errorf("invalid pool address %q", pool.Address)
	}
	target := common.HexToAddress(pool.Address)

	parsed, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	indexes, err := s.initializedTicks(ctx, target, parsed, pool.TickSpacing)
	if err != nil {
		return nil, err
	}
	if len(indexes) == 0 {
		return nil, nil
	}

	calls := make([]chain.ContractCall, 0, len(indexes))
	for _, idx := range indexes {
		data, err := parsed.Pack("ticks", big.NewInt(int64(idx)))
		if err != nil {
			return nil, fmt.Errorf("pack ticks: %w", err)
		}
		calls = append(calls, chain.ContractCall{To: target, Data: data})
	}
	results, err := s.client.BatchCallContract(ctx, calls)
	if err != nil {
		return nil, err
	}

	ticks := make([]model.Tick, 0, len(indexes))
	for i, resp := range results {
		values, err := parsed.Unpack("ticks", resp)
		if err != nil {
			return nil, fmt.Errorf("unpack tick %d: %w", indexes[i], err)
		}
		if len(values) < 4 {
			return nil, fmt.Errorf("tick %d return size %d", indexes[i], len(values))
		}
		gross, err := asBigInt(values[0])
		if err != nil {
			return nil, fmt.Errorf("tick %d gross: %w", indexes[i], err)
		}
		net, err := asBigInt(values[1])
		if err != nil {
			return nil, fmt.Errorf("tick %d net: %w", indexes[i], err)
		}
		outside0, err := asBigInt(values[2])
		if err != nil {
			return nil, fmt.Errorf("tick %d fee growth: %w", indexes[i], err)
		}
		outside1, err := asBigInt(values[3])
		if err != nil {
			return nil, fmt.Errorf("tick %d fee growth: %w", indexes[i], err)
		}
		sqrtPrice, err := clmm.X96.SqrtPriceAtTick(indexes[i])
		if err != nil {
			return nil, fmt.Errorf("tick %d: %w", indexes[i], err)
		}

		ticks = append(ticks, model.Tick{
			Index:                  indexes[i],
			SqrtPrice:              sqrtPrice,
			LiquidityNet:           clmm.UnsignedLiquidityNet(net),
			LiquidityGross:         gross,
			FeeGrowthOutsideA:      outside0,
			FeeGrowthOutsideB:      outside1,
			RewardersGrowthOutside: []*big.Int{},
		})
	}

	s.logger.Debug("fetched ticks", zap.String("pool", pool.Address), zap.Int("count", len(ticks)))
	return ticks, nil
}

func (s *Source) initializedTicks(ctx context.Context, pool common.Address, parsed abi.ABI, spacing int32) ([]int32, error) {
	minWord, maxWord, err := wordRange(spacing)
	if err != nil {
		return nil, err
	}

	words := make([]int16, 0, int(maxWord)-int(minWord)+1)
	calls := make([]chain.ContractCall, 0, cap(words))
	for w := int(minWord); w <= int(maxWord); w++ {
		data, err := parsed.Pack("tickBitmap", int16(w))
		if err != nil {
			return nil, fmt.Errorf("pack tickBitmap: %w", err)
		}
		words = append(words, int16(w))
		calls = append(calls, chain.ContractCall{To: pool, Data: data})
	}

	results, err := s.client.BatchCallContract(ctx, calls)
	if err != nil {
		return nil, err
	}

	var indexes []int32
	for i, resp := range results {
		values, err := parsed.Unpack("tickBitmap", resp)
		if err != nil {
			return nil, fmt.Errorf("unpack tickBitmap %d: %w", words[i], err)
		}
		bitmap, err := firstBigInt(values, "tickBitmap")
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, ticksFromBitmap(words[i], bitmap, spacing)...)
	}
	return indexes, nil
}

// FetchCoinMeta loads ERC20 metadata. Symbol and name fall back to the
// bytes32 encoding used by older tokens.
func (s *Source) FetchCoinMeta(ctx context.Context, coinType string) (model.CoinMeta, error) {
	if !common.IsHexAddress(coinType) {
		return model.CoinMeta{}, fmt.Errorf("invalid token address %q", coinType)
	}
	token := common.HexToAddress(coinType)
	meta := model.CoinMeta{CoinType: token.Hex()}

	stringABI, err := erc20StringABI.get()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20Bytes32ABI.get()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	values, err := s.call(ctx, token, stringABI, "decimals")
	if err != nil {
		return meta, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return meta, err
	}
	meta.Decimals = decimals

	meta.Symbol = s.textField(ctx, token, stringABI, bytes32ABI, "symbol")
	meta.Name = s.textField(ctx, token, stringABI, bytes32ABI, "name")
	return meta, nil
}

func (s *Source) textField(ctx context.Context, token common.Address, stringABI, bytes32ABI abi.ABI, method string) string {
	if values, err := s.call(ctx, token, stringABI, method); err == nil {
		if v, ok := values[0].(string); ok {
			return v
		}
	}
	values, err := s.call(ctx, token, bytes32ABI, method)
	if err != nil {
		s.logger.Debug(method+" call failed", zap.String("token", token.Hex()), zap.Error(err))
		return ""
	}
	v, _ := bytes32ToString(values[0])
	return v
}

// FindPools asks the factory for the pair's pool in every configured fee tier.
func (s *Source) FindPools(ctx context.Context, coinA, coinB string) ([]model.Pool, error) {
	if s.factory == (common.Address{}) {
		return nil, fmt.Errorf("factory address is required")
	}
	if !common.IsHexAddress(coinA) || !common.IsHexAddress(coinB) {
		return nil, fmt.Errorf("invalid token pair %q/%q", coinA, coinB)
	}
	tokenA, tokenB := common.HexToAddress(coinA), common.HexToAddress(coinB)

	parsed, err := FactoryABI()
	if err != nil {
		return nil, fmt.Errorf("parse factory abi: %w", err)
	}

	calls := make([]chain.ContractCall, 0, len(s.feeTiers))
	for _, tier := range s.feeTiers {
		data, err := parsed.Pack("getPool", tokenA, tokenB, new(big.Int).SetUint64(uint64(tier)))
		if err != nil {
			return nil, fmt.Errorf("pack getPool: %w", err)
		}
		calls = append(calls, chain.ContractCall{To: s.factory, Data: data})
	}
	results, err := s.client.BatchCallContract(ctx, calls)
	if err != nil {
		return nil, err
	}

	var pools []model.Pool
	for i, resp := range results {
		values, err := parsed.Unpack("getPool", resp)
		if err != nil {
			return nil, fmt.Errorf("unpack getPool: %w", err)
		}
		addr, err := asAddress(values[0])
		if err != nil {
			return nil, fmt.Errorf("getPool: %w", err)
		}
		if addr == (common.Address{}) {
			s.logger.Debug("no pool for fee tier", zap.Uint32("fee", s.feeTiers[i]))
			continue
		}
		pool, err := s.FetchPool(ctx, addr.Hex())
		if err != nil {
			return nil, fmt.Errorf("load pool %s: %w", addr.Hex(), err)
		}
		pools = append(pools, pool)
	}
	s.logger.Info("pools found", zap.String("coin_a", coinA), zap.String("coin_b", coinB), zap.Int("count", len(pools)))
	return pools, nil
}
