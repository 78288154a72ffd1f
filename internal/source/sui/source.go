package sui

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"depthScope/internal/model"
)

// DefaultCetusPackage is the Cetus CLMM package on Sui mainnet.
const DefaultCetusPackage = "0x1eabed72c53feb3805120a081dc15963c204dc8d091542592abaf7a35689b2fb"

const (
	pageSize       = 50
	multiGetChunk  = 50
	createPoolType = "::factory::CreatePoolEvent"
)

// RPC is the JSON-RPC surface the reader needs.
type RPC interface {
	Call(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Close()
}

// Source reads Cetus pools over Sui JSON-RPC.
type Source struct {
	rpc     RPC
	pkg     string
	logger  *zap.Logger
	mu      sync.RWMutex
	tickIDs map[string]string
}

// New creates a Cetus reader. An empty pkg selects DefaultCetusPackage.
func New(rpc RPC, pkg string, logger *zap.Logger) *Source {
	if pkg == "" {
		pkg = DefaultCetusPackage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{rpc: rpc, pkg: pkg, logger: logger, tickIDs: make(map[string]string)}
}

// Close closes the RPC connection.
func (s *Source) Close() {
	if s.rpc != nil {
		s.rpc.Close()
	}
}

// FetchPool reads a pool object.
func (s *Source) FetchPool(ctx context.Context, address string) (model.Pool, error) {
	pool, _, err := s.readPool(ctx, address)
	return pool, err
}

func (s *Source) readPool(ctx context.Context, address string) (model.Pool, string, error) {
	var resp objectResponse
	opts := map[string]bool{"showContent": true, "showType": true}
	if err := s.rpc.Call(ctx, &resp, "sui_getObject", address, opts); err != nil {
		return model.Pool{}, "", err
	}

	var fields poolFields
	poolType, err := resp.fields(address, &fields)
	if err != nil {
		return model.Pool{}, "", err
	}
	pool, err := fields.toPool(address, poolType)
	if err != nil {
		return model.Pool{}, "", err
	}

	tableID := fields.TickManager.Fields.Ticks.Fields.ID.ID
	s.mu.Lock()
	s.tickIDs[address] = tableID
	s.mu.Unlock()
	return pool, tableID, nil
}

// FetchTicks reads every initialized tick of the pool, sorted by index.
func (s *Source) FetchTicks(ctx context.Context, pool model.Pool) ([]model.Tick, error) {
	s.mu.RLock()
	tableID, ok := s.tickIDs[pool.Address]
	s.mu.RUnlock()
	if !ok {
		var err error
		if _, tableID, err = s.readPool(ctx, pool.Address); err != nil {
			return nil, err
		}
	}
	if tableID == "" {
		return nil, fmt.Errorf("pool %s: tick table id not found", pool.Address)
	}

	ids, err := s.tickNodeIDs(ctx, tableID)
	if err != nil {
		return nil, err
	}

	ticks := make([]model.Tick, 0, len(ids))
	for start := 0; start < len(ids); start += multiGetChunk {
		end := start + multiGetChunk
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		var objects []objectResponse
		if err := s.rpc.Call(ctx, &objects, "sui_multiGetObjects", chunk, map[string]bool{"showContent": true}); err != nil {
			return nil, err
		}
		for i, obj := range objects {
			id := ""
			if i < len(chunk) {
				id = chunk[i]
			}
			var node tickNodeFields
			if _, err := obj.fields(id, &node); err != nil {
				return nil, fmt.Errorf("tick node: %w", err)
			}
			tick := node.Value.Fields.Value.Fields.toTick()
			if tick.SqrtPrice == nil {
				return nil, fmt.Errorf("tick node %s: missing sqrt_price", id)
			}
			ticks = append(ticks, tick)
		}
	}

	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Index < ticks[j].Index })
	s.logger.Debug("fetched ticks", zap.String("pool", pool.Address), zap.Int("count", len(ticks)))
	return ticks, nil
}

func (s *Source) tickNodeIDs(ctx context.Context, tableID string) ([]string, error) {
	var (
		ids    []string
		cursor *string
	)
	for {
		var page dynamicFieldPage
		if err := s.rpc.Call(ctx, &page, "suix_getDynamicFields", tableID, cursor, pageSize); err != nil {
			return nil, err
		}
		for _, item := range page.Data {
			ids = append(ids, item.ObjectID)
		}
		if !page.HasNextPage || page.NextCursor == nil {
			return ids, nil
		}
		cursor = page.NextCursor
	}
}

// FetchCoinMeta reads coin metadata.
func (s *Source) FetchCoinMeta(ctx context.Context, coinType string) (model.CoinMeta, error) {
	var meta *coinMetadata
	if err := s.rpc.Call(ctx, &meta, "suix_getCoinMetadata", coinType); err != nil {
		return model.CoinMeta{}, err
	}
	if meta == nil {
		return model.CoinMeta{}, fmt.Errorf("coin metadata not found for %s", coinType)
	}
	return model.CoinMeta{
		CoinType: coinType,
		Symbol:   meta.Symbol,
		Name:     meta.Name,
		Decimals: meta.Decimals,
	}, nil
}

// FindPools lists every Cetus pool created for the pair, in either order.
func (s *Source) FindPools(ctx context.Context, coinA, coinB string) ([]model.Pool, error) {
	wantA, wantB := NormalizeCoinType(coinA), NormalizeCoinType(coinB)
	query := map[string]string{"MoveEventType": s.pkg + createPoolType}

	var (
		poolIDs []string
		cursor  json.RawMessage
	)
	for {
		var page eventPage
		if err := s.rpc.Call(ctx, &page, "suix_queryEvents", query, cursor, pageSize, false); err != nil {
			return nil, err
		}
		for _, item := range page.Data {
			ev := item.ParsedJSON
			a, b := NormalizeCoinType(ev.CoinTypeA), NormalizeCoinType(ev.CoinTypeB)
			if (a == wantA && b == wantB) || (a == wantB && b == wantA) {
				poolIDs = append(poolIDs, ev.PoolID)
			}
		}
		if !page.HasNextPage || len(page.NextCursor) == 0 || string(page.NextCursor) == "null" {
			break
		}
		cursor = page.NextCursor
	}

	pools := make([]model.Pool, 0, len(poolIDs))
	for _, id := range poolIDs {
		pool, err := s.FetchPool(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load pool %s: %w", id, err)
		}
		pools = append(pools, pool)
	}
	s.logger.Info("pools found", zap.String("coin_a", coinA), zap.String("coin_b", coinB), zap.Int("count", len(pools)))
	return pools, nil
}
