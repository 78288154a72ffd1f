package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"depthScope/internal/model"
)

//go:embed schema.sql
var schemaSQL string

const upsertPoolSQL = `
	INSERT INTO pools (
		pool_address, pool_type, pool_name, coin_type_a, coin_type_b, symbol_a, symbol_b,
		fee_rate, tick_spacing, liquidity, current_price, usd_pool_amount, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
	ON CONFLICT (pool_address)
	DO UPDATE SET
		pool_type = COALESCE(NULLIF(EXCLUDED.pool_type, ''), pools.pool_type),
		pool_name = COALESCE(NULLIF(EXCLUDED.pool_name, ''), pools.pool_name),
		symbol_a = EXCLUDED.symbol_a,
		symbol_b = EXCLUDED.symbol_b,
		fee_rate = EXCLUDED.fee_rate,
		tick_spacing = EXCLUDED.tick_spacing,
		liquidity = EXCLUDED.liquidity,
		current_price = EXCLUDED.current_price,
		usd_pool_amount = COALESCE(EXCLUDED.usd_pool_amount, pools.usd_pool_amount),
		updated_at = now()
`

const insertImpactSQL = `
	INSERT INTO price_impacts (
		snapshot_id, target_pct, direction, amount, amount_in, amount_out, fee_amount,
		price_impact_pct, usd_amount_in, usd_amount_out, end_tick_index, end_price, is_exceed
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`

// Store provides Postgres persistence for snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PutPoolList upserts every listed pool.
func (s *Store) PutPoolList(ctx context.Context, _, _ string, entries []model.PoolListEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(upsertPoolSQL,
			e.PoolAddress,
			e.PoolType,
			e.PoolName,
			e.CoinTypeA,
			e.CoinTypeB,
			e.SymbolA,
			e.SymbolB,
			int64(e.FeeRate),
			e.TickSpacing,
			e.Liquidity,
			e.CurrentPrice,
			nullable(e.USDPoolAmount),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range entries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert pool: %w", err)
		}
	}
	return nil
}

// PutDepthSnapshot stores the snapshot and its price impacts in one transaction.
func (s *Store) PutDepthSnapshot(ctx context.Context, snap model.DepthSnapshot) error {
	capturedAt, err := time.Parse(time.RFC3339, snap.CapturedAt)
	if err != nil {
		return fmt.Errorf("captured at: %w", err)
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, upsertPoolSQL,
		snap.PoolAddress,
		"",
		snap.PoolName,
		snap.CoinTypeA,
		snap.CoinTypeB,
		snap.SymbolA,
		snap.SymbolB,
		int64(snap.FeeTier),
		snap.TickSpacing,
		snap.Liquidity,
		snap.CurrentPrice,
		nil,
	); err != nil {
		return fmt.Errorf("upsert pool: %w", err)
	}

	var id int64
	row := tx.QueryRow(ctx, `
		INSERT INTO depth_snapshots (
			pool_address, captured_at, current_tick_index, current_sqrt_price, current_price, liquidity,
			accumulated_usd_amount_a, accumulated_usd_amount_b, usd_amount, numeraire_usd, tick_count, payload
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id
	`,
		snap.PoolAddress,
		capturedAt,
		snap.CurrentTickIndex,
		snap.CurrentSqrtPrice,
		snap.CurrentPrice,
		snap.Liquidity,
		snap.AccumulatedUSDAmountA,
		snap.AccumulatedUSDAmountB,
		snap.USDAmount,
		snap.NumeraireUSD,
		len(snap.Ticks),
		payload,
	)
	if err := row.Scan(&id); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	rows := impactRows(snap)
	if len(rows) > 0 {
		batch := &pgx.Batch{}
		for _, r := range rows {
			batch.Queue(insertImpactSQL, impactArgs(id, r)...)
		}
		br := tx.SendBatch(ctx, batch)
		for range rows {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert price impact: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("insert price impact: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type impactRow struct {
	targetPct string
	direction string
	rate      *model.RateRecord
}

// impactRows flattens the found directions of every threshold.
func impactRows(snap model.DepthSnapshot) []impactRow {
	var rows []impactRow
	for _, pi := range snap.PriceImpacts {
		if pi.A2B != nil {
			rows = append(rows, impactRow{targetPct: pi.PriceImpact.String(), direction: "a2b", rate: pi.A2B})
		}
		if pi.B2A != nil {
			rows = append(rows, impactRow{targetPct: pi.PriceImpact.String(), direction: "b2a", rate: pi.B2A})
		}
	}
	return rows
}

func impactArgs(snapshotID int64, r impactRow) []interface{} {
	return []interface{}{
		snapshotID,
		r.targetPct,
		r.direction,
		r.rate.Amount,
		nullable(r.rate.EstimatedAmountIn),
		r.rate.EstimatedAmountOut,
		r.rate.EstimatedFeeAmount,
		r.rate.PriceImpactPct,
		r.rate.USDAmountIn,
		r.rate.USDAmountOut,
		r.rate.EstimatedEndIndex,
		nullable(r.rate.EstimatedEndPrice),
		r.rate.IsExceed,
	}
}

func nullable(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
