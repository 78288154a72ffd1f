package sui

import (
	"encoding/json"
	"fmt"
	"math/big"

	"depthScope/internal/model"
)

type objectResponse struct {
	Data  *objectData  `json:"data"`
	Error *objectError `json:"error"`
}

type objectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id"`
}

type objectData struct {
	ObjectID string         `json:"objectId"`
	Type     string         `json:"type"`
	Content  *objectContent `json:"content"`
}

type objectContent struct {
	DataType string          `json:"dataType"`
	Type     string          `json:"type"`
	Fields   json.RawMessage `json:"fields"`
}

// bitsField is the encoding of Move I32/I128 wrappers.
type bitsField struct {
	Fields struct {
		Bits model.BigInt `json:"bits"`
	} `json:"fields"`
}

type uidField struct {
	ID string `json:"id"`
}

type poolFields struct {
	CoinA            model.BigInt `json:"coin_a"`
	CoinB            model.BigInt `json:"coin_b"`
	CurrentSqrtPrice model.BigInt `json:"current_sqrt_price"`
	CurrentTickIndex bitsField    `json:"current_tick_index"`
	Liquidity        model.BigInt `json:"liquidity"`
	FeeRate          model.BigInt `json:"fee_rate"`
	TickSpacing      model.BigInt `json:"tick_spacing"`
	FeeGrowthGlobalA model.BigInt `json:"fee_growth_global_a"`
	FeeGrowthGlobalB model.BigInt `json:"fee_growth_global_b"`
	FeeProtocolCoinA model.BigInt `json:"fee_protocol_coin_a"`
	FeeProtocolCoinB model.BigInt `json:"fee_protocol_coin_b"`
	IsPause          bool         `json:"is_pause"`
	Name             string       `json:"name"`
	TickManager      struct {
		Fields struct {
			Ticks struct {
				Fields struct {
					ID uidField `json:"id"`
				} `json:"fields"`
			} `json:"ticks"`
		} `json:"fields"`
	} `json:"tick_manager"`
}

type tickNodeFields struct {
	Value struct {
		Fields struct {
			Value struct {
				Fields tickFields `json:"fields"`
			} `json:"value"`
		} `json:"fields"`
	} `json:"value"`
}

type tickFields struct {
	Index                bitsField      `json:"index"`
	SqrtPrice            model.BigInt   `json:"sqrt_price"`
	LiquidityNet         bitsField      `json:"liquidity_net"`
	LiquidityGross       model.BigInt   `json:"liquidity_gross"`
	FeeGrowthOutsideA    model.BigInt   `json:"fee_growth_outside_a"`
	FeeGrowthOutsideB    model.BigInt   `json:"fee_growth_outside_b"`
	RewardsGrowthOutside []model.BigInt `json:"rewards_growth_outside"`
}

type dynamicFieldPage struct {
	Data []struct {
		ObjectID string `json:"objectId"`
	} `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

type eventPage struct {
	Data []struct {
		ParsedJSON createPoolEvent `json:"parsedJson"`
	} `json:"data"`
	NextCursor  json.RawMessage `json:"nextCursor"`
	HasNextPage bool            `json:"hasNextPage"`
}

type createPoolEvent struct {
	CoinTypeA string `json:"coin_type_a"`
	CoinTypeB string `json:"coin_type_b"`
	PoolID    string `json:"pool_id"`
}

type coinMetadata struct {
	Decimals uint8  `json:"decimals"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
}

// i32 reinterprets the u32 bits of a Move I32 as a signed value.
func i32(bits bitsField) int32 {
	if bits.Fields.Bits.Int == nil {
		return 0
	}
	return int32(uint32(bits.Fields.Bits.Uint64()))
}

func (o objectResponse) fields(id string, dst interface{}) (string, error) {
	if o.Error != nil {
		return "", fmt.Errorf("object %s: %s", id, o.Error.Code)
	}
	if o.Data == nil || o.Data.Content == nil {
		return "", fmt.Errorf("object %s: no content", id)
	}
	if err := json.Unmarshal(o.Data.Content.Fields, dst); err != nil {
		return "", fmt.Errorf("object %s: decode fields: %w", id, err)
	}
	objectType := o.Data.Type
	if objectType == "" {
		objectType = o.Data.Content.Type
	}
	return objectType, nil
}

func (p poolFields) toPool(address, poolType string) (model.Pool, error) {
	args := typeArgs(poolType)
	if len(args) < 2 {
		return model.Pool{}, fmt.Errorf("pool %s: cannot read coin types from %q", address, poolType)
	}
	if p.CurrentSqrtPrice.Int == nil {
		return model.Pool{}, fmt.Errorf("pool %s: missing current_sqrt_price", address)
	}

	return model.Pool{
		Address:          address,
		Name:             p.Name,
		PoolType:         poolType,
		CoinTypeA:        args[0],
		CoinTypeB:        args[1],
		CoinAmountA:      p.CoinA.Value(),
		CoinAmountB:      p.CoinB.Value(),
		CurrentSqrtPrice: p.CurrentSqrtPrice.Value(),
		CurrentTickIndex: i32(p.CurrentTickIndex),
		Liquidity:        p.Liquidity.Value(),
		FeeRate:          uint32(p.FeeRate.Value().Uint64()),
		TickSpacing:      int32(p.TickSpacing.Value().Int64()),
		FeeGrowthGlobalA: p.FeeGrowthGlobalA.Value(),
		FeeGrowthGlobalB: p.FeeGrowthGlobalB.Value(),
		FeeProtocolCoinA: p.FeeProtocolCoinA.Value(),
		FeeProtocolCoinB: p.FeeProtocolCoinB.Value(),
		IsPause:          p.IsPause,
		SqrtPriceBits:    64,
	}, nil
}

func (t tickFields) toTick() model.Tick {
	rewards := make([]*big.Int, 0, len(t.RewardsGrowthOutside))
	for _, r := range t.RewardsGrowthOutside {
		rewards = append(rewards, r.Value())
	}
	return model.Tick{
		Index:                  i32(t.Index),
		SqrtPrice:              t.SqrtPrice.OrNil(),
		LiquidityNet:           t.LiquidityNet.Fields.Bits.Value(),
		LiquidityGross:         t.LiquidityGross.Value(),
		FeeGrowthOutsideA:      t.FeeGrowthOutsideA.Value(),
		FeeGrowthOutsideB:      t.FeeGrowthOutsideB.Value(),
		RewardersGrowthOutside: rewards,
	}
}
