package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"depthScope/internal/chain"
	"depthScope/internal/model"
	"depthScope/internal/source/evm"
	"depthScope/internal/source/file"
	"depthScope/internal/source/sui"
)

// ErrUnknownChain is returned by Open for an unsupported chain name.
var ErrUnknownChain = errors.New("unknown chain")

// Source reads pool state, ticks and coin metadata.
type Source interface {
	FetchPool(ctx context.Context, address string) (model.Pool, error)
	FetchTicks(ctx context.Context, pool model.Pool) ([]model.Tick, error)
	FetchCoinMeta(ctx context.Context, coinType string) (model.CoinMeta, error)
	FindPools(ctx context.Context, coinA, coinB string) ([]model.Pool, error)
	Close()
}

// Options selects and configures a source.
type Options struct {
	// Chain is one of "sui", "evm" or "file".
	Chain        string
	RPCURL       string
	InputPath    string
	CetusPackage string
	Factory      string
	FeeTiers     []uint32
}

// Open builds the source for opts.Chain.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(strings.TrimSpace(opts.Chain)) {
	case "sui":
		client, err := dial(ctx, opts.RPCURL)
		if err != nil {
			return nil, err
		}
		return sui.New(client, opts.CetusPackage, logger), nil
	case "evm":
		if opts.Factory != "" && !common.IsHexAddress(opts.Factory) {
			return nil, fmt.Errorf("invalid factory address %q", opts.Factory)
		}
		client, err := dial(ctx, opts.RPCURL)
		if err != nil {
			return nil, err
		}
		return evm.New(client, common.HexToAddress(opts.Factory), opts.FeeTiers, logger), nil
	case "file":
		if opts.InputPath == "" {
			return nil, fmt.Errorf("input path is required")
		}
		src, err := file.Load(opts.InputPath)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChain, opts.Chain)
	}
}

func dial(ctx context.Context, rpcURL string) (*chain.Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	client, err := chain.NewClient(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}
	return client, nil
}
