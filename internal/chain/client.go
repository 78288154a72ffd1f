package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// DefaultBatchSize bounds the number of calls sent in one JSON-RPC batch.
const DefaultBatchSize = 100

// Client wraps a go-ethereum JSON-RPC connection. Raw calls serve any
// JSON-RPC node (Sui included); contract helpers serve EVM nodes.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	batchSize int
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return NewClientFromRPC(rpcClient), nil
}

// NewClientFromRPC wraps an existing RPC client.
func NewClientFromRPC(rpcClient *rpc.Client) *Client {
	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		batchSize: DefaultBatchSize,
	}
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// Call performs a raw JSON-RPC call and decodes the result into result.
func (c *Client) Call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if err := c.rpcClient.CallContext(ctx, result, method, args...); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// CallContract performs an eth_call for a contract method.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.ethClient.CallContract(ctx, msg, blockNumber)
}

// ContractCall is a single eth_call in a batch.
type ContractCall struct {
	To   common.Address
	Data []byte
}

// BatchCallContract performs eth_calls at the latest block in JSON-RPC
// batches. Results are returned in call order; a failed call fails the batch.
func (c *Client) BatchCallContract(ctx context.Context, calls []ContractCall) ([][]byte, error) {
	out := make([][]byte, len(calls))
	size := c.batchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	for start := 0; start < len(calls); start += size {
		end := start + size
		if end > len(calls) {
			end = len(calls)
		}

		results := make([]hexutil.Bytes, end-start)
		elems := make([]rpc.BatchElem, end-start)
		for i, call := range calls[start:end] {
			elems[i] = rpc.BatchElem{
				Method: "eth_call",
				Args: []interface{}{
					map[string]interface{}{"to": call.To, "data": hexutil.Bytes(call.Data)},
					"latest",
				},
				Result: &results[i],
			}
		}

		if err := c.rpcClient.BatchCallContext(ctx, elems); err != nil {
			return nil, fmt.Errorf("batch eth_call: %w", err)
		}
		for i, elem := range elems {
			if elem.Error != nil {
				return nil, fmt.Errorf("eth_call %d to %s: %w", start+i, calls[start+i].To.Hex(), elem.Error)
			}
			out[start+i] = results[i]
		}
	}
	return out, nil
}
