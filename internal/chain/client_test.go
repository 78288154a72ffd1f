package chain

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result"`
}

// newEchoServer answers eth_call with the call data and sui_* with the method name.
func newEchoServer(t *testing.T, batches *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}

		answer := func(req rpcRequest) rpcResponse {
			resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
			if req.Method == "eth_call" {
				var call struct {
					Data hexutil.Bytes `json:"data"`
				}
				if err := json.Unmarshal(req.Params[0], &call); err != nil {
					t.Fatalf("decode call: %v", err)
				}
				resp.Result = call.Data
			} else {
				resp.Result = map[string]string{"method": req.Method}
			}
			return resp
		}

		w.Header().Set("Content-Type", "application/json")
		if len(body) > 0 && body[0] == '[' {
			*batches++
			var reqs []rpcRequest
			if err := json.Unmarshal(body, &reqs); err != nil {
				t.Fatalf("decode batch: %v", err)
			}
			out := make([]rpcResponse, 0, len(reqs))
			for _, req := range reqs {
				out = append(out, answer(req))
			}
			_ = json.NewEncoder(w).Encode(out)
			return
		}

		var req rpcRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(answer(req))
	}))
}

func TestClientCall(t *testing.T) {
	var batches int
	srv := newEchoServer(t, &batches)
	defer srv.Close()

	client, err := NewClient(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	var out map[string]string
	if err := client.Call(context.Background(), &out, "sui_getObject", "0x1"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if out["method"] != "sui_getObject" {
		t.Fatalf("unexpected result: %v", out)
	}
}

func TestBatchCallContractPreservesOrder(t *testing.T) {
	var batches int
	srv := newEchoServer(t, &batches)
	defer srv.Close()

	client, err := NewClient(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	client.batchSize = 2

	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	calls := make([]ContractCall, 5)
	for i := range calls {
		calls[i] = ContractCall{To: to, Data: []byte{byte(i), 0xaa}}
	}

	results, err := client.BatchCallContract(context.Background(), calls)
	if err != nil {
		t.Fatalf("batch call: %v", err)
	}
	if len(results) != len(calls) {
		t.Fatalf("expected %d results, got %d", len(calls), len(results))
	}
	for i, res := range results {
		if len(res) != 2 || res[0] != byte(i) {
			t.Fatalf("result %d out of order: %x", i, res)
		}
	}
	if batches != 3 {
		t.Fatalf("expected 3 batches, got %d", batches)
	}
}
