package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"depthScope/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestDepthCommandWritesSnapshot(t *testing.T) {
	outDir := t.TempDir()
	path, err := execute(t, "depth",
		"--chain", "file",
		"--in", filepath.Join("testdata", "pool.json"),
		"--numeraire-usd", "2",
		"--thresholds", "1",
		"--out-dir", outDir,
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("depth: %v", err)
	}
	if filepath.Dir(path) != outDir || !strings.HasPrefix(filepath.Base(path), "SUI-USDC[10]_") {
		t.Fatalf("unexpected output path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var snap model.DepthSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.PoolAddress != "0xfixturepool" || snap.NumeraireUSD != "2" {
		t.Fatalf("unexpected snapshot header %+v", snap)
	}
	if len(snap.Ticks) != 2 {
		t.Fatalf("expected 2 ticks, got %d", len(snap.Ticks))
	}
	if len(snap.PriceImpacts) != 1 || snap.PriceImpacts[0].A2B == nil || snap.PriceImpacts[0].B2A == nil {
		t.Fatalf("expected a 1%% impact in both directions, got %+v", snap.PriceImpacts)
	}
}

func TestDepthCommandRequiresPool(t *testing.T) {
	if _, err := execute(t, "depth", "--chain", "sui", "--numeraire-usd", "1", "--log-level", "error"); err == nil {
		t.Fatalf("expected missing pool error")
	}
}

func TestPoolsCommandWritesList(t *testing.T) {
	outDir := t.TempDir()
	path, err := execute(t, "pools",
		"--chain", "file",
		"--in", filepath.Join("testdata", "pool.json"),
		"--coin-a", "0x2::sui::SUI",
		"--coin-b", "0x5d4b302506645c37ff133b98c4b50a5ae14841659738d6d733d59d0d217a93bf::coin::COIN",
		"--numeraire-usd", "1",
		"--out-dir", outDir,
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("pools: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "pools_SUI-USDC_") {
		t.Fatalf("unexpected output path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pool list: %v", err)
	}
	var entries []model.PoolListEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("decode pool list: %v", err)
	}
	if len(entries) != 1 || entries[0].PoolNameUnique != "SUI-USDC[10]" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestPriceCommandUsesOracle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" || r.URL.Query().Get("ids") != "sui" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sui":{"usd":1.23}}`))
	}))
	defer srv.Close()

	out, err := execute(t, "price", "--oracle-url", srv.URL, "--log-level", "error")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if out != "1.23" {
		t.Fatalf("expected 1.23, got %q", out)
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := newLogger("loud"); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
