package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"depthScope/internal/model"
)

const timestampLayout = "2006_01_02_15_04_05"

// JSONStorage writes snapshots as indented JSON files, one per run.
type JSONStorage struct {
	TicksDir string
	PoolsDir string
	Now      func() time.Time

	mu       sync.Mutex
	lastPath string
}

// NewJSONStorage creates a JSON sink writing into the given directories.
func NewJSONStorage(ticksDir, poolsDir string) *JSONStorage {
	return &JSONStorage{TicksDir: ticksDir, PoolsDir: poolsDir}
}

// LastPath returns the most recently written file.
func (s *JSONStorage) LastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPath
}

func (s *JSONStorage) timestamp() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UTC().Format(timestampLayout)
}

// PutDepthSnapshot writes {TicksDir}/{A}-{B}[{spacing}]_{ts}.json.
func (s *JSONStorage) PutDepthSnapshot(_ context.Context, snap model.DepthSnapshot) error {
	name := fmt.Sprintf("%s-%s[%d]_%s.json", fileSafe(snap.SymbolA), fileSafe(snap.SymbolB), snap.TickSpacing, s.timestamp())
	return s.write(filepath.Join(s.TicksDir, name), snap)
}

// PutPoolList writes {PoolsDir}/pools_{A}-{B}_{ts}.json. Empty lists are skipped.
func (s *JSONStorage) PutPoolList(_ context.Context, coinA, coinB string, entries []model.PoolListEntry) error {
	if len(entries) == 0 {
		return nil
	}
	name := fmt.Sprintf("pools_%s-%s_%s.json", fileSafe(coinA), fileSafe(coinB), s.timestamp())
	return s.write(filepath.Join(s.PoolsDir, name), entries)
}

// fileSafe keeps on-chain symbols from escaping the output directory.
func fileSafe(symbol string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/', r == '\\', r < 0x20:
			return '_'
		}
		return r
	}, symbol)
}

func (s *JSONStorage) write(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	s.lastPath = path
	return nil
}
