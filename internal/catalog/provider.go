package catalog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tidwall/gjson"

	"github.com/Oddey86/TarkovBuddy/internal/graph"
	"github.com/Oddey86/TarkovBuddy/internal/hideout"
)

// Provider resolves the task catalog from a snapshot file when one exists,
// otherwise from the API, and keeps parsed results in memory for a while.
type Provider struct {
	Client       *Client
	SnapshotPath string // optional; read first, written after a fetch

	tasks *expirable.LRU[string, []graph.Task]
}

// NewProvider creates a Provider whose in-memory copies expire after ttl.
func NewProvider(client *Client, snapshotPath string, ttl time.Duration) *Provider {
	return &Provider{
		Client:       client,
		SnapshotPath: snapshotPath,
		tasks:        expirable.NewLRU[string, []graph.Task](8, nil, ttl),
	}
}

// Tasks returns the catalog tasks.
func (p *Provider) Tasks(ctx context.Context) ([]graph.Task, error) {
	key := p.cacheKey()
	if tasks, ok := p.tasks.Get(key); ok {
		return tasks, nil
	}

	if p.SnapshotPath != "" {
		data, err := LoadSnapshot(p.SnapshotPath)
		if err == nil {
			tasks := ParseTasks(data)
			p.tasks.Add(key, tasks)
			return tasks, nil
		}
		if !os.IsNotExist(err) {
			log.Printf("warning: catalog snapshot %s unusable, fetching: %v", p.SnapshotPath, err)
		}
	}

	if p.Client == nil {
		return nil, fmt.Errorf("no catalog snapshot at %q and no API client configured", p.SnapshotPath)
	}

	data, err := p.Client.FetchTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	if p.SnapshotPath != "" {
		if err := SaveSnapshot(p.SnapshotPath, data); err != nil {
			log.Printf("warning: could not write catalog snapshot: %v", err)
		}
	}

	tasks := ParseTasks(data)
	p.tasks.Add(key, tasks)
	return tasks, nil
}

// Hideout returns the hideout stations straight from the API.
func (p *Provider) Hideout(ctx context.Context) ([]hideout.Station, error) {
	if p.Client == nil {
		return nil, fmt.Errorf("no API client configured")
	}
	data, err := p.Client.FetchHideout(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch hideout: %w", err)
	}
	return ParseHideout(data), nil
}

// Invalidate drops any in-memory copy.
func (p *Provider) Invalidate() {
	p.tasks.Purge()
}

func (p *Provider) cacheKey() string {
	if p.SnapshotPath != "" {
		return "file:" + p.SnapshotPath
	}
	if p.Client != nil {
		return "api:" + p.Client.URL
	}
	return "none"
}

// LoadSnapshot reads a saved catalog data object.
func LoadSnapshot(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse snapshot %s: invalid JSON", path)
	}
	return data, nil
}

// SaveSnapshot writes a catalog data object to path, creating parent dirs.
func SaveSnapshot(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
