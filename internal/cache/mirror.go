// Package cache holds the dashboard's local copy of the last successful
// registration list, used to paint before the network round-trip finishes.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sirdesai22/registration-dashboard/internal/models"
)

// Key is the fixed name the collection is stored under.
const Key = "registrations"

// Ticket identifies one fetch. Only the most recently issued ticket may write.
type Ticket struct {
	seq uint64
}

func (t Ticket) Seq() uint64 { return t.seq }

// Mirror is a single-writer, read-mostly cache of the registration list. The
// in-memory copy lives in a go-cache instance; when path is set it is also
// persisted as JSON so a fresh process can paint from it.
type Mirror struct {
	mu     sync.Mutex
	mem    *gocache.Cache
	path   string
	issued uint64
	logger *slog.Logger
}

// New returns a Mirror persisting to path. An empty path keeps the mirror in
// memory only.
func New(path string, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{
		mem:    gocache.New(gocache.NoExpiration, 0),
		path:   path,
		logger: logger,
	}
}

// Load returns the cached collection, reading the persisted file on a memory
// miss. The returned slice is a copy.
func (m *Mirror) Load() ([]models.Registration, bool) {
	if v, ok := m.mem.Get(Key); ok {
		if regs, ok := v.([]models.Registration); ok {
			m.logger.Debug("cache hit", "key", Key, "source", "memory")
			return clone(regs), true
		}
		m.logger.Error("wrong type assertion when getting value", "key", Key)
	}
	if m.path == "" {
		return nil, false
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("reading cache file", "path", m.path, "error", err)
		}
		return nil, false
	}
	var regs []models.Registration
	if err := json.Unmarshal(data, &regs); err != nil {
		m.logger.Warn("discarding unreadable cache file", "path", m.path, "error", err)
		return nil, false
	}
	// Add, not Set: a concurrent Apply may already hold a newer copy.
	_ = m.mem.Add(Key, regs, gocache.NoExpiration)
	m.logger.Debug("cache hit", "key", Key, "source", "file")
	return clone(regs), true
}

// BeginFetch issues the next fetch-sequence number.
func (m *Mirror) BeginFetch() Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued++
	return Ticket{seq: m.issued}
}

// Apply stores regs if t is still the latest ticket issued. A stale ticket is
// dropped and reported as false so an older response cannot overwrite a newer
// one.
func (m *Mirror) Apply(t Ticket, regs []models.Registration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.seq != m.issued {
		m.logger.Debug("dropping stale fetch", "seq", t.seq, "latest", m.issued)
		return false, nil
	}

	regs = clone(regs)
	m.mem.Set(Key, regs, gocache.NoExpiration)
	if m.path == "" {
		return true, nil
	}
	if err := writeFileAtomic(m.path, regs); err != nil {
		return true, fmt.Errorf("persist cache: %w", err)
	}
	return true, nil
}

// Clear drops both the in-memory and the persisted copy.
func (m *Mirror) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mem.Delete(Key)
	if m.path == "" {
		return nil
	}
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func writeFileAtomic(path string, regs []models.Registration) error {
	data, err := json.Marshal(regs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".registrations-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func clone(regs []models.Registration) []models.Registration {
	if regs == nil {
		return nil
	}
	out := make([]models.Registration, len(regs))
	copy(out, regs)
	return out
}
