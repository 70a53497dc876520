package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirdesai22/registration-dashboard/internal/logger"
	"github.com/sirdesai22/registration-dashboard/internal/models"
)

func regs(names ...string) []models.Registration {
	out := make([]models.Registration, len(names))
	for i, n := range names {
		out[i] = models.Registration{ID: uuid.New(), Name: n, Email: n + "@x.com"}
	}
	return out
}

func TestLoadEmpty(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "registrations.json"), logger.Discard())
	got, ok := m.Load()
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestApplyLatestTicket(t *testing.T) {
	m := New("", logger.Discard())
	tk := m.BeginFetch()

	applied, err := m.Apply(tk, regs("Ann", "Bo"))
	require.NoError(t, err)
	assert.True(t, applied)

	got, ok := m.Load()
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestStaleResponseDoesNotOverwriteNewer(t *testing.T) {
	m := New("", logger.Discard())
	older := m.BeginFetch()
	newer := m.BeginFetch()
	assert.Greater(t, newer.Seq(), older.Seq())

	applied, err := m.Apply(newer, regs("New"))
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = m.Apply(older, regs("Old"))
	require.NoError(t, err)
	assert.False(t, applied)

	got, _ := m.Load()
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Name)
}

func TestStaleResponseBeforeNewerResolves(t *testing.T) {
	m := New("", logger.Discard())
	older := m.BeginFetch()
	_ = m.BeginFetch()

	applied, err := m.Apply(older, regs("Old"))
	require.NoError(t, err)
	assert.False(t, applied)
	_, ok := m.Load()
	assert.False(t, ok)
}

func TestPersistedAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registrations.json")
	first := New(path, logger.Discard())
	_, err := first.Apply(first.BeginFetch(), regs("Ann"))
	require.NoError(t, err)

	second := New(path, logger.Discard())
	got, ok := second.Load()
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "Ann", got[0].Name)
}

func TestLoadReturnsCopy(t *testing.T) {
	m := New("", logger.Discard())
	_, err := m.Apply(m.BeginFetch(), regs("Ann"))
	require.NoError(t, err)

	got, _ := m.Load()
	got[0].Name = "mutated"
	again, _ := m.Load()
	assert.Equal(t, "Ann", again[0].Name)
}

func TestCorruptFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registrations.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, ok := New(path, logger.Discard()).Load()
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registrations.json")
	m := New(path, logger.Discard())
	_, err := m.Apply(m.BeginFetch(), regs("Ann"))
	require.NoError(t, err)

	require.NoError(t, m.Clear())
	_, ok := m.Load()
	assert.False(t, ok)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestConcurrentTicketsAreUnique(t *testing.T) {
	m := New("", logger.Discard())
	var wg sync.WaitGroup
	seen := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- m.BeginFetch().Seq()
		}()
	}
	wg.Wait()
	close(seen)

	uniq := make(map[uint64]bool)
	for s := range seen {
		uniq[s] = true
	}
	assert.Len(t, uniq, 100)
}
