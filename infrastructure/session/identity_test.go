package session

import (
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var uuidV4Shape = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

type failingStore struct{}

func (failingStore) Load() (string, bool) { return "", false }
func (failingStore) Save(string) error    { return errors.New("storage unavailable") }

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "session_id"))
	require.NoError(t, err)
	return store
}

func TestIdentity_StableAcrossCalls(t *testing.T) {
	identity := NewIdentity(newTestStore(t), zap.NewNop())

	first := identity.ID()
	second := identity.ID()

	assert.Equal(t, first, second)
	assert.Regexp(t, uuidV4Shape, first)
}

func TestIdentity_StableAcrossInstances(t *testing.T) {
	// Same storage scope: a fresh identity must find the persisted id.
	store := newTestStore(t)

	first := NewIdentity(store, zap.NewNop()).ID()
	second := NewIdentity(store, zap.NewNop()).ID()

	assert.Equal(t, first, second)
}

func TestIdentity_SentinelWithoutStorage(t *testing.T) {
	assert.Equal(t, SentinelID, NewIdentity(nil, zap.NewNop()).ID())
	assert.Equal(t, SentinelID, NewIdentity(failingStore{}, zap.NewNop()).ID())
}

func TestFallbackUUID_CanonicalShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Regexp(t, uuidV4Shape, fallbackUUID())
	}
}
