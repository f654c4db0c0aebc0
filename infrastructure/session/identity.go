// Package session produces the stable anonymous client identifier that
// scopes every backend call to one user.
package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SentinelID is returned when no persistent storage is available, so a
// non-interactive context still gets a usable identity instead of an
// error.
const SentinelID = "default"

// Identity lazily generates a UUID-shaped identifier on first access and
// persists it; every later access returns the same value. The identifier
// is never rotated or destroyed within a session lifetime.
type Identity struct {
	store  Store
	logger *zap.Logger

	once sync.Once
	id   string
}

// NewIdentity creates an identity backed by the given store. A nil store
// degrades to the sentinel identifier.
func NewIdentity(store Store, logger *zap.Logger) *Identity {
	return &Identity{store: store, logger: logger}
}

// ID returns the session identifier, generating and persisting it on
// first call. Concurrent first calls observe the same value.
func (i *Identity) ID() string {
	i.once.Do(func() {
		i.id = i.resolve()
	})
	return i.id
}

func (i *Identity) resolve() string {
	if i.store == nil {
		return SentinelID
	}

	if id, ok := i.store.Load(); ok {
		return id
	}

	id := generate()
	if err := i.store.Save(id); err != nil {
		i.logger.Warn("Session storage unavailable, using sentinel identity", zap.Error(err))
		return SentinelID
	}

	i.logger.Info("Generated new session identity", zap.String("session_id", id))
	return id
}

// generate returns a UUID v4 string, falling back to a pseudo-random
// generator that still produces the canonical v4 shape when the strong
// random source is unavailable.
func generate() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fallbackUUID()
}

var fallbackRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// fallbackUUID builds a v4-shaped identifier: version nibble fixed to 4,
// variant nibble one of 8/9/a/b.
func fallbackUUID() string {
	b := make([]byte, 16)
	fallbackRand.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
