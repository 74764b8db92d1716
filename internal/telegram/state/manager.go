package state

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/futig/partner-backend/internal/client/form"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	controllerTTL   = time.Hour
	cleanupInterval = 10 * time.Minute
)

// Manager hands out one form controller per chat. Controllers idle for an hour
// are dropped and restored from the store on the next update.
type Manager struct {
	mu          sync.Mutex
	controllers *cache.Cache
	store       form.Store
	generator   form.Generator
	logger      *zap.Logger
}

// NewManager creates a new state manager
func NewManager(store form.Store, generator form.Generator, logger *zap.Logger) *Manager {
	return &Manager{
		controllers: cache.New(controllerTTL, cleanupInterval),
		store:       store,
		generator:   generator,
		logger:      logger,
	}
}

// Controller returns the form of chatID, restoring it from the store when needed.
func (m *Manager) Controller(chatID int64) *form.Controller {
	key := strconv.FormatInt(chatID, 10)

	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.controllers.Get(key); ok {
		c := v.(*form.Controller)
		// Touch to slide the expiration.
		m.controllers.SetDefault(key, c)
		return c
	}

	c := form.NewController(
		NewChatStore(m.store, chatID),
		m.generator,
		m.logger.With(zap.Int64("chat_id", chatID)),
	)
	m.controllers.SetDefault(key, c)
	return c
}

// ChatStore scopes every key of an underlying store to one chat.
type ChatStore struct {
	store  form.Store
	chatID int64
}

func NewChatStore(store form.Store, chatID int64) *ChatStore {
	return &ChatStore{store: store, chatID: chatID}
}

func (s *ChatStore) key(key string) string {
	return fmt.Sprintf("%s_%d", key, s.chatID)
}

func (s *ChatStore) Load(key string) ([]byte, error) {
	return s.store.Load(s.key(key))
}

func (s *ChatStore) Save(key string, data []byte) error {
	return s.store.Save(s.key(key), data)
}
