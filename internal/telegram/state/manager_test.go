package state

import (
	"context"
	"testing"

	"github.com/futig/partner-backend/internal/client/form"
	"github.com/futig/partner-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopGenerator struct{}

func (nopGenerator) Generate(context.Context, entity.FormSnapshot) (string, error) {
	return "", nil
}

func TestManager_SameControllerPerChat(t *testing.T) {
	m := NewManager(form.NewMemoryStore(), nopGenerator{}, zap.NewNop())

	assert.Same(t, m.Controller(42), m.Controller(42))
	assert.NotSame(t, m.Controller(42), m.Controller(43))
}

func TestManager_ChatsAreIsolated(t *testing.T) {
	m := NewManager(form.NewMemoryStore(), nopGenerator{}, zap.NewNop())

	m.Controller(1).SetBackground("第一个聊天")
	require.NoError(t, m.Controller(1).SetTone(entity.ToneFirm))

	view := m.Controller(2).View()
	assert.Empty(t, view.Snapshot.Background)
	assert.Equal(t, entity.DefaultTone, view.Snapshot.Tone)
	assert.Equal(t, entity.DefaultIntimacy, view.Snapshot.Intimacy)
}

func TestManager_RestoresFromFileStore(t *testing.T) {
	store := form.NewFileStore(t.TempDir())

	first := NewManager(store, nopGenerator{}, zap.NewNop())
	c := first.Controller(-1001234567890)
	c.SetBackground("周末约好的事，他又加班了")
	c.SetIntimacy(3)
	require.NoError(t, c.SetTone(entity.ToneCaring))

	restarted := NewManager(store, nopGenerator{}, zap.NewNop())

	assert.Equal(t, entity.FormSnapshot{
		Background: "周末约好的事，他又加班了",
		Intimacy:   3,
		Tone:       entity.ToneCaring,
	}, restarted.Controller(-1001234567890).View().Snapshot)
}

func TestChatStore_ScopesKeys(t *testing.T) {
	inner := form.NewMemoryStore()

	require.NoError(t, NewChatStore(inner, 7).Save(form.StateKey, []byte(`{"background":"a"}`)))

	data, err := inner.Load(form.StateKey + "_7")
	require.NoError(t, err)
	assert.JSONEq(t, `{"background":"a"}`, string(data))

	data, err = NewChatStore(inner, 8).Load(form.StateKey)
	require.NoError(t, err)
	assert.Nil(t, data)
}
