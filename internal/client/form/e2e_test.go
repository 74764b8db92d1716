package form_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/partner-backend/internal/api"
	suggestionapi "github.com/futig/partner-backend/internal/api/suggestion"
	"github.com/futig/partner-backend/internal/client/form"
	"github.com/futig/partner-backend/internal/config"
	"github.com/futig/partner-backend/internal/entity"
	"github.com/futig/partner-backend/internal/integration/partner"
	"github.com/futig/partner-backend/internal/pkg/validator"
	"github.com/futig/partner-backend/internal/usecase/suggestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingProvider struct {
	requests []*entity.CompletionRequest
}

func (p *recordingProvider) Complete(_ context.Context, req *entity.CompletionRequest) (string, error) {
	p.requests = append(p.requests, req)
	return "1. ...\n2. ...\n3. ...", nil
}

func (p *recordingProvider) Name() string { return "recording" }

func startServer(t *testing.T, provider suggestion.TextCompletionProvider, configured bool) string {
	t.Helper()

	logger := zap.NewNop()
	uc := suggestion.NewUsecase(provider, configured, logger)
	router := api.SetupRouter(suggestionapi.NewHandler(uc, validator.NewValidator()), api.RouterOptions{AllowedOrigins: []string{"*"}}, logger)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server.URL
}

func newClient(url string) *partner.Connector {
	return partner.NewConnector(config.ClientConfig{ServerURL: url, Timeout: 5 * time.Second}, zap.NewNop())
}

func TestFormEndToEnd(t *testing.T) {
	provider := &recordingProvider{}
	url := startServer(t, provider, true)

	store := form.NewFileStore(t.TempDir())
	c := form.NewController(store, newClient(url), zap.NewNop())
	c.SetBackground("周末约好的事，他又加班了，我很生气但说不清楚为什么。")
	c.SetIntimacy(7)
	require.NoError(t, c.SetTone(entity.ToneFirm))

	require.NoError(t, c.Submit(context.Background()))

	view := c.View()
	assert.Equal(t, form.ModeDisplayed, view.Mode)
	assert.Equal(t, "1. ...\n2. ...\n3. ...", view.Markdown)
	assert.Empty(t, view.Error)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, "deepseek/deepseek-chat", req.Model)
	assert.InDelta(t, 0.8, req.Temperature, 1e-6)
	assert.Equal(t, 600, req.MaxTokens)
	assert.Equal(t,
		"背景：周末约好的事，他又加班了，我很生气但说不清楚为什么。\n亲密度：7\n语气：坚定\n请生成三条中文回应。",
		req.User,
	)

	want := entity.FormSnapshot{
		Background: "周末约好的事，他又加班了，我很生气但说不清楚为什么。",
		Intimacy:   7,
		Tone:       entity.ToneFirm,
	}

	saved, err := store.Load(form.StateKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"background":"周末约好的事，他又加班了，我很生气但说不清楚为什么。","intimacy":7,"tone":"坚定"}`, string(saved))

	reloaded := form.NewController(store, newClient(url), zap.NewNop())
	reloadedView := reloaded.View()
	assert.Equal(t, want, reloadedView.Snapshot)
	assert.Equal(t, form.ModeIdle, reloadedView.Mode)
	assert.True(t, reloadedView.CanSubmit)
	assert.Empty(t, reloadedView.Markdown)
}

func TestFormEndToEnd_ServerRejects(t *testing.T) {
	provider := &recordingProvider{}
	url := startServer(t, provider, true)

	c := form.NewController(form.NewMemoryStore(), newClient(url), zap.NewNop())
	c.SetBackground("他又忘了我们的纪念日")
	c.SetIntimacy(0)

	require.Error(t, c.Submit(context.Background()))

	view := c.View()
	assert.Equal(t, "服务异常：400", view.Error)
	assert.Empty(t, view.Markdown)
	assert.Empty(t, provider.requests)
}

func TestFormEndToEnd_ServerNotConfigured(t *testing.T) {
	provider := &recordingProvider{}
	url := startServer(t, provider, false)

	c := form.NewController(form.NewMemoryStore(), newClient(url), zap.NewNop())
	c.SetBackground("他又忘了我们的纪念日")

	require.Error(t, c.Submit(context.Background()))

	assert.Equal(t, "服务异常：500", c.View().Error)
	assert.Empty(t, provider.requests)
}
