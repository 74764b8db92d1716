// Package form holds the state of the suggestion form: the three inputs, their
// local persistence, submission gating and the outcome of the last request.
package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/futig/partner-backend/internal/entity"
	pkgHTTP "github.com/futig/partner-backend/pkg/http"
	"go.uber.org/zap"
)

// StateKey is the store key of the persisted snapshot.
const StateKey = "cwp_state"

// minBackgroundRunes is exclusive: the trimmed background must be longer.
const minBackgroundRunes = 5

const fallbackErrorMessage = "请求失败，请稍后重试"

var (
	ErrSubmitDisabled = errors.New("submission is disabled")
	ErrInvalidTone    = errors.New("unknown tone")
)

// Generator sends a snapshot to the suggestion server and returns the markdown.
type Generator interface {
	Generate(ctx context.Context, snapshot entity.FormSnapshot) (string, error)
}

// View is a consistent copy of the form for rendering.
type View struct {
	Snapshot    entity.FormSnapshot
	Mode        Mode
	Markdown    string
	Error       string
	CanSubmit   bool
	ButtonLabel string
}

// Controller is safe for concurrent use. Only one submission runs at a time.
type Controller struct {
	mu        sync.Mutex
	store     Store
	generator Generator
	logger    *zap.Logger

	snapshot entity.FormSnapshot
	mode     Mode
	markdown string
	errMsg   string
}

// NewController restores the last snapshot from store, falling back to
// defaults field by field.
func NewController(store Store, generator Generator, logger *zap.Logger) *Controller {
	c := &Controller{
		store:     store,
		generator: generator,
		logger:    logger,
		snapshot: entity.FormSnapshot{
			Intimacy: entity.DefaultIntimacy,
			Tone:     entity.DefaultTone,
		},
		mode: ModeIdle,
	}
	c.restore()
	return c
}

func (c *Controller) restore() {
	data, err := c.store.Load(StateKey)
	if err != nil {
		c.logger.Debug("load form state", zap.Error(err))
		return
	}
	if data == nil {
		return
	}

	var saved map[string]any
	if err := json.Unmarshal(data, &saved); err != nil {
		c.logger.Debug("ignore corrupt form state", zap.Error(err))
		return
	}

	if background, ok := saved["background"].(string); ok {
		c.snapshot.Background = background
	}
	if intimacy, ok := saved["intimacy"].(float64); ok && intimacy == math.Trunc(intimacy) && math.Abs(intimacy) <= math.MaxInt32 {
		c.snapshot.Intimacy = int(intimacy)
	}
	if tone, ok := saved["tone"].(string); ok && entity.Tone(tone).IsValid() {
		c.snapshot.Tone = entity.Tone(tone)
	}
}

func (c *Controller) SetBackground(background string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot.Background = background
	c.changed()
}

func (c *Controller) SetIntimacy(intimacy int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot.Intimacy = intimacy
	c.changed()
}

func (c *Controller) SetTone(tone entity.Tone) error {
	if !tone.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTone, tone)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot.Tone = tone
	c.changed()
	return nil
}

// changed persists the snapshot and moves to editing unless a request is in flight.
// Caller holds mu.
func (c *Controller) changed() {
	if c.mode != ModeSubmitting {
		c.mode = ModeEditing
	}
	c.persist()
}

func (c *Controller) persist() {
	data, err := json.Marshal(c.snapshot)
	if err != nil {
		c.logger.Debug("encode form state", zap.Error(err))
		return
	}
	if err := c.store.Save(StateKey, data); err != nil {
		c.logger.Debug("save form state", zap.Error(err))
	}
}

func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.canSubmit()
}

func (c *Controller) canSubmit() bool {
	return c.mode != ModeSubmitting &&
		utf8.RuneCountInString(strings.TrimSpace(c.snapshot.Background)) > minBackgroundRunes
}

// Submit sends the current snapshot and records the markdown or an error message.
// It returns ErrSubmitDisabled without sending when submission is not allowed,
// otherwise the request error, if any.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if !c.canSubmit() {
		c.mu.Unlock()
		return ErrSubmitDisabled
	}
	c.markdown = ""
	c.errMsg = ""
	c.mode = ModeSubmitting
	snapshot := c.snapshot
	c.mu.Unlock()

	markdown, err := c.generator.Generate(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.errMsg = errorMessage(err)
		c.logger.Debug("generate failed", zap.Error(err))
	} else {
		c.markdown = markdown
	}
	c.mode = ModeDisplayed

	return err
}

// errorMessage renders a request failure for the user.
func errorMessage(err error) string {
	var httpErr *pkgHTTP.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("服务异常：%d", httpErr.StatusCode)
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackErrorMessage
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	label := LabelSubmit
	if c.mode == ModeSubmitting {
		label = LabelSubmitting
	}

	return View{
		Snapshot:    c.snapshot,
		Mode:        c.mode,
		Markdown:    c.markdown,
		Error:       c.errMsg,
		CanSubmit:   c.canSubmit(),
		ButtonLabel: label,
	}
}
