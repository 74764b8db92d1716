package partner

import (
	"context"
	"net/http"

	"github.com/futig/partner-backend/internal/config"
	"github.com/futig/partner-backend/internal/entity"
	"github.com/futig/partner-backend/internal/integration/common"
	pkgHTTP "github.com/futig/partner-backend/pkg/http"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const generatePath = "/api/generate"

// Connector calls the suggestion server on behalf of the form client.
type Connector struct {
	conn   *pkgHTTP.Connector
	logger *zap.Logger
}

func NewConnector(cfg config.ClientConfig, logger *zap.Logger) *Connector {
	return &Connector{
		conn:   common.NewBaseConnector(cfg.HTTPClientConfig(), logger),
		logger: logger,
	}
}

// Generate posts the snapshot and returns the markdown. A non-2xx answer is
// returned as *pkgHTTP.HTTPError, a transport failure as *pkgHTTP.NetworkError.
func (c *Connector) Generate(ctx context.Context, snapshot entity.FormSnapshot) (string, error) {
	requestID := uuid.NewString()

	c.logger.Debug("sending generate request",
		zap.String("request_id", requestID),
		zap.Int("intimacy", snapshot.Intimacy),
		zap.String("tone", string(snapshot.Tone)),
	)

	var resp entity.GenerateResponse
	err := c.conn.DoRequest(ctx, http.MethodPost, generatePath, snapshot, &resp,
		pkgHTTP.WithHeader("X-Request-ID", requestID),
	)
	if err != nil {
		c.logger.Debug("generate request failed", zap.String("request_id", requestID), zap.Error(err))
		return "", err
	}

	return resp.Markdown, nil
}
