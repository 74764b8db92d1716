package common

import (
	"net/http"

	"github.com/futig/partner-backend/internal/config"
	pkgHTTP "github.com/futig/partner-backend/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds a JSON connector against cfg.Url. Bearer auth is
// added only when cfg.Token is set.
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	opts := baseOptions(cfg)
	if cfg.Token != "" {
		opts = append(opts, pkgHTTP.WithAuthToken(cfg.Token))
	}

	return pkgHTTP.NewConnector(connCfg, opts...)
}

// NewBaseClient builds a bare *http.Client for SDKs that issue their own requests
// and set their own Authorization header. headers are added to every request.
func NewBaseClient(cfg config.HTTPClientConfig, headers map[string]string) *http.Client {
	opts := baseOptions(cfg)
	if len(headers) > 0 {
		opts = append(opts, pkgHTTP.WithHeaders(headers))
	}

	return pkgHTTP.NewClient(opts...)
}

func baseOptions(cfg config.HTTPClientConfig) []pkgHTTP.HttpOpts {
	return []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithTLSHandshakeTimeout(cfg.TLSHandshakeTimeout),
		pkgHTTP.WithRequestLogging(),
	}
}
