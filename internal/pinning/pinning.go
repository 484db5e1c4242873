// Package pinning uploads content to a content-addressed store before it is recorded on chain.
package pinning

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"contentproof/internal/config"
	"contentproof/internal/storage"
)

const (
	ProviderNone   = "none"
	ProviderPinata = "pinata"
	ProviderKubo   = "kubo"
	ProviderMinIO  = "minio"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 1 << 20

var ErrEmptyContent = errors.New("pinning: empty content")

// Pinner uploads bytes and returns the content identifier the provider assigned.
type Pinner interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	// Gateway returns a URL the content can be retrieved from.
	Gateway(ctx context.Context, cid string) (string, error)
	Name() string
}

// UploadError is returned for any non-success provider response.
type UploadError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *UploadError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("pinning: %s upload failed: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("pinning: %s upload failed (status %d): %s", e.Provider, e.Status, e.Message)
}

func (e *UploadError) Unwrap() error { return e.Err }

// NewHTTPClient returns the traced client shared by the HTTP providers.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// New builds the configured provider. It returns a nil Pinner when pinning is disabled.
func New(ctx context.Context, cfg config.PinningConfig, minioCfg config.MinIOConfig) (Pinner, error) {
	client := NewHTTPClient(cfg.Timeout)

	switch cfg.Provider {
	case ProviderNone, "":
		return nil, nil
	case ProviderPinata:
		return NewPinata(client, cfg.PinataURL, cfg.PinataJWT, cfg.GatewayURL), nil
	case ProviderKubo:
		return NewKubo(client, cfg.KuboURL, cfg.GatewayURL), nil
	case ProviderMinIO:
		store, err := storage.NewMinIO(ctx, minioCfg, client.Transport)
		if err != nil {
			return nil, err
		}
		return NewObjectPinner(store), nil
	default:
		return nil, fmt.Errorf("pinning: unsupported provider %q", cfg.Provider)
	}
}

// joinGateway appends cid to a gateway base URL.
func joinGateway(base, cid string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + cid
}
