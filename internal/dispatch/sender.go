package dispatch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/config"
	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
)

// HTTPSender is the net/http Sender
type HTTPSender struct {
	client *http.Client
	log    *zap.Logger
}

// Ensure HTTPSender implements Sender
var _ Sender = (*HTTPSender)(nil)

// NewHTTPSender creates a new HTTP sender
func NewHTTPSender(cfg config.Dispatch, log *zap.Logger) *HTTPSender {
	return &HTTPSender{
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		log:    log,
	}
}

// Send performs req without retrying
func (s *HTTPSender) Send(ctx context.Context, req *measurement.Request, client *domain.Client) (int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, strings.NewReader(req.Body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	for _, h := range req.Headers {
		// set by the transport from the body
		if strings.EqualFold(h.Name, "content-length") {
			continue
		}
		httpReq.Header.Set(h.Name, h.Value)
	}

	if req.ForwardClientHeaders && client != nil {
		setIfPresent(httpReq.Header, "User-Agent", client.UserAgent)
		setIfPresent(httpReq.Header, "Accept-Language", client.Locale)
		setIfPresent(httpReq.Header, "X-Forwarded-For", client.IP)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.log.Warn("Failed to close collector response body", zap.Error(err))
		}
	}()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		s.log.Debug("Failed to drain collector response body", zap.Error(err))
	}

	return resp.StatusCode, nil
}

func setIfPresent(h http.Header, name, value string) {
	if value != "" {
		h.Set(name, value)
	}
}
