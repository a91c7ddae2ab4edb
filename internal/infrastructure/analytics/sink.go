package analytics

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"txprepare/internal/app/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPSink posts preparation events to an analytics collector. Delivery is
// best effort: failures are logged and swallowed so preparation never blocks
// on analytics.
type HTTPSink struct {
	client       *fasthttp.Client
	collectorURL string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewHTTPSink creates a new HTTPSink posting to collectorURL.
func NewHTTPSink(collectorURL string, timeout time.Duration, logger *zap.Logger) *HTTPSink {
	return &HTTPSink{
		client:       &fasthttp.Client{},
		collectorURL: collectorURL,
		timeout:      timeout,
		logger:       logger.Named("AnalyticsSink"),
	}
}

// Track posts the event to the collector.
func (s *HTTPSink) Track(ctx context.Context, event port.PreparationEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal analytics event", zap.String("event", event.Name), zap.Error(err))
		return
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(s.collectorURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		err = s.client.DoDeadline(req, resp, deadline)
	} else {
		err = s.client.DoTimeout(req, resp, s.timeout)
	}
	if err != nil {
		s.logger.Warn("Failed to deliver analytics event",
			zap.String("event", event.Name),
			zap.String("origin", event.Origin),
			zap.Error(err))
		return
	}
	if resp.StatusCode() >= fasthttp.StatusBadRequest {
		s.logger.Warn("Analytics collector rejected event",
			zap.String("event", event.Name),
			zap.Int("statusCode", resp.StatusCode()))
		return
	}
	s.logger.Debug("Delivered analytics event",
		zap.String("event", event.Name),
		zap.String("origin", event.Origin),
		zap.String("networkId", event.NetworkID))
}

// NopSink discards events; used when no collector is configured.
type NopSink struct{}

// Track implements port.AnalyticsSink.
func (NopSink) Track(ctx context.Context, event port.PreparationEvent) {}
