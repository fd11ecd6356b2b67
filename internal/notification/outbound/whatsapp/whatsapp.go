// Package whatsapp sends rendered messages through an HTTP WhatsApp gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/clock"
	"github.com/shandysiswandi/gonotif/internal/pkg/hash"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	headerSignature = "X-Signature"
	headerTimestamp = "X-Timestamp"
	maxErrorBody    = 512
)

type Config struct {
	// URL receives a POST per message.
	URL   string
	Token string
	// Secret signs "<unix>.<body>" with HMAC-SHA256 when set.
	Secret  string
	Timeout time.Duration
}

// Gateway is a ChannelSender backed by an HTTP gateway.
//
// Outcome mapping: 2xx is success. Network errors, timeouts, 408, 425, 429 and
// 5xx are transient. Any other status means the gateway refused the message
// and is permanent.
type Gateway struct {
	cfg    Config
	client *http.Client
	signer *hash.HMACSHA256
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

func NewGateway(cfg Config, clk clock.Clocker, ins instrument.Instrumentation) (*Gateway, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("whatsapp: gateway url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	g := &Gateway{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		clock: clk,
		ins:   ins,
	}
	if cfg.Secret != "" {
		g.signer = hash.NewHMACSHA256(cfg.Secret)
	}

	return g, nil
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

func (g *Gateway) Send(ctx context.Context, phone, body string) entity.SendResult {
	ctx, span := g.ins.Tracer("notification.outbound.whatsapp").Start(ctx, "Gateway.Send")
	defer span.End()

	res := g.send(ctx, phone, body)

	span.SetAttributes(attribute.String("send.result", res.Status.String()))
	if res.Status != entity.SendSuccess {
		span.SetStatus(codes.Error, res.Detail)
	}
	return res
}

func (g *Gateway) send(ctx context.Context, phone, body string) entity.SendResult {
	payload, err := json.Marshal(sendRequest{To: phone, Body: body})
	if err != nil {
		return entity.SendResult{Status: entity.SendPermanent, Detail: "encode request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return entity.SendResult{Status: entity.SendPermanent, Detail: "build request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.Token)
	}
	if g.signer != nil {
		now := g.clock.Now()
		req.Header.Set(headerTimestamp, strconv.FormatInt(now.Unix(), 10))
		req.Header.Set(headerSignature, g.signer.SignTimestamped(now, payload))
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return entity.SendResult{Status: entity.SendTransient, Detail: "gateway unreachable: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var out sendResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return entity.SendResult{Status: entity.SendSuccess, ProviderMessageID: out.MessageID}
	}

	detail := out.Error
	if detail == "" {
		detail = strings.TrimSpace(string(raw))
	}
	if len(detail) > maxErrorBody {
		detail = detail[:maxErrorBody]
	}
	detail = fmt.Sprintf("gateway status %d: %s", resp.StatusCode, detail)
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		detail += " (retry after " + ra + ")"
	}

	if isTransientStatus(resp.StatusCode) {
		return entity.SendResult{Status: entity.SendTransient, Detail: detail}
	}
	return entity.SendResult{Status: entity.SendPermanent, Detail: detail}
}

func isTransientStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return true
	default:
		return code >= 500
	}
}
