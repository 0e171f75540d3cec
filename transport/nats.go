// Package transport exposes the decision core over NATS request/reply.
// Clients publish JSON requests to "{prefix}.understand", "{prefix}.mount"
// and "{prefix}.unmount" and receive JSON responses on the reply subject.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/parlex-ai/parlex/core"
	"github.com/parlex-ai/parlex/logging"
)

const (
	// StatusOK marks a successfully handled request.
	StatusOK = "ok"
	// StatusError marks a request that could not be handled.
	StatusError = "error"
)

// Service is the façade surface the transport needs. *parlex.Parlex
// satisfies it.
type Service interface {
	Understand(ctx context.Context, botID, text string) (core.Understanding, error)
	Sync(ctx context.Context, botID string) error
	Unmount(botID string) error
}

// Mounter mounts a bot engine. It is separate from Service because mounting
// takes engine options the transport never sets.
type Mounter func(ctx context.Context, botID string) error

// UnderstandRequest is the payload for "{prefix}.understand".
type UnderstandRequest struct {
	BotID string `json:"bot_id"`
	Text  string `json:"text"`
}

// UnderstandResponse is the reply payload for "{prefix}.understand".
type UnderstandResponse struct {
	Status string              `json:"status"`
	Error  string              `json:"error,omitempty"`
	Result *core.Understanding `json:"result,omitempty"`
}

// BotRequest is the payload for "{prefix}.mount", "{prefix}.unmount" and
// "{prefix}.sync".
type BotRequest struct {
	BotID string `json:"bot_id"`
}

// BotResponse is the reply payload for the lifecycle subjects.
type BotResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Options configures the NATS transport.
type Options struct {
	// Name is the NATS client name.
	Name string

	// SubjectPrefix prefixes all subscribed subjects.
	SubjectPrefix string

	// Timeout bounds the handling of a single request.
	Timeout time.Duration

	// Logger provides structured logging. Defaults to a no-op logger.
	Logger logging.Logger
}

// NATSTransport subscribes to the decision core subjects on a NATS
// connection and dispatches requests to the service.
type NATSTransport struct {
	conn    *nats.Conn
	opts    Options
	handler handler
	subs    []*nats.Subscription
}

// NewNATSTransport connects to the NATS server and prepares the transport.
// Call Start to subscribe.
func NewNATSTransport(url string, service Service, mount Mounter, optFns ...func(o *Options)) (*NATSTransport, error) {
	opts := Options{
		Name:          "parlexd",
		SubjectPrefix: "parlex",
		Timeout:       30 * time.Second,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	conn, err := nats.Connect(url,
		nats.Name(opts.Name),
		nats.Timeout(opts.Timeout),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	opts.Logger.Info("connected to NATS", "url", url)

	h := handler{service: service, mount: mount, timeout: opts.Timeout, logger: opts.Logger}
	return &NATSTransport{conn: conn, opts: opts, handler: h}, nil
}

// Start subscribes to the understand and lifecycle subjects.
func (t *NATSTransport) Start() error {
	subjects := map[string]nats.MsgHandler{
		t.subject("understand"): t.handleUnderstand,
		t.subject("mount"):      t.handleMount,
		t.subject("unmount"):    t.handleUnmount,
		t.subject("sync"):       t.handleSync,
	}
	for subject, handler := range subjects {
		sub, err := t.conn.Subscribe(subject, handler)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		t.subs = append(t.subs, sub)
		t.opts.Logger.Info("subscribed", "subject", subject)
	}
	return nil
}

// Close drains the subscriptions and closes the connection.
func (t *NATSTransport) Close() error {
	for _, sub := range t.subs {
		_ = sub.Unsubscribe()
	}
	if t.conn != nil {
		t.conn.Close()
	}
	return nil
}

func (t *NATSTransport) subject(op string) string {
	return t.opts.SubjectPrefix + "." + op
}

func (t *NATSTransport) handleUnderstand(msg *nats.Msg) {
	t.respond(msg, t.handler.understand(msg.Data))
}

func (t *NATSTransport) handleMount(msg *nats.Msg) {
	t.respond(msg, t.handler.mountBot(msg.Data))
}

func (t *NATSTransport) handleUnmount(msg *nats.Msg) {
	t.respond(msg, t.handler.unmountBot(msg.Data))
}

func (t *NATSTransport) handleSync(msg *nats.Msg) {
	t.respond(msg, t.handler.syncBot(msg.Data))
}

// handler turns raw request payloads into response payloads. It carries no
// NATS state so the dispatch logic is testable without a connection.
type handler struct {
	service Service
	mount   Mounter
	timeout time.Duration
	logger  logging.Logger
}

func (h handler) understand(data []byte) UnderstandResponse {
	var req UnderstandRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return UnderstandResponse{Status: StatusError, Error: "invalid request format"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	result, err := h.service.Understand(ctx, req.BotID, req.Text)
	if err != nil {
		h.logger.Warn("understand failed", "bot_id", req.BotID, "error", err)
		return UnderstandResponse{Status: StatusError, Error: err.Error()}
	}
	return UnderstandResponse{Status: StatusOK, Result: &result}
}

func (h handler) mountBot(data []byte) BotResponse {
	var req BotRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return BotResponse{Status: StatusError, Error: "invalid request format"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.mount(ctx, req.BotID); err != nil {
		h.logger.Warn("mount failed", "bot_id", req.BotID, "error", err)
		return BotResponse{Status: StatusError, Error: err.Error()}
	}
	return BotResponse{Status: StatusOK}
}

func (h handler) unmountBot(data []byte) BotResponse {
	var req BotRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return BotResponse{Status: StatusError, Error: "invalid request format"}
	}

	if err := h.service.Unmount(req.BotID); err != nil {
		return BotResponse{Status: StatusError, Error: err.Error()}
	}
	return BotResponse{Status: StatusOK}
}

func (h handler) syncBot(data []byte) BotResponse {
	var req BotRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return BotResponse{Status: StatusError, Error: "invalid request format"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.service.Sync(ctx, req.BotID); err != nil {
		return BotResponse{Status: StatusError, Error: err.Error()}
	}
	return BotResponse{Status: StatusOK}
}

func (t *NATSTransport) respond(msg *nats.Msg, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		t.opts.Logger.Error("failed to marshal response", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		t.opts.Logger.Warn("failed to send response", "error", err)
	}
}
