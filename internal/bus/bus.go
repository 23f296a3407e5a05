package bus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/attune-labs/attune/internal/emotion"
)

// NATS subjects attune publishes and consumes.
const (
	SubjectSessionStarted = "attune.session.started"
	SubjectSessionEnded   = "attune.session.ended"
	SubjectSampleStored   = "attune.session.sample.stored"
	SubjectResolved       = "attune.session.response.resolved"
	SubjectDetectorSample = "attune.detector.sample"
)

// DetectorSample is the push-mode payload a detector publishes on
// SubjectDetectorSample as an alternative to being polled.
type DetectorSample struct {
	SessionID  string         `json:"session_id"`
	Emotions   emotion.Vector `json:"emotions"`
	Confidence float64        `json:"confidence"`
	Age        int            `json:"age,omitempty"`
	Gender     string         `json:"gender,omitempty"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

// Publish marshals data as JSON and publishes it. A nil client is a
// no-op so call sites don't have to guard the optional bus.
func (c *Client) Publish(subject string, data any) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

// SubscribeDetectorSamples registers a handler for push-mode detector
// samples. Malformed payloads are logged and dropped.
func (c *Client) SubscribeDetectorSamples(handler func(DetectorSample)) error {
	if c == nil {
		return nil
	}
	sub, err := c.conn.Subscribe(SubjectDetectorSample, func(msg *nats.Msg) {
		var ds DetectorSample
		if err := json.Unmarshal(msg.Data, &ds); err != nil {
			c.logger.Error("failed to parse detector sample", "error", err)
			return
		}
		handler(ds)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectDetectorSample, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", SubjectDetectorSample)
	return nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
