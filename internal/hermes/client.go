package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/MikeSquared-Agency/FleetShift/internal/config"
)

// Client carries FleetShift's dataset and simulation events and receives
// reload requests from the data pipeline. A nil Client means the service
// runs without events.
type Client interface {
	Publish(subject string, data interface{}) error
	Subscribe(subject string, handler func(subject string, data []byte)) error
	Close()
}

// NATSClient publishes JSON events on core NATS and keeps a JetStream
// stream over the fleetshift subjects so events survive a restart.
type NATSClient struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewNATSClient(ctx context.Context, cfg config.HermesConfig, logger *slog.Logger) (*NATSClient, error) {
	nc, err := nats.Connect(cfg.URL, connectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	c := &NATSClient{conn: nc, js: js, logger: logger}
	sc := streamConfig(cfg)
	if _, err := js.CreateOrUpdateStream(ctx, sc); err != nil {
		logger.Warn("failed to ensure event stream", "stream", sc.Name, "error", err)
	}
	return c, nil
}

func connectOptions(cfg config.HermesConfig) []nats.Option {
	return []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(2 * time.Second),
		nats.Name(cfg.ConnectionName),
	}
}

func streamConfig(cfg config.HermesConfig) jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: streamSubjects,
		MaxAge:   cfg.StreamMaxAge,
	}
}

func (c *NATSClient) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *NATSClient) Subscribe(subject string, handler func(string, []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return err
	}
	c.subs = append(c.subs, sub)
	return nil
}

func (c *NATSClient) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
