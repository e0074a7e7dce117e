package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"steadyview/internal/logging"
	"steadyview/internal/telemetry"
	"steadyview/steady"

	"github.com/IBM/sarama"
)

// SaramaDriver subscribes to the service's broadcast topic through a
// consumer group. Subscribe only spawns the consume goroutine and
// Unsubscribe only cancels it — both bounded-time, as the steady core
// requires — while Close tears the clients down for good.
type SaramaDriver struct {
	cfg   Config
	cl    sarama.Client
	group sarama.ConsumerGroup

	mu     sync.Mutex
	cancel context.CancelFunc
}

func (d *SaramaDriver) Configure(raw any) error {
	config, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("kafka-source: expected Config, got %T", raw)
	}
	d.cfg = config

	ver, err := sarama.ParseKafkaVersion(config.Version)
	if err != nil {
		return err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	if config.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if config.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = config.SASLUser, config.SASLPass
	}
	switch config.StartFrom {
	case "oldest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	if d.cl, err = sarama.NewClient(config.Brokers, sc); err != nil {
		return err
	}
	d.group, err = sarama.NewConsumerGroupFromClient(config.GroupID, d.cl)
	return err
}

func (d *SaramaDriver) Subscribe(h steady.Handler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.group == nil {
		return errors.New("kafka-source: not configured")
	}
	if d.cancel != nil {
		return errors.New("kafka-source: already subscribed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	go d.consume(ctx, h)
	return nil
}

func (d *SaramaDriver) Unsubscribe() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *SaramaDriver) Close() error {
	d.Unsubscribe()
	if d.group != nil {
		_ = d.group.Close()
	}
	if d.cl != nil {
		_ = d.cl.Close()
	}
	return nil
}

func (d *SaramaDriver) consume(ctx context.Context, h steady.Handler) {
	handler := &groupHandler{emit: h}

	for {
		if err := d.group.Consume(ctx, []string{d.cfg.Topic}, handler); err != nil {
			if ctx.Err() != nil {
				return
			}
			telemetry.SourceErrors.Inc()
			logging.L().Warn("kafka-source: consume failed", "err", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

type groupHandler struct {
	emit steady.Handler
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (*groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(
	sess sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	for {
		select {
		case <-sess.Context().Done():
			return sess.Context().Err()

		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			sample, err := decodePayload(msg.Value)
			if err != nil {
				telemetry.SourceErrors.Inc()
				logging.L().Warn("kafka-source: bad payload",
					"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "err", err)
				sess.MarkMessage(msg, "")
				continue
			}
			// Receipt time, not producer time: gate arithmetic needs one
			// monotonic clock.
			sample.At = time.Now()
			h.emit(sample)
			sess.MarkMessage(msg, "")
		}
	}
}
