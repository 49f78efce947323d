package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

const (
	EventBatchGenerated     = "marking.batch_generated"
	EventCodesStatusUpdated = "marking.codes_status_updated"
	EventBatchStatusUpdated = "marking.batch_status_updated"
)

// PrintEvent is the fan-out payload consumed by the surrounding application
// (operations dashboards, notification glue). Delivery is best effort and
// never part of a write transaction.
type PrintEvent struct {
	Type         string         `json:"type"`
	BatchID      string         `json:"batch_id,omitempty"`
	ProductCode  string         `json:"product_code,omitempty"`
	VoyageNumber string         `json:"voyage_number,omitempty"`
	Status       string         `json:"status,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	EmittedAt    time.Time      `json:"emitted_at"`
}

type PrintBus interface {
	Publish(ctx context.Context, evt PrintEvent) error
	Subscribe(ctx context.Context, onEvent func(evt PrintEvent)) error
	Close() error
}

type printBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewPrintBus(log *logger.Logger) (PrintBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_PRINT_CHANNEL"))
	if ch == "" {
		ch = "marking.print"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &printBus{
		log:     log.With("service", "RedisPrintBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *printBus) Publish(ctx context.Context, evt PrintEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("print bus not initialized")
	}
	if evt.EmittedAt.IsZero() {
		evt.EmittedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *printBus) Subscribe(ctx context.Context, onEvent func(evt PrintEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("print bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var evt PrintEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					b.log.Warn("print bus payload decode failed", "error", err)
					continue
				}
				onEvent(evt)
			}
		}
	}()
	return nil
}

func (b *printBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
