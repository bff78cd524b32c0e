package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/annel0/arches-terrain/internal/logging"
	"github.com/nats-io/nats.go"
)

// NATSInvalidator реализует Invalidator поверх NATS Pub/Sub.
// Позволяет нескольким экземплярам terrad с локальными кэшами
// согласованно сбрасывать тайлы.
type NATSInvalidator struct {
	conn    *nats.Conn
	config  *InvalidatorConfig
	subject string
	nodeID  string

	mu           sync.Mutex
	subscription *nats.Subscription
	handler      Handler

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	publishedCount int64
	receivedCount  int64
	errorsCount    int64
}

// InvalidatorConfig содержит конфигурацию для NATS invalidator.
type InvalidatorConfig struct {
	NATSURL string
	Subject string

	MaxReconnects  int
	ReconnectWait  time.Duration
	HandlerTimeout time.Duration
}

// NewNATSInvalidator подключается к NATS
func NewNATSInvalidator(config *InvalidatorConfig, nodeID string) (*NATSInvalidator, error) {
	// Настройки по умолчанию
	if config.Subject == "" {
		config.Subject = "terra.tiles.invalidation"
	}
	if config.MaxReconnects == 0 {
		config.MaxReconnects = 10
	}
	if config.ReconnectWait == 0 {
		config.ReconnectWait = 2 * time.Second
	}
	if config.HandlerTimeout == 0 {
		config.HandlerTimeout = 5 * time.Second
	}

	log := logging.GetStorageLogger()
	opts := []nats.Option{
		nats.Name("terrad-" + nodeID),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(config.NATSURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("NATS invalidator initialized: %s (subject: %s, node: %s)", config.NATSURL, config.Subject, nodeID)
	return &NATSInvalidator{
		conn:    conn,
		config:  config,
		subject: config.Subject,
		nodeID:  nodeID,
		stopCh:  make(chan struct{}),
	}, nil
}

func (n *NATSInvalidator) NodeID() string { return n.nodeID }

// Publish отправляет уведомление другим узлам
func (n *NATSInvalidator) Publish(ctx context.Context, inv Invalidation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	inv.NodeID = n.nodeID
	if inv.Timestamp.IsZero() {
		inv.Timestamp = time.Now()
	}

	data, err := json.Marshal(inv)
	if err != nil {
		atomic.AddInt64(&n.errorsCount, 1)
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		atomic.AddInt64(&n.errorsCount, 1)
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	atomic.AddInt64(&n.publishedCount, 1)
	return nil
}

// Subscribe подписывается на уведомления до отмены ctx или Close
func (n *NATSInvalidator) Subscribe(ctx context.Context, handler Handler) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subscription != nil {
		return errors.New("already subscribed to invalidations")
	}
	n.handler = handler

	sub, err := n.conn.Subscribe(n.subject, n.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to invalidations: %w", err)
	}
	n.subscription = sub

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		select {
		case <-ctx.Done():
		case <-n.stopCh:
		}
		n.unsubscribe()
	}()
	return nil
}

func (n *NATSInvalidator) handleMessage(msg *nats.Msg) {
	atomic.AddInt64(&n.receivedCount, 1)
	log := logging.GetStorageLogger()

	var inv Invalidation
	if err := json.Unmarshal(msg.Data, &inv); err != nil {
		atomic.AddInt64(&n.errorsCount, 1)
		log.Error("Failed to unmarshal invalidation message: %v", err)
		return
	}
	if inv.NodeID == n.nodeID {
		return
	}

	n.mu.Lock()
	handler := n.handler
	n.mu.Unlock()
	if handler == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.config.HandlerTimeout)
	defer cancel()
	if err := handler(ctx, inv); err != nil {
		atomic.AddInt64(&n.errorsCount, 1)
		log.Error("Invalidation handler failed (from %s): %v", inv.NodeID, err)
	}
}

func (n *NATSInvalidator) unsubscribe() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subscription != nil {
		if err := n.subscription.Unsubscribe(); err != nil {
			logging.GetStorageLogger().Error("Failed to unsubscribe from invalidations: %v", err)
		}
		n.subscription = nil
	}
}

// Close закрывает соединение с NATS
func (n *NATSInvalidator) Close() error {
	n.once.Do(func() {
		close(n.stopCh)
		n.wg.Wait()
		n.unsubscribe()
		n.conn.Close()
	})
	return nil
}

// Stats возвращает счётчики публикаций и ошибок
func (n *NATSInvalidator) Stats() map[string]interface{} {
	return map[string]interface{}{
		"published_count": atomic.LoadInt64(&n.publishedCount),
		"received_count":  atomic.LoadInt64(&n.receivedCount),
		"errors_count":    atomic.LoadInt64(&n.errorsCount),
		"connected":       n.conn.IsConnected(),
	}
}
