package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// LocalBus — in-process шина инвалидаций для одного процесса и тестов
type LocalBus struct {
	mu    sync.RWMutex
	nodes map[string]Handler
}

// NewLocalBus создаёт пустую шину
func NewLocalBus() *LocalBus {
	return &LocalBus{nodes: make(map[string]Handler)}
}

// Node возвращает Invalidator узла nodeID на этой шине
func (b *LocalBus) Node(nodeID string) Invalidator {
	return &localNode{bus: b, id: nodeID}
}

type localNode struct {
	bus *LocalBus
	id  string
}

func (n *localNode) NodeID() string { return n.id }

// Publish синхронно доставляет сообщение всем остальным узлам
func (n *localNode) Publish(ctx context.Context, inv Invalidation) error {
	inv.NodeID = n.id
	if inv.Timestamp.IsZero() {
		inv.Timestamp = time.Now()
	}

	n.bus.mu.RLock()
	handlers := make([]Handler, 0, len(n.bus.nodes))
	for id, h := range n.bus.nodes {
		if id != n.id {
			handlers = append(handlers, h)
		}
	}
	n.bus.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, inv); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *localNode) Subscribe(ctx context.Context, handler Handler) error {
	n.bus.mu.Lock()
	defer n.bus.mu.Unlock()
	if _, ok := n.bus.nodes[n.id]; ok {
		return errors.New("already subscribed to invalidations")
	}
	n.bus.nodes[n.id] = handler

	go func() {
		<-ctx.Done()
		n.Close()
	}()
	return nil
}

func (n *localNode) Close() error {
	n.bus.mu.Lock()
	delete(n.bus.nodes, n.id)
	n.bus.mu.Unlock()
	return nil
}
