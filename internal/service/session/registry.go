package session

import (
	"sync"
	"time"

	"draw-poker/internal/metrics"
	"draw-poker/internal/service/game"
	"draw-poker/pkg/logger"

	"go.uber.org/zap"
)

const subscriberBuffer = 64

// Registry maps identities to their open connections. An identity may hold
// several connections; messages fan out to all of them. When the last one
// closes the identity gets a grace window to come back before OnExpire
// fires.
type Registry struct {
	mu       sync.Mutex
	subs     map[string]map[uint64]chan game.OutgoingMessage
	pending  map[string]*time.Timer
	nextID   uint64
	grace    time.Duration
	onExpire func(identity string)
}

func NewRegistry(grace time.Duration) *Registry {
	return &Registry{
		subs:    make(map[string]map[uint64]chan game.OutgoingMessage),
		pending: make(map[string]*time.Timer),
		grace:   grace,
	}
}

// OnExpire sets the callback run when an identity's grace window lapses.
func (r *Registry) OnExpire(fn func(identity string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onExpire = fn
}

// Subscribe opens a delivery channel for identity and cancels any pending
// expiry.
func (r *Registry) Subscribe(identity string) (uint64, <-chan game.OutgoingMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, ok := r.pending[identity]; ok {
		timer.Stop()
		delete(r.pending, identity)
		logger.Log.Info("identity reconnected", zap.String(logger.IdentityKey, identity))
	}

	r.nextID++
	id := r.nextID
	ch := make(chan game.OutgoingMessage, subscriberBuffer)
	conns, ok := r.subs[identity]
	if !ok {
		conns = make(map[uint64]chan game.OutgoingMessage)
		r.subs[identity] = conns
	}
	conns[id] = ch
	metrics.Metrics.ClientConnected()
	return id, ch
}

// Unsubscribe closes one connection's channel. Closing the last one starts
// the grace window.
func (r *Registry) Unsubscribe(identity string, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.subs[identity]
	if !ok {
		return
	}
	ch, ok := conns[id]
	if !ok {
		return
	}
	delete(conns, id)
	close(ch)
	metrics.Metrics.ClientDisconnected()

	if len(conns) > 0 {
		return
	}
	delete(r.subs, identity)
	if r.grace <= 0 {
		return
	}
	var timer *time.Timer
	timer = time.AfterFunc(r.grace, func() {
		r.expire(identity, timer)
	})
	r.pending[identity] = timer
}

func (r *Registry) expire(identity string, timer *time.Timer) {
	r.mu.Lock()
	if r.pending[identity] != timer {
		r.mu.Unlock()
		return
	}
	delete(r.pending, identity)
	fn := r.onExpire
	r.mu.Unlock()

	logger.Log.Info("reconnect grace expired", zap.String(logger.IdentityKey, identity))
	if fn != nil {
		fn(identity)
	}
}

// Deliver implements game.Deliverer. It never blocks: a subscriber whose
// buffer is full misses the message and picks up the next snapshot.
func (r *Registry) Deliver(identity string, msg game.OutgoingMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, ch := range r.subs[identity] {
		select {
		case ch <- msg:
		default:
			metrics.Metrics.DeliveryDropped()
			logger.Log.Warn("subscriber buffer full, message dropped",
				zap.String(logger.IdentityKey, identity),
				zap.Uint64("conn", id),
				zap.Int64("seq", msg.Seq),
			)
		}
	}
}

// Connected reports whether identity has at least one open connection.
func (r *Registry) Connected(identity string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[identity]) > 0
}

// Close stops every pending expiry.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for identity, timer := range r.pending {
		timer.Stop()
		delete(r.pending, identity)
	}
}
