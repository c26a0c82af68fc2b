// Package notify holds the single transient notification shown to the user.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
)

// Center keeps at most one current notification. A new notification
// supersedes the previous one; a TTL, when set, dismisses it automatically.
type Center struct {
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	current *domain.Notification
	seq     uint64
	timer   *time.Timer
	subs    map[int]func(*domain.Notification)
	nextSub int
}

func New(ttl time.Duration, logger *zap.Logger) *Center {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Center{
		ttl:    ttl,
		logger: logger,
		subs:   make(map[int]func(*domain.Notification)),
	}
}

// Notify replaces the current notification.
func (c *Center) Notify(kind domain.NotificationKind, message string) {
	n := &domain.Notification{Message: message, Kind: kind}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.current = n
	c.stopTimerLocked()
	if c.ttl > 0 {
		c.timer = time.AfterFunc(c.ttl, func() { c.expire(seq) })
	}
	subs := c.subscribersLocked()
	c.mu.Unlock()

	if kind == domain.NotificationError {
		c.logger.Debug("error notification", zap.String("message", message))
	}
	publish(subs, n)
}

func (c *Center) Success(message string) { c.Notify(domain.NotificationSuccess, message) }
func (c *Center) Error(message string)   { c.Notify(domain.NotificationError, message) }
func (c *Center) Info(message string)    { c.Notify(domain.NotificationInfo, message) }
func (c *Center) Warning(message string) { c.Notify(domain.NotificationWarning, message) }

// Current returns a copy of the visible notification, or nil.
func (c *Center) Current() *domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	n := *c.current
	return &n
}

// Dismiss clears the visible notification.
func (c *Center) Dismiss() {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.seq++
	c.stopTimerLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	publish(subs, nil)
}

// Subscribe registers fn for every change; nil means dismissed.
func (c *Center) Subscribe(fn func(*domain.Notification)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Close stops a pending auto-dismiss.
func (c *Center) Close() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.mu.Unlock()
}

func (c *Center) expire(seq uint64) {
	c.mu.Lock()
	if seq != c.seq || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.timer = nil
	subs := c.subscribersLocked()
	c.mu.Unlock()

	publish(subs, nil)
}

func (c *Center) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Center) subscribersLocked() []func(*domain.Notification) {
	subs := make([]func(*domain.Notification), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

func publish(subs []func(*domain.Notification), n *domain.Notification) {
	for _, fn := range subs {
		if n == nil {
			fn(nil)
			continue
		}
		cp := *n
		fn(&cp)
	}
}
