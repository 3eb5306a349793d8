package chaos

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrDropped is returned by the chaos publisher when an injected fault
// swallows a publish
var ErrDropped = errors.New("chaos: publish dropped")

// Chaos provides deterministic failure injection for the outbound
// publish path
type Chaos struct {
	cfg    *Config
	logger *zap.Logger
	rng    *rand.Rand
	mu     sync.Mutex
	start  time.Time
}

// New creates a new Chaos instance
func New(cfg *Config, logger *zap.Logger) *Chaos {
	c := &Chaos{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		start:  time.Now(),
	}

	// Apply profile if set
	if cfg.Profile != "" {
		dropPct, delayMin, delayMax, err := ParseProfile(cfg.Profile)
		if err != nil {
			logger.Warn("failed to parse chaos profile", zap.Error(err))
		} else {
			if dropPct > 0 {
				cfg.DropPct = dropPct
			}
			if delayMin > 0 || delayMax > 0 {
				cfg.DelayMsMin = delayMin
				cfg.DelayMsMax = delayMax
			}
		}
	}

	return c
}

// enabled checks whether injection is active, honoring the time window
func (c *Chaos) enabled() bool {
	if !c.cfg.Enabled {
		return false
	}

	if c.cfg.WindowMs > 0 {
		elapsed := time.Since(c.start).Milliseconds()
		if elapsed > int64(c.cfg.WindowMs) {
			return false
		}
	}

	return true
}

// MaybeDelay injects a random delay before a publish
func (c *Chaos) MaybeDelay(ctx context.Context, op string) error {
	if !c.enabled() {
		return nil
	}

	if c.cfg.DelayMsMin == 0 && c.cfg.DelayMsMax == 0 {
		return nil
	}

	c.mu.Lock()
	var delayMs int
	if c.cfg.DelayMsMin == c.cfg.DelayMsMax {
		delayMs = c.cfg.DelayMsMin
	} else {
		delayMs = c.cfg.DelayMsMin + c.rng.Intn(c.cfg.DelayMsMax-c.cfg.DelayMsMin+1)
	}
	c.mu.Unlock()

	if delayMs > 0 {
		c.logger.Info("chaos delay injected",
			zap.String("op", op),
			zap.Int("delay_ms", delayMs),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(delayMs) * time.Millisecond):
			return nil
		}
	}

	return nil
}

// MaybeDrop returns true if the publish should be dropped
func (c *Chaos) MaybeDrop(op string) bool {
	if !c.enabled() {
		return false
	}

	if c.cfg.DropPct == 0 {
		return false
	}

	c.mu.Lock()
	drop := c.rng.Intn(100) < c.cfg.DropPct
	c.mu.Unlock()

	if drop {
		c.logger.Info("chaos drop injected", zap.String("op", op))
	}

	return drop
}

// publisher is the outbound capability the wrapper decorates
type publisher interface {
	Publish(ctx context.Context, topic, key string, v any) error
}

// Publisher wraps an outbound publisher with fault injection. Dropped
// publishes surface as transport failures so the failure path downstream
// is exercised end to end.
type Publisher struct {
	next  publisher
	chaos *Chaos
}

// WrapPublisher decorates next with the given chaos instance
func WrapPublisher(next publisher, chaos *Chaos) *Publisher {
	return &Publisher{next: next, chaos: chaos}
}

// Publish applies delay and drop injection before delegating
func (p *Publisher) Publish(ctx context.Context, topic, key string, v any) error {
	if err := p.chaos.MaybeDelay(ctx, "publish:"+topic); err != nil {
		return err
	}
	if p.chaos.MaybeDrop("publish:" + topic) {
		return ErrDropped
	}
	return p.next.Publish(ctx, topic, key, v)
}
