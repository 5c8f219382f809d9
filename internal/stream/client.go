// Package stream keeps the single server-push subscription of a session
// alive and feeds decoded events to a sink.
package stream

import (
	"context"
	"time"

	"github.com/r3labs/sse/v2"
	"gopkg.in/cenkalti/backoff.v1"

	"github.com/pders01/rdash/internal/config"
	"github.com/pders01/rdash/internal/debuglog"
	"github.com/pders01/rdash/internal/reconcile"
)

// Sink receives decoded events in the order the transport yields them.
type Sink func(reconcile.Event)

type Client struct {
	url       string
	userAgent string
	cfg       config.StreamConfig
}

func NewClient(url, userAgent string, cfg config.StreamConfig) *Client {
	return &Client{url: url, userAgent: userAgent, cfg: cfg}
}

func (c *Client) URL() string {
	return c.url
}

// Run subscribes and blocks until ctx is cancelled. Transport errors are
// logged and retried with exponential backoff; if the subscription ends
// anyway (e.g. the server closes the stream cleanly) it is re-established
// after the configured delay.
func (c *Client) Run(ctx context.Context, sink Sink) error {
	sc := sse.NewClient(c.url)
	if c.userAgent != "" {
		sc.Headers["User-Agent"] = c.userAgent
	}
	sc.ReconnectNotify = func(err error, next time.Duration) {
		debuglog.WithFields(map[string]interface{}{
			"url":  c.url,
			"next": next,
		}).Warnf("stream: connection lost: %v", err)
	}
	sc.OnDisconnect(func(*sse.Client) {
		debuglog.Infof("stream: disconnected from %s", c.url)
	})
	sc.OnConnect(func(*sse.Client) {
		debuglog.Infof("stream: connected to %s", c.url)
	})

	for {
		sc.ReconnectStrategy = c.backoff(ctx)

		err := sc.SubscribeRawWithContext(ctx, func(ev *sse.Event) {
			if e, ok := Decode(ev); ok {
				sink(e)
			}
		})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			debuglog.Warnf("stream: subscription ended: %v", err)
		} else {
			debuglog.Infof("stream: server closed the stream")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.ResubscribeDelay):
		}
	}
}

func (c *Client) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.cfg.ReconnectMin > 0 {
		b.InitialInterval = c.cfg.ReconnectMin
	}
	if c.cfg.ReconnectMax > 0 {
		b.MaxInterval = c.cfg.ReconnectMax
	}
	b.MaxElapsedTime = 0
	return &contextBackOff{BackOff: b, ctx: ctx}
}

// contextBackOff stops retrying once the session context is done.
type contextBackOff struct {
	backoff.BackOff
	ctx context.Context
}

func (b *contextBackOff) NextBackOff() time.Duration {
	if b.ctx.Err() != nil {
		return backoff.Stop
	}
	return b.BackOff.NextBackOff()
}

// Start runs the client in its own goroutine and delivers events on the
// returned channel. The channel is closed when ctx is cancelled.
func (c *Client) Start(ctx context.Context) <-chan reconcile.Event {
	out := make(chan reconcile.Event, 64)
	go func() {
		defer close(out)
		_ = c.Run(ctx, func(e reconcile.Event) {
			select {
			case out <- e:
			case <-ctx.Done():
			}
		})
	}()
	return out
}
