package offline

import (
	"context"
	"net/http"
	"time"
)

// Sweep replays pending queue items oldest-first. An item is removed only on
// a 2xx acknowledgment; any failure leaves it pending for the next sweep, so
// delivery is at-least-once. A transport failure aborts the sweep since the
// network is evidently still down.
//
// Sweeps are single-flight: if one is already running this returns
// immediately with replayed=0.
func (c *Client) Sweep(ctx context.Context) (replayed int, err error) {
	select {
	case c.sweeping <- struct{}{}:
		defer func() { <-c.sweeping }()
	default:
		return 0, nil
	}

	items, err := c.Store.Pending()
	if err != nil {
		return 0, err
	}

	for i := range items {
		item := &items[i]

		_, status, err := c.do(ctx, item.Method, item.Path, item.Payload)
		if err != nil {
			// Still offline. Stop and retry on the next trigger.
			return replayed, nil
		}

		if status >= 200 && status < 300 {
			if err := c.Store.Ack(item.ID); err != nil {
				return replayed, err
			}
			replayed++
			continue
		}

		// Rejected for now (server error, expired token). Keep it pending.
		if status == http.StatusUnauthorized {
			return replayed, nil
		}
	}

	return replayed, nil
}

// StartAutoSync runs sweeps on a fixed interval and whenever the trigger
// channel fires (e.g. the app observing an online transition). It returns
// once ctx is cancelled.
func (c *Client) StartAutoSync(ctx context.Context, interval time.Duration, trigger <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep(ctx)
		case <-trigger:
			c.Sweep(ctx)
		}
	}
}
