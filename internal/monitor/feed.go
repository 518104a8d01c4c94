package monitor

import (
	"context"
	"encoding/json"
	"io"
)

// StreamFeed subscribes to the broadcaster and writes one JSON object per
// message to w, newline-delimited. The first object written is always the
// current monitoring status. The transport carrying w (socket, pipe, HTTP
// response) is the caller's concern.
//
// StreamFeed returns when ctx is canceled, the broadcaster closes the
// subscription, or a write fails (a disconnected consumer); the
// subscription is cleaned up in all cases.
func StreamFeed(ctx context.Context, b *Broadcaster, w io.Writer) error {
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := enc.Encode(msg); err != nil {
				return err
			}
		}
	}
}
