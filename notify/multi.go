package notify

import (
	"context"
	"errors"

	"storyreel/types"
)

// Sender delivers one message
type Sender interface {
	Send(ctx context.Context, msg types.Message) error
}

// Multi fans a message out to every sender and joins their errors
type Multi []Sender

// Send delivers msg to all senders even when some of them fail
func (m Multi) Send(ctx context.Context, msg types.Message) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every message; it stands in when no channel is configured
type Discard struct{}

func (Discard) Send(context.Context, types.Message) error { return nil }
