package runtime

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"golang.org/x/sync/errgroup"
)

// SocketModeReceiver receives requests over a socket mode connection. The client needs an app-level
// token.
type SocketModeReceiver struct {
	client *socketmode.Client
}

var _ Receiver = (*SocketModeReceiver)(nil)

func NewSocketModeReceiver(api *slack.Client, opts ...socketmode.Option) *SocketModeReceiver {
	return &SocketModeReceiver{client: socketmode.New(api, opts...)}
}

func (s *SocketModeReceiver) Run(ctx context.Context, d Dispatcher) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		err := s.client.RunContext(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return errors.Wrap(err, "socket mode connection")
		}
		return nil
	})

	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case evt, ok := <-s.client.Events:
				if !ok {
					return nil
				}
				in, ok := s.incoming(evt)
				if !ok {
					continue
				}
				eg.Go(func() error {
					s.dispatch(ctx, d, in)
					return nil
				})
			}
		}
	})

	return eg.Wait()
}

func (s *SocketModeReceiver) incoming(evt socketmode.Event) (Incoming, bool) {
	var t IncomingType
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		log.Info().Msg("connecting to slack with socket mode")
		return Incoming{}, false
	case socketmode.EventTypeConnectionError:
		log.Warn().Msg("socket mode connection failed, retrying")
		return Incoming{}, false
	case socketmode.EventTypeConnected:
		log.Info().Msg("connected to slack with socket mode")
		return Incoming{}, false
	case socketmode.EventTypeEventsAPI:
		t = IncomingEventsAPI
	case socketmode.EventTypeInteractive:
		t = IncomingInteractive
	case socketmode.EventTypeSlashCommand:
		t = IncomingCommand
	default:
		return Incoming{}, false
	}
	if evt.Request == nil {
		return Incoming{}, false
	}

	req := *evt.Request
	return Incoming{
		Type: t,
		Body: req.Payload,
		Ack: func(_ context.Context, payload any) error {
			if payload == nil {
				s.client.Ack(req)
			} else {
				s.client.Ack(req, payload)
			}
			return nil
		},
	}, true
}

func (s *SocketModeReceiver) dispatch(ctx context.Context, d Dispatcher, in Incoming) {
	ack := newOnceAck(in.Ack)
	in.Ack = ack.Ack
	if in.Type == IncomingEventsAPI {
		_ = ack.Ack(ctx, nil)
	}

	if _, err := d.Dispatch(ctx, in); err != nil {
		log.Error().Err(err).Str("type", string(in.Type)).Msg("could not dispatch request")
	}
	if !ack.Acked() {
		_ = ack.Ack(ctx, nil)
	}
}
