// Package tap publishes a summary of every handled request on a watermill bus and logs what comes
// back out of it. The bus is in process by default and Redis Streams when an address is configured,
// which lets several app instances feed one consumer group.
package tap

import (
	"context"
	"encoding/json"
	"time"

	rstream "github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-go-golems/boltkit/pkg/app"
	"github.com/go-go-golems/boltkit/pkg/config"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Summary is what the tap publishes for a request. It carries routing data only, never form values or
// message text.
type Summary struct {
	RequestID  string    `json:"request_id"`
	Kind       string    `json:"kind"`
	UserID     string    `json:"user_id,omitempty"`
	EventType  string    `json:"event_type,omitempty"`
	ActionID   string    `json:"action_id,omitempty"`
	CallbackID string    `json:"callback_id,omitempty"`
	Command    string    `json:"command,omitempty"`
	Time       time.Time `json:"time"`
}

func Summarize(e *app.Envelope) Summary {
	s := Summary{
		RequestID: e.RequestID,
		UserID:    e.UserID,
		Time:      time.Now().UTC(),
	}
	if e.Request == nil {
		return s
	}
	s.Kind = string(e.Kind)
	s.EventType = e.EventType
	if e.Action != nil {
		s.ActionID = e.Action.ActionID
	}
	if e.Interaction != nil {
		if s.ActionID == "" {
			s.ActionID = e.Interaction.ActionID
		}
		s.CallbackID = e.Interaction.CallbackID
		if s.CallbackID == "" {
			s.CallbackID = e.Interaction.View.CallbackID
		}
	}
	if e.Command != nil {
		s.Command = e.Command.Command
	}
	return s
}

// Tap is an app.Observer and an app.Runner.
type Tap struct {
	topic  string
	pub    message.Publisher
	sub    message.Subscriber
	client *redis.Client
	group  string
}

var (
	_ app.Observer = (*Tap)(nil)
	_ app.Runner   = (*Tap)(nil)
)

// New builds the tap bus from settings.
func New(s config.TapSettings) (*Tap, error) {
	topic := s.Stream
	if topic == "" {
		topic = config.DefaultTapStream
	}
	logger := newWatermillLogger(log.Logger)

	if s.RedisAddr == "" {
		bus := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
		return &Tap{topic: topic, pub: bus, sub: bus}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: s.RedisAddr})
	marshaler := rstream.DefaultMarshallerUnmarshaller{}

	pub, err := rstream.NewPublisher(rstream.PublisherConfig{
		Client:     client,
		Marshaller: marshaler,
	}, logger)
	if err != nil {
		return nil, errors.Wrap(err, "create redis publisher")
	}
	sub, err := rstream.NewSubscriber(rstream.SubscriberConfig{
		Client:        client,
		Unmarshaller:  marshaler,
		ConsumerGroup: s.Group,
		Consumer:      s.Consumer,
	}, logger)
	if err != nil {
		return nil, errors.Wrap(err, "create redis subscriber")
	}
	return &Tap{topic: topic, pub: pub, sub: sub, client: client, group: s.Group}, nil
}

// Observe publishes the summary of e. Failures are logged; they never fail the handler.
func (t *Tap) Observe(_ context.Context, e *app.Envelope) {
	if err := t.Publish(Summarize(e)); err != nil {
		log.Warn().Err(err).Str("request_id", e.RequestID).Msg("could not publish to tap")
	}
}

func (t *Tap) Publish(s Summary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encode summary")
	}
	msg := message.NewMessage(uuid.NewString(), b)
	msg.Metadata.Set("kind", s.Kind)
	return t.pub.Publish(t.topic, msg)
}

// Run logs every summary on the bus until ctx is cancelled.
func (t *Tap) Run(ctx context.Context) error {
	if t.client != nil && t.group != "" {
		if err := EnsureGroupAtTail(ctx, t.client, t.topic, t.group); err != nil {
			return err
		}
	}
	return t.Consume(ctx, logSummary)
}

// Consume calls fn for every summary on the bus until ctx is cancelled. Messages fn fails on are
// nacked.
func (t *Tap) Consume(ctx context.Context, fn func(context.Context, Summary) error) error {
	msgs, err := t.subscribe(ctx)
	if err != nil {
		return err
	}
	return consume(ctx, msgs, fn)
}

func (t *Tap) subscribe(ctx context.Context) (<-chan *message.Message, error) {
	msgs, err := t.sub.Subscribe(ctx, t.topic)
	if err != nil {
		return nil, errors.Wrapf(err, "subscribe to %s", t.topic)
	}
	return msgs, nil
}

func consume(ctx context.Context, msgs <-chan *message.Message, fn func(context.Context, Summary) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var s Summary
			if err := json.Unmarshal(msg.Payload, &s); err != nil {
				log.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed tap message")
				msg.Ack()
				continue
			}
			if err := fn(ctx, s); err != nil {
				log.Warn().Err(err).Str("request_id", s.RequestID).Msg("tap consumer failed")
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}
}

func logSummary(_ context.Context, s Summary) error {
	log.Info().
		Str("request_id", s.RequestID).
		Str("kind", s.Kind).
		Str("user", s.UserID).
		Str("event_type", s.EventType).
		Str("action_id", s.ActionID).
		Str("callback_id", s.CallbackID).
		Str("command", s.Command).
		Msg("tap")
	return nil
}

func (t *Tap) Close() error {
	var ret error
	if err := t.pub.Close(); err != nil {
		ret = errors.Wrap(err, "close publisher")
	}
	if any(t.sub) != any(t.pub) {
		if err := t.sub.Close(); err != nil && ret == nil {
			ret = errors.Wrap(err, "close subscriber")
		}
	}
	if t.client != nil {
		if err := t.client.Close(); err != nil && ret == nil {
			ret = errors.Wrap(err, "close redis client")
		}
	}
	return ret
}
