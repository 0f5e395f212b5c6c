package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack/socketmode"
	"github.com/stretchr/testify/require"
)

type dispatcherFunc func(ctx context.Context, in Incoming) (int, error)

func (f dispatcherFunc) Dispatch(ctx context.Context, in Incoming) (int, error) {
	return f(ctx, in)
}

func TestSocketMode_Incoming(t *testing.T) {
	s := &SocketModeReceiver{}

	_, ok := s.incoming(socketmode.Event{Type: socketmode.EventTypeConnecting})
	require.False(t, ok)
	_, ok = s.incoming(socketmode.Event{Type: socketmode.EventTypeEventsAPI})
	require.False(t, ok, "no request to answer")

	cases := map[socketmode.EventType]IncomingType{
		socketmode.EventTypeEventsAPI:    IncomingEventsAPI,
		socketmode.EventTypeInteractive:  IncomingInteractive,
		socketmode.EventTypeSlashCommand: IncomingCommand,
	}
	for evtType, want := range cases {
		in, ok := s.incoming(socketmode.Event{
			Type:    evtType,
			Request: &socketmode.Request{EnvelopeID: "E1", Payload: json.RawMessage(shortcut)},
		})
		require.True(t, ok, evtType)
		require.Equal(t, want, in.Type)
		require.JSONEq(t, shortcut, string(in.Body))
		require.NotNil(t, in.Ack)
	}
}

func TestSocketMode_DispatchAcks(t *testing.T) {
	s := &SocketModeReceiver{}
	ctx := context.Background()

	t.Run("events are acked before dispatch", func(t *testing.T) {
		var acks []any
		ackedBefore := false
		in := Incoming{Type: IncomingEventsAPI, Ack: func(_ context.Context, p any) error {
			acks = append(acks, p)
			return nil
		}}
		s.dispatch(ctx, dispatcherFunc(func(context.Context, Incoming) (int, error) {
			ackedBefore = len(acks) == 1
			return 0, nil
		}), in)
		require.True(t, ackedBefore)
		require.Equal(t, []any{nil}, acks)
	})

	t.Run("unacked requests get an empty ack", func(t *testing.T) {
		var acks []any
		in := Incoming{Type: IncomingInteractive, Ack: func(_ context.Context, p any) error {
			acks = append(acks, p)
			return nil
		}}
		s.dispatch(ctx, dispatcherFunc(func(context.Context, Incoming) (int, error) {
			return 0, nil
		}), in)
		require.Equal(t, []any{nil}, acks)
	})

	t.Run("first ack wins", func(t *testing.T) {
		var acks []any
		in := Incoming{Type: IncomingInteractive, Ack: func(_ context.Context, p any) error {
			acks = append(acks, p)
			return nil
		}}
		s.dispatch(ctx, dispatcherFunc(func(ctx context.Context, in Incoming) (int, error) {
			require.NoError(t, in.Ack(ctx, map[string]string{"response_action": "clear"}))
			require.NoError(t, in.Ack(ctx, "ignored"))
			return 1, nil
		}), in)
		require.Equal(t, []any{map[string]string{"response_action": "clear"}}, acks)
	})
}

func TestSocketMode_UndecodableCommandIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	rt := newTestRuntime(t)
	called := false
	rt.OnCommand("/deploy", func(context.Context, *Request) error {
		called = true
		return nil
	})

	// Slack always sends is_enterprise_install; slack-go refuses commands without it.
	body := `{"command": "/deploy", "text": "api", "user_id": "U7"}`
	_, err := rt.Dispatch(context.Background(), Incoming{Type: IncomingCommand, Body: []byte(body)})
	require.ErrorContains(t, err, "decode slash command")

	acked := 0
	s := &SocketModeReceiver{}
	s.dispatch(context.Background(), rt, Incoming{Type: IncomingCommand, Body: []byte(body), Ack: func(context.Context, any) error {
		acked++
		return nil
	}})
	require.False(t, called)
	require.Equal(t, 1, acked)
	require.Contains(t, buf.String(), "could not dispatch request")
	require.Contains(t, buf.String(), "decode slash command")
}
