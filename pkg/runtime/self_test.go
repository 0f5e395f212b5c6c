package runtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
)

const botMessage = `{
	"type": "event_callback",
	"event": {"type": "message", "subtype": "bot_message", "bot_id": "B1", "text": "hello", "channel": "C1", "ts": "2.0"}
}`

const botUserMessage = `{
	"type": "event_callback",
	"event": {"type": "message", "user": "UBOT", "text": "hello", "channel": "C1", "ts": "3.0"}
}`

const botReaction = `{
	"type": "event_callback",
	"event": {"type": "reaction_added", "user": "UBOT", "reaction": "tada", "item": {"type": "message", "channel": "C1", "ts": "1.0"}}
}`

const botJoined = `{
	"type": "event_callback",
	"event": {"type": "member_joined_channel", "user": "UBOT", "channel": "C1"}
}`

const userChange = `{
	"type": "event_callback",
	"event": {"type": "user_change", "user": {"id": "UBOT", "name": "boltkit"}}
}`

func countingRuntime(t *testing.T, opts ...Option) (*Runtime, *int) {
	t.Helper()
	rt := newTestRuntime(t, opts...)
	calls := 0
	count := func(context.Context, *Request) error {
		calls++
		return nil
	}
	rt.OnMessage(nil, count)
	for _, eventType := range []string{"message", "reaction_added", "member_joined_channel", "user_change"} {
		rt.OnEvent(eventType, count)
	}
	return rt, &calls
}

func TestDispatch_IgnoresEventsFromSelf(t *testing.T) {
	rt, calls := countingRuntime(t, WithBotIdentity("UBOT", "B1"))
	ctx := context.Background()

	for _, body := range []string{botMessage, botUserMessage, botReaction} {
		n, err := rt.Dispatch(ctx, Incoming{Type: IncomingEventsAPI, Body: []byte(body)})
		require.NoError(t, err)
		require.Equal(t, 0, n, body)
	}
	require.Equal(t, 0, *calls)

	n, err := rt.Dispatch(ctx, Incoming{Type: IncomingEventsAPI, Body: []byte(botJoined)})
	require.NoError(t, err)
	require.Equal(t, 1, n, "membership events are kept")

	n, err = rt.Dispatch(ctx, Incoming{Type: IncomingEventsAPI, Body: []byte(userChange)})
	require.NoError(t, err)
	require.Equal(t, 1, n, "a user object is not the sender")

	n, err = rt.Dispatch(ctx, Incoming{Type: IncomingEventsAPI, Body: []byte(messageCallback)})
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestDispatch_IgnoreSelfDisabled(t *testing.T) {
	rt, calls := countingRuntime(t, WithBotIdentity("UBOT", "B1"), WithIgnoreSelf(false))
	n, err := rt.Dispatch(context.Background(), Incoming{Type: IncomingEventsAPI, Body: []byte(botMessage)})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 2, *calls)
}

type receiverFunc func(ctx context.Context, d Dispatcher) error

func (f receiverFunc) Run(ctx context.Context, d Dispatcher) error { return f(ctx, d) }

func authTestServer(t *testing.T, body string) *slack.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth.test", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return slack.New("xoxb-test", slack.OptionAPIURL(srv.URL+"/"))
}

func TestRun_ResolvesBotIdentity(t *testing.T) {
	client := authTestServer(t, `{"ok":true,"user_id":"UBOT","bot_id":"B1"}`)

	var dispatched []int
	rt, err := New(client, WithReceiver(receiverFunc(func(ctx context.Context, d Dispatcher) error {
		for _, body := range []string{botMessage, messageCallback} {
			n, err := d.Dispatch(ctx, Incoming{Type: IncomingEventsAPI, Body: []byte(body)})
			if err != nil {
				return err
			}
			dispatched = append(dispatched, n)
		}
		return nil
	})))
	require.NoError(t, err)
	rt.OnMessage(nil, func(context.Context, *Request) error { return nil })

	require.NoError(t, rt.Run(context.Background()))
	require.Equal(t, []int{0, 1}, dispatched)
}

func TestRun_FailsWhenAuthTestFails(t *testing.T) {
	client := authTestServer(t, `{"ok":false,"error":"invalid_auth"}`)

	ran := false
	rt, err := New(client, WithReceiver(receiverFunc(func(context.Context, Dispatcher) error {
		ran = true
		return nil
	})))
	require.NoError(t, err)

	err = rt.Run(context.Background())
	require.ErrorContains(t, err, "invalid_auth")
	require.False(t, ran)
}

func TestWithBotIdentity_RejectsEmpty(t *testing.T) {
	_, err := New(nil, WithBotIdentity("", ""))
	require.Error(t, err)
}
