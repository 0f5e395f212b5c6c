package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-go-golems/boltkit/pkg/app"
	"github.com/go-go-golems/boltkit/pkg/blockkit"
	"github.com/go-go-golems/boltkit/pkg/runtime"
	"github.com/go-go-golems/boltkit/pkg/views"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestHomeBlocks(t *testing.T) {
	h := newHome("Ada")
	require.NoError(t, h.Compose(context.Background(), "Ada", time.UnixMilli(1700000000123)))
	require.Len(t, h.Blocks, 4)
	require.Equal(t, "Hello Ada", h.Blocks[0].(blockkit.HeaderBlock).Text.Text)

	ctxBlock := h.Blocks[3].(blockkit.ContextBlock)
	text := ctxBlock.Elements[0].(blockkit.TextObject)
	require.Equal(t, blockkit.Mrkdwn, text.Type)
	require.Equal(t, "Last rendered <!date^1700000000^{date_short_pretty} {time_secs}|Error displaying date>", text.Text)
}

func TestRender_JSONAndYAMLAgree(t *testing.T) {
	doc := newSettingsModal()
	require.NoError(t, doc.Compose(context.Background()))

	var jsonOut, yamlOut bytes.Buffer
	require.NoError(t, writeDocument(&jsonOut, doc.Snapshot(), "json"))
	require.NoError(t, writeDocument(&yamlOut, doc.Snapshot(), "yaml"))

	var fromJSON, fromYAML map[string]any
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &fromJSON))
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &fromYAML))
	require.Equal(t, "modal", fromJSON["type"])
	require.Equal(t, fromJSON["callback_id"], fromYAML["callback_id"])
	require.Len(t, fromYAML["blocks"], 4)

	require.Error(t, writeDocument(&jsonOut, doc.Snapshot(), "xml"))
}

func TestFormatDateCommand(t *testing.T) {
	cmd := newFormatDateCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"0"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "<!date^0^{date_short_pretty} {time_secs}|Error displaying date>\n", out.String())
}

type capturingViews struct {
	publish []views.PublishRequest
	open    []views.OpenRequest
}

func (c *capturingViews) PublishView(_ context.Context, req views.PublishRequest) (*slack.ViewResponse, error) {
	c.publish = append(c.publish, req)
	return &slack.ViewResponse{}, nil
}

func (c *capturingViews) OpenView(_ context.Context, req views.OpenRequest) (*slack.ViewResponse, error) {
	c.open = append(c.open, req)
	return &slack.ViewResponse{}, nil
}

func (c *capturingViews) UpdateView(context.Context, views.UpdateRequest) (*slack.ViewResponse, error) {
	return &slack.ViewResponse{}, nil
}

func (c *capturingViews) PushView(context.Context, views.PushRequest) (*slack.ViewResponse, error) {
	return &slack.ViewResponse{}, nil
}

func TestDemoFlow(t *testing.T) {
	rt, err := runtime.New(nil)
	require.NoError(t, err)
	client := &capturingViews{}
	_, err = app.New(app.Schema{
		Listeners: []func(*app.App){registerListeners},
		Handlers:  []func(*app.App){registerHandlers},
	}, app.WithRuntime(rt), app.WithViewsClient(client))
	require.NoError(t, err)

	ack := func(context.Context, any) error { return nil }
	ctx := context.Background()

	_, err = rt.Dispatch(ctx, runtime.Incoming{Type: runtime.IncomingEventsAPI, Ack: ack, Body: []byte(`{
		"type": "event_callback",
		"event": {"type": "app_home_opened", "user": "U1", "channel": "D1", "tab": "home"}}`)})
	require.NoError(t, err)
	require.Len(t, client.publish, 1)
	require.Equal(t, "U1", client.publish[0].UserID)

	_, err = rt.Dispatch(ctx, runtime.Incoming{Type: runtime.IncomingInteractive, Ack: ack, Body: []byte(`{
		"type": "block_actions", "user": {"id": "U1"}, "trigger_id": "T.1",
		"actions": [{"type": "button", "action_id": "open_settings", "block_id": "b1"}]}`)})
	require.NoError(t, err)
	require.Len(t, client.open, 1)
	require.Equal(t, "T.1", client.open[0].TriggerID)
	require.Equal(t, settingsCallbackID, client.open[0].View.CallbackID)

	_, err = rt.Dispatch(ctx, runtime.Incoming{Type: runtime.IncomingInteractive, Ack: ack, Body: []byte(`{
		"type": "view_submission", "user": {"id": "U1"},
		"view": {"id": "V1", "callback_id": "settings", "state": {"values": {
			"name": {"name_input": {"type": "plain_text_input", "value": "Ada"}},
			"color": {"static_select": {"type": "static_select", "selected_option": {"value": "green"}}}
		}}}}`)})
	require.NoError(t, err)
	require.Len(t, client.publish, 2)
	require.Equal(t, "Ada", client.publish[1].View.PrivateMetadata)
	require.Equal(t, "Hello Ada", client.publish[1].View.Blocks[0].(blockkit.HeaderBlock).Text.Text)
}
