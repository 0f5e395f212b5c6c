package form

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeState(t *testing.T, raw string) SubmittedState {
	t.Helper()
	state := SubmittedState{}
	require.NoError(t, json.Unmarshal([]byte(raw), &state))
	return state
}

func TestParseAction_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected any
	}{
		{"value", `{"type":"plain_text_input","value":"hello"}`, "hello"},
		{"selected option", `{"selected_option":{"text":{"type":"plain_text","text":"X"},"value":"x"}}`, "x"},
		{"date", `{"selected_date":"2024-01-02"}`, "2024-01-02"},
		{"time", `{"selected_time":"09:30"}`, "09:30"},
		{"date time", `{"selected_date_time":1700000000}`, int64(1700000000)},
		{"conversation", `{"selected_conversation":"C1"}`, "C1"},
		{"users", `{"selected_users":["U1","U2"]}`, []string{"U1", "U2"}},
		{"empty users list is a hit", `{"selected_users":[]}`, []string{}},
		{"user", `{"selected_user":"U1"}`, "U1"},
		{"options", `{"selected_options":[{"value":"a"},{"value":"b"}]}`, []string{"a", "b"}},
		{"empty options list is a hit", `{"selected_options":[]}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p ActionPayload
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &p))
			v, ok := ParseAction(p)
			require.True(t, ok)
			require.Equal(t, tt.expected, v)
		})
	}
}

func TestParseAction_Priority(t *testing.T) {
	v, ok := ParseAction(ActionPayload{
		Value:          "v",
		SelectedOption: &SelectedOption{Value: "o"},
		SelectedUser:   "U1",
	})
	require.True(t, ok)
	require.Equal(t, "v", v)

	v, ok = ParseAction(ActionPayload{
		SelectedUsers: []string{"U1"},
		SelectedUser:  "U2",
	})
	require.True(t, ok)
	require.Equal(t, []string{"U1"}, v)
}

func TestParseAction_Miss(t *testing.T) {
	for _, raw := range []string{`{}`, `{"type":"plain_text_input","value":""}`, `{"selected_option":null}`} {
		var p ActionPayload
		require.NoError(t, json.Unmarshal([]byte(raw), &p))
		v, ok := ParseAction(p)
		require.False(t, ok, raw)
		require.Nil(t, v)
	}
}

func TestParseBlock_Collapse(t *testing.T) {
	state := decodeState(t, `{"b1":{"a1":{"selected_option":{"value":"x"}}}}`)

	require.Equal(t, "x", ParseBlock(state["b1"], true))
	require.Equal(t, map[string]any{"a1": "x"}, ParseBlock(state["b1"], false))
}

func TestParseBlock_CollapseNeedsSingleAction(t *testing.T) {
	state := decodeState(t, `{"b1":{"a1":{"value":"1"},"a2":{}}}`)
	require.Equal(t, map[string]any{"a1": "1", "a2": nil}, ParseBlock(state["b1"], true))
}

func TestParseState_KeepsEveryBlock(t *testing.T) {
	state := decodeState(t, `{
		"name":{"name_input":{"type":"plain_text_input","value":"Ada"}},
		"when":{"date":{"selected_date":"2024-05-01"},"time":{"selected_time":"10:00"}},
		"empty":{}
	}`)

	parsed := ParseState(state, true)
	require.Len(t, parsed, 3)
	require.Equal(t, "Ada", parsed["name"])
	require.Equal(t, map[string]any{"date": "2024-05-01", "time": "10:00"}, parsed["when"])
	require.Equal(t, map[string]any{}, parsed["empty"])
}

func TestParseState_Idempotent(t *testing.T) {
	state := decodeState(t, `{"b1":{"a1":{"selected_users":["U1"]}},"b2":{"a2":{"value":"v"}}}`)
	first := ParseState(state, false)
	second := ParseState(state, false)
	require.Equal(t, first, second)

	first["b1"].(map[string]any)["a1"].([]string)[0] = "changed"
	require.Equal(t, []string{"U1"}, state["b1"]["a1"].SelectedUsers)
}

func TestParseViewJSON_InteractionBody(t *testing.T) {
	body := `{"type":"view_submission","user":{"id":"U1"},"view":{"id":"V1","callback_id":"settings",
		"state":{"values":{"b1":{"a1":{"value":"x"}}}}}}`
	parsed, err := ParseViewJSON([]byte(body), true)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"b1": "x"}, parsed)
}

func TestParseViewJSON_BareView(t *testing.T) {
	parsed, err := ParseViewJSON([]byte(`{"state":{"values":{"b1":{"a1":{"value":"x"}}}}}`), false)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"b1": map[string]any{"a1": "x"}}, parsed)
}

func TestParseViewJSON_Invalid(t *testing.T) {
	_, err := ParseViewJSON([]byte(`{`), false)
	require.Error(t, err)
}
