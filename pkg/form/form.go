// Package form flattens the state of a submitted view into plain values.
//
// A submitted view carries view.state.values, a mapping of block id to action id to the value the user
// entered. The parser reduces each action to a single value following a fixed priority of fields and
// never mutates its input, so it is safe to call from any number of handlers at once.
package form

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// SelectedOption is the part of a selected option the parser reads.
type SelectedOption struct {
	Value string `json:"value"`
}

// ActionPayload is the state of one element of a submitted view. Absent fields decode to their zero
// value, which the parser treats as a miss. An empty list is still a hit.
type ActionPayload struct {
	Type                 string           `json:"type,omitempty"`
	Value                string           `json:"value,omitempty"`
	SelectedOption       *SelectedOption  `json:"selected_option,omitempty"`
	SelectedDate         string           `json:"selected_date,omitempty"`
	SelectedTime         string           `json:"selected_time,omitempty"`
	SelectedDateTime     int64            `json:"selected_date_time,omitempty"`
	SelectedConversation string           `json:"selected_conversation,omitempty"`
	SelectedUsers        []string         `json:"selected_users,omitempty"`
	SelectedUser         string           `json:"selected_user,omitempty"`
	SelectedOptions      []SelectedOption `json:"selected_options,omitempty"`
}

// SubmittedState maps block id to action id to payload.
type SubmittedState map[string]map[string]ActionPayload

type SubmittedView struct {
	ID         string `json:"id,omitempty"`
	CallbackID string `json:"callback_id,omitempty"`
	State      struct {
		Values SubmittedState `json:"values"`
	} `json:"state"`
}

// ParseAction returns the value of the first field present in the order value, selected_option,
// selected_date, selected_time, selected_date_time, selected_conversation, selected_users,
// selected_user, selected_options. The second result is false when none is present.
func ParseAction(a ActionPayload) (any, bool) {
	switch {
	case a.Value != "":
		return a.Value, true
	case a.SelectedOption != nil:
		return a.SelectedOption.Value, true
	case a.SelectedDate != "":
		return a.SelectedDate, true
	case a.SelectedTime != "":
		return a.SelectedTime, true
	case a.SelectedDateTime != 0:
		return a.SelectedDateTime, true
	case a.SelectedConversation != "":
		return a.SelectedConversation, true
	case a.SelectedUsers != nil:
		return append([]string{}, a.SelectedUsers...), true
	case a.SelectedUser != "":
		return a.SelectedUser, true
	case a.SelectedOptions != nil:
		values := make([]string, 0, len(a.SelectedOptions))
		for _, o := range a.SelectedOptions {
			values = append(values, o.Value)
		}
		return values, true
	}
	return nil, false
}

// ParseBlock reduces the actions of one block. With collapse set and a single action, the action's
// value is returned directly; otherwise the result is a map keyed by action id. Unrecognized actions
// map to nil.
func ParseBlock(actions map[string]ActionPayload, collapse bool) any {
	if collapse && len(actions) == 1 {
		for _, a := range actions {
			v, _ := ParseAction(a)
			return v
		}
	}
	ret := make(map[string]any, len(actions))
	for actionID, a := range actions {
		v, _ := ParseAction(a)
		ret[actionID] = v
	}
	return ret
}

// ParseState reduces every block of state, keyed by block id.
func ParseState(state SubmittedState, collapse bool) map[string]any {
	ret := make(map[string]any, len(state))
	for blockID, actions := range state {
		ret[blockID] = ParseBlock(actions, collapse)
	}
	return ret
}

func ParseView(view SubmittedView, collapse bool) map[string]any {
	return ParseState(view.State.Values, collapse)
}

// ParseViewJSON decodes raw and parses its view state. raw is either a view object or an interaction
// payload carrying one under "view".
func ParseViewJSON(raw []byte, collapse bool) (map[string]any, error) {
	var envelope struct {
		View *SubmittedView `json:"view"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrap(err, "decode view payload")
	}
	if envelope.View != nil {
		return ParseView(*envelope.View, collapse), nil
	}

	var view SubmittedView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, errors.Wrap(err, "decode view")
	}
	return ParseView(view, collapse), nil
}
