package app

import (
	"context"
	"encoding/json"

	"github.com/go-go-golems/boltkit/pkg/form"
	"github.com/go-go-golems/boltkit/pkg/runtime"
	"github.com/go-go-golems/boltkit/pkg/views"
)

// Envelope is what handlers receive: the runtime request plus the fields every handler needs.
type Envelope struct {
	// UserID is the acting user. Empty when the payload carries none.
	UserID string
	// Views sends views on behalf of the app.
	Views views.Client
	// RequestID identifies the invocation in logs and on the tap.
	RequestID string
	// Value and TriggerID are set for actions.
	Value     string
	TriggerID string

	*runtime.Request
}

// Handler is a user callback. Returned errors go to the runtime's error handler.
type Handler func(ctx context.Context, e *Envelope) error

// Form flattens the view state of a view submission (or of a block action fired inside a view).
func (e *Envelope) Form(collapse bool) (map[string]any, error) {
	return form.ParseViewJSON(e.Body, collapse)
}

// eventUser reads the user of an inner event, which is either an id or an object with an id.
func eventUser(raw json.RawMessage) string {
	var ev struct {
		User json.RawMessage `json:"user"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &ev) != nil || len(ev.User) == 0 {
		return ""
	}
	var id string
	if json.Unmarshal(ev.User, &id) == nil {
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(ev.User, &obj) == nil {
		return obj.ID
	}
	return ""
}

func interactionUser(req *runtime.Request) string {
	if req.Interaction == nil {
		return ""
	}
	return req.Interaction.User.ID
}
