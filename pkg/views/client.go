package views

import (
	"context"

	"github.com/slack-go/slack"
)

// Client is the views.* surface of the Slack Web API. Implementations send the request as is: the
// views package never retries, never validates routing parameters and returns the client's result
// and error unchanged.
type Client interface {
	PublishView(ctx context.Context, req PublishRequest) (*slack.ViewResponse, error)
	OpenView(ctx context.Context, req OpenRequest) (*slack.ViewResponse, error)
	UpdateView(ctx context.Context, req UpdateRequest) (*slack.ViewResponse, error)
	PushView(ctx context.Context, req PushRequest) (*slack.ViewResponse, error)
}

type PublishRequest struct {
	UserID string
	View   Document
	// Hash guards against publishing over a newer version of the view.
	Hash string
}

// OpenRequest and PushRequest take either TriggerID or InteractivityPointer.
type OpenRequest struct {
	View                 Document
	TriggerID            string
	InteractivityPointer string
}

type PushRequest struct {
	View                 Document
	TriggerID            string
	InteractivityPointer string
}

// UpdateRequest takes either ViewID or ExternalID.
type UpdateRequest struct {
	View       Document
	ExternalID string
	ViewID     string
	Hash       string
}
