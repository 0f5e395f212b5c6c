package views

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

// HTTPDoer sends Web API requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SlackClient implements Client against the Slack Web API. The view is sent as the Document's own
// JSON, so fields slack-go's request types cannot carry (submit_disabled, emoji:false) reach Slack.
// Responses and errors use slack-go's types: *slack.RateLimitedError on 429, slack.StatusCodeError
// on other non-200 statuses and slack.SlackErrorResponse when the API answers ok=false.
//
// Open and Push send trigger_id and interactivity_pointer as given, including when both are set.
type SlackClient struct {
	token    string
	endpoint string
	http     HTTPDoer
}

var _ Client = (*SlackClient)(nil)

type SlackClientOption func(*SlackClient)

// WithAPIURL points the client at another Web API root, e.g. a test server. It must end with '/'.
func WithAPIURL(u string) SlackClientOption {
	return func(c *SlackClient) {
		c.endpoint = u
	}
}

func WithHTTPClient(d HTTPDoer) SlackClientOption {
	return func(c *SlackClient) {
		c.http = d
	}
}

func NewSlackClient(token string, opts ...SlackClientOption) *SlackClient {
	c := &SlackClient{token: token, endpoint: slack.APIURL, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type publishBody struct {
	UserID string   `json:"user_id"`
	View   Document `json:"view"`
	Hash   string   `json:"hash,omitempty"`
}

type triggerBody struct {
	TriggerID            string   `json:"trigger_id,omitempty"`
	InteractivityPointer string   `json:"interactivity_pointer,omitempty"`
	View                 Document `json:"view"`
}

type updateBody struct {
	View       Document `json:"view"`
	ExternalID string   `json:"external_id,omitempty"`
	ViewID     string   `json:"view_id,omitempty"`
	Hash       string   `json:"hash,omitempty"`
}

func (c *SlackClient) PublishView(ctx context.Context, req PublishRequest) (*slack.ViewResponse, error) {
	return c.call(ctx, "views.publish", publishBody{UserID: req.UserID, View: req.View, Hash: req.Hash})
}

func (c *SlackClient) OpenView(ctx context.Context, req OpenRequest) (*slack.ViewResponse, error) {
	return c.call(ctx, "views.open", triggerBody{
		TriggerID:            req.TriggerID,
		InteractivityPointer: req.InteractivityPointer,
		View:                 req.View,
	})
}

func (c *SlackClient) UpdateView(ctx context.Context, req UpdateRequest) (*slack.ViewResponse, error) {
	return c.call(ctx, "views.update", updateBody{
		View:       req.View,
		ExternalID: req.ExternalID,
		ViewID:     req.ViewID,
		Hash:       req.Hash,
	})
}

func (c *SlackClient) PushView(ctx context.Context, req PushRequest) (*slack.ViewResponse, error) {
	return c.call(ctx, "views.push", triggerBody{
		TriggerID:            req.TriggerID,
		InteractivityPointer: req.InteractivityPointer,
		View:                 req.View,
	})
}

func (c *SlackClient) call(ctx context.Context, method string, body any) (*slack.ViewResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s request", method)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+method, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		retry, err := strconv.ParseInt(resp.Header.Get("Retry-After"), 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "parse Retry-After")
		}
		return nil, &slack.RateLimitedError{RetryAfter: time.Duration(retry) * time.Second}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, slack.StatusCodeError{Code: resp.StatusCode, Status: resp.Status}
	}

	out := &slack.ViewResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, errors.Wrapf(err, "decode %s response", method)
	}
	return out, out.Err()
}
