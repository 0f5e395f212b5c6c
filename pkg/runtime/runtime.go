package runtime

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// Kind is the listener family a request is routed to.
type Kind string

const (
	KindEvent    Kind = "event"
	KindMessage  Kind = "message"
	KindAction   Kind = "action"
	KindShortcut Kind = "shortcut"
	KindView     Kind = "view"
	KindCommand  Kind = "command"
	KindOptions  Kind = "options"
)

// IncomingType is the envelope type a receiver got the body in.
type IncomingType string

const (
	IncomingEventsAPI   IncomingType = "events_api"
	IncomingInteractive IncomingType = "interactive"
	IncomingCommand     IncomingType = "slash_commands"
)

// AckFunc acknowledges a request. A nil payload sends an empty acknowledgment.
type AckFunc func(ctx context.Context, payload any) error

// Incoming is a raw request handed over by a receiver.
type Incoming struct {
	Type IncomingType
	Body []byte
	Ack  AckFunc
}

// Request is what listeners receive. Only the fields relevant to Kind are set.
type Request struct {
	Kind Kind
	// Body is the raw JSON body: the event callback, the interaction payload or the slash command.
	Body json.RawMessage
	// RawEvent is the inner event of an event callback.
	RawEvent    json.RawMessage
	EventType   string
	Event       *slackevents.EventsAPIEvent
	Message     *slackevents.MessageEvent
	Interaction *slack.InteractionCallback
	Action      *slack.BlockAction
	Command     *slack.SlashCommand
	Client      *slack.Client
	Ack         AckFunc
	// Matches holds the submatches of a message pattern.
	Matches []string
}

type Listener func(ctx context.Context, req *Request) error

// ErrorHandler receives listener errors. The default logs them.
type ErrorHandler func(ctx context.Context, req *Request, err error)

type messageListener struct {
	pattern  *regexp.Regexp
	listener Listener
}

// Runtime matches requests to listeners and runs them. Listeners for one request run sequentially in
// registration order; separate requests may be dispatched concurrently by the receiver.
type Runtime struct {
	client       *slack.Client
	receiver     Receiver
	errorHandler ErrorHandler
	ignoreSelf   bool

	mu        sync.RWMutex
	botUserID string
	botID     string
	events    map[string][]Listener
	messages  []messageListener
	actions   map[string][]Listener
	shortcuts map[string][]Listener
	views     map[string][]Listener
	commands  map[string][]Listener
	options   map[string][]Listener
}

type Option func(*Runtime) error

func WithReceiver(r Receiver) Option {
	return func(rt *Runtime) error {
		if r == nil {
			return errors.New("receiver is nil")
		}
		rt.receiver = r
		return nil
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(rt *Runtime) error {
		if h == nil {
			return errors.New("error handler is nil")
		}
		rt.errorHandler = h
		return nil
	}
}

// WithBotIdentity sets the app's own bot user id and bot id instead of asking auth.test for them
// in Run.
func WithBotIdentity(botUserID, botID string) Option {
	return func(rt *Runtime) error {
		if botUserID == "" && botID == "" {
			return errors.New("bot identity is empty")
		}
		rt.botUserID, rt.botID = botUserID, botID
		return nil
	}
}

// WithIgnoreSelf controls whether events sent by the app itself are dropped. It defaults to true.
func WithIgnoreSelf(ignore bool) Option {
	return func(rt *Runtime) error {
		rt.ignoreSelf = ignore
		return nil
	}
}

func New(client *slack.Client, opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		client:       client,
		errorHandler: logError,
		ignoreSelf:   true,
		events:       map[string][]Listener{},
		actions:      map[string][]Listener{},
		shortcuts:    map[string][]Listener{},
		views:        map[string][]Listener{},
		commands:     map[string][]Listener{},
		options:      map[string][]Listener{},
	}
	for _, opt := range opts {
		if err := opt(rt); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

func (rt *Runtime) Client() *slack.Client { return rt.client }

func (rt *Runtime) OnEvent(eventType string, l Listener) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.events[eventType] = append(rt.events[eventType], l)
}

// OnMessage registers l for message events whose text matches pattern. A nil pattern matches every
// message.
func (rt *Runtime) OnMessage(pattern *regexp.Regexp, l Listener) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.messages = append(rt.messages, messageListener{pattern: pattern, listener: l})
}

func (rt *Runtime) OnAction(actionID string, l Listener) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.actions[actionID] = append(rt.actions[actionID], l)
}

// OnShortcut covers global shortcuts and message shortcuts.
func (rt *Runtime) OnShortcut(callbackID string, l Listener) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.shortcuts[callbackID] = append(rt.shortcuts[callbackID], l)
}

// OnView covers view_submission and view_closed.
func (rt *Runtime) OnView(callbackID string, l Listener) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.views[callbackID] = append(rt.views[callbackID], l)
}

func (rt *Runtime) OnCommand(command string, l Listener) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.commands[command] = append(rt.commands[command], l)
}

// OnOptions covers block_suggestion requests of external selects.
func (rt *Runtime) OnOptions(actionID string, l Listener) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.options[actionID] = append(rt.options[actionID], l)
}

// Run resolves the bot identity, then blocks receiving requests until ctx is cancelled.
func (rt *Runtime) Run(ctx context.Context) error {
	if rt.receiver == nil {
		return errors.New("runtime has no receiver")
	}
	if err := rt.resolveIdentity(ctx); err != nil {
		return err
	}
	return rt.receiver.Run(ctx, rt)
}

func (rt *Runtime) resolveIdentity(ctx context.Context) error {
	rt.mu.RLock()
	known := rt.botUserID != "" || rt.botID != ""
	rt.mu.RUnlock()
	if !rt.ignoreSelf || known || rt.client == nil {
		return nil
	}

	resp, err := rt.client.AuthTestContext(ctx)
	if err != nil {
		return errors.Wrap(err, "resolve bot identity")
	}
	rt.mu.Lock()
	rt.botUserID, rt.botID = resp.UserID, resp.BotID
	rt.mu.Unlock()
	log.Info().Str("bot_user_id", resp.UserID).Str("bot_id", resp.BotID).Msg("resolved bot identity")
	return nil
}

// membershipEvents are delivered even when the app itself is the user, as they report the app
// joining or leaving a channel.
var membershipEvents = map[string]bool{
	"member_joined_channel": true,
	"member_left_channel":   true,
}

// fromSelf reports whether an event was sent by the app: a message carrying the app's bot id, or
// any other event whose user is the app's bot user.
func (rt *Runtime) fromSelf(eventType string, user json.RawMessage, botID string) bool {
	if !rt.ignoreSelf {
		return false
	}
	if eventType == "message" && rt.botID != "" && botID == rt.botID {
		return true
	}
	if rt.botUserID == "" || membershipEvents[eventType] {
		return false
	}
	var id string
	return json.Unmarshal(user, &id) == nil && id == rt.botUserID
}

// Dispatch decodes in and runs every matching listener. It returns the number of listeners run.
func (rt *Runtime) Dispatch(ctx context.Context, in Incoming) (int, error) {
	var (
		reqs []routed
		err  error
	)
	switch in.Type {
	case IncomingEventsAPI:
		reqs, err = rt.routeEvent(in)
	case IncomingInteractive:
		reqs, err = rt.routeInteraction(in)
	case IncomingCommand:
		reqs, err = rt.routeCommand(in)
	default:
		err = errors.Errorf("unknown request type %q", in.Type)
	}
	if err != nil {
		return 0, err
	}

	n := 0
	for _, r := range reqs {
		for _, l := range r.listeners {
			n++
			if err := l(ctx, r.req); err != nil {
				rt.errorHandler(ctx, r.req, err)
			}
		}
	}
	if n == 0 {
		log.Debug().Str("type", string(in.Type)).Msg("unhandled request")
	}
	return n, nil
}

type routed struct {
	req       *Request
	listeners []Listener
}

func (rt *Runtime) newRequest(kind Kind, in Incoming) *Request {
	return &Request{
		Kind:   kind,
		Body:   json.RawMessage(in.Body),
		Client: rt.client,
		Ack:    in.Ack,
	}
}

func (rt *Runtime) routeEvent(in Incoming) ([]routed, error) {
	var cb struct {
		Type  string          `json:"type"`
		Event json.RawMessage `json:"event"`
	}
	if err := json.Unmarshal(in.Body, &cb); err != nil {
		return nil, errors.Wrap(err, "decode event callback")
	}
	if cb.Type != slackevents.CallbackEvent || len(cb.Event) == 0 {
		return nil, nil
	}
	var inner struct {
		Type  string          `json:"type"`
		User  json.RawMessage `json:"user"`
		BotID string          `json:"bot_id"`
	}
	if err := json.Unmarshal(cb.Event, &inner); err != nil {
		return nil, errors.Wrap(err, "decode inner event")
	}

	rt.mu.RLock()
	self := rt.fromSelf(inner.Type, inner.User, inner.BotID)
	rt.mu.RUnlock()
	if self {
		log.Debug().Str("event_type", inner.Type).Msg("ignoring event sent by the app")
		return nil, nil
	}

	req := rt.newRequest(KindEvent, in)
	req.RawEvent = cb.Event
	req.EventType = inner.Type
	// slack-go does not know every event type; listeners still get the raw event.
	if parsed, err := slackevents.ParseEvent(json.RawMessage(in.Body), slackevents.OptionNoVerifyToken()); err == nil {
		req.Event = &parsed
		if m, ok := parsed.InnerEvent.Data.(*slackevents.MessageEvent); ok {
			req.Message = m
		}
	} else {
		log.Debug().Err(err).Str("event_type", inner.Type).Msg("could not parse event")
	}

	rt.mu.RLock()
	defer rt.mu.RUnlock()

	ret := []routed{{req: req, listeners: append([]Listener(nil), rt.events[inner.Type]...)}}
	if inner.Type != "message" {
		return ret, nil
	}
	if req.Message == nil {
		var m slackevents.MessageEvent
		if err := json.Unmarshal(cb.Event, &m); err != nil {
			return nil, errors.Wrap(err, "decode message event")
		}
		req.Message = &m
	}
	for _, ml := range rt.messages {
		var matches []string
		if ml.pattern != nil {
			matches = ml.pattern.FindStringSubmatch(req.Message.Text)
			if matches == nil {
				continue
			}
		}
		mreq := *req
		mreq.Kind = KindMessage
		mreq.Matches = matches
		ret = append(ret, routed{req: &mreq, listeners: []Listener{ml.listener}})
	}
	return ret, nil
}

func (rt *Runtime) routeInteraction(in Incoming) ([]routed, error) {
	var cb slack.InteractionCallback
	if err := json.Unmarshal(in.Body, &cb); err != nil {
		return nil, errors.Wrap(err, "decode interaction")
	}

	rt.mu.RLock()
	defer rt.mu.RUnlock()

	switch cb.Type {
	case slack.InteractionTypeBlockActions:
		var ret []routed
		for _, action := range cb.ActionCallback.BlockActions {
			if action == nil {
				continue
			}
			req := rt.newRequest(KindAction, in)
			req.Interaction = &cb
			req.Action = action
			ret = append(ret, routed{req: req, listeners: append([]Listener(nil), rt.actions[action.ActionID]...)})
		}
		return ret, nil
	case slack.InteractionTypeShortcut, slack.InteractionTypeMessageAction:
		req := rt.newRequest(KindShortcut, in)
		req.Interaction = &cb
		return []routed{{req: req, listeners: append([]Listener(nil), rt.shortcuts[cb.CallbackID]...)}}, nil
	case slack.InteractionTypeViewSubmission, slack.InteractionTypeViewClosed:
		req := rt.newRequest(KindView, in)
		req.Interaction = &cb
		return []routed{{req: req, listeners: append([]Listener(nil), rt.views[cb.View.CallbackID]...)}}, nil
	case slack.InteractionTypeBlockSuggestion:
		req := rt.newRequest(KindOptions, in)
		req.Interaction = &cb
		return []routed{{req: req, listeners: append([]Listener(nil), rt.options[cb.ActionID]...)}}, nil
	}
	log.Debug().Str("interaction_type", string(cb.Type)).Msg("ignoring interaction")
	return nil, nil
}

func (rt *Runtime) routeCommand(in Incoming) ([]routed, error) {
	var cmd slack.SlashCommand
	if err := json.Unmarshal(in.Body, &cmd); err != nil {
		return nil, errors.Wrap(err, "decode slash command")
	}
	req := rt.newRequest(KindCommand, in)
	req.Command = &cmd

	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return []routed{{req: req, listeners: append([]Listener(nil), rt.commands[cmd.Command]...)}}, nil
}

func logError(_ context.Context, req *Request, err error) {
	log.Error().Err(err).Str("kind", string(req.Kind)).Msg("listener failed")
}
