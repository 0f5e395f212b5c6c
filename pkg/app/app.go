package app

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/go-go-golems/boltkit/pkg/config"
	"github.com/go-go-golems/boltkit/pkg/runtime"
	"github.com/go-go-golems/boltkit/pkg/views"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"golang.org/x/sync/errgroup"
)

// Schema describes an app. Listeners and Handlers are registration hooks run once, in that order,
// when the app is built.
type Schema struct {
	Options   config.Settings
	Listeners []func(*App)
	Handlers  []func(*App)
}

// Observer is notified of every envelope before its handler runs.
type Observer interface {
	Observe(ctx context.Context, e *Envelope)
}

// Runner is a background service run alongside the runtime by Start.
type Runner interface {
	Run(ctx context.Context) error
}

type ViewOptions struct {
	// NoAck leaves the acknowledgment to the handler, e.g. to answer with response_action.
	NoAck bool
}

// App registers handlers on a runtime and adapts requests into envelopes. Building an App starts
// nothing; Start runs it until Stop is called or its context ends.
type App struct {
	rt        *runtime.Runtime
	views     views.Client
	observers []Observer
	runners   []Runner

	mu     sync.Mutex
	cancel context.CancelFunc
}

type Option func(*App) error

// WithRuntime uses rt instead of building one from the schema options.
func WithRuntime(rt *runtime.Runtime) Option {
	return func(a *App) error {
		if rt == nil {
			return errors.New("runtime is nil")
		}
		a.rt = rt
		return nil
	}
}

func WithObserver(o Observer) Option {
	return func(a *App) error {
		if o == nil {
			return errors.New("observer is nil")
		}
		a.observers = append(a.observers, o)
		return nil
	}
}

func WithRunner(r Runner) Option {
	return func(a *App) error {
		if r == nil {
			return errors.New("runner is nil")
		}
		a.runners = append(a.runners, r)
		return nil
	}
}

// WithViewsClient replaces the views client handed to handlers. By default it is a
// views.SlackClient using the schema's bot token.
func WithViewsClient(c views.Client) Option {
	return func(a *App) error {
		if c == nil {
			return errors.New("views client is nil")
		}
		a.views = c
		return nil
	}
}

func New(schema Schema, opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.rt == nil {
		rt, err := NewRuntime(schema.Options)
		if err != nil {
			return nil, err
		}
		a.rt = rt
	}
	if a.views == nil {
		a.views = views.NewSlackClient(schema.Options.Token)
	}

	for _, l := range schema.Listeners {
		l(a)
	}
	for _, h := range schema.Handlers {
		h(a)
	}
	return a, nil
}

// NewRuntime builds a runtime from settings: socket mode when SocketMode is set, a signed HTTP
// receiver on Port otherwise.
func NewRuntime(s config.Settings) (*runtime.Runtime, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var receiver runtime.Receiver
	if s.SocketMode {
		api := slack.New(s.Token, slack.OptionAppLevelToken(s.AppToken))
		receiver = runtime.NewSocketModeReceiver(api)
		return runtime.New(api, runtime.WithReceiver(receiver))
	}
	api := slack.New(s.Token)
	receiver = runtime.NewHTTPReceiver(fmt.Sprintf(":%d", s.Port), s.SigningSecret)
	return runtime.New(api, runtime.WithReceiver(receiver))
}

func (a *App) Runtime() *runtime.Runtime { return a.rt }

// Start runs the runtime and the runners until Stop is called, ctx ends or one of them fails.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.cancel != nil {
		a.mu.Unlock()
		return errors.New("app already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.cancel = nil
		a.mu.Unlock()
		cancel()
	}()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return a.rt.Run(ctx) })
	for _, r := range a.runners {
		r := r
		eg.Go(func() error { return r.Run(ctx) })
	}
	log.Info().Int("runners", len(a.runners)).Msg("app started")
	err := eg.Wait()
	log.Info().Msg("app stopped")
	return err
}

// Stop cancels a running Start. It is a no-op when the app is not running.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *App) Event(eventType string, h Handler) {
	a.rt.OnEvent(eventType, func(ctx context.Context, req *runtime.Request) error {
		return a.invoke(ctx, req, a.envelope(req, eventUser(req.RawEvent)), false, h)
	})
}

// Message registers h for messages whose text contains pattern. An empty pattern matches every
// message.
func (a *App) Message(pattern string, h Handler) {
	var re *regexp.Regexp
	if pattern != "" {
		re = regexp.MustCompile(regexp.QuoteMeta(pattern))
	}
	a.MessageRegexp(re, h)
}

// MessageRegexp registers h for messages matching re. Submatches are on Envelope.Matches.
func (a *App) MessageRegexp(re *regexp.Regexp, h Handler) {
	a.rt.OnMessage(re, func(ctx context.Context, req *runtime.Request) error {
		user := ""
		if req.Message != nil {
			user = req.Message.User
		}
		return a.invoke(ctx, req, a.envelope(req, user), false, h)
	})
}

func (a *App) Action(actionID string, h Handler) {
	a.rt.OnAction(actionID, func(ctx context.Context, req *runtime.Request) error {
		e := a.envelope(req, interactionUser(req))
		if req.Action != nil {
			e.Value = req.Action.Value
		}
		if req.Interaction != nil {
			e.TriggerID = req.Interaction.TriggerID
		}
		return a.invoke(ctx, req, e, true, h)
	})
}

func (a *App) Shortcut(callbackID string, h Handler) {
	a.rt.OnShortcut(callbackID, func(ctx context.Context, req *runtime.Request) error {
		return a.invoke(ctx, req, a.envelope(req, interactionUser(req)), true, h)
	})
}

func (a *App) View(callbackID string, h Handler, opts ViewOptions) {
	a.rt.OnView(callbackID, func(ctx context.Context, req *runtime.Request) error {
		return a.invoke(ctx, req, a.envelope(req, interactionUser(req)), !opts.NoAck, h)
	})
}

func (a *App) Command(name string, h Handler) {
	a.rt.OnCommand(name, func(ctx context.Context, req *runtime.Request) error {
		user := ""
		if req.Command != nil {
			user = req.Command.UserID
		}
		return a.invoke(ctx, req, a.envelope(req, user), true, h)
	})
}

// Options registers h for option requests of an external select. The request is acknowledged empty
// before h runs.
func (a *App) Options(actionID string, h Handler) {
	a.rt.OnOptions(actionID, func(ctx context.Context, req *runtime.Request) error {
		return a.invoke(ctx, req, a.envelope(req, interactionUser(req)), true, h)
	})
}

func (a *App) envelope(req *runtime.Request, userID string) *Envelope {
	return &Envelope{
		UserID:    userID,
		Views:     a.views,
		RequestID: uuid.NewString(),
		Request:   req,
	}
}

// invoke acknowledges when asked to, notifies observers and runs h. An acknowledgment failure is
// returned as is and h is not run.
func (a *App) invoke(ctx context.Context, req *runtime.Request, e *Envelope, ack bool, h Handler) error {
	if ack && req.Ack != nil {
		if err := req.Ack(ctx, nil); err != nil {
			return err
		}
	}
	for _, o := range a.observers {
		o.Observe(ctx, e)
	}
	log.Debug().
		Str("kind", string(req.Kind)).
		Str("user", e.UserID).
		Str("request_id", e.RequestID).
		Msg("handling request")
	return h(ctx, e)
}
