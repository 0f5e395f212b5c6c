package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultEventsPath = "/slack/events"
	maxBodyBytes      = 1 << 20
	// Slack gives up on a request after three seconds.
	ackTimeout = 3 * time.Second
)

// HTTPReceiver serves the Events API, interactivity and slash commands on a single signed endpoint.
type HTTPReceiver struct {
	addr          string
	path          string
	signingSecret string
	ackTimeout    time.Duration
}

var _ Receiver = (*HTTPReceiver)(nil)

type HTTPReceiverOption func(*HTTPReceiver)

func WithPath(path string) HTTPReceiverOption {
	return func(h *HTTPReceiver) { h.path = path }
}

func WithAckTimeout(d time.Duration) HTTPReceiverOption {
	return func(h *HTTPReceiver) { h.ackTimeout = d }
}

func NewHTTPReceiver(addr, signingSecret string, opts ...HTTPReceiverOption) *HTTPReceiver {
	h := &HTTPReceiver{
		addr:          addr,
		path:          DefaultEventsPath,
		signingSecret: signingSecret,
		ackTimeout:    ackTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPReceiver) Run(ctx context.Context, d Dispatcher) error {
	mux := http.NewServeMux()
	mux.Handle(h.path, h.Handler(ctx, d))
	srv := &http.Server{
		Addr:              h.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg := errgroup.Group{}
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
			return err
		}
		log.Info().Msg("server shutdown complete")
		return nil
	})
	eg.Go(func() error {
		log.Info().Str("addr", h.addr).Str("path", h.path).Msg("starting slack http receiver")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server listen error")
			return err
		}
		return nil
	})
	return eg.Wait()
}

// Handler verifies the request signature and hands the request to d. Listeners run on ctx, not on
// the request context, so they may outlive the acknowledgment.
func (h *HTTPReceiver) Handler(ctx context.Context, d Dispatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "could not read body", http.StatusBadRequest)
			return
		}
		if err := h.verify(r.Header, body); err != nil {
			log.Warn().Err(err).Msg("rejecting unsigned request")
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}

		in, challenge, err := decodeHTTP(r, body)
		if err != nil {
			log.Warn().Err(err).Msg("could not decode request")
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if challenge != "" {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(challenge))
			return
		}

		h.serve(ctx, w, d, in)
	})
}

func (h *HTTPReceiver) verify(header http.Header, body []byte) error {
	sv, err := slack.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return errors.Wrap(err, "read signature headers")
	}
	if _, err := sv.Write(body); err != nil {
		return errors.Wrap(err, "hash body")
	}
	return sv.Ensure()
}

type ackResult struct {
	payload any
}

// serve dispatches in and answers with the first acknowledgment, or an empty 200 when dispatch ends
// without one.
func (h *HTTPReceiver) serve(ctx context.Context, w http.ResponseWriter, d Dispatcher, in Incoming) {
	acked := make(chan ackResult, 1)
	ack := newOnceAck(func(_ context.Context, payload any) error {
		acked <- ackResult{payload: payload}
		return nil
	})
	in.Ack = ack.Ack
	if in.Type == IncomingEventsAPI {
		_ = ack.Ack(ctx, nil)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := d.Dispatch(ctx, in); err != nil {
			log.Error().Err(err).Str("type", string(in.Type)).Msg("could not dispatch request")
		}
		_ = ack.Ack(ctx, nil)
	}()

	timer := time.NewTimer(h.ackTimeout)
	defer timer.Stop()

	select {
	case res := <-acked:
		writeAck(w, res.payload)
	case <-timer.C:
		log.Warn().Str("type", string(in.Type)).Msg("request was not acknowledged in time")
		w.WriteHeader(http.StatusOK)
	}
}

func writeAck(w http.ResponseWriter, payload any) {
	if payload == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	if s, ok := payload.(string); ok {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("could not encode acknowledgment")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// decodeHTTP classifies a verified body. Interactivity arrives as a form with a payload field, slash
// commands as a form with a command field, events as JSON. The returned challenge answers
// url_verification.
func decodeHTTP(r *http.Request, body []byte) (Incoming, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return Incoming{}, "", errors.Wrap(err, "parse form")
		}
		if payload := form.Get("payload"); payload != "" {
			return Incoming{Type: IncomingInteractive, Body: []byte(payload)}, "", nil
		}
		if form.Get("command") != "" {
			r.Body = io.NopCloser(bytes.NewReader(body))
			cmd, err := slack.SlashCommandParse(r)
			if err != nil {
				return Incoming{}, "", errors.Wrap(err, "parse slash command")
			}
			b, err := json.Marshal(cmd)
			if err != nil {
				return Incoming{}, "", errors.Wrap(err, "encode slash command")
			}
			return Incoming{Type: IncomingCommand, Body: b}, "", nil
		}
		return Incoming{}, "", errors.New("form has neither payload nor command")
	}

	var head struct {
		Type      string `json:"type"`
		Challenge string `json:"challenge"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return Incoming{}, "", errors.Wrap(err, "decode event body")
	}
	if head.Type == slackevents.URLVerification {
		if head.Challenge == "" {
			return Incoming{}, "", errors.New("url_verification without challenge")
		}
		return Incoming{}, head.Challenge, nil
	}
	return Incoming{Type: IncomingEventsAPI, Body: body}, "", nil
}
