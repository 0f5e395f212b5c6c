package views

import (
	"context"

	"github.com/go-go-golems/boltkit/pkg/blockkit"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

type ModalComposer func(ctx context.Context, m *Modal, args ...any) ([]blockkit.Block, error)

type ModalParams struct {
	// Title, Close and Submit accept a RawText or a built TextObject.
	Title           blockkit.TextLike
	Close           blockkit.TextLike
	Submit          blockkit.TextLike
	Blocks          []blockkit.Block
	PrivateMetadata string
	CallbackID      string
	ClearOnClose    bool
	NotifyOnClose   bool
	ExternalID      string
	SubmitDisabled  bool
}

// Modal is a modal view. Like Home it has a single owner.
type Modal struct {
	Document
	composer ModalComposer
}

func NewModal(p ModalParams, composer ModalComposer) *Modal {
	return &Modal{
		Document: Document{
			Type:            TypeModal,
			Title:           blockkit.ResolveText(p.Title, false),
			Blocks:          nonNilBlocks(p.Blocks),
			Close:           blockkit.ResolveText(p.Close, false),
			Submit:          blockkit.ResolveText(p.Submit, false),
			PrivateMetadata: p.PrivateMetadata,
			CallbackID:      p.CallbackID,
			ClearOnClose:    p.ClearOnClose,
			NotifyOnClose:   p.NotifyOnClose,
			ExternalID:      p.ExternalID,
			SubmitDisabled:  p.SubmitDisabled,
		},
		composer: composer,
	}
}

func (m *Modal) Compose(ctx context.Context, args ...any) error {
	if m.composer == nil {
		return ErrNoComposer
	}
	blocks, err := m.composer(ctx, m, args...)
	if err != nil {
		return errors.Wrap(err, "compose modal view")
	}
	m.Blocks = nonNilBlocks(blocks)
	return nil
}

// TriggerOptions identifies the interaction a modal is opened or pushed from. Both fields are
// forwarded; the Web API rejects conflicting combinations.
type TriggerOptions struct {
	TriggerID            string
	InteractivityPointer string
}

type UpdateOptions struct {
	ExternalID string
	ViewID     string
	Hash       string
}

func (m *Modal) Open(ctx context.Context, client Client, opts TriggerOptions) (*slack.ViewResponse, error) {
	ctx, span := startSpan(ctx, "views.open", m.Document)
	defer span.End()

	resp, err := client.OpenView(ctx, OpenRequest{
		View:                 m.Snapshot(),
		TriggerID:            opts.TriggerID,
		InteractivityPointer: opts.InteractivityPointer,
	})
	recordError(span, err)
	return resp, err
}

func (m *Modal) Update(ctx context.Context, client Client, opts UpdateOptions) (*slack.ViewResponse, error) {
	ctx, span := startSpan(ctx, "views.update", m.Document)
	defer span.End()

	resp, err := client.UpdateView(ctx, UpdateRequest{
		View:       m.Snapshot(),
		ExternalID: opts.ExternalID,
		ViewID:     opts.ViewID,
		Hash:       opts.Hash,
	})
	recordError(span, err)
	return resp, err
}

func (m *Modal) Push(ctx context.Context, client Client, opts TriggerOptions) (*slack.ViewResponse, error) {
	ctx, span := startSpan(ctx, "views.push", m.Document)
	defer span.End()

	resp, err := client.PushView(ctx, PushRequest{
		View:                 m.Snapshot(),
		TriggerID:            opts.TriggerID,
		InteractivityPointer: opts.InteractivityPointer,
	})
	recordError(span, err)
	return resp, err
}
