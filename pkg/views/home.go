package views

import (
	"context"

	"github.com/go-go-golems/boltkit/pkg/blockkit"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

// HomeComposer returns the blocks of a home tab. It receives the view so it can read its metadata.
type HomeComposer func(ctx context.Context, h *Home, args ...any) ([]blockkit.Block, error)

type HomeParams struct {
	// Blocks is the initial block list, usually left empty and filled by Compose.
	Blocks          []blockkit.Block
	PrivateMetadata string
	CallbackID      string
	ExternalID      string
}

// Home is an App Home tab. A Home is owned by a single caller; Compose and Publish are not safe for
// concurrent use on the same instance.
type Home struct {
	Document
	composer HomeComposer
}

func NewHome(p HomeParams, composer HomeComposer) *Home {
	return &Home{
		Document: Document{
			Type:            TypeHome,
			Blocks:          nonNilBlocks(p.Blocks),
			PrivateMetadata: p.PrivateMetadata,
			CallbackID:      p.CallbackID,
			ExternalID:      p.ExternalID,
		},
		composer: composer,
	}
}

// Compose runs the composer and replaces the blocks with its result. On error the blocks are left
// untouched.
func (h *Home) Compose(ctx context.Context, args ...any) error {
	if h.composer == nil {
		return ErrNoComposer
	}
	blocks, err := h.composer(ctx, h, args...)
	if err != nil {
		return errors.Wrap(err, "compose home view")
	}
	h.Blocks = nonNilBlocks(blocks)
	return nil
}

type PublishOptions struct {
	Hash string
}

// Publish sends the current document to views.publish for userID.
func (h *Home) Publish(ctx context.Context, client Client, userID string, opts PublishOptions) (*slack.ViewResponse, error) {
	ctx, span := startSpan(ctx, "views.publish", h.Document)
	defer span.End()

	resp, err := client.PublishView(ctx, PublishRequest{
		UserID: userID,
		View:   h.Snapshot(),
		Hash:   opts.Hash,
	})
	recordError(span, err)
	return resp, err
}
