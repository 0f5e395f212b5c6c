package views

import (
	"github.com/go-go-golems/boltkit/pkg/blockkit"
	"github.com/pkg/errors"
)

type Type string

const (
	TypeHome  Type = "home"
	TypeModal Type = "modal"
)

// ErrNoComposer is returned by Compose when the view was built without a composer.
var ErrNoComposer = errors.New("view has no composer")

// Document is the view payload sent to the views.* Web API methods. Blocks is always emitted, the
// other fields only when set.
type Document struct {
	Type            Type                 `json:"type"`
	Title           *blockkit.TextObject `json:"title,omitempty"`
	Blocks          []blockkit.Block     `json:"blocks"`
	Close           *blockkit.TextObject `json:"close,omitempty"`
	Submit          *blockkit.TextObject `json:"submit,omitempty"`
	PrivateMetadata string               `json:"private_metadata,omitempty"`
	CallbackID      string               `json:"callback_id,omitempty"`
	ClearOnClose    bool                 `json:"clear_on_close,omitempty"`
	NotifyOnClose   bool                 `json:"notify_on_close,omitempty"`
	ExternalID      string               `json:"external_id,omitempty"`
	SubmitDisabled  bool                 `json:"submit_disabled,omitempty"`
}

// Snapshot copies the document so that later recomposition does not alter what was handed to a
// transport.
func (d Document) Snapshot() Document {
	d.Blocks = append([]blockkit.Block{}, d.Blocks...)
	return d
}

func nonNilBlocks(b []blockkit.Block) []blockkit.Block {
	if b == nil {
		return []blockkit.Block{}
	}
	return b
}
