package blockkit

import (
	"github.com/slack-go/slack"
)

// Block is a layout block. It satisfies slack.Block.
type Block interface {
	BlockType() slack.MessageBlockType
	ID() string
}

const (
	BlockActions slack.MessageBlockType = "actions"
	BlockContext slack.MessageBlockType = "context"
	BlockDivider slack.MessageBlockType = "divider"
	BlockHeader  slack.MessageBlockType = "header"
	BlockImage   slack.MessageBlockType = "image"
	BlockInput   slack.MessageBlockType = "input"
	BlockSection slack.MessageBlockType = "section"
)

// BlockOptions holds the block_id shared by every block. Slack generates one when it is empty.
type BlockOptions struct {
	BlockID string
}

type ActionsBlock struct {
	Type     slack.MessageBlockType `json:"type"`
	Elements []Element              `json:"elements"`
	BlockID  string                 `json:"block_id,omitempty"`
}

func (b ActionsBlock) BlockType() slack.MessageBlockType { return b.Type }
func (b ActionsBlock) ID() string                        { return b.BlockID }

// Actions holds buttons, select menus, overflow menus and pickers.
func Actions(elements []Element, opts BlockOptions) ActionsBlock {
	if elements == nil {
		elements = []Element{}
	}
	return ActionsBlock{Type: BlockActions, Elements: elements, BlockID: opts.BlockID}
}

// ContextElement is a text object, a RawText (rendered as mrkdwn) or an image element.
type ContextElement interface {
	isContextElement()
}

func (RawText) isContextElement() {}

type ContextBlock struct {
	Type     slack.MessageBlockType `json:"type"`
	Elements []ContextElement       `json:"elements"`
	BlockID  string                 `json:"block_id,omitempty"`
}

func (b ContextBlock) BlockType() slack.MessageBlockType { return b.Type }
func (b ContextBlock) ID() string                        { return b.BlockID }

func Context(elements []ContextElement, opts BlockOptions) ContextBlock {
	resolved := make([]ContextElement, 0, len(elements))
	for _, e := range elements {
		switch v := e.(type) {
		case nil:
		case RawText:
			resolved = append(resolved, Markdown(string(v)))
		default:
			resolved = append(resolved, v)
		}
	}
	return ContextBlock{Type: BlockContext, Elements: resolved, BlockID: opts.BlockID}
}

type DividerBlock struct {
	Type    slack.MessageBlockType `json:"type"`
	BlockID string                 `json:"block_id,omitempty"`
}

func (b DividerBlock) BlockType() slack.MessageBlockType { return b.Type }
func (b DividerBlock) ID() string                        { return b.BlockID }

func Divider(opts BlockOptions) DividerBlock {
	return DividerBlock{Type: BlockDivider, BlockID: opts.BlockID}
}

type HeaderBlock struct {
	Type    slack.MessageBlockType `json:"type"`
	Text    TextObject             `json:"text"`
	BlockID string                 `json:"block_id,omitempty"`
}

func (b HeaderBlock) BlockType() slack.MessageBlockType { return b.Type }
func (b HeaderBlock) ID() string                        { return b.BlockID }

func Header(text TextLike, opts BlockOptions) HeaderBlock {
	return HeaderBlock{Type: BlockHeader, Text: requiredText(text, false), BlockID: opts.BlockID}
}

type ImageBlock struct {
	Type     slack.MessageBlockType `json:"type"`
	ImageURL string                 `json:"image_url"`
	AltText  string                 `json:"alt_text"`
	Title    *TextObject            `json:"title,omitempty"`
	BlockID  string                 `json:"block_id,omitempty"`
}

func (b ImageBlock) BlockType() slack.MessageBlockType { return b.Type }
func (b ImageBlock) ID() string                        { return b.BlockID }

type ImageOptions struct {
	// AltText defaults to "image".
	AltText string
	Title   TextLike
	BlockID string
}

func Image(imageURL string, opts ImageOptions) ImageBlock {
	alt := opts.AltText
	if alt == "" {
		alt = "image"
	}
	return ImageBlock{
		Type:     BlockImage,
		ImageURL: imageURL,
		AltText:  alt,
		Title:    resolveText(opts.Title, false),
		BlockID:  opts.BlockID,
	}
}

type InputBlock struct {
	Type           slack.MessageBlockType `json:"type"`
	Label          TextObject             `json:"label"`
	Element        Element                `json:"element"`
	Optional       bool                   `json:"optional"`
	DispatchAction bool                   `json:"dispatch_action,omitempty"`
	BlockID        string                 `json:"block_id,omitempty"`
	Hint           *TextObject            `json:"hint,omitempty"`
}

func (b InputBlock) BlockType() slack.MessageBlockType { return b.Type }
func (b InputBlock) ID() string                        { return b.BlockID }

type InputOptions struct {
	DispatchAction bool
	BlockID        string
	Hint           TextLike
	// Optional defaults to true when nil.
	Optional *bool
}

// Input wraps an element with a label. The optional flag is always emitted.
func Input(label TextLike, element Element, opts InputOptions) InputBlock {
	optional := true
	if opts.Optional != nil {
		optional = *opts.Optional
	}
	return InputBlock{
		Type:           BlockInput,
		Label:          requiredText(label, false),
		Element:        element,
		Optional:       optional,
		DispatchAction: opts.DispatchAction,
		BlockID:        opts.BlockID,
		Hint:           resolveText(opts.Hint, false),
	}
}

// Required is a shorthand for InputOptions.Optional.
func Required() *bool {
	f := false
	return &f
}

type SectionBlock struct {
	Type      slack.MessageBlockType `json:"type"`
	Text      *TextObject            `json:"text,omitempty"`
	Fields    []TextObject           `json:"fields,omitempty"`
	Accessory Element                `json:"accessory,omitempty"`
	BlockID   string                 `json:"block_id,omitempty"`
}

func (b SectionBlock) BlockType() slack.MessageBlockType { return b.Type }
func (b SectionBlock) ID() string                        { return b.BlockID }

type SectionOptions struct {
	Text TextLike
	// Fields is an alternative to Text, up to 10 entries.
	Fields    []TextLike
	Accessory Element
	BlockID   string
}

// Section renders raw text and fields as mrkdwn.
func Section(opts SectionOptions) SectionBlock {
	return SectionBlock{
		Type:      BlockSection,
		Text:      resolveText(opts.Text, true),
		Fields:    resolveTexts(opts.Fields, true),
		Accessory: opts.Accessory,
		BlockID:   opts.BlockID,
	}
}
