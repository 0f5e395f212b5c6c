package blockkit

import (
	"github.com/spf13/cast"
)

type TextType string

const (
	PlainText TextType = "plain_text"
	Mrkdwn    TextType = "mrkdwn"
)

// TextObject is formatted either as plain_text or mrkdwn.
type TextObject struct {
	Type TextType `json:"type"`
	Text string   `json:"text"`
	// Emoji is only emitted for plain_text.
	Emoji *bool `json:"emoji,omitempty"`
	// Verbatim is only usable with mrkdwn.
	Verbatim bool `json:"verbatim,omitempty"`
}

// Text builds a text object. Plain text gets emoji=true.
func Text(text string, markdown bool) TextObject {
	if markdown {
		return TextObject{Type: Mrkdwn, Text: text}
	}
	return PlainEmoji(text, true)
}

func Plain(text string) TextObject {
	return Text(text, false)
}

func Markdown(text string) TextObject {
	return Text(text, true)
}

// PlainEmoji builds a plain_text object with an explicit emoji flag.
func PlainEmoji(text string, emoji bool) TextObject {
	return TextObject{Type: PlainText, Text: text, Emoji: &emoji}
}

// TextLike is either a RawText, resolved by the builder it is passed to, or a TextObject, which is
// used as is.
type TextLike interface {
	textObject(markdown bool) TextObject
}

// RawText is a bare string. Builders turn it into plain_text, except in positions that accept
// markdown (section text and fields, context elements) where it becomes mrkdwn.
type RawText string

func (r RawText) textObject(markdown bool) TextObject {
	return Text(string(r), markdown)
}

func (t TextObject) textObject(bool) TextObject {
	return t
}

func (TextObject) isContextElement() {}

// ResolveText turns a TextLike into a text object, or nil when t is nil.
func ResolveText(t TextLike, markdown bool) *TextObject {
	return resolveText(t, markdown)
}

func resolveText(t TextLike, markdown bool) *TextObject {
	if t == nil {
		return nil
	}
	o := t.textObject(markdown)
	return &o
}

// requiredText resolves a positional text parameter; a nil value yields an empty text object.
func requiredText(t TextLike, markdown bool) TextObject {
	if t == nil {
		return Text("", markdown)
	}
	return t.textObject(markdown)
}

func resolveTexts(ts []TextLike, markdown bool) []TextObject {
	if len(ts) == 0 {
		return nil
	}
	ret := make([]TextObject, 0, len(ts))
	for _, t := range ts {
		if t == nil {
			continue
		}
		ret = append(ret, t.textObject(markdown))
	}
	return ret
}

type ConfirmStyle string

const (
	StylePrimary ConfirmStyle = "primary"
	StyleDanger  ConfirmStyle = "danger"
)

// ConfirmObject adds a confirmation dialog to an interactive element.
type ConfirmObject struct {
	Title   TextObject   `json:"title"`
	Text    TextObject   `json:"text"`
	Confirm TextObject   `json:"confirm"`
	Deny    TextObject   `json:"deny"`
	Style   ConfirmStyle `json:"style,omitempty"`
}

type ConfirmOptions struct {
	Style ConfirmStyle
}

// Confirm builds a confirmation dialog. Raw strings become plain text.
func Confirm(title, text, confirm, deny TextLike, opts ConfirmOptions) *ConfirmObject {
	return &ConfirmObject{
		Title:   requiredText(title, false),
		Text:    requiredText(text, false),
		Confirm: requiredText(confirm, false),
		Deny:    requiredText(deny, false),
		Style:   opts.Style,
	}
}

// Option is a single entry of a select menu, overflow menu, checkbox group or radio group.
type Option struct {
	Text        TextObject  `json:"text"`
	Value       string      `json:"value"`
	Description *TextObject `json:"description,omitempty"`
	URL         string      `json:"url,omitempty"`
}

type OptionOptions struct {
	Description TextLike
	URL         string
}

// NewOption builds an option. value may be a string or a number and is always stored as a string.
func NewOption(text TextLike, value any, opts OptionOptions) Option {
	return Option{
		Text:        requiredText(text, false),
		Value:       cast.ToString(value),
		Description: resolveText(opts.Description, false),
		URL:         opts.URL,
	}
}

// OptionSpec is the bare {text, value, description, url} shape of an option.
type OptionSpec struct {
	Text        string
	Value       any
	Description string
	URL         string
}

// OptionLike is either an OptionSpec or an already built Option.
type OptionLike interface {
	option() Option
}

func (o Option) option() Option {
	return o
}

func (s OptionSpec) option() Option {
	opts := OptionOptions{URL: s.URL}
	if s.Description != "" {
		opts.Description = RawText(s.Description)
	}
	return NewOption(RawText(s.Text), s.Value, opts)
}

// OptionFrom converts a bare option shape into an Option.
func OptionFrom(spec OptionSpec) Option {
	return spec.option()
}

// OptionsFrom converts a list of bare option shapes.
func OptionsFrom(specs []OptionSpec) []Option {
	ret := make([]Option, 0, len(specs))
	for _, s := range specs {
		ret = append(ret, s.option())
	}
	return ret
}

func resolveOptions(in []OptionLike) []Option {
	if len(in) == 0 {
		return nil
	}
	ret := make([]Option, 0, len(in))
	for _, o := range in {
		if o == nil {
			continue
		}
		ret = append(ret, o.option())
	}
	return ret
}

func resolveOption(in OptionLike) *Option {
	if in == nil {
		return nil
	}
	o := in.option()
	return &o
}

// OptionGroup groups options under a label in select menus.
type OptionGroup struct {
	Label   TextObject `json:"label"`
	Options []Option   `json:"options"`
}

// NewOptionGroup builds an option group. The options list is always emitted.
func NewOptionGroup(label TextLike, options ...OptionLike) OptionGroup {
	resolved := resolveOptions(options)
	if resolved == nil {
		resolved = []Option{}
	}
	return OptionGroup{
		Label:   requiredText(label, false),
		Options: resolved,
	}
}

// OptionGroupSpec is the bare {label, options} shape of an option group.
type OptionGroupSpec struct {
	Label   string
	Options []OptionLike
}

type OptionGroupLike interface {
	optionGroup() OptionGroup
}

func (g OptionGroup) optionGroup() OptionGroup {
	return g
}

func (s OptionGroupSpec) optionGroup() OptionGroup {
	return NewOptionGroup(RawText(s.Label), s.Options...)
}

func resolveOptionGroups(in []OptionGroupLike) []OptionGroup {
	if len(in) == 0 {
		return nil
	}
	ret := make([]OptionGroup, 0, len(in))
	for _, g := range in {
		if g == nil {
			continue
		}
		ret = append(ret, g.optionGroup())
	}
	return ret
}

type ConversationType string

const (
	ConversationIM      ConversationType = "im"
	ConversationMPIM    ConversationType = "mpim"
	ConversationPrivate ConversationType = "private"
	ConversationPublic  ConversationType = "public"
)

// Filter narrows the conversations offered by conversation select menus.
type Filter struct {
	Include                       []ConversationType `json:"include,omitempty"`
	ExcludeExternalSharedChannels bool               `json:"exclude_external_shared_channels,omitempty"`
	ExcludeBotUsers               bool               `json:"exclude_bot_users,omitempty"`
}

type FilterOptions struct {
	Include                       []ConversationType
	ExcludeExternalSharedChannels bool
	ExcludeBotUsers               bool
}

func NewFilter(opts FilterOptions) *Filter {
	return &Filter{
		Include:                       opts.Include,
		ExcludeExternalSharedChannels: opts.ExcludeExternalSharedChannels,
		ExcludeBotUsers:               opts.ExcludeBotUsers,
	}
}

const (
	TriggerOnEnterPressed     = "on_enter_pressed"
	TriggerOnCharacterEntered = "on_character_entered"
)

// DispatchActionConfig lists the interactions that make a text input dispatch a block_actions
// payload.
type DispatchActionConfig struct {
	TriggerActionsOn []string `json:"trigger_actions_on"`
}

// dispatchConfig returns nil when neither trigger is enabled.
func dispatchConfig(onEnter, onType bool) *DispatchActionConfig {
	var triggers []string
	if onEnter {
		triggers = append(triggers, TriggerOnEnterPressed)
	}
	if onType {
		triggers = append(triggers, TriggerOnCharacterEntered)
	}
	if len(triggers) == 0 {
		return nil
	}
	return &DispatchActionConfig{TriggerActionsOn: triggers}
}

// stringValue coerces an optional scalar; nil stays empty so the field is omitted.
func stringValue(v any) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}
