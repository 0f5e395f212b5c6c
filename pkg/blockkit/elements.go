package blockkit

import (
	"github.com/slack-go/slack"
)

// Element is an interactive (or image) element placed in a block.
type Element interface {
	ElementType() slack.MessageElementType
}

const (
	TypeButton                   slack.MessageElementType = "button"
	TypePlainTextInput           slack.MessageElementType = "plain_text_input"
	TypeEmailTextInput           slack.MessageElementType = "email_text_input"
	TypeURLTextInput             slack.MessageElementType = "url_text_input"
	TypeNumberInput              slack.MessageElementType = "number_input"
	TypeStaticSelect             slack.MessageElementType = "static_select"
	TypeExternalSelect           slack.MessageElementType = "external_select"
	TypeUsersSelect              slack.MessageElementType = "users_select"
	TypeConversationsSelect      slack.MessageElementType = "conversations_select"
	TypeChannelsSelect           slack.MessageElementType = "channels_select"
	TypeMultiStaticSelect        slack.MessageElementType = "multi_static_select"
	TypeMultiExternalSelect      slack.MessageElementType = "multi_external_select"
	TypeMultiUsersSelect         slack.MessageElementType = "multi_users_select"
	TypeMultiConversationsSelect slack.MessageElementType = "multi_conversations_select"
	TypeMultiChannelsSelect      slack.MessageElementType = "multi_channels_select"
	TypeOverflow                 slack.MessageElementType = "overflow"
	TypeDatepicker               slack.MessageElementType = "datepicker"
	TypeTimepicker               slack.MessageElementType = "timepicker"
	TypeDatetimepicker           slack.MessageElementType = "datetimepicker"
	TypeCheckboxes               slack.MessageElementType = "checkboxes"
	TypeRadioButtons             slack.MessageElementType = "radio_buttons"
	TypeImage                    slack.MessageElementType = "image"
)

func actionID(id string, t slack.MessageElementType) string {
	if id == "" {
		return string(t)
	}
	return id
}

type ButtonStyle string

const (
	ButtonPrimary ButtonStyle = "primary"
	ButtonDanger  ButtonStyle = "danger"
)

type ButtonElement struct {
	Type               slack.MessageElementType `json:"type"`
	Text               TextObject               `json:"text"`
	ActionID           string                   `json:"action_id"`
	URL                string                   `json:"url,omitempty"`
	Value              string                   `json:"value,omitempty"`
	Style              ButtonStyle              `json:"style,omitempty"`
	Confirm            *ConfirmObject           `json:"confirm,omitempty"`
	AccessibilityLabel string                   `json:"accessibility_label,omitempty"`
}

func (e ButtonElement) ElementType() slack.MessageElementType { return e.Type }

type ButtonOptions struct {
	ActionID           string
	URL                string
	Value              any
	Style              ButtonStyle
	Confirm            *ConfirmObject
	AccessibilityLabel string
}

// Button builds a button. A raw text becomes plain text.
func Button(text TextLike, opts ButtonOptions) ButtonElement {
	return ButtonElement{
		Type:               TypeButton,
		Text:               requiredText(text, false),
		ActionID:           actionID(opts.ActionID, TypeButton),
		URL:                opts.URL,
		Value:              stringValue(opts.Value),
		Style:              opts.Style,
		Confirm:            opts.Confirm,
		AccessibilityLabel: opts.AccessibilityLabel,
	}
}

type PlainTextInputElement struct {
	Type                 slack.MessageElementType `json:"type"`
	ActionID             string                   `json:"action_id"`
	InitialValue         string                   `json:"initial_value,omitempty"`
	Multiline            bool                     `json:"multiline,omitempty"`
	MinLength            int                      `json:"min_length,omitempty"`
	MaxLength            int                      `json:"max_length,omitempty"`
	FocusOnLoad          bool                     `json:"focus_on_load,omitempty"`
	Placeholder          *TextObject              `json:"placeholder,omitempty"`
	DispatchActionConfig *DispatchActionConfig    `json:"dispatch_action_config,omitempty"`
}

func (e PlainTextInputElement) ElementType() slack.MessageElementType { return e.Type }

type TextInputOptions struct {
	ActionID       string
	InitialValue   any
	Multiline      bool
	MinLength      int
	MaxLength      int
	FocusOnLoad    bool
	Placeholder    TextLike
	TriggerOnEnter bool
	TriggerOnType  bool
}

func TextInput(opts TextInputOptions) PlainTextInputElement {
	return PlainTextInputElement{
		Type:                 TypePlainTextInput,
		ActionID:             actionID(opts.ActionID, TypePlainTextInput),
		InitialValue:         stringValue(opts.InitialValue),
		Multiline:            opts.Multiline,
		MinLength:            opts.MinLength,
		MaxLength:            opts.MaxLength,
		FocusOnLoad:          opts.FocusOnLoad,
		Placeholder:          resolveText(opts.Placeholder, false),
		DispatchActionConfig: dispatchConfig(opts.TriggerOnEnter, opts.TriggerOnType),
	}
}

// SingleLineInputElement covers email_text_input and url_text_input, which share their fields.
type SingleLineInputElement struct {
	Type                 slack.MessageElementType `json:"type"`
	ActionID             string                   `json:"action_id"`
	InitialValue         string                   `json:"initial_value,omitempty"`
	FocusOnLoad          bool                     `json:"focus_on_load,omitempty"`
	Placeholder          *TextObject              `json:"placeholder,omitempty"`
	DispatchActionConfig *DispatchActionConfig    `json:"dispatch_action_config,omitempty"`
}

func (e SingleLineInputElement) ElementType() slack.MessageElementType { return e.Type }

type SingleLineInputOptions struct {
	ActionID       string
	InitialValue   string
	FocusOnLoad    bool
	Placeholder    TextLike
	TriggerOnEnter bool
	TriggerOnType  bool
}

func singleLineInput(t slack.MessageElementType, opts SingleLineInputOptions) SingleLineInputElement {
	return SingleLineInputElement{
		Type:                 t,
		ActionID:             actionID(opts.ActionID, t),
		InitialValue:         opts.InitialValue,
		FocusOnLoad:          opts.FocusOnLoad,
		Placeholder:          resolveText(opts.Placeholder, false),
		DispatchActionConfig: dispatchConfig(opts.TriggerOnEnter, opts.TriggerOnType),
	}
}

func EmailInput(opts SingleLineInputOptions) SingleLineInputElement {
	return singleLineInput(TypeEmailTextInput, opts)
}

func URLInput(opts SingleLineInputOptions) SingleLineInputElement {
	return singleLineInput(TypeURLTextInput, opts)
}

type NumberInputElement struct {
	Type                 slack.MessageElementType `json:"type"`
	IsDecimalAllowed     bool                     `json:"is_decimal_allowed"`
	ActionID             string                   `json:"action_id"`
	InitialValue         string                   `json:"initial_value,omitempty"`
	MinValue             string                   `json:"min_value,omitempty"`
	MaxValue             string                   `json:"max_value,omitempty"`
	FocusOnLoad          bool                     `json:"focus_on_load,omitempty"`
	Placeholder          *TextObject              `json:"placeholder,omitempty"`
	DispatchActionConfig *DispatchActionConfig    `json:"dispatch_action_config,omitempty"`
}

func (e NumberInputElement) ElementType() slack.MessageElementType { return e.Type }

type NumberInputOptions struct {
	ActionID       string
	InitialValue   any
	MinValue       any
	MaxValue       any
	FocusOnLoad    bool
	Placeholder    TextLike
	TriggerOnEnter bool
	TriggerOnType  bool
}

// NumberInput builds a number input. Numeric values and bounds are sent as strings.
func NumberInput(decimalAllowed bool, opts NumberInputOptions) NumberInputElement {
	return NumberInputElement{
		Type:                 TypeNumberInput,
		IsDecimalAllowed:     decimalAllowed,
		ActionID:             actionID(opts.ActionID, TypeNumberInput),
		InitialValue:         stringValue(opts.InitialValue),
		MinValue:             stringValue(opts.MinValue),
		MaxValue:             stringValue(opts.MaxValue),
		FocusOnLoad:          opts.FocusOnLoad,
		Placeholder:          resolveText(opts.Placeholder, false),
		DispatchActionConfig: dispatchConfig(opts.TriggerOnEnter, opts.TriggerOnType),
	}
}

// SelectElement is shared by every single and multi select menu type. Fields that do not apply to a
// given type stay at their zero value and are omitted.
type SelectElement struct {
	Type                         slack.MessageElementType `json:"type"`
	ActionID                     string                   `json:"action_id"`
	Options                      []Option                 `json:"options,omitempty"`
	OptionGroups                 []OptionGroup            `json:"option_groups,omitempty"`
	InitialOption                *Option                  `json:"initial_option,omitempty"`
	InitialOptions               []Option                 `json:"initial_options,omitempty"`
	InitialUser                  string                   `json:"initial_user,omitempty"`
	InitialUsers                 []string                 `json:"initial_users,omitempty"`
	InitialConversation          string                   `json:"initial_conversation,omitempty"`
	InitialConversations         []string                 `json:"initial_conversations,omitempty"`
	InitialChannel               string                   `json:"initial_channel,omitempty"`
	InitialChannels              []string                 `json:"initial_channels,omitempty"`
	DefaultToCurrentConversation bool                     `json:"default_to_current_conversation,omitempty"`
	ResponseURLEnabled           bool                     `json:"response_url_enabled,omitempty"`
	Filter                       *Filter                  `json:"filter,omitempty"`
	MinQueryLength               int                      `json:"min_query_length,omitempty"`
	MaxSelectedItems             int                      `json:"max_selected_items,omitempty"`
	Confirm                      *ConfirmObject           `json:"confirm,omitempty"`
	FocusOnLoad                  bool                     `json:"focus_on_load,omitempty"`
	Placeholder                  *TextObject              `json:"placeholder,omitempty"`
}

func (e SelectElement) ElementType() slack.MessageElementType { return e.Type }

type StaticSelectOptions struct {
	ActionID      string
	Options       []OptionLike
	OptionGroups  []OptionGroupLike
	InitialOption OptionLike
	Confirm       *ConfirmObject
	FocusOnLoad   bool
	Placeholder   TextLike
}

// StaticSelect builds a static select menu. Options may mix bare OptionSpec values and built
// Option values.
func StaticSelect(opts StaticSelectOptions) SelectElement {
	return SelectElement{
		Type:          TypeStaticSelect,
		ActionID:      actionID(opts.ActionID, TypeStaticSelect),
		Options:       resolveOptions(opts.Options),
		OptionGroups:  resolveOptionGroups(opts.OptionGroups),
		InitialOption: resolveOption(opts.InitialOption),
		Confirm:       opts.Confirm,
		FocusOnLoad:   opts.FocusOnLoad,
		Placeholder:   resolveText(opts.Placeholder, false),
	}
}

type MultiStaticSelectOptions struct {
	ActionID         string
	Options          []OptionLike
	OptionGroups     []OptionGroupLike
	InitialOptions   []OptionLike
	MaxSelectedItems int
	Confirm          *ConfirmObject
	FocusOnLoad      bool
	Placeholder      TextLike
}

func MultiStaticSelect(opts MultiStaticSelectOptions) SelectElement {
	return SelectElement{
		Type:             TypeMultiStaticSelect,
		ActionID:         actionID(opts.ActionID, TypeMultiStaticSelect),
		Options:          resolveOptions(opts.Options),
		OptionGroups:     resolveOptionGroups(opts.OptionGroups),
		InitialOptions:   resolveOptions(opts.InitialOptions),
		MaxSelectedItems: opts.MaxSelectedItems,
		Confirm:          opts.Confirm,
		FocusOnLoad:      opts.FocusOnLoad,
		Placeholder:      resolveText(opts.Placeholder, false),
	}
}

type ExternalSelectOptions struct {
	ActionID       string
	InitialOption  OptionLike
	MinQueryLength int
	Confirm        *ConfirmObject
	FocusOnLoad    bool
	Placeholder    TextLike
}

// ExternalSelect builds a select menu whose options are loaded through an options listener.
func ExternalSelect(opts ExternalSelectOptions) SelectElement {
	return SelectElement{
		Type:           TypeExternalSelect,
		ActionID:       actionID(opts.ActionID, TypeExternalSelect),
		InitialOption:  resolveOption(opts.InitialOption),
		MinQueryLength: opts.MinQueryLength,
		Confirm:        opts.Confirm,
		FocusOnLoad:    opts.FocusOnLoad,
		Placeholder:    resolveText(opts.Placeholder, false),
	}
}

type MultiExternalSelectOptions struct {
	ActionID         string
	InitialOptions   []OptionLike
	MinQueryLength   int
	MaxSelectedItems int
	Confirm          *ConfirmObject
	FocusOnLoad      bool
	Placeholder      TextLike
}

func MultiExternalSelect(opts MultiExternalSelectOptions) SelectElement {
	return SelectElement{
		Type:             TypeMultiExternalSelect,
		ActionID:         actionID(opts.ActionID, TypeMultiExternalSelect),
		InitialOptions:   resolveOptions(opts.InitialOptions),
		MinQueryLength:   opts.MinQueryLength,
		MaxSelectedItems: opts.MaxSelectedItems,
		Confirm:          opts.Confirm,
		FocusOnLoad:      opts.FocusOnLoad,
		Placeholder:      resolveText(opts.Placeholder, false),
	}
}

type UsersSelectOptions struct {
	ActionID     string
	InitialUser  string
	InitialUsers []string
	// MaxSelectedItems only applies to MultiUsersSelect.
	MaxSelectedItems int
	Confirm          *ConfirmObject
	FocusOnLoad      bool
	Placeholder      TextLike
}

func UsersSelect(opts UsersSelectOptions) SelectElement {
	return SelectElement{
		Type:        TypeUsersSelect,
		ActionID:    actionID(opts.ActionID, TypeUsersSelect),
		InitialUser: opts.InitialUser,
		Confirm:     opts.Confirm,
		FocusOnLoad: opts.FocusOnLoad,
		Placeholder: resolveText(opts.Placeholder, false),
	}
}

func MultiUsersSelect(opts UsersSelectOptions) SelectElement {
	return SelectElement{
		Type:             TypeMultiUsersSelect,
		ActionID:         actionID(opts.ActionID, TypeMultiUsersSelect),
		InitialUsers:     opts.InitialUsers,
		MaxSelectedItems: opts.MaxSelectedItems,
		Confirm:          opts.Confirm,
		FocusOnLoad:      opts.FocusOnLoad,
		Placeholder:      resolveText(opts.Placeholder, false),
	}
}

type ConversationsSelectOptions struct {
	ActionID                     string
	InitialConversation          string
	InitialConversations         []string
	DefaultToCurrentConversation bool
	// ResponseURLEnabled only applies to ConversationsSelect.
	ResponseURLEnabled bool
	Filter             *Filter
	// MaxSelectedItems only applies to MultiConversationsSelect.
	MaxSelectedItems int
	Confirm          *ConfirmObject
	FocusOnLoad      bool
	Placeholder      TextLike
}

func ConversationsSelect(opts ConversationsSelectOptions) SelectElement {
	return SelectElement{
		Type:                         TypeConversationsSelect,
		ActionID:                     actionID(opts.ActionID, TypeConversationsSelect),
		InitialConversation:          opts.InitialConversation,
		DefaultToCurrentConversation: opts.DefaultToCurrentConversation,
		ResponseURLEnabled:           opts.ResponseURLEnabled,
		Filter:                       opts.Filter,
		Confirm:                      opts.Confirm,
		FocusOnLoad:                  opts.FocusOnLoad,
		Placeholder:                  resolveText(opts.Placeholder, false),
	}
}

func MultiConversationsSelect(opts ConversationsSelectOptions) SelectElement {
	return SelectElement{
		Type:                         TypeMultiConversationsSelect,
		ActionID:                     actionID(opts.ActionID, TypeMultiConversationsSelect),
		InitialConversations:         opts.InitialConversations,
		DefaultToCurrentConversation: opts.DefaultToCurrentConversation,
		Filter:                       opts.Filter,
		MaxSelectedItems:             opts.MaxSelectedItems,
		Confirm:                      opts.Confirm,
		FocusOnLoad:                  opts.FocusOnLoad,
		Placeholder:                  resolveText(opts.Placeholder, false),
	}
}

type ChannelsSelectOptions struct {
	ActionID        string
	InitialChannel  string
	InitialChannels []string
	// ResponseURLEnabled only applies to ChannelsSelect.
	ResponseURLEnabled bool
	// MaxSelectedItems only applies to MultiChannelsSelect.
	MaxSelectedItems int
	Confirm          *ConfirmObject
	FocusOnLoad      bool
	Placeholder      TextLike
}

func ChannelsSelect(opts ChannelsSelectOptions) SelectElement {
	return SelectElement{
		Type:               TypeChannelsSelect,
		ActionID:           actionID(opts.ActionID, TypeChannelsSelect),
		InitialChannel:     opts.InitialChannel,
		ResponseURLEnabled: opts.ResponseURLEnabled,
		Confirm:            opts.Confirm,
		FocusOnLoad:        opts.FocusOnLoad,
		Placeholder:        resolveText(opts.Placeholder, false),
	}
}

func MultiChannelsSelect(opts ChannelsSelectOptions) SelectElement {
	return SelectElement{
		Type:             TypeMultiChannelsSelect,
		ActionID:         actionID(opts.ActionID, TypeMultiChannelsSelect),
		InitialChannels:  opts.InitialChannels,
		MaxSelectedItems: opts.MaxSelectedItems,
		Confirm:          opts.Confirm,
		FocusOnLoad:      opts.FocusOnLoad,
		Placeholder:      resolveText(opts.Placeholder, false),
	}
}

type OverflowElement struct {
	Type     slack.MessageElementType `json:"type"`
	ActionID string                   `json:"action_id"`
	Options  []Option                 `json:"options"`
	Confirm  *ConfirmObject           `json:"confirm,omitempty"`
}

func (e OverflowElement) ElementType() slack.MessageElementType { return e.Type }

type OverflowOptions struct {
	ActionID string
	Confirm  *ConfirmObject
}

func Overflow(options []OptionLike, opts OverflowOptions) OverflowElement {
	return OverflowElement{
		Type:     TypeOverflow,
		ActionID: actionID(opts.ActionID, TypeOverflow),
		Options:  nonNilOptions(resolveOptions(options)),
		Confirm:  opts.Confirm,
	}
}

// PickerElement covers datepicker, timepicker and datetimepicker.
type PickerElement struct {
	Type            slack.MessageElementType `json:"type"`
	ActionID        string                   `json:"action_id"`
	InitialDate     string                   `json:"initial_date,omitempty"`
	InitialTime     string                   `json:"initial_time,omitempty"`
	InitialDateTime int64                    `json:"initial_date_time,omitempty"`
	Timezone        string                   `json:"timezone,omitempty"`
	Confirm         *ConfirmObject           `json:"confirm,omitempty"`
	FocusOnLoad     bool                     `json:"focus_on_load,omitempty"`
	Placeholder     *TextObject              `json:"placeholder,omitempty"`
}

func (e PickerElement) ElementType() slack.MessageElementType { return e.Type }

type DatePickerOptions struct {
	ActionID string
	// InitialDate is formatted YYYY-MM-DD.
	InitialDate string
	Confirm     *ConfirmObject
	FocusOnLoad bool
	Placeholder TextLike
}

func DatePicker(opts DatePickerOptions) PickerElement {
	return PickerElement{
		Type:        TypeDatepicker,
		ActionID:    actionID(opts.ActionID, TypeDatepicker),
		InitialDate: opts.InitialDate,
		Confirm:     opts.Confirm,
		FocusOnLoad: opts.FocusOnLoad,
		Placeholder: resolveText(opts.Placeholder, false),
	}
}

type TimePickerOptions struct {
	ActionID string
	// InitialTime is formatted HH:mm.
	InitialTime string
	Timezone    string
	Confirm     *ConfirmObject
	FocusOnLoad bool
	Placeholder TextLike
}

func TimePicker(opts TimePickerOptions) PickerElement {
	return PickerElement{
		Type:        TypeTimepicker,
		ActionID:    actionID(opts.ActionID, TypeTimepicker),
		InitialTime: opts.InitialTime,
		Timezone:    opts.Timezone,
		Confirm:     opts.Confirm,
		FocusOnLoad: opts.FocusOnLoad,
		Placeholder: resolveText(opts.Placeholder, false),
	}
}

type DateTimePickerOptions struct {
	ActionID string
	// InitialDateTime is a UNIX timestamp in seconds.
	InitialDateTime int64
	Confirm         *ConfirmObject
	FocusOnLoad     bool
}

func DateTimePicker(opts DateTimePickerOptions) PickerElement {
	return PickerElement{
		Type:            TypeDatetimepicker,
		ActionID:        actionID(opts.ActionID, TypeDatetimepicker),
		InitialDateTime: opts.InitialDateTime,
		Confirm:         opts.Confirm,
		FocusOnLoad:     opts.FocusOnLoad,
	}
}

// ChoiceElement covers checkboxes and radio_buttons.
type ChoiceElement struct {
	Type           slack.MessageElementType `json:"type"`
	ActionID       string                   `json:"action_id"`
	Options        []Option                 `json:"options"`
	InitialOption  *Option                  `json:"initial_option,omitempty"`
	InitialOptions []Option                 `json:"initial_options,omitempty"`
	Confirm        *ConfirmObject           `json:"confirm,omitempty"`
	FocusOnLoad    bool                     `json:"focus_on_load,omitempty"`
}

func (e ChoiceElement) ElementType() slack.MessageElementType { return e.Type }

type CheckboxesOptions struct {
	ActionID       string
	InitialOptions []OptionLike
	Confirm        *ConfirmObject
	FocusOnLoad    bool
}

func Checkboxes(options []OptionLike, opts CheckboxesOptions) ChoiceElement {
	return ChoiceElement{
		Type:           TypeCheckboxes,
		ActionID:       actionID(opts.ActionID, TypeCheckboxes),
		Options:        nonNilOptions(resolveOptions(options)),
		InitialOptions: resolveOptions(opts.InitialOptions),
		Confirm:        opts.Confirm,
		FocusOnLoad:    opts.FocusOnLoad,
	}
}

type RadioButtonsOptions struct {
	ActionID      string
	InitialOption OptionLike
	Confirm       *ConfirmObject
	FocusOnLoad   bool
}

func RadioButtons(options []OptionLike, opts RadioButtonsOptions) ChoiceElement {
	return ChoiceElement{
		Type:          TypeRadioButtons,
		ActionID:      actionID(opts.ActionID, TypeRadioButtons),
		Options:       nonNilOptions(resolveOptions(options)),
		InitialOption: resolveOption(opts.InitialOption),
		Confirm:       opts.Confirm,
		FocusOnLoad:   opts.FocusOnLoad,
	}
}

// ImageElement is the non-interactive image used in section accessories and context blocks.
type ImageElement struct {
	Type     slack.MessageElementType `json:"type"`
	ImageURL string                   `json:"image_url"`
	AltText  string                   `json:"alt_text"`
}

func (e ImageElement) ElementType() slack.MessageElementType { return e.Type }

func (ImageElement) isContextElement() {}

func ImageEl(imageURL, altText string) ImageElement {
	return ImageElement{Type: TypeImage, ImageURL: imageURL, AltText: altText}
}

func nonNilOptions(o []Option) []Option {
	if o == nil {
		return []Option{}
	}
	return o
}
