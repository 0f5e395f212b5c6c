package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-go-golems/boltkit/pkg/app"
	"github.com/go-go-golems/boltkit/pkg/blockkit"
	"github.com/go-go-golems/boltkit/pkg/views"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

const (
	settingsCallbackID = "settings"
	openSettingsAction = "open_settings"
	nameBlock          = "name"
	colorBlock         = "color"
	dateBlock          = "date"
	notifyBlock        = "notify"
)

// homeBlocks renders the home tab. args[0], if present, is the name to greet.
func homeBlocks(_ context.Context, h *views.Home, args ...any) ([]blockkit.Block, error) {
	name := "there"
	if len(args) > 0 {
		if s, ok := args[0].(string); ok && s != "" {
			name = s
		}
	}
	now := time.Now()
	if len(args) > 1 {
		if t, ok := args[1].(time.Time); ok {
			now = t
		}
	}
	return []blockkit.Block{
		blockkit.Header(blockkit.RawText("Hello "+name), blockkit.BlockOptions{}),
		blockkit.Section(blockkit.SectionOptions{
			Text: blockkit.RawText("Pick your *favorite color* and a date in the settings."),
			Accessory: blockkit.Button(blockkit.RawText("Settings"), blockkit.ButtonOptions{
				ActionID: openSettingsAction,
				Value:    h.PrivateMetadata,
				Style:    blockkit.ButtonPrimary,
			}),
		}),
		blockkit.Divider(blockkit.BlockOptions{}),
		blockkit.Context([]blockkit.ContextElement{
			blockkit.RawText("Last rendered " + blockkit.FormatDate(now.UnixMilli(), blockkit.DateFormat{})),
		}, blockkit.BlockOptions{}),
	}, nil
}

func settingsBlocks(context.Context, *views.Modal, ...any) ([]blockkit.Block, error) {
	colors := []blockkit.OptionLike{
		blockkit.OptionSpec{Text: "Red", Value: "red"},
		blockkit.OptionSpec{Text: "Green", Value: "green"},
		blockkit.NewOption(blockkit.PlainEmoji(":large_blue_circle: Blue", true), "blue", blockkit.OptionOptions{}),
	}
	return []blockkit.Block{
		blockkit.Input(blockkit.RawText("Name"), blockkit.TextInput(blockkit.TextInputOptions{
			ActionID:    "name_input",
			Placeholder: blockkit.RawText("Ada Lovelace"),
		}), blockkit.InputOptions{BlockID: nameBlock, Optional: blockkit.Required()}),
		blockkit.Input(blockkit.RawText("Favorite color"), blockkit.StaticSelect(blockkit.StaticSelectOptions{
			Options: colors,
		}), blockkit.InputOptions{BlockID: colorBlock}),
		blockkit.Input(blockkit.RawText("Start date"), blockkit.DatePicker(blockkit.DatePickerOptions{}),
			blockkit.InputOptions{BlockID: dateBlock}),
		blockkit.Input(blockkit.RawText("Notifications"), blockkit.Checkboxes([]blockkit.OptionLike{
			blockkit.OptionSpec{Text: "Daily digest", Value: "digest"},
			blockkit.OptionSpec{Text: "Mentions", Value: "mentions"},
		}, blockkit.CheckboxesOptions{}), blockkit.InputOptions{BlockID: notifyBlock}),
	}, nil
}

func newHome(name string) *views.Home {
	return views.NewHome(views.HomeParams{CallbackID: "home", PrivateMetadata: name}, homeBlocks)
}

func newSettingsModal() *views.Modal {
	return views.NewModal(views.ModalParams{
		Title:      blockkit.RawText("Settings"),
		Submit:     blockkit.RawText("Save"),
		Close:      blockkit.RawText("Cancel"),
		CallbackID: settingsCallbackID,
	}, settingsBlocks)
}

func registerListeners(a *app.App) {
	a.Event("app_home_opened", func(ctx context.Context, e *app.Envelope) error {
		return publishHome(ctx, e, "")
	})
	a.Message("hello", func(ctx context.Context, e *app.Envelope) error {
		if e.Client == nil || e.Message == nil {
			return nil
		}
		_, _, err := e.Client.PostMessageContext(ctx, e.Message.Channel,
			slack.MsgOptionText(fmt.Sprintf("Hello <@%s>!", e.UserID), false))
		return err
	})
}

func registerHandlers(a *app.App) {
	a.Action(openSettingsAction, func(ctx context.Context, e *app.Envelope) error {
		return openSettings(ctx, e, e.TriggerID)
	})
	a.Command("/boltkit", func(ctx context.Context, e *app.Envelope) error {
		return openSettings(ctx, e, e.Command.TriggerID)
	})
	a.View(settingsCallbackID, func(ctx context.Context, e *app.Envelope) error {
		values, err := e.Form(true)
		if err != nil {
			return err
		}
		log.Info().Str("user", e.UserID).Interface("values", values).Msg("settings submitted")
		name, _ := values[nameBlock].(string)
		return publishHome(ctx, e, name)
	}, app.ViewOptions{})
}

func openSettings(ctx context.Context, e *app.Envelope, triggerID string) error {
	m := newSettingsModal()
	if err := m.Compose(ctx); err != nil {
		return err
	}
	_, err := m.Open(ctx, e.Views, views.TriggerOptions{TriggerID: triggerID})
	return err
}

func publishHome(ctx context.Context, e *app.Envelope, name string) error {
	h := newHome(name)
	if err := h.Compose(ctx, name); err != nil {
		return err
	}
	if _, err := h.Publish(ctx, e.Views, e.UserID, views.PublishOptions{}); err != nil {
		return errors.Wrapf(err, "publish home for %s", e.UserID)
	}
	return nil
}
