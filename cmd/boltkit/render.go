package main

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/go-go-golems/boltkit/pkg/blockkit"
	"github.com/go-go-golems/boltkit/pkg/views"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRenderCommand() *cobra.Command {
	var (
		format string
		name   string
	)
	cmd := &cobra.Command{
		Use:       "render home|modal",
		Short:     "Print a demo view document as Slack receives it",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"home", "modal"},
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := renderDemo(cmd, args[0], name)
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), doc, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json, yaml)")
	cmd.Flags().StringVar(&name, "name", "", "Name greeted on the home tab")
	return cmd
}

func renderDemo(cmd *cobra.Command, kind, name string) (views.Document, error) {
	ctx := cmd.Context()
	switch kind {
	case "home":
		h := newHome(name)
		if err := h.Compose(ctx, name); err != nil {
			return views.Document{}, err
		}
		return h.Snapshot(), nil
	case "modal":
		m := newSettingsModal()
		if err := m.Compose(ctx); err != nil {
			return views.Document{}, err
		}
		return m.Snapshot(), nil
	}
	return views.Document{}, errors.Errorf("unknown view %q", kind)
}

// writeDocument writes doc as indented JSON, or as YAML with the same keys.
func writeDocument(w io.Writer, doc views.Document, format string) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode view")
	}
	switch format {
	case "json":
		_, err = w.Write(append(b, '\n'))
		return err
	case "yaml":
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			return errors.Wrap(err, "decode view")
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	}
	return errors.Errorf("unknown format %q", format)
}

func newFormatDateCommand() *cobra.Command {
	var f blockkit.DateFormat
	cmd := &cobra.Command{
		Use:   "format-date <unix-ms>",
		Short: "Print a Slack date token for a timestamp in milliseconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid timestamp %q", args[0])
			}
			_, err = io.WriteString(cmd.OutOrStdout(), blockkit.FormatDate(ms, f)+"\n")
			return err
		},
	}
	cmd.Flags().StringVar(&f.TokenString, "token", "", "Token string (default "+blockkit.DefaultDateTokens+")")
	cmd.Flags().StringVar(&f.OptionalLink, "link", "", "Link the date points to")
	cmd.Flags().StringVar(&f.FallbackText, "fallback", "", "Text shown by clients that cannot render dates")
	return cmd
}
