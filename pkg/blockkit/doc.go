// Package blockkit builds Slack Block Kit payloads: composition objects, interactive elements and
// layout blocks.
//
// Builders are plain functions. Required fields are positional parameters, optional fields live in an
// Options struct and are left out of the JSON output when they hold their zero value. A few fields
// carry explicit defaults instead:
//   - plain text objects default to emoji=true
//   - input blocks default to optional=true
//   - interactive elements default action_id to the element type
//   - image blocks default alt_text to "image"
//
// Parameters that accept either a raw string or an already built object are expressed as small
// interfaces with two implementations (TextLike: RawText | TextObject, OptionLike: OptionSpec |
// Option, OptionGroupLike: OptionGroupSpec | OptionGroup). The raw variant is resolved once, when the
// builder runs.
//
// Blocks implement slack.Block and elements implement slack.BlockElement, so they can be handed to
// github.com/slack-go/slack directly.
package blockkit
