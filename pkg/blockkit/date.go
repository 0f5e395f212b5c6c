package blockkit

import (
	"fmt"
	"math"
)

const (
	DefaultDateTokens   = "{date_short_pretty} {time_secs}"
	DefaultDateFallback = "Error displaying date"
)

type DateFormat struct {
	// TokenString defaults to DefaultDateTokens.
	TokenString  string
	OptionalLink string
	// FallbackText defaults to DefaultDateFallback.
	FallbackText string
}

// FormatDate renders a millisecond timestamp as a mrkdwn date token, shown in the reader's timezone:
//
//	<!date^{seconds}^{tokens}[^link]|{fallback}>
func FormatDate(ms int64, f DateFormat) string {
	tokens := f.TokenString
	if tokens == "" {
		tokens = DefaultDateTokens
	}
	fallback := f.FallbackText
	if fallback == "" {
		fallback = DefaultDateFallback
	}
	link := ""
	if f.OptionalLink != "" {
		link = "^" + f.OptionalLink
	}
	seconds := int64(math.Floor(float64(ms) / 1000))
	return fmt.Sprintf("<!date^%d^%s%s|%s>", seconds, tokens, link, fallback)
}
