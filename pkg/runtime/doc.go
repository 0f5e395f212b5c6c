// Package runtime is the bot runtime the app facade sits on: it receives Slack requests over socket
// mode or signed HTTP, decodes them with slack-go types and runs the listeners registered for them.
//
// The runtime does not acknowledge interactive requests on its own before dispatch; listeners call
// Request.Ack. Receivers send an empty acknowledgment when dispatch finishes without one, and every
// acknowledgment after the first is dropped.
package runtime
