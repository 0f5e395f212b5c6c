// Package app is the handler registration facade. Each handler kind (event, message, action,
// shortcut, view, command, options) gets an Envelope carrying the acting user, a views client and the
// raw request. Actions, shortcuts, commands, option requests and views (unless ViewOptions.NoAck is
// set) are acknowledged before the handler runs.
package app
