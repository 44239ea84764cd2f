// Package cli builds the punch-reminder command tree: the default reminder
// run, the explicit send and dispatch commands, a holiday lookup for a single
// date and the version command.
package cli
