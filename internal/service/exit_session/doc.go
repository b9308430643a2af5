// Package exit_session owns the lifecycle of the checklist shown when the
// user leaves home: it opens a session on an exit, tracks which items are
// checked and closes it into exactly one recorded ExitEvent.
package exit_session
