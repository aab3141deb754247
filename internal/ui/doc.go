// Package ui provides the blockext terminal interface, built on Bubble Tea.
//
// # Layout
//
//	┌ header: logo, push state, custom count (n/200), last update ┐
//	│ Fixed extensions   [x] bat  [ ] cmd  [ ] com ...             │
//	│ Custom extension   › _                                        │
//	│ Custom extensions  sh ×  py ×  ...                            │
//	└ command bar: key hints for the focused pane, theme name      ┘
//
// Tab and shift+tab move focus between the three panes.
//
// # Data Flow
//
// The Model never mutates extension state itself. It reads state.Store
// snapshots and re-renders whenever the synchronization engine publishes an
// event, plus once a second so the header follows the push connection.
//
//   - Toggling a checkbox calls Engine.Add with the inverse of what is
//     rendered; the engine renders the change optimistically and commits it
//     in a debounced batch.
//   - Adding a custom extension validates locally first. Validation failures
//     open a warning dialog and never reach the network. Server rejections
//     open an error dialog with the server's message; in both cases the input
//     is kept. Success clears the input.
//   - Deleting a chip asks for confirmation (a huh form) unless
//     confirm_delete is off in prefs.
//
// Custom list changes are not applied locally on success. The server pushes a
// snapshot afterwards, and that is what updates the chips and the count.
//
// # Dialogs
//
// Every message goes through one dialog type tagged with a Severity (info,
// success, warning, error). Dialogs and the confirmation form implement Modal.
//
// # Themes
//
// Nightfox, Kanagawa and Slate. T cycles them and the choice is saved to the
// prefs file.
package ui
