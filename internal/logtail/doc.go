// Package logtail reads the tail of the blockext log file.
//
// The TUI owns the terminal, so the client logs to a file (log_file in the
// config). Read returns the last N lines of that file using a ring buffer, so
// memory stays bounded by N rather than by file size. Lines written by the
// slog text handler carry a level=... attribute; Read drops those below the
// requested level and keeps lines without one.
//
//	lines, err := logtail.Read(cfg.LogFile, 200, slog.LevelWarn)
package logtail
