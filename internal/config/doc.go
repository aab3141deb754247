// Package config loads the blockext client configuration.
//
// # Configuration Discovery
//
// Load reads ~/.config/blockext/config.toml unless a path is given. A missing
// file is not an error: every field has a default. Blank values fall back to
// their defaults and string values are trimmed.
//
// # Fields
//
//	api_base            = "http://127.0.0.1:8080"
//	push_url            = "ws://127.0.0.1:8080/ws/websocket"  # derived from api_base
//	push_topic          = "/topic/extensions"
//	quiet_period        = "300ms"
//	reconnect_delay     = "3s"
//	request_timeout     = "5s"
//	resync_on_reconnect = true
//	drop_net_zero       = true
//	fixed               = ["bat", "cmd", "com", "cpl", "exe", "scr", "js"]
//	log_file            = "~/.local/state/blockext/blockext.log"
//	log_level           = "info"
//
// Durations use Go duration syntax and must be positive. Tilde expansion is
// applied to log_file.
//
// # Environment
//
// BLOCKEXT_API_BASE, BLOCKEXT_PUSH_URL and BLOCKEXT_LOG_LEVEL override the
// corresponding file values. When only api_base changes, push_url follows it
// (http becomes ws, https becomes wss).
package config
