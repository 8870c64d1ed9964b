// Package config handles configuration loading for summariser-web.
//
// # Configuration File
//
// Location (first match):
//
//  1. Path from the SUMMARISER_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/summariser/web.yaml
//  3. ~/.config/summariser/web.yaml
//
// A missing file is not an error for LoadOrDefault; every field has a default.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	tailscale:
//	  auth_key: "${TS_AUTHKEY}"
//
// Unset variables expand to the empty string.
//
// # Configuration Sections
//
//	server:
//	  http_addr: "127.0.0.1:8090"
//
//	api:
//	  base_url: "https://chat-summarizer.zeabur.app/api"
//	  timeout: "30s"               # empty means no client-side timeout
//
//	chat:
//	  default_title: "New Chat"
//	  narrow_width: 768            # sidebar collapses on select below this
//	  session_idle_timeout: "30m"  # browser sessions are dropped after this
//
//	tailscale:
//	  enabled: false
//	  hostname: "summariser"
//	  auth_key: "${TS_AUTHKEY}"
//	  state_dir: ""
//	  ephemeral: false
//	  funnel: false
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Durations use time.ParseDuration syntax.
package config
