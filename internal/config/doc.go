// Package config handles configuration loading for sverigesradio-mcp.
//
// # Overview
//
// Configuration is read from a YAML file, or a TOML file when the path ends
// in .toml, and layered over built-in defaults. A missing file is not an
// error: the defaults match the public Sveriges Radio API.
//
// # Configuration File
//
// Default location (first match wins):
//
//   - $SR_MCP_CONFIG
//   - $XDG_CONFIG_HOME/sverigesradio-mcp/config.yaml
//   - ~/.config/sverigesradio-mcp/config.yaml
//
// # Environment Variables
//
// ${VAR} references in the file are expanded before parsing. These variables
// override the file directly:
//
//   - SR_API_TIMEOUT_MS: upstream timeout in milliseconds
//   - PORT: HTTP listen port (sets server.http_addr to ":$PORT")
//   - LOG_LEVEL: logging level
//
// # Configuration Structure
//
//	server:
//	  http_addr: ":3000"
//
//	api:
//	  base_url: "https://api.sr.se/api/v2"
//	  timeout: "8s"
//	  max_retries: 2          # 0 disables retries
//	  retry_backoff: "200ms"  # wait before retry k is k*retry_backoff
//	  max_cache_entries: 300
//	  default_freshness: "5m" # used when responses carry no max-age
//	  coalesce_requests: false
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
//
// # Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := srclient.New(cfg.ClientConfig())
package config
