// Package config loads the storefront client configuration.
//
// # Resolution order
//
//  1. Built-in defaults
//  2. TOML file, ~/.config/storefront/config.toml unless a path is given
//  3. Environment variables (a .env file is read first by LoadDotEnv)
//  4. Command-line flags, applied by the caller
//
// A missing config file is not an error. Empty string values fall back to
// the defaults.
//
// # Keys
//
//	api_url             = "http://localhost:8000"
//	request_timeout     = 10    # seconds, 0 disables
//	requests_per_second = 0     # 0 is unlimited
//	refresh_interval    = 0     # seconds, 0 disables auto-refresh
//	log_file            = "~/.local/state/storefront/storefront.log"
//	log_level           = "info"
//
// # Environment
//
//   - STOREFRONT_API_URL
//   - STOREFRONT_LOG_FILE
//   - STOREFRONT_LOG_LEVEL
//
// Paths beginning with ~ are expanded to the user's home directory and made
// absolute.
package config
