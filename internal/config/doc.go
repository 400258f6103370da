// Package config loads actionwire settings.
//
// Settings come from, in increasing precedence: built-in defaults, a
// YAML or TOML file (chosen by extension), and ACTIONWIRE_* environment
// variables. A missing file is not an error.
//
//	server:
//	  base_url: https://app.example.com
//	  action_path: /a
//	  timeout: 30s
//	dispatch:
//	  failure_policy: continue
//	plugins:
//	  - ./flash.lua
package config
