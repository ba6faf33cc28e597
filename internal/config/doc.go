// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// A repository may carry ipmindex.cue (or ipmindex.toml) at its root; otherwise
// the user configuration in $XDG_CONFIG_HOME/ipmindex/config.cue (platform
// equivalents on macOS and Windows) is used, and built-in defaults apply when
// neither exists. Every file is validated against the embedded CUE schema
// (config_schema.cue) before it is merged over the defaults. Environment
// variables are not consulted.
package config
