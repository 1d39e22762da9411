// SPDX-License-Identifier: MPL-2.0

// Package config handles runner configuration using Viper with CUE as the file format.
//
// Configuration is read from the first file found among an explicit path
// (LoadOptions.ConfigFilePath or the BAKE_CONFIG environment variable),
// ./bake.cue in the working directory, and config.cue in the user's bake
// configuration directory. Files are validated against the embedded #Config
// schema before being merged over the defaults. BAKE_-prefixed environment
// variables override individual keys (BAKE_SHELL_MODE, BAKE_UI_VERBOSE, ...).
package config
