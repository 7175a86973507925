// Package config loads geoedit settings.
//
// Settings come from three layers, each overriding the one below:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← GEOEDIT_EDITING_VERTEX_SIZE=10
//	├─────────────────────────────┤
//	│  2. Config File             │  ← geoedit.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// A config file looks like:
//
//	[logging]
//	level = "debug"
//
//	[editing]
//	vertex_size = 10
//	middle_opacity = 0.4
//
//	[input]
//	touch = true
//
// Every key has an environment variable named after it: the prefix, the
// section and the key, upper-cased and joined with underscores.
//
// A Watcher reloads the file when it changes on disk and delivers the new
// configuration on a channel.
package config
