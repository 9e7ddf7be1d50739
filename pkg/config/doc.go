// Package config handles configuration management for ndmgr.
//
// Configuration is layered with koanf: built-in defaults, then
// $XDG_CONFIG_HOME/ndmgr/config.toml, then $DOTFILES_ROOT/.ndmgr.toml,
// each overriding the keys it sets. The final values are unmarshaled
// into Config and handed to the core already parsed — pkg/linker and
// pkg/analyzer never read TOML themselves.
package config
