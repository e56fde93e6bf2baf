package config

import (
	"path/filepath"
	"strconv"
)

// ── Default values ───────────────────────────────────────────────────
//
// Built-in fallbacks for every setting. They form the lowest tier of the
// resolver and are also shown as flag defaults in --help.

const (
	DefaultProto      = "scanner"
	DefaultHost       = "127.0.0.1"
	DefaultPort       = 0
	DefaultIntensity  = 2
	DefaultExtensions = "html,txt,php,asp,aspx"
	DefaultVerbose    = true

	// DefaultProfile is the section every named profile inherits from.
	DefaultProfile = "DEFAULT"

	// DefaultDirName is created under the user's home directory.
	DefaultDirName = ".legion"

	// DefaultConfigName is the config file inside DefaultDirName.
	DefaultConfigName = "config.ini"
)

// DefaultWorkdir returns ~/.legion for the given home directory.
func DefaultWorkdir(home string) string {
	return filepath.Join(home, DefaultDirName)
}

// DefaultConfigPath returns ~/.legion/config.ini for the given home directory.
func DefaultConfigPath(home string) string {
	return filepath.Join(home, DefaultDirName, DefaultConfigName)
}

// Builtins returns the raw built-in value of every setting. Values go
// through the same coercion as every other tier.
func Builtins(home string) map[string]string {
	return map[string]string{
		Proto:      DefaultProto,
		Host:       DefaultHost,
		Workdir:    DefaultWorkdir(home),
		Port:       strconv.Itoa(DefaultPort),
		Intensity:  strconv.Itoa(DefaultIntensity),
		Username:   "",
		Ulist:      "",
		Password:   "",
		Plist:      "",
		Protohelp:  "false",
		Notuse:     "",
		Extensions: DefaultExtensions,
		Path:       "",
		IPv6:       "",
		Domain:     "",
		Execonly:   "",
		Run:        "false",
		Verbose:    strconv.FormatBool(DefaultVerbose),
	}
}
