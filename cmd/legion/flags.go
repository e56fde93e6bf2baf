package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/vulnverified/legion/internal/config"
	"github.com/vulnverified/legion/internal/engine"
)

// registerSettings adds one flag per recognized setting. Only bool
// settings get typed flags; everything else is taken as a raw string so
// the resolver can coerce it and fall back with a warning.
func registerSettings(fs *pflag.FlagSet, home string) {
	builtins := config.Builtins(home)
	for _, def := range config.Definitions() {
		switch def.Kind {
		case config.KindBool:
			fs.BoolP(def.Name, def.Short, config.ParseBool(builtins[def.Name]), def.Usage)
		default:
			fs.StringP(def.Name, def.Short, builtins[def.Name], def.Usage)
		}
	}
}

// collectOverrides returns the raw value of every setting flag the user
// actually passed. Defaults never become overrides.
func collectOverrides(fs *pflag.FlagSet) map[string]string {
	overrides := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		if _, ok := config.Lookup(f.Name); ok {
			overrides[f.Name] = f.Value.String()
		}
	})
	return overrides
}

// factsFrom maps resolved settings onto the facts a warrior sees.
func factsFrom(res *config.Resolved) engine.Facts {
	return engine.Facts{
		Host:       strings.TrimSpace(res.String(config.Host)),
		IPv6:       strings.TrimSpace(res.String(config.IPv6)),
		Domain:     strings.TrimSpace(res.String(config.Domain)),
		Port:       res.Int(config.Port),
		Intensity:  res.Int(config.Intensity),
		Username:   res.String(config.Username),
		Ulist:      res.String(config.Ulist),
		Password:   res.String(config.Password),
		Plist:      res.String(config.Plist),
		Workdir:    res.String(config.Workdir),
		Path:       res.String(config.Path),
		Extensions: res.Strings(config.Extensions),
	}
}
