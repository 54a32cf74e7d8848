package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/zerodha/logf"
)

const envPrefix = "BAMLD_"

// defaults are the lowest layer of the config.
var defaults = map[string]any{
	"app.address":     ":6390",
	"app.log":         "info",
	"app.data_dir":    "data",
	"app.compression": "zstd",
	"app.max_payload": 16 << 20,
	"app.strict":      false,
}

// initLogger initializes logger instance.
func initLogger(ko *koanf.Koanf) logf.Logger {
	opts := logf.Opts{EnableCaller: true}
	if ko.String("app.log") == "debug" {
		opts.Level = logf.DebugLevel
		opts.EnableColor = true
	}
	return logf.New(opts)
}

// newFlagSet registers the server flags. Every flag except --config
// overrides the `app` key of the same name.
func newFlagSet() *flag.FlagSet {
	f := flag.NewFlagSet("bamld", flag.ContinueOnError)
	f.Usage = func() {
		fmt.Println(f.FlagUsages())
		os.Exit(0)
	}
	f.String("config", "config.sample.toml", "Path to a config file to load.")
	f.String("address", "", "Address to listen on.")
	f.String("data-dir", "", "Directory for saved streams.")
	f.String("compression", "", "Envelope compression: none, lz4 or zstd.")
	f.Int("max-payload", 0, "Largest accepted blob in bytes.")
	f.Bool("strict", false, "Reject streams breaking the document contract.")
	f.Bool("debug", false, "Enable debug logging.")
	return f
}

// flagOverrides returns the config keys set on the command line.
func flagOverrides(f *flag.FlagSet) map[string]any {
	out := make(map[string]any)
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "config":
		case "debug":
			if fl.Value.String() == "true" {
				out["app.log"] = "debug"
			}
		default:
			out["app."+strings.ReplaceAll(fl.Name, "-", "_")] = fl.Value.String()
		}
	})
	return out
}

// initConfig loads config to `ko` object. Layers, lowest first: defaults,
// the config file, BAMLD_ environment variables, flags.
func initConfig(args []string) (*koanf.Koanf, error) {
	var (
		ko = koanf.New(".")
		f  = newFlagSet()
	)

	// Parse and Load Flags.
	if err := f.Parse(args); err != nil {
		return nil, err
	}

	if err := ko.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, err
	}

	// A missing sample config is fine; one named explicitly is not.
	cfgPath, _ := f.GetString("config")
	err := ko.Load(file.Provider(cfgPath), toml.Parser())
	if err != nil && !(errors.Is(err, fs.ErrNotExist) && !f.Changed("config")) {
		return nil, fmt.Errorf("error loading config file %s: %w", cfgPath, err)
	}

	err = ko.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil)
	if err != nil {
		return nil, err
	}

	if err := ko.Load(confmap.Provider(flagOverrides(f), "."), nil); err != nil {
		return nil, err
	}
	return ko, nil
}
