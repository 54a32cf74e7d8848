package baml

import (
	"fmt"

	"github.com/zerodha/logf"
)

const (
	defaultMaxAsyncRecords = int32(-1)
)

// Options represents configuration options for reading and writing record
// streams.
type Options struct {
	debug           bool         // Enable debug logging.
	logger          *logf.Logger // Logger to use instead of a fresh one.
	loadAsync       bool         // Written into the document start record.
	maxAsyncRecords int32        // Written into the document start record.
	debugBaml       bool         // Written into the document start record.
	strict          bool         // Enforce the stream contract while reading or writing.
	keepRecords     bool         // Reader pins and links every decoded record.
}

// Config is a function on the Options for a reader or writer.
// These are used to configure particular options.
type Config func(*Options) error

func DefaultOptions() *Options {
	return &Options{
		debug:           false,
		maxAsyncRecords: defaultMaxAsyncRecords,
		strict:          false,
		keepRecords:     false,
	}
}

func WithDebug() Config {
	return func(o *Options) error {
		o.debug = true
		return nil
	}
}

func WithLogger(lo logf.Logger) Config {
	return func(o *Options) error {
		o.logger = &lo
		return nil
	}
}

// WithLoadAsync marks written documents for asynchronous loading in
// batches of at most maxRecords records.
func WithLoadAsync(maxRecords int32) Config {
	return func(o *Options) error {
		if maxRecords < 1 {
			return fmt.Errorf("invalid max async records: %d", maxRecords)
		}
		o.loadAsync = true
		o.maxAsyncRecords = maxRecords
		return nil
	}
}

func WithDebugBaml() Config {
	return func(o *Options) error {
		o.debugBaml = true
		return nil
	}
}

func WithStrict() Config {
	return func(o *Options) error {
		o.strict = true
		return nil
	}
}

func WithKeepRecords() Config {
	return func(o *Options) error {
		o.keepRecords = true
		return nil
	}
}

func applyConfig(cfg []Config) (*Options, error) {
	opts := DefaultOptions()
	for _, c := range cfg {
		if err := c(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// initLogger initializes logger instance.
func initLogger(opts *Options) logf.Logger {
	if opts.logger != nil {
		return *opts.logger
	}
	lopts := logf.Opts{EnableCaller: true}
	if opts.debug {
		lopts.Level = logf.DebugLevel
	}
	return logf.New(lopts)
}
