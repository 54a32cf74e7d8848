package main

import (
	"os"

	"github.com/mr-karan/baml/internal/pack"
	"github.com/mr-karan/baml/pkg/baml"
	"github.com/tidwall/redcon"
	"github.com/zerodha/logf"
)

var (
	// Version of the build. This is injected at build-time.
	buildString = "unknown"
)

type App struct {
	lo logf.Logger

	dataDir     string
	compression pack.Compression
	maxPayload  int
	readOpts    []baml.Config
}

func main() {
	ko, err := initConfig(os.Args[1:])
	if err != nil {
		logf.New(logf.Opts{}).Fatal("error loading config", "error", err)
	}
	lo := initLogger(ko)

	compression, err := pack.ParseCompression(ko.String("app.compression"))
	if err != nil {
		lo.Fatal("error reading compression", "error", err)
	}

	dataDir := ko.String("app.data_dir")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		lo.Fatal("error creating data dir", "dir", dataDir, "error", err)
	}

	readOpts := []baml.Config{baml.WithLogger(lo)}
	if ko.Bool("app.strict") {
		readOpts = append(readOpts, baml.WithStrict())
	}
	if ko.String("app.log") == "debug" {
		readOpts = append(readOpts, baml.WithDebug())
	}

	app := &App{
		lo:          lo,
		dataDir:     dataDir,
		compression: compression,
		maxPayload:  ko.Int("app.max_payload"),
		readOpts:    readOpts,
	}

	mux := redcon.NewServeMux()
	mux.HandleFunc("ping", app.ping)
	mux.HandleFunc("quit", app.quit)
	mux.HandleFunc("decode", app.decode)
	mux.HandleFunc("validate", app.validate)
	mux.HandleFunc("digest", app.digest)
	mux.HandleFunc("export", app.exportStream)
	mux.HandleFunc("pack", app.packStream)
	mux.HandleFunc("unpack", app.unpackStream)
	mux.HandleFunc("save", app.save)
	mux.HandleFunc("load", app.load)

	addr := ko.String("app.address")
	lo.Info("starting server", "address", addr, "version", buildString, "compression", compression.String())

	if err := redcon.ListenAndServe(addr,
		mux.ServeRESP,
		func(conn redcon.Conn) bool {
			lo.Debug("client connected", "addr", conn.RemoteAddr())
			return true
		},
		func(conn redcon.Conn, err error) {
			lo.Debug("client disconnected", "addr", conn.RemoteAddr(), "error", err)
		},
	); err != nil {
		lo.Fatal("error starting server", "error", err)
	}
}
