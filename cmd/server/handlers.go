package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mr-karan/baml/internal/datafile"
	"github.com/mr-karan/baml/internal/export"
	"github.com/mr-karan/baml/internal/pack"
	"github.com/mr-karan/baml/pkg/baml"
	"github.com/tidwall/redcon"
)

func wrongArgs(conn redcon.Conn, cmd redcon.Command) {
	conn.WriteError("ERR wrong number of arguments for '" + string(cmd.Args[0]) + "' command")
}

// payload returns the blob argument at i, rejecting blobs over the
// configured limit.
func (app *App) payload(conn redcon.Conn, cmd redcon.Command, i int) ([]byte, bool) {
	blob := cmd.Args[i]
	if app.maxPayload > 0 && len(blob) > app.maxPayload {
		conn.WriteError(fmt.Sprintf("ERR payload of %d bytes exceeds limit of %d", len(blob), app.maxPayload))
		return nil, false
	}
	return blob, true
}

func (app *App) ping(conn redcon.Conn, cmd redcon.Command) {
	conn.WriteString("PONG")
}

func (app *App) quit(conn redcon.Conn, cmd redcon.Command) {
	conn.WriteString("OK")
	conn.Close()
}

// decode replies with one line per record: the record type followed by its
// fields in name order.
func (app *App) decode(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 2 {
		wrongArgs(conn, cmd)
		return
	}
	blob, ok := app.payload(conn, cmd, 1)
	if !ok {
		return
	}

	recs, err := baml.ReadAll(blob, app.readOpts...)
	if err != nil {
		conn.WriteError(fmt.Sprintf("ERR: %s", err))
		return
	}

	conn.WriteArray(len(recs))
	for _, r := range recs {
		conn.WriteBulkString(formatSummary(baml.Describe(r)))
	}
}

func formatSummary(s baml.Summary) string {
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(s.Type)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, s.Fields[k])
	}
	return b.String()
}

func (app *App) validate(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 2 {
		wrongArgs(conn, cmd)
		return
	}
	blob, ok := app.payload(conn, cmd, 1)
	if !ok {
		return
	}

	recs, err := baml.ReadAll(blob, app.readOpts...)
	if err == nil {
		err = baml.Validate(recs)
	}
	if err != nil {
		conn.WriteError(fmt.Sprintf("ERR: %s", err))
		return
	}
	conn.WriteString("OK")
}

func (app *App) digest(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 2 {
		wrongArgs(conn, cmd)
		return
	}
	blob, ok := app.payload(conn, cmd, 1)
	if !ok {
		return
	}
	conn.WriteBulkString(pack.Sum(blob).String())
}

func (app *App) exportStream(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 2 {
		wrongArgs(conn, cmd)
		return
	}
	blob, ok := app.payload(conn, cmd, 1)
	if !ok {
		return
	}

	out, err := export.Stream(blob, app.readOpts...)
	if err != nil {
		conn.WriteError(fmt.Sprintf("ERR: %s", err))
		return
	}
	conn.WriteBulk(out)
}

func (app *App) packStream(conn redcon.Conn, cmd redcon.Command) {
	var c = app.compression
	switch len(cmd.Args) {
	case 3:
		var err error
		if c, err = pack.ParseCompression(strings.ToLower(string(cmd.Args[2]))); err != nil {
			conn.WriteError(fmt.Sprintf("ERR: %s", err))
			return
		}
	case 2:
	default:
		wrongArgs(conn, cmd)
		return
	}
	blob, ok := app.payload(conn, cmd, 1)
	if !ok {
		return
	}

	env, err := pack.Pack(blob, c)
	if err != nil {
		conn.WriteError(fmt.Sprintf("ERR: %s", err))
		return
	}
	app.lo.Debug("packed stream", "raw", len(blob), "packed", len(env), "compression", c.String())
	conn.WriteBulk(env)
}

func (app *App) unpackStream(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 2 {
		wrongArgs(conn, cmd)
		return
	}
	env, ok := app.payload(conn, cmd, 1)
	if !ok {
		return
	}

	data, _, err := pack.Unpack(env)
	if err != nil {
		conn.WriteError(fmt.Sprintf("ERR: %s", err))
		return
	}
	conn.WriteBulk(data)
}

// save decodes the stream and writes it record by record to a stream file,
// so that only well formed streams are stored.
func (app *App) save(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 3 {
		wrongArgs(conn, cmd)
		return
	}
	var name = string(cmd.Args[1])
	blob, ok := app.payload(conn, cmd, 2)
	if !ok {
		return
	}

	df, err := datafile.New(app.dataDir, name)
	if err != nil {
		conn.WriteError(fmt.Sprintf("ERR: %s", err))
		return
	}
	n, err := rewrite(df, blob, app.readOpts...)
	if cerr := df.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		conn.WriteError(fmt.Sprintf("ERR: %s", err))
		return
	}

	app.lo.Info("saved stream", "name", name, "records", n, "bytes", len(blob))
	conn.WriteInt(n)
}

// rewrite copies the records of data to out and returns how many were
// written.
func rewrite(out io.WriteSeeker, data []byte, cfg ...baml.Config) (int, error) {
	rd, err := baml.NewReader(cfg...)
	if err != nil {
		return 0, err
	}
	rd.Feed(data)
	rd.Close()

	n := 0
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := baml.Write(out, rec); err != nil {
			return n, err
		}
		n++
	}
}

func (app *App) load(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 2 {
		wrongArgs(conn, cmd)
		return
	}
	data, err := datafile.Load(app.dataDir, string(cmd.Args[1]))
	if err != nil {
		conn.WriteError(fmt.Sprintf("ERR: %s", err))
		return
	}
	conn.WriteBulk(data)
}
