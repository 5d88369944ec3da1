// gis-client drives a selection session from the command line: load a
// feature collection from a file or from the query service, apply selection
// operations, print the attribute table, and write exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alphikemal/web-GIS-tryon/internal/logger"
	"github.com/alphikemal/web-GIS-tryon/internal/model"
	"github.com/alphikemal/web-GIS-tryon/internal/session"
)

func main() {
	in := flag.String("in", "", "GeoJSON file to load")
	src := flag.String("url", "", "endpoint to load from, e.g. http://localhost:8080/buildings")
	limit := flag.Int("limit", 0, "limit parameter for -url")
	textQ := flag.String("q", "", "substring filter parameter for -url")
	bboxQ := flag.String("bbox", "", "bbox parameter for -url (minx,miny,maxx,maxy)")
	selectAll := flag.Bool("select-all", false, "select every loaded feature")
	toggles := flag.String("toggle", "", "comma-separated feature ids to toggle")
	rect := flag.String("rect", "", "rectangle selection minx,miny,maxx,maxy")
	filter := flag.String("filter", "", "attribute table filter")
	showTable := flag.Bool("table", false, "print the attribute table")
	outGeoJSON := flag.String("out-geojson", "", "write selected features as GeoJSON")
	outCSV := flag.String("out-csv", "", "write selected features as CSV")
	logLevel := flag.String("log-level", "warn", "log level: debug|info|warn|error")
	flag.Parse()

	zl := logger.Build(logger.Config{
		Level:     *logLevel,
		Console:   true,
		Component: "gis-client",
	}, os.Stderr)
	log := logger.NewSlog(&zl)

	sess := session.New(session.WithLogger(log))
	ctx := context.Background()

	switch {
	case *in != "":
		raw, err := os.ReadFile(*in)
		if err != nil {
			fatal(log, "read input file", err)
		}
		if err := sess.Dispatch(ctx, session.LoadCommand{Raw: raw}); err != nil {
			fatal(log, "load collection", err)
		}
	case *src != "":
		params := url.Values{}
		if *limit > 0 {
			params.Set("limit", strconv.Itoa(*limit))
		}
		if *textQ != "" {
			params.Set("q", *textQ)
		}
		if *bboxQ != "" {
			params.Set("bbox", *bboxQ)
		}
		cmd := session.LoadFromSourceCommand{URL: *src, Params: params}
		if err := sess.Dispatch(ctx, cmd); err != nil {
			fatal(log, "load collection from source", err)
		}
	default:
		fmt.Fprintln(os.Stderr, "one of -in or -url is required")
		flag.Usage()
		os.Exit(2)
	}

	if *selectAll {
		_ = sess.Dispatch(ctx, session.SelectAllCommand{})
	}
	for _, part := range strings.Split(*toggles, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			fatal(log, "parse -toggle id "+part, err)
		}
		_ = sess.Dispatch(ctx, session.ToggleCommand{ID: id})
	}
	if *rect != "" {
		bb, ok := model.ParseBBox(*rect)
		if !ok {
			fatal(log, "parse -rect", fmt.Errorf("expected minx,miny,maxx,maxy, got %q", *rect))
		}
		_ = sess.Dispatch(ctx, session.RectangleSelectCommand{Rect: *bb})
	}

	if *showTable {
		printTable(sess.Table().Filter(*filter))
	}

	if *outGeoJSON != "" {
		writeExport(ctx, log, sess, *outGeoJSON, true)
	}
	if *outCSV != "" {
		writeExport(ctx, log, sess, *outCSV, false)
	}
}

func printTable(t session.Table) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\t"+strings.Join(t.Header, "\t"))
	for i, row := range t.Rows {
		fmt.Fprintln(w, strconv.Itoa(i+1)+"\t"+strings.Join(row.Cells, "\t"))
	}
	_ = w.Flush()
}

func writeExport(ctx context.Context, log *slog.Logger, sess *session.Session, path string, asGeoJSON bool) {
	f, err := os.Create(path)
	if err != nil {
		fatal(log, "create "+path, err)
	}
	defer f.Close()

	var cmd session.Command
	if asGeoJSON {
		cmd = session.ExportGeoJSONCommand{Out: f}
	} else {
		cmd = session.ExportCSVCommand{Out: f}
	}
	if err := sess.Dispatch(ctx, cmd); err != nil {
		fatal(log, "export "+path, err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "err", err)
	os.Exit(1)
}
