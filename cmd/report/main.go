// Command report prints the dashboard metrics and breakdown tables for one
// filter selection.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/icco/depressiondash/lib/dataset"
	"github.com/icco/depressiondash/lib/filter"
	"github.com/icco/depressiondash/lib/metrics"
	"github.com/icco/depressiondash/lib/report"
	"github.com/joho/godotenv"
)

type options struct {
	dataPath   string
	table      string
	sheet      string
	genders    string
	ageMin     int
	ageMax     int
	depression string
	city       string
	asJSON     bool
	verbose    bool
}

func main() {
	// A missing .env is fine here.
	_ = godotenv.Load()

	var o options
	flag.StringVar(&o.dataPath, "data", os.Getenv("DATA_PATH"), "dataset file (.csv, .xlsx, .db)")
	flag.StringVar(&o.table, "table", envOr("DATA_TABLE", dataset.DefaultTable), "table name for SQLite sources")
	flag.StringVar(&o.sheet, "sheet", os.Getenv("DATA_SHEET"), "sheet name for workbooks (default first sheet)")
	flag.StringVar(&o.genders, "gender", "", "comma-separated genders (default all)")
	flag.IntVar(&o.ageMin, "age-min", -1, "minimum age (default dataset minimum)")
	flag.IntVar(&o.ageMax, "age-max", -1, "maximum age (default dataset maximum)")
	flag.StringVar(&o.depression, "depression", "all", "all, with or without")
	flag.StringVar(&o.city, "city", "All", "city name or All")
	flag.BoolVar(&o.asJSON, "json", false, "print JSON instead of tables")
	flag.BoolVar(&o.verbose, "v", false, "log progress to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), o, os.Stdout, logger); err != nil {
		logger.Error("Report failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, out io.Writer, logger *slog.Logger) error {
	if o.dataPath == "" {
		return fmt.Errorf("no dataset: pass -data or set DATA_PATH")
	}

	loader, err := dataset.NewLoader(o.dataPath, o.table, o.sheet, logger)
	if err != nil {
		return err
	}
	ds, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	sel, err := o.request().Selection(ds.Defaults())
	if err != nil {
		return err
	}
	d := metrics.Build(filter.Apply(ds.Records, sel))

	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	_, err = fmt.Fprint(out, report.Stats(ds.Stats())+"\n\n"+report.Dashboard(d))
	return err
}

// request maps flags to a selection request. Unset flags fall back to the
// dataset defaults.
func (o options) request() filter.Request {
	req := filter.Request{Depression: o.depression, City: o.city}
	if o.genders != "" {
		var genders []string
		for _, g := range strings.Split(o.genders, ",") {
			if g = strings.TrimSpace(g); g != "" {
				genders = append(genders, g)
			}
		}
		req.Genders = &genders
	}
	if o.ageMin >= 0 {
		req.AgeMin = &o.ageMin
	}
	if o.ageMax >= 0 {
		req.AgeMax = &o.ageMax
	}
	return req
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
