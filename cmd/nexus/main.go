// Command nexus runs the schema migrations of the application.
//
//	nexus [-config nexus.yaml] [-env .env] [-json] [-metrics] migrate|rollback|status
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"nexus.dev/orm"
	"nexus.dev/orm/config"
	"nexus.dev/orm/dialects"
	_ "nexus.dev/orm/internal/migrations"
	"nexus.dev/orm/metrics"
	"nexus.dev/orm/migrator"
)

func main() {
	configFile := flag.String("config", "", "YAML config file, e.g.: nexus.yaml")
	envFile := flag.String("env", ".env", "dotenv file, ignored when missing")
	asJSON := flag.Bool("json", false, "Print results as JSON")
	showMetrics := flag.Bool("metrics", false, "Print query metrics to stderr on exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] migrate|rollback|status\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *configFile, *envFile, *asJSON, *showMetrics, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(command, configFile, envFile string, asJSON, showMetrics bool, out io.Writer) error {
	cfg, err := config.Load(configFile, envFile)
	if err != nil {
		return err
	}

	l, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	if dialector, _ := dialects.New(cfg.Database); dialector != nil && dialector.Name() == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Database), 0o755); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	db, err := dialects.Open(cfg.Database, orm.WithLogger(l), orm.WithObserver(metrics.NewObserver(reg)))
	if err != nil {
		return err
	}
	defer db.Close()

	if showMetrics {
		defer printMetrics(reg, os.Stderr)
	}

	registry := migrator.DefaultRegistry
	if cfg.Migrations.Dir != "" {
		if err := registry.AddFS(os.DirFS(cfg.Migrations.Dir), "."); err != nil {
			return err
		}
	}

	m, err := migrator.New(db, registry, migrator.WithTable(cfg.Migrations.Table))
	if err != nil {
		return err
	}

	switch command {
	case "migrate":
		result, err := m.Run()
		if printErr := printResult(out, result, asJSON); printErr != nil {
			return printErr
		}
		return err
	case "rollback":
		result, err := m.Rollback()
		if printErr := printResult(out, result, asJSON); printErr != nil {
			return printErr
		}
		return err
	case "status":
		statuses, err := m.Status()
		if err != nil {
			return err
		}
		return printStatus(out, statuses, asJSON)
	default:
		return fmt.Errorf("unknown command %q, expected migrate, rollback or status", command)
	}
}

func printResult(out io.Writer, result migrator.Result, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(out).Encode(result)
	}

	fmt.Fprintln(out, result.Message)
	for _, id := range result.Migrations {
		fmt.Fprintf(out, "  %s\n", id)
	}
	return nil
}

func printStatus(out io.Writer, statuses []migrator.Status, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(out).Encode(statuses)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MIGRATION\tSTATUS\tBATCH\tEXECUTED AT")
	for _, status := range statuses {
		batch, executedAt := "", ""
		if status.Status == migrator.StatusExecuted {
			batch = fmt.Sprint(status.Batch)
			executedAt = status.ExecutedAt.Format(time.DateTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", status.Migration, status.Status, batch, executedAt)
	}
	return w.Flush()
}

func printMetrics(reg *prometheus.Registry, out io.Writer) {
	families, err := reg.Gather()
	if err != nil {
		fmt.Fprintf(out, "gathering metrics: %v\n", err)
		return
	}

	var lines []string
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := ""
			for _, pair := range metric.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", pair.GetName(), pair.GetValue())
			}

			switch {
			case metric.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s%s %v", family.GetName(), labels, metric.GetCounter().GetValue()))
			case metric.GetHistogram() != nil:
				h := metric.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s%s count=%d sum=%.6fs", family.GetName(), labels, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}
