package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"fundagg-backend/lib/configutil"
	"fundagg-backend/lib/progress"
	"fundagg-backend/lib/restyutil"
	"fundagg-backend/lib/scrapers/quantalys"
	"fundagg-backend/lib/serviceutil"
	"fundagg-backend/lib/telemetry"
	"fundagg-backend/services/fundagg"
	"fundagg-backend/services/fundagg/db"

	"github.com/spf13/cobra"
)

var (
	scrapeConfig  *string
	scrapeFile    *string
	scrapeOut     *string
	scrapeDb      *string
	scrapePrint   *bool
	scrapeVerbose *bool
)

func init() {
	scrapeConfig = scrapeCmd.Flags().String("config", "config.json5", "The config file to read.")
	scrapeFile = scrapeCmd.Flags().StringP("file", "f", "", "A file listing one identifier per line.")
	scrapeOut = scrapeCmd.Flags().StringP("out", "o", "", "The csv file to write (overrides config).")
	scrapeDb = scrapeCmd.Flags().String("db", "", "A sqlite path, libsql url or postgres url to also store results in.")
	scrapePrint = scrapeCmd.Flags().Bool("print", false, "Print the resulting table to stdout.")
	scrapeVerbose = scrapeCmd.Flags().BoolP("verbose", "v", false, "Enable debug logs and http dumps.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [isin...] [--file <isins.txt>] [--out <funds.csv>] [--db <path|url>] [--print]",
	Short: "Collects the attributes of every given fund and writes them to a table.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := configutil.ReadConfigWithDefaults(*scrapeConfig, defaultConfig)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if *scrapeOut != "" {
			cfg.Out = *scrapeOut
		}
		if *scrapeDb != "" {
			cfg.Db = *scrapeDb
		}
		if *scrapeVerbose {
			cfg.Verbose = true
		}

		isins, err := collectIsins(args, *scrapeFile, cfg.Isins)
		if err != nil {
			serviceutil.Fatal("failed to collect identifiers", err)
		}

		reporter := progress.NewReporter(os.Stderr, len(isins))
		telemetry.InitSlogTo(reporter.Writer(), cfg.Verbose)

		tel, err := telemetry.SetupFromEnv(ctx, "fundagg-cli")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer func() {
			err := tel.Shutdown(context.Background())
			if err != nil {
				slog.Warn("failed to shutdown telemetry", "err", err)
			}
		}()
		if tel.Enabled() {
			slog.Info(
				"telemetry enabled",
				"traces", tel.TracerProvider != nil,
				"metrics", tel.MeterProvider != nil,
			)
			telemetry.InstrumentPerfStats(ctx, 5*time.Second)
		}

		opts := quantalys.ClientOptions{
			BaseUrl:          cfg.BaseUrl,
			UserAgent:        cfg.UserAgent,
			Timeout:          cfg.Timeout(),
			CloudflareBypass: cfg.CloudflareBypass,
		}
		if cfg.Verbose {
			output, err := restyutil.NewFilesystemOutput(".dev/resty/quantalys")
			if err != nil {
				serviceutil.Fatal("failed to create http dump directory", err)
			}
			opts.DumpOutput = output
		}

		err = scrape(ctx, cfg, opts, reporter, isins)
		if err != nil {
			serviceutil.Fatal("failed to export results", err)
		}
	},
}

func scrape(ctx context.Context, cfg Config, opts quantalys.ClientOptions, reporter *progress.Reporter, isins []string) error {
	batch := fundagg.Batch{
		Open:        fundagg.QuantalysSessions(opts),
		Concurrency: cfg.Concurrency,
	}

	signals := make(chan struct{}, len(isins))
	finished := make(chan progress.Bar, 1)
	go func() {
		finished <- reporter.Run(signals)
	}()

	slog.InfoContext(ctx, "scraping funds", "count", len(isins), "concurrency", cfg.Concurrency)
	startedAt := time.Now()
	records := batch.Run(ctx, isins, signals)
	bar := <-finished

	counts := map[fundagg.Outcome]int{}
	for _, r := range records {
		counts[r.Outcome]++
	}
	slog.InfoContext(
		ctx, "scraping finished",
		"seconds", time.Since(startedAt).Seconds(),
		"finished", bar.Completed,
		"complete", counts[fundagg.OutcomeComplete],
		"not_found", counts[fundagg.OutcomeNotFound],
		"partial", counts[fundagg.OutcomePartial],
	)

	table := fundagg.Table(records)
	err := writeCsv(cfg.Out, table.WriteCSV)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "wrote table", "path", cfg.Out, "rows", table.Len())

	if cfg.Db != "" {
		sink, err := db.Open(ctx, cfg.Db)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer sink.Close()

		runId, err := fundagg.Save(ctx, sink, startedAt, records)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		slog.InfoContext(ctx, "stored run", "run_id", runId)
	}

	if *scrapePrint {
		table.Render(os.Stdout)
	}
	return nil
}

func writeCsv(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = write(f)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
