package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spiffcs/repohealth/config"
	"github.com/spiffcs/repohealth/internal/ghclient"
	"github.com/spiffcs/repohealth/internal/log"
	"github.com/spiffcs/repohealth/internal/output"
	"github.com/spiffcs/repohealth/internal/report"
	"github.com/spiffcs/repohealth/internal/scan"
)

// NewCmdCheck creates the check command.
func NewCmdCheck(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Scan repositories and report their health (same as root repohealth)",
		Long: `Searches GitHub repositories matching the query, fetches their metadata
page by page, and classifies each as healthy, outdated, or potentially
broken using the configured thresholds.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	addCheckFlags(cmd, opts)
	return cmd
}

// addCheckFlags adds the check-specific flags to a command.
func addCheckFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Repository search query (default \"stars:>100\")")
	cmd.Flags().IntVarP(&opts.MaxRepos, "max-repos", "m", 0, "Maximum number of repositories to check (default 100)")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().StringVarP(&opts.OutputFile, "file", "f", "", "Write the JSON report to a file")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Report order: stars or fetched (default \"stars\")")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
}

// applyConfigDefaults fills unset options from the config file.
func applyConfigDefaults(opts *Options, cfg *config.Config) {
	defaults := config.Defaults()

	if opts.Query == "" {
		opts.Query = cfg.Query
	}
	if opts.Query == "" {
		opts.Query = defaults.Query
	}

	if opts.MaxRepos <= 0 {
		opts.MaxRepos = cfg.MaxRepos
	}
	if opts.MaxRepos <= 0 {
		opts.MaxRepos = defaults.MaxRepos
	}

	if opts.PageSize <= 0 {
		opts.PageSize = cfg.PageSize
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaults.PageSize
	}

	if opts.Format == "" {
		opts.Format = cfg.DefaultFormat
	}

	if opts.Sort == "" {
		opts.Sort = cfg.SortBy
	}
	if opts.Sort == "" {
		opts.Sort = defaults.SortBy
	}
}

func runCheck(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()

	log.Initialize(opts.Verbosity, os.Stderr)

	// Mirror dotenv loading for local development; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfigDefaults(opts, cfg)

	token := cfg.GetGitHubToken()
	if token == "" {
		return fmt.Errorf("GitHub token not configured. Set the GITHUB_TOKEN environment variable or add 'token' to %s", config.ConfigPath())
	}

	client, err := ghclient.NewClient(ctx, token, ghclient.WithRetryPolicy(cfg.GetRetryPolicy()))
	if err != nil {
		return err
	}

	log.Info("searching repositories", "query", opts.Query, "max", opts.MaxRepos)

	engine := scan.NewEngine(client)
	result := engine.Scan(ctx, scan.Request{
		Query:      opts.Query,
		MaxRecords: opts.MaxRepos,
		PageSize:   opts.PageSize,
	})

	// Classify every record against the same instant so the report is a
	// consistent snapshot.
	now := time.Now().UTC()
	records := report.Assemble(result.Repos, now, cfg.GetThresholds())
	if opts.Sort != "fetched" {
		report.SortByStars(records)
	}

	formatter := output.NewFormatter(output.Format(opts.Format))
	if err := formatter.Format(records, os.Stdout); err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if opts.OutputFile != "" {
		if err := writeReportFile(opts.OutputFile, records); err != nil {
			return err
		}
		log.Info("report saved", "path", opts.OutputFile, "records", len(records))
	}

	if result.Partial() {
		log.Warn("scan ended early, report is partial",
			"collected", len(records),
			"error", result.Err)
		return fmt.Errorf("scan incomplete after %d records: %w", len(records), result.Err)
	}

	return nil
}

// writeReportFile persists the report as pretty-printed JSON.
func writeReportFile(path string, records []report.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	formatter := &output.JSONFormatter{Pretty: true}
	if err := formatter.FormatWithSummary(records, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return f.Close()
}
