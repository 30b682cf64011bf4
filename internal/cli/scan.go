package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plexdedupe/plexdedupe/pkg/config"
	"github.com/plexdedupe/plexdedupe/pkg/dedupe"
	"github.com/plexdedupe/plexdedupe/pkg/logging"
	"github.com/plexdedupe/plexdedupe/pkg/models"
	"github.com/plexdedupe/plexdedupe/pkg/output"
	"github.com/plexdedupe/plexdedupe/pkg/plex"
)

// ScanFlags holds scan command flags
type ScanFlags struct {
	URL      string
	Token    string
	Strategy string
	Filters  []string
	Movies   bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var scanFlags ScanFlags

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find duplicate media versions",
		Long: `Scan the Plex server for movies and episodes that expose more than one
media version, and print the resulting action plan without changing anything.`,
		RunE: runScan,
	}

	cmd.Flags().StringVar(&scanFlags.URL, "url", "", "Plex server URL (overrides config)")
	cmd.Flags().StringVar(&scanFlags.Token, "token", "", "Plex authentication token (overrides config)")
	cmd.Flags().StringVar(&scanFlags.Strategy, "strategy", "", "keep strategy: largest, smallest")
	cmd.Flags().StringSliceVar(&scanFlags.Filters, "filter", []string{}, "column filter as column=substring (repeatable)")
	cmd.Flags().BoolVar(&scanFlags.Movies, "movies-only", false, "skip TV show sections")

	cmd.Flags().StringVar(&scanFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&scanFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&scanFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyScanFlags(cfg)

	logger, err := newLogger(scanFlags.LogFile, scanFlags.LogFormat, scanFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	filters, err := parseFilters(scanFlags.Filters)
	if err != nil {
		return err
	}

	session, err := newScanSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	for col, q := range filters {
		session.SetFilter(col, q)
	}

	output.RenderPlan(os.Stdout, session.View())
	fmt.Printf("\n%d duplicate title(s), %d version(s) in plan\n",
		countDuplicates(session.Groups()), len(session.Plan().Entries))

	return nil
}

func applyScanFlags(cfg *config.Config) {
	if scanFlags.URL != "" {
		cfg.Plex.URL = scanFlags.URL
	}
	if scanFlags.Token != "" {
		cfg.Plex.Token = scanFlags.Token
	}
	if scanFlags.Strategy != "" {
		cfg.Clean.Strategy = models.Strategy(scanFlags.Strategy)
	}
	if scanFlags.Movies {
		cfg.Plex.IncludeShows = false
	}
}

// newScanSession connects to the server, fetches the duplicate listing, and
// builds a fresh session under the configured strategy. Malformed catalog
// records are reported and excluded; the scan continues.
func newScanSession(ctx context.Context, cfg *config.Config, logger logging.Logger) (*dedupe.Session, error) {
	if !cfg.Clean.Strategy.Valid() {
		return nil, fmt.Errorf("unknown strategy %q (use: largest, smallest)", cfg.Clean.Strategy)
	}

	client, err := plex.NewClient(plex.ClientOptions{
		BaseURL:     cfg.Plex.URL,
		Token:       cfg.Plex.Token,
		Timeout:     cfg.Plex.Timeout,
		InsecureTLS: cfg.Plex.InsecureTLS,
		Verbose:     globalFlags.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Plex client: %w", err)
	}

	catalog := plex.NewCatalog(client, logger)
	records, err := catalog.FetchDuplicates(ctx, cfg.Plex.IncludeShows)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	groups, diags := dedupe.BuildGroups(records)
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: excluded record: %s\n", d)
		logger.Warn(ctx, "record excluded from plan", logging.Fields{
			"title":   d.Record.Title,
			"version": d.Record.VersionID,
			"reason":  d.Message,
		})
	}

	return dedupe.NewSession(groups, cfg.Clean.Strategy), nil
}

func countDuplicates(groups []*models.Group) int {
	n := 0
	for _, g := range groups {
		if g.HasDuplicates() {
			n++
		}
	}
	return n
}
