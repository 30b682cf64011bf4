package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/plexdedupe/plexdedupe/pkg/config"
	"github.com/plexdedupe/plexdedupe/pkg/dedupe"
	"github.com/plexdedupe/plexdedupe/pkg/executor"
	"github.com/plexdedupe/plexdedupe/pkg/models"
	"github.com/plexdedupe/plexdedupe/pkg/output"
	"github.com/plexdedupe/plexdedupe/pkg/plex"
	"github.com/plexdedupe/plexdedupe/pkg/verify"
)

// CleanFlags holds clean command flags
type CleanFlags struct {
	URL      string
	Token    string
	Strategy string
	Mode     string
	DryRun   bool
	Yes      bool
	Filters  []string
	Keep     []string
	Delete   []string
	Movies   bool
	Output   string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var cleanFlags CleanFlags

// NewCleanCommand creates the clean command
func NewCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Resolve duplicates by deletion or hardlink conversion",
		Long: `Scan the Plex server for duplicate media versions, decide which version to
keep per title, and consolidate the rest.

In delete mode, duplicates on local volumes move to the OS trash and
duplicates on network volumes are permanently removed; each confirmed delete
also retracts the matching catalog record. In hardlink mode, duplicates are
replaced by hardlinks to the kept version after their content is verified
identical, reclaiming space without touching the catalog.`,
		RunE: runClean,
	}

	cmd.Flags().StringVar(&cleanFlags.URL, "url", "", "Plex server URL (overrides config)")
	cmd.Flags().StringVar(&cleanFlags.Token, "token", "", "Plex authentication token (overrides config)")
	cmd.Flags().StringVar(&cleanFlags.Strategy, "strategy", "", "keep strategy: largest, smallest")
	cmd.Flags().StringVar(&cleanFlags.Mode, "mode", "", "consolidation mode: delete, hardlink")
	cmd.Flags().BoolVar(&cleanFlags.DryRun, "dry-run", false, "report what would happen without changing anything")
	cmd.Flags().BoolVarP(&cleanFlags.Yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().StringSliceVar(&cleanFlags.Filters, "filter", []string{}, "column filter as column=substring (repeatable)")
	cmd.Flags().StringSliceVar(&cleanFlags.Keep, "keep", []string{}, "version ID to force-keep (repeatable)")
	cmd.Flags().StringSliceVar(&cleanFlags.Delete, "delete", []string{}, "version ID to force-delete (repeatable)")
	cmd.Flags().BoolVar(&cleanFlags.Movies, "movies-only", false, "skip TV show sections")
	cmd.Flags().StringVarP(&cleanFlags.Output, "output", "o", "human", "output format: human, json")

	cmd.Flags().StringVar(&cleanFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&cleanFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&cleanFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	// Ctrl-C cancels at the next entry boundary; results already produced
	// remain valid.
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyCleanFlags(cfg)

	logger, err := newLogger(cleanFlags.LogFile, cleanFlags.LogFormat, cleanFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	filters, err := parseFilters(cleanFlags.Filters)
	if err != nil {
		return err
	}

	// Reuse the scan path: the clean session starts from the same plan.
	session, err := newScanSession(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if err := applyOverrides(session); err != nil {
		return err
	}
	for col, q := range filters {
		session.SetFilter(col, q)
	}

	entries := session.DeleteSet()
	if len(entries) == 0 {
		fmt.Println("Nothing to do: no visible versions are marked for removal.")
		return nil
	}

	client, err := plex.NewClient(plex.ClientOptions{
		BaseURL:     cfg.Plex.URL,
		Token:       cfg.Plex.Token,
		Timeout:     cfg.Plex.Timeout,
		InsecureTLS: cfg.Plex.InsecureTLS,
		Verbose:     globalFlags.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create Plex client: %w", err)
	}
	catalog := plex.NewCatalog(client, logger)

	hasher := verify.NewHasher(cfg.Clean.BufferSize)
	progress := output.NewHashProgress()
	if cfg.Output.Progress && !globalFlags.Quiet {
		hasher.SetProgressCallback(progress.Report)
	}
	defer progress.Close()

	exec := executor.New(catalog, nil, nil, hasher, logger)
	opts := executor.Options{
		Mode:    cfg.Clean.Mode,
		DryRun:  cleanFlags.DryRun,
		Targets: session.KeepTargets(),
	}

	if !cleanFlags.DryRun && !cleanFlags.Yes {
		confirmed, err := confirm(ctx, exec, entries, opts)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	report := &models.RunReport{
		RunID:     uuid.New().String(),
		Mode:      opts.Mode,
		DryRun:    opts.DryRun,
		StartTime: time.Now(),
	}

	for res := range exec.Execute(ctx, entries, opts) {
		report.Add(res)
		if cleanFlags.Output != "json" && !globalFlags.Quiet {
			output.PrintResult(os.Stdout, res)
		}
	}
	report.Finish(ctx.Err() != nil)

	if cleanFlags.Output == "json" {
		if err := output.WriteJSONReport(os.Stdout, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else if !globalFlags.Quiet {
		output.PrintSummary(os.Stdout, report)
	}

	os.Exit(report.Status.ExitCode())
	return nil
}

func applyCleanFlags(cfg *config.Config) {
	if cleanFlags.URL != "" {
		cfg.Plex.URL = cleanFlags.URL
	}
	if cleanFlags.Token != "" {
		cfg.Plex.Token = cleanFlags.Token
	}
	if cleanFlags.Strategy != "" {
		cfg.Clean.Strategy = models.Strategy(cleanFlags.Strategy)
	}
	if cleanFlags.Mode != "" {
		cfg.Clean.Mode = models.ExecMode(cleanFlags.Mode)
	}
	if cleanFlags.Movies {
		cfg.Plex.IncludeShows = false
	}
}

// applyOverrides replays the operator's --keep/--delete choices onto the
// plan, reporting any compensating promotion the invariant repair performed.
func applyOverrides(session *dedupe.Session) error {
	for _, id := range cleanFlags.Keep {
		if _, err := session.Override(id, models.ActionKeep); err != nil {
			return err
		}
	}
	for _, id := range cleanFlags.Delete {
		comp, err := session.Override(id, models.ActionDelete)
		if err != nil {
			return err
		}
		if comp != nil {
			fmt.Fprintf(os.Stderr, "note: version %s promoted to KEEP so its group retains one kept version\n",
				comp.Promoted.Version.ID)
		}
	}
	return nil
}

// confirm runs a dry-run pass over the plan subset and prompts with the
// projected outcome, so the operator sees the trash-vs-permanent split
// before committing.
func confirm(ctx context.Context, exec *executor.Executor, entries []*models.ActionEntry, opts executor.Options) (bool, error) {
	preview := opts
	preview.DryRun = true

	var total int64
	permanent := 0
	for res := range exec.Execute(ctx, entries, preview) {
		if res.Outcome == models.SkippedDryRun {
			total += res.BytesReclaimed
			if res.Message == executor.MsgWouldDeletePermanently {
				permanent++
			}
		}
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	fmt.Printf("About to process %d version(s), reclaiming up to %s.\n",
		len(entries), dedupe.FormatSize(total))
	if opts.Mode == models.ModeDelete {
		if permanent > 0 {
			fmt.Printf("WARNING: %d file(s) are on network volumes and will be PERMANENTLY deleted.\n", permanent)
		}
		fmt.Println("Local files go to the OS trash; network files cannot be recovered.")
	}
	fmt.Print("Continue? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
