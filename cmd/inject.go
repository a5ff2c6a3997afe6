package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/navinject/internal/config"
	"github.com/ziadkadry99/navinject/internal/nav"
	"github.com/ziadkadry99/navinject/internal/progress"
	"github.com/ziadkadry99/navinject/internal/site"
	"github.com/ziadkadry99/navinject/internal/walker"
)

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Inject the navigation fragment into every page of the site",
	Long: `Walks the site directory and writes the navigation fragment into the
placeholder of every matching page. Pages are only rewritten when their content
changes, so repeated runs are safe.`,
	RunE: runInject,
}

func init() {
	injectCmd.Flags().String("site", "", "override site directory")
	injectCmd.Flags().Bool("dry-run", false, "report pages that would change without writing them")
	injectCmd.Flags().Bool("watch", false, "keep running and re-inject when pages or the fragment change")
	injectCmd.Flags().Int("concurrency", 0, "pages processed in parallel (defaults to config)")
	injectCmd.Flags().Bool("quiet", false, "disable the progress bar")
	rootCmd.AddCommand(injectCmd)
}

func runInject(cmd *cobra.Command, args []string) error {
	if dir, _ := cmd.Flags().GetString("site"); dir != "" {
		cfg.SiteDir = dir
	}
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		cfg.Concurrency = n
	}
	c, err := loadConfig()
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	watch, _ := cmd.Flags().GetBool("watch")
	quiet, _ := cmd.Flags().GetBool("quiet")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	injector := createInjectorFromConfig(c, logger)

	var reporter progress.Reporter = progress.Nop{}
	if !quiet {
		reporter = progress.NewReporter()
	}

	summary, err := injectOnce(ctx, c, injector, reporter, dryRun)
	if err != nil {
		return err
	}
	printSummary(summary, dryRun)

	if !watch {
		if summary.Failed > 0 {
			return fmt.Errorf("%d pages failed", summary.Failed)
		}
		return nil
	}

	fragmentRel := fragmentRelPath(c)
	relevant := func(rel string) bool {
		if rel == fragmentRel {
			return true
		}
		return walker.Selected(rel, c.Include, c.Exclude)
	}
	onChange := func(ctx context.Context, changed []string) {
		logger.Info("re-injecting", zap.Strings("changed", changed))
		s, err := injectOnce(ctx, c, injector, progress.Nop{}, dryRun)
		if err != nil {
			logger.Warn("re-injection failed", zap.Error(err))
			return
		}
		printSummary(s, dryRun)
	}

	w, err := site.NewWatcher(c.SiteDir, site.DefaultDebounce, relevant, onChange, logger)
	if err != nil {
		return err
	}
	fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n", c.SiteDir)
	return w.Run(ctx)
}

func injectOnce(ctx context.Context, c *config.Config, injector *nav.Injector, reporter progress.Reporter, dryRun bool) (site.Summary, error) {
	pages, err := discoverPages(c)
	if err != nil {
		return site.Summary{}, err
	}
	processor := site.NewProcessor(injector, logger, site.ProcessorOptions{
		Concurrency: c.Concurrency,
		DryRun:      dryRun,
		Reporter:    reporter,
	})
	return processor.Run(ctx, pages)
}

func printSummary(s site.Summary, dryRun bool) {
	verb := "Injected navigation"
	if dryRun {
		verb = "Dry run"
	}
	fmt.Printf("%s: %d pages (%d changed, %d unchanged, %d without placeholder, %d fallback, %d failed)\n",
		verb, s.Pages, s.Changed, s.Unchanged, s.Skipped, s.Fallback, s.Failed)

	if dryRun {
		for _, r := range s.Results {
			if r.Outcome == site.OutcomeChanged {
				fmt.Printf("  would update %s (%s -> %s)\n", r.Page.RelPath, shortHash(r.Before), shortHash(r.After))
			}
		}
	}
	var failed []string
	for _, r := range s.Results {
		if r.Outcome == site.OutcomeFailed {
			failed = append(failed, fmt.Sprintf("  %s: %v", r.Page.RelPath, r.Err))
		}
	}
	if len(failed) > 0 {
		fmt.Fprintln(os.Stderr, "Failed pages:")
		fmt.Fprintln(os.Stderr, strings.Join(failed, "\n"))
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
