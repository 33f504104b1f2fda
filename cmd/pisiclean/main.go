package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/erkanisik1/Pisilinux-tools/internal/archive"
	"github.com/erkanisik1/Pisilinux-tools/internal/cleaner"
	"github.com/erkanisik1/Pisilinux-tools/internal/config"
	"github.com/erkanisik1/Pisilinux-tools/internal/errlog"
	"github.com/erkanisik1/Pisilinux-tools/internal/reporter"
	"github.com/erkanisik1/Pisilinux-tools/internal/retention"
	"github.com/erkanisik1/Pisilinux-tools/internal/scanner"
	"github.com/erkanisik1/Pisilinux-tools/internal/ui"
	"github.com/erkanisik1/Pisilinux-tools/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath  string
	verbose     bool
	debug       bool
	dryRun      bool
	force       bool
	interactive bool
	outputFmt   string
	reportFile  string
)

// Exit codes kept compatible with the original repository cleaner.
const (
	exitNoArchives    = 1
	exitDirNotFound   = -1
	exitNotADirectory = -2
	exitNothingParsed = -3
)

// exitError carries a process exit code alongside the user message.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			fmt.Fprintln(os.Stderr, exit.msg)
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pisiclean <directory> <count>",
	Short: "Clean a PISI repository by removing older package archives",
	Long: `pisiclean scans a PISI repository for *.pisi archives, ranks each
package's versions, and removes every archive older than the <count>
newest versions per package. Nothing is deleted without confirmation.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runClean,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print progress messages")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "print per-file detail messages")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be deleted without actually deleting")
	rootCmd.Flags().BoolVar(&force, "force", false, "skip confirmation prompts")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "run as an interactive terminal program")
	rootCmd.Flags().StringVar(&outputFmt, "output", "summary", "plan output format (summary, table, json, yaml)")
	rootCmd.Flags().StringVar(&reportFile, "report-file", "", "save the plan report to a file")
}

// runLog prints the optional progress chatter. Informational lines need
// --verbose, per-file lines need --debug.
type runLog struct {
	verbose bool
	debug   bool
	out     io.Writer
}

func (l runLog) infof(format string, args ...interface{}) {
	if l.verbose {
		fmt.Fprintf(l.out, format+"\n", args...)
	}
}

func (l runLog) debugf(format string, args ...interface{}) {
	if l.debug {
		fmt.Fprintf(l.out, format+"\n", args...)
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	root := args[0]
	keep, err := strconv.Atoi(args[1])
	if err != nil || keep < 0 {
		return fmt.Errorf("count must be a non-negative integer, got %q", args[1])
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debug
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = dryRun
	}

	log := runLog{verbose: cfg.Verbose, debug: cfg.Debug, out: cmd.OutOrStdout()}
	stdin := bufio.NewReader(cmd.InOrStdin())

	// A keep count of zero empties the repository; make sure the user
	// means it before any work starts.
	if keep == 0 && !force && !cfg.DryRun {
		answer := ui.Confirm(stdin, cmd.OutOrStdout(),
			"Entering 0 (zero) as count will cause all PISI packages to be removed from the directory. Do you really want to continue?")
		if answer == ui.Rejected {
			fmt.Fprintln(cmd.OutOrStdout(), "Good decision! Exiting.")
			return nil
		}
	}

	if err := scanner.CheckRoot(root); err != nil {
		var rootErr *scanner.RootError
		if errors.As(err, &rootErr) {
			code := exitNotADirectory
			if rootErr.NotFound {
				code = exitDirNotFound
			}
			return &exitError{code: code, msg: rootErr.Error()}
		}
		return err
	}

	elog := errlog.New(cfg.ErrorLogDir, time.Now())
	defer elog.Close()

	walker := scanner.NewFSWalker(cfg.Extension, cfg.ExcludePatterns)

	if interactive {
		return runInteractive(cmd, cfg, walker, elog, log, root, keep)
	}

	plan, err := buildPlan(cfg, walker, elog, log, root, keep)
	if err != nil {
		return err
	}

	rptr := reporter.New(cmd.OutOrStdout(), reporter.ParseFormat(outputFmt))
	if err := rptr.Report(plan); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	if reportFile != "" {
		if err := reporter.SaveToFile(plan, reportFile, reporter.ParseFormat(outputFmt)); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", reportFile)
	}

	if plan.Empty() {
		fmt.Fprintln(cmd.OutOrStdout(), "There is no redundant package. Repository is clean.")
		return finishParseWarnings(cmd.OutOrStdout(), elog)
	}

	if !force && !cfg.DryRun {
		answer := ui.Confirm(stdin, cmd.OutOrStdout(),
			fmt.Sprintf("%d redundant package(s) found. Do you really want to remove them?", len(plan.Discard)))
		if answer == ui.Rejected {
			fmt.Fprintln(cmd.OutOrStdout(), "Cleanup cancelled")
			return finishParseWarnings(cmd.OutOrStdout(), elog)
		}
	}

	log.infof("Started removing redundant PISI files.")
	files := make([]cleaner.File, 0, len(plan.Discard))
	for _, e := range plan.Discard {
		log.debugf("Removing %s.", e.Path())
		files = append(files, cleaner.File{Path: e.Path(), Size: e.Size})
	}

	result := cleaner.New(cfg.DryRun).Clean(files)
	printCleanResult(cmd.OutOrStdout(), result)

	return finishParseWarnings(cmd.OutOrStdout(), elog)
}

// runInteractive hands the scan/confirm/clean flow to the terminal UI.
func runInteractive(cmd *cobra.Command, cfg *config.Config, walker scanner.Walker, elog *errlog.Log, log runLog, root string, keep int) error {
	result, err := ui.RunInteractive(ui.Options{
		Root:   root,
		Keep:   keep,
		DryRun: cfg.DryRun,
		BuildPlan: func() (*retention.Plan, error) {
			return buildPlan(cfg, walker, elog, log, root, keep)
		},
	})
	if err != nil {
		return err
	}
	if result != nil {
		printCleanResult(cmd.OutOrStdout(), result)
	}
	return finishParseWarnings(cmd.OutOrStdout(), elog)
}

// buildPlan runs scan, parse and ranking, translating the empty cases
// into the documented exit codes.
func buildPlan(cfg *config.Config, walker scanner.Walker, elog *errlog.Log, log runLog, root string, keep int) (*retention.Plan, error) {
	log.infof("Started scanning files in repository directory.")
	scan, err := walker.Walk(root)
	if err != nil {
		return nil, err
	}
	if len(scan.Errors) > 0 {
		log.infof("Skipped %d unreadable entries during scan.", len(scan.Errors))
		for _, e := range scan.Errors {
			log.debugf("Scan error: %v.", e)
		}
	}
	for _, f := range scan.Files {
		log.debugf("Found %s in %s.", f.Name, f.Dir)
	}
	if scan.TotalCount == 0 {
		return nil, &exitError{
			code: exitNoArchives,
			msg:  fmt.Sprintf("Could not find any file ending with %s in %s. Exiting.", cfg.Extension, root),
		}
	}

	log.infof("Started parsing PISI files.")
	entries := parseEntries(scan, cfg, elog, log)
	if len(entries) == 0 {
		return nil, &exitError{
			code: exitNothingParsed,
			msg:  "Something is wrong. Could not parse any package from archive files. Exiting.",
		}
	}

	log.infof("Started finding redundant PISI files.")
	return retention.BuildPlan(entries, keep), nil
}

// parseEntries parses every scanned filename, logging malformed names to
// the run's error file and skipping them.
func parseEntries(scan *scanner.Result, cfg *config.Config, elog *errlog.Log, log runLog) []archive.Entry {
	entries := make([]archive.Entry, 0, len(scan.Files))
	for _, f := range scan.Files {
		e, err := archive.Parse(f.Dir, f.Name, cfg.Extension)
		if err != nil {
			raw := ""
			var malformed *archive.MalformedNameError
			if errors.As(err, &malformed) {
				raw = malformed.RawVersion
			}
			if logErr := elog.Record(f.Name, raw, err); logErr != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", logErr)
			}
			continue
		}
		e.Size = f.Size
		log.debugf("Parsed %s. Package name: %s, version: %s, release: %s, build: %s, arch: %s.",
			f.Name, e.Name, e.Comparable, e.Release, e.Build, e.Arch)
		entries = append(entries, e)
	}
	return entries
}

func printCleanResult(out io.Writer, result *cleaner.Result) {
	if result.DryRun {
		fmt.Fprintf(out, "\n[DRY RUN] Would delete %d archive(s) (%s).\n",
			len(result.Deleted), utils.FormatBytes(result.DeletedSize))
		return
	}

	fmt.Fprintf(out, "\nDeleted %d archive(s), reclaimed %s.\n",
		len(result.Deleted), utils.FormatBytes(result.DeletedSize))

	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped %d file(s).\n", len(result.Skipped))
	}
	if len(result.Errors) > 0 {
		fmt.Fprint(out, cleaner.FormatErrorSummary(result.Errors))
	}
}

// finishParseWarnings tells the user about archives that were skipped
// during parsing; the details live in the error log file.
func finishParseWarnings(out io.Writer, elog *errlog.Log) error {
	if elog.Count() > 0 {
		fmt.Fprintf(out, "%d archive name(s) could not be parsed; see %s\n", elog.Count(), elog.Path())
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	return config.Load(cfgPath)
}
