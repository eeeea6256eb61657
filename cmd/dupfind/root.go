package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dupfind/internal/config"
	"dupfind/internal/finder"
	"dupfind/internal/hash"
	"dupfind/internal/logging"
	"dupfind/internal/progress"
	"dupfind/internal/report"
	"dupfind/internal/walker"
)

type options struct {
	configPath     string
	workers        int
	algorithm      string
	followSymlinks bool
	abortOnError   bool
	exclude        []string
	gitignore      bool
	format         string
	digest         bool
	exitCode       bool
	quiet          bool
	verbose        bool
	noColor        bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "dupfind [path]",
		Short: "Report files with identical content under a directory",
		Long: `dupfind walks a directory tree, fingerprints every regular file by the
first 64 KiB of its content plus its size, and reports groups of files that
share a fingerprint, largest first.

Files that match in their first 64 KiB and size but differ later are reported
as duplicates; verify before deleting anything.

The path defaults to the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runScan(cmd, o, root, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	addFlags(cmd.Flags(), o)
	return cmd
}

func addFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVarP(&o.configPath, "config", "c", config.DefaultPath, "Config file path")
	fs.IntVarP(&o.workers, "workers", "w", 0, "Number of hashing goroutines (1 scans sequentially)")
	fs.StringVar(&o.algorithm, "algorithm", string(hash.XXHash), "Digest algorithm: xxhash, sha256 or blake3")
	fs.BoolVar(&o.followSymlinks, "follow-symlinks", false, "Descend into symlinked directories")
	fs.BoolVar(&o.abortOnError, "abort-on-error", false, "Stop at the first unreadable directory")
	fs.StringSliceVarP(&o.exclude, "exclude", "e", nil, "Glob patterns to exclude (repeatable, dir/ prunes directories)")
	fs.BoolVar(&o.gitignore, "gitignore", false, "Skip paths ignored by the root .gitignore")
	fs.StringVarP(&o.format, "format", "o", "text", "Output format: text or json")
	fs.BoolVar(&o.digest, "digest", false, "Print an audit digest of all scanned files")
	fs.BoolVar(&o.exitCode, "exit-code", false, "Exit with status 1 when duplicates are found")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "Hide progress and warnings")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Log debug output")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable colored output")
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config, o *options) {
	if fs.Changed("workers") {
		cfg.Workers = o.workers
	}
	if fs.Changed("algorithm") {
		cfg.Algorithm = o.algorithm
	}
	if fs.Changed("follow-symlinks") {
		cfg.FollowSymlinks = o.followSymlinks
	}
	if fs.Changed("abort-on-error") {
		cfg.OnError = "skip"
		if o.abortOnError {
			cfg.OnError = "abort"
		}
	}
	if fs.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, o.exclude...)
	}
	if fs.Changed("gitignore") {
		cfg.Gitignore = o.gitignore
	}
	if fs.Changed("format") {
		cfg.Format = o.format
	}
}

func runScan(cmd *cobra.Command, o *options, root string, stdout, stderr io.Writer) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd.Flags(), cfg, o)
	if err := cfg.Validate(); err != nil {
		return err
	}

	alg, err := hash.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return err
	}
	policy, err := finder.ParsePolicy(cfg.OnError)
	if err != nil {
		return err
	}

	level := "warn"
	switch {
	case o.quiet:
		level = "error"
	case o.verbose:
		level = "debug"
	}
	logger := logging.New(level, stderr)

	opts := finder.Options{
		Walk: walker.Options{
			Exclude:        cfg.Exclude,
			FollowSymlinks: cfg.FollowSymlinks,
			Gitignore:      cfg.Gitignore,
		},
		Algorithm: alg,
		Workers:   cfg.Workers,
		OnError:   policy,
		Logger:    logger,
		Digest:    o.digest,
	}

	var counter *progress.Counter
	if !o.quiet {
		counter = progress.New(stderr)
		opts.Observer = counter.Observe
	}

	if cfg.Format == "text" {
		startDir, err := filepath.Abs(root)
		if err != nil {
			startDir = root
		}
		fmt.Fprintf(stdout, "Start dir: %s\n\n", startDir)
	}

	res, err := finder.Find(cmd.Context(), root, opts)
	if counter != nil {
		counter.Finish()
	}
	if err != nil {
		return err
	}

	r := res.Report()
	if cfg.Format == "json" {
		err = report.WriteJSON(stdout, r)
	} else {
		err = report.WriteText(stdout, r, report.TextOptions{
			Color: !o.noColor && !color.NoColor,
		})
	}
	if err != nil {
		return err
	}

	if o.exitCode && res.HasDuplicates() {
		return &exitError{code: exitDuplicates}
	}
	return nil
}
