// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package root

import (
	"log/slog"
	"os"

	"github.com/gitshallow/gitshallow/internal/cmd/profile"
	"github.com/gitshallow/gitshallow/internal/cmd/version"
	"github.com/gitshallow/gitshallow/internal/config"
	"github.com/gitshallow/gitshallow/internal/display"
	"github.com/gitshallow/gitshallow/internal/gitinterface"
	"github.com/gitshallow/gitshallow/internal/shallow"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type options struct {
	noColor           bool
	verbose           bool
	profile           bool
	cpuProfileFile    string
	memoryProfileFile string
	keepRefs          []string
	keepPatterns      []string
	shrink            bool
	dryRun            bool
	pruneExpire       string
	configPath        string
}

func (o *options) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(
		&o.noColor,
		"no-color",
		false,
		"turn off colored output",
	)

	cmd.PersistentFlags().BoolVar(
		&o.verbose,
		"verbose",
		false,
		"enable verbose logging",
	)

	cmd.PersistentFlags().BoolVar(
		&o.profile,
		"profile",
		false,
		"enable CPU and memory profiling",
	)

	cmd.PersistentFlags().StringVar(
		&o.cpuProfileFile,
		"profile-CPU-file",
		"cpu.prof",
		"file to store CPU profile",
	)

	cmd.PersistentFlags().StringVar(
		&o.memoryProfileFile,
		"profile-memory-file",
		"memory.prof",
		"file to store memory profile",
	)

	cmd.Flags().StringArrayVarP(
		&o.keepRefs,
		"ref",
		"r",
		nil,
		"remove all but the specified refs (cumulative)",
	)

	cmd.Flags().StringArrayVarP(
		&o.keepPatterns,
		"match",
		"m",
		nil,
		"keep refs matching the specified pattern (cumulative)",
	)

	cmd.Flags().BoolVarP(
		&o.shrink,
		"shrink",
		"s",
		false,
		"shrink the repository by reclaiming unused storage",
	)

	cmd.Flags().BoolVarP(
		&o.dryRun,
		"dry-run",
		"n",
		false,
		"report what would be done without touching the repository",
	)

	cmd.Flags().StringVar(
		&o.pruneExpire,
		"prune-expire",
		"now",
		"expiry grace period passed to object pruning",
	)

	cmd.Flags().StringVar(
		&o.configPath,
		"config",
		"",
		"path to the configuration file (default \"$GIT_DIR/gitshallow.yaml\")",
	)
}

func (o *options) PreRunE(_ *cobra.Command, _ []string) error {
	// Check if colored output must be disabled
	output := os.Stdout
	isTerminal := isatty.IsTerminal(output.Fd()) || isatty.IsCygwinTerminal(output.Fd())
	if o.noColor || !isTerminal {
		display.DisableColor()
	}

	// Setup logging
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	// Start profiling if flag is set
	if o.profile {
		return profile.StartProfiling(o.cpuProfileFile, o.memoryProfileFile)
	}

	return nil
}

func (o *options) Run(cmd *cobra.Command, args []string) error {
	repo, err := gitinterface.LoadRepository()
	if err != nil {
		return err
	}

	configPath := o.configPath
	if configPath == "" {
		configPath = config.DefaultPath(repo.GetGitDir())
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Flags extend the configured keep-set and override its scalars
	keepRefs := append(cfg.Refs, o.keepRefs...)
	keepPatterns := append(cfg.Match, o.keepPatterns...)

	shrink := cfg.Shrink
	if cmd.Flags().Changed("shrink") {
		shrink = o.shrink
	}

	pruneExpire := o.pruneExpire
	if !cmd.Flags().Changed("prune-expire") && cfg.PruneExpire != "" {
		pruneExpire = cfg.PruneExpire
	}

	return shallow.Truncate(repo, &shallow.Options{
		Revisions:    args,
		KeepRefs:     keepRefs,
		KeepPatterns: keepPatterns,
		Shrink:       shrink,
		DryRun:       o.dryRun,
		PruneExpire:  pruneExpire,
		Output:       cmd.OutOrStdout(),
	})
}

func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "gitshallow <revision>...",
		Short: "Remove the history of the specified revisions from a Git repository",
		Long: `gitshallow makes a Git repository shallow by removing the history of the specified revisions.

For every specified revision, the commits it reaches are cut out of the repository: shallow boundaries are recorded wherever the removed history intersects the history of the kept refs, so the commits the kept refs still need remain present but report no parents. References outside the keep-set are removed along the way.

The refs to keep are selected with --ref and --match; without either flag every ref that points to a commit (branches, remote-tracking refs, tags) is kept. With --shrink the storage occupied by the removed history is reclaimed immediately.

Truncation is destructive. Run it on a repository whose history is recoverable from elsewhere, or use --dry-run first to review what would be removed.`,

		Args:              cobra.MinimumNArgs(1),
		RunE:              o.Run,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: o.PreRunE,
	}

	o.AddFlags(cmd)

	cmd.AddCommand(version.New())

	return cmd
}
