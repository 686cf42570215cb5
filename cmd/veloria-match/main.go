package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	watchMode bool
	verbose   bool
	logger    *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "veloria-match [fixture...]",
		Short: "Compile pattern-match fixtures into case trees",
		Long: `veloria-match loads one or more JSON match fixtures, runs the
pattern-match compiler on each, and prints the compiled eliminator
together with missing-case and redundancy diagnostics.`,
		Args: cobra.MinimumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchMode {
				return watchFixtures(cmd.Context(), args)
			}
			failed := false
			for _, path := range args {
				if err := runFixture(path); err != nil {
					logger.Error("fixture failed", "path", path, "err", err)
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("one or more fixtures failed")
			}
			return nil
		},
	}
)

func init() {
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "recompile fixtures whenever they change on disk")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.SilenceUsage = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runFixture compiles one fixture file and prints its outcome.
func runFixture(path string) error {
	f, err := LoadFixture(path)
	if err != nil {
		return err
	}
	logger.Debug("compiling fixture", "path", path, "name", f.Name,
		"inductives", len(f.Inductives), "alternatives", len(f.Alternatives))
	out, err := f.Compile(path)
	if err != nil {
		return err
	}
	fmt.Println(out.Report)
	if out.Compiled != nil {
		fmt.Printf("%s :=\n  %s\n", out.Name, out.Compiled)
	}
	if out.Report.HasErrors() {
		return fmt.Errorf("%s: compilation reported errors", path)
	}
	return nil
}
