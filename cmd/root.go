// Package cmd implements the phoebe command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/bmatsuo/phoebe/pkg/eval"
	"github.com/bmatsuo/phoebe/pkg/heap"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfgFile       string
	heapThreshold int
	heapGrowth    float64
	heapLimit     int
	gcStress      bool
	maxHeight     int
	logLevel      string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "phoebe",
	Short: "A small garbage collected lisp",
	Long: `Phoebe is a tree-walking lisp interpreter with a mark-and-sweep
garbage collector.  Without a subcommand phoebe starts an interactive REPL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd, defaultPrompt)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main().  It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Configuration file (yaml)")
	flags.IntVar(&heapThreshold, "heap-threshold", heap.DefaultThreshold,
		"Live objects that trigger a garbage collection")
	flags.Float64Var(&heapGrowth, "heap-growth", heap.DefaultGrowth,
		"Factor by which a full heap grows (1 or less fixes the heap size)")
	flags.IntVar(&heapLimit, "heap-limit", heap.DefaultLimit,
		"Largest heap threshold (0 for no limit)")
	flags.BoolVar(&gcStress, "gc-stress", false,
		"Collect garbage at every allocation")
	flags.IntVar(&maxHeight, "max-height", eval.DefaultMaxHeight,
		"Maximum call stack height (0 for no limit)")
	flags.StringVar(&logLevel, "log-level", "warn",
		"Log level (debug, info, warn, error)")
}

// loadConfig reads the configuration file, if any, and applies flags given
// on the command line over it.
func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	c := DefaultConfig()
	if cfgFile != "" {
		var err error
		c, err = ReadConfig(cfgFile)
		if err != nil {
			return nil, err
		}
	}
	if flags.Changed("heap-threshold") {
		c.Heap.Threshold = heapThreshold
	}
	if flags.Changed("heap-growth") {
		c.Heap.Growth = heapGrowth
	}
	if flags.Changed("heap-limit") {
		c.Heap.Limit = heapLimit
	}
	if flags.Changed("gc-stress") {
		c.Heap.Stress = gcStress
	}
	if flags.Changed("max-height") {
		c.MaxHeight = maxHeight
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	return c, nil
}

func newInterp(cmd *cobra.Command) (*eval.Interp, error) {
	c, err := loadConfig(cmd.Flags())
	if err != nil {
		return nil, err
	}
	return c.NewInterp(cmd.ErrOrStderr())
}
