package cmd

import (
	"github.com/bmatsuo/phoebe/repl"
	"github.com/spf13/cobra"
)

const defaultPrompt = "phoebe> "

var replPrompt string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd, replPrompt)
	},
}

func runRepl(cmd *cobra.Command, prompt string) error {
	interp, err := newInterp(cmd)
	if err != nil {
		return err
	}
	return repl.RunRepl(interp, prompt)
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replPrompt, "prompt", defaultPrompt,
		"Prompt displayed for each expression")
}
