package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bmatsuo/phoebe/pkg/eval"
	"github.com/bmatsuo/phoebe/pkg/lisp"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
	runTrace      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run lisp code",
	Long:  `Run lisp code provided supplied via the command line or a file.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exprs, err := runReadExpressions(args)
		if err != nil {
			return err
		}
		interp, err := newInterp(cmd)
		if err != nil {
			return err
		}
		stdout := cmd.OutOrStdout()
		for i := range exprs {
			err := interp.EvalEach(exprs[i], interp.GlobalNamespace(), func(v lisp.LVal) error {
				if !runPrint {
					return nil
				}
				if _, err := interp.Format(stdout, v); err != nil {
					return err
				}
				_, err := fmt.Fprintln(stdout)
				return err
			})
			if err != nil {
				if runTrace {
					var rerr *eval.RuntimeError
					if errors.As(err, &rerr) && len(rerr.Stack.Frames) > 0 {
						rerr.Stack.DebugPrint(cmd.ErrOrStderr(), interp.Symbols())
					}
				}
				return fmt.Errorf("%s: %w", runSource(args, i), err)
			}
		}
		return nil
	},
}

func runSource(args []string, i int) string {
	if runExpression {
		return fmt.Sprintf("expression %d", i+1)
	}
	return args[i]
}

func runReadExpressions(args []string) ([][]byte, error) {
	exprs := make([][]byte, len(args))
	if runExpression {
		for i := range args {
			exprs[i] = []byte(args[i])
		}
		return exprs, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		exprs[i] = b
	}
	return exprs, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().BoolVar(&runTrace, "trace", false,
		"Print the call stack when evaluation fails")
}
