package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/diagnostics"
	"github.com/sail-lang/sailcheck/internal/toplevel"
)

func newCheckCmd() *cobra.Command {
	var continueOnError bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Check a JSON-encoded definition stream, reading stdin if no file is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if len(args) > 0 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			data, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			defs, err := ast.DecodeProgram(data)
			if err != nil {
				return fmt.Errorf("decoding definition stream: %w", err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sess, err := newSession(cfg)
			if err != nil {
				return err
			}

			tl := toplevel.NewSession(sess)
			_, checkErr := tl.CheckStream(context.Background(), defs, continueOnError)

			nErrors := 0
			if checkErr != nil {
				nErrors = 1
				var tlErr *toplevel.Error
				if ok := asToplevelError(checkErr, &tlErr); ok {
					d := diagnostics.FromError(tlErr.Pos, tlErr.Err)
					if jsonOutput {
						diagnostics.PrintJSON(os.Stdout, d)
					} else {
						diagnostics.Print(os.Stderr, d)
					}
				} else {
					fmt.Fprintln(os.Stderr, checkErr)
				}
			}

			diagnostics.Summary(os.Stderr, nErrors)
			if nErrors > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "keep checking remaining definitions after a failure")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the diagnostic as a single JSON object on stdout")
	return cmd
}

func asToplevelError(err error, out **toplevel.Error) bool {
	for err != nil {
		if tlErr, ok := err.(*toplevel.Error); ok {
			*out = tlErr
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
