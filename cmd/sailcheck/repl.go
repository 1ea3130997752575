package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/diagnostics"
	"github.com/sail-lang/sailcheck/internal/toplevel"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

// replSession drives one interactive checking session: a liner line editor
// feeding one JSON-encoded definition at a time into a toplevel.Session,
// history persisted to a dotfile the way an interactive tool's history
// normally survives between invocations.
type replSession struct {
	tl          *toplevel.Session
	line        *liner.State
	historyPath string
}

func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively enter JSON-encoded definitions, one at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sess, err := newSession(cfg)
			if err != nil {
				return err
			}
			r := &replSession{
				tl:          toplevel.NewSession(sess),
				line:        liner.NewLiner(),
				historyPath: historyFilePath(),
			}
			defer r.line.Close()
			return r.run()
		},
	}
	return cmd
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sailcheck_history"
	}
	return filepath.Join(home, ".sailcheck_history")
}

func (r *replSession) run() error {
	r.line.SetCtrlCAborts(true)

	if f, err := os.Open(r.historyPath); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(r.historyPath); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println(dim("sailcheck repl — enter one JSON definition per line, :quit to exit"))
	count := 0
	for {
		input, err := r.line.Prompt("sail> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err.Error() == "EOF" {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			return nil
		}
		r.line.AppendHistory(input)

		def, err := ast.DecodeDef([]byte(input))
		if err != nil {
			fmt.Println(red("parse error:"), err)
			continue
		}

		_, err = r.tl.CheckDef(context.Background(), def)
		if err != nil {
			var tlErr *toplevel.Error
			if ok := asToplevelError(err, &tlErr); ok {
				diagnostics.Print(os.Stdout, diagnostics.FromError(tlErr.Pos, tlErr.Err))
			} else {
				fmt.Println(red("error:"), err)
			}
			continue
		}
		count++
		fmt.Println(green(fmt.Sprintf("ok (%d definitions checked)", count)))
	}
}
