// Package repl implements the interactive loop for Steps.
//
// It uses github.com/chzyer/readline for line editing and persistent
// history (~/.steps_history). Input is parsed as isolated statement
// fragments through the core parser; block statements are collected
// line by line until the indentation closes.
//
// The loop:
//  1. Read a line (with history and editing)
//  2. Collect continuation lines while a block is open
//  3. Parse the fragment, report errors and keep going on failure
//  4. Execute the statements against a persistent environment
package repl

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/steps-lang/steps/internal/interp"
	"github.com/steps-lang/steps/internal/interp/builtins"
	"github.com/steps-lang/steps/internal/loader"
	"github.com/steps-lang/steps/internal/parser"
)

const (
	primaryPrompt      = "steps> "
	continuationPrompt = "  ...> "
	historyFileName    = ".steps_history"
)

// REPL holds the persistent session state: one environment shared by
// every entered fragment, so variables survive across lines.
type REPL struct {
	rl  *readline.Instance
	out io.Writer
	it  *interp.Interpreter
}

// New creates a REPL reading from the terminal and writing to out.
func New(out io.Writer) (*REPL, error) {
	historyPath := historyFileName
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, historyFileName)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      primaryPrompt,
		HistoryFile: historyPath,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot initialise readline: %w", err)
	}

	project := loader.LoadStdlib(builtins.NewRegistry())
	hooks := interp.Hooks{
		ReadLine: func() (string, error) {
			return rl.Readline()
		},
		WriteLine:      func(s string) { fmt.Fprintln(out, s) },
		WriteNoNewline: func(s string) { fmt.Fprint(out, s) },
	}
	env := interp.NewEnvironment(project.Steps, project.Natives, hooks)
	it := interp.New(env, rand.New(rand.NewSource(time.Now().UnixNano())))

	return &REPL{rl: rl, out: out, it: it}, nil
}

// Run drives the loop until :quit, Ctrl-D or a read failure.
func (r *REPL) Run() error {
	defer r.rl.Close()

	fmt.Fprintln(r.out, "Steps interactive session. Type :quit to leave.")
	for {
		fragment, quit := r.readFragment()
		if quit {
			return nil
		}
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		r.execute(fragment)
	}
}

// readFragment reads one statement, following continuation lines while a
// block header keeps the fragment open. Returns quit=true on EOF or the
// :quit command.
func (r *REPL) readFragment() (string, bool) {
	r.rl.SetPrompt(primaryPrompt)
	var lines []string
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			// Ctrl-C abandons the fragment but keeps the session.
			return "", false
		}
		if err != nil {
			return "", true
		}
		if len(lines) == 0 && strings.TrimSpace(line) == ":quit" {
			return "", true
		}

		lines = append(lines, line)
		if !r.open(lines) {
			return strings.Join(lines, "\n"), false
		}
		r.rl.SetPrompt(continuationPrompt)
	}
}

// open reports whether the fragment still needs continuation lines: the
// last non-blank line opens a block with ":", or the fragment contains an
// indented block that a blank line has not yet closed.
func (r *REPL) open(lines []string) bool {
	last := lines[len(lines)-1]
	if strings.HasSuffix(strings.TrimRight(last, " "), ":") {
		return true
	}
	if len(lines) > 1 {
		// Inside a block: a blank line closes the fragment.
		return strings.TrimSpace(last) != ""
	}
	return false
}

// execute parses and runs one fragment against the persistent session.
func (r *REPL) execute(fragment string) {
	p := parser.New(fragment, "<repl>")
	stmts := p.ParseFragment()
	if p.Errors().HasErrors() {
		fmt.Fprintln(r.out, p.Errors().Format(true))
		return
	}
	if err := r.it.RunStatements(stmts); err != nil {
		fmt.Fprintln(r.out, err.Format(true))
	}
}
