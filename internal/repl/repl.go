// Package repl is the interactive shell over one edit session.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fpang/gemini-photo-edit/internal/cli"
	"github.com/fpang/gemini-photo-edit/internal/session"
)

type REPL struct {
	in         io.Reader
	out        io.Writer
	err        io.Writer
	controller *session.Controller
	model      string
	outputDir  string
	s3         *cli.S3
	pick       func() (string, error)
	commands   map[string]Command
	running    bool
}

type Config struct {
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	Controller *session.Controller
	Model      string
	OutputDir  string
	S3         *cli.S3
	// Pick chooses a file when open is given no path. Defaults to the native dialog.
	Pick func() (string, error)
}

func New(cfg *Config) *REPL {
	r := &REPL{
		in:         cfg.In,
		out:        cfg.Out,
		err:        cfg.Err,
		controller: cfg.Controller,
		model:      cfg.Model,
		outputDir:  cfg.OutputDir,
		s3:         cfg.S3,
		pick:       cfg.Pick,
		commands:   make(map[string]Command),
	}
	if r.pick == nil {
		r.pick = cli.PickImage
	}
	if r.s3 == nil {
		r.s3 = &cli.S3{}
	}
	if r.outputDir == "" {
		r.outputDir = "."
	}
	r.registerCommands()
	return r
}

// Run reads and executes commands until quit, end of input, or ctx is
// canceled. Cancellation returns ctx.Err() even while waiting for input.
func (r *REPL) Run(ctx context.Context) error {
	r.running = true
	r.printWelcome()

	stop := make(chan struct{})
	defer close(stop)
	lines, scanErr := r.readLines(stop)

	for r.running {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.printPrompt()

		var text string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			text = l
		}

		line := strings.TrimSpace(text)
		if line == "" {
			continue
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.err, "Error: %v\n", err)
		}
	}

	return nil
}

// readLines scans r.in on its own goroutine. lines is closed at end of input,
// after the scanner error has been sent on errc.
func (r *REPL) readLines(stop <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		errc <- scanner.Err()
		close(lines)
	}()
	return lines, errc
}

func (r *REPL) execute(ctx context.Context, line string) error {
	parts := parseCommand(line)
	if len(parts) == 0 {
		return nil
	}

	cmdName := strings.ToLower(parts[0])
	args := parts[1:]

	cmd, ok := r.commands[cmdName]
	if !ok {
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmdName)
	}

	if raw, ok := cmd.(rawArgsCommand); ok && raw.RawArgs() {
		args = nil
		if i := strings.IndexAny(line, " \t"); i >= 0 {
			if rest := strings.TrimSpace(line[i:]); rest != "" {
				args = []string{rest}
			}
		}
	}

	return cmd.Execute(ctx, r, args)
}

func (r *REPL) Stop() {
	r.running = false
}

func (r *REPL) printWelcome() {
	fmt.Fprintln(r.out, "photo-edit interactive mode")
	fmt.Fprintln(r.out, "Type 'help' for available commands, 'quit' to exit.")
	fmt.Fprintln(r.out)
}

func (r *REPL) printPrompt() {
	snap := r.controller.Snapshot()
	if snap.SourceName != "" {
		fmt.Fprintf(r.out, "photo-edit [%s] (%s)> ", snap.SourceName, snap.Phase)
	} else {
		fmt.Fprintf(r.out, "photo-edit (%s)> ", snap.Phase)
	}
}

func parseCommand(line string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, ch := range line {
		switch {
		case ch == '"' || ch == '\'':
			if inQuotes && ch == quoteChar {
				inQuotes = false
				quoteChar = 0
			} else if !inQuotes {
				inQuotes = true
				quoteChar = ch
			} else {
				current.WriteRune(ch)
			}
		case (ch == ' ' || ch == '\t') && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}
