package repl

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fpang/gemini-photo-edit/internal/chat"
	"github.com/fpang/gemini-photo-edit/internal/cli"
	"github.com/fpang/gemini-photo-edit/internal/session"
)

type Command interface {
	Name() string
	Aliases() []string
	Description() string
	Usage() string
	Execute(ctx context.Context, r *REPL, args []string) error
}

// rawArgsCommand receives everything after the command name as one argument,
// so free text keeps its quotes and apostrophes.
type rawArgsCommand interface {
	RawArgs() bool
}

func (r *REPL) registerCommands() {
	commands := []Command{
		&OpenCommand{},
		&PromptCommand{},
		&SubmitCommand{},
		&StatusCommand{},
		&DiscardCommand{},
		&ResetCommand{},
		&SaveCommand{},
		&HelpCommand{},
		&QuitCommand{},
	}

	for _, cmd := range commands {
		r.commands[cmd.Name()] = cmd
		for _, alias := range cmd.Aliases() {
			r.commands[alias] = cmd
		}
	}
}

// OpenCommand loads the source image
type OpenCommand struct{}

func (c *OpenCommand) Name() string        { return "open" }
func (c *OpenCommand) Aliases() []string   { return []string{"load", "o"} }
func (c *OpenCommand) Description() string { return "Load a photo (file picker when no path is given)" }
func (c *OpenCommand) Usage() string       { return "open [path|s3://bucket/key]" }

func (c *OpenCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	var path string
	if len(args) > 0 {
		path = strings.Join(args, " ")
	} else {
		picked, err := r.pick()
		if errors.Is(err, cli.ErrPickCanceled) {
			fmt.Fprintln(r.out, "No file selected.")
			return nil
		}
		if err != nil {
			return err
		}
		path = picked
	}

	file, err := cli.LoadSource(ctx, path, r.s3)
	if err != nil {
		return err
	}
	if err := r.controller.LoadImageFile(file); err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Loaded %s (%s, %s, %s)\n", file.Name(), file.MIMEType, file.Dimensions(), cli.FormatBytes(len(file.Data)))
	if file.Metadata != nil {
		if summary := file.Metadata.Summary(); summary != "" {
			fmt.Fprintf(r.out, "  %s\n", summary)
		}
	}
	return nil
}

// PromptCommand sets the edit instruction
type PromptCommand struct{}

func (c *PromptCommand) Name() string        { return "prompt" }
func (c *PromptCommand) Aliases() []string   { return []string{"p", "instruct"} }
func (c *PromptCommand) Description() string { return "Set the edit instruction" }
func (c *PromptCommand) Usage() string       { return "prompt <instruction>" }
func (c *PromptCommand) RawArgs() bool       { return true }

func (c *PromptCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	r.controller.SetInstruction(args[0])
	fmt.Fprintln(r.out, "Instruction set.")
	return nil
}

// SubmitCommand sends the image and instruction and waits for the outcome
type SubmitCommand struct{}

func (c *SubmitCommand) Name() string        { return "submit" }
func (c *SubmitCommand) Aliases() []string   { return []string{"edit", "go"} }
func (c *SubmitCommand) Description() string { return "Send the edit and wait for the result" }
func (c *SubmitCommand) Usage() string       { return "submit [instruction]" }
func (c *SubmitCommand) RawArgs() bool       { return true }

func (c *SubmitCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	if len(args) > 0 {
		r.controller.SetInstruction(args[0])
	}

	sub, err := r.controller.Submit(ctx)
	if errors.Is(err, session.ErrEmptySubmission) {
		fmt.Fprintln(r.out, "Nothing to submit: load an image with 'open' and set an instruction with 'prompt'.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Editing with %s...\n", r.model)
	start := time.Now()

	select {
	case <-sub.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	switch out := sub.Wait().(type) {
	case *chat.Image:
		fmt.Fprintf(r.out, "Edit complete in %s: %s. Use 'save' to keep it.\n",
			cli.FormatDurationShort(time.Since(start)), cli.FormatBytes(len(out.Data)))
	case *chat.Failure:
		fmt.Fprintf(r.out, "Edit failed: %s\n", out.Reason)
	}
	return nil
}

// StatusCommand shows the session
type StatusCommand struct{}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Aliases() []string   { return []string{"show", "s"} }
func (c *StatusCommand) Description() string { return "Show the current session" }
func (c *StatusCommand) Usage() string       { return "status" }

func (c *StatusCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	RenderStatus(r.out, r.controller.Snapshot())
	return nil
}

// DiscardCommand drops the edited image
type DiscardCommand struct{}

func (c *DiscardCommand) Name() string        { return "discard" }
func (c *DiscardCommand) Aliases() []string   { return []string{"drop"} }
func (c *DiscardCommand) Description() string { return "Discard the edited image" }
func (c *DiscardCommand) Usage() string       { return "discard" }

func (c *DiscardCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	r.controller.DiscardResult()
	fmt.Fprintln(r.out, "Result discarded.")
	return nil
}

// ResetCommand clears the session
type ResetCommand struct{}

func (c *ResetCommand) Name() string        { return "reset" }
func (c *ResetCommand) Aliases() []string   { return []string{"clear", "new"} }
func (c *ResetCommand) Description() string { return "Clear the photo, instruction and result" }
func (c *ResetCommand) Usage() string       { return "reset" }

func (c *ResetCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	r.controller.Reset()
	fmt.Fprintln(r.out, "Session reset.")
	return nil
}

// SaveCommand writes the edited image to disk or S3
type SaveCommand struct{}

func (c *SaveCommand) Name() string        { return "save" }
func (c *SaveCommand) Aliases() []string   { return []string{"w", "export"} }
func (c *SaveCommand) Description() string { return "Save the edited image" }
func (c *SaveCommand) Usage() string       { return "save [path|s3://bucket/key]" }

func (c *SaveCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	snap := r.controller.Snapshot()
	if snap.Result == nil {
		return errors.New("no edited image to save")
	}

	dest, shareURL, err := cli.SaveResult(ctx, snap.Result, strings.Join(args, " "), r.outputDir, snap.SourceName, r.s3)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Saved to %s\n", dest)
	if shareURL != "" {
		fmt.Fprintf(r.out, "Share link: %s\n", shareURL)
	}
	return nil
}

// HelpCommand shows available commands
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Aliases() []string   { return []string{"h", "?"} }
func (c *HelpCommand) Description() string { return "Show available commands" }
func (c *HelpCommand) Usage() string       { return "help" }

func (c *HelpCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range r.commands {
		if !seen[cmd.Name()] {
			seen[cmd.Name()] = true
			names = append(names, cmd.Name())
		}
	}
	sort.Strings(names)

	fmt.Fprintln(r.out, "Commands:")
	for _, name := range names {
		cmd := r.commands[name]
		fmt.Fprintf(r.out, "  %-32s %s\n", cmd.Usage(), cmd.Description())
	}
	return nil
}

// QuitCommand exits the shell
type QuitCommand struct{}

func (c *QuitCommand) Name() string        { return "quit" }
func (c *QuitCommand) Aliases() []string   { return []string{"exit", "q"} }
func (c *QuitCommand) Description() string { return "Exit" }
func (c *QuitCommand) Usage() string       { return "quit" }

func (c *QuitCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	r.Stop()
	return nil
}
