package repl

import (
	"fmt"
	"io"

	"github.com/fpang/gemini-photo-edit/internal/cli"
	"github.com/fpang/gemini-photo-edit/internal/session"
)

// RenderStatus prints a snapshot. It reads nothing but s.
func RenderStatus(w io.Writer, s session.Snapshot) {
	fmt.Fprintf(w, "Phase:       %s\n", s.Phase)

	if s.Source != nil {
		name := s.SourceName
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(w, "Image:       %s (%s, %s)\n", name, s.Source.MIMEType, cli.FormatBytes(len(s.Source.Data)))
	} else {
		fmt.Fprintln(w, "Image:       none (use 'open')")
	}

	if s.Instruction != "" {
		fmt.Fprintf(w, "Instruction: %s\n", s.Instruction)
	} else {
		fmt.Fprintln(w, "Instruction: none (use 'prompt')")
	}

	switch s.Phase {
	case session.PhasePending:
		fmt.Fprintf(w, "Submission:  %s\n", s.SubmissionID)
	case session.PhaseSucceeded:
		if s.Result != nil {
			fmt.Fprintf(w, "Result:      %s %s (use 'save')\n", s.Result.MIMEType, cli.FormatBytes(len(s.Result.Data)))
		} else {
			fmt.Fprintln(w, "Result:      discarded")
		}
	case session.PhaseFailed:
		fmt.Fprintf(w, "Error:       %s\n", s.ErrorMessage)
	}
}
