package session

import (
	"strings"

	"github.com/fpang/gemini-photo-edit/internal/chat"
)

// Submission is the handle for one in-flight edit.
type Submission struct {
	ID string

	done    chan struct{}
	outcome chat.Outcome
	applied bool
}

func newSubmission(id string) *Submission {
	return &Submission{ID: id, done: make(chan struct{})}
}

func (s *Submission) complete(out chat.Outcome, applied bool) {
	s.outcome = out
	s.applied = applied
	close(s.done)
}

// Done is closed once the outcome has been received and, if still current, applied.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the submission completes and returns its outcome.
func (s *Submission) Wait() chat.Outcome {
	<-s.done
	return s.outcome
}

// Applied reports whether the outcome was stored in the session. It is false
// when the session was reset or given a new image while the edit was running.
// Only meaningful after Done is closed.
func (s *Submission) Applied() bool {
	<-s.done
	return s.applied
}

// Snapshot is a point-in-time view of a session for rendering. The image
// slices are shared with the session and must not be modified.
type Snapshot struct {
	Phase        Phase
	Source       *chat.Image
	SourceName   string
	Instruction  string
	Result       *chat.Image
	ErrorMessage string
	// SubmissionID is set while Pending.
	SubmissionID string
}

// CanSubmit reports whether Submit would start a new edit.
func (s Snapshot) CanSubmit() bool {
	return s.Phase != PhasePending && s.Source != nil && strings.TrimSpace(s.Instruction) != ""
}
