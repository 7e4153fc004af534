package session

import "github.com/fpang/gemini-photo-edit/internal/chat"

// Phase is the workflow stage of an edit session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// state is the phase plus the payload only that phase may carry. A result
// image can only live in succeeded and an error message only in failed, so
// the two can never coexist and a pending session never holds a stale result.
type state interface {
	phase() Phase
}

type idle struct{}

type pending struct {
	submissionID string
}

type succeeded struct {
	// result is nil after DiscardResult.
	result *chat.Image
}

type failed struct {
	message string
}

func (idle) phase() Phase      { return PhaseIdle }
func (pending) phase() Phase   { return PhasePending }
func (succeeded) phase() Phase { return PhaseSucceeded }
func (failed) phase() Phase    { return PhaseFailed }
