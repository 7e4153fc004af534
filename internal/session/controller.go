// Package session holds the state of one photo edit: the source image, the
// instruction, and the outcome of the most recent submission. A Controller is
// the only writer of that state; render layers read it through Snapshot.
//
// Phases:
//
//	Idle --Submit--> Pending --image--> Succeeded
//	                         --failure--> Failed
//	Succeeded|Failed --Submit--> Pending
//	any --Reset--> Idle
package session

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"sync"

	"github.com/fpang/gemini-photo-edit/internal/chat"
	"github.com/fpang/gemini-photo-edit/internal/filehandler"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Editor performs one image edit and always returns an outcome.
// *chat.GeminiImageClient satisfies it.
type Editor interface {
	EditImage(ctx context.Context, req chat.EditRequest) chat.Outcome
}

// Controller owns a single edit session. It is safe for concurrent use; at
// most one submission is in flight at a time.
type Controller struct {
	editor Editor

	mu          sync.Mutex
	source      *chat.Image
	sourceName  string
	instruction string
	state       state
}

// New returns a Controller in the Idle phase with no image loaded.
func New(editor Editor) *Controller {
	return &Controller{
		editor: editor,
		state:  idle{},
	}
}

// LoadImage sets the source image. mediaType must be an image type; otherwise
// ErrInvalidInput is returned and the session is left as it was. A successful
// load clears any result or error and returns the session to Idle, abandoning
// an in-flight submission.
func (c *Controller) LoadImage(data []byte, mediaType string) error {
	return c.loadImage(data, mediaType, "")
}

// LoadImageFile sets the source image from a file read by filehandler.
func (c *Controller) LoadImageFile(f *filehandler.ImageFile) error {
	return c.loadImage(f.Data, f.MIMEType, f.Name())
}

func (c *Controller) loadImage(data []byte, mediaType, name string) error {
	if !filehandler.IsImageMIME(mediaType) {
		return fmt.Errorf("%w: declared type %q", ErrInvalidInput, mediaType)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	parsed, _, _ := mime.ParseMediaType(mediaType)

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.state.(pending); ok {
		log.Debug().Str("submission", p.submissionID).Msg("New image loaded, abandoning pending edit")
	}
	c.source = &chat.Image{Data: data, MIMEType: parsed}
	c.sourceName = name
	c.state = idle{}

	log.Debug().
		Str("name", name).
		Str("mime_type", parsed).
		Int("size_bytes", len(data)).
		Msg("Source image loaded")
	return nil
}

// SetInstruction stores the edit instruction verbatim.
func (c *Controller) SetInstruction(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instruction = text
}

// Submit sends the source image and instruction to the editor. It returns
// ErrSubmissionInFlight while Pending and ErrEmptySubmission when there is no
// image or the instruction is blank; in both cases nothing changes. Otherwise
// the session moves to Pending, prior result and error are dropped, and the
// returned Submission completes once the outcome has been applied.
func (c *Controller) Submit(ctx context.Context) (*Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.state.(pending); busy {
		return nil, ErrSubmissionInFlight
	}
	if c.source == nil || strings.TrimSpace(c.instruction) == "" {
		return nil, ErrEmptySubmission
	}

	sub := newSubmission(uuid.NewString())
	req := chat.EditRequest{
		Payload:     c.source.DataURL(),
		MIMEType:    c.source.MIMEType,
		Instruction: c.instruction,
	}
	c.state = pending{submissionID: sub.ID}

	log.Info().
		Str("submission", sub.ID).
		Str("instruction", req.Instruction).
		Msg("Edit submitted")

	go c.run(ctx, sub, req)
	return sub, nil
}

func (c *Controller) run(ctx context.Context, sub *Submission, req chat.EditRequest) {
	out := c.edit(ctx, sub.ID, req)

	c.mu.Lock()
	applied := c.apply(sub.ID, out)
	c.mu.Unlock()

	sub.complete(out, applied)
}

// edit calls the editor, turning a nil outcome or a panic into a failure.
func (c *Controller) edit(ctx context.Context, id string, req chat.EditRequest) (out chat.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("submission", id).Interface("panic", r).Msg("Editor panicked")
			out = &chat.Failure{Reason: chat.ReasonGeneric, Kind: chat.FailureService}
		}
	}()

	out = c.editor.EditImage(ctx, req)
	if out == nil {
		out = &chat.Failure{Reason: chat.ReasonGeneric, Kind: chat.FailureService}
	}
	return out
}

// apply stores out if submission id is still the pending one. Caller holds c.mu.
func (c *Controller) apply(id string, out chat.Outcome) bool {
	p, ok := c.state.(pending)
	if !ok || p.submissionID != id {
		log.Debug().Str("submission", id).Msg("Discarding outcome of abandoned submission")
		return false
	}

	switch o := out.(type) {
	case *chat.Image:
		c.state = succeeded{result: o}
		log.Info().Str("submission", id).Int("output_bytes", len(o.Data)).Msg("Edit succeeded")
	case *chat.Failure:
		c.state = failed{message: o.Reason}
		log.Warn().Str("submission", id).Str("reason", o.Reason).Msg("Edit failed")
	}
	return true
}

// Reset clears the session back to a freshly constructed one. Any in-flight
// submission is abandoned and its outcome discarded on arrival.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.source = nil
	c.sourceName = ""
	c.instruction = ""
	c.state = idle{}
}

// DiscardResult drops the generated image, keeping the source image,
// instruction and phase.
func (c *Controller) DiscardResult() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.state.(succeeded); ok {
		c.state = succeeded{}
	}
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Phase:       c.state.phase(),
		Source:      c.source,
		SourceName:  c.sourceName,
		Instruction: c.instruction,
	}
	switch st := c.state.(type) {
	case pending:
		s.SubmissionID = st.submissionID
	case succeeded:
		s.Result = st.result
	case failed:
		s.ErrorMessage = st.message
	}
	return s
}
