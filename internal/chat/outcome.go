package chat

import (
	"encoding/base64"
	"fmt"
)

// Outcome is the result of one EditImage call: either an *Image or a *Failure.
type Outcome interface {
	outcome()
}

// Image is an encoded image payload with its media type.
type Image struct {
	Data     []byte
	MIMEType string
}

func (*Image) outcome() {}

// DataURL returns the image as a self-describing data URL, suitable for
// display layers and as an EditRequest payload.
func (i *Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MIMEType, base64.StdEncoding.EncodeToString(i.Data))
}

// FailureKind categorizes why an edit produced no image.
type FailureKind int

const (
	// FailureService covers transport, authentication and unexpected responses.
	FailureService FailureKind = iota
	// FailureServiceRefusal means the model answered with text instead of an image.
	FailureServiceRefusal
	// FailureInvalidInput means the request payload could not be normalized.
	FailureInvalidInput
)

func (k FailureKind) String() string {
	switch k {
	case FailureServiceRefusal:
		return "service_refusal"
	case FailureInvalidInput:
		return "invalid_input"
	default:
		return "service_failure"
	}
}

// Failure carries a human-readable reason an edit failed.
type Failure struct {
	Reason string
	Kind   FailureKind
}

func (*Failure) outcome() {}

func (f *Failure) Error() string {
	return f.Reason
}
