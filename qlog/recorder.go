package qlog

import (
	"io"

	"github.com/francoispqt/gojay"
)

// Recorder drains a Tracer's events and gojay-encodes each as one line
// of newline-delimited JSON, the structured-logging replacement for
// the plain-text utils.Debugf/Infof/Errorf path (spec.md's ambient
// logging concern, widened to emit machine-readable traces).
type Recorder struct {
	w io.Writer
}

// NewRecorder creates a Recorder writing encoded events to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Run drains events until the channel is closed, returning the first
// encoding error encountered, if any.
func (r *Recorder) Run(events <-chan Event) error {
	enc := gojay.NewEncoder(r.w)
	for e := range events {
		if err := enc.Encode(e); err != nil {
			return err
		}
		if _, err := r.w.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return nil
}
