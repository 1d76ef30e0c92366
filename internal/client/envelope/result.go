package envelope

import "github.com/sealbid/sealbid/internal/models"

// State distinguishes "not yet loaded" from "loaded" from "failed to
// decrypt"; the UI renders each differently.
type State int

const (
	// StatePending means the envelope has not been fetched or decrypted
	// yet.
	StatePending State = iota
	// StateOk means the plaintext is available.
	StateOk
	// StateFailed means fetching or decryption failed; the data is
	// unavailable but the condition is recoverable.
	StateFailed
)

// Result is the tagged outcome of an offer data read.
type Result struct {
	state State
	data  models.OfferData
	err   error
}

// Pending returns a Result in the pending state.
func Pending() Result {
	return Result{state: StatePending}
}

// Ok returns a successful Result carrying data.
func Ok(data models.OfferData) Result {
	return Result{state: StateOk, data: data}
}

// Failed returns a failed Result carrying err.
func Failed(err error) Result {
	return Result{state: StateFailed, err: err}
}

// State returns the result state.
func (r Result) State() State { return r.state }

// Data returns the plaintext and true when the result is Ok.
func (r Result) Data() (models.OfferData, bool) {
	return r.data, r.state == StateOk
}

// Err returns the failure cause, nil unless the result is Failed.
func (r Result) Err() error { return r.err }
