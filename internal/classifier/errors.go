package classifier

import "fmt"

// artifactMissingError signals that no model artifact exists at the
// resolved path (file absent, or directory absent/empty). It is the only
// load failure a fallback policy is allowed to absorb.
type artifactMissingError struct{ path string }

func (e artifactMissingError) Error() string { return "model artifact not found: " + e.path }

// ErrArtifactMissing constructs an artifactMissingError.
func ErrArtifactMissing(path string) error { return artifactMissingError{path: path} }

// IsArtifactMissing reports whether err indicates a missing model artifact.
func IsArtifactMissing(err error) bool {
	_, ok := err.(artifactMissingError)
	return ok
}

// modelUnavailableError signals that the model handle could not be
// populated (load failed or was never attempted successfully). Maps to 500
// and is sticky: request processing never retries the load.
type modelUnavailableError struct{ cause error }

func (e modelUnavailableError) Error() string { return fmt.Sprintf("model unavailable: %v", e.cause) }
func (e modelUnavailableError) Unwrap() error { return e.cause }

// ErrModelUnavailable wraps a load failure.
func ErrModelUnavailable(cause error) error { return modelUnavailableError{cause: cause} }

// IsModelUnavailable reports whether err indicates an unloadable model.
func IsModelUnavailable(err error) bool {
	_, ok := err.(modelUnavailableError)
	return ok
}

// inferenceError signals a runtime failure inside the model (shape
// mismatch, session failure). Maps to 500; never swallowed, never replaced
// by a placeholder prediction.
type inferenceError struct{ cause error }

func (e inferenceError) Error() string { return fmt.Sprintf("inference failed: %v", e.cause) }
func (e inferenceError) Unwrap() error { return e.cause }

// ErrInference wraps a runtime inference failure.
func ErrInference(cause error) error { return inferenceError{cause: cause} }

// IsInference reports whether err indicates a runtime inference failure.
func IsInference(err error) bool {
	_, ok := err.(inferenceError)
	return ok
}
