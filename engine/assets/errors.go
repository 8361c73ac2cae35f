package assets

import "fmt"

// Load steps reported in LoadError.Step.
const (
	StepResolve  = "resolve"
	StepAtlas    = "atlas"
	StepTexture  = "texture"
	StepSkeleton = "skeleton"
	StepRead     = "read"
)

// LoadError describes the first step of a background load that failed.
type LoadError struct {
	Path string
	Step string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadError(path, step string, err error) *LoadError {
	return &LoadError{Path: path, Step: step, Err: err}
}
