package pipeline

import "fmt"

// Stage identifiers used in StageError and telemetry.
const (
	StageExtract   = "extract"
	StageAnalysis  = "analysis"
	StageJobSearch = "job_search"
)

// StageError marks a fatal pipeline failure with the stage that caused it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
