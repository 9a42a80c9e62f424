// Package pipeline orchestrates the application generation process: one run
// per job URL, moving through extraction, retrieval, generation, honesty
// checking, rendering, and output assembly.
package pipeline

import (
	"time"

	"github.com/jonathan/cv-agent/internal/generation"
	"github.com/jonathan/cv-agent/internal/types"
)

// Status tracks how far a run has progressed. Status is latest-wins; the
// run's history lives in Errors and timestamps, not in the status value.
type Status string

const (
	StatusStarting             Status = "starting"
	StatusJobExtracted         Status = "job_extracted"
	StatusContextRetrieved     Status = "context_retrieved"
	StatusCVGenerated          Status = "cv_generated"
	StatusCoverLetterGenerated Status = "cover_letter_generated"
	StatusCompleted            Status = "completed"
	StatusCompletedWithErrors  Status = "completed_with_errors"
)

// Stage names used in error attribution and artifact persistence.
const (
	StageExtraction  = "job_extraction"
	StageTranslation = "translation"
	StageRetrieval   = "context_retrieval"
	StageCV          = "cv_generation"
	StageLetter      = "cover_letter_generation"
	StageRendering   = "rendering"
	StageOutput      = "output_assembly"
	StagePersistence = "persistence"
)

// StageError attributes a non-fatal failure to the stage that produced it.
type StageError struct {
	Stage   string    `json:"stage"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// State is one run's accumulated result. Errors is append-only: stages
// record failures and keep going wherever a degraded result is usable.
type State struct {
	RunID     string    `json:"run_id"`
	URL       string    `json:"url"`
	Status    Status    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`

	Job      types.JobInfo        `json:"job"`
	Bundle   *types.ContextBundle `json:"context,omitempty"`
	CV       *types.CVDocument    `json:"cv,omitempty"`
	Letter   *types.CoverLetter   `json:"cover_letter,omitempty"`
	Findings []generation.Finding `json:"honesty_findings,omitempty"`

	OutputDir string       `json:"output_dir,omitempty"`
	Errors    []StageError `json:"errors,omitempty"`
}

// RecordError appends a stage failure without changing the run status.
func (s *State) RecordError(stage string, err error) {
	if err == nil {
		return
	}
	s.Errors = append(s.Errors, StageError{
		Stage:   stage,
		Message: err.Error(),
		At:      time.Now().UTC(),
	})
}

// Advance moves the run to the next status.
func (s *State) Advance(status Status) {
	s.Status = status
}

// Finish sets the terminal status: completed, or completed_with_errors when
// any stage recorded a failure.
func (s *State) Finish() {
	s.EndedAt = time.Now().UTC()
	if len(s.Errors) > 0 {
		s.Status = StatusCompletedWithErrors
		return
	}
	s.Status = StatusCompleted
}
