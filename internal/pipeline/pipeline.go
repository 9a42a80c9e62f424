package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-agent/internal/db"
	"github.com/jonathan/cv-agent/internal/generation"
	"github.com/jonathan/cv-agent/internal/observability"
	"github.com/jonathan/cv-agent/internal/output"
	"github.com/jonathan/cv-agent/internal/translation"
	"github.com/jonathan/cv-agent/internal/types"
)

// maxConcurrentRuns bounds how many job URLs are processed in parallel.
const maxConcurrentRuns = 3

// Extractor produces a JobInfo for a URL, degrading to placeholders rather
// than failing.
type Extractor interface {
	Extract(ctx context.Context, url string) types.JobInfo
}

// Retriever builds the context bundle for a job.
type Retriever interface {
	Retrieve(ctx context.Context, job types.JobInfo) (*types.ContextBundle, error)
}

// CVGenerator builds the customized CV document.
type CVGenerator interface {
	Generate(ctx context.Context, info *types.PersonalInfo, tmpl *types.CVTemplate, job types.JobInfo, bundle *types.ContextBundle) (*types.CVDocument, error)
}

// LetterGenerator builds the cover letter from the already-tailored CV.
type LetterGenerator interface {
	Generate(ctx context.Context, info *types.PersonalInfo, cv *types.CVDocument, job types.JobInfo, bundle *types.ContextBundle) (*types.CoverLetter, error)
}

// Renderer turns generated documents into PDF bytes.
type Renderer interface {
	RenderCV(ctx context.Context, cv *types.CVDocument, design map[string]string) ([]byte, error)
	RenderLetter(ctx context.Context, letter *types.CoverLetter) ([]byte, error)
}

// FactSource loads the user's verified facts and templates.
type FactSource interface {
	LoadPersonalInfo() (*types.PersonalInfo, error)
	LoadCVTemplate() (*types.CVTemplate, error)
}

// Pipeline wires the stages together. All dependencies are injected; the
// pipeline itself holds no I/O beyond what its components do.
type Pipeline struct {
	Extractor  Extractor
	Translator *translation.Translator
	Retriever  Retriever
	CVGen      CVGenerator
	LetterGen  LetterGenerator
	Renderer   Renderer
	Assembler  *output.Assembler
	Facts      FactSource
	CVPolicy   generation.Policy

	// Optional.
	DB      *db.DB
	Printer *observability.Printer
	Logger  *slog.Logger
}

// Run executes the full pipeline for one job URL. Stage failures are
// recorded on the state and the run continues in degraded mode; only a
// fact store that cannot be loaded at all aborts the run.
func (p *Pipeline) Run(ctx context.Context, url string) (*State, error) {
	logger := p.logger().With("url", url)
	state := &State{
		RunID:     uuid.NewString(),
		URL:       url,
		Status:    StatusStarting,
		StartedAt: time.Now().UTC(),
	}

	info, err := p.Facts.LoadPersonalInfo()
	if err != nil {
		return nil, fmt.Errorf("cannot run without a fact store: %w", err)
	}
	tmpl, err := p.Facts.LoadCVTemplate()
	if err != nil {
		state.RecordError(StageCV, err)
		tmpl = &types.CVTemplate{}
	}

	dbRunID := p.startPersistence(ctx, state, url)

	// Stage: job extraction. Total by construction; a placeholder result
	// still records why it degraded.
	state.Job = p.Extractor.Extract(ctx, url)
	if state.Job.Err != "" {
		state.RecordError(StageExtraction, fmt.Errorf("%s", state.Job.Err))
	}
	state.Advance(StatusJobExtracted)
	logger.Info("job extracted", "company", state.Job.Company, "title", state.Job.Title, "placeholder", state.Job.IsPlaceholder())
	if p.Printer != nil {
		p.Printer.PrintJobInfo(state.Job)
	}
	p.persistArtifact(ctx, dbRunID, string(StatusJobExtracted), state.Job, state)

	// Stage: translation. Generation works in English.
	if p.Translator != nil && !state.Job.IsPlaceholder() {
		translated, terr := p.Translator.ToEnglish(ctx, state.Job.Description)
		if terr != nil {
			state.RecordError(StageTranslation, terr)
		} else {
			state.Job.Description = translated
		}
	}

	// Stage: context retrieval. A retrieval error means the fact store
	// itself is unusable, so generation is skipped entirely; degraded
	// retrieval (Fallback bundle) is not an error and generation proceeds.
	bundle, err := p.Retriever.Retrieve(ctx, state.Job)
	if err != nil {
		state.RecordError(StageRetrieval, err)
		bundle = nil
	}
	state.Bundle = bundle
	state.Advance(StatusContextRetrieved)
	if p.Printer != nil && bundle != nil {
		p.Printer.PrintContextBundle(bundle)
	}

	if bundle != nil {
		honesty := generation.NewHonestyValidator(bundle, p.CVPolicy, p.Logger)

		// Stage: CV generation and honesty check.
		cv, genErr := p.CVGen.Generate(ctx, info, tmpl, state.Job, bundle)
		if genErr != nil {
			state.RecordError(StageCV, genErr)
		} else {
			checked, findings := honesty.ValidateCV(cv)
			state.CV = checked
			state.Findings = append(state.Findings, findings...)
		}
		state.Advance(StatusCVGenerated)
		if p.Printer != nil && state.CV != nil {
			p.Printer.PrintCVSummary(state.CV)
		}
		p.persistArtifact(ctx, dbRunID, string(StatusCVGenerated), state.CV, state)

		// Stage: cover letter generation and honesty check. The letter
		// needs the tailored CV, so a failed CV stage fails this one too.
		letter, genErr := p.LetterGen.Generate(ctx, info, state.CV, state.Job, bundle)
		if genErr != nil {
			state.RecordError(StageLetter, genErr)
		} else {
			checked, findings := honesty.ValidateLetter(letter)
			state.Letter = checked
			state.Findings = append(state.Findings, findings...)
		}
		state.Advance(StatusCoverLetterGenerated)
		if p.Printer != nil {
			p.Printer.PrintHonestyFindings(state.Findings)
		}
		if state.Letter != nil {
			p.persistText(ctx, dbRunID, string(StatusCoverLetterGenerated), state.Letter.Text, state)
		}
	}

	// Stage: rendering.
	var cvPDF, letterPDF []byte
	if state.CV != nil {
		design := map[string]string(nil)
		if tmpl != nil {
			design = tmpl.Design
		}
		if cvPDF, err = p.Renderer.RenderCV(ctx, state.CV, design); err != nil {
			state.RecordError(StageRendering, err)
		}
	}
	if state.Letter != nil {
		if letterPDF, err = p.Renderer.RenderLetter(ctx, state.Letter); err != nil {
			state.RecordError(StageRendering, err)
		}
	}

	// Stage: output assembly. The bundle directory and summary are written
	// even when earlier stages degraded.
	result, err := p.Assembler.Assemble(state.Job, cvPDF, letterPDF)
	if err != nil {
		state.RecordError(StageOutput, err)
	} else {
		state.OutputDir = result.Dir
		if p.Printer != nil {
			p.Printer.PrintOutputLocation(result.Dir)
		}
	}

	state.Finish()
	p.finishPersistence(ctx, dbRunID, state)
	logger.Info("run finished", "status", state.Status, "errors", len(state.Errors), "output", state.OutputDir)
	return state, nil
}

// RunAll processes multiple job URLs concurrently. Per-URL degradation
// stays inside each state; RunAll fails only when a run could not start.
func (p *Pipeline) RunAll(ctx context.Context, urls []string) ([]*State, error) {
	states := make([]*State, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRuns)
	for i, url := range urls {
		g.Go(func() error {
			state, err := p.Run(ctx, url)
			if err != nil {
				return fmt.Errorf("%s: %w", url, err)
			}
			states[i] = state
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return states, err
	}
	return states, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// startPersistence opens a DB run record when persistence is configured.
// Persistence failures never fail the run.
func (p *Pipeline) startPersistence(ctx context.Context, state *State, url string) *uuid.UUID {
	if p.DB == nil {
		return nil
	}
	id, err := p.DB.CreateRun(ctx, url)
	if err != nil {
		state.RecordError(StagePersistence, err)
		return nil
	}
	return &id
}

func (p *Pipeline) persistArtifact(ctx context.Context, runID *uuid.UUID, stage string, content any, state *State) {
	if p.DB == nil || runID == nil || content == nil {
		return
	}
	if err := p.DB.SaveArtifact(ctx, *runID, stage, content); err != nil {
		state.RecordError(StagePersistence, err)
	}
}

// persistText stores a prose artifact, such as the cover letter text, as
// plain text rather than JSON so it stays readable in the database.
func (p *Pipeline) persistText(ctx context.Context, runID *uuid.UUID, stage, text string, state *State) {
	if p.DB == nil || runID == nil {
		return
	}
	if err := p.DB.SaveTextArtifact(ctx, *runID, stage, text); err != nil {
		state.RecordError(StagePersistence, err)
	}
}

func (p *Pipeline) finishPersistence(ctx context.Context, runID *uuid.UUID, state *State) {
	if p.DB == nil || runID == nil {
		return
	}
	err := p.DB.CompleteRun(ctx, *runID, string(state.Status), state.Job.Company, state.Job.Title, state.OutputDir)
	if err != nil {
		state.RecordError(StagePersistence, err)
	}
}
