package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jobfinder-backend/internal/extract"
	"jobfinder-backend/internal/jobsearch"
	"jobfinder-backend/internal/llm"
	"jobfinder-backend/internal/shared/telemetry"
)

const (
	analysisMaxTokens = 300
	keywordMaxTokens  = 100

	// maxResults bounds passed down to the job-search service.
	minJobResults     = 5
	maxJobResults     = 50
	defaultJobResults = 20
)

// ExtractFunc converts document bytes with a declared media type into plain
// text.
type ExtractFunc func(ctx context.Context, data []byte, mimeType string) (string, error)

// Runner sequences the pipeline stages: extract, analyze, derive a search
// term, search jobs. Extraction and analysis failures are fatal; an empty
// search term or a job-search failure degrades to zero listings.
type Runner struct {
	LLM      llm.Client
	Searcher jobsearch.Searcher

	// Extract overrides the document extractor; defaults to extract.Text.
	Extract ExtractFunc

	// DefaultLocation is used when the caller supplies none.
	DefaultLocation string
}

// Run executes the full pipeline for one document and assembles the result.
func (r *Runner) Run(ctx context.Context, doc Document, location string, maxResults int) (*Result, error) {
	runID := uuid.NewString()
	if strings.TrimSpace(location) == "" {
		location = r.DefaultLocation
	}
	maxResults = clampResults(maxResults)

	telemetry.Info("pipeline.start", map[string]any{
		"run_id":      runID,
		"size_bytes":  len(doc.Data),
		"location":    location,
		"max_results": maxResults,
	})

	extractText := r.Extract
	if extractText == nil {
		extractText = extract.Text
	}
	text, err := extractText(ctx, doc.Data, doc.MimeType)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}

	analysis, err := r.analyze(ctx, text)
	if err != nil {
		return nil, &StageError{Stage: StageAnalysis, Err: err}
	}

	term := r.deriveSearchTerm(ctx, runID, text)
	jobs := r.searchJobs(ctx, runID, term, location, maxResults)

	telemetry.Info("pipeline.complete", map[string]any{
		"run_id":      runID,
		"search_term": term,
		"total_jobs":  len(jobs),
	})

	return &Result{
		Analysis: analysis,
		JobSearch: JobSearch{
			SearchTerms: term,
			Jobs:        jobs,
			TotalJobs:   len(jobs),
		},
	}, nil
}

// analyze issues the three fixed expert queries concurrently and joins the
// results. The three calls are independent; any single failure fails the
// whole stage, carrying the name of the failed sub-call.
func (r *Runner) analyze(ctx context.Context, text string) (Analysis, error) {
	var analysis Analysis

	parts := []struct {
		name        string
		instruction string
		dst         *string
	}{
		{"summary", llm.PromptSummary, &analysis.Summary},
		{"skills_gap", llm.PromptSkillsGap, &analysis.SkillsGap},
		{"future_roadmap", llm.PromptFutureRoadmap, &analysis.FutureRoadmap},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, part := range parts {
		part := part
		g.Go(func() error {
			answer, err := r.LLM.Ask(gctx, part.instruction, text, analysisMaxTokens)
			if err != nil {
				return fmt.Errorf("%s: %w", part.name, err)
			}
			*part.dst = answer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Analysis{}, err
	}
	return analysis, nil
}

// deriveSearchTerm asks for a compact job-search term and post-processes the
// answer: trim, keep the first non-empty line, strip embedded newlines. A
// failure or empty answer yields an empty term, which is not fatal.
func (r *Runner) deriveSearchTerm(ctx context.Context, runID, text string) string {
	raw, err := r.LLM.Ask(ctx, llm.PromptJobKeywords, text, keywordMaxTokens)
	if err != nil {
		telemetry.Warn("pipeline.keywords.failed", map[string]any{
			"run_id": runID,
			"error":  err.Error(),
		})
		return ""
	}
	return NormalizeSearchTerm(raw)
}

// NormalizeSearchTerm applies the declared post-processing contract to a raw
// expert answer: trim surrounding whitespace, take the first non-empty line,
// strip any embedded newlines.
func NormalizeSearchTerm(raw string) string {
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// searchJobs is the one place failure is deliberately swallowed: job search is
// a best-effort enhancement, so any searcher error degrades to zero listings.
func (r *Runner) searchJobs(ctx context.Context, runID, term, location string, maxResults int) []jobsearch.Listing {
	if term == "" {
		telemetry.Info("pipeline.jobsearch.skipped", map[string]any{
			"run_id": runID,
			"reason": "empty search term",
		})
		return []jobsearch.Listing{}
	}
	if r.Searcher == nil {
		telemetry.Warn("pipeline.jobsearch.skipped", map[string]any{
			"run_id": runID,
			"reason": "job search not configured",
		})
		return []jobsearch.Listing{}
	}

	listings, err := r.Searcher.Search(ctx, term, location, maxResults)
	if err != nil {
		telemetry.Warn("pipeline.jobsearch.failed", map[string]any{
			"run_id":      runID,
			"search_term": term,
			"error":       err.Error(),
		})
		return []jobsearch.Listing{}
	}
	if listings == nil {
		listings = []jobsearch.Listing{}
	}
	return listings
}

func clampResults(n int) int {
	switch {
	case n <= 0:
		return defaultJobResults
	case n < minJobResults:
		return minJobResults
	case n > maxJobResults:
		return maxJobResults
	default:
		return n
	}
}
