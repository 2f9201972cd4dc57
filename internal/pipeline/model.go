package pipeline

import "jobfinder-backend/internal/jobsearch"

// Document is the résumé payload handed in at request ingress: raw bytes plus
// the declared media type. It is never mutated and is discarded after
// extraction.
type Document struct {
	Data     []byte
	MimeType string
}

// Analysis holds the three independent expert answers. Either all three are
// populated or the run fails; a partial analysis is never returned.
type Analysis struct {
	Summary       string `json:"summary"`
	SkillsGap     string `json:"skills_gap"`
	FutureRoadmap string `json:"future_roadmap"`
}

// JobSearch holds the derived search term and the normalized listings.
type JobSearch struct {
	SearchTerms string              `json:"search_terms"`
	Jobs        []jobsearch.Listing `json:"jobs"`
	TotalJobs   int                 `json:"total_jobs"`
}

// Result is the single artifact a pipeline run produces.
type Result struct {
	Analysis  Analysis  `json:"analysis"`
	JobSearch JobSearch `json:"job_search"`
}
