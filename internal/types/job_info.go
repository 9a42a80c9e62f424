// Package types provides type definitions for structured data used throughout the cv-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Placeholder values used when job extraction fails. Downstream stages must
// be able to proceed on these rather than aborting the pipeline.
const (
	UnknownTitle       = "Unknown Position"
	UnknownCompany     = "Unknown Company"
	UnknownDescription = "Unknown Job Description"
)

// JobInfo is the normalized record produced by the job extractor.
// It is immutable once produced.
type JobInfo struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	// Err records why extraction degraded to placeholder values, if it did.
	Err string `json:"error,omitempty"`
}

// IsPlaceholder reports whether this record carries the extraction-failure
// placeholders instead of real job data.
func (j *JobInfo) IsPlaceholder() bool {
	return j.Title == UnknownTitle && j.Company == UnknownCompany
}
