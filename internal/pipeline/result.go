package pipeline

import (
	"time"
)

// Result is the outcome of processing one record.
type Result struct {
	ResumeID string `json:"resume_id"`
	Filename string `json:"filename"`
	Success  bool   `json:"success"`

	// FullPageImage and ProfilePicture are relative to the project root.
	FullPageImage  string `json:"full_page_image,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`

	// Region is the candidate written as the profile picture; Score is the
	// best candidate score. Fallback is set when no candidate was accepted.
	Region   string   `json:"region,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Fallback bool     `json:"fallback,omitempty"`

	// TextWords is the word count of the profile picture, when probed.
	TextWords *int `json:"text_words,omitempty"`

	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Batch aggregates the results of one run.
type Batch struct {
	Results   []Result
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Successes returns the successful results in order.
func (b *Batch) Successes() []Result {
	return b.filter(true)
}

// Failures returns the failed results in order.
func (b *Batch) Failures() []Result {
	return b.filter(false)
}

func (b *Batch) filter(success bool) []Result {
	var out []Result
	for _, r := range b.Results {
		if r.Success == success {
			out = append(out, r)
		}
	}
	return out
}
