// Package ocr counts recognizable words in a picture using Tesseract.
//
// The extractor uses it as a review hint, not a filter: a profile picture
// candidate that contains many words is probably a block of résumé text that
// happened to score well, while a real photograph contains few or none. The
// count is reported alongside each result and never changes which region is
// selected.
//
// # Prerequisites
//
// Tesseract and the language data for the configured language must be
// installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// TESSDATA_PREFIX is honoured by Tesseract itself when the data lives in a
// non-standard location.
//
// # Concurrency
//
// A Tesseract client is not safe for concurrent use, so WordCounter opens a
// fresh client per call. One WordCounter can be shared across workers.
//
// # Error Handling
//
// CountWords returns an error when the image cannot be encoded or Tesseract
// cannot be initialized for the language. Callers treat a failed probe as
// "no hint" and keep the extraction result.
package ocr
