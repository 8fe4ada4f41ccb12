// Package detection locates the region of a résumé page most likely to hold a
// profile photograph.
//
// Detection is a heuristic over a fixed set of candidate rectangles rather
// than a face detector. A Layout turns page dimensions into three candidate
// regions (top-right, top-left, center-right); a Scorer assigns each candidate
// crop a confidence score and applies the selection policy.
//
// # Scoring
//
// The score is a sum of independent terms, each awarded in full or not at all:
//
//   - Size: the shorter side of the crop lies within [MinSize, MaxSize]
//   - Aspect: width/height lies within [AspectMin, AspectMax]
//   - Edge density: the mean response of a 3x3 find-edges filter over the
//     crop's luminance lies within [EdgeMin, EdgeMax]
//
// With the default weights (0.3, 0.4, 0.3) scores lie in [0, 1]. A blank crop
// has almost no edges and a heavily textured one has too many; only moderate
// structure earns the edge term.
//
// # Selection
//
// Select scores every candidate in layout order and keeps the highest score,
// with ties resolved in favour of the earlier candidate. When the best score
// exceeds AcceptThreshold the candidate is accepted; otherwise the first
// candidate (top-right) is returned as a fallback so that every page still
// yields a crop for manual review.
//
// # Faults
//
// A candidate that cannot be cropped or scored, including one whose analysis
// panics, scores 0 and keeps its error in ScoredCrop.Err. Other candidates are
// still evaluated. Only a failure to produce the fallback crop is returned as
// an error.
//
// # Configuration
//
// Layout and Criteria are plain values passed to NewScorer. A Scorer never
// mutates them and keeps no state between calls, so one Scorer can be shared
// by concurrent workers.
package detection
