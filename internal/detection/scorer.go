package detection

import (
	"errors"
	"fmt"
	"image"

	imgutil "github.com/ironsheep/profile-picture-extractor/internal/imaging"
)

// ErrNoCandidates is returned by Select when the layout yields no regions.
var ErrNoCandidates = errors.New("layout produced no candidate regions")

// Weights are the score contributions of the three heuristic terms.
type Weights struct {
	Size   float64 `yaml:"size" json:"size"`
	Aspect float64 `yaml:"aspect" json:"aspect"`
	Edge   float64 `yaml:"edge" json:"edge"`
}

// Criteria holds the thresholds the scorer tests each crop against.
type Criteria struct {
	// MinSize and MaxSize bound the shorter side of the crop, in pixels.
	MinSize int
	MaxSize int

	// AspectMin and AspectMax bound width/height.
	AspectMin float64
	AspectMax float64

	// EdgeMin and EdgeMax bound the mean find-edges intensity (0-255).
	EdgeMin float64
	EdgeMax float64

	Weights Weights

	// AcceptThreshold is the score the best candidate must exceed to be
	// accepted instead of falling back to the top-right region.
	AcceptThreshold float64
}

// DefaultCriteria returns the standard thresholds: shorter side 100-800px,
// aspect 1.0 +/- 0.3, edge mean 20-80, weights 0.3/0.4/0.3, threshold 0.3.
func DefaultCriteria() Criteria {
	return Criteria{
		MinSize:         100,
		MaxSize:         800,
		AspectMin:       0.7,
		AspectMax:       1.3,
		EdgeMin:         20,
		EdgeMax:         80,
		Weights:         Weights{Size: 0.3, Aspect: 0.4, Edge: 0.3},
		AcceptThreshold: 0.3,
	}
}

// Validate reports thresholds that could never be satisfied.
func (c Criteria) Validate() error {
	switch {
	case c.MinSize < 0 || c.MaxSize < c.MinSize:
		return fmt.Errorf("size range [%d, %d] is invalid", c.MinSize, c.MaxSize)
	case c.AspectMin <= 0 || c.AspectMax < c.AspectMin:
		return fmt.Errorf("aspect range [%g, %g] is invalid", c.AspectMin, c.AspectMax)
	case c.EdgeMin < 0 || c.EdgeMax < c.EdgeMin:
		return fmt.Errorf("edge range [%g, %g] is invalid", c.EdgeMin, c.EdgeMax)
	case c.Weights.Size < 0 || c.Weights.Aspect < 0 || c.Weights.Edge < 0:
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	case c.AcceptThreshold < 0:
		return fmt.Errorf("accept threshold must be non-negative, got %g", c.AcceptThreshold)
	}
	return nil
}

// Breakdown records the measurements behind a score.
type Breakdown struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	AspectRatio   float64 `json:"aspect_ratio"`
	EdgeIntensity float64 `json:"edge_intensity"`
	SizeOK        bool    `json:"size_ok"`
	AspectOK      bool    `json:"aspect_ok"`
	EdgeOK        bool    `json:"edge_ok"`
	Score         float64 `json:"score"`
}

// ScoredCrop is one evaluated candidate.
type ScoredCrop struct {
	Region    CandidateRegion
	Score     float64
	Breakdown Breakdown

	// Err is set when the candidate could not be cropped or scored. Its
	// Score is then 0.
	Err error
}

// Selection is the outcome of Select for one page.
type Selection struct {
	// Region is the chosen candidate, or the top-right region on fallback.
	Region CandidateRegion

	// Crop holds the pixels of Region.
	Crop *image.NRGBA

	// Score is the score of the best candidate, even on fallback.
	Score float64

	// Accepted is false when no candidate exceeded the threshold and Crop
	// is the fallback.
	Accepted bool

	// Candidates lists every evaluated candidate in layout order.
	Candidates []ScoredCrop
}

// Scorer evaluates candidate regions of rendered pages.
type Scorer struct {
	layout   Layout
	criteria Criteria
}

// NewScorer creates a scorer from a layout and criteria. Both are copied.
func NewScorer(layout Layout, criteria Criteria) *Scorer {
	return &Scorer{layout: layout, criteria: criteria}
}

// Layout returns the scorer's candidate layout.
func (s *Scorer) Layout() Layout { return s.layout }

// Criteria returns the scorer's thresholds.
func (s *Scorer) Criteria() Criteria { return s.criteria }

// Score returns the heuristic score of a crop.
func (s *Scorer) Score(img image.Image) float64 {
	return s.Analyze(img).Score
}

// Analyze measures a crop and awards each term whose test passes.
//
// An empty image has aspect ratio 0 and fails every term.
func (s *Scorer) Analyze(img image.Image) Breakdown {
	c := s.criteria
	b := img.Bounds()
	bd := Breakdown{Width: b.Dx(), Height: b.Dy()}
	if bd.Width == 0 || bd.Height == 0 {
		return bd
	}

	shorter := min(bd.Width, bd.Height)
	bd.SizeOK = shorter >= c.MinSize && shorter <= c.MaxSize

	bd.AspectRatio = float64(bd.Width) / float64(bd.Height)
	bd.AspectOK = bd.AspectRatio >= c.AspectMin && bd.AspectRatio <= c.AspectMax

	bd.EdgeIntensity = imgutil.EdgeIntensity(img)
	bd.EdgeOK = bd.EdgeIntensity >= c.EdgeMin && bd.EdgeIntensity <= c.EdgeMax

	if bd.SizeOK {
		bd.Score += c.Weights.Size
	}
	if bd.AspectOK {
		bd.Score += c.Weights.Aspect
	}
	if bd.EdgeOK {
		bd.Score += c.Weights.Edge
	}
	return bd
}

// Evaluate crops and scores every candidate of page in layout order.
func (s *Scorer) Evaluate(page image.Image) []ScoredCrop {
	b := page.Bounds()
	regions := s.layout.Regions(b.Dx(), b.Dy())

	scored := make([]ScoredCrop, 0, len(regions))
	for _, r := range regions {
		scored = append(scored, s.evaluate(page, r))
	}
	return scored
}

func (s *Scorer) evaluate(page image.Image, r CandidateRegion) (sc ScoredCrop) {
	sc.Region = r
	defer func() {
		if p := recover(); p != nil {
			sc.Score = 0
			sc.Err = fmt.Errorf("scoring %s panicked: %v", r.Name, p)
		}
	}()

	crop, err := imgutil.Crop(page, r.Box)
	if err != nil {
		sc.Err = fmt.Errorf("failed to crop %s: %w", r.Name, err)
		return sc
	}
	sc.Breakdown = s.Analyze(crop)
	sc.Score = sc.Breakdown.Score
	return sc
}

// Select evaluates all candidates and applies the selection policy.
//
// The highest-scoring candidate wins; on a tie the earlier candidate is kept.
// If its score exceeds AcceptThreshold its crop is returned with Accepted set.
// Otherwise the first candidate's crop (top-right) is returned for manual
// review. An error is returned only if the returned crop cannot be produced.
func (s *Scorer) Select(page image.Image) (*Selection, error) {
	candidates := s.Evaluate(page)
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	best := -1
	bestScore := 0.0
	for i, c := range candidates {
		if c.Err == nil && c.Score > bestScore {
			best = i
			bestScore = c.Score
		}
	}

	sel := &Selection{Score: bestScore, Candidates: candidates}
	if best >= 0 && bestScore > s.criteria.AcceptThreshold {
		sel.Region = candidates[best].Region
		sel.Accepted = true
	} else {
		sel.Region = candidates[0].Region
	}

	crop, err := imgutil.Crop(page, sel.Region.Box)
	if err != nil {
		return nil, fmt.Errorf("failed to crop %s: %w", sel.Region.Name, err)
	}
	sel.Crop = crop
	return sel, nil
}
