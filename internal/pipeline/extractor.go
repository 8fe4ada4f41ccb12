package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ironsheep/profile-picture-extractor/internal/catalog"
	"github.com/ironsheep/profile-picture-extractor/internal/detection"
	"github.com/ironsheep/profile-picture-extractor/internal/imaging"
	"github.com/ironsheep/profile-picture-extractor/internal/observability"
	"github.com/ironsheep/profile-picture-extractor/internal/render"
)

// WordCounter counts words in a picture. *ocr.WordCounter implements it.
type WordCounter interface {
	CountWords(img image.Image) (int, error)
}

// Paths are the directories the extractor reads from and writes to.
type Paths struct {
	// ProjectRoot is the base for the relative artifact paths in results.
	ProjectRoot string

	ResumesDir         string
	ProfilePicturesDir string
	PreviewsDir        string

	// DebugDir receives candidate overlays when Config.DebugOverlay is set.
	DebugDir string
}

// Config wires an Extractor.
type Config struct {
	Rasterizer render.Rasterizer
	Scorer     *detection.Scorer
	Enhancer   imaging.Enhancer
	Paths      Paths

	// DPI is the rasterization resolution. Zero means render.DefaultDPI.
	DPI float64

	// Workers bounds concurrent records in Run. Zero means 1.
	Workers int

	// DebugOverlay writes the page with all candidate boxes and scores.
	DebugOverlay bool

	// Words, when set, counts words on every written profile picture.
	Words WordCounter

	// Progress, when set, is called after each record completes.
	Progress func(done, total int, r Result)

	Logger *observability.Logger
}

// Extractor processes catalog records.
type Extractor struct {
	cfg Config
	log *observability.Logger
}

// New validates cfg and returns an Extractor.
func New(cfg Config) (*Extractor, error) {
	if cfg.Rasterizer == nil {
		return nil, errors.New("pipeline: rasterizer is required")
	}
	if cfg.Scorer == nil {
		return nil, errors.New("pipeline: scorer is required")
	}
	if cfg.Paths.ResumesDir == "" || cfg.Paths.ProfilePicturesDir == "" || cfg.Paths.PreviewsDir == "" {
		return nil, errors.New("pipeline: resumes, profile picture and preview directories are required")
	}
	if cfg.DebugOverlay && cfg.Paths.DebugDir == "" {
		return nil, errors.New("pipeline: debug overlay needs a debug directory")
	}
	if cfg.DPI == 0 {
		cfg.DPI = render.DefaultDPI
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	log := cfg.Logger
	if log == nil {
		log = observability.Nop()
	}
	return &Extractor{cfg: cfg, log: log.WithComponent("pipeline")}, nil
}

// artifacts holds what a successful record produced.
type artifacts struct {
	preview   string
	picture   string
	selection *detection.Selection
	words     *int
}

// ProcessRecord runs every stage for one record and always returns a result.
// Panics inside the stages are recovered into an unclassified failure.
func (x *Extractor) ProcessRecord(ctx context.Context, rec catalog.Record) (res Result) {
	log := x.log.WithRecord(rec.ID)

	res = Result{ResumeID: rec.ID, Filename: rec.SourceFilename}
	if res.Filename == "" {
		res.Filename = "unknown"
	}

	defer func() {
		if p := recover(); p != nil {
			res = failed(res, &StageError{Kind: KindUnclassified, Message: fmt.Sprint(p)})
			log.Error().Interface("panic", p).Msg("record processing panicked")
		}
	}()

	log.Info().Str("source", rec.SourceFilename).Msg("processing")

	art, err := x.extract(ctx, rec, log)
	if err != nil {
		res = failed(res, err)
		log.Warn().Err(err).Str("kind", string(res.ErrorKind)).Msg("record failed")
		return res
	}

	score := art.selection.Score
	res.Success = true
	res.FullPageImage = x.relative(art.preview)
	res.ProfilePicture = x.relative(art.picture)
	res.Region = string(art.selection.Region.Name)
	res.Score = &score
	res.Fallback = !art.selection.Accepted
	res.TextWords = art.words
	return res
}

func failed(res Result, err error) Result {
	res.Success = false
	res.FullPageImage = ""
	res.ProfilePicture = ""
	res.ErrorKind, res.Error = classify(err)
	return res
}

func (x *Extractor) extract(ctx context.Context, rec catalog.Record, log *observability.Logger) (*artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdfPath, err := x.resolveSource(rec)
	if err != nil {
		return nil, err
	}

	page, err := x.rasterize(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	dims := imaging.DimensionsOf(page)
	log.Debug().Int("width", dims.Width).Int("height", dims.Height).Msg("page rendered")

	art := &artifacts{
		preview: filepath.Join(x.cfg.Paths.PreviewsDir, rec.ID+".png"),
		picture: filepath.Join(x.cfg.Paths.ProfilePicturesDir, rec.ID+".png"),
	}

	if err := imaging.SavePNG(art.preview, page); err != nil {
		return nil, fmt.Errorf("failed to save preview: %w", err)
	}

	sel, err := x.cfg.Scorer.Select(page)
	if err != nil {
		return nil, fmt.Errorf("failed to select profile region: %w", err)
	}
	art.selection = sel
	for _, c := range sel.Candidates {
		if c.Err != nil {
			log.Debug().Err(c.Err).Str("region", string(c.Region.Name)).Msg("candidate scored 0")
			continue
		}
		log.Debug().
			Str("region", string(c.Region.Name)).
			Float64("score", c.Score).
			Float64("edge_intensity", c.Breakdown.EdgeIntensity).
			Float64("aspect_ratio", c.Breakdown.AspectRatio).
			Msg("candidate scored")
	}

	picture := x.finish(sel, log)
	if err := imaging.SavePNG(art.picture, picture); err != nil {
		return nil, fmt.Errorf("failed to save profile picture: %w", err)
	}

	if sel.Accepted {
		log.Info().Str("region", string(sel.Region.Name)).Float64("score", sel.Score).Msg("extracted profile picture candidate")
	} else {
		log.Info().Float64("best_score", sel.Score).Msg("saved default crop for manual review")
	}

	if x.cfg.DebugOverlay {
		x.writeOverlay(rec.ID, page, sel, log)
	}

	if x.cfg.Words != nil {
		n, err := x.cfg.Words.CountWords(picture)
		if err != nil {
			log.Debug().Err(err).Msg("text probe failed")
		} else {
			art.words = &n
		}
	}

	return art, nil
}

func (x *Extractor) resolveSource(rec catalog.Record) (string, error) {
	if rec.SourceFilename == "" {
		return "", &StageError{Kind: KindMissingSourceName, Message: MsgMissingSourceName}
	}

	path := filepath.Join(x.cfg.Paths.ResumesDir, rec.SourceFilename)
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", &StageError{Kind: KindMissingSourceFile, Message: MsgMissingSourceFile, Err: err}
	case err != nil:
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	case info.IsDir():
		return "", &StageError{Kind: KindMissingSourceFile, Message: MsgMissingSourceFile}
	}
	return path, nil
}

func (x *Extractor) rasterize(ctx context.Context, pdfPath string) (img image.Image, err error) {
	defer func() {
		if p := recover(); p != nil {
			img = nil
			err = &StageError{Kind: KindRasterizationFailure, Message: MsgRasterizationFailure, Err: fmt.Errorf("rasterizer panicked: %v", p)}
		}
	}()

	img, err = x.cfg.Rasterizer.Render(ctx, pdfPath, x.cfg.DPI)
	if err == nil && (img == nil || img.Bounds().Empty()) {
		err = render.ErrNoImage
	}
	if err != nil {
		return nil, &StageError{Kind: KindRasterizationFailure, Message: MsgRasterizationFailure, Err: err}
	}
	return img, nil
}

// finish enhances an accepted crop. The fallback crop is kept raw for manual
// review, and an enhancement fault also keeps the raw crop.
func (x *Extractor) finish(sel *detection.Selection, log *observability.Logger) image.Image {
	if !sel.Accepted {
		return sel.Crop
	}
	out, err := x.cfg.Enhancer.Normalize(sel.Crop)
	if err != nil {
		log.Debug().Err(err).Msg("enhancement failed, keeping raw crop")
		return sel.Crop
	}
	return out
}

var (
	chosenColor, _ = imaging.ParseHexColor("#2ecc71")
	otherColor, _  = imaging.ParseHexColor("#e74c3c")
)

func (x *Extractor) writeOverlay(id string, page image.Image, sel *detection.Selection, log *observability.Logger) {
	outlines := make([]imaging.Outline, 0, len(sel.Candidates))
	for _, c := range sel.Candidates {
		var col color.Color = otherColor
		if c.Region.Name == sel.Region.Name {
			col = chosenColor
		}
		outlines = append(outlines, imaging.Outline{
			Rect:  c.Region.Box,
			Label: fmt.Sprintf("%.2f", c.Score),
			Color: col,
		})
	}

	scale := max(imaging.DimensionsOf(page).Width/400, 1)
	overlay := imaging.Overlay(page, outlines, scale*2, scale*2)
	path := filepath.Join(x.cfg.Paths.DebugDir, id+".png")
	if err := imaging.SavePNG(path, overlay); err != nil {
		log.Warn().Err(err).Msg("failed to save debug overlay")
		return
	}
	log.Debug().Str("path", path).Msg("debug overlay written")
}

// relative returns p relative to the project root, or p unchanged if it is
// not below the root.
func (x *Extractor) relative(p string) string {
	if x.cfg.Paths.ProjectRoot == "" {
		return p
	}
	rel, err := filepath.Rel(x.cfg.Paths.ProjectRoot, p)
	if err != nil || rel == ".." || (len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}
