package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/profile-picture-extractor/internal/catalog"
	"github.com/ironsheep/profile-picture-extractor/internal/detection"
	"github.com/ironsheep/profile-picture-extractor/internal/imaging"
)

// portraitPage is a blank 1000x1000 page with a textured square in the
// top-left candidate, which then outscores every other candidate.
func portraitPage() *image.RGBA {
	img := blankPage(1000, 1000)
	for y := 0; y < 400; y++ {
		for x := 0; x < 350; x++ {
			v := uint8(100)
			if (x+y)%2 == 0 {
				v = 125
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func blankPage(w, h int) *image.RGBA {
	return solidPage(w, h, color.White)
}

func solidPage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// fakeRasterizer maps PDF base names to pages, errors or panics.
type fakeRasterizer struct {
	mu     sync.Mutex
	pages  map[string]image.Image
	fail   map[string]error
	panics map[string]bool
	calls  []string
}

func newFakeRasterizer() *fakeRasterizer {
	return &fakeRasterizer{
		pages:  map[string]image.Image{},
		fail:   map[string]error{},
		panics: map[string]bool{},
	}
}

func (f *fakeRasterizer) Render(ctx context.Context, pdfPath string, dpi float64) (image.Image, error) {
	name := filepath.Base(pdfPath)

	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if f.panics[name] {
		panic("corrupt xref table")
	}
	if err, ok := f.fail[name]; ok {
		return nil, err
	}
	if img, ok := f.pages[name]; ok {
		return img, nil
	}
	return nil, nil
}

type fakeCatalog struct {
	records []catalog.Record
	err     error
}

func (c fakeCatalog) Records(ctx context.Context) ([]catalog.Record, error) {
	return c.records, c.err
}

type fixedWords struct {
	n   int
	err error
}

func (w fixedWords) CountWords(image.Image) (int, error) { return w.n, w.err }

type panickingWords struct{}

func (panickingWords) CountWords(image.Image) (int, error) { panic("tesseract crashed") }

var errRender = errors.New("mupdf: cannot open document")

// workspace is a project tree in a temporary directory.
type workspace struct {
	root  string
	paths Paths
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()
	ws := &workspace{
		root: root,
		paths: Paths{
			ProjectRoot:        root,
			ResumesDir:         filepath.Join(root, "resumes"),
			ProfilePicturesDir: filepath.Join(root, "public", "profile-pictures"),
			PreviewsDir:        filepath.Join(root, "public", "resume-previews"),
			DebugDir:           filepath.Join(root, "temp", "pdf-processing"),
		},
	}
	require.NoError(t, SetupDirectories(ws.paths.ResumesDir, ws.paths.ProfilePicturesDir, ws.paths.PreviewsDir, ws.paths.DebugDir))
	return ws
}

// addPDF creates an (empty) source file so it resolves on disk.
func (ws *workspace) addPDF(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(ws.paths.ResumesDir, name), []byte("%PDF-1.4\n"), 0o644))
}

func (ws *workspace) preview(id string) string {
	return filepath.Join(ws.paths.PreviewsDir, id+".png")
}

func (ws *workspace) picture(id string) string {
	return filepath.Join(ws.paths.ProfilePicturesDir, id+".png")
}

func newExtractor(t *testing.T, ws *workspace, r *fakeRasterizer, mutate ...func(*Config)) *Extractor {
	t.Helper()
	cfg := Config{
		Rasterizer: r,
		Scorer:     detection.NewScorer(detection.DefaultLayout(), detection.DefaultCriteria()),
		Enhancer:   imaging.DefaultEnhancer(),
		Paths:      ws.paths,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	x, err := New(cfg)
	require.NoError(t, err)
	return x
}

func loadImage(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := imaging.Load(path)
	require.NoError(t, err)
	return img
}

func pngCount(t *testing.T, dir string) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	return len(matches)
}
