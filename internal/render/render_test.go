package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestPDF writes a one-page PDF with the given media box size in points
// and a filled square in its top-right corner.
func writeTestPDF(t *testing.T, dir string, widthPt, heightPt int) string {
	t.Helper()

	content := fmt.Sprintf("0 0 0 rg %d %d 20 20 re f", widthPt-30, heightPt-30)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Contents 4 0 R >>", widthPt, heightPt),
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(dir, "page.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestFitzRender(t *testing.T) {
	path := writeTestPDF(t, t.TempDir(), 72, 144)

	img, err := NewFitz().Render(context.Background(), path, DefaultDPI)
	require.NoError(t, err)

	b := img.Bounds()
	assert.InDelta(t, 200, b.Dx(), 1)
	assert.InDelta(t, 400, b.Dy(), 1)

	// The filled square sits near the top-right corner.
	r, g, bl, _ := img.At(b.Max.X-40, b.Min.Y+50).RGBA()
	assert.Less(t, r>>8, uint32(64))
	assert.Less(t, g>>8, uint32(64))
	assert.Less(t, bl>>8, uint32(64))

	r, _, _, _ = img.At(b.Min.X+10, b.Max.Y-10).RGBA()
	assert.Greater(t, r>>8, uint32(200))
}

func TestFitzRender_ScalesWithDPI(t *testing.T) {
	path := writeTestPDF(t, t.TempDir(), 144, 144)

	img, err := NewFitz().Render(context.Background(), path, 72)
	require.NoError(t, err)
	assert.InDelta(t, 144, img.Bounds().Dx(), 1)
}

func TestFitzRender_MissingFile(t *testing.T) {
	_, err := NewFitz().Render(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"), DefaultDPI)
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFitzRender_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a document"), 0o644))

	_, err := NewFitz().Render(context.Background(), path, DefaultDPI)
	assert.Error(t, err)
}

func TestFitzRender_InvalidDPI(t *testing.T) {
	path := writeTestPDF(t, t.TempDir(), 72, 72)
	_, err := NewFitz().Render(context.Background(), path, 0)
	assert.Error(t, err)
}

func TestFitzRender_CancelledContext(t *testing.T) {
	path := writeTestPDF(t, t.TempDir(), 72, 72)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFitz().Render(ctx, path, DefaultDPI)
	assert.ErrorIs(t, err, context.Canceled)
}
