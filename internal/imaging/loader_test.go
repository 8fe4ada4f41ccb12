package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSavePNG_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	img := createPatternImage(40, 30)

	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	dims := DimensionsOf(loaded)
	if dims.Width != 40 || dims.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", dims.Width, dims.Height)
	}

	r, g, b, _ := loaded.At(5, 5).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("pixel (5,5): got (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
}

func TestSavePNG_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "id-1.png")

	if err := SavePNG(path, createInMemoryImage(10, 10, color.Black)); err != nil {
		t.Fatalf("first SavePNG failed: %v", err)
	}
	if err := SavePNG(path, createInMemoryImage(20, 15, color.White)); err != nil {
		t.Fatalf("second SavePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 20 || cfg.Height != 15 {
		t.Errorf("dimensions after overwrite: got %dx%d, want 20x15", cfg.Width, cfg.Height)
	}

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one file in %s, got %d", dir, len(entries))
	}
}

func TestSavePNG_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perm.png")
	if err := SavePNG(path, createInMemoryImage(4, 4, color.White)); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("permissions: got %v, want 0644", info.Mode().Perm())
	}
}

func TestSavePNG_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	if err := SavePNG(path, createInMemoryImage(4, 4, color.White)); err == nil {
		t.Error("SavePNG should fail when the directory does not exist")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	if _, err := Load("/nonexistent/path/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestLoad_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestDimensionsOf(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 110, 70))
	dims := DimensionsOf(img)
	if dims.Width != 100 || dims.Height != 50 {
		t.Errorf("got %dx%d, want 100x50", dims.Width, dims.Height)
	}
}
