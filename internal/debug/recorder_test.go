package debug

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/stipple-gen/internal/stipple"
)

func sourceImage(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{64})
		}
	}
	return img
}

func TestRecorder_Disabled(t *testing.T) {
	r, err := New(Options{}, sourceImage(10, 10))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if r.Enabled() {
		t.Error("zero-valued recorder should be disabled")
	}
	// No directory access at all.
	r.Logf("ignored %d", 1)
	if err := r.WriteFrame("initial_points", nil); err != nil {
		t.Errorf("WriteFrame on disabled recorder: %v", err)
	}
}

func TestRecorder_FileLogging(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")
	r, err := New(Options{Dir: dir, File: true}, sourceImage(10, 10))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	r.Logf("generated %d points", 42)

	data, err := os.ReadFile(filepath.Join(dir, "Debug.txt"))
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	log := string(data)
	if !strings.Contains(log, "Created") {
		t.Errorf("missing creation stamp:\n%s", log)
	}
	if !strings.Contains(log, "generated 42 points") {
		t.Errorf("missing log line:\n%s", log)
	}
}

func TestRecorder_FramesAndAnimation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")
	r, err := New(Options{Dir: dir, Visualize: true}, sourceImage(10, 10))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	dots := []stipple.Dot{{P: stipple.Point{Y: 5, X: 5}, R: 2}}
	if err := r.WriteFrame("initial_points", dots); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	if err := r.WriteFrame("iterations/relaxed000000", dots); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	if err := r.WriteAnimation(); err != nil {
		t.Fatalf("WriteAnimation failed: %v", err)
	}

	for _, name := range []string{
		"initial_points.png",
		"initial_points_overlayed.png",
		filepath.Join("iterations", "relaxed000000.png"),
		filepath.Join("iterations", "relaxed000000_overlayed.png"),
		"relaxation.gif",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestRecorder_WireframeOverlays(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")
	r, err := New(Options{Dir: dir, Visualize: true, Wireframe: true}, sourceImage(20, 20))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	dots := []stipple.Dot{
		{P: stipple.Point{Y: 5, X: 5}, R: 1},
		{P: stipple.Point{Y: 14, X: 12}, R: 1},
		{P: stipple.Point{Y: 8, X: 16}, R: 1},
	}
	if err := r.WriteFrame("iterations/relaxed000000", dots); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	path := filepath.Join(dir, "iterations", "relaxed000000_overlayed.png")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("missing wireframe overlay: %v", err)
	}
}

func TestRecorder_RequiresDirectory(t *testing.T) {
	if _, err := New(Options{Console: true}, sourceImage(10, 10)); err == nil {
		t.Error("expected error when outputs are enabled without a directory")
	}
}
