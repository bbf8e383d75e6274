package field

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func grayImage(width, height int, value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{value})
		}
	}
	return img
}

func TestBuild_AllBackgroundHomesOnCenter(t *testing.T) {
	img := grayImage(5, 5, 255)

	f, err := Build(img, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if f.Magnitude[y][x] != 10 {
				t.Errorf("magnitude at (%d,%d): got %v, want 10", y, x, f.Magnitude[y][x])
			}

			wantAngle := math.Atan2(float64(2-y), float64(2-x))
			wantAngle = math.Mod(wantAngle+2*math.Pi, 2*math.Pi) * (180 / math.Pi)
			if math.Abs(f.Angle[y][x]-wantAngle) > 1e-9 {
				t.Errorf("angle at (%d,%d): got %v, want %v (toward center)", y, x, f.Angle[y][x], wantAngle)
			}
		}
	}
}

func TestBuild_AllForegroundHasNoBias(t *testing.T) {
	img := grayImage(6, 4, 0)

	f, err := Build(img, 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			if f.Angle[y][x] != 0 || f.Magnitude[y][x] != 0 {
				t.Errorf("bias at (%d,%d): got angle=%v magnitude=%v, want zero",
					y, x, f.Angle[y][x], f.Magnitude[y][x])
			}
		}
	}
}

func TestBuild_MidtonePointsAtDarkestNeighbor(t *testing.T) {
	// A uniform midtone image with a single dark pixel. After the 3x3
	// sigma=1 blur the dark pixel remains the local minimum, so midtone
	// pixels within the window must point at it.
	img := grayImage(9, 9, 128)
	img.SetGray(4, 4, color.Gray{0})

	f, err := Build(img, 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Pixel (4,2): the darkest pixel in its window is at (4,4), two to
	// the right: angle 0 degrees, magnitude 2.
	angle, magnitude := f.At(4, 2)
	if math.Abs(angle-0) > 1e-9 {
		t.Errorf("angle at (4,2): got %v, want 0", angle)
	}
	if math.Abs(magnitude-2) > 1e-9 {
		t.Errorf("magnitude at (4,2): got %v, want 2", magnitude)
	}

	// Pixel (2,4): the darkest pixel is two below: angle 90 degrees.
	angle, magnitude = f.At(2, 4)
	if math.Abs(angle-90) > 1e-9 {
		t.Errorf("angle at (2,4): got %v, want 90", angle)
	}
	if math.Abs(magnitude-2) > 1e-9 {
		t.Errorf("magnitude at (2,4): got %v, want 2", magnitude)
	}
}

func TestBuild_WindowClampedAtBorders(t *testing.T) {
	// Midtone image; the scan at corner pixels must not read out of
	// bounds even with a window larger than the margin.
	img := grayImage(4, 4, 128)
	img.SetGray(0, 0, color.Gray{64})

	f, err := Build(img, 3)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(f.Angle) != 4 || len(f.Angle[0]) != 4 {
		t.Fatalf("field shape: got %dx%d, want 4x4", len(f.Angle), len(f.Angle[0]))
	}
}

func TestBuild_RejectsBadInput(t *testing.T) {
	if _, err := Build(nil, 1); err == nil {
		t.Error("expected error for nil image")
	}
	if _, err := Build(grayImage(3, 3, 0), 0); err == nil {
		t.Error("expected error for zero window size")
	}
}

func TestAngleMagnitude(t *testing.T) {
	tests := []struct {
		name          string
		dy, dx        float64
		wantAngle     float64
		wantMagnitude float64
	}{
		{"east", 0, 1, 0, 1},
		{"south", 1, 0, 90, 1},
		{"west", 0, -1, 180, 1},
		{"north", -1, 0, 270, 1},
		{"southeast diagonal", 3, 4, 36.869897645844, 5},
		{"zero displacement", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			angle, magnitude := angleMagnitude(tt.dy, tt.dx)
			if math.Abs(angle-tt.wantAngle) > 1e-9 {
				t.Errorf("angle: got %v, want %v", angle, tt.wantAngle)
			}
			if math.Abs(magnitude-tt.wantMagnitude) > 1e-9 {
				t.Errorf("magnitude: got %v, want %v", magnitude, tt.wantMagnitude)
			}
			if angle < 0 || angle >= 360 {
				t.Errorf("angle %v outside [0, 360)", angle)
			}
		})
	}
}

func TestHSVPlot_Shape(t *testing.T) {
	img := grayImage(5, 5, 255)
	f, err := Build(img, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	plot := HSVPlot(f)
	if plot.Bounds().Dx() != 5 || plot.Bounds().Dy() != 5 {
		t.Errorf("plot shape: got %v, want 5x5", plot.Bounds())
	}
}
