package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// LoadGray loads an image file and converts it to 8-bit grayscale.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats
//     are PNG, JPEG, and GIF.
//   - maxDim: When > 0, images whose width or height exceeds maxDim are
//     downscaled (Lanczos, preserving aspect ratio) so that both dimensions
//     fit within maxDim. Zero disables scaling.
//
// Returns:
//   - *image.Gray: The grayscale image, with bounds anchored at (0, 0).
//   - error: Non-nil if the file cannot be opened or decoded.
func LoadGray(path string, maxDim int) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if maxDim > 0 && (bounds.Dx() > maxDim || bounds.Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	return ToGray(img), nil
}

// ToGray converts any image to 8-bit grayscale using luminance weighting,
// re-anchoring the bounds at (0, 0).
func ToGray(img image.Image) *image.Gray {
	luma := effect.Grayscale(img)

	bounds := luma.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			gray.SetGray(x, y, color.Gray{Y: luma.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y).R})
		}
	}
	return gray
}
