package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/stipple-gen/internal/export"
	"github.com/ironsheep/stipple-gen/internal/stipple"
)

// debugFileName is the text log written inside the debug directory.
const debugFileName = "Debug.txt"

// animationFPS is the playback rate of the assembled iteration animation.
const animationFPS = 10

// Options selects which debug outputs a Recorder produces.
type Options struct {
	// Dir is the directory debug artifacts are written to. It is
	// recreated empty at construction.
	Dir string

	// Console echoes log lines to stderr.
	Console bool

	// File appends timestamped log lines to Debug.txt in Dir.
	File bool

	// Visualize writes point-set frames and plots as PNG files, and
	// assembles iteration frames into an animation. Each frame is
	// rendered twice: on a white canvas and overlayed on the source
	// image.
	Visualize bool

	// Wireframe draws the Voronoi tessellation of the point set on the
	// per-iteration overlays. Only useful with the tessellating variant.
	Wireframe bool
}

// Recorder implements the engine's Logger and FrameSink against the
// filesystem. A zero-valued Options produces a recorder that stays silent,
// so the engine remains usable headlessly.
//
// Recorder is not safe for concurrent use; the engine drives it from a
// single goroutine.
type Recorder struct {
	opts   Options
	source *image.Gray
	width  int
	height int

	// iteration frames retained in memory for animation assembly
	animation []*image.Paletted
}

// New prepares a recorder for the given source image; frames and overlays
// share its pixel dimensions. When any output is enabled, the debug
// directory is wiped and recreated, and the text log is started with a
// creation stamp.
func New(opts Options, source *image.Gray) (*Recorder, error) {
	r := &Recorder{
		opts:   opts,
		source: source,
		width:  source.Bounds().Dx(),
		height: source.Bounds().Dy(),
	}
	if !opts.Console && !opts.File && !opts.Visualize {
		return r, nil
	}
	if opts.Dir == "" {
		return nil, fmt.Errorf("debug: options enabled but no directory set")
	}

	if err := os.RemoveAll(opts.Dir); err != nil {
		return nil, fmt.Errorf("debug: failed to clear directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(opts.Dir, "iterations"), 0o755); err != nil {
		return nil, fmt.Errorf("debug: failed to create directory: %w", err)
	}
	if opts.File {
		if err := r.appendLine("Created"); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Logf implements stipple.Logger: lines go to stderr and/or Debug.txt
// depending on the enabled options.
func (r *Recorder) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.opts.Console {
		fmt.Fprintf(os.Stderr, "%s: %s\n", timestamp(), msg)
	}
	if r.opts.File {
		// Log-line failures must not interrupt the run.
		_ = r.appendLine(msg)
	}
}

// Enabled implements stipple.FrameSink.
func (r *Recorder) Enabled() bool { return r.opts.Visualize }

// WriteFrame renders the dots and writes two files under the debug
// directory: <name>.png on a white canvas and <name>_overlayed.png over the
// source image. Frames named under iterations/ are additionally retained
// for the animation and, when Wireframe is set, their overlays carry the
// Voronoi tessellation of the point set.
func (r *Recorder) WriteFrame(name string, dots []stipple.Dot) error {
	if !r.opts.Visualize {
		return nil
	}
	frame := export.Raster(dots, r.width, r.height)
	iteration := filepath.Dir(name) == "iterations"
	if iteration {
		r.animation = append(r.animation, palettize(frame))
	}
	if err := r.SaveImage(name, frame); err != nil {
		return err
	}

	overlay := export.Overlay(r.source, dots)
	if iteration && r.opts.Wireframe {
		overlay = export.VoronoiOverlay(r.source, dots)
	}
	return r.SaveImage(name+"_overlayed", overlay)
}

// SaveImage writes any image as <name>.png under the debug directory when
// visualization is enabled. Used for overlays and flow-field plots.
func (r *Recorder) SaveImage(name string, img image.Image) error {
	if !r.opts.Visualize {
		return nil
	}
	path := filepath.Join(r.opts.Dir, name+".png")
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("debug: failed to save %s: %w", name, err)
	}
	return nil
}

// WriteAnimation assembles the retained iteration frames into a 10 fps
// animated GIF in the debug directory. A run without iteration frames is a
// no-op.
func (r *Recorder) WriteAnimation() error {
	if !r.opts.Visualize || len(r.animation) == 0 {
		return nil
	}

	out := &gif.GIF{
		Image: r.animation,
		Delay: make([]int, len(r.animation)),
	}
	for i := range out.Delay {
		out.Delay[i] = 100 / animationFPS // hundredths of a second
	}

	path := filepath.Join(r.opts.Dir, "relaxation.gif")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("debug: failed to create animation: %w", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, out); err != nil {
		return fmt.Errorf("debug: failed to encode animation: %w", err)
	}
	return nil
}

func (r *Recorder) appendLine(msg string) error {
	path := filepath.Join(r.opts.Dir, debugFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("debug: failed to open log: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s: %s\n", timestamp(), msg); err != nil {
		return fmt.Errorf("debug: failed to write log: %w", err)
	}
	return nil
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// palettize converts a grayscale frame to a paletted image for GIF
// encoding.
func palettize(img *image.Gray) *image.Paletted {
	palette := make(color.Palette, 256)
	for i := range palette {
		palette[i] = color.Gray{Y: uint8(i)}
	}
	out := image.NewPaletted(img.Bounds(), palette)
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			out.SetColorIndex(x, y, img.GrayAt(x, y).Y)
		}
	}
	return out
}
