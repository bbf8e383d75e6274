package stipple

import (
	"context"
	"fmt"
	"image"
	"math/rand"

	"github.com/ironsheep/stipple-gen/internal/geometry"
)

// RelaxationStrategy is the per-iteration centroid computation, polymorphic
// over the tessellation variants.
//
// Step reads the previous iteration's positions from snap and writes new
// positions into dst; it must never mutate snap, so the tessellation always
// reflects a frozen snapshot. Strategies producing per-point radii update
// radii in place.
type RelaxationStrategy interface {
	Step(img *image.Gray, snap, dst []Point, radii []float64) error
	VariableRadius() bool
}

// Options carries the engine's injectable collaborators. Nil fields get
// no-op or default implementations, keeping the core usable headlessly.
type Options struct {
	// Sampler generates the initial scatter. Defaults to the
	// foreground-biased sampler.
	Sampler Sampler

	// Logger receives progress messages. Defaults to a no-op.
	Logger Logger

	// Frames receives per-stage and per-iteration visualizations.
	// Defaults to a no-op.
	Frames FrameSink
}

// Engine owns the point set and drives the shared relaxation lifecycle:
// sample, iterate the strategy, post-process. One Engine performs one run;
// no state survives past Stipple.
type Engine struct {
	img      *image.Gray
	cfg      Config
	strategy RelaxationStrategy
	sampler  Sampler
	log      Logger
	frames   FrameSink
	rng      *rand.Rand
}

// New validates the configuration and assembles an engine.
//
// The image is treated as immutable for the engine's lifetime. Construction
// fails with ErrInvalidConfig (wrapped) on non-positive counts or radii.
func New(img *image.Gray, cfg Config, strategy RelaxationStrategy, opts Options) (*Engine, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidConfig)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidConfig)
	}
	if strategy == nil {
		return nil, fmt.Errorf("%w: nil relaxation strategy", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		img:      img,
		cfg:      cfg,
		strategy: strategy,
		sampler:  opts.Sampler,
		log:      opts.Logger,
		frames:   opts.Frames,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}
	if e.sampler == nil {
		e.sampler = ForegroundSampler{}
	}
	if e.log == nil {
		e.log = NopLogger{}
	}
	if e.frames == nil {
		e.frames = NopFrameSink{}
	}

	e.log.Logf("stipple engine: image %dx%d, %s",
		img.Bounds().Dx(), img.Bounds().Dy(), cfg)
	return e, nil
}

// Stipple runs the full pipeline and returns the surviving dots.
//
// Each returned error names the failing stage. The context is checked
// between iterations so long high-resolution jobs can be cancelled
// cooperatively; a cancelled run returns before touching any output.
func (e *Engine) Stipple(ctx context.Context) ([]Dot, error) {
	bounds := e.img.Bounds()
	height := bounds.Dy()
	width := bounds.Dx()

	points, err := e.sampler.Sample(e.img, e.cfg.NumPoints, e.rng)
	if err != nil {
		return nil, fmt.Errorf("sampling: %w", err)
	}
	e.log.Logf("generated %d points", len(points))

	radii := make([]float64, len(points))
	for i := range radii {
		radii[i] = e.cfg.RadiusPixels()
	}
	e.emitFrame("initial_points", points, radii)

	// Double-buffered working set: the strategy reads cur, writes next.
	cur := points
	next := make([]Point, len(points))

	for iteration := 0; iteration < e.cfg.Iterations; iteration++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("relaxation iteration %d: %w", iteration, ctx.Err())
		default:
		}

		if err := e.strategy.Step(e.img, cur, next, radii); err != nil {
			return nil, fmt.Errorf("relaxation iteration %d: %w", iteration, err)
		}

		for i := range next {
			// Points sitting on background before the pass are frozen.
			if e.img.GrayAt(cur[i].X, cur[i].Y).Y == background {
				next[i] = cur[i]
				continue
			}
			next[i] = Point{
				Y: geometry.Clamp(next[i].Y, 0, height-1),
				X: geometry.Clamp(next[i].X, 0, width-1),
			}
		}
		cur, next = next, cur

		e.logProgress(iteration)
		e.emitFrame(fmt.Sprintf("iterations/relaxed%06d", iteration), cur, radii)
	}
	e.log.Logf("relaxation complete")
	e.emitFrame("relaxed_points", cur, radii)

	dots := make([]Dot, len(cur))
	for i, p := range cur {
		dots[i] = Dot{P: p, R: radii[i]}
	}

	e.log.Logf("postprocessing...")
	if e.strategy.VariableRadius() {
		dots = FilterOverlap(e.img, dots)
	} else {
		dots = FilterBackground(e.img, dots)
	}
	e.log.Logf("postprocessing complete, %d points survive", len(dots))

	final := make([]Point, len(dots))
	finalRadii := make([]float64, len(dots))
	for i, d := range dots {
		final[i] = d.P
		finalRadii[i] = d.R
	}
	e.emitFrame("post_processed_points", final, finalRadii)

	return dots, nil
}

// logProgress reports roughly every 10% of the configured passes.
func (e *Engine) logProgress(iteration int) {
	tenth := e.cfg.Iterations / 10
	if tenth == 0 {
		tenth = 1
	}
	if iteration%tenth == 0 {
		e.log.Logf("%d%%...", iteration*100/e.cfg.Iterations)
	}
}

func (e *Engine) emitFrame(name string, points []Point, radii []float64) {
	if !e.frames.Enabled() {
		return
	}
	dots := make([]Dot, len(points))
	for i, p := range points {
		dots[i] = Dot{P: p, R: radii[i]}
	}
	if err := e.frames.WriteFrame(name, dots); err != nil {
		e.log.Logf("frame %s: %v", name, err)
	}
}
