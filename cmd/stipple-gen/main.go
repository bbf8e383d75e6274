package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/stipple-gen/internal/debug"
	"github.com/ironsheep/stipple-gen/internal/export"
	"github.com/ironsheep/stipple-gen/internal/field"
	"github.com/ironsheep/stipple-gen/internal/imaging"
	"github.com/ironsheep/stipple-gen/internal/stipple"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("stipple-gen %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		inPath    = flag.String("in", "", "input image (PNG, JPEG, or GIF)")
		svgPath   = flag.String("out", "stipple.svg", "output SVG path")
		pngPath   = flag.String("png", "", "optional raster preview path")
		variant   = flag.String("variant", "nearest", "relaxation variant: nearest or voronoi")
		samplerID = flag.String("sampler", "onblack", "initial scatter: onblack, uniform, or poisson")

		numPoints = flag.Int("points", 5000, "target point count")
		iters     = flag.Int("iters", 50, "relaxation iterations")
		dpu       = flag.Float64("dpu", 1, "dots per unit")
		radius    = flag.Float64("radius", 1, "point radius in units")
		minRadius = flag.Float64("min-radius", 0, "minimum point radius in units (enables variable radii)")
		window    = flag.Int("window", 3, "flow-field window half-width (voronoi variant)")
		seed      = flag.Int64("seed", 1, "random seed")
		maxDim    = flag.Int("max-dim", 0, "downscale input so both dimensions fit this (0 = off)")

		debugDir  = flag.String("debug-dir", "", "directory for debug output")
		debugCon  = flag.Bool("debug-console", false, "log progress to stderr")
		debugFile = flag.Bool("debug-file", false, "log progress to Debug.txt")
		debugVis  = flag.Bool("debug-visualize", false, "write per-stage and per-iteration frames")
	)
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(runConfig{
		inPath:    *inPath,
		svgPath:   *svgPath,
		pngPath:   *pngPath,
		variant:   *variant,
		samplerID: *samplerID,
		maxDim:    *maxDim,
		cfg: stipple.Config{
			NumPoints:            *numPoints,
			Iterations:           *iters,
			DotsPerUnit:          *dpu,
			PointUnitRadius:      *radius,
			MinPointUnitRadius:   *minRadius,
			PreprocessWindowSize: *window,
			Seed:                 *seed,
		},
		debugOpts: debug.Options{
			Dir:       *debugDir,
			Console:   *debugCon,
			File:      *debugFile,
			Visualize: *debugVis,
		},
	}); err != nil {
		log.Fatalf("stipple-gen: %v", err)
	}
}

type runConfig struct {
	inPath    string
	svgPath   string
	pngPath   string
	variant   string
	samplerID string
	maxDim    int
	cfg       stipple.Config
	debugOpts debug.Options
}

func run(rc runConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	img, err := imaging.LoadGray(rc.inPath, rc.maxDim)
	if err != nil {
		return err
	}
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	debugOpts := rc.debugOpts
	debugOpts.Wireframe = rc.variant == "voronoi"
	recorder, err := debug.New(debugOpts, img)
	if err != nil {
		return err
	}

	var sampler stipple.Sampler
	switch rc.samplerID {
	case "onblack":
		sampler = stipple.ForegroundSampler{}
	case "uniform":
		sampler = stipple.UniformSampler{}
	case "poisson":
		sampler = stipple.PoissonSampler{}
	default:
		return fmt.Errorf("unknown sampler %q", rc.samplerID)
	}

	var strategy stipple.RelaxationStrategy
	switch rc.variant {
	case "voronoi":
		flow, err := field.Build(img, rc.cfg.PreprocessWindowSize)
		if err != nil {
			return fmt.Errorf("flow field: %w", err)
		}
		if err := recorder.SaveImage("arrow_plot", field.ArrowPlot(img, flow)); err != nil {
			return err
		}
		if err := recorder.SaveImage("hsv_plot", field.HSVPlot(flow)); err != nil {
			return err
		}
		strategy, err = stipple.NewVoronoiFlow(flow)
		if err != nil {
			return err
		}
	case "nearest":
		strategy = &stipple.WeightedNearest{
			Variable:  rc.cfg.MinPointUnitRadius > 0,
			MinRadius: rc.cfg.MinRadiusPixels(),
			MaxRadius: rc.cfg.RadiusPixels(),
		}
	default:
		return fmt.Errorf("unknown variant %q", rc.variant)
	}

	engine, err := stipple.New(img, rc.cfg, strategy, stipple.Options{
		Sampler: sampler,
		Logger:  recorder,
		Frames:  recorder,
	})
	if err != nil {
		return err
	}

	dots, err := engine.Stipple(ctx)
	if err != nil {
		return err
	}

	if err := recorder.WriteAnimation(); err != nil {
		return err
	}

	if err := export.WriteSVGFile(rc.svgPath, dots, width, height); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if rc.pngPath != "" {
		if err := export.WritePNGFile(rc.pngPath, export.Raster(dots, width, height)); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	log.Printf("wrote %d points to %s", len(dots), rc.svgPath)
	return nil
}
