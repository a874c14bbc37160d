package main

import (
	"encoding/json"
	"io"
	"math"

	lsystem "github.com/hananel42/L-system-studio"
	"github.com/hananel42/L-system-studio/internal/ctxlog"
	"github.com/hananel42/L-system-studio/turtle"
	"github.com/hananel42/L-system-studio/view"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type renderOptions struct {
	format   string
	document int
	width    float64
	height   float64
	zoom     float64
	rotate   float64
	fit      bool
}

// Segment is the serialised form of a drawn line.
type Segment struct {
	X1    float64 `json:"x1" yaml:"x1"`
	Y1    float64 `json:"y1" yaml:"y1"`
	X2    float64 `json:"x2" yaml:"x2"`
	Y2    float64 `json:"y2" yaml:"y2"`
	Width float64 `json:"width" yaml:"width"`
	Color string  `json:"color" yaml:"color"`
}

type Bounds struct {
	MinX float64 `json:"min_x" yaml:"min_x"`
	MinY float64 `json:"min_y" yaml:"min_y"`
	MaxX float64 `json:"max_x" yaml:"max_x"`
	MaxY float64 `json:"max_y" yaml:"max_y"`
}

// Drawing is what render prints.
type Drawing struct {
	Tier     uint      `json:"tier" yaml:"tier"`
	Symbols  int       `json:"symbols" yaml:"symbols"`
	Space    string    `json:"space" yaml:"space"`
	Bounds   *Bounds   `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Segments []Segment `json:"segments" yaml:"segments"`
}

func newRenderCmd() *cobra.Command {
	var (
		src  source
		opts renderOptions
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Expand a grammar and print the segments its turtle draws",
		Long: `Expands one grammar of the file, replays the symbol actions on a turtle and
prints the segments as JSON or YAML. Coordinates are in world space unless a
canvas size is given, in which case they are mapped through a view centred on
the canvas with the requested zoom and rotation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src.bind(cmd)
			return runRender(cmd, &src, inputName(args), opts)
		},
	}
	src.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().IntVar(&opts.document, "document", 0, "Index of the grammar to render in a multi-document stream")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "Canvas width; enables screen coordinates")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "Canvas height; enables screen coordinates")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 1, "Zoom factor about the canvas centre")
	cmd.Flags().Float64Var(&opts.rotate, "rotate", 0, "Rotation in degrees about the canvas centre")
	cmd.Flags().BoolVar(&opts.fit, "fit", false, "Scale and centre the drawing to the canvas before zoom and rotation")
	return cmd
}

var errFound = errors.New("found")

func runRender(cmd *cobra.Command, src *source, name string, opts renderOptions) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)

	if opts.format != "json" && opts.format != "yaml" {
		return errors.Errorf("unknown output format %q", opts.format)
	}
	if (opts.width > 0) != (opts.height > 0) {
		return errors.New("--width and --height must be given together")
	}

	var (
		grammar lsystem.Grammar
		sysOpts []lsystem.Option
		index   int
	)
	err := src.each(ctx, name, cmd.InOrStdin(), func(g lsystem.Grammar) error {
		if index == opts.document {
			grammar, sysOpts = src.apply(g)
			return errFound
		}
		index++
		return nil
	})
	if err == nil {
		return errors.Errorf("%s has no document %d", name, opts.document)
	} else if !errors.Is(err, errFound) {
		return err
	}

	ls := grammar.System(sysOpts...)
	if err := ls.DerivateUntil(ctx, uint(grammar.Iterations)); err != nil {
		var tooLarge *lsystem.TooLargeError
		if !errors.As(err, &tooLarge) {
			return err
		}
		logger.Warn("Expansion stopped early, rendering the last complete generation.", "tier", ls.CurrentTier(), "limit", tooLarge.Limit)
	}
	result := ls.Export()

	t := turtle.New()
	if err := result.Draw(t); err != nil {
		return err
	}
	segs := t.Segments()

	drawing := Drawing{Tier: ls.CurrentTier(), Symbols: result.Len(), Space: "world"}
	if opts.width > 0 {
		segs = project(segs, opts)
		drawing.Space = "screen"
	}
	if box, ok := turtle.Bounds(segs); ok {
		drawing.Bounds = &Bounds{MinX: box.MinX, MinY: box.MinY, MaxX: box.MaxX, MaxY: box.MaxY}
	}
	drawing.Segments = make([]Segment, len(segs))
	for i, s := range segs {
		drawing.Segments[i] = Segment{X1: s.X1, Y1: s.Y1, X2: s.X2, Y2: s.Y2, Width: s.Width, Color: s.Color}
	}
	logger.Debug("Rendered.", "tier", drawing.Tier, "symbols", drawing.Symbols, "segments", len(segs))

	return encode(cmd.OutOrStdout(), opts.format, drawing)
}

// project maps world segments to a canvas of the requested size.
func project(segs []turtle.Segment, opts renderOptions) []turtle.Segment {
	v := view.New(opts.width, opts.height)
	center := view.Point{X: opts.width / 2, Y: opts.height / 2}

	if box, ok := turtle.Bounds(segs); ok && opts.fit {
		scale := math.Inf(1)
		if box.Width() > 0 {
			scale = opts.width / box.Width()
		}
		if box.Height() > 0 {
			scale = math.Min(scale, opts.height/box.Height())
		}
		if !math.IsInf(scale, 1) {
			v.ZoomAt(center, 0.9*scale)
		}
		mid := v.WorldToScreen(view.Point{X: (box.MinX + box.MaxX) / 2, Y: (box.MinY + box.MaxY) / 2})
		v.Pan(center.X-mid.X, center.Y-mid.Y)
	}
	if opts.zoom > 0 && opts.zoom != 1 {
		v.ZoomAt(center, opts.zoom)
	}
	if opts.rotate != 0 {
		v.RotateAboutCenter(opts.rotate)
	}
	return v.Segments(segs)
}

func encode(w io.Writer, format string, d Drawing) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return errors.Wrap(err, "failed to encode yaml")
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(d), "failed to encode json")
}
