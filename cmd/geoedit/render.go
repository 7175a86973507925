package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/geoedit/internal/config"
	"github.com/dshills/geoedit/internal/editable"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/host/raster"
	"github.com/dshills/geoedit/internal/logging"
	"github.com/dshills/geoedit/internal/script"
	"github.com/dshills/geoedit/internal/viewport"
)

type renderOptions struct {
	script     string
	out        string
	width      int
	height     int
	scale      float64
	center     []float64
	background string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run a script headlessly and save the scene as a PNG",
		Long: `render runs a Lua script against an off-screen viewport and writes the
resulting features and editing handles to a PNG image. Scripts drive the
pointer with geoedit.click, geoedit.drag and friends exactly as a user would.`,
		Example: `  geoedit render --script shapes.lua --out shapes.png
  geoedit render -s shapes.lua --center 48.85,2.35 --scale 200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderScene(cmd, root.configPath, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.script, "script", "s", "", "Lua script building the scene (required)")
	f.StringVarP(&opts.out, "out", "o", "geoedit.png", "output PNG file")
	f.IntVar(&opts.width, "width", 800, "image width in pixels")
	f.IntVar(&opts.height, "height", 600, "image height in pixels")
	f.Float64Var(&opts.scale, "scale", 40, "pixels per degree")
	f.Float64SliceVar(&opts.center, "center", []float64{0, 0}, "map centre as lat,lng")
	f.StringVar(&opts.background, "background", "#ffffff", "background colour")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}

func renderScene(cmd *cobra.Command, configPath string, opts renderOptions) error {
	if len(opts.center) != 2 {
		return fmt.Errorf("--center wants lat,lng, got %d values", len(opts.center))
	}
	if opts.scale <= 0 {
		return errors.New("--scale must be positive")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.LoggingConfig(cmd.ErrOrStderr()))

	r, err := raster.New(opts.width, opts.height, raster.WithBackground(opts.background))
	if err != nil {
		return err
	}

	center := geo.Position{Lat: opts.center[0], Lng: opts.center[1]}
	proj := viewport.NewLinear(center, opts.scale, float64(opts.width), float64(opts.height))
	vp := viewport.NewHeadlessWith(proj, center, cfg.PointerConfig())
	vp.SetTouch(cfg.Input.Touch)

	session := editable.NewSession(vp, append(cfg.EditableOptions(), editable.WithLogger(log))...)
	defer session.Close()

	engine := script.New(session, script.WithLogger(log))
	defer engine.Close()

	if err := engine.RunFile(cmd.Context(), opts.script); err != nil {
		return err
	}

	if err := r.SavePNG(opts.out, vp); err != nil {
		return err
	}
	log.WithComponent("render").Info("wrote %s (%d layers)", opts.out, len(vp.Layers()))
	return nil
}
