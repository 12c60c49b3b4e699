// Command oscad generates OpenSCAD sources, STL meshes and PNG previews of
// path tubes, heightmaps and imported STL meshes described by a TOML scene file.
//
//	oscad -config scene.toml -scad scene.scad -stl scene.stl -png scene.png
//
// With no output flags the OpenSCAD source is written to standard output.
// STL facets follow OpenSCAD's clockwise face order, so their normals point
// into the solid; -stl-outward flips them for slicers.
// With -watch the outputs are regenerated every time the scene file changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/soypat/oscad"
	"github.com/soypat/oscad/preview"
	"github.com/soypat/oscad/render"
	"github.com/soypat/oscad/scad"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "oscad:", err)
		os.Exit(1)
	}
}

// outputs are the files a run writes.
type outputs struct {
	scad, stl, png string
	binary         bool
	// outward exports STL normals pointing out of each part.
	outward bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("oscad", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		out        outputs
		flagConfig = fs.String("config", "", "TOML scene file (required)")
		flagWatch  = fs.Bool("watch", false, "regenerate outputs when the scene file changes")
		flagV      = fs.Bool("v", false, "log progress")
		flagVV     = fs.Bool("vv", false, "log debug output")
		flagQ      = fs.Bool("q", false, "only log errors")
	)
	fs.StringVar(&out.scad, "scad", "", "write OpenSCAD source to this file")
	fs.StringVar(&out.stl, "stl", "", "write an STL mesh to this file")
	fs.BoolVar(&out.binary, "binary", false, "write binary instead of ASCII STL")
	fs.BoolVar(&out.outward, "stl-outward", false, "flip parts so STL facet normals point out of the solid")
	fs.StringVar(&out.png, "png", "", "write a shaded PNG preview to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	level := oscad.LevelFromFlags(*flagVV, *flagV, *flagQ)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	oscad.SetLogger(logger)
	defer oscad.SetLogger(nil)

	if *flagConfig == "" {
		fs.Usage()
		return errors.New("missing -config")
	}
	generate := func() error { return out.generate(*flagConfig, stdout, logger) }
	if !*flagWatch {
		return generate()
	}
	if out.scad == "" && out.stl == "" && out.png == "" {
		return errors.New("-watch needs at least one of -scad, -stl and -png")
	}
	if err := generate(); err != nil {
		logger.Error("generate failed", slog.String("err", err.Error()))
	}
	return watch(ctx, *flagConfig, func() {
		if err := generate(); err != nil {
			logger.Error("generate failed", slog.String("err", err.Error()))
		}
	})
}

// generate builds the scene in the config file and writes every output.
func (out outputs) generate(config string, stdout io.Writer, logger *slog.Logger) error {
	fp, err := os.Open(config)
	if err != nil {
		return err
	}
	cfg, err := ParseConfig(fp)
	fp.Close()
	if err != nil {
		return err
	}
	cfg.Dir = filepath.Dir(config)
	scene, err := cfg.Build()
	if err != nil {
		return err
	}
	logger.Info("scene built", slog.String("config", config), slog.Int("parts", len(scene.Parts)))

	if out.scad == "" && out.stl == "" && out.png == "" {
		return scad.Write(stdout, scene.Header, scene.Root)
	}
	if out.scad != "" {
		if err := writeSCAD(out.scad, scene); err != nil {
			return err
		}
		logger.Info("wrote OpenSCAD source", slog.String("path", out.scad))
	}
	if out.stl == "" && out.png == "" {
		return nil
	}
	tris, err := scene.Triangles()
	if err != nil {
		return err
	}
	for i, part := range scene.Parts {
		if !part.Mesh.Closed() {
			logger.Warn("part mesh is not closed", slog.Int("part", i))
		}
	}
	if out.stl != "" {
		stlTris := tris
		if out.outward {
			stlTris, err = scene.OutwardTriangles()
			if err != nil {
				return err
			}
		}
		model := render.NewSliceRenderer(stlTris)
		if out.binary {
			err = render.CreateSTL(out.stl, model)
		} else {
			err = render.CreateASCIISTL(out.stl, scene.Name, model)
		}
		if err != nil {
			return err
		}
		logger.Info("wrote STL", slog.String("path", out.stl), slog.Int("triangles", len(stlTris)), slog.Bool("binary", out.binary))
	}
	if out.png != "" {
		err = preview.SavePNG(out.png, tris, preview.DefaultView)
		if err != nil {
			return err
		}
		logger.Info("wrote preview", slog.String("path", out.png))
	}
	return nil
}

// watch calls fn after every write to the file at path until ctx is done.
// The parent directory is watched so editors that replace the file on save
// keep triggering events.
func watch(ctx context.Context, path string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	path = filepath.Clean(path)
	err = w.Add(filepath.Dir(path))
	if err != nil {
		return err
	}
	log := oscad.Logger()
	log.Info("watching", slog.String("path", path))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			log.Debug("scene changed", slog.String("op", event.Op.String()))
			fn()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", slog.String("err", err.Error()))
		}
	}
}

func writeSCAD(path string, scene *Scene) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = scad.Write(fp, scene.Header, scene.Root)
	if err != nil {
		return err
	}
	return fp.Close()
}
