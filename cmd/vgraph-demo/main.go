// Command vgraph-demo opens a window running a small patch: an
// oscillator through a transform, rotation driven by an LFO, blended
// over a solid color. It renders on the GPU device when one is
// available and falls back to the software device otherwise.
package main

import (
	"errors"
	"flag"
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/vgraph"
	"github.com/gogpu/vgraph/gpu"
	"github.com/gogpu/vgraph/render"
	"github.com/gogpu/vgraph/signal"
)

func main() {
	software := flag.Bool("software", false, "force the software device")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level(*verbose),
	}))
	vgraph.SetLogger(logger)

	dev, closeDev := openDevice(*software, logger)
	defer closeDev()

	eng, err := vgraph.NewEngine(dev, vgraph.WithResolution(vgraph.Res360p))
	if err != nil {
		logger.Error("engine creation failed", "err", err)
		os.Exit(1)
	}

	lfoID := buildPatch(eng)
	eng.BindSignal(lfoID, signal.NewLFO(signal.Sine, 0.1))

	w, h := eng.Resolution().Size()
	g := &game{
		eng:   eng,
		start: time.Now(),
		frame: image.NewRGBA(image.Rect(0, 0, w, h)),
	}

	ebiten.SetWindowTitle("vgraph demo (" + dev.Name() + ")")
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// openDevice tries the GPU first and falls back to software when no
// adapter is available.
func openDevice(forceSoftware bool, logger *slog.Logger) (render.Device, func()) {
	if !forceSoftware {
		dev, err := gpu.Open()
		if err == nil {
			return dev, dev.Close
		}
		logger.Warn("GPU unavailable, using software device", "err", err)
	}
	return render.NewSoftwareDevice(), func() {}
}

// buildPatch assembles the demo graph and returns the LFO node id.
func buildPatch(eng *vgraph.Engine) vgraph.NodeID {
	g := eng.Graph()

	osc := vgraph.NewNode(vgraph.KindOsc)
	oscID := g.Add(osc)
	osc.SetParam("frequency", vgraph.Float(6))
	osc.SetParam("speed", vgraph.Float(1.5))
	osc.SetParam("color", vgraph.ColorValue(vgraph.Hex("#40c0ff")))

	solid := vgraph.NewNode(vgraph.KindSolid)
	solidID := g.Add(solid)
	solid.SetParam("color", vgraph.ColorValue(vgraph.Hex("#200030")))

	xform := vgraph.NewNode(vgraph.KindTransform)
	xformID := g.Add(xform)
	xform.SetParam("scaleX", vgraph.Float(1.2))
	xform.SetParam("scaleY", vgraph.Float(1.2))

	blend := vgraph.NewNode(vgraph.KindBlend)
	blendID := g.Add(blend)
	blend.SetParam("blendMode", vgraph.Enum("screen"))
	blend.SetParam("opacity", vgraph.Float(0.9))

	lfoID := g.Add(vgraph.NewNode(vgraph.KindLFO))

	_ = g.Connect(xformID, 0, oscID)
	_ = g.Connect(blendID, 0, solidID)
	_ = g.Connect(blendID, 1, xformID)

	// Control slot 0 of the transform targets rotation.
	_ = g.ConnectControl(xformID, 0, lfoID)

	_ = g.ConnectOutput(blendID)
	return lfoID
}

var errQuit = errors.New("quit")

type game struct {
	eng     *vgraph.Engine
	start   time.Time
	frame   *image.RGBA
	display *ebiten.Image
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return errQuit
	}
	if err := g.eng.Step(time.Since(g.start)); err != nil {
		return err
	}
	return g.eng.Composite(g.frame)
}

func (g *game) Draw(screen *ebiten.Image) {
	w := g.frame.Bounds().Dx()
	h := g.frame.Bounds().Dy()
	if g.display == nil {
		g.display = ebiten.NewImage(w, h)
	}
	g.display.WritePixels(g.frame.Pix)
	screen.DrawImage(g.display, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.frame.Bounds().Dx(), g.frame.Bounds().Dy()
}
