package main

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/ventrella/cluster"
	"github.com/olivierh59500/ventrella/config"
	"github.com/olivierh59500/ventrella/physics"
	"github.com/olivierh59500/ventrella/render"
	"github.com/olivierh59500/ventrella/sim"
)

// Simulation adapts the world to ebiten: input, timing and drawing.
type Simulation struct {
	cfg        *config.Config
	configPath string
	world      *sim.World
	clock      *sim.Clock
	rng        *rand.Rand

	// Latest layout size; the world always reads these.
	width, height int

	frame   render.Frame
	visMode render.Mode
	showHUD bool

	// setWindow applies window settings on reload.
	setWindow func(config.Window)
}

// NewSimulation allocates the clusters described by cfg at the configured
// window size.
func NewSimulation(cfg *config.Config, configPath string, rng *rand.Rand) (*Simulation, error) {
	s := &Simulation{
		cfg:        cfg,
		configPath: configPath,
		clock:      sim.NewClock(cfg.Window.TPS),
		rng:        rng,
		width:      cfg.Window.Width,
		height:     cfg.Window.Height,
		setWindow:  applyWindow,
	}
	world, err := sim.New(cfg, rng, s)
	if err != nil {
		return nil, err
	}
	s.world = world
	return s, nil
}

// Width and Height implement cluster.Bounds with the current screen size.
func (s *Simulation) Width() int  { return s.width }
func (s *Simulation) Height() int { return s.height }

// Update is called each tick by Ebitengine
func (s *Simulation) Update() error {
	dt := s.clock.Tick()

	if err := s.handleInput(); err != nil {
		return err
	}

	s.world.Step(dt, s)
	return nil
}

// Draw is called each frame by Ebitengine
func (s *Simulation) Draw(screen *ebiten.Image) {
	bg := s.cfg.Window.Background

	switch s.visMode {
	case render.Discs:
		screen.Fill(bg)
		for _, c := range s.world.Clusters() {
			for i := range c.Particles {
				p := &c.Particles[i]
				vector.DrawFilledCircle(screen, float32(p.Pos.X), float32(p.Pos.Y), physics.Radius, p.Color, true)
			}
		}
	default:
		b := screen.Bounds()
		s.frame.Resize(b.Dx(), b.Dy())
		s.frame.Clear(bg)
		s.frame.DrawClusters(s.world.Clusters(), s.visMode)
		screen.WritePixels(s.frame.Pix)
	}

	if s.showHUD {
		ebitenutil.DebugPrint(screen, s.hud())
	}
}

// Layout tracks the window size so the world always sees the current bounds.
func (s *Simulation) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		s.width, s.height = outsideWidth, outsideHeight
	}
	return s.width, s.height
}

// handleInput processes keyboard input. Reset runs before the pause toggle.
func (s *Simulation) handleInput() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := s.resetWorld(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.world.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.visMode = s.visMode.Next()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		log.Printf("integration mode: %v", s.world.CycleMode())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		s.showHUD = !s.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		s.saveConfig()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		return s.loadConfig()
	}
	return nil
}

// resetWorld re-allocates every cluster at the current screen size. The error
// ends the game loop.
func (s *Simulation) resetWorld() error {
	if err := s.world.Reset(s); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// saveConfig writes the running config, including the current integration
// mode. Failures are logged and ignored.
func (s *Simulation) saveConfig() {
	s.cfg.Integration = s.world.Mode.String()
	if err := config.Save(s.configPath, s.cfg); err != nil {
		log.Printf("save config: %v", err)
		return
	}
	log.Printf("saved config to %s", s.configPath)
}

// loadConfig re-reads the config file and rebuilds the world from it. A bad
// file is logged and ignored; allocation failure is fatal.
func (s *Simulation) loadConfig() error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		log.Printf("load config: %v", err)
		return nil
	}

	world, err := sim.New(cfg, s.rng, s)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	// Keep the current pause state across reloads.
	world.Paused = s.world.Paused

	for _, c := range s.world.Clusters() {
		cluster.Release(c)
	}
	s.cfg = cfg
	s.world = world
	s.setWindow(cfg.Window)
	log.Printf("loaded config from %s", s.configPath)
	return nil
}

// applyWindow pushes the window settings to ebiten. It is used at startup and
// on every config reload.
func applyWindow(w config.Window) {
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetTPS(w.TPS)
	if w.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

func (s *Simulation) hud() string {
	state := "running"
	if s.world.Paused {
		state = "paused"
	}
	info := fmt.Sprintf("FPS: %0.1f  TPS: %0.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	info += fmt.Sprintf("%s  %dx%d\n", state, s.width, s.height)
	info += fmt.Sprintf("draw: %v  integration: %v\n", s.visMode, s.world.Mode)
	for _, c := range s.world.Clusters() {
		info += fmt.Sprintf("%s: %d\n", c.Name, c.Len())
	}
	return info
}
