package main

import (
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/ventrella/config"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Allocation failure at startup is fatal
	sim, err := NewSimulation(cfg, config.Path(), rand.New(rand.NewSource(seed)))
	if err != nil {
		log.Fatal(err)
	}

	applyWindow(cfg.Window)

	// Run the game loop
	if err := ebiten.RunGame(sim); err != nil {
		log.Fatal(err)
	}
}
