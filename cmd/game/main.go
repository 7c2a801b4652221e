package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/grid-chase/internal/game"
	"github.com/Garsondee/grid-chase/internal/sim"
)

func main() {
	var difficulty string
	var configPath string
	var seed int64
	var verbose bool

	flag.StringVar(&difficulty, "difficulty", "easy", "starting difficulty (easy, medium, hard)")
	flag.StringVar(&configPath, "config", "", "optional YAML file overriding difficulty presets")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 picks one from the clock)")
	flag.BoolVar(&verbose, "verbose", false, "record per-move entries in the sim log")
	flag.Parse()

	d, err := sim.ParseDifficulty(difficulty)
	if err != nil {
		log.Fatal(err)
	}
	table, err := sim.LoadDifficultyFile(configPath)
	if err != nil {
		log.Fatal(err)
	}

	opts := []sim.SimOption{sim.WithVerbose(verbose)}
	if seed != 0 {
		opts = append(opts, sim.WithSeed(seed))
	}
	g, err := game.New(table, d, opts...)
	if err != nil {
		log.Fatal(err)
	}

	w, h := g.Size()
	ebiten.SetWindowTitle("Grid Chase")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil && !game.IsQuit(err) {
		log.Fatal(err)
	}
}
