package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"

	"github.com/archer102125220/ripples"
)

const (
	defaultTPS        = 60.0
	pgoRecordDuration = 15 * time.Second
	pgoProfilePath    = "default.pgo"
)

func main() {
	flag.Parse()

	if *debugFlag {
		ripples.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	g, err := newGame()
	if err != nil {
		log.Fatalf("Ripple effect initialization failed: %v", err)
	}
	defer g.close()

	if *recordDefaultPGO {
		prof, err := startCPUProfile(pgoProfilePath)
		if err != nil {
			log.Fatalf("Starting PGO recording: %v", err)
		}
		g.enableAutoDrops(pgoRecordDuration, prof.Stop)
		log.Printf("Recording %s for %s", pgoProfilePath, pgoRecordDuration)
	}

	ebiten.SetWindowSize(*widthFlag, *heightFlag)
	ebiten.SetWindowTitle("Ripples")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(defaultTPS)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
