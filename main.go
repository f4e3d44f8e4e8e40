package main

import (
	"log"

	"SketchDeck/internal/ui"
)

func main() {
	log.SetFlags(log.Ltime)
	ui.RunApp()
}
