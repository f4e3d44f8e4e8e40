// Package export writes the engine's one persisted artifact: the
// flattened PNG snapshot of the active sheet.
package export

import (
	"fmt"
	"io"
	"os"

	"SketchDeck/internal/board"
)

// PNG flattens the active sheet's visible state and writes the encoded
// image to w.
func PNG(w io.Writer, b *board.Board) error {
	data, err := b.ExportRaster()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SavePNG writes the snapshot to a file path.
func SavePNG(path string, b *board.Board) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := PNG(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
