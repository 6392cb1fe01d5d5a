package game

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// loadSprite loads the wave sprite from path. With no path it builds a white
// disc, which the renderer tints per sample point.
func loadSprite(path string, size int) (img *ebiten.Image, builtin bool, err error) {
	if path == "" {
		return ebiten.NewImageFromImage(disc(size)), true, nil
	}
	img, _, err = ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("load sprite %s: %w", path, err)
	}
	return img, false, nil
}

func disc(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

// loadFace loads the title font from path, falling back to Go Regular.
func loadFace(path string, size float64) (*text.GoTextFace, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		data = b
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &text.GoTextFace{Source: src, Size: size}, nil
}
