package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/beat-visualization/internal/config"
	"github.com/iburimskiy/beat-visualization/internal/ui"
	"github.com/iburimskiy/beat-visualization/internal/visual"
)

func (g *Game) Draw(screen *ebiten.Image) {
	vis := g.sketch.Visual()
	screen.Fill(vis.Background())

	g.drawWave(screen, vis)
	g.drawTitle(screen)
	g.drawButton(screen)
	g.drawProgress(screen)
	g.drawStatus(screen)
}

// drawWave places one sprite per wave point across the width, centered
// vertically. While the rotation flag is set each sprite is turned 45°.
func (g *Game) drawWave(screen *ebiten.Image, vis *visual.State) {
	wave := vis.Wave()
	if len(wave) == 0 {
		return
	}
	bounds := g.sprite.Bounds()
	size := float64(config.SpriteSize)
	sx := size / float64(bounds.Dx())
	sy := size / float64(bounds.Dy())
	mid := float64(g.height) / 2

	for i, y := range wave {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(sx, sy)
		if vis.Rotate() {
			op.GeoM.Translate(-size/2, -size/2)
			op.GeoM.Rotate(math.Pi / 4)
			op.GeoM.Translate(size/2, size/2)
		}
		op.GeoM.Translate(float64(i)*vis.XSpacing(), mid+y)
		if g.builtinSprite {
			op.ColorScale.ScaleWithColor(visual.Hue(float64(i)*360/float64(len(wave)), 0.8, 0.9))
		}
		screen.DrawImage(g.sprite, op)
	}
}

func (g *Game) drawTitle(screen *ebiten.Image) {
	w, _ := text.Measure(config.Title, g.face, 0)
	op := &text.DrawOptions{}
	// Baseline sits at TitleBaseline; text/v2 positions by the top of the line.
	op.GeoM.Translate(float64(g.width)/2-w/2, config.TitleBaseline-g.face.Metrics().HAscent)
	op.ColorScale.ScaleWithColor(color.Black)
	text.Draw(screen, config.Title, g.face, op)
}

func (g *Game) drawProgress(screen *ebiten.Image) {
	t := g.player.Track()
	if t == nil {
		return
	}
	p := ui.Progress(g.player.Position(), t.Duration())
	h := float32(3)
	if g.seekBar.Hovered() || g.seekBar.Dragging() {
		h = 6
		vector.DrawFilledRect(screen, 0, float32(g.height)-h, float32(g.width), h, color.RGBA{A: 90}, false)
	}
	vector.DrawFilledRect(screen, 0, float32(g.height)-h, float32(p*float64(g.width)), h, color.RGBA{R: 255, G: 255, B: 255, A: 180}, false)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	b := g.openButton
	r := b.Bounds
	var bg color.Color
	switch {
	case b.Pressed():
		bg = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	case b.Hovered():
		bg = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	default:
		bg = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	}
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), bg, false)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)

	// DebugPrint glyphs are 6x16.
	tx := r.X + (r.W-len(b.Label)*6)/2
	ty := r.Y + (r.H-16)/2
	ebitenutil.DebugPrintAt(screen, b.Label, tx, ty)
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	var status string
	switch {
	case !g.player.Loaded():
		status = "Click Open File or press O to open an audio file, Esc/Q: quit"
	case g.player.Paused():
		status = "Paused - Space to play, O to open another"
	default:
		status = "Playing - Space to pause, O to open another"
	}
	if t := g.player.Track(); t != nil {
		status = fmt.Sprintf("%s / %s  %s", ui.FormatDuration(g.player.Position()), ui.FormatDuration(t.Duration()), status)
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, g.height-seekBarHeight-20)

	if !g.idle {
		d := g.last.Detector
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("level %.3f  cutoff %.3f  beats %d  tps %.0f", g.last.Level, d.Cutoff, d.Beats, ebiten.ActualTPS()),
			12, g.height-seekBarHeight-36)
	}
}
