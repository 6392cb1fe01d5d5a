package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/beat-visualization/internal/ui"
)

const (
	// Open button
	buttonX      = 20
	buttonY      = 50
	buttonWidth  = 120
	buttonHeight = 40

	// seekBarHeight is the clickable strip along the bottom edge. The drawn
	// bar is thinner.
	seekBarHeight = 12
)

func openButtonBounds() ui.Rect {
	return ui.Rect{X: buttonX, Y: buttonY, W: buttonWidth, H: buttonHeight}
}

func seekBarBounds(width, height int) ui.Rect {
	return ui.Rect{X: 0, Y: height - seekBarHeight, W: width, H: seekBarHeight}
}

// pointer reads this frame's left mouse button state.
func pointer() ui.Pointer {
	x, y := ebiten.CursorPosition()
	return ui.Pointer{
		X:            x,
		Y:            y,
		JustPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		JustReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
}
