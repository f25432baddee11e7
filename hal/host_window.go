//go:build !tinygo

package hal

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	ledCell = 32 // square plus gap
	ledPad  = 8
)

// RunWindow opens a desktop window that renders the board's LEDs as a row
// of squares. step is called once per frame to advance the system driving
// the board. It blocks until the window closes or step returns an error.
func RunWindow(title string, board Board, step func() error) error {
	hb, ok := board.(*hostBoard)
	if !ok {
		hb = newHostBoard(board.Logger(), board.LEDCount())
	}

	g := &panelGame{board: hb, step: step}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.width()*4, g.height()*4)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type panelGame struct {
	board *hostBoard
	img   *image.RGBA
	panel *ebiten.Image
	step  func() error
}

func (g *panelGame) width() int  { return g.board.LEDCount()*ledCell + ledPad }
func (g *panelGame) height() int { return ledCell + 2*ledPad }

func (g *panelGame) Update() error {
	if g.step != nil {
		return g.step()
	}
	return nil
}

func (g *panelGame) Draw(screen *ebiten.Image) {
	w, h := g.width(), g.height()
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		g.panel = ebiten.NewImage(w, h)
	}

	for i := range g.img.Pix {
		g.img.Pix[i] = 0
	}
	for i := 0; i < g.board.LEDCount(); i++ {
		var r, gg, b uint8 = 0x20, 0x20, 0x20
		if g.board.on(i) {
			r, gg, b = 0x00, 0xE0, 0x40
		}
		g.fillSquare(i*ledCell+ledPad, ledPad, ledCell-ledPad, r, gg, b)
	}

	g.panel.ReplacePixels(g.img.Pix)
	screen.DrawImage(g.panel, nil)
}

func (g *panelGame) fillSquare(x0, y0, side int, r, gg, b uint8) {
	for y := y0; y < y0+side; y++ {
		for x := x0; x < x0+side; x++ {
			j := y*g.img.Stride + x*4
			g.img.Pix[j+0] = r
			g.img.Pix[j+1] = gg
			g.img.Pix[j+2] = b
			g.img.Pix[j+3] = 0xFF
		}
	}
}

func (g *panelGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width(), g.height()
}
