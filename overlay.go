package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/tilefall/common"
	"github.com/milk9111/tilefall/prefabs"
	"github.com/milk9111/tilefall/sim"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/basicfont"
)

const defaultFadeSecs = 0.5

// Overlay is the end-of-level panel shown on Won or Dead. It fades in over
// the playfield and offers restart and next-level buttons.
type Overlay struct {
	won     *ebitenui.UI
	dead    *ebitenui.UI
	active  *ebitenui.UI
	detail  []*widget.Text
	canvas  *ebiten.Image
	fade    *gween.Tween
	alpha   float32
	fadeFor float32
}

// NewOverlay builds both panels up front; onRestart and onNext run from
// button clicks inside Update.
func NewOverlay(p *prefabs.PaletteSpec, onRestart, onNext func()) *Overlay {
	o := &Overlay{
		canvas:  ebiten.NewImage(common.BaseWidth, common.BaseHeight),
		fadeFor: defaultFadeSecs,
	}
	wonColor := color.Color(color.NRGBA{R: 0x29, G: 0xad, B: 0xff, A: 0xcc})
	deadColor := color.Color(color.NRGBA{R: 0xff, G: 0x00, B: 0x4d, A: 0xcc})
	textColor := color.Color(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	if p != nil {
		wonColor = p.Overlay.Won.Or(wonColor)
		deadColor = p.Overlay.Dead.Or(deadColor)
		textColor = p.Overlay.Text.Or(textColor)
		if p.Overlay.FadeSecs > 0 {
			o.fadeFor = float32(p.Overlay.FadeSecs)
		}
	}

	o.won = o.buildPanel("Key found!", wonColor, textColor, onRestart, onNext)
	o.dead = o.buildPanel("You fell too far", deadColor, textColor, onRestart, onNext)
	return o
}

func (o *Overlay) buildPanel(title string, bg, fg color.Color, onRestart, onNext func()) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(bg)
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	btnTextColor := &widget.ButtonTextColor{Idle: fg}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	titleText := widget.NewText(
		widget.TextOpts.Text(title, &face, fg),
		widget.TextOpts.WidgetOpts(center),
	)
	detail := widget.NewText(
		widget.TextOpts.Text("", &face, fg),
		widget.TextOpts.WidgetOpts(center),
	)
	o.detail = append(o.detail, detail)

	restartBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Restart (R)", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(center),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onRestart()
		}),
	)
	nextBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Next level (N)", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(center),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onNext()
		}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(titleText)
	panel.AddChild(detail)
	panel.AddChild(restartBtn)
	panel.AddChild(nextBtn)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}

// Show starts the fade for the panel matching state. Non-terminal states
// hide the overlay.
func (o *Overlay) Show(state sim.State, detail string) {
	switch state {
	case sim.Won:
		o.active = o.won
	case sim.Dead:
		o.active = o.dead
	default:
		o.Hide()
		return
	}
	for _, d := range o.detail {
		d.Label = detail
	}
	o.alpha = 0
	o.fade = gween.New(0, 1, o.fadeFor, ease.OutQuad)
}

func (o *Overlay) Hide() {
	o.active = nil
	o.fade = nil
	o.alpha = 0
}

func (o *Overlay) Update() {
	if o.active == nil {
		return
	}
	if o.fade != nil {
		alpha, done := o.fade.Update(1 / float32(ebiten.TPS()))
		o.alpha = alpha
		if done {
			o.fade = nil
		}
	}
	o.active.Update()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.active == nil {
		return
	}
	o.canvas.Clear()
	o.active.Draw(o.canvas)

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(o.alpha)
	screen.DrawImage(o.canvas, op)
}
