package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilefall/sim"
)

var (
	leftKeys  = []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}
	rightKeys = []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}
	jumpKeys  = []ebiten.Key{ebiten.KeySpace, ebiten.KeyW, ebiten.KeyArrowUp}
)

// Input turns keyboard and gamepad state into a sim.Input once per frame.
type Input struct {
	stickLeft  bool
	stickRight bool
}

func NewInput() *Input {
	return &Input{}
}

func (i *Input) Poll() sim.Input {
	const stickDeadzone = 0.2

	in := sim.Input{
		Left:        anyPressed(leftKeys),
		Right:       anyPressed(rightKeys),
		JumpPressed: anyJustPressed(jumpKeys),
		Released:    anyJustReleased(leftKeys) || anyJustReleased(rightKeys),
	}

	stickLeft, stickRight := false, false
	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(x) > stickDeadzone {
			stickLeft, stickRight = x < 0, x > 0
		}
		stickLeft = stickLeft || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft)
		stickRight = stickRight || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight)
		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}
	in.Left = in.Left || stickLeft
	in.Right = in.Right || stickRight
	if (i.stickLeft && !stickLeft) || (i.stickRight && !stickRight) {
		in.Released = true
	}
	i.stickLeft, i.stickRight = stickLeft, stickRight

	return in
}

// RestartPressed reports the key or button that restarts a finished level.
func (i *Input) RestartPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return true
	}
	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		return inpututil.IsStandardGamepadButtonJustPressed(gamepads[0], ebiten.StandardGamepadButtonCenterRight)
	}
	return false
}

func (i *Input) NextPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyN)
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

func anyJustReleased(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustReleased(k) {
			return true
		}
	}
	return false
}
