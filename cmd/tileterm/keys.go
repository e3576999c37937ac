package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/tilefall/sim"
)

// holdTicks is how long a key press counts as held. Terminals only report
// presses (and auto-repeat), never releases.
const holdTicks = 3

type command uint8

const (
	cmdNone command = iota
	cmdQuit
	cmdRestart
	cmdNext
	cmdDebug
)

// keyState folds terminal key presses into per-tick sim.Input values.
type keyState struct {
	left, right int
	jump        bool
	released    bool
}

// apply records one key event and returns any non-movement command.
func (k *keyState) apply(ev *tcell.EventKey) command {
	switch ev.Key() {
	case tcell.KeyLeft:
		k.hold(&k.left, &k.right)
		return cmdNone
	case tcell.KeyRight:
		k.hold(&k.right, &k.left)
		return cmdNone
	case tcell.KeyUp:
		k.jump = true
		return cmdNone
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return cmdQuit
	case tcell.KeyEnter:
		return cmdRestart
	case tcell.KeyRune:
	default:
		return cmdNone
	}

	switch ev.Rune() {
	case 'a', 'A', 'h', 'H':
		k.hold(&k.left, &k.right)
	case 'd', 'D', 'l', 'L':
		k.hold(&k.right, &k.left)
	case ' ', 'w', 'W', 'k', 'K':
		k.jump = true
	case 'r', 'R':
		return cmdRestart
	case 'n', 'N':
		return cmdNext
	case '`':
		return cmdDebug
	case 'q', 'Q':
		return cmdQuit
	}
	return cmdNone
}

// hold refreshes the pressed direction and drops the opposite one.
func (k *keyState) hold(pressed, other *int) {
	if *other > 0 {
		*other = 0
		k.released = true
	}
	*pressed = holdTicks
}

// next produces the input for one tick and ages the held keys.
func (k *keyState) next() sim.Input {
	in := sim.Input{
		Left:        k.left > 0,
		Right:       k.right > 0,
		JumpPressed: k.jump,
		Released:    k.released,
	}
	k.jump = false
	k.released = false

	for _, held := range []*int{&k.left, &k.right} {
		if *held > 0 {
			*held--
			if *held == 0 {
				k.released = true
			}
		}
	}
	return in
}

func (k *keyState) reset() {
	*k = keyState{}
}
