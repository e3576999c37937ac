package grid

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownKind = errors.New("grid: unknown tile kind")

// Kind is the tile vocabulary of a level. The set is closed.
type Kind uint8

const (
	Air Kind = iota
	Grass
	GrassLeft
	GrassRight
	Wall
	Key
)

var kindNames = [...]string{
	Air:        "air",
	Grass:      "grass",
	GrassLeft:  "grass_left",
	GrassRight: "grass_right",
	Wall:       "wall",
	Key:        "key",
}

// IsWall reports whether the kind blocks movement. Grass variants are
// cosmetic and collide exactly like Wall.
func (k Kind) IsWall() bool {
	switch k {
	case Air, Key:
		return false
	case Grass, GrassLeft, GrassRight, Wall:
		return true
	default:
		return false
	}
}

func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// Code is the numeric tag used by level files and the tile renderer.
func (k Kind) Code() uint32 {
	return uint32(k)
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// KindFromCode converts a numeric tag back into a Kind.
func KindFromCode(code int) (Kind, error) {
	if code < 0 || code >= len(kindNames) {
		return Air, fmt.Errorf("%w: code %d", ErrUnknownKind, code)
	}
	return Kind(code), nil
}

// ParseKind accepts the textual tag ("grass_left") or the Go-style
// name ("GrassLeft"), case-insensitively.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	for i, name := range kindNames {
		if strings.ReplaceAll(name, "_", "") == norm {
			return Kind(i), nil
		}
	}
	return Air, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: code %d", ErrUnknownKind, uint8(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
