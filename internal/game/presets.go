package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// Preset is a named board shape.
type Preset struct {
	Name   string
	Width  int
	Height int
	Mines  int
}

// Presets are the standard difficulties.
var Presets = []Preset{
	{Name: "beginner", Width: 9, Height: 9, Mines: 10},
	{Name: "intermediate", Width: 16, Height: 16, Mines: 40},
	{Name: "expert", Width: 30, Height: 16, Mines: 99},
}

// PresetByName resolves a difficulty name, ignoring case.
func PresetByName(name string) (Preset, error) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: unknown difficulty %q", core.ErrInvalidConfiguration, name)
}

// Apply copies the preset's shape into cfg.
func (p Preset) Apply(cfg GameConfig) GameConfig {
	cfg.Width = p.Width
	cfg.Height = p.Height
	cfg.Mines = p.Mines
	return cfg
}

func (p Preset) String() string {
	return fmt.Sprintf("%s (%dx%d, %d mines)", p.Name, p.Width, p.Height, p.Mines)
}
