//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package filaswitch

import (
	"fmt"

	"github.com/mwr666/filaswitch/gcode"
)

// Extruder describes one tool's filament handling parameters.
type Extruder struct {
	Tool         int
	Retract      float64 // retract length in mm
	RetractSpeed float64 // retract and prime speed in mm/min
	ZHop         float64 // travel lift in mm, 0 disables
	FeedRate     float64 // filament mm per mm of travel
	Wipe         float64 // wipe length in mm, 0 disables
}

// GetFeedRate returns the extrusion feed rate scaled by multiplier.
func (e *Extruder) GetFeedRate(multiplier float64) float64 {
	return e.FeedRate * multiplier
}

// GetRetractGcode generates a filament retract at the configured speed.
func (e *Extruder) GetRetractGcode() gcode.CommandLine {
	return gcode.CommandLine{
		Command: fmt.Sprintf("G1 E%.4f F%.1f", -e.Retract, e.RetractSpeed),
		Comment: " retract",
	}
}

// GetPrimeGcode generates a filament prime; change adjusts the primed
// length relative to the configured retract.
func (e *Extruder) GetPrimeGcode(change float64) gcode.CommandLine {
	return gcode.CommandLine{
		Command: fmt.Sprintf("G1 E%.4f F%.1f", e.Retract+change, e.RetractSpeed),
		Comment: " prime",
	}
}
