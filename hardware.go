//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package filaswitch

import (
	"fmt"

	"github.com/mwr666/filaswitch/gcode"
)

// Supported hardware configurations.
const (
	PTFE  = "PTFE-PRO-12"
	E3DV6 = "PTFE-EV6"
	PEEK  = "PEEK-PRO-12"
)

// HWConfigs lists the supported hardware configurations.
var HWConfigs = []string{PTFE, E3DV6, PEEK}

// hardwareParams is the per-configuration template for the purge and prime
// command tables. All numbers here are physical tuning values; changing
// them changes nozzle behavior, not just output text.
type hardwareParams struct {
	heightDelta    float64 // added to the base tower height
	purgeLineDelta int     // added to the computed purge line count
	extraPurgeLine bool    // one extra post-switch purge pass at minimum speed

	prepurgeSign float64 // prime trail direction along X

	flipShifts []float64 // Y shift after each prepurge trail, flip state
	flopShifts []float64 // same, flop state

	finishLines []gcode.CommandLine // retract and cooling after the prepurge trails

	primeFeedLines    []gcode.CommandLine // filament feed after the tool change
	primeTrailXOffset float64             // added to the signed prime trail length
	primeTrailRate    float64             // filament mm per mm of prime trail
	primeTrailSpeed   int
}

var hardwareParamsTable = map[string]*hardwareParams{
	PEEK: {
		prepurgeSign: 1,
		flipShifts:   []float64{0.6, 1.4, 0.6, 1.4},
		flopShifts:   []float64{1.4, 0.6, 1.4, 0.6},
		finishLines: []gcode.CommandLine{
			{Command: "G1 X10.000 E-20.0000 F1500", Comment: " drip trail"},
			{Command: "G1 E-15 F1500", Comment: " 25mm/s reshaping"},
			{Command: "G4 P2000", Comment: " 2s cooling period"},
			{Command: "G1 E-95 F1500", Comment: " 25mm/s long retract"},
		},
		primeFeedLines: []gcode.CommandLine{
			{Command: "G1 E125 F1500", Comment: " 25mm/s feed"},
		},
		primeTrailXOffset: -10,
		primeTrailRate:    1.6 / 40,
		primeTrailSpeed:   1500,
	},
	PTFE: {
		prepurgeSign: 1,
		flipShifts:   []float64{0.6, 1.4, 0.6, 1.4},
		flopShifts:   []float64{1.4, 0.6, 1.4, 0.6},
		finishLines: []gcode.CommandLine{
			{Command: "G1 E-20 F3000", Comment: " rapid retract"},
			{Command: "G4 P2500", Comment: " 2.5s cooling period"},
			{Command: "G1 E-140 F3000", Comment: " 50mm/s long retract"},
		},
		primeFeedLines: []gcode.CommandLine{
			{Command: "G1 E100 F3000", Comment: " 50mm/s feed"},
			{Command: "G1 E54 F1500", Comment: " 25mm/s feed"},
		},
		primeTrailRate:  5.0 / 50,
		primeTrailSpeed: 900,
	},
	E3DV6: {
		heightDelta:    2,
		purgeLineDelta: -1,
		extraPurgeLine: true,
		prepurgeSign:   -1,
		flipShifts:     []float64{0.8, 1.4, 0.6, 1.4, 1.0},
		flopShifts:     []float64{1.4, 0.6, 1.4, 0.6, 1.4},
		finishLines: []gcode.CommandLine{
			{Command: "G1 E-20 F3000", Comment: " rapid retract"},
			{Command: "G4 P2500", Comment: " 2.5s cooling period"},
			{Command: "G1 E-140 F3000", Comment: " 50mm/s long retract"},
		},
		primeFeedLines: []gcode.CommandLine{
			{Command: "G1 E100 F3000", Comment: " 50mm/s feed"},
			{Command: "G1 E54 F1500", Comment: " 25mm/s feed"},
		},
		primeTrailRate:  5.0 / 50,
		primeTrailSpeed: 900,
	},
}

// buildSwitchTables builds the pre-switch purge tables for both flip states
// and the post-switch prime table for one hardware configuration and tower
// width. The tables are immutable once built.
func buildSwitchTables(params *hardwareParams, width float64) (preSwitch map[bool][]gcode.CommandLine, postSwitch []gcode.CommandLine) {
	prepurgeFeedLength := width * (4.5 / 50)

	preSwitch = map[bool][]gcode.CommandLine{}
	for _, flip := range []bool{true, false} {
		shifts := params.flipShifts
		if !flip {
			shifts = params.flopShifts
		}

		var lines []gcode.CommandLine
		trail := width
		for _, shift := range shifts {
			lines = append(lines, gcode.CommandLine{
				Command: fmt.Sprintf("G1 X%.3f E%.4f F6000", trail, prepurgeFeedLength),
				Comment: " purge trail",
			})
			lines = append(lines, gcode.CommandLine{
				Command: fmt.Sprintf("G1 Y%g F3000", shift),
				Comment: " Y shift",
			})
			trail = -trail
		}
		lines = append(lines, params.finishLines...)

		preSwitch[flip] = lines
	}

	postSwitch = append(postSwitch, params.primeFeedLines...)
	postSwitch = append(postSwitch, gcode.CommandLine{
		Command: fmt.Sprintf("G1 X%.3f E%.4f F%d",
			params.prepurgeSign*width+params.primeTrailXOffset,
			width*params.primeTrailRate,
			params.primeTrailSpeed),
		Comment: " prime trail",
	})

	return
}
