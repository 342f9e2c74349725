//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

// Standalone purge tower generator. Produces the raft plus a run of
// alternating switch and infill layers, which is enough to dial in a
// hardware configuration without slicing a full two-material job.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mwr666/filaswitch"
	"github.com/mwr666/filaswitch/gcode"

	"github.com/spf13/pflag"
)

var param struct {
	hwConfig    string
	startX      float64
	startY      float64
	layers      int
	layerHeight float64
	output      string
	verbose     bool
}

func init() {
	pflag.StringVarP(&param.hwConfig, "hardware", "H", filaswitch.PTFE,
		"Hardware configuration ("+strings.Join(filaswitch.HWConfigs, ", ")+")")
	pflag.Float64VarP(&param.startX, "start-x", "x", 10.0, "Tower start position X in mm")
	pflag.Float64VarP(&param.startY, "start-y", "y", 10.0, "Tower start position Y in mm")
	pflag.IntVarP(&param.layers, "layers", "n", 10, "Number of tower layers to generate")
	pflag.Float64Var(&param.layerHeight, "layer-height", 0.2, "Layer height in mm")
	pflag.StringVarP(&param.output, "output", "o", "", "Output file (default standard output)")
	pflag.BoolVarP(&param.verbose, "verbose", "v", false, "Log diagnostics to standard error")
}

type stderrLogger struct{}

func (stderrLogger) Debugf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func evaluate() (err error) {
	var log filaswitch.Logger = filaswitch.NopLogger{}
	if param.verbose {
		log = stderrLogger{}
	}

	tower, err := filaswitch.NewSwitchTower(param.startX, param.startY, log, param.hwConfig)
	if err != nil {
		return
	}

	out := os.Stdout
	if param.output != "" {
		out, err = os.Create(param.output)
		if err != nil {
			return
		}
		defer func() { out.Close() }()
	}

	writer := bufio.NewWriter(out)
	defer func() { writer.Flush() }()

	emit := func(lines []gcode.CommandLine) {
		for _, line := range lines {
			fmt.Fprintln(writer, line.LineString())
		}
	}

	extruders := []*filaswitch.Extruder{
		{Tool: 0, Retract: 3, RetractSpeed: 1500, ZHop: 0.4, FeedRate: 0.05, Wipe: 4},
		{Tool: 1, Retract: 3, RetractSpeed: 1500, ZHop: 0.4, FeedRate: 0.05, Wipe: 4},
	}

	const (
		xySpeed = 6000.0
		zSpeed  = 1500.0
		zHop    = 0.4
	)

	first := &filaswitch.Layer{
		Height:                 param.layerHeight,
		Z:                      0.2,
		OuterPerimeterSpeed:    1200,
		OuterPerimeterFeedRate: 0.05,
	}
	emit(tower.GetRaftLines(first, extruders[0], true, xySpeed, zSpeed))

	active := 0
	z := 0.2
	for n := 0; n < param.layers; n++ {
		z += param.layerHeight
		layer := &filaswitch.Layer{
			Height:                 param.layerHeight,
			Z:                      z,
			OuterPerimeterSpeed:    1200,
			OuterPerimeterFeedRate: 0.05,
		}

		// logical E position after the previous block's retract
		ePos := -extruders[active].Retract

		if n%2 == 0 {
			next := (active + 1) % len(extruders)
			emit(tower.GetTowerLines(layer, ePos, extruders[active], extruders[next], zHop, zSpeed, xySpeed))
			active = next
		} else {
			emit(tower.GetInfillLines(layer, ePos, extruders[active], zHop, zSpeed, xySpeed))
		}
	}

	return
}

func main() {
	pflag.Parse()

	err := evaluate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], err)
		os.Exit(1)
	}
}
