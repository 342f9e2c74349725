//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

// Package filaswitch generates the purge tower command sequences used in
// multi-material prints: a one-time raft, a purge block for every tool
// change, and infill for layers where the tower only grows.
package filaswitch

import (
	"fmt"
	"math"

	"github.com/mwr666/filaswitch/gcode"
)

// SwitchTower is the per-job purge tower state machine. One instance is
// exclusively owned by a single caller and its generator methods must be
// invoked in ascending layer order: the flip-flop flags and the last
// printed tower Z live across calls, and every emitted line maps to
// sequential physical motion.
type SwitchTower struct {
	log Logger

	hwConfig string
	params   *hardwareParams

	width  float64
	height float64 // use even values

	wallWidth  float64
	wallHeight float64
	raftWidth  float64
	raftHeight float64

	startPosX float64
	startPosY float64
	raftPosX  float64
	raftPosY  float64

	lastTowerZ     float64
	flipflopPurge  bool
	flipflopInfill bool

	purgeLineLength float64
	purgeLines      int
	prepurgeSign    float64

	preSwitchLines  map[bool][]gcode.CommandLine
	postSwitchLines []gcode.CommandLine
}

// NewSwitchTower returns a tower anchored at the given start position.
// An unknown hardware configuration is an error; silently generating a
// tool change with no purge tables jams the hotend.
func NewSwitchTower(startPosX, startPosY float64, log Logger, hwConfig string) (st *SwitchTower, err error) {
	params, ok := hardwareParamsTable[hwConfig]
	if !ok {
		err = fmt.Errorf("%s: unknown hardware configuration", hwConfig)
		return
	}

	if log == nil {
		log = NopLogger{}
	}

	st = &SwitchTower{
		log:      log,
		hwConfig: hwConfig,
		params:   params,
		width:    50,
		height:   14 + params.heightDelta,
	}

	st.wallWidth = st.width + 2.4
	st.wallHeight = st.height + 1
	st.raftWidth = st.width + 4
	st.raftHeight = st.height + 2

	st.startPosX = startPosX
	st.startPosY = startPosY
	st.raftPosX = startPosX - 2
	st.raftPosY = startPosY - 1.2

	st.purgeLineLength = st.width + 0.6
	st.purgeLines = int(st.height/2) - 1 + params.purgeLineDelta
	st.prepurgeSign = params.prepurgeSign

	st.preSwitchLines, st.postSwitchLines = buildSwitchTables(params, st.width)

	return
}

// GeneratePurgeSpeeds returns the print speed for each post-switch purge
// line. The ramp down to minSpeed is currently disabled: every line prints
// at 2400.
func (st *SwitchTower) GeneratePurgeSpeeds(minSpeed float64) (speeds []float64) {
	for i := 0; i < st.purgeLines; i++ {
		speeds = append(speeds, 2400)
	}

	return
}

// getRetraction computes the retract needed to park the filament given the
// current logical E position. Near-zero retracts are suppressed and the
// length is capped at the extruder's configured retract.
func (st *SwitchTower) getRetraction(ePos float64, extruder *Extruder) (line gcode.CommandLine, ok bool) {
	retraction := extruder.Retract + ePos
	st.log.Debugf("Retraction to add: %v. E position: %v", retraction, ePos)

	if gcode.IsFloatZero(retraction, 3) {
		return
	}
	if retraction > extruder.Retract {
		retraction = extruder.Retract
	}

	line = gcode.CommandLine{
		Command: fmt.Sprintf("G1 E%.4f F%.1f", -retraction, extruder.RetractSpeed),
		Comment: " tower retract",
	}
	ok = true

	return
}

// getZHop emits a lift above the last printed tower Z, unless the head is
// already lifted to that height.
func (st *SwitchTower) getZHop(layer *Layer, zHop, zSpeed float64, extruder *Extruder) (line gcode.CommandLine, ok bool) {
	if extruder.ZHop == 0 {
		return
	}

	newZHop := st.lastTowerZ + extruder.ZHop
	if newZHop == layer.Z+zHop {
		return
	}

	line = gcode.CommandLine{
		Command: gcode.GenZMove(newZHop, zSpeed),
		Comment: " z-hop",
	}
	ok = true

	return
}

// getWallPositionGcode positions the head for the wall print. Flip selects
// the lower anchor, flop the one above the wall.
func (st *SwitchTower) getWallPositionGcode(flipflop bool, xySpeed float64) gcode.CommandLine {
	x := st.startPosX - 1.2
	y := st.startPosY - 0.5
	if !flipflop {
		y += st.wallHeight
	}

	return gcode.CommandLine{
		Command: gcode.GenHeadMove(x, y, xySpeed),
		Comment: " move to purge zone",
	}
}

// getWallGcode prints the tower perimeter: three full sides and a
// shortened closing side. The flip states mirror each other vertically so
// successive layers tile without gaps.
func (st *SwitchTower) getWallGcode(flipflop bool, wallSpeed, feedRate float64) (lines []gcode.CommandLine) {
	lastY := st.wallHeight - 0.3

	dirFirst, dirLast := gcode.N, gcode.S
	if !flipflop {
		dirFirst, dirLast = gcode.S, gcode.N
	}

	lines = append(lines,
		gcode.CommandLine{Command: gcode.GenExtrusionMove(gcode.E, st.wallWidth, wallSpeed, feedRate, false), Comment: " wall"},
		gcode.CommandLine{Command: gcode.GenExtrusionMove(dirFirst, st.wallHeight, wallSpeed, feedRate, false), Comment: " wall"},
		gcode.CommandLine{Command: gcode.GenExtrusionMove(gcode.W, st.wallWidth, wallSpeed, feedRate, false), Comment: " wall"},
		gcode.CommandLine{Command: gcode.GenExtrusionMove(dirLast, lastY, wallSpeed, feedRate, true), Comment: " wall"},
	)

	return
}

// GetRaftLines generates the tower raft. Called once per job, before any
// switch or infill layer; leaves the tower Z at the raft surface.
func (st *SwitchTower) GetRaftLines(firstLayer *Layer, extruder *Extruder, retract bool, xySpeed, zSpeed float64) (lines []gcode.CommandLine) {
	lines = append(lines, gcode.Marker(" TOWER RAFT START"))

	if extruder.ZHop != 0 {
		lines = append(lines, gcode.CommandLine{
			Command: gcode.GenZMove(0.2+extruder.ZHop, zSpeed),
			Comment: " z-hop",
		})
	}
	lines = append(lines, gcode.CommandLine{
		Command: gcode.GenHeadMove(st.raftPosX-0.4, st.raftPosY-0.4, xySpeed),
		Comment: " move to raft zone",
	})
	lines = append(lines, gcode.CommandLine{Command: gcode.GenZMove(0.2, zSpeed), Comment: " move z close"})
	lines = append(lines, gcode.CommandLine{Command: "G91", Comment: " relative positioning"})

	// box: three nested perimeters, shrinking by the line width per pass
	width := st.raftWidth + 0.8
	height := st.raftHeight + 0.8
	feedRate := extruder.GetFeedRate(1)
	speed := 2000.0

	wall := func(direction, length float64) gcode.CommandLine {
		return gcode.CommandLine{
			Command: gcode.GenExtrusionMove(direction, length, speed, feedRate, false),
			Comment: " raft wall",
		}
	}

	lines = append(lines, wall(gcode.E, width), wall(gcode.N, height), wall(gcode.W, width))
	width -= 0.4
	height -= 0.4
	lines = append(lines, wall(gcode.S, height), wall(gcode.E, width))
	height -= 0.4
	lines = append(lines, wall(gcode.N, height))
	width -= 0.4
	height -= 0.4
	lines = append(lines, wall(gcode.W, width), wall(gcode.S, height))

	lines = append(lines, gcode.CommandLine{Command: gcode.GenTravelMove(gcode.SE, 0.6, xySpeed)})

	fillFeedRate := extruder.GetFeedRate(1.3)
	speed = 1000
	for i := 0; i < int(st.raftWidth/2); i++ {
		lines = append(lines,
			gcode.CommandLine{Command: gcode.GenExtrusionMove(gcode.N, st.raftHeight, speed, fillFeedRate, false), Comment: " raft1"},
			gcode.CommandLine{Command: gcode.GenTravelMove(gcode.E, 1, speed), Comment: " raft2"},
			gcode.CommandLine{Command: gcode.GenExtrusionMove(gcode.S, st.raftHeight, speed, fillFeedRate, false), Comment: " raft3"},
			gcode.CommandLine{Command: gcode.GenTravelMove(gcode.E, 1, speed), Comment: " raft4"},
		)
	}

	if retract {
		lines = append(lines, extruder.GetRetractGcode())
	}
	lines = append(lines, gcode.CommandLine{Command: "G90", Comment: " absolute positioning"})
	lines = append(lines, gcode.Marker(" TOWER RAFT END"))

	st.lastTowerZ = 0.2

	return
}

// GetTowerLines generates one purge tower block for a tool change from
// oldE to newE. Exactly one tool change command is emitted per call; the
// tower Z advances by the layer height and the purge flip-flop inverts.
func (st *SwitchTower) GetTowerLines(layer *Layer, ePos float64, oldE, newE *Extruder, zHop, zSpeed, xySpeed float64) (lines []gcode.CommandLine) {
	st.log.Debugf("Adding purge tower")
	lines = append(lines, gcode.Marker(" TOWER START"))

	minSpeed, feedRate := layer.GetOuterPerimeterRates()

	if line, ok := st.getRetraction(ePos, oldE); ok {
		lines = append(lines, line)
	}
	if line, ok := st.getZHop(layer, zHop, zSpeed, oldE); ok {
		lines = append(lines, line)
	}

	st.lastTowerZ += layer.Height
	if st.flipflopPurge {
		lines = append(lines, gcode.CommandLine{
			Command: gcode.GenHeadMove(st.startPosX-0.6, st.startPosY+0.2, xySpeed),
			Comment: " move to purge zone",
		})
	} else {
		lines = append(lines, gcode.CommandLine{
			Command: gcode.GenHeadMove(st.startPosX+0.6, st.startPosY, xySpeed),
			Comment: " move to purge zone",
		})
	}

	lines = append(lines, gcode.CommandLine{Command: gcode.GenZMove(st.lastTowerZ, zSpeed), Comment: " move z close"})
	lines = append(lines, gcode.CommandLine{Command: "G91", Comment: " relative positioning"})
	lines = append(lines, oldE.GetPrimeGcode(-0.1))

	// pre-switch purge
	lines = append(lines, st.preSwitchLines[st.flipflopPurge]...)

	lines = append(lines, gcode.CommandLine{Command: gcode.GenToolChange(newE.Tool), Comment: " change tool"})

	// feed new filament
	lines = append(lines, st.postSwitchLines...)

	// post-switch purge; direction pair depends on the prepurge orientation
	purgeFeedRate := newE.GetFeedRate(1.2)
	purgeLength := st.purgeLineLength * st.prepurgeSign

	dir1, dir2 := gcode.W, gcode.E
	if st.prepurgeSign != 1 {
		dir1, dir2 = gcode.E, gcode.W
	}

	shift1, shift2 := 0.9, 0.6
	if st.flipflopPurge {
		shift1, shift2 = 0.6, 0.9
	}

	for _, speed := range st.GeneratePurgeSpeeds(minSpeed) {
		lines = append(lines,
			gcode.CommandLine{Command: gcode.GenTravelMove(gcode.N, shift1, 3000), Comment: " Y shift"},
			gcode.CommandLine{Command: gcode.GenExtrusionMove(dir1, purgeLength, speed, purgeFeedRate, false), Comment: " purge trail"},
			gcode.CommandLine{Command: gcode.GenTravelMove(gcode.N, shift2, 3000), Comment: " Y shift"},
			gcode.CommandLine{Command: gcode.GenExtrusionMove(dir2, purgeLength, speed, purgeFeedRate, false), Comment: " purge trail"},
		)
	}

	lines = append(lines, gcode.CommandLine{Command: gcode.GenTravelMove(gcode.N, shift1, 3000), Comment: " Y shift"})
	lines = append(lines, gcode.CommandLine{Command: gcode.GenExtrusionMove(dir1, purgeLength, 2400, feedRate, false), Comment: " purge trail"})
	direction := dir1

	if st.params.extraPurgeLine {
		// extra purge volume for the longer melt zone
		lines = append(lines, gcode.CommandLine{Command: gcode.GenTravelMove(gcode.N, shift2, 3000), Comment: " Y shift"})
		lines = append(lines, gcode.CommandLine{Command: gcode.GenExtrusionMove(dir2, purgeLength, minSpeed, feedRate, false), Comment: " purge trail"})
		direction = dir2
	}

	// move to purge zone upper left corner
	lines = append(lines, gcode.CommandLine{Command: "G90", Comment: " absolute positioning"})
	lines = append(lines, st.getWallPositionGcode(false, xySpeed))
	lines = append(lines, gcode.CommandLine{Command: "G91", Comment: " relative positioning"})

	lines = append(lines, st.getWallGcode(false, minSpeed, feedRate)...)

	lines = append(lines, newE.GetRetractGcode())
	if newE.Wipe != 0 {
		lines = append(lines, gcode.CommandLine{
			Command: gcode.GenTravelMove(direction+180, newE.Wipe, 3000),
			Comment: " wipe",
		})
	}

	lines = append(lines, gcode.CommandLine{Command: "G90", Comment: " absolute positioning"})
	lines = append(lines, gcode.CommandLine{Command: "G92 E0", Comment: " reset extruder position"})
	if line, ok := st.getZHop(layer, zHop, zSpeed, oldE); ok {
		lines = append(lines, line)
	}
	lines = append(lines, gcode.Marker(" TOWER END"))

	// flip the flop
	st.flipflopPurge = !st.flipflopPurge

	return
}

// GetInfillLines generates tower infill for a layer without a tool change:
// the perimeter wall plus a zig-zag fill. The tower Z advances by the
// layer height and the infill flip-flop inverts.
func (st *SwitchTower) GetInfillLines(layer *Layer, ePos float64, extruder *Extruder, zHop, zSpeed, xySpeed float64) (lines []gcode.CommandLine) {
	st.log.Debugf("Adding purge tower infill")
	lines = append(lines, gcode.Marker(" TOWER INFILL START"))

	minSpeed, feedRate := layer.GetOuterPerimeterRates()

	if line, ok := st.getRetraction(ePos, extruder); ok {
		lines = append(lines, line)
	}
	if line, ok := st.getZHop(layer, zHop, zSpeed, extruder); ok {
		lines = append(lines, line)
	}
	st.lastTowerZ += layer.Height

	lines = append(lines, st.getWallPositionGcode(st.flipflopInfill, xySpeed))
	lines = append(lines, gcode.CommandLine{Command: gcode.GenZMove(st.lastTowerZ, zSpeed), Comment: " move z close"})
	lines = append(lines, gcode.CommandLine{Command: "G91", Comment: " relative positioning"})
	lines = append(lines, extruder.GetPrimeGcode(0))

	infillX := st.wallWidth / 6
	infillY := st.wallHeight - 0.3
	infillAngle := math.Atan(infillY/infillX) * 180 / math.Pi
	infillPathLength := gcode.CalculatePathLength(0, 0, infillX, infillY)

	lines = append(lines, st.getWallGcode(st.flipflopInfill, 2400, feedRate)...)

	flip := st.flipflopInfill

	step := (2400 - minSpeed) / 4
	var speeds []float64
	for i := 0; i < 4; i++ {
		speeds = append(speeds, 2400-float64(i)*step)
	}
	speeds = append(speeds, minSpeed, minSpeed)

	direction := infillAngle
	for i, speed := range speeds {
		if flip {
			direction = infillAngle
		} else {
			direction = 360 - infillAngle
		}
		lines = append(lines, gcode.CommandLine{
			Command: gcode.GenExtrusionMove(direction, infillPathLength, speed, feedRate, i == len(speeds)-1),
			Comment: " infill",
		})
		flip = !flip
	}

	lines = append(lines, extruder.GetRetractGcode())
	if extruder.Wipe != 0 {
		lines = append(lines, gcode.CommandLine{
			Command: gcode.GenTravelMove(direction+180, extruder.Wipe, 2000),
			Comment: " wipe",
		})
	}

	lines = append(lines, gcode.CommandLine{Command: "G90", Comment: " absolute positioning"})
	if line, ok := st.getZHop(layer, zHop, zSpeed, extruder); ok {
		lines = append(lines, line)
	}
	lines = append(lines, gcode.CommandLine{Command: "G92 E0", Comment: " reset extruder position"})
	lines = append(lines, gcode.Marker(" TOWER INFILL END"))

	// flip the flop
	st.flipflopInfill = !st.flipflopInfill

	return
}
