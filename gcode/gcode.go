//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

// Package gcode generates the primitive motion and extrusion commands the
// tower generators are built from. Directions are angles in degrees on the
// XY plane; moves are emitted for the positioning mode the caller has set
// up (G90/G91).
package gcode

import (
	"fmt"
	"math"
)

// Direction angles in degrees.
const (
	E  = 0.0
	NE = 45.0
	N  = 90.0
	NW = 135.0
	W  = 180.0
	SW = 225.0
	S  = 270.0
	SE = 315.0
)

// IsFloatZero reports whether value rounds to zero at the given number of
// decimal places.
func IsFloatZero(value float64, decimals int) bool {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) == 0
}

// CalculatePathLength returns the XY distance between two points.
func CalculatePathLength(startX, startY, endX, endY float64) float64 {
	return math.Hypot(endX-startX, endY-startY)
}

func directionDeltas(direction, length float64) (dx, dy float64) {
	rad := direction * math.Pi / 180
	dx = math.Cos(rad) * length
	dy = math.Sin(rad) * length

	return
}

// GenHeadMove generates a head travel move to the given position.
func GenHeadMove(x, y, speed float64) string {
	return fmt.Sprintf("G1 X%.3f Y%.3f F%.1f", x, y, speed)
}

// GenZMove generates a Z axis move.
func GenZMove(z, speed float64) string {
	return fmt.Sprintf("G1 Z%.3f F%.1f", z, speed)
}

// GenTravelMove generates a directional travel move without extrusion.
// Axes whose component rounds to zero are omitted.
func GenTravelMove(direction, length, speed float64) (cmd string) {
	dx, dy := directionDeltas(direction, length)

	cmd = "G1"
	if !IsFloatZero(dx, 3) {
		cmd += fmt.Sprintf(" X%.3f", dx)
	}
	if !IsFloatZero(dy, 3) {
		cmd += fmt.Sprintf(" Y%.3f", dy)
	}
	cmd += fmt.Sprintf(" F%.1f", speed)

	return
}

// GenExtrusionMove generates a directional move extruding feedRate mm of
// filament per mm of travel. The closing segment of a path extrudes at a
// reduced rate so the seam does not blob.
func GenExtrusionMove(direction, length, speed, feedRate float64, lastLine bool) (cmd string) {
	dx, dy := directionDeltas(direction, length)

	eLength := feedRate * math.Abs(length)
	if lastLine {
		eLength *= 0.8
	}

	cmd = "G1"
	if !IsFloatZero(dx, 3) {
		cmd += fmt.Sprintf(" X%.3f", dx)
	}
	if !IsFloatZero(dy, 3) {
		cmd += fmt.Sprintf(" Y%.3f", dy)
	}
	cmd += fmt.Sprintf(" E%.4f F%.1f", eLength, speed)

	return
}

// GenToolChange generates a tool select command.
func GenToolChange(tool int) string {
	return fmt.Sprintf("T%d", tool)
}
