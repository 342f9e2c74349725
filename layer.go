//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package filaswitch

// Layer is the view of the current slice the tower generators need.
type Layer struct {
	Height                 float64 // layer height in mm
	Z                      float64 // absolute Z of the layer top in mm
	OuterPerimeterSpeed    float64 // minimum print speed in mm/min
	OuterPerimeterFeedRate float64 // filament mm per mm of travel
}

// GetOuterPerimeterRates returns the outer perimeter minimum speed and
// feed rate.
func (l *Layer) GetOuterPerimeterRates() (speed, feedRate float64) {
	speed = l.OuterPerimeterSpeed
	feedRate = l.OuterPerimeterFeedRate

	return
}
