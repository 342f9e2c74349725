//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package gcode

import (
	"testing"
)

func TestIsFloatZero(t *testing.T) {
	table := map[string]struct {
		Value    float64
		Decimals int
		Zero     bool
	}{
		"zero":           {0.0, 3, true},
		"below":          {0.0004, 3, true},
		"below-negative": {-0.0004, 3, true},
		"above":          {0.0006, 3, false},
		"cancelled":      {2.0 - 2.0, 3, true},
		"large":          {0.5, 3, false},
		"coarse":         {0.04, 1, true},
	}

	for key, item := range table {
		zero := IsFloatZero(item.Value, item.Decimals)
		if zero != item.Zero {
			t.Errorf("%v: expected %v, got %v", key, item.Zero, zero)
		}
	}
}

func TestCalculatePathLength(t *testing.T) {
	length := CalculatePathLength(0, 0, 3, 4)
	if length != 5 {
		t.Errorf("expected 5, got %v", length)
	}
}

func TestGenHeadMove(t *testing.T) {
	cmd := GenHeadMove(10, 20.5, 6000)
	if cmd != "G1 X10.000 Y20.500 F6000.0" {
		t.Errorf("unexpected head move: %q", cmd)
	}
}

func TestGenZMove(t *testing.T) {
	cmd := GenZMove(0.2, 1500)
	if cmd != "G1 Z0.200 F1500.0" {
		t.Errorf("unexpected z move: %q", cmd)
	}
}

func TestGenTravelMove(t *testing.T) {
	table := map[string]struct {
		Direction float64
		Length    float64
		Speed     float64
		Out       string
	}{
		"north":    {N, 0.6, 3000, "G1 Y0.600 F3000.0"},
		"south":    {S, 14.7, 1000, "G1 Y-14.700 F1000.0"},
		"east":     {E, 1, 1000, "G1 X1.000 F1000.0"},
		"west":     {W, 52.4, 2000, "G1 X-52.400 F2000.0"},
		"diagonal": {SE, 0.6, 3000, "G1 X0.424 Y-0.424 F3000.0"},
		"wrapped":  {W + 180, 4, 3000, "G1 X4.000 F3000.0"},
	}

	for key, item := range table {
		cmd := GenTravelMove(item.Direction, item.Length, item.Speed)
		if cmd != item.Out {
			t.Errorf("%v: expected %q, got %q", key, item.Out, cmd)
		}
	}
}

func TestGenExtrusionMove(t *testing.T) {
	table := map[string]struct {
		Direction float64
		Length    float64
		Speed     float64
		FeedRate  float64
		LastLine  bool
		Out       string
	}{
		"east":       {E, 50.6, 2400, 0.05, false, "G1 X50.600 E2.5300 F2400.0"},
		"west":       {W, 52.4, 2400, 0.05, false, "G1 X-52.400 E2.6200 F2400.0"},
		"negative":   {W, -50.6, 2400, 0.05, false, "G1 X50.600 E2.5300 F2400.0"},
		"last-line":  {N, 10, 1200, 0.1, true, "G1 Y10.000 E0.8000 F1200.0"},
		"full-north": {N, 15, 1200, 0.1, false, "G1 Y15.000 E1.5000 F1200.0"},
	}

	for key, item := range table {
		cmd := GenExtrusionMove(item.Direction, item.Length, item.Speed, item.FeedRate, item.LastLine)
		if cmd != item.Out {
			t.Errorf("%v: expected %q, got %q", key, item.Out, cmd)
		}
	}
}

func TestGenToolChange(t *testing.T) {
	if cmd := GenToolChange(1); cmd != "T1" {
		t.Errorf("expected T1, got %q", cmd)
	}
}

func TestLineString(t *testing.T) {
	table := map[string]struct {
		Line CommandLine
		Out  string
	}{
		"command": {CommandLine{Command: "G90", Comment: " absolute positioning"}, "G90; absolute positioning"},
		"marker":  {Marker(" TOWER START"), "; TOWER START"},
		"bare":    {CommandLine{Command: "G92 E0"}, "G92 E0"},
	}

	for key, item := range table {
		out := item.Line.LineString()
		if out != item.Out {
			t.Errorf("%v: expected %q, got %q", key, item.Out, out)
		}
	}

	if !Marker(" TOWER END").IsMarker() {
		t.Errorf("marker not detected")
	}
	if (CommandLine{Command: "G90"}).IsMarker() {
		t.Errorf("command detected as marker")
	}
}
