//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package filaswitch

// Logger is the diagnostic sink for the tower generators. Only debug
// traffic flows through it; the process owner decides where it lands.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// NopLogger discards all diagnostics.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...interface{}) {}
