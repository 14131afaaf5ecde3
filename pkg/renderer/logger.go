package renderer

import (
	"github.com/golang/glog"

	"github.com/Treecase/Raytracer/pkg/core"
)

// GlogLogger implements core.Logger on top of glog at a fixed verbosity
type GlogLogger struct {
	Level glog.Level
}

func (gl *GlogLogger) Printf(format string, args ...interface{}) {
	glog.V(gl.Level).Infof(format, args...)
}

// NewGlogLogger creates a logger that writes through glog.V(level)
func NewGlogLogger(level glog.Level) core.Logger {
	return &GlogLogger{Level: level}
}

// nopLogger discards everything
type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}
