// Package logging builds the zap loggers used by both binaries.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

var (
	newProduction  = zap.NewProduction
	newDevelopment = zap.NewDevelopment
)

// New returns a JSON production logger, or a console development logger
// when debug is set.
func New(name string, debug bool) (*zap.Logger, error) {
	build := newProduction
	if debug {
		build = newDevelopment
	}
	log, err := build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log.Named(name), nil
}
