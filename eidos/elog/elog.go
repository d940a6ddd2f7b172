// Package elog provides the structured logging used throughout the
// simulation engine and interpreter, wrapping a single package-level
// logrus logger with helpers named after the life cycle's own
// vocabulary rather than generic Debug/Info/Warn calls at every site.
package elog

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLevel adjusts the package logger's verbosity from a config string
// such as "debug", "info", "warn", or "error".
func SetLevel(level string) error {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lv)
	return nil
}

// Generation logs per-generation progress: the generation number, the
// total number of subpopulations, and total individual count.
func Generation(gen int, numSubpops, numIndividuals int) {
	log.WithFields(logrus.Fields{
		"generation": gen,
		"subpops":    numSubpops,
		"individuals": numIndividuals,
	}).Info("generation advanced")
}

// Warnf logs a one-time or per-run warning, such as the checked-
// arithmetic overflow fallback notice.
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Poisoned logs the diagnostic emitted when an uncaught script error
// aborts a life-cycle step, leaving the simulation unable to continue.
func Poisoned(gen int, err error) {
	log.WithFields(logrus.Fields{"generation": gen}).WithError(err).Error("simulation poisoned by uncaught script error")
}

// RunSummary logs the one-line summary emitted after the final
// generation of a run completes normally.
func RunSummary(generations int, elapsedSeconds float64) {
	log.WithFields(logrus.Fields{
		"generations": generations,
		"elapsed_s":   elapsedSeconds,
		"finished_at": time.Now().Format(time.RFC3339),
	}).Info("run complete")
}
