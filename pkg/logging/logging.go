// Package logging is the pluggable sink the engine reports through. The sink
// is fire-and-forget: its absence (the no-op sink) never changes behavior.
package logging

import (
	"fmt"
	"log"
)

// Level classifies an event.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Event is a structured log event. Table carries the table or context the
// event belongs to ("migrations" for the migration engine).
type Event struct {
	Level   Level
	Table   string
	Message string
}

// Sink receives events. Implementations must not block the caller.
type Sink interface {
	Emit(e Event)
}

type nopSink struct{}

func (nopSink) Emit(Event) {}

// Nop returns a sink that discards every event.
func Nop() Sink { return nopSink{} }

type stdSink struct{}

func (stdSink) Emit(e Event) {
	log.Printf("[%s] %s: %s", e.Level, e.Table, e.Message)
}

// NewStd returns a sink backed by the standard library logger.
func NewStd() Sink { return stdSink{} }

// Emitf formats a message and emits it on s.
func Emitf(s Sink, level Level, table, format string, args ...any) {
	s.Emit(Event{Level: level, Table: table, Message: fmt.Sprintf(format, args...)})
}
