// Package progress reports generation progress.
//
// Implementations include:
// - CLIEmitter: terminal output using pterm
// - JSONEmitter: one JSON event per line for tooling (--json)
// - LogEmitter: zap log entries
// - Nop: discards everything
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/teranos/tsclientgen/logger"
)

// Sink receives generation events. Implementations must be safe to call from
// one goroutine at a time; the generator never calls them concurrently.
type Sink interface {
	// Stage announces a phase of the run (types, errors, services, ...).
	Stage(stage, message string)
	// FileGenerated is called once per generated file.
	FileGenerated(path string)
	// Complete reports the run summary.
	Complete(summary Summary)
	// Error reports a fatal error in stage.
	Error(stage string, err error)
}

// Summary describes a finished run.
type Summary struct {
	API          string        `json:"api"`
	Files        int           `json:"files"`
	Dependencies int           `json:"dependencies"`
	Written      int           `json:"written"`
	Duration     time.Duration `json:"duration"`
}

// Event is a structured JSON progress event.
type Event struct {
	Type      string                 `json:"type"` // "stage", "file", "complete", "error"
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// CLIEmitter prints progress to the terminal.
type CLIEmitter struct {
	verbosity int
}

// NewCLIEmitter creates a CLI emitter. Per-file lines need verbosity >= 1.
func NewCLIEmitter(verbosity int) *CLIEmitter {
	return &CLIEmitter{verbosity: verbosity}
}

func (e *CLIEmitter) Stage(stage, message string) {
	pterm.Printf("%s: %s\n", pterm.LightCyan(stage), message)
}

func (e *CLIEmitter) FileGenerated(path string) {
	if e.verbosity >= 1 {
		pterm.Printf("  %s %s\n", pterm.Green("+"), path)
	}
}

func (e *CLIEmitter) Complete(summary Summary) {
	pterm.Success.Printf("Generated %s files for %s (%d dependencies)\n",
		pterm.Green(fmt.Sprintf("%d", summary.Files)), summary.API, summary.Dependencies)
	if e.verbosity >= 1 {
		pterm.Printf("  written: %d\n", summary.Written)
		pterm.Printf("  duration: %s\n", summary.Duration.Round(time.Millisecond))
	}
}

func (e *CLIEmitter) Error(stage string, err error) {
	pterm.Error.Printf("Error in %s: %v\n", stage, err)
}

// JSONEmitter writes one JSON event per line.
type JSONEmitter struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

// NewJSONEmitter writes events to w, or stdout when w is nil.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONEmitter{encoder: json.NewEncoder(w)}
}

func (e *JSONEmitter) emit(kind string, data map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.encoder.Encode(Event{Type: kind, Timestamp: time.Now(), Data: data})
}

func (e *JSONEmitter) Stage(stage, message string) {
	e.emit("stage", map[string]interface{}{"stage": stage, "message": message})
}

func (e *JSONEmitter) FileGenerated(path string) {
	e.emit("file", map[string]interface{}{"path": path})
}

func (e *JSONEmitter) Complete(summary Summary) {
	e.emit("complete", map[string]interface{}{
		"api":          summary.API,
		"files":        summary.Files,
		"dependencies": summary.Dependencies,
		"written":      summary.Written,
		"duration_ms":  summary.Duration.Milliseconds(),
	})
}

func (e *JSONEmitter) Error(stage string, err error) {
	e.emit("error", map[string]interface{}{"stage": stage, "error": err.Error()})
}

// LogEmitter forwards progress to a zap logger.
type LogEmitter struct {
	log *zap.SugaredLogger
}

// NewLogEmitter logs through log, or the global logger when log is nil.
func NewLogEmitter(log *zap.SugaredLogger) *LogEmitter {
	if log == nil {
		log = logger.ComponentLogger("progress")
	}
	return &LogEmitter{log: log}
}

func (e *LogEmitter) Stage(stage, message string) {
	e.log.Infow(message, logger.FieldOperation, stage)
}

func (e *LogEmitter) FileGenerated(path string) {
	e.log.Debugw("Generated file", logger.FieldFile, path)
}

func (e *LogEmitter) Complete(summary Summary) {
	e.log.Infow("Generation complete",
		logger.FieldAPI, summary.API,
		logger.FieldCount, summary.Files,
		logger.FieldDependency, summary.Dependencies,
		logger.FieldDurationMS, summary.Duration.Milliseconds())
}

func (e *LogEmitter) Error(stage string, err error) {
	e.log.Errorw("Generation failed", logger.FieldOperation, stage, logger.FieldError, err)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Stage(string, string) {}
func (Nop) FileGenerated(string) {}
func (Nop) Complete(Summary)     {}
func (Nop) Error(string, error)  {}

// Multi fans events out to several sinks.
type Multi []Sink

func (m Multi) Stage(stage, message string) {
	for _, s := range m {
		s.Stage(stage, message)
	}
}

func (m Multi) FileGenerated(path string) {
	for _, s := range m {
		s.FileGenerated(path)
	}
}

func (m Multi) Complete(summary Summary) {
	for _, s := range m {
		s.Complete(summary)
	}
}

func (m Multi) Error(stage string, err error) {
	for _, s := range m {
		s.Error(stage, err)
	}
}

// Recorder keeps every event in memory. Useful in tests.
type Recorder struct {
	Stages  []string
	Files   []string
	Summary *Summary
	Err     error
}

func (r *Recorder) Stage(stage, _ string)     { r.Stages = append(r.Stages, stage) }
func (r *Recorder) FileGenerated(path string) { r.Files = append(r.Files, path) }
func (r *Recorder) Complete(summary Summary)  { r.Summary = &summary }
func (r *Recorder) Error(_ string, err error) { r.Err = err }
