// Package logging provides the apex/log handler used by the command line.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/apex/log"
	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"

	"github.com/ahrav/go-tipstat/internal/ports"
)

var bold = color.New(color.Bold)

// Colors mapping.
var Colors = [...]*color.Color{
	log.DebugLevel: color.New(color.FgWhite),
	log.InfoLevel:  color.New(color.FgBlue),
	log.WarnLevel:  color.New(color.FgYellow),
	log.ErrorLevel: color.New(color.FgRed),
	log.FatalLevel: color.New(color.FgRed),
}

// Strings mapping.
var Strings = [...]string{
	log.DebugLevel: "•",
	log.InfoLevel:  "•",
	log.WarnLevel:  "•",
	log.ErrorLevel: "⨯",
	log.FatalLevel: "⨯",
}

// Handler writes one colored line per entry, followed by its fields in
// name order.
type Handler struct {
	mu      sync.Mutex
	Writer  io.Writer
	Padding int
}

// NewHandler creates a Handler writing to w.
func NewHandler(w io.Writer) *Handler {
	if f, ok := w.(*os.File); ok {
		return &Handler{
			Writer:  colorable.NewColorable(f),
			Padding: 3,
		}
	}
	return &Handler{
		Writer:  w,
		Padding: 3,
	}
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := Colors[e.Level]
	s := c.Sprintf("%s %-25s", bold.Sprintf("%*s", h.Padding+1, Strings[e.Level]), e.Message)

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s += fmt.Sprintf(" %s=%v", c.Sprint(name), e.Fields[name])
	}

	_, err := fmt.Fprintln(h.Writer, s)
	return err
}

// New returns a logger writing to w at info level, or debug level when
// verbose is set.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return &log.Logger{Handler: NewHandler(w), Level: level}
}

var _ ports.Logger = (*log.Logger)(nil)
