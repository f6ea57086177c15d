// Package clicky turns the links printed in a terminal session into
// clickable anchors.
package clicky

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/luqmaan/hyperterm-clicky/config"
	"github.com/luqmaan/hyperterm-clicky/linkify"
	"github.com/luqmaan/hyperterm-clicky/logger"
	"github.com/luqmaan/hyperterm-clicky/terminal/screen"
)

// Clicky is one terminal session: its screen, the annotator bound to that
// screen, and the pointer event handler for the rendered rows.
type Clicky struct {
	// The row buffer. Renderer-agnostic; the annotator keeps its markup up
	// to date.
	screen *screen.Screen

	annotator *linkify.Annotator
	handler   *linkify.Handler

	// The stream decoder. This parses the output of the child process and
	// calls into the screen.
	stream *Stream

	logger logger.Logger
}

type Options struct {
	Rows, Cols    int
	MaxScrollback int
	// SessionID is carried by SESSION_URL_SET actions.
	SessionID string

	// Collaborators. A nil Config is replaced with the config file at
	// config.DefaultPath; see linkify.HandlerOptions for the others.
	Config     linkify.ConfigProvider
	Dispatcher linkify.Dispatcher
	Shell      linkify.Shell

	Logger logger.Logger
}

// Modifiers are the keys held during a click.
type Modifiers struct {
	Meta bool
	Alt  bool
}

func New(opts Options) *Clicky {
	log := logger.OrDiscard(opts.Logger)

	scr := screen.NewScreen(opts.Cols, opts.Rows, screen.Options{
		MaxScrollback: opts.MaxScrollback,
		Logger:        log,
	})

	annotator := linkify.NewAnnotator(scr, linkify.AnnotatorOptions{Logger: log})
	annotator.Attach(scr)

	if opts.Config == nil {
		opts.Config = defaultConfig(log)
	}

	return &Clicky{
		screen:    scr,
		annotator: annotator,
		handler: linkify.NewHandler(scr, linkify.HandlerOptions{
			SessionID:  opts.SessionID,
			Config:     opts.Config,
			Dispatcher: opts.Dispatcher,
			Shell:      opts.Shell,
			Logger:     log,
		}),
		stream: NewStream(scr, log),
		logger: log,
	}
}

// defaultConfig loads the user's config file. A missing or broken file is
// not an error: the editor lookup falls back to linkify.DefaultEditor.
func defaultConfig(log logger.Logger) linkify.ConfigProvider {
	path, err := config.DefaultPath()
	if err != nil {
		log.Debug("no config path", "error", err)
		return &config.Store{}
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Debug("no config loaded", "path", path, "error", err)
		return &config.Store{}
	}
	return cfg
}

func (c *Clicky) Screen() *screen.Screen {
	return c.screen
}

// Write processes output from the pty.
func (c *Clicky) Write(p []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic in Write", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic in Write: %v", r)
		}
	}()
	if err := c.stream.Next(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// HandleEvent forwards a pointer event on the rendered screen.
func (c *Clicky) HandleEvent(ev *linkify.Event) {
	c.handler.Handle(ev)
}

// Click clicks the cell at column x of active row y.
func (c *Clicky) Click(x, y int, mods Modifiers) *linkify.Event {
	return c.pointer(linkify.EventClick, x, y, mods)
}

// PointerEnter reports that the pointer entered the cell at x, y.
func (c *Clicky) PointerEnter(x, y int) *linkify.Event {
	return c.pointer(linkify.EventPointerEnter, x, y, Modifiers{})
}

// PointerLeave reports that the pointer left the cell at x, y.
func (c *Clicky) PointerLeave(x, y int) *linkify.Event {
	return c.pointer(linkify.EventPointerLeave, x, y, Modifiers{})
}

func (c *Clicky) pointer(typ linkify.EventType, x, y int, mods Modifiers) *linkify.Event {
	ev := &linkify.Event{Type: typ, Meta: mods.Meta, Alt: mods.Alt}
	if e := c.screen.ElementAt(x, y); e != nil {
		ev.Target = e
	}
	c.handler.Handle(ev)
	return ev
}

// HTML renders the screen as a standalone document.
func (c *Clicky) HTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString(linkify.Stylesheet)
	b.WriteString("  x-row { display: block; white-space: pre; min-height: 1em; }\n")
	b.WriteString("</style></head><body>\n")
	b.WriteString(c.screen.HTML())
	b.WriteString("\n</body></html>\n")
	return b.String()
}

// PlainString returns the text of the screen.
func (c *Clicky) PlainString() string {
	return c.screen.PlainString()
}
