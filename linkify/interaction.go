package linkify

import (
	"strings"

	"github.com/luqmaan/hyperterm-clicky/logger"
	"github.com/luqmaan/hyperterm-clicky/shell"
	"github.com/luqmaan/hyperterm-clicky/store"
)

// DefaultEditor opens stack-trace locations when no editor is configured.
const DefaultEditor = "atom"

type EventType int

const (
	EventClick EventType = iota
	EventPointerEnter
	EventPointerLeave
)

func (t EventType) String() string {
	switch t {
	case EventClick:
		return "click"
	case EventPointerEnter:
		return "pointerenter"
	case EventPointerLeave:
		return "pointerleave"
	default:
		return "unknown"
	}
}

type (
	// Element is a node of the rendered screen.
	Element interface {
		// Tag returns the lower-case element name, "a" for anchors.
		Tag() string
		// Attr returns the attribute value, or "" when it is missing.
		Attr(name string) string
	}

	// AnchorElement is a rendered anchor whose classes can be changed.
	AnchorElement interface {
		Element
		AddClass(class string)
		RemoveClass(class string)
	}

	// AnchorSurface finds rendered anchors across all rows of a screen.
	AnchorSurface interface {
		AnchorsByID(id string) []AnchorElement
	}

	ConfigProvider interface {
		// Editor returns the command used to open stack-trace locations.
		Editor() (string, error)
	}

	Dispatcher interface {
		Dispatch(action store.Action)
	}

	Shell interface {
		OpenExternal(url string) error
		Launch(command string, args ...string) error
	}
)

// Event is a pointer event on the rendered screen.
type Event struct {
	Type   EventType
	Target Element
	// Meta is the primary modifier. Alt stands in for it where the OS
	// already binds Meta-click.
	Meta bool
	Alt  bool

	defaultPrevented bool
}

func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

type HandlerOptions struct {
	// SessionID identifies the terminal session in dispatched actions.
	SessionID string
	// Config may be nil; the editor is then DefaultEditor.
	Config ConfigProvider
	// Dispatcher defaults to an in-memory store.Store.
	Dispatcher Dispatcher
	// Shell defaults to shell.System.
	Shell  Shell
	Logger logger.Logger
}

// Handler turns pointer events on anchors into hover styling and link
// actions.
type Handler struct {
	surface    AnchorSurface
	sessionID  string
	config     ConfigProvider
	dispatcher Dispatcher
	shell      Shell
	logger     logger.Logger
}

func NewHandler(surface AnchorSurface, opts HandlerOptions) *Handler {
	log := logger.OrDiscard(opts.Logger)
	if opts.Dispatcher == nil {
		opts.Dispatcher = store.New(log)
	}
	if opts.Shell == nil {
		opts.Shell = shell.System{}
	}
	return &Handler{
		surface:    surface,
		sessionID:  opts.SessionID,
		config:     opts.Config,
		dispatcher: opts.Dispatcher,
		shell:      opts.Shell,
		logger:     log,
	}
}

// Handle processes ev. Events whose target is not an anchor are ignored.
func (h *Handler) Handle(ev *Event) {
	if ev == nil || ev.Target == nil || ev.Target.Tag() != "a" {
		return
	}
	switch ev.Type {
	case EventClick:
		h.click(ev)
	case EventPointerEnter:
		for _, a := range h.surface.AnchorsByID(ev.Target.Attr(AttrID)) {
			a.AddClass(HoverClass)
		}
	case EventPointerLeave:
		for _, a := range h.surface.AnchorsByID(ev.Target.Attr(AttrID)) {
			a.RemoveClass(HoverClass)
		}
	}
}

func (h *Handler) click(ev *Event) {
	ev.PreventDefault()
	url := ev.Target.Attr(AttrHref)

	if fileName := ev.Target.Attr(AttrFileName); fileName != "" {
		fields := strings.Fields(h.editor())
		args := append(fields[1:], fileName)
		if err := h.shell.Launch(fields[0], args...); err != nil {
			h.logger.Debug("editor launch failed", "editor", fields[0], "error", err)
		}
		return
	}

	if ev.Meta || ev.Alt {
		h.dispatcher.Dispatch(store.Action{
			Type:      store.SessionURLSet,
			SessionID: h.sessionID,
			URL:       url,
		})
		return
	}

	if err := h.shell.OpenExternal(url); err != nil {
		h.logger.Debug("open external failed", "url", url, "error", err)
	}
}

// editor never fails: a missing, broken or panicking config yields
// DefaultEditor.
func (h *Handler) editor() (editor string) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Debug("editor lookup panicked", "panic", r)
			editor = DefaultEditor
		}
	}()
	if h.config == nil {
		return DefaultEditor
	}
	editor, err := h.config.Editor()
	if err != nil || strings.TrimSpace(editor) == "" {
		return DefaultEditor
	}
	return editor
}
