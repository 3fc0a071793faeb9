// Package notify reports the progress and outcome of user actions: toasts in
// the dashboard, status lines in the CLI.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Level classifies a notification.
type Level string

const (
	LevelLoading Level = "loading"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Message is one notification.
type Message struct {
	Level       Level     `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	At          time.Time `json:"at"`
}

// Notifier starts a pending notification that is later resolved.
type Notifier interface {
	Loading(title string) Pending
}

// Pending is a loading notification awaiting its outcome. Only the first
// resolution counts.
type Pending interface {
	Success(title, description string)
	Error(title, description string)
}

// Flash queues messages for the next rendered dashboard page.
type Flash struct {
	mu    sync.Mutex
	queue []Message
	now   func() time.Time
}

// NewFlash returns an empty queue.
func NewFlash() *Flash {
	return &Flash{now: time.Now}
}

// Push appends a message.
func (f *Flash) Push(level Level, title, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, Message{Level: level, Title: title, Description: description, At: f.now()})
}

// Drain returns and removes all queued messages.
func (f *Flash) Drain() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.queue
	f.queue = nil
	return out
}

// Loading queues only the outcome.
func (f *Flash) Loading(title string) Pending {
	return &pending{resolve: func(level Level, t, d string) { f.Push(level, t, d) }}
}

// Printer writes notifications as lines, e.g. to stderr.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrinter writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Loading(title string) Pending {
	p.print(LevelLoading, title+"...", "")
	return &pending{resolve: p.print}
}

func (p *Printer) print(level Level, title, description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefix := map[Level]string{LevelLoading: "…", LevelSuccess: "✓", LevelError: "✗"}[level]
	if description != "" {
		fmt.Fprintf(p.w, "%s %s: %s\n", prefix, title, description)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", prefix, title)
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Loading(string) Pending { return &pending{resolve: func(Level, string, string) {}} }

type pending struct {
	once    sync.Once
	resolve func(level Level, title, description string)
}

func (p *pending) Success(title, description string) {
	p.once.Do(func() { p.resolve(LevelSuccess, title, description) })
}

func (p *pending) Error(title, description string) {
	p.once.Do(func() { p.resolve(LevelError, title, description) })
}

// Recorder keeps every resolved notification; used in tests.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

func (r *Recorder) Loading(title string) Pending {
	r.record(LevelLoading, title, "")
	return &pending{resolve: r.record}
}

func (r *Recorder) record(level Level, title, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Level: level, Title: title, Description: description})
}

// Last returns the most recent message.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}
