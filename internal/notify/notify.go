// Package notify holds transient status messages that clear themselves.
//
// A Board shows one Notification at a time. Showing a new one replaces the
// current one and restarts the timer; when the timer fires the board goes
// back to TypeNone. Observers learn about every change through OnChange.
package notify

import (
	"sync"
	"time"
)

// Type is the kind of a notification.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
	TypeNone    Type = "none"
)

const (
	// DefaultTimeout is how long a notification stays visible.
	DefaultTimeout = 5 * time.Second

	// CopyTimeout is how long clipboard copy feedback stays visible.
	CopyTimeout = 3 * time.Second
)

// Notification is a message shown to the user for a limited time.
type Notification struct {
	Type    Type
	Message string
	Timeout time.Duration
}

// Empty reports whether n shows nothing.
func (n Notification) Empty() bool {
	return n.Type == TypeNone || n.Type == ""
}

var none = Notification{Type: TypeNone}

// Board holds the current notification. It is safe for concurrent use.
type Board struct {
	mu       sync.Mutex
	current  Notification
	timer    *time.Timer
	gen      uint64
	onChange func(Notification)
	stopped  bool
}

// Option configures a Board.
type Option func(*Board)

// WithOnChange registers fn to be called after every change, including the
// automatic clear. fn runs without the board's lock held.
func WithOnChange(fn func(Notification)) Option {
	return func(b *Board) {
		b.onChange = fn
	}
}

// NewBoard creates an empty Board.
func NewBoard(opts ...Option) *Board {
	b := &Board{current: none}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Show replaces the current notification with n. A zero Timeout means
// DefaultTimeout; a negative Timeout keeps n until it is replaced.
func (b *Board) Show(n Notification) {
	if n.Timeout == 0 {
		n.Timeout = DefaultTimeout
	}

	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopTimerLocked()
	b.gen++
	b.current = n
	if n.Timeout > 0 {
		gen := b.gen
		b.timer = time.AfterFunc(n.Timeout, func() { b.expire(gen) })
	}
	b.mu.Unlock()

	b.notify(n)
}

// Success shows a success message for DefaultTimeout.
func (b *Board) Success(message string) {
	b.Show(Notification{Type: TypeSuccess, Message: message})
}

// Error shows an error message for DefaultTimeout.
func (b *Board) Error(message string) {
	b.Show(Notification{Type: TypeError, Message: message})
}

// Info shows an informational message for DefaultTimeout.
func (b *Board) Info(message string) {
	b.Show(Notification{Type: TypeInfo, Message: message})
}

// Current returns the visible notification, TypeNone when there is none.
func (b *Board) Current() Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Clear removes the current notification.
func (b *Board) Clear() {
	b.mu.Lock()
	b.stopTimerLocked()
	b.gen++
	changed := !b.current.Empty()
	b.current = none
	b.mu.Unlock()

	if changed {
		b.notify(none)
	}
}

// Stop clears the board and ignores later notifications.
func (b *Board) Stop() {
	b.mu.Lock()
	b.stopTimerLocked()
	b.gen++
	b.current = none
	b.stopped = true
	b.mu.Unlock()
}

func (b *Board) expire(gen uint64) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.current = none
	b.mu.Unlock()

	b.notify(none)
}

func (b *Board) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Board) notify(n Notification) {
	if b.onChange != nil {
		b.onChange(n)
	}
}
