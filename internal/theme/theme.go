// Package theme provides the observable light/dark theme of a page render.
package theme

import (
	"strings"
	"sync"
)

// Theme is a color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse returns the theme named by s and whether s named one.
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	default:
		return "", false
	}
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool {
	return t == Dark
}

// Initial resolves the starting theme: a saved preference wins, then the
// client's color scheme hint, then light.
func Initial(saved string, prefersDark bool) Theme {
	if t, ok := Parse(saved); ok {
		return t
	}
	if prefersDark {
		return Dark
	}
	return Light
}

// PrefersDark interprets a Sec-CH-Prefers-Color-Scheme header value.
func PrefersDark(hint string) bool {
	return strings.EqualFold(strings.Trim(strings.TrimSpace(hint), `"`), string(Dark))
}

// Signal holds the current theme and notifies subscribers on change.
type Signal struct {
	mu     sync.Mutex
	theme  Theme
	nextID int
	subs   map[int]func(Theme)
}

// NewSignal returns a Signal set to initial.
func NewSignal(initial Theme) *Signal {
	if _, ok := Parse(string(initial)); !ok {
		initial = Light
	}
	return &Signal{theme: initial, subs: make(map[int]func(Theme))}
}

// Current returns the current theme.
func (s *Signal) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Subscribe calls fn with the current theme and on every later change.
// The returned function removes the subscription.
func (s *Signal) Subscribe(fn func(Theme)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.theme
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Set changes the theme and notifies subscribers when it differs.
func (s *Signal) Set(t Theme) {
	s.mu.Lock()
	if s.theme == t {
		s.mu.Unlock()
		return
	}
	s.theme = t
	subs := make([]func(Theme), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(t)
	}
}

// Toggle flips the theme and returns the new value.
func (s *Signal) Toggle() Theme {
	next := s.Current().Opposite()
	s.Set(next)
	return next
}

// Subscribers returns the number of active subscriptions.
func (s *Signal) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
