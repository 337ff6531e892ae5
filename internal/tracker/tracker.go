// Package tracker binds analytics listeners to the interactive elements of a
// rendered site page and forwards derived fields to an analytics sink.
package tracker

import (
	"fmt"
	"strings"

	"pe-collective-backend/internal/logger"

	"golang.org/x/net/html"
)

// Sink receives analytics events. Calls are fire-and-forget.
type Sink interface {
	Track(name string, params map[string]string)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(name string, params map[string]string)

func (f SinkFunc) Track(name string, params map[string]string) { f(name, params) }

// Event is a DOM event dispatched at Target
type Event struct {
	Type   DOMEvent
	Target *html.Node
	// Open is the new state of a <details> element on Toggle
	Open bool
	// Value is the control's current value on Change; the value attribute is used when empty
	Value string
}

// Binding is one registered listener
type Binding struct {
	Event   string
	On      DOMEvent
	Element *html.Node
}

type Tracker struct {
	sink     Sink
	pagePath string
	bindings []Binding
	byNode   map[*html.Node][]*rule
}

// Init registers listeners for every tracked element in doc. A nil sink
// leaves the tracker without bindings.
func Init(doc *html.Node, pagePath string, sink Sink) *Tracker {
	t := &Tracker{
		sink:     sink,
		pagePath: pagePath,
		byNode:   make(map[*html.Node][]*rule),
	}
	if sink == nil || doc == nil {
		return t
	}

	for i := range rules {
		r := &rules[i]
		walk(doc, func(n *html.Node) {
			if !r.match(n) {
				return
			}
			t.bindings = append(t.bindings, Binding{Event: r.name, On: r.on, Element: n})
			t.byNode[n] = append(t.byNode[n], r)
		})
	}
	return t
}

// Bindings returns the registered listeners in registration order
func (t *Tracker) Bindings() []Binding {
	return append([]Binding(nil), t.bindings...)
}

// Dispatch delivers ev to the listeners on its target and, except for
// toggle, on every ancestor. It returns how many listeners fired.
func (t *Tracker) Dispatch(ev Event) int {
	if ev.Type == Toggle && !ev.Open {
		return 0
	}

	fired := 0
	for n := ev.Target; n != nil; n = n.Parent {
		for _, r := range t.byNode[n] {
			if r.on != ev.Type {
				continue
			}
			if t.fire(r, n, ev) {
				fired++
			}
		}
		if ev.Type == Toggle {
			break
		}
	}
	return fired
}

// fire runs one listener; a failing listener never reaches the page
func (t *Tracker) fire(r *rule, el *html.Node, ev Event) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("Tracker listener failed", "event", r.name, "error", fmt.Sprint(rec))
			ok = false
		}
	}()
	t.sink.Track(r.name, r.params(el, ev, t.pagePath))
	return true
}

// Describe renders the bound element as a short selector, e.g. a#signup.btn.btn--primary
func (b Binding) Describe() string {
	n := b.Element
	if !isElement(n) {
		return ""
	}
	desc := n.Data
	if id := attr(n, "id"); id != "" {
		desc += "#" + id
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		desc += "." + c
	}
	return desc
}
