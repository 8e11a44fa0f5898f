// Package dom is a minimal in-memory document used by the page controllers.
// It models just what the controllers touch: attributes, classes, style
// properties, text and focus.
package dom

import (
	"sort"
	"sync"
)

// Node is the element surface the controllers depend on.
type Node interface {
	ID() string
	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	HasClass(name string) bool
	AddClass(name string)
	RemoveClass(name string)
	Style(prop string) string
	SetStyle(prop, value string)
	Text() string
	SetText(text string)
}

// Element is an in-memory Node. It is safe for concurrent use.
type Element struct {
	mu      sync.RWMutex
	id      string
	attrs   map[string]string
	classes map[string]bool
	style   map[string]string
	text    string
}

// NewElement creates an empty element.
func NewElement(id string) *Element {
	return &Element{
		id:      id,
		attrs:   make(map[string]string),
		classes: make(map[string]bool),
		style:   make(map[string]string),
	}
}

func (e *Element) ID() string { return e.id }

func (e *Element) Attribute(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.attrs[name]
	return v, ok
}

func (e *Element) SetAttribute(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attrs[name] = value
}

func (e *Element) RemoveAttribute(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.attrs, name)
}

func (e *Element) HasClass(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.classes[name]
}

func (e *Element) AddClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classes[name] = true
}

func (e *Element) RemoveClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.classes, name)
}

// Classes returns the class list in sorted order.
func (e *Element) Classes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.classes))
	for c := range e.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (e *Element) Style(prop string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.style[prop]
}

func (e *Element) SetStyle(prop, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.style[prop] = value
}

func (e *Element) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

// Document holds elements by id and tracks focus.
type Document struct {
	mu       sync.Mutex
	elements map[string]*Element
	focused  string
}

// Root and body element ids.
const (
	RootID = "html"
	BodyID = "body"
)

// NewDocument creates a document with a root and a body element.
func NewDocument() *Document {
	d := &Document{elements: make(map[string]*Element)}
	d.Element(RootID)
	d.Element(BodyID)
	return d
}

// Element returns the element with the id, creating it when absent.
func (d *Document) Element(id string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[id]
	if !ok {
		el = NewElement(id)
		d.elements[id] = el
	}
	return el
}

// Root returns the document element.
func (d *Document) Root() *Element { return d.Element(RootID) }

// Body returns the body element.
func (d *Document) Body() *Element { return d.Element(BodyID) }

// Focus moves input focus to the element with the id.
func (d *Document) Focus(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.focused = id
}

// Focused returns the id of the focused element.
func (d *Document) Focused() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focused
}

// LiveRegion announces messages through a polite aria-live element.
type LiveRegion struct {
	Node Node
}

// NewLiveRegion marks node as a polite status region.
func NewLiveRegion(node Node) LiveRegion {
	node.SetAttribute("aria-live", "polite")
	node.SetAttribute("role", "status")
	return LiveRegion{Node: node}
}

// Announce replaces the region text.
func (r LiveRegion) Announce(message string) {
	r.Node.SetText(message)
}
