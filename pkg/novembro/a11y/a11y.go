// Package a11y implements the accessibility toolbar: font size, color-blind
// palette and dyslexia reading mode.
package a11y

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/dom"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/prefs"
)

// Preference keys.
const (
	KeyFontSize   = "baseFontSize"
	KeyColorBlind = "colorBlindMode"
	KeyDyslexia   = "dyslexiaMode"
)

// Font size bounds in pixels.
const (
	MinFontSize     = 12
	MaxFontSize     = 28
	FontStep        = 2
	DefaultFontSize = 16
)

// Root presentation hooks.
const (
	FontSizeProperty    = "--base-font-size"
	ColorBlindAttribute = "data-color-blind"
	DyslexiaAttribute   = "data-dyslexia"
)

// Control identifies a toolbar button.
type Control string

const (
	DecreaseFont     Control = "decrease-font"
	IncreaseFont     Control = "increase-font"
	ResetFont        Control = "reset-font"
	ToggleColorBlind Control = "toggle-colorblind"
	ToggleDyslexia   Control = "toggle-dyslexia"
)

// AnnouncerID is the id of the live region the toolbar speaks through.
const AnnouncerID = "accessibility-announcer"

// Announcer receives status messages for assistive technology.
type Announcer interface {
	Announce(message string)
}

// Controller applies accessibility preferences to a page.
type Controller struct {
	mu        sync.Mutex
	root      dom.Node
	buttons   map[Control]dom.Node
	announcer Announcer
	store     prefs.Store
	fontSize  int
}

// NewController wires the toolbar to the document. store may be nil.
func NewController(doc *dom.Document, store prefs.Store) *Controller {
	buttons := make(map[Control]dom.Node)
	for _, c := range []Control{DecreaseFont, IncreaseFont, ResetFont, ToggleColorBlind, ToggleDyslexia} {
		buttons[c] = doc.Element(string(c))
	}
	return &Controller{
		root:      doc.Root(),
		buttons:   buttons,
		announcer: dom.NewLiveRegion(doc.Element(AnnouncerID)),
		store:     store,
		fontSize:  DefaultFontSize,
	}
}

// Init applies the stored preferences. Unreadable storage yields the defaults.
func (c *Controller) Init() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fontSize = clamp(prefs.Int(c.store, KeyFontSize, DefaultFontSize))
	c.applyFontSize()
	c.applyColorBlind(prefs.Bool(c.store, KeyColorBlind, false))
	c.applyDyslexia(prefs.Bool(c.store, KeyDyslexia, false))
}

func clamp(px int) int {
	if px < MinFontSize {
		return MinFontSize
	}
	if px > MaxFontSize {
		return MaxFontSize
	}
	return px
}

// FontSize returns the current base font size in pixels.
func (c *Controller) FontSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fontSize
}

// ColorBlind reports whether the color-blind palette is on.
func (c *Controller) ColorBlind() bool {
	return c.flag(ColorBlindAttribute)
}

// Dyslexia reports whether the dyslexia reading mode is on.
func (c *Controller) Dyslexia() bool {
	return c.flag(DyslexiaAttribute)
}

func (c *Controller) flag(attr string) bool {
	v, _ := c.root.Attribute(attr)
	return v == "true"
}

// Increase grows the font by one step.
func (c *Controller) Increase() int { return c.updateFont(func(px int) int { return px + FontStep }) }

// Decrease shrinks the font by one step.
func (c *Controller) Decrease() int { return c.updateFont(func(px int) int { return px - FontStep }) }

// Reset restores the default font size.
func (c *Controller) Reset() int { return c.updateFont(func(int) int { return DefaultFontSize }) }

func (c *Controller) updateFont(next func(int) int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fontSize = clamp(next(c.fontSize))
	c.applyFontSize()
	prefs.Put(c.store, KeyFontSize, strconv.Itoa(c.fontSize))
	return c.fontSize
}

// ToggleColorBlindMode flips the color-blind palette and returns the new state.
func (c *Controller) ToggleColorBlindMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	on := !c.flag(ColorBlindAttribute)
	c.applyColorBlind(on)
	prefs.PutBool(c.store, KeyColorBlind, on)
	return on
}

// ToggleDyslexiaMode flips the dyslexia reading mode and returns the new state.
func (c *Controller) ToggleDyslexiaMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	on := !c.flag(DyslexiaAttribute)
	c.applyDyslexia(on)
	prefs.PutBool(c.store, KeyDyslexia, on)
	return on
}

// Activate runs the control's action when e is a click or Enter/Space.
// It reports whether an action ran.
func (c *Controller) Activate(control Control, e dom.Event) bool {
	if !e.Activates() {
		return false
	}
	switch control {
	case DecreaseFont:
		c.Decrease()
	case IncreaseFont:
		c.Increase()
	case ResetFont:
		c.Reset()
	case ToggleColorBlind:
		c.ToggleColorBlindMode()
	case ToggleDyslexia:
		c.ToggleDyslexiaMode()
	default:
		return false
	}
	return true
}

func (c *Controller) applyFontSize() {
	c.root.SetStyle(FontSizeProperty, fmt.Sprintf("%dpx", c.fontSize))
	c.announcer.Announce(fmt.Sprintf("Tamanho da fonte ajustado para %d pixels", c.fontSize))
}

func (c *Controller) applyColorBlind(on bool) {
	c.applyFlag(ColorBlindAttribute, ToggleColorBlind, on)
	if on {
		c.announcer.Announce("Modo para daltônicos ativado")
	} else {
		c.announcer.Announce("Modo para daltônicos desativado")
	}
}

func (c *Controller) applyDyslexia(on bool) {
	c.applyFlag(DyslexiaAttribute, ToggleDyslexia, on)
	if on {
		c.announcer.Announce("Modo leitura para dislexia ativado")
	} else {
		c.announcer.Announce("Modo leitura para dislexia desativado")
	}
}

func (c *Controller) applyFlag(attr string, control Control, on bool) {
	if on {
		c.root.SetAttribute(attr, "true")
	} else {
		c.root.RemoveAttribute(attr)
	}
	c.buttons[control].SetAttribute("aria-pressed", strconv.FormatBool(on))
}
