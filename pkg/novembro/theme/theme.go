// Package theme resolves, applies and persists the light/dark page theme.
package theme

import (
	"sync"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/dom"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/prefs"
)

// Theme is a page color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Key is the preference key holding the theme.
const Key = "theme"

// Icons shown on the toggle. Each names the theme the toggle switches to.
const (
	SunIcon  = "☀️"
	MoonIcon = "🌙"
)

// Resolve picks the initial theme: the stored value when present, else the
// OS dark-mode hint, else light. Stored values other than "dark" mean light.
func Resolve(stored string, prefersDark bool) Theme {
	if stored != "" {
		if Theme(stored) == Dark {
			return Dark
		}
		return Light
	}
	if prefersDark {
		return Dark
	}
	return Light
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Renderer shows a theme on a page and reads back the shown theme.
type Renderer interface {
	Render(t Theme)
	Current() Theme
}

// Controller applies and persists the theme of one page. Pages do not share
// controllers; each resolves its own initial theme.
type Controller struct {
	mu       sync.Mutex
	renderer Renderer
	store    prefs.Store
}

// NewController creates a controller. store may be nil.
func NewController(renderer Renderer, store prefs.Store) *Controller {
	return &Controller{renderer: renderer, store: store}
}

// Init resolves and renders the initial theme.
func (c *Controller) Init(prefersDark bool) Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := Resolve(prefs.String(c.store, Key, ""), prefersDark)
	c.renderer.Render(t)
	return t
}

// Toggle switches to the opposite of the rendered theme and persists it.
func (c *Controller) Toggle() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.renderer.Current().Toggle()
	c.apply(t)
	return t
}

// Set renders and persists t.
func (c *Controller) Set(t Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(t)
}

func (c *Controller) apply(t Theme) {
	c.renderer.Render(t)
	prefs.Put(c.store, Key, string(t))
}

// Activate toggles the theme on a click or Enter/Space.
func (c *Controller) Activate(e dom.Event) bool {
	if !e.Activates() {
		return false
	}
	c.Toggle()
	return true
}
