package theme

import "github.com/ukaji3/novembroazul-go/pkg/novembro/dom"

// AttributeRenderer marks the root with data-theme="dark" and swaps the toggle
// icon and label. Used by the data page.
type AttributeRenderer struct {
	Root   dom.Node
	Button dom.Node
}

// ThemeAttribute is set on the root for the dark theme.
const ThemeAttribute = "data-theme"

func (r AttributeRenderer) Render(t Theme) {
	if t == Dark {
		r.Root.SetAttribute(ThemeAttribute, string(Dark))
		r.Button.SetText(SunIcon)
		r.Button.SetAttribute("aria-label", "Alternar para tema claro")
		return
	}
	r.Root.RemoveAttribute(ThemeAttribute)
	r.Button.SetText(MoonIcon)
	r.Button.SetAttribute("aria-label", "Alternar para tema escuro")
}

func (r AttributeRenderer) Current() Theme {
	if v, _ := r.Root.Attribute(ThemeAttribute); v == string(Dark) {
		return Dark
	}
	return Light
}

// ClassRenderer adds the dark-mode class to the body and flips the switch
// state. Used by the registration page.
type ClassRenderer struct {
	Body   dom.Node
	Switch dom.Node
	Icon   dom.Node
}

// DarkClass is the body class of the dark theme.
const DarkClass = "dark-mode"

func (r ClassRenderer) Render(t Theme) {
	if t == Dark {
		r.Body.AddClass(DarkClass)
		r.Icon.SetText(SunIcon)
		r.Switch.SetAttribute("aria-checked", "true")
		return
	}
	r.Body.RemoveClass(DarkClass)
	r.Icon.SetText(MoonIcon)
	r.Switch.SetAttribute("aria-checked", "false")
}

func (r ClassRenderer) Current() Theme {
	if r.Body.HasClass(DarkClass) {
		return Dark
	}
	return Light
}

// NewDataPage wires an AttributeRenderer to the data page elements.
func NewDataPage(doc *dom.Document) AttributeRenderer {
	return AttributeRenderer{Root: doc.Root(), Button: doc.Element("theme-toggle-btn")}
}

// NewRegistrationPage wires a ClassRenderer to the registration page elements.
func NewRegistrationPage(doc *dom.Document) ClassRenderer {
	return ClassRenderer{Body: doc.Body(), Switch: doc.Element("theme-toggle"), Icon: doc.Element("theme-icon")}
}
