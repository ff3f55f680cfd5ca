package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Element is one resolved page element. Steps locate elements by semantic
// (role, accessible name) selectors so tests survive markup changes.
type Element interface {
	Visible() (bool, error)
	Interactable() bool
	Click() error
	Center() (x, y float64, err error)
}

// jsFindByRole resolves (role, accessible name) to matching visible elements.
// Roles cover the implicit ARIA role of native markup plus explicit role
// attributes. Names are whitespace-normalized and matched case-insensitively
// as whole strings: substring matching would make "Connect" collide with
// "Disconnect" on the same screen.
const jsFindByRole = `(role, name) => {
	const roleSelectors = {
		link: 'a[href], [role="link"]',
		button: 'button, input[type="button"], input[type="submit"], summary, [role="button"]',
		heading: 'h1, h2, h3, h4, h5, h6, [role="heading"]',
		cell: 'td, th, [role="cell"], [role="gridcell"], [role="columnheader"], [role="rowheader"]',
		row: 'tr, [role="row"]',
		textbox: 'input[type="text"], input[type="email"], input[type="password"], input[type="search"], input:not([type]), textarea, [role="textbox"]',
		checkbox: 'input[type="checkbox"], [role="checkbox"]',
		radio: 'input[type="radio"], [role="radio"]',
		combobox: 'select, [role="combobox"]',
		tab: '[role="tab"]',
		img: 'img[alt], [role="img"]'
	};

	const normalize = (s) => (s || '').replace(/\s+/g, ' ').trim().toLowerCase();

	const accessibleName = (el) => {
		const labelledBy = el.getAttribute('aria-labelledby');
		if (labelledBy) {
			const parts = labelledBy.split(/\s+/)
				.map(id => document.getElementById(id))
				.filter(Boolean)
				.map(ref => ref.textContent || '');
			if (parts.length) return parts.join(' ');
		}
		const ariaLabel = el.getAttribute('aria-label');
		if (ariaLabel) return ariaLabel;
		if (el.labels && el.labels.length) {
			return Array.from(el.labels).map(l => l.textContent || '').join(' ');
		}
		if (el.tagName === 'INPUT' && (el.type === 'button' || el.type === 'submit')) {
			return el.value || '';
		}
		const alt = el.getAttribute('alt');
		if (alt) return alt;
		const text = (el.textContent || '').trim();
		if (text) return text;
		return el.getAttribute('title') || '';
	};

	const visible = (el) => !!(el.offsetParent || el.getClientRects().length);

	const selector = roleSelectors[role] || '[role="' + role + '"]';
	const want = normalize(name);
	return Array.from(document.querySelectorAll(selector))
		.filter(el => visible(el) && normalize(accessibleName(el)) === want);
}`

// FindByRole returns the visible elements matching the semantic selector.
// Resolution is deterministic: the same (role, name) pair against an
// unchanged DOM always yields the same match set, in document order.
func (s *Session) FindByRole(role, name string) ([]Element, error) {
	els, err := s.page.ElementsByJS(rod.Eval(jsFindByRole, role, name))
	if err != nil {
		return nil, fmt.Errorf("resolve {role: %s, name: %q}: %w", role, name, err)
	}

	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Visible() (bool, error) {
	return e.el.Visible()
}

// Interactable reports whether the element can receive a click (visible,
// not covered by another element).
func (e *rodElement) Interactable() bool {
	_, err := e.el.Interactable()
	return err == nil
}

func (e *rodElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

// Center returns the midpoint of the element's first content quad.
func (e *rodElement) Center() (float64, float64, error) {
	shape, err := e.el.Shape()
	if err != nil {
		return 0, 0, err
	}
	if len(shape.Quads) == 0 {
		return 0, 0, fmt.Errorf("element has no shape")
	}

	quad := shape.Quads[0]
	x := (quad[0] + quad[2] + quad[4] + quad[6]) / 4
	y := (quad[1] + quad[3] + quad[5] + quad[7]) / 4
	return x, y, nil
}
