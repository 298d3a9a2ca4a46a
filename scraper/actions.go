package scraper

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// typeInto finds the element matching selector, clears it, and types text.
func typeInto(p *rod.Page, selector, text string) error {
	el, err := p.Element(selector)
	if err != nil {
		return fmt.Errorf("element %q not found: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select %q: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input into %q: %w", selector, err)
	}
	return nil
}

// submit clicks the submit control, or presses Enter in the input when the
// site has no submit selector configured.
func submit(p *rod.Page, inputSelector, submitSelector string) error {
	if submitSelector == "" {
		el, err := p.Element(inputSelector)
		if err != nil {
			return fmt.Errorf("element %q not found: %w", inputSelector, err)
		}
		return el.Type(input.Enter)
	}

	el, err := p.Element(submitSelector)
	if err != nil {
		return fmt.Errorf("element %q not found: %w", submitSelector, err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}
