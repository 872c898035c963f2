package core

import (
	"fmt"
	"sync"
	"time"
)

// fakePage renders a fixed set of locators
type fakePage struct {
	mu        sync.Mutex
	present   map[string]bool // Locators WaitFor finds
	hidden    map[string]bool // Present, but IsVisible reports false
	failActs  map[string]bool // Locators fill and click fail on
	panicOn   string          // Locator WaitFor panics on
	navErr    error
	html      string
	title     string
	actions   []string
	waits     []string
	shots     int
	closed    int
	navigated string
}

func newFakePage(present ...Locator) *fakePage {
	p := &fakePage{
		present:  map[string]bool{},
		hidden:   map[string]bool{},
		failActs: map[string]bool{},
		html:     "<html><head><title>ROCKHOUND</title></head><body></body></html>",
	}
	for _, loc := range present {
		p.present[loc.String()] = true
	}
	return p
}

func (p *fakePage) Navigate(url string, timeout time.Duration) error {
	p.navigated = url
	return p.navErr
}

func (p *fakePage) WaitFor(loc Locator, timeout time.Duration) error {
	p.mu.Lock()
	p.waits = append(p.waits, loc.String())
	p.mu.Unlock()

	if p.panicOn == loc.String() {
		panic("page crashed")
	}
	if p.present[loc.String()] {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMarkerTimeout, loc)
}

func (p *fakePage) IsVisible(loc Locator) (bool, error) {
	return p.present[loc.String()] && !p.hidden[loc.String()], nil
}

func (p *fakePage) act(a string, loc Locator) error {
	p.actions = append(p.actions, a)
	if p.failActs[loc.String()] {
		return fmt.Errorf("%w: %s", ErrMarkerTimeout, loc)
	}
	return nil
}

func (p *fakePage) Fill(loc Locator, value string, timeout time.Duration) error {
	return p.act(fmt.Sprintf("fill %s=%s", loc, value), loc)
}

func (p *fakePage) Click(loc Locator, timeout time.Duration) error {
	return p.act("click "+loc.String(), loc)
}

func (p *fakePage) Screenshot() ([]byte, error) {
	p.shots++
	return []byte(fmt.Sprintf("png-%d", p.shots)), nil
}

func (p *fakePage) Title() (string, error) {
	return p.title, nil
}

func (p *fakePage) HTML() (string, error) {
	return p.html, nil
}

func (p *fakePage) Close() error {
	p.closed++
	return nil
}

// fakeLauncher hands out the same page and counts sessions
type fakeLauncher struct {
	page   *fakePage
	err    error
	opened int
}

func (l *fakeLauncher) Open() (Page, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.opened++
	return l.page, nil
}

func (l *fakeLauncher) leaked() int {
	if l.page == nil {
		return 0
	}
	return l.opened - l.page.closed
}
