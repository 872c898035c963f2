package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Playwright launches Chromium through playwright-go driver
type Playwright struct {
	BrowserOpts
}

func NewPlaywright(opts BrowserOpts) *Playwright {
	logrus.Debugf("Playwright options: %+v", opts)
	return &Playwright{BrowserOpts: opts}
}

func (pw *Playwright) Open() (Page, error) {
	run, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	pp := &PlaywrightPage{pw: run}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(pw.IsHeadless),
	}
	if pw.BinPath != "" {
		launchOpts.ExecutablePath = playwright.String(pw.BinPath)
	}
	if pw.ProxyURL != "" {
		launchOpts.Proxy = &playwright.Proxy{Server: pw.ProxyURL}
	}

	pp.browser, err = run.Chromium.Launch(launchOpts)
	if err != nil {
		pp.Close()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	pageOpts := playwright.BrowserNewPageOptions{
		IgnoreHttpsErrors: playwright.Bool(pw.Insecure || pw.ProxyURL != ""),
	}
	if pw.LanguageCode != "" {
		pageOpts.Locale = playwright.String(pw.LanguageCode)
	}

	pp.page, err = pp.browser.NewPage(pageOpts)
	if err != nil {
		pp.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}
	return pp, nil
}

type PlaywrightPage struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func (p *PlaywrightPage) Navigate(URL string, timeout time.Duration) error {
	if p.page == nil {
		return ErrNoPage
	}
	logrus.Debug("Navigate to: ", URL)

	_, err := p.page.Goto(URL, playwright.PageGotoOptions{Timeout: ms(timeout)})
	return pwTimeoutErr(err, "navigation")
}

func (p *PlaywrightPage) WaitFor(loc Locator, timeout time.Duration) error {
	if p.page == nil {
		return ErrNoPage
	}
	err := p.page.Locator(loc.String()).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
	return pwTimeoutErr(err, loc.String())
}

func (p *PlaywrightPage) IsVisible(loc Locator) (bool, error) {
	if p.page == nil {
		return false, ErrNoPage
	}
	return p.page.Locator(loc.String()).First().IsVisible()
}

func (p *PlaywrightPage) Fill(loc Locator, value string, timeout time.Duration) error {
	if p.page == nil {
		return ErrNoPage
	}
	err := p.page.Locator(loc.String()).First().Fill(value, playwright.LocatorFillOptions{Timeout: ms(timeout)})
	return pwTimeoutErr(err, loc.String())
}

func (p *PlaywrightPage) Click(loc Locator, timeout time.Duration) error {
	if p.page == nil {
		return ErrNoPage
	}
	err := p.page.Locator(loc.String()).First().Click(playwright.LocatorClickOptions{Timeout: ms(timeout)})
	return pwTimeoutErr(err, loc.String())
}

func (p *PlaywrightPage) Screenshot() ([]byte, error) {
	if p.page == nil {
		return nil, ErrNoPage
	}
	return p.page.Screenshot()
}

func (p *PlaywrightPage) Title() (string, error) {
	if p.page == nil {
		return "", ErrNoPage
	}
	return p.page.Title()
}

func (p *PlaywrightPage) HTML() (string, error) {
	if p.page == nil {
		return "", ErrNoPage
	}
	return p.page.Content()
}

func (p *PlaywrightPage) Close() error {
	var errs []error

	if p.page != nil {
		if err := p.page.Close(); err != nil {
			errs = append(errs, err)
		}
		p.page = nil
	}
	if p.browser != nil {
		if err := p.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		p.browser = nil
	}
	if p.pw != nil {
		if err := p.pw.Stop(); err != nil {
			errs = append(errs, err)
		}
		p.pw = nil
	}

	return errors.Join(errs...)
}

func pwTimeoutErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s: %v", ErrMarkerTimeout, what, err)
	}
	return err
}
