package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/corpix/uarand"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/sirupsen/logrus"
)

type BrowserOpts struct {
	IsHeadless      bool          // Use browser interface
	IsLeakless      bool          // Force to kill browser
	UseStealth      bool          // Use stealth page
	RandomUserAgent bool          // Override user agent with random one
	LanguageCode    string
	ProxyURL        string // Proxy URL
	Insecure        bool   // Allow insecure TLS connections
	BinPath         string // Browser binary, looked up when empty
}

// Browser launches a fresh rod-controlled browser per opened page
type Browser struct {
	BrowserOpts
}

func NewBrowser(opts BrowserOpts) (*Browser, error) {
	logrus.Debugf("Browser options: %+v", opts)

	if opts.BinPath == "" {
		path, has := launcher.LookPath()
		logrus.Debug("Browser found: ", has)
		opts.BinPath = path
	}

	if opts.ProxyURL != "" {
		if _, err := url.Parse(opts.ProxyURL); err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %v", err)
		}
	}

	return &Browser{BrowserOpts: opts}, nil
}

// Open launches the browser process and returns its only page
func (b *Browser) Open() (Page, error) {
	l := launcher.New().Bin(b.BinPath).Leakless(b.IsLeakless).Headless(b.IsHeadless)

	var proxyUrl *url.URL
	if b.ProxyURL != "" {
		proxyUrl, _ = url.Parse(b.ProxyURL)
		logrus.Debugf("Setting up proxy: %s", proxyUrl.String())
		l = l.Proxy(proxyUrl.String())
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	logrus.Debugf("Browser launched, pid=%d", l.PID())

	rp := &RodPage{launcher: l}
	rp.browser = rod.New().ControlURL(controlURL)
	if err := rp.browser.Connect(); err != nil {
		rp.Close()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	if proxyUrl != nil || b.Insecure {
		if err := rp.browser.IgnoreCertErrors(true); err != nil {
			rp.Close()
			return nil, err
		}
	}

	if proxyUrl != nil && proxyUrl.User != nil {
		username := proxyUrl.User.Username()
		password, _ := proxyUrl.User.Password()
		logrus.Debugf("Using proxy authentication: %s:****", username)
		go rp.browser.HandleAuth(username, password)()
	}

	if b.UseStealth {
		rp.page, err = stealth.Page(rp.browser)
	} else {
		rp.page, err = rp.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		rp.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if b.RandomUserAgent || b.LanguageCode != "" {
		ua := &proto.NetworkSetUserAgentOverride{AcceptLanguage: b.LanguageCode}
		if b.RandomUserAgent {
			ua.UserAgent = uarand.GetRandom()
		} else {
			ua.UserAgent = rp.browserUserAgent()
		}
		if err := rp.page.SetUserAgent(ua); err != nil {
			rp.Close()
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	return rp, nil
}

// RodPage is a page of a browser process owned by one scenario
type RodPage struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

func (p *RodPage) browserUserAgent() string {
	v, err := p.browser.Version()
	if err != nil {
		return ""
	}
	return v.UserAgent
}

func (p *RodPage) Navigate(URL string, timeout time.Duration) error {
	if p.page == nil {
		return ErrNoPage
	}
	logrus.Debug("Navigate to: ", URL)

	page := p.page.Timeout(timeout)
	defer page.CancelTimeout()

	if err := page.Navigate(URL); err != nil {
		return timeoutErr(err, "navigation")
	}
	return timeoutErr(page.WaitLoad(), "page load")
}

func (p *RodPage) WaitFor(loc Locator, timeout time.Duration) error {
	if p.page == nil {
		return ErrNoPage
	}
	page := p.page.Timeout(timeout)
	defer page.CancelTimeout()

	_, err := p.find(page, loc)
	return timeoutErr(err, loc.String())
}

// Deepest visible element whose rendered text contains the text, case insensitive like playwright text=
const jsFindText = `(text) => {
	const want = text.toLowerCase();
	const matches = (el) => {
		const t = el.innerText !== undefined ? el.innerText : el.textContent;
		return (t || "").toLowerCase().includes(want) && el.getClientRects().length > 0;
	};
	const deepest = (el) => {
		for (const child of el.children) {
			if (matches(child)) {
				return deepest(child);
			}
		}
		return el;
	};
	const root = document.body || document.documentElement;
	return root && matches(root) ? deepest(root) : null;
}`

// find waits for the locator and returns its visible element
func (p *RodPage) find(page *rod.Page, loc Locator) (*rod.Element, error) {
	var el *rod.Element
	var err error
	switch {
	case loc.Selector != "" && loc.Text != "":
		el, err = page.ElementR(loc.Selector, regexp.QuoteMeta(loc.Text))
	case loc.Selector != "":
		el, err = page.Element(loc.Selector)
	default:
		el, err = page.ElementByJS(rod.Eval(jsFindText, loc.Text))
	}
	if err != nil {
		return nil, err
	}
	return el, el.WaitVisible()
}

func (p *RodPage) IsVisible(loc Locator) (bool, error) {
	if p.page == nil {
		return false, ErrNoPage
	}

	var has bool
	var el *rod.Element
	var err error
	switch {
	case loc.Selector != "" && loc.Text != "":
		has, el, err = p.page.HasR(loc.Selector, regexp.QuoteMeta(loc.Text))
	case loc.Selector != "":
		has, el, err = p.page.Has(loc.Selector)
	default:
		// Text lookup only returns visible elements
		_, err = p.page.Sleeper(rod.NotFoundSleeper).ElementByJS(rod.Eval(jsFindText, loc.Text))
		return foundErr(err)
	}
	if err != nil || !has {
		return false, err
	}
	return el.Visible()
}

func (p *RodPage) Fill(loc Locator, value string, timeout time.Duration) error {
	if p.page == nil {
		return ErrNoPage
	}

	page := p.page.Timeout(timeout)
	defer page.CancelTimeout()

	el, err := p.find(page, loc)
	if err != nil {
		return timeoutErr(err, loc.String())
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}

func (p *RodPage) Click(loc Locator, timeout time.Duration) error {
	if p.page == nil {
		return ErrNoPage
	}

	page := p.page.Timeout(timeout)
	defer page.CancelTimeout()

	el, err := p.find(page, loc)
	if err != nil {
		return timeoutErr(err, loc.String())
	}
	return timeoutErr(el.Click(proto.InputMouseButtonLeft, 1), loc.String())
}

func (p *RodPage) Screenshot() ([]byte, error) {
	if p.page == nil {
		return nil, ErrNoPage
	}
	return p.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

func (p *RodPage) Title() (string, error) {
	if p.page == nil {
		return "", ErrNoPage
	}
	info, err := p.page.Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (p *RodPage) HTML() (string, error) {
	if p.page == nil {
		return "", ErrNoPage
	}
	return p.page.HTML()
}

// Close releases page, browser connection and the browser process
func (p *RodPage) Close() error {
	var errs []error

	if p.page != nil {
		if err := p.page.Close(); err != nil {
			errs = append(errs, err)
		}
		p.page = nil
	}

	if p.browser != nil {
		if err := p.browser.Close(); err != nil {
			logrus.Debugf("Browser close: %v", err)
		}
		p.browser = nil
	}

	if p.launcher != nil {
		p.launcher.Kill()
		p.launcher.Cleanup()
		p.launcher = nil
	}

	return errors.Join(errs...)
}

// foundErr treats element not found as a successful negative lookup
func foundErr(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	var notFound *rod.ErrElementNotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, err
}

// timeoutErr converts context deadline into ErrMarkerTimeout
func timeoutErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrMarkerTimeout, what)
	}
	return err
}
