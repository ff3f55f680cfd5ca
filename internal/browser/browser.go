// Package browser owns the lifecycle of one Chrome process and one page.
// It is the only package that talks to the automation protocol; everything
// above it drives the page through the Session methods.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var (
	// ErrLaunch wraps browser startup failures. These are environment
	// problems, not flaky tests: callers must abort, never retry.
	ErrLaunch = errors.New("browser launch failed")

	// ErrNavigation wraps page load failures.
	ErrNavigation = errors.New("navigation failed")
)

// Config configures one browser session.
type Config struct {
	Headless   bool
	BaseURL    string // relative step URLs resolve against this
	Width      int
	Height     int
	NavTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Width == 0 {
		c.Width = 1280
	}
	if c.Height == 0 {
		c.Height = 720
	}
	if c.NavTimeout == 0 {
		c.NavTimeout = 30 * time.Second
	}
	return c
}

// Session is one browser process plus one page. It is exclusively owned by
// a single scenario run and must be closed on every exit path.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	cfg     Config
}

// Acquire launches Chrome and opens a blank page.
func Acquire(cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()

	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu")

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLaunch, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect: %v", ErrLaunch, err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("%w: open page: %v", ErrLaunch, err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.Width,
		Height:            cfg.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = page.Close()
		_ = b.Close()
		return nil, fmt.Errorf("%w: set viewport: %v", ErrLaunch, err)
	}

	return &Session{browser: b, page: page, cfg: cfg}, nil
}

// Navigate loads target (resolved against the base URL when relative) and
// blocks until the page's load event fires or the navigation timeout lapses.
func (s *Session) Navigate(target string) error {
	full, err := s.resolve(target)
	if err != nil {
		return err
	}

	page := s.page.Timeout(s.cfg.NavTimeout)
	if err := page.Navigate(full); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, full, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %s: load did not settle: %v", ErrNavigation, full, err)
	}
	return nil
}

func (s *Session) resolve(target string) (string, error) {
	if strings.Contains(target, "://") {
		return target, nil
	}
	if s.cfg.BaseURL == "" {
		return "", fmt.Errorf("%w: relative url %q with no base url configured", ErrNavigation, target)
	}
	base, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("%w: bad base url %q: %v", ErrNavigation, s.cfg.BaseURL, err)
	}
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("%w: bad url %q: %v", ErrNavigation, target, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// TextVisible reports whether the rendered page text contains fragment.
// innerText only includes text that is actually rendered, so hidden nodes
// do not count.
func (s *Session) TextVisible(fragment string) (bool, error) {
	res, err := s.page.Eval(`(fragment) => (document.body ? document.body.innerText : '').includes(fragment)`, fragment)
	if err != nil {
		return false, fmt.Errorf("check text %q: %w", fragment, err)
	}
	return res.Value.Bool(), nil
}

// Screenshot captures the current viewport as PNG bytes.
func (s *Session) Screenshot() ([]byte, error) {
	data, err := s.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return data, nil
}

// Close tears down the page and browser. Safe on a partially acquired
// session; both teardowns always run.
func (s *Session) Close() {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
}
