package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

type rodBrowser struct {
	browser *rod.Browser
	opts    Options
}

type rodSession struct {
	page *rod.Page
	opts Options
}

func launchRod(opts Options) (Browser, error) {
	u, err := launcher.New().Headless(opts.Headless).NoSandbox(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("launching chromium: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &rodBrowser{browser: b, opts: opts}, nil
}

// NewSession creates a stealth page: the injected patches cover the
// webdriver flag and the rest of the headless fingerprint.
func (b *rodBrowser) NewSession() (Session, error) {
	page, err := stealth.Page(b.browser)
	if err != nil {
		return nil, fmt.Errorf("creating stealth page: %w", err)
	}
	err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: b.opts.UserAgent,
	})
	if err != nil {
		page.Close()
		return nil, fmt.Errorf("setting user agent: %w", err)
	}
	return &rodSession{page: page, opts: b.opts}, nil
}

func (b *rodBrowser) Close() error {
	return b.browser.Close()
}

func (s *rodSession) Navigate(url string) error {
	if err := s.page.Timeout(s.opts.Timeout).Navigate(url); err != nil {
		return err
	}
	return s.page.Timeout(s.opts.Timeout).WaitLoad()
}

func (s *rodSession) HTML() (string, error) {
	return s.page.HTML()
}

func (s *rodSession) ScrollBy(px int) error {
	_, err := s.page.Eval(`(y) => window.scrollBy(0, y)`, px)
	return err
}

func (s *rodSession) Count(selector string) (int, error) {
	elems, err := s.page.Elements(selector)
	if err != nil {
		return 0, err
	}
	return len(elems), nil
}

func (s *rodSession) ScrollIntoView(selector string, index int) error {
	elems, err := s.page.Elements(selector)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(elems) {
		return fmt.Errorf("no element at index %d for %q", index, selector)
	}
	return elems[index].ScrollIntoView()
}

func (s *rodSession) ImageAttr(selector string, index int, attrs []string) (string, error) {
	elems, err := s.page.Elements(selector)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(elems) {
		return "", nil
	}
	imgs, err := elems[index].Elements("img")
	if err != nil || len(imgs) == 0 {
		return "", err
	}
	for _, attr := range attrs {
		v, err := imgs[0].Attribute(attr)
		if err != nil {
			continue
		}
		if v != nil && *v != "" {
			return *v, nil
		}
	}
	return "", nil
}

func (s *rodSession) Close() error {
	return s.page.Close()
}
