package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

type playwrightBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

type playwrightSession struct {
	page playwright.Page
	opts Options
}

func launchPlaywright(opts Options) (Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}
	return &playwrightBrowser{pw: pw, browser: b, opts: opts}, nil
}

func (b *playwrightBrowser) NewSession() (Session, error) {
	page, err := b.browser.NewPage(playwright.BrowserNewPageOptions{
		UserAgent: playwright.String(b.opts.UserAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	if err := page.AddInitScript(playwright.Script{
		Content: playwright.String(maskAutomationScript),
	}); err != nil {
		page.Close()
		return nil, fmt.Errorf("adding init script: %w", err)
	}
	if b.opts.BlockResources {
		err := page.Route("**/*", func(route playwright.Route) {
			if _, blocked := blockedResourceTypes[route.Request().ResourceType()]; blocked {
				route.Abort()
				return
			}
			route.Continue()
		})
		if err != nil {
			page.Close()
			return nil, fmt.Errorf("setting up request interception: %w", err)
		}
	}
	page.SetDefaultTimeout(float64(b.opts.Timeout.Milliseconds()))
	return &playwrightSession{page: page, opts: b.opts}, nil
}

func (b *playwrightBrowser) Close() error {
	err := b.browser.Close()
	if stopErr := b.pw.Stop(); err == nil {
		err = stopErr
	}
	return err
}

func (s *playwrightSession) Navigate(url string) error {
	res, err := s.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(s.opts.Timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return err
	}
	if res != nil && !res.Ok() {
		return fmt.Errorf("failed to load page: %d %s", res.Status(), res.StatusText())
	}
	return nil
}

func (s *playwrightSession) HTML() (string, error) {
	return s.page.Content()
}

func (s *playwrightSession) ScrollBy(px int) error {
	_, err := s.page.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", px))
	return err
}

func (s *playwrightSession) Count(selector string) (int, error) {
	return s.page.Locator(selector).Count()
}

func (s *playwrightSession) ScrollIntoView(selector string, index int) error {
	return s.page.Locator(selector).Nth(index).ScrollIntoViewIfNeeded()
}

func (s *playwrightSession) ImageAttr(selector string, index int, attrs []string) (string, error) {
	img := s.page.Locator(selector).Nth(index).Locator("img").First()
	n, err := img.Count()
	if err != nil || n == 0 {
		return "", err
	}
	for _, attr := range attrs {
		v, err := img.GetAttribute(attr)
		if err != nil {
			continue
		}
		if v != "" {
			return v, nil
		}
	}
	return "", nil
}

func (s *playwrightSession) Close() error {
	return s.page.Close()
}
