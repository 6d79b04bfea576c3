package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// Renderer loads a page in a headless browser and returns the rendered
// HTML. Scrapers for JS-rendered sites take a Renderer so tests can inject
// a stub returning fixture HTML.
type Renderer interface {
	Render(ctx context.Context, url string, opts RenderOptions) (string, error)
}

// RenderOptions tunes a single render.
type RenderOptions struct {
	// Settle is how long to wait after navigation for client-side
	// rendering to finish. Defaults to 2s.
	Settle time.Duration
	// ClickAll, if set, is a selector (e.g. a "Load More" button) clicked
	// repeatedly until it disappears before capturing the page.
	ClickAll string
	// DismissAll is a list of selectors (cookie-consent buttons) clicked
	// once if present.
	DismissAll []string
	// IgnoreTLSErrors allows rendering sites with broken certificates.
	IgnoreTLSErrors bool
}

const (
	renderTimeout = 60 * time.Second
	maxClicks     = 20
)

type chromeRenderer struct{}

// NewChromeRenderer returns the headless-Chromium Renderer used outside of
// tests.
func NewChromeRenderer() Renderer {
	return chromeRenderer{}
}

func (chromeRenderer) Render(ctx context.Context, url string, opts RenderOptions) (string, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if opts.IgnoreTLSErrors {
		allocOpts = append(allocOpts, chromedp.Flag("ignore-certificate-errors", true))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, renderTimeout)
	defer cancelTimeout()

	settle := opts.Settle
	if settle == 0 {
		settle = 2 * time.Second
	}

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.Sleep(settle),
	}
	for _, sel := range opts.DismissAll {
		actions = append(actions, clickIfPresent(sel))
	}
	if opts.ClickAll != "" {
		actions = append(actions, clickUntilGone(opts.ClickAll))
	}
	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", err
	}
	return html, nil
}

func clickIfPresent(sel string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var nodes []*cdp.Node
		if err := chromedp.Nodes(sel, &nodes, chromedp.AtLeast(0)).Do(ctx); err != nil {
			return err
		}
		if len(nodes) == 0 {
			return nil
		}
		if err := chromedp.Click(sel, chromedp.NodeVisible).Do(ctx); err != nil {
			return nil // banner vanished between query and click
		}
		return chromedp.Sleep(time.Second).Do(ctx)
	})
}

func clickUntilGone(sel string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for i := 0; i < maxClicks; i++ {
			var nodes []*cdp.Node
			if err := chromedp.Nodes(sel, &nodes, chromedp.AtLeast(0)).Do(ctx); err != nil {
				return err
			}
			if len(nodes) == 0 {
				return nil
			}
			if err := chromedp.Click(sel, chromedp.NodeVisible).Do(ctx); err != nil {
				return nil
			}
			if err := chromedp.Sleep(1500 * time.Millisecond).Do(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// renderDocument renders url and parses the result as an HTML document.
func renderDocument(ctx context.Context, r Renderer, url string, opts RenderOptions) (*goquery.Document, error) {
	html, err := r.Render(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
