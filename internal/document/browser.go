package document

import (
	"fmt"
	"net/url"
	"sync"
)

// Window is a window opened by the page.
type Window struct {
	URL     string
	Name    string
	Options string
}

// Browser models the location and window state around a document.
type Browser struct {
	mu      sync.Mutex
	href    string
	history []string
	reloads int
	windows []Window
}

// NewBrowser creates a browser positioned at href.
func NewBrowser(href string) *Browser {
	return &Browser{href: href}
}

// Href returns the current location.
func (b *Browser) Href() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.href
}

// History returns the locations navigated away from, oldest first.
func (b *Browser) History() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.history...)
}

// Reloads returns how many times the page was reloaded.
func (b *Browser) Reloads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reloads
}

// Windows returns the windows opened so far.
func (b *Browser) Windows() []Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Window(nil), b.windows...)
}

// Reload reloads the current page.
func (b *Browser) Reload() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reloads++
	return nil
}

// Navigate moves to rawURL, resolved against the current location.
func (b *Browser) Navigate(rawURL string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, err := b.resolve(rawURL)
	if err != nil {
		return err
	}
	if b.href != "" {
		b.history = append(b.history, b.href)
	}
	b.href = next
	return nil
}

// OpenWindow opens rawURL in a new window.
func (b *Browser) OpenWindow(rawURL, name, options string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	u, err := b.resolve(rawURL)
	if err != nil {
		return err
	}
	b.windows = append(b.windows, Window{URL: u, Name: name, Options: options})
	return nil
}

func (b *Browser) resolve(rawURL string) (string, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("document: invalid url %q: %w", rawURL, err)
	}
	if b.href == "" {
		return ref.String(), nil
	}
	base, err := url.Parse(b.href)
	if err != nil {
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}
