// Package sharelink is the addressable location a share token travels in: the
// fragment of a URL, plus the clipboard it is handed over through.
package sharelink

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
)

// Location reads and writes the fragment of the current location.
type Location interface {
	// ReadFragment returns the fragment without the leading '#', or false
	// when there is none.
	ReadFragment() (string, bool)
	SetFragment(value string)
	ClearFragment()
}

// URLLocation implements Location over a URL held in memory.
type URLLocation struct {
	mu  sync.Mutex
	url url.URL
}

// Parse builds a URLLocation from a link such as
// "https://kidplan.app/#data=eyJ9". The link must be absolute.
func Parse(link string) (*URLLocation, error) {
	trimmed := strings.TrimSpace(link)
	if trimmed == "" {
		return nil, fmt.Errorf("link is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse link: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("link %q is not absolute", link)
	}
	return &URLLocation{url: *u}, nil
}

// ReadFragment implements Location.
func (l *URLLocation) ReadFragment() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// The escaped form keeps the token as written; '+' and '=' are legal in
	// a fragment and survive unchanged.
	frag := l.url.EscapedFragment()
	if frag == "" {
		return "", false
	}
	return frag, true
}

// SetFragment implements Location.
func (l *URLLocation) SetFragment(value string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.url.Fragment = value
	l.url.RawFragment = ""
}

// ClearFragment implements Location.
func (l *URLLocation) ClearFragment() {
	l.SetFragment("")
}

// String returns the full link including any fragment.
func (l *URLLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.url.String()
}

// Copy puts text on the system clipboard.
func Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not available on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
