package page

import (
	"errors"
	"fmt"
)

// Tab is the content tab selected on the page.
type Tab string

const (
	TabPodcast Tab = "podcast"
	TabVideo   Tab = "video"
)

var ErrInvalidTab = errors.New("invalid tab")

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	return t == TabPodcast || t == TabVideo
}

// ParseTab converts a query or form value into a Tab.
func ParseTab(s string) (Tab, error) {
	t := Tab(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTab, s)
	}
	return t, nil
}
