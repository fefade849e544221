package xwordinfo

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when the site answered with its login page
// instead of the requested one.
var ErrSessionExpired = errors.New("xwordinfo: session expired")

// StatusError is returned for responses outside of the 2xx range.
type StatusError struct {
	Code int
	Url  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("xwordinfo: %s responded with status %d", e.Url, e.Code)
}

// Endpoints are the paths of the pages the scraper talks to, relative to
// the base url.
type Endpoints struct {
	Home        string `json:"home"`
	Listing     string `json:"listing"`
	Finder      string `json:"finder"`
	CommonClues string `json:"common_clues"`
	ClueSearch  string `json:"clue_search"`
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Home:        "/",
		Listing:     "/Popular",
		Finder:      "/Finder",
		CommonClues: "/CommonClues",
		ClueSearch:  "/ClueSearch",
	}
}

const (
	// finderWordParam is the query parameter of the word lookup endpoint.
	finderWordParam = "word"

	searchClueField  = "clue"
	searchModeField  = "mode"
	searchModeExact  = "exact"
	searchSubmitName = "submit"
)

const DefaultBaseUrl = "https://www.xwordinfo.com"

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36 Edg/141.0.0.0"

var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Cache-Control":             "no-cache",
	"DNT":                       "1",
	"Pragma":                    "no-cache",
	"Upgrade-Insecure-Requests": "1",
}

// DefaultLoginMarker is the title fragment of the site's login page.
const DefaultLoginMarker = "login"
