package xwordinfo

import (
	"context"
	"net/url"
	"xwordclues/internal/records"
	"xwordclues/internal/tables"
)

// Finder fetches the clue history page of a word.
func (s *Session) Finder(ctx context.Context, word string) (Page, error) {
	return s.Get(ctx, s.endpoints.Finder, url.Values{finderWordParam: {word}})
}

// Listing fetches the popular answers page.
func (s *Session) Listing(ctx context.Context) (Page, error) {
	return s.Get(ctx, s.endpoints.Listing, nil)
}

// CommonClues fetches the site wide common clue listing.
func (s *Session) CommonClues(ctx context.Context) (Page, error) {
	return s.Get(ctx, s.endpoints.CommonClues, nil)
}

// AnswerLinks matches links to the word lookup endpoint.
func (s *Session) AnswerLinks() records.AnswerLinkMatcher {
	return records.AnswerLinkMatcher{
		Path:  s.endpoints.Finder,
		Param: finderWordParam,
	}
}

// PopularWords reads the first table of the popular answers page.
func (s *Session) PopularWords(ctx context.Context, limit int) ([]records.PopularWord, error) {
	page, err := s.Listing(ctx)
	if err != nil {
		return nil, err
	}
	return records.ExtractPopular(page.Doc.Find("table").First(), limit), nil
}

// FrequentClues locates and reads the common clue listing table, a page
// without that table yields no clues.
func (s *Session) FrequentClues(ctx context.Context, locator tables.Locator, limit int) ([]records.CommonClue, error) {
	page, err := s.CommonClues(ctx)
	if err != nil {
		return nil, err
	}
	table, ok := locator.Locate(page.Doc)
	if !ok {
		return nil, nil
	}
	return records.ExtractCommonClues(table, limit), nil
}
