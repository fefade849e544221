package xwordinfo

import (
	"context"
	"net/url"
	"xwordclues/internal/records"
	"xwordclues/lib/htmlutil"
)

// SearchTokens fetches the clue search page and returns its hidden form
// fields, the site rejects submissions without them. An empty result
// means the page no longer has the shape this scraper expects.
func (s *Session) SearchTokens(ctx context.Context) (url.Values, error) {
	page, err := s.Get(ctx, s.endpoints.ClueSearch, nil)
	if err != nil {
		return nil, err
	}
	return htmlutil.HiddenInputs(page.Doc.Selection), nil
}

// SubmitSearch posts an exact match search for clue carrying tokens.
func (s *Session) SubmitSearch(ctx context.Context, tokens url.Values, clue string) (Page, error) {
	form := url.Values{}
	for k, v := range tokens {
		form[k] = append([]string(nil), v...)
	}
	form.Set(searchClueField, clue)
	form.Set(searchModeField, searchModeExact)
	form.Set(searchSubmitName, "Search")
	return s.PostForm(ctx, s.endpoints.ClueSearch, form)
}

// SearchAnswers tallies the answers the site lists for clue. It returns an
// empty tally without submitting anything when the search page has no
// tokens.
func (s *Session) SearchAnswers(ctx context.Context, clue string) (*records.Tally, error) {
	tokens, err := s.SearchTokens(ctx)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return records.NewTally(), nil
	}

	page, err := s.SubmitSearch(ctx, tokens, clue)
	if err != nil {
		return nil, err
	}
	return records.TallyAnswers(page.Doc, page.Url, s.AnswerLinks()), nil
}

// TopAnswers returns the limit most common answers for clue. A lost session
// is reacquired once and the search (tokens included) is redone with the
// new session, the returned session is the one to keep using.
func TopAnswers(
	ctx context.Context,
	source SessionSource,
	sess *Session,
	clue string,
	limit int,
) ([]records.AnswerCount, *Session, error) {
	return WithSession(ctx, source, sess, func(s *Session) ([]records.AnswerCount, error) {
		tally, err := s.SearchAnswers(ctx, clue)
		if err != nil {
			return nil, err
		}
		return tally.Top(limit), nil
	})
}
