package xwordinfo

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"xwordclues/internal/records"
	"xwordclues/lib/testutil"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/clue_search.html
var clueSearchPage string

// searchSite serves the clue search page and answers submissions with
// results, failing the first `expire` submissions with a login redirect.
type searchSite struct {
	*testutil.Site

	mutex  sync.Mutex
	expire int
	forms  []url.Values
}

func newSearchSite(t testing.TB, expire int, answers ...string) *searchSite {
	s := &searchSite{Site: testutil.NewSite(t), expire: expire}
	s.Handle("/ClueSearch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			testutil.WriteHTML(w, http.StatusOK, clueSearchPage)
			return
		}

		err := r.ParseForm()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mutex.Lock()
		s.forms = append(s.forms, r.PostForm)
		expired := s.expire > 0
		s.expire--
		s.mutex.Unlock()

		if expired {
			testutil.RedirectToLogin(w, r)
			return
		}
		testutil.WriteHTML(w, http.StatusOK, testutil.Page(
			"Clue Search - XWord Info",
			`<a href="/Finder?word=NIL">this week</a>`,
			testutil.Anchors("/Finder", answers...),
		))
	})
	return s
}

func (s *searchSite) submitted() []url.Values {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.forms
}

func TestTopAnswers(t *testing.T) {
	site := newSearchSite(t, 0, "NIL", "PEP", "NIL", "NADA", "NIL")
	manager, _ := newTestManager(t, site.Site)

	sess, err := manager.Acquire(context.Background())
	require.NoError(t, err)

	answers, last, err := TopAnswers(context.Background(), manager, sess, "Zilch", 2)
	require.NoError(t, err)
	require.Same(t, sess, last)
	require.Equal(t, []records.AnswerCount{
		{Answer: "NIL", Count: 3},
		{Answer: "this week", Count: 1},
	}, answers)

	forms := site.submitted()
	require.Len(t, forms, 1)
	require.Equal(t, "dDwtMTA4NzA", forms[0].Get("__VIEWSTATE"))
	require.Equal(t, "8C5A8B1F", forms[0].Get("__VIEWSTATEGENERATOR"))
	require.Equal(t, "/wEdAAW", forms[0].Get("__EVENTVALIDATION"))
	require.Equal(t, "Zilch", forms[0].Get("clue"))
	require.Equal(t, "exact", forms[0].Get("mode"))
}

func TestTopAnswersTieBreak(t *testing.T) {
	site := newSearchSite(t, 0)
	site.Handle("/ClueSearch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			testutil.WriteHTML(w, http.StatusOK, clueSearchPage)
			return
		}
		testutil.WriteHTML(w, http.StatusOK, testutil.Page(
			"Clue Search - XWord Info",
			testutil.Anchors("/Finder", "NIL", "PEP", "NIL", "NADA", "NIL"),
		))
	})
	manager, _ := newTestManager(t, site.Site)

	sess, err := manager.Acquire(context.Background())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		answers, _, err := TopAnswers(context.Background(), manager, sess, "Zilch", 2)
		require.NoError(t, err)
		require.Equal(t, []records.AnswerCount{
			{Answer: "NIL", Count: 3},
			{Answer: "PEP", Count: 1},
		}, answers)
	}
}

func TestTopAnswersWithoutTokens(t *testing.T) {
	site := newSearchSite(t, 0, "NIL")
	site.Handle("/ClueSearch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Error("submitted a search without tokens")
		}
		testutil.WriteHTML(w, http.StatusOK, testutil.Page("Clue Search", `<form><input name="clue"></form>`))
	})
	manager, _ := newTestManager(t, site.Site)

	sess, err := manager.Acquire(context.Background())
	require.NoError(t, err)

	answers, _, err := TopAnswers(context.Background(), manager, sess, "Zilch", 2)
	require.NoError(t, err)
	require.Empty(t, answers)
	require.Equal(t, 1, site.Hits("/ClueSearch"))
}

func TestTopAnswersSessionLost(t *testing.T) {
	site := newSearchSite(t, 1, "NADA", "NIL", "NADA")
	manager, _ := newTestManager(t, site.Site)

	sess, err := manager.Acquire(context.Background())
	require.NoError(t, err)

	answers, last, err := TopAnswers(context.Background(), manager, sess, "Zilch", 5)
	require.NoError(t, err)
	require.Equal(t, 1, last.Generation)
	require.Equal(t, []records.AnswerCount{
		{Answer: "NADA", Count: 2},
		{Answer: "this week", Count: 1},
		{Answer: "NIL", Count: 1},
	}, answers)

	require.Equal(t, 2, site.Sessions())
	require.Len(t, site.submitted(), 2)
	// two priming GETs and two submissions
	require.Equal(t, 4, site.Hits("/ClueSearch"))
}

func TestTopAnswersSessionLostTwice(t *testing.T) {
	site := newSearchSite(t, 5, "NIL")
	manager, _ := newTestManager(t, site.Site)

	sess, err := manager.Acquire(context.Background())
	require.NoError(t, err)

	_, _, err = TopAnswers(context.Background(), manager, sess, "Zilch", 5)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Len(t, site.submitted(), 2)
	require.Equal(t, 2, site.Sessions())
}
