package xwordinfo

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
	"xwordclues/internal/components/telemetry"
	"xwordclues/internal/records"
	"xwordclues/internal/tables"
	"xwordclues/lib/testutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func testOptions(site *testutil.Site) Options {
	opts := DefaultOptions()
	opts.BaseUrl = site.Url()
	opts.CloudflareBypass = false
	opts.RequestsPerSecond = 0
	opts.Timeout = 5 * time.Second
	return opts
}

func newTestManager(t testing.TB, site *testutil.Site) (*Manager, *telemetry.Recorder) {
	rec := &telemetry.Recorder{}
	manager, err := NewManager(testOptions(site), rec)
	if err != nil {
		t.Fatal(err)
	}
	return manager, rec
}

func TestAcquire(t *testing.T) {
	site := testutil.NewSite(t)

	var referer, cookie, userAgent, word string
	site.Handle("/Finder", func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("Referer")
		userAgent = r.Header.Get("User-Agent")
		if c, err := r.Cookie(testutil.SessionCookie); err == nil {
			cookie = c.Value
		}
		word = r.URL.Query().Get("word")
		testutil.WriteHTML(w, http.StatusOK, testutil.Page("ERA - Finder"))
	})

	manager, _ := newTestManager(t, site)
	sess, err := manager.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, sess.Generation)
	require.True(t, strings.HasSuffix(sess.Referer(), "/Popular"), sess.Referer())
	require.Equal(t, 1, site.Hits("/"))
	require.Equal(t, 1, site.Hits("/Popular"))

	page, err := sess.Finder(context.Background(), "ERA")
	require.NoError(t, err)
	require.Equal(t, "/Finder", page.Url.Path)
	require.Equal(t, "ERA", word)
	require.Equal(t, sess.Referer(), referer)
	require.Equal(t, "1", cookie)
	require.Equal(t, DefaultUserAgent, userAgent)
}

func TestAcquireFails(t *testing.T) {
	site := testutil.NewSite(t)
	site.HandlePage("/Popular", http.StatusInternalServerError, "oops")

	manager, rec := newTestManager(t, site)
	_, err := manager.Acquire(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusInternalServerError, statusErr.Code)
	require.Len(t, rec.Find(telemetry.REPORT_BROKEN, report_session_acquire), 1)
}

func TestNewManagerInvalidBaseUrl(t *testing.T) {
	opts := DefaultOptions()
	opts.BaseUrl = "/relative"
	_, err := NewManager(opts, &telemetry.Recorder{})
	require.Error(t, err)
}

func TestLookupErrors(t *testing.T) {
	site := testutil.NewSite(t)
	site.Handle("/Finder", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("word") {
		case "GONE":
			testutil.RedirectToLogin(w, r)
		case "BUSY":
			testutil.WriteHTML(w, http.StatusServiceUnavailable, "busy")
		default:
			testutil.WriteHTML(w, http.StatusOK, testutil.Page("Finder"))
		}
	})

	manager, _ := newTestManager(t, site)
	sess, err := manager.Acquire(context.Background())
	require.NoError(t, err)

	_, err = sess.Finder(context.Background(), "GONE")
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Equal(t, 1, site.Hits("/Login"))

	_, err = sess.Finder(context.Background(), "BUSY")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusServiceUnavailable, statusErr.Code)

	_, err = sess.Finder(context.Background(), "ERA")
	require.NoError(t, err)
}

func TestTitleClassifier(t *testing.T) {
	testCases := []struct {
		page    string
		invalid bool
	}{
		{page: testutil.LoginPage(), invalid: true},
		{page: testutil.Page("Please LOGIN to continue"), invalid: true},
		{page: testutil.Page("ERA - Finder"), invalid: false},
		{page: "<p>no title at all, login</p>", invalid: false},
	}

	classifier := TitleClassifier{Marker: DefaultLoginMarker}
	for _, test := range testCases {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(test.page))
		require.NoError(t, err)
		require.Equal(t, test.invalid, classifier.IsInvalid(doc), test.page)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(testutil.LoginPage()))
	require.NoError(t, err)
	require.False(t, TitleClassifier{}.IsInvalid(doc))
}

func TestWithSessionRetriesOnce(t *testing.T) {
	site := testutil.NewSite(t)
	manager, rec := newTestManager(t, site)

	sess, err := manager.Acquire(context.Background())
	require.NoError(t, err)

	var generations []int
	_, last, err := WithSession(context.Background(), manager, sess, func(s *Session) (int, error) {
		generations = append(generations, s.Generation)
		return 0, ErrSessionExpired
	})
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Equal(t, []int{0, 1}, generations)
	require.Equal(t, 1, last.Generation)
	require.Equal(t, 2, site.Sessions())
	require.Len(t, rec.Find(telemetry.REPORT_WARNING, report_session_reacquire), 1)
}

func TestWithSessionPassesThrough(t *testing.T) {
	site := testutil.NewSite(t)
	manager, _ := newTestManager(t, site)

	sess, err := manager.Acquire(context.Background())
	require.NoError(t, err)

	calls := 0
	boom := errors.New("boom")
	_, last, err := WithSession(context.Background(), manager, sess, func(s *Session) (int, error) {
		calls++
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
	require.Same(t, sess, last)
	require.Equal(t, 1, site.Sessions())
}

func TestFrequentCluesAndPopularWords(t *testing.T) {
	site := testutil.NewSite(t)
	site.HandlePage("/CommonClues", http.StatusOK, testutil.Page("Common Clues",
		testutil.Table{
			Header: []string{"Rank", "Count", "Clue"},
			Rows:   [][]string{{"1.", "412", "Zilch"}, {"2.", "300", "Greek letter"}},
			Total:  60,
		}.HTML(),
	))
	site.HandlePage("/Popular", http.StatusOK, testutil.Page("Popular",
		`<table><tr><th>Rank</th><th>Count</th><th>Words</th></tr>
<tr><td>1.</td><td>800</td><td><a href="/Finder?word=ERA">ERA</a></td></tr></table>`,
	))

	manager, _ := newTestManager(t, site)
	sess, err := manager.Acquire(context.Background())
	require.NoError(t, err)

	clues, err := sess.FrequentClues(context.Background(), tables.NewAggregateClueLocator(), 2)
	require.NoError(t, err)
	require.Equal(t, []records.CommonClue{
		{Clue: "Zilch", Count: 412, Rank: 1},
		{Clue: "Greek letter", Count: 300, Rank: 2},
	}, clues)

	words, err := sess.PopularWords(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, []records.PopularWord{{Word: "ERA", Clues: 20, Occurrences: 800, Rank: 1}}, words)
}

type memoryOutput map[string]string

func (o memoryOutput) Write(id string, contents string) {
	o[id] = contents
}

func TestDumpsPerGeneration(t *testing.T) {
	site := testutil.NewSite(t)
	dumps := memoryOutput{}
	opts := testOptions(site)
	opts.Output = dumps
	manager, err := NewManager(opts, &telemetry.Recorder{})
	require.NoError(t, err)

	sess, err := manager.Acquire(context.Background())
	require.NoError(t, err)
	_, err = manager.Reacquire(context.Background(), sess)
	require.NoError(t, err)

	require.Len(t, dumps, 4)
	require.Contains(t, dumps, "00-0001.txt")
	require.Contains(t, dumps, "01-0002.txt")
	require.Contains(t, dumps["01-0002.txt"], "/Popular")
}
