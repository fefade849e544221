package xwordinfo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"
	"xwordclues/internal/components/assert"
	"xwordclues/internal/components/telemetry"
	"xwordclues/lib/htmlutil"
	"xwordclues/lib/textutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_session_acquire   = "session.acquire"
	report_session_reacquire = "session.reacquire"
)

// SessionClassifier decides whether a page means the session was lost.
type SessionClassifier interface {
	IsInvalid(doc *goquery.Document) bool
}

// TitleClassifier treats any page whose title contains Marker (ignoring
// case) as the login page.
type TitleClassifier struct {
	Marker string
}

func (c TitleClassifier) IsInvalid(doc *goquery.Document) bool {
	if doc == nil || c.Marker == "" {
		return false
	}
	return textutil.ContainsFold(htmlutil.Title(doc), c.Marker)
}

type Options struct {
	BaseUrl   string
	Endpoints Endpoints
	UserAgent string
	// LoginMarker is the title fragment of the login page.
	LoginMarker string
	// RequestsPerSecond caps requests across every session of a manager,
	// 0 disables the cap.
	RequestsPerSecond float64
	// CloudflareBypass wraps the transport with browser-like TLS settings.
	CloudflareBypass bool
	Timeout          time.Duration
	// Output receives a dump of every http exchange when non-nil.
	Output telemetry.MessageOutput
}

func DefaultOptions() Options {
	return Options{
		BaseUrl:           DefaultBaseUrl,
		Endpoints:         DefaultEndpoints(),
		UserAgent:         DefaultUserAgent,
		LoginMarker:       DefaultLoginMarker,
		RequestsPerSecond: 2,
		CloudflareBypass:  true,
		Timeout:           30 * time.Second,
	}
}

// Session is an authenticated handle to the site. A session never changes
// after it is acquired, a lost session is replaced by Manager.Reacquire.
type Session struct {
	// Generation counts how many sessions the manager made before this one.
	Generation int

	baseUrl    *url.URL
	endpoints  Endpoints
	http       *resty.Client
	referer    string
	classifier SessionClassifier
}

// Referer is the url of the last page visited while acquiring the session,
// it is sent along with every request.
func (s *Session) Referer() string {
	return s.referer
}

// Page is a parsed response, Url is the url after redirects.
type Page struct {
	Url *url.URL
	Doc *goquery.Document
}

func (s *Session) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return s.baseUrl.String() + path
	}
	return s.baseUrl.ResolveReference(ref).String()
}

func (s *Session) do(req *resty.Request, method, path string) (Page, error) {
	if s.referer != "" {
		req.SetHeader("Referer", s.referer)
	}
	res, err := req.Execute(method, s.resolve(path))
	if err != nil {
		return Page{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	pageUrl := finalUrl(res)
	if !res.IsSuccess() {
		return Page{}, &StatusError{Code: res.StatusCode(), Url: pageUrl.String()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return Page{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if s.classifier.IsInvalid(doc) {
		return Page{Url: pageUrl, Doc: doc}, ErrSessionExpired
	}
	return Page{Url: pageUrl, Doc: doc}, nil
}

func finalUrl(res *resty.Response) *url.URL {
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		return res.RawResponse.Request.URL
	}
	u, err := url.Parse(res.Request.URL)
	if err != nil {
		return &url.URL{}
	}
	return u
}

// Get fetches a page of the site. It returns a *StatusError for non 2xx
// responses and ErrSessionExpired when the login page came back instead.
func (s *Session) Get(ctx context.Context, path string, query url.Values) (Page, error) {
	req := s.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	return s.do(req, resty.MethodGet, path)
}

// PostForm submits a url encoded form, errors are the same as Get.
func (s *Session) PostForm(ctx context.Context, path string, form url.Values) (Page, error) {
	req := s.http.R().
		SetContext(ctx).
		SetFormDataFromValues(form)
	return s.do(req, resty.MethodPost, path)
}

// SessionSource hands out sessions, it is what the batch driver depends on.
type SessionSource interface {
	Acquire(ctx context.Context) (*Session, error)
	Reacquire(ctx context.Context, old *Session) (*Session, error)
}

// Manager creates sessions against one site.
type Manager struct {
	opts       Options
	baseUrl    *url.URL
	classifier SessionClassifier
	limiter    *rate.Limiter
	tel        telemetry.API

	generation int
}

func NewManager(opts Options, tel telemetry.API) (*Manager, error) {
	assert.NotNil(tel, "telemetry")
	assert.NotNegative(opts.RequestsPerSecond, "requests per second")

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("invalid base url %q (must have scheme and host)", opts.BaseUrl)
	}
	if opts.Endpoints == (Endpoints{}) {
		opts.Endpoints = DefaultEndpoints()
	}
	if opts.LoginMarker == "" {
		opts.LoginMarker = DefaultLoginMarker
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		// burst >= 1 just means that no requests will be dropped
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Manager{
		opts:       opts,
		baseUrl:    baseUrl,
		classifier: TitleClassifier{Marker: opts.LoginMarker},
		limiter:    limiter,
		tel:        telemetry.NewScopedAPI("xwordinfo", tel),
	}, nil
}

// IsInvalid classifies a page as the login page.
func (m *Manager) IsInvalid(doc *goquery.Document) bool {
	return m.classifier.IsInvalid(doc)
}

func (m *Manager) newHttpClient() (*resty.Client, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if m.opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("User-Agent", m.opts.UserAgent)
	client.SetHeaders(browserHeaders)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(m.baseUrl.Hostname()))
	if m.opts.Timeout > 0 {
		client.SetTimeout(m.opts.Timeout)
	}

	if m.limiter != nil {
		limiter := m.limiter
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}
	var output telemetry.MessageOutput
	if m.opts.Output != nil {
		output = generationOutput{generation: m.generation, output: m.opts.Output}
	}
	telemetry.InstrumentResty(client, m.tel, output)

	return client, nil
}

// generationOutput keeps the dumps of different sessions apart, request
// ids restart with every client.
type generationOutput struct {
	generation int
	output     telemetry.MessageOutput
}

func (o generationOutput) Write(id string, contents string) {
	o.output.Write(fmt.Sprintf("%02d-%s", o.generation, id), contents)
}

// Acquire visits the home page and then the listing page, the site will
// not answer lookups for clients that skipped those. Failing to load
// either page is returned as is.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	client, err := m.newHttpClient()
	if err != nil {
		m.tel.ReportBroken(report_session_acquire, fmt.Errorf("create http client: %w", err))
		return nil, err
	}

	sess := &Session{
		Generation: m.generation,
		baseUrl:    m.baseUrl,
		endpoints:  m.opts.Endpoints,
		http:       client,
		// priming pages are not checked for the login marker
		classifier: TitleClassifier{},
	}

	for _, path := range []string{m.opts.Endpoints.Home, m.opts.Endpoints.Listing} {
		page, err := sess.Get(ctx, path, nil)
		if err != nil {
			m.tel.ReportBroken(report_session_acquire, fmt.Errorf("prime %s: %w", path, err))
			return nil, fmt.Errorf("acquire session: %w", err)
		}
		sess.referer = page.Url.String()
	}
	sess.classifier = m.classifier

	m.generation++
	m.tel.ReportDebug(report_session_acquire, sess.Generation, sess.referer)
	return sess, nil
}

// Reacquire discards old and acquires a fresh session.
func (m *Manager) Reacquire(ctx context.Context, old *Session) (*Session, error) {
	if old != nil {
		m.tel.ReportWarning(report_session_reacquire, old.Generation)
	}
	return m.Acquire(ctx)
}

// WithSession runs fn with sess. When fn reports ErrSessionExpired the
// session is reacquired and fn runs exactly once more, whatever the second
// attempt returns is final. The returned session is the one fn last ran
// with, or sess when reacquiring failed.
func WithSession[T any](
	ctx context.Context,
	source SessionSource,
	sess *Session,
	fn func(*Session) (T, error),
) (T, *Session, error) {
	out, err := fn(sess)
	if !errors.Is(err, ErrSessionExpired) {
		return out, sess, err
	}

	next, rerr := source.Reacquire(ctx, sess)
	if rerr != nil {
		var zero T
		return zero, sess, errors.Join(err, fmt.Errorf("reacquire session: %w", rerr))
	}
	out, err = fn(next)
	return out, next, err
}
