package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Site is a stand-in for the crossword site, routes are matched on the
// exact request path and every hit is counted.
type Site struct {
	Server *httptest.Server

	mutex    sync.Mutex
	routes   map[string]http.HandlerFunc
	hits     map[string]int
	sessions int
}

// SessionCookie is the cookie the home page hands out.
const SessionCookie = "ASP.NET_SessionId"

// NewSite starts a site that serves a home page (setting a session
// cookie), a listing page at /Popular and a login page at /Login.
func NewSite(t testing.TB) *Site {
	s := &Site{
		routes: map[string]http.HandlerFunc{},
		hits:   map[string]int{},
	}
	s.routes["/"] = s.home
	s.HandlePage("/Popular", http.StatusOK, Page("Popular Answers - XWord Info"))
	s.HandlePage("/Login", http.StatusOK, LoginPage())

	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Server.Close)
	return s
}

func (s *Site) Url() string {
	return s.Server.URL
}

func (s *Site) home(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	s.sessions++
	id := s.sessions
	s.mutex.Unlock()

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: fmt.Sprint(id), Path: "/"})
	WriteHTML(w, http.StatusOK, Page("XWord Info"))
}

func (s *Site) serve(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	s.hits[r.URL.Path]++
	handler, ok := s.routes[r.URL.Path]
	s.mutex.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	handler(w, r)
}

func (s *Site) Handle(path string, handler http.HandlerFunc) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.routes[path] = handler
}

// HandlePage serves a fixed body with the given status.
func (s *Site) HandlePage(path string, status int, body string) {
	s.Handle(path, func(w http.ResponseWriter, _ *http.Request) {
		WriteHTML(w, status, body)
	})
}

// Hits returns how many requests path received.
func (s *Site) Hits(path string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.hits[path]
}

// Sessions returns how many session cookies the home page handed out.
func (s *Site) Sessions() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sessions
}

// RedirectToLogin answers like the site does for a lost session.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/Login", http.StatusFound)
}

func WriteHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}
