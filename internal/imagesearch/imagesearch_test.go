package imagesearch

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearchMapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/photos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Client-ID access" {
			t.Errorf("unexpected authorization %q", got)
		}
		if r.URL.Query().Get("query") != "courtroom" || r.URL.Query().Get("per_page") != "3" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"results":[
			{"id":"a1","urls":{"regular":"https://img/a1","small":"https://img/a1s"},"user":{"name":"Dana"}},
			{"id":"skip","urls":{}},
			{"id":"b2","urls":{"regular":"https://img/b2","thumb":"https://img/b2t"},"user":{"name":""}}
		]}`)
	}))
	t.Cleanup(srv.Close)

	searcher := New(time.Second, WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithPerPage(3))
	images := searcher.Search(t.Context(), "courtroom", "access")
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %+v", images)
	}
	if images[0].ID != "a1" || images[0].ThumbnailURL != "https://img/a1s" || images[0].Attribution != "Dana / Unsplash" {
		t.Fatalf("unexpected first image %+v", images[0])
	}
	if images[1].ThumbnailURL != "https://img/b2t" || images[1].Attribution != "Unsplash" {
		t.Fatalf("unexpected second image %+v", images[1])
	}
}

func TestSearchFallsBackToPlaceholders(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(failing.Close)
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[]}`)
	}))
	t.Cleanup(empty.Close)

	want := Placeholders("office")
	cases := map[string]struct {
		base string
		key  string
	}{
		"no key":       {base: failing.URL, key: ""},
		"unauthorized": {base: failing.URL, key: "bad"},
		"no results":   {base: empty.URL, key: "ok"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			searcher := New(time.Second, WithBaseURL(tc.base))
			images := searcher.Search(t.Context(), "office", tc.key)
			if len(images) != len(want) || images[0] != want[0] {
				t.Fatalf("expected placeholders, got %+v", images)
			}
		})
	}
}

func TestPlaceholdersAreDeterministic(t *testing.T) {
	a := Placeholders("חוזה שכירות")
	b := Placeholders("חוזה שכירות")
	if len(a) != placeholderCount {
		t.Fatalf("expected %d placeholders, got %d", placeholderCount, len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("placeholder %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	if Placeholders("")[0].ID == "" {
		t.Fatal("expected placeholder id for empty query")
	}
	if Placeholders("wills")[0].URL == Placeholders("estates")[0].URL {
		t.Fatal("expected different queries to yield different placeholders")
	}
}
