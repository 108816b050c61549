package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/reconcile"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000000000")

func fixedNow() time.Time {
	return time.Date(2025, 2, 3, 10, 30, 0, 0, time.UTC)
}

func TestSelect(t *testing.T) {
	cases := []struct {
		name         string
		integrations entities.Integrations
		want         string
	}{
		{"nothing configured", entities.Integrations{}, NameDisabled},
		{"supabase", entities.Integrations{SupabaseURL: "https://x.supabase.co", SupabaseKey: "anon"}, NameSupabase},
		{"supabase without key", entities.Integrations{SupabaseURL: "https://x.supabase.co"}, NameDisabled},
		{"sheets", entities.Integrations{GoogleSheetsURL: "https://script.google.com/macros/s/abc/exec"}, NameSheets},
		{"supabase wins", entities.Integrations{
			SupabaseURL: "https://x.supabase.co", SupabaseKey: "anon",
			GoogleSheetsURL: "https://script.google.com/macros/s/abc/exec",
		}, NameSupabase},
		{"sheets wrong host", entities.Integrations{GoogleSheetsURL: "https://example.com/macros/s/abc/exec"}, NameDisabled},
		{"sheets plain http", entities.Integrations{GoogleSheetsURL: "http://script.google.com/macros/s/abc/exec"}, NameDisabled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := Select(tc.integrations)
			if backend.Name() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, backend.Name())
			}
			if backend.Enabled() != (tc.want != NameDisabled) {
				t.Fatalf("unexpected Enabled() for %s", tc.want)
			}
		})
	}
}

func TestDisabledBackendIsNoop(t *testing.T) {
	backend := Select(entities.Integrations{})
	ctx := context.Background()
	if doc, ok := backend.LoadState(ctx); ok || doc != nil {
		t.Fatalf("expected no data")
	}
	if err := backend.SaveState(ctx, entities.DefaultState()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if url, ok := backend.UploadImage(ctx, Upload{Name: "a.png", Data: pngHeader}); ok || url != "" {
		t.Fatalf("expected upload no-op")
	}
}

func TestValidateUpload(t *testing.T) {
	if _, err := ValidateUpload(Upload{Name: "a.txt", ContentType: "text/plain", Data: []byte("hi")}, 0); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
	if _, err := ValidateUpload(Upload{Name: "empty.png"}, 0); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage for empty data, got %v", err)
	}
	big := Upload{Name: "big.png", ContentType: "image/png", Data: make([]byte, DefaultMaxUploadSize+1)}
	if _, err := ValidateUpload(big, 0); !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
	sniffed, err := ValidateUpload(Upload{Name: "a.png", Data: pngHeader}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sniffed.ContentType != "image/png" {
		t.Fatalf("expected sniffed image/png, got %q", sniffed.ContentType)
	}
}

func TestObjectName(t *testing.T) {
	if got := objectName("../My Photo (1).PNG", 42); got != "42-My-Photo--1-.PNG" {
		t.Fatalf("unexpected object name %q", got)
	}
	if got := objectName("///", 7); got != "7-image" {
		t.Fatalf("unexpected fallback name %q", got)
	}
}

func TestContentDocumentExcludesSession(t *testing.T) {
	state := entities.DefaultState()
	state.IsAdminLoggedIn = true
	doc, err := ContentDocument(state)
	if err != nil {
		t.Fatalf("ContentDocument() error = %v", err)
	}
	for _, key := range []string{reconcile.KeyIsAdminLoggedIn, reconcile.KeyCurrentCategory, reconcile.SchemaVersionKey} {
		if _, ok := doc[key]; ok {
			t.Fatalf("expected %s excluded", key)
		}
	}
	if len(doc) != len(reconcile.ContentKeys) {
		t.Fatalf("expected %d content keys, got %d", len(reconcile.ContentKeys), len(doc))
	}
}

func TestSupabaseLoadAndSave(t *testing.T) {
	var saved map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon" || r.Header.Get("Authorization") != "Bearer anon" {
			t.Errorf("missing auth headers")
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/app_state":
			if r.URL.Query().Get("id") != "eq.1" || r.URL.Query().Get("select") != "data" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			_, _ = io.WriteString(w, `[{"data":{"articles":[{"id":"r1","category":"WILLS"}]}}]`)
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/app_state":
			if r.Header.Get("Prefer") != "resolution=merge-duplicates" {
				t.Errorf("expected upsert preference, got %q", r.Header.Get("Prefer"))
			}
			if err := json.NewDecoder(r.Body).Decode(&saved); err != nil {
				t.Errorf("decode body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	backend := NewSupabase(server.URL, "anon", WithHTTPClient(server.Client()))
	ctx := context.Background()

	doc, ok := backend.LoadState(ctx)
	if !ok {
		t.Fatalf("expected remote data")
	}
	if _, ok := doc[reconcile.KeyArticles]; !ok {
		t.Fatalf("expected articles in remote document, got %v", doc)
	}

	state := entities.DefaultState()
	state.IsAdminLoggedIn = true
	if err := backend.SaveState(ctx, state); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	if saved["id"] != float64(1) {
		t.Fatalf("expected row id 1, got %v", saved["id"])
	}
	data := saved["data"].(map[string]any)
	if _, ok := data[reconcile.KeyIsAdminLoggedIn]; ok {
		t.Fatalf("expected session field excluded from remote save")
	}
	if _, ok := data[reconcile.KeyConfig]; !ok {
		t.Fatalf("expected config in remote save")
	}
}

func TestSupabaseLoadFailuresReportNoData(t *testing.T) {
	replies := []struct {
		status int
		body   string
	}{
		{http.StatusInternalServerError, `oops`},
		{http.StatusOK, `[]`},
		{http.StatusOK, `[{"data":null}]`},
		{http.StatusOK, `not json`},
	}
	for _, reply := range replies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(reply.status)
			_, _ = io.WriteString(w, reply.body)
		}))
		backend := NewSupabase(server.URL, "anon", WithHTTPClient(server.Client()))
		if _, ok := backend.LoadState(context.Background()); ok {
			t.Fatalf("expected no data for %d %s", reply.status, reply.body)
		}
		server.Close()
	}
}

func TestSupabaseUploadImage(t *testing.T) {
	var gotPath, gotType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"Key":"images/x"}`)
	}))
	defer server.Close()

	backend := NewSupabase(server.URL, "anon", WithHTTPClient(server.Client()), WithNow(fixedNow))
	url, ok := backend.UploadImage(context.Background(), Upload{Name: "office.png", ContentType: "image/png", Data: pngHeader})
	if !ok {
		t.Fatalf("expected upload success")
	}
	name := "1738578600000-office.png"
	if gotPath != "/storage/v1/object/images/"+name {
		t.Fatalf("unexpected upload path %s", gotPath)
	}
	if gotType != "image/png" || !bytes.Equal(gotBody, pngHeader) {
		t.Fatalf("unexpected upload request %s %q", gotType, gotBody)
	}
	if url != server.URL+"/storage/v1/object/public/images/"+name {
		t.Fatalf("unexpected public url %s", url)
	}
}

func TestUploadRejectedBeforeNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	backends := []Backend{
		NewSupabase(server.URL, "anon", WithHTTPClient(server.Client())),
		NewSheets(server.URL, WithHTTPClient(server.Client())),
	}
	for _, backend := range backends {
		if _, ok := backend.UploadImage(context.Background(), Upload{Name: "notes.txt", ContentType: "text/plain", Data: []byte("x")}); ok {
			t.Fatalf("%s: expected rejection", backend.Name())
		}
	}
	if called {
		t.Fatalf("expected no network call for invalid uploads")
	}
}

func TestSheetsLoadState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "getState" || r.URL.Query().Get("t") != "1738578600000" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"status":"success","data":{"slides":[]}}`)
	}))
	defer server.Close()

	backend := NewSheets(server.URL, WithHTTPClient(server.Client()), WithNow(fixedNow))
	doc, ok := backend.LoadState(context.Background())
	if !ok {
		t.Fatalf("expected data")
	}
	if _, ok := doc[reconcile.KeySlides]; !ok {
		t.Fatalf("expected slides, got %v", doc)
	}
}

func TestSheetsLoadStateRequiresSuccess(t *testing.T) {
	for _, body := range []string{`{"status":"error","data":{"slides":[]}}`, `{"status":"success"}`, `{"status":"success","data":null}`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		}))
		backend := NewSheets(server.URL, WithHTTPClient(server.Client()))
		if _, ok := backend.LoadState(context.Background()); ok {
			t.Fatalf("expected no data for %s", body)
		}
		server.Close()
	}
}

func TestSheetsPostActions(t *testing.T) {
	var requests []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		requests = append(requests, body)
		if body["action"] == "uploadImage" {
			_, _ = io.WriteString(w, `{"status":"success","url":"https://drive.example/img"}`)
			return
		}
		_, _ = io.WriteString(w, `{"status":"success"}`)
	}))
	defer server.Close()

	backend := NewSheets(server.URL, WithHTTPClient(server.Client()), WithNow(fixedNow))
	ctx := context.Background()

	if err := backend.SaveState(ctx, entities.DefaultState()); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	url, ok := backend.UploadImage(ctx, Upload{Name: "a.png", ContentType: "image/png", Data: pngHeader})
	if !ok || url != "https://drive.example/img" {
		t.Fatalf("unexpected upload result %q %v", url, ok)
	}
	if err := backend.SubmitForm(ctx, Submission{FormID: "form-poa", FormTitle: "POA", Data: map[string]any{"fullName": "Dana"}}); err != nil {
		t.Fatalf("SubmitForm() error = %v", err)
	}

	if len(requests) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(requests))
	}
	if requests[0]["action"] != "saveState" {
		t.Fatalf("unexpected first action %v", requests[0]["action"])
	}
	if _, ok := requests[0]["data"].(map[string]any)[reconcile.KeyIsAdminLoggedIn]; ok {
		t.Fatalf("expected session excluded from saveState")
	}
	encoded, _ := requests[1]["data"].(string)
	if decoded, err := base64.StdEncoding.DecodeString(encoded); err != nil || !bytes.Equal(decoded, pngHeader) {
		t.Fatalf("expected base64 image payload")
	}
	if requests[2]["formId"] != "form-poa" || requests[2]["submittedAt"] != "2025-02-03T10:30:00Z" {
		t.Fatalf("unexpected submission %v", requests[2])
	}
}

func TestSheetsPostRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"error","message":"quota"}`)
	}))
	defer server.Close()

	backend := NewSheets(server.URL, WithHTTPClient(server.Client()))
	err := backend.SaveState(context.Background(), entities.DefaultState())
	if !errors.Is(err, ErrWebhookRejected) || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("expected ErrWebhookRejected, got %v", err)
	}
}
