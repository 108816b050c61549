package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/reconcile"
	"github.com/goliatone/go-firmsite/internal/util"
)

// Supabase stores the state document in a PostgREST table row and images in
// a storage bucket.
type Supabase struct {
	baseURL string
	key     string
	opts    Options
}

func newSupabase(baseURL, key string, opts Options) *Supabase {
	return &Supabase{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		opts:    opts,
	}
}

// NewSupabase constructs a Supabase backend directly.
func NewSupabase(baseURL, key string, opts ...Option) *Supabase {
	return newSupabase(strings.TrimSpace(baseURL), strings.TrimSpace(key), buildOptions(opts))
}

func (s *Supabase) Name() string  { return NameSupabase }
func (s *Supabase) Enabled() bool { return true }

type supabaseRow struct {
	ID   int             `json:"id"`
	Data json.RawMessage `json:"data"`
}

func (s *Supabase) newRequest(method, endpoint string, body []byte) (*http.Request, error) {
	req, err := http.NewRequest(method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (s *Supabase) tableURL(query url.Values) (string, error) {
	endpoint, err := url.JoinPath(s.baseURL, "rest", "v1", s.opts.Table)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint, nil
}

// LoadState fetches the data column of the configured row.
func (s *Supabase) LoadState(ctx context.Context) (reconcile.Document, bool) {
	logger := logging.WithFields(s.opts.Logger, map[string]any{"backend": NameSupabase})

	endpoint, err := s.tableURL(url.Values{
		"id":     {"eq." + strconv.Itoa(s.opts.RowID)},
		"select": {"data"},
	})
	if err != nil {
		logger.Warn("remote.load.failed", "error", err)
		return nil, false
	}
	req, err := s.newRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		logger.Warn("remote.load.failed", "error", err)
		return nil, false
	}

	var rows []supabaseRow
	if err := util.DoJSON(ctx, s.opts.HTTPClient, req, &rows); err != nil {
		logger.Warn("remote.load.failed", "error", err)
		return nil, false
	}
	if len(rows) == 0 || len(rows[0].Data) == 0 || string(rows[0].Data) == "null" {
		logger.Debug("remote.load.empty")
		return nil, false
	}
	doc, err := reconcile.Parse(rows[0].Data)
	if err != nil {
		logger.Warn("remote.load.corrupt", "error", err)
		return nil, false
	}
	return doc, true
}

// SaveState upserts the content portion of state into the configured row.
func (s *Supabase) SaveState(ctx context.Context, state entities.State) error {
	content, err := ContentDocument(state)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(map[string]any{
		"id":   s.opts.RowID,
		"data": content,
	})
	if err != nil {
		return fmt.Errorf("remote: encode state: %w", err)
	}
	endpoint, err := s.tableURL(nil)
	if err != nil {
		return err
	}
	req, err := s.newRequest(http.MethodPost, endpoint, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates")
	return util.DoJSON(ctx, s.opts.HTTPClient, req, nil)
}

// UploadImage stores the image in the bucket and returns its public URL.
func (s *Supabase) UploadImage(ctx context.Context, upload Upload) (string, bool) {
	logger := logging.WithFields(s.opts.Logger, map[string]any{"backend": NameSupabase})

	upload, err := ValidateUpload(upload, s.opts.MaxUploadSize)
	if err != nil {
		logger.Warn("remote.upload.rejected", "error", err, "name", upload.Name)
		return "", false
	}

	name := objectName(upload.Name, s.opts.Now().UnixMilli())
	endpoint, err := url.JoinPath(s.baseURL, "storage", "v1", "object", s.opts.Bucket, name)
	if err != nil {
		logger.Warn("remote.upload.failed", "error", err)
		return "", false
	}
	req, err := s.newRequest(http.MethodPost, endpoint, upload.Data)
	if err != nil {
		logger.Warn("remote.upload.failed", "error", err)
		return "", false
	}
	req.Header.Set("Content-Type", upload.ContentType)
	req.Header.Set("x-upsert", "true")
	if err := util.DoJSON(ctx, s.opts.HTTPClient, req, nil); err != nil {
		logger.Warn("remote.upload.failed", "error", err)
		return "", false
	}

	public, err := url.JoinPath(s.baseURL, "storage", "v1", "object", "public", s.opts.Bucket, name)
	if err != nil {
		logger.Warn("remote.upload.failed", "error", err)
		return "", false
	}
	return public, true
}
