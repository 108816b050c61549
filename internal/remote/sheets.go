package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/reconcile"
	"github.com/goliatone/go-firmsite/internal/util"
)

const statusSuccess = "success"

// ErrWebhookRejected reports a webhook reply without a success status.
var ErrWebhookRejected = errors.New("remote: webhook rejected request")

// Sheets talks to the legacy Google Apps Script webhook.
type Sheets struct {
	endpoint string
	opts     Options
}

func newSheets(endpoint string, opts Options) *Sheets {
	return &Sheets{endpoint: endpoint, opts: opts}
}

// NewSheets constructs the webhook backend directly. The URL is not checked
// against IsLegacyWebhookURL so tests can point it at a local server.
func NewSheets(endpoint string, opts ...Option) *Sheets {
	return newSheets(strings.TrimSpace(endpoint), buildOptions(opts))
}

func (s *Sheets) Name() string  { return NameSheets }
func (s *Sheets) Enabled() bool { return true }

type webhookReply struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	URL     string          `json:"url"`
	Message string          `json:"message"`
}

// LoadState issues GET ?action=getState with a cache-busting timestamp.
func (s *Sheets) LoadState(ctx context.Context) (reconcile.Document, bool) {
	logger := logging.WithFields(s.opts.Logger, map[string]any{"backend": NameSheets})

	endpoint, err := url.Parse(s.endpoint)
	if err != nil {
		logger.Warn("remote.load.failed", "error", err)
		return nil, false
	}
	query := endpoint.Query()
	query.Set("action", "getState")
	query.Set("t", strconv.FormatInt(s.opts.Now().UnixMilli(), 10))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequest(http.MethodGet, endpoint.String(), nil)
	if err != nil {
		logger.Warn("remote.load.failed", "error", err)
		return nil, false
	}
	req.Header.Set("Accept", "application/json")

	var reply webhookReply
	if err := util.DoJSON(ctx, s.opts.HTTPClient, req, &reply); err != nil {
		logger.Warn("remote.load.failed", "error", err)
		return nil, false
	}
	if reply.Status != statusSuccess || len(reply.Data) == 0 || string(reply.Data) == "null" {
		logger.Debug("remote.load.empty", "status", reply.Status)
		return nil, false
	}
	doc, err := reconcile.Parse(reply.Data)
	if err != nil {
		logger.Warn("remote.load.corrupt", "error", err)
		return nil, false
	}
	return doc, true
}

// SaveState posts the content portion of state with action saveState.
func (s *Sheets) SaveState(ctx context.Context, state entities.State) error {
	content, err := ContentDocument(state)
	if err != nil {
		return err
	}
	_, err = s.post(ctx, map[string]any{
		"action": "saveState",
		"data":   content,
	})
	return err
}

// UploadImage posts the image base64 encoded with action uploadImage.
func (s *Sheets) UploadImage(ctx context.Context, upload Upload) (string, bool) {
	logger := logging.WithFields(s.opts.Logger, map[string]any{"backend": NameSheets})

	upload, err := ValidateUpload(upload, s.opts.MaxUploadSize)
	if err != nil {
		logger.Warn("remote.upload.rejected", "error", err, "name", upload.Name)
		return "", false
	}
	reply, err := s.post(ctx, map[string]any{
		"action":   "uploadImage",
		"filename": objectName(upload.Name, s.opts.Now().UnixMilli()),
		"mimeType": upload.ContentType,
		"data":     base64.StdEncoding.EncodeToString(upload.Data),
	})
	if err != nil {
		logger.Warn("remote.upload.failed", "error", err)
		return "", false
	}
	if strings.TrimSpace(reply.URL) == "" {
		logger.Warn("remote.upload.failed", "error", "missing url in reply")
		return "", false
	}
	return reply.URL, true
}

// Submission is a completed public form.
type Submission struct {
	FormID      string
	FormTitle   string
	Data        map[string]any
	SubmittedAt time.Time
}

// SubmitForm posts a form submission with action submitForm.
func (s *Sheets) SubmitForm(ctx context.Context, submission Submission) error {
	submittedAt := submission.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = s.opts.Now()
	}
	_, err := s.post(ctx, map[string]any{
		"action":      "submitForm",
		"formId":      submission.FormID,
		"formTitle":   submission.FormTitle,
		"data":        submission.Data,
		"submittedAt": submittedAt.UTC().Format(time.RFC3339),
	})
	return err
}

func (s *Sheets) post(ctx context.Context, body map[string]any) (webhookReply, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return webhookReply{}, fmt.Errorf("remote: encode %v: %w", body["action"], err)
	}
	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return webhookReply{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var reply webhookReply
	if err := util.DoJSON(ctx, s.opts.HTTPClient, req, &reply); err != nil {
		return webhookReply{}, err
	}
	if reply.Status != statusSuccess {
		return reply, fmt.Errorf("%w: %s %s", ErrWebhookRejected, body["action"], reply.Message)
	}
	return reply, nil
}
