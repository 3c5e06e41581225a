package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/meltgauge/pkg/buildinfo"
	errs "github.com/matzehuels/meltgauge/pkg/errors"
)

// HTTPSender posts clicks to {BaseURL}/tanks/{id}/click.
type HTTPSender struct {
	BaseURL  string
	Client   *http.Client
	Attempts int           // total tries for transient failures, default 3
	Delay    time.Duration // first backoff delay, default 200ms
}

// NewHTTPSender creates a sender with a 5 second client timeout.
func NewHTTPSender(baseURL string) *HTTPSender {
	return &HTTPSender{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		Client:   &http.Client{Timeout: 5 * time.Second},
		Attempts: 3,
		Delay:    200 * time.Millisecond,
	}
}

// errorBody mirrors the JSON error returned by the HTTP service.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Send posts c, retrying network errors and 5xx responses.
func (s *HTTPSender) Send(ctx context.Context, c Click) error {
	body, err := json.Marshal(c)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode click")
	}
	endpoint := fmt.Sprintf("%s/tanks/%s/click", s.BaseURL, url.PathEscape(c.TankID))

	delay := s.Delay
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}
	return Retry(ctx, s.Attempts, delay, func() error {
		return s.post(ctx, endpoint, body)
	})
}

func (s *HTTPSender) post(ctx context.Context, endpoint string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errs.Wrap(errs.ErrCodeTimeout, err, "post click")
		}
		return &RetryableError{Err: errs.Wrap(errs.ErrCodeNetwork, err, "post click")}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb)
	if eb.Message == "" {
		eb.Message = resp.Status
	}
	if resp.StatusCode >= 500 {
		return &RetryableError{Err: errs.New(errs.ErrCodeNetwork, "click rejected: %s", eb.Message)}
	}
	code := errs.Code(eb.Code)
	if code == "" {
		code = errs.ErrCodeInvalidInput
	}
	return errs.New(code, "%s", eb.Message)
}

var _ Sender = (*HTTPSender)(nil)
