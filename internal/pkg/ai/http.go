package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
	"github.com/gitsage/gitmsg/internal/pkg/security"
)

// maxErrorBody bounds how much of an error response ends up in a message.
const maxErrorBody = 512

// httpStatusError is the cause recorded for non-2xx responses.
type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// postJSON marshals payload, POSTs it to endpoint and returns the response
// body of a 2xx reply. logEndpoint is what verbose logs show for the target.
func postJSON(ctx context.Context, client *http.Client, provider, endpoint, logEndpoint, model string, headers map[string]string, payload interface{}, promptLen int) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewNetworkError(provider, redactURLError(err))
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	apperrors.LogAPIRequest(provider, logEndpoint, model, promptLen)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError(redactURLError(err))
		}
		return nil, apperrors.NewNetworkError(provider, redactURLError(err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError(provider, fmt.Errorf("failed to read response: %w", err))
	}

	apperrors.LogAPIResponse(provider, resp.StatusCode, len(respBody), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewNetworkError(provider, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       truncateBody(respBody),
		})
	}

	return respBody, nil
}

func truncateBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return security.SanitizeForLogging(s)
}

// redactURLError drops the query string from the URL in a transport error,
// since the Google adapter carries its key there.
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if u, perr := url.Parse(urlErr.URL); perr == nil && u.RawQuery != "" {
			u.RawQuery = ""
			return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
		}
	}
	return err
}

// decodeJSON unmarshals a provider response, reporting failures as malformed.
func decodeJSON(provider string, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.NewMalformedResponseError(provider, err)
	}
	return nil
}

// requireSetting returns a MissingCredentialError when value is empty.
func requireSetting(provider, key, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewMissingCredentialError(provider, provider+"."+key)
	}
	return nil
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
