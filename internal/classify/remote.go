package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kaptinlin/jsonrepair"

	appLog "calassist/internal/log"
	"calassist/internal/model"
)

// maxResponseBytes caps how much of a remote reply is read. Anything a
// classification service legitimately returns fits well under this.
const maxResponseBytes = 1 << 20

// Request is the payload sent to the remote inference collaborator.
type Request struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AsOf        time.Time `json:"as_of"`
}

// RemoteClient is the remote inference collaborator. Implementations may
// fail, time out, or return garbage; the Classifier absorbs all of it.
type RemoteClient interface {
	Classify(ctx context.Context, req Request) (model.Classification, error)
}

// remotePayload is the strict wire schema expected from the collaborator.
type remotePayload struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// HTTPClient talks JSON-over-HTTP to a classification endpoint.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClient builds a client for the given endpoint. The timeout
// bounds the whole round trip.
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify posts the activity to the endpoint and decodes the structured
// response. Any schema violation is returned as an error; the caller
// treats it like a network failure.
func (c *HTTPClient) Classify(ctx context.Context, req Request) (model.Classification, error) {
	if c.endpoint == "" {
		return model.Classification{}, errors.New("remote classifier endpoint is empty")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return model.Classification{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Classification{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return model.Classification{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Classification{}, fmt.Errorf("remote classifier returned %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.Classification{}, err
	}

	payload, err := decodePayload(raw)
	if err != nil {
		return model.Classification{}, err
	}

	category, err := model.ParseCategory(payload.Category)
	if err != nil {
		return model.Classification{}, fmt.Errorf("remote classifier: %w", err)
	}

	return model.Classification{
		Category:   category,
		Confidence: clamp01(payload.Confidence),
		Rationale:  payload.Rationale,
		Source:     model.SourceRemote,
	}, nil
}

// decodePayload unmarshals the response, giving malformed-but-salvageable
// JSON one repair pass before giving up.
func decodePayload(raw []byte) (remotePayload, error) {
	var payload remotePayload
	if err := json.Unmarshal(raw, &payload); err == nil {
		return payload, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(raw))
	if repairErr != nil {
		return remotePayload{}, fmt.Errorf("unparseable classifier response: %w", repairErr)
	}
	appLog.Warn("remote classifier response repaired", "bytes", len(raw))

	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return remotePayload{}, fmt.Errorf("classifier response out of schema: %w", err)
	}
	return payload, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
