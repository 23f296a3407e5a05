package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/attune-labs/attune/internal/emotion"
)

// Client talks to the external face/emotion classifier service. The
// classification itself lives entirely on the other side of this call.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type detectResponse struct {
	Emotions   emotion.Vector `json:"emotions"`
	Confidence float64        `json:"confidence"`
	Age        int            `json:"age"`
	Gender     string         `json:"gender"`
}

// Detect requests one classification reading and returns it as a
// timestamped sample.
func (c *Client) Detect(ctx context.Context) (emotion.Sample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/detect", nil)
	if err != nil {
		return emotion.Sample{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return emotion.Sample{}, fmt.Errorf("detector call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return emotion.Sample{}, fmt.Errorf("detector %s: %s", resp.Status, string(body))
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return emotion.Sample{}, fmt.Errorf("detector decode: %w", err)
	}

	return emotion.Sample{
		Vector:     out.Emotions,
		Confidence: out.Confidence,
		CapturedAt: time.Now().UTC(),
		Age:        out.Age,
		Gender:     out.Gender,
	}, nil
}
