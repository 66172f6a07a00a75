package gan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client talks to the generation launcher service, which wraps the GAN
// model subprocess. One Process call is one generation attempt; there
// is no retry, the caller re-submits if it wants another try.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type processResponse struct {
	Success   bool   `json:"success"`
	ResultURL string `json:"resultUrl"`
	Message   string `json:"message"`
	Error     string `json:"error"`
	Details   string `json:"details"`
}

// Result is a successful generation: the fetched image bytes plus the
// launcher-relative URL they came from.
type Result struct {
	ImageData []byte
	ResultURL string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			// Generation runs a model subprocess end to end, well beyond
			// normal request latency.
			Timeout: 60 * time.Second,
		},
	}
}

// Process sends the sketch to the launcher and fetches the generated
// image. Failures carry the launcher's error detail when the response
// body provides one, otherwise the transport error.
func (c *Client) Process(filename string, data []byte) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("sketch", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/api/process-sketch", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result processResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "failed to process sketch"
		}
		if result.Details != "" {
			return nil, fmt.Errorf("%s: %s", msg, result.Details)
		}
		return nil, fmt.Errorf("%s", msg)
	}

	imageData, err := c.fetchResult(result.ResultURL)
	if err != nil {
		return nil, err
	}

	return &Result{
		ImageData: imageData,
		ResultURL: c.baseURL + result.ResultURL,
	}, nil
}

func (c *Client) fetchResult(resultURL string) ([]byte, error) {
	resp, err := c.httpClient.Get(c.baseURL + resultURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch result image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to fetch result image: status %d, body: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read result image: %w", err)
	}

	return data, nil
}
