package brightdata

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"

	"post-archiver/domain/model"
	"post-archiver/domain/repository"
	"post-archiver/infrastructure/logger"
)

// Config holds the provider API settings. DatasetIDs maps each platform
// to its collection dataset; a platform without a dataset id cannot be
// triggered.
type Config struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
	DatasetIDs    map[model.Platform]string
}

// Client talks to the Bright Data dataset API: trigger a collection,
// watch its snapshot progress, download the NDJSON result.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// triggerParams is encoded onto the trigger URL. The webhook fields are
// only set on the webhook path.
type triggerParams struct {
	DatasetID     string `url:"dataset_id"`
	IncludeErrors bool   `url:"include_errors"`
	Format        string `url:"format,omitempty"`
	Endpoint      string `url:"endpoint,omitempty"`
	AuthHeader    string `url:"auth_header,omitempty"`
	Notify        bool   `url:"uncompressed_webhook,omitempty"`
}

type triggerInput struct {
	URL string `json:"url"`
	// LinkedIn's dataset rejects requests without a country field, empty
	// string included is fine.
	Country *string `json:"country,omitempty"`
}

func (c *Client) TriggerCollection(ctx context.Context, url string, platform model.Platform) (string, error) {
	return c.trigger(ctx, url, platform, "")
}

func (c *Client) TriggerCollectionWithWebhook(ctx context.Context, url string, platform model.Platform, webhookURL string) (string, error) {
	return c.trigger(ctx, url, platform, webhookURL)
}

func (c *Client) trigger(ctx context.Context, url string, platform model.Platform, webhookURL string) (string, error) {
	datasetID, ok := c.cfg.DatasetIDs[platform]
	if !ok || datasetID == "" {
		return "", &model.ProviderError{Op: "trigger", Body: fmt.Sprintf("no dataset configured for platform %s", platform)}
	}

	params := triggerParams{DatasetID: datasetID, IncludeErrors: true}
	if webhookURL != "" {
		params.Format = "ndjson"
		params.Endpoint = webhookURL
		params.AuthHeader = c.cfg.WebhookSecret
		params.Notify = true
	}
	values, err := query.Values(params)
	if err != nil {
		return "", err
	}

	input := triggerInput{URL: url}
	if platform == model.PlatformLinkedIn {
		empty := ""
		input.Country = &empty
	}
	body, err := json.Marshal([]triggerInput{input})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/datasets/v3/trigger?%s", c.cfg.BaseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &model.ProviderError{Op: "trigger", Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &model.ProviderError{Op: "trigger", Status: resp.StatusCode, Body: string(respBody)}
	}

	var result struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &model.ProviderError{Op: "trigger", Body: "unparseable trigger response: " + err.Error()}
	}
	if result.SnapshotID == "" {
		return "", &model.ProviderError{Op: "trigger", Body: "trigger response carried no snapshot_id"}
	}
	return result.SnapshotID, nil
}

// PollUntilReady checks snapshot progress on a fixed interval until the
// provider reports ready or failed, bounded by a hard wall-clock
// timeout. No backoff: the provider rate-limits progress reads itself.
func (c *Client) PollUntilReady(ctx context.Context, snapshotID string, timeout, interval time.Duration) (repository.RawRecord, error) {
	deadline := time.Now().Add(timeout)
	for {
		status, upstreamErr, err := c.snapshotProgress(ctx, snapshotID)
		if err != nil {
			return nil, err
		}
		switch status {
		case "ready":
			return c.DownloadSnapshot(ctx, snapshotID)
		case "failed":
			return nil, &model.ProviderError{Op: "collect", Body: upstreamErr}
		}

		if time.Now().After(deadline) {
			return nil, &model.ProviderError{Op: "poll", Body: fmt.Sprintf("snapshot %s not ready after %s", snapshotID, timeout)}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

func (c *Client) snapshotProgress(ctx context.Context, snapshotID string) (status, upstreamErr string, err error) {
	endpoint := fmt.Sprintf("%s/datasets/v3/progress/%s", c.cfg.BaseURL, snapshotID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", &model.ProviderError{Op: "progress", Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", "", &model.ProviderError{Op: "progress", Status: resp.StatusCode, Body: string(respBody)}
	}

	var progress struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&progress); err != nil {
		return "", "", &model.ProviderError{Op: "progress", Body: "unparseable progress response: " + err.Error()}
	}
	return progress.Status, progress.Error, nil
}

// DownloadSnapshot fetches the NDJSON result. Each non-empty line is
// parsed independently; lines that fail to parse are logged and
// skipped, and the first good record wins. Zero good records is fatal.
func (c *Client) DownloadSnapshot(ctx context.Context, snapshotID string) (repository.RawRecord, error) {
	endpoint := fmt.Sprintf("%s/datasets/v3/snapshot/%s?format=ndjson", c.cfg.BaseURL, snapshotID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.ProviderError{Op: "download", Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &model.ProviderError{Op: "download", Status: resp.StatusCode, Body: string(respBody)}
	}

	return ParseSnapshotBody(resp.Body, snapshotID)
}

// ParseSnapshotBody decodes an NDJSON stream and returns the first
// record that parses.
func ParseSnapshotBody(r io.Reader, snapshotID string) (repository.RawRecord, error) {
	scanner := bufio.NewScanner(r)
	// Some records (full comment trees) run well past the default split limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var first repository.RawRecord
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record repository.RawRecord
		if err := json.Unmarshal(line, &record); err != nil {
			logger.GetLogger().
				WithField("snapshot_id", snapshotID).
				WithField("line", lineNo).
				WithField("error", err).
				Warn("Skipping unparseable snapshot line")
			continue
		}
		if first == nil {
			first = record
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &model.ProviderError{Op: "download", Body: "reading snapshot body: " + err.Error()}
	}
	if first == nil {
		return nil, &model.EmptySnapshotError{SnapshotID: snapshotID}
	}
	return first, nil
}

var _ repository.IProvider = (*Client)(nil)
