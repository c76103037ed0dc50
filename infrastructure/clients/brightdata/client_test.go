package brightdata_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"post-archiver/domain/model"
	"post-archiver/infrastructure/clients/brightdata"
)

func testClient(baseURL string) *brightdata.Client {
	return brightdata.NewClient(brightdata.Config{
		BaseURL:       baseURL,
		APIKey:        "test-key",
		WebhookSecret: "hook-secret",
		DatasetIDs: map[model.Platform]string{
			model.PlatformX:        "gd_x",
			model.PlatformLinkedIn: "gd_li",
		},
	})
}

func TestTriggerCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/datasets/v3/trigger", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "gd_x", r.URL.Query().Get("dataset_id"))
		assert.Equal(t, "true", r.URL.Query().Get("include_errors"))
		assert.Empty(t, r.URL.Query().Get("endpoint"))

		var inputs []map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&inputs))
		if assert.Len(t, inputs, 1) {
			assert.Equal(t, "https://x.com/jack/status/20", inputs[0]["url"])
		}

		fmt.Fprint(w, `{"snapshot_id":"snap-123"}`)
	}))
	defer srv.Close()

	id, err := testClient(srv.URL).TriggerCollection(context.Background(), "https://x.com/jack/status/20", model.PlatformX)
	assert.NoError(t, err)
	assert.Equal(t, "snap-123", id)
}

func TestTriggerCollectionWithWebhook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "gd_li", q.Get("dataset_id"))
		assert.Equal(t, "ndjson", q.Get("format"))
		assert.Equal(t, "https://archiver.example/webhook/provider", q.Get("endpoint"))
		assert.Equal(t, "hook-secret", q.Get("auth_header"))
		assert.Equal(t, "true", q.Get("uncompressed_webhook"))

		// LinkedIn inputs must carry the country field, empty included.
		body, _ := json.Marshal(map[string]any{"snapshot_id": "snap-li"})
		var inputs []map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&inputs))
		if assert.Len(t, inputs, 1) {
			country, present := inputs[0]["country"]
			assert.True(t, present)
			assert.Equal(t, "", country)
		}
		w.Write(body)
	}))
	defer srv.Close()

	id, err := testClient(srv.URL).TriggerCollectionWithWebhook(
		context.Background(),
		"https://www.linkedin.com/posts/a_b-1",
		model.PlatformLinkedIn,
		"https://archiver.example/webhook/provider",
	)
	assert.NoError(t, err)
	assert.Equal(t, "snap-li", id)
}

func TestTriggerCollectionNoDataset(t *testing.T) {
	_, err := testClient("http://unused.invalid").TriggerCollection(context.Background(), "https://tiktok.com/@a/video/1", model.PlatformTikTok)
	assert.Error(t, err)
	assert.IsType(t, &model.ProviderError{}, err)
}

func TestTriggerCollectionUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "dataset quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).TriggerCollection(context.Background(), "https://x.com/a/status/1", model.PlatformX)
	var provErr *model.ProviderError
	if assert.ErrorAs(t, err, &provErr) {
		assert.Equal(t, http.StatusForbidden, provErr.Status)
		assert.Contains(t, provErr.Body, "quota")
	}
}

func TestPollUntilReady(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/datasets/v3/progress/"):
			if atomic.AddInt32(&calls, 1) < 3 {
				fmt.Fprint(w, `{"status":"running"}`)
			} else {
				fmt.Fprint(w, `{"status":"ready"}`)
			}
		case strings.HasPrefix(r.URL.Path, "/datasets/v3/snapshot/"):
			assert.Equal(t, "ndjson", r.URL.Query().Get("format"))
			fmt.Fprintln(w, `{"id":"20","text":"hello"}`)
		}
	}))
	defer srv.Close()

	rec, err := testClient(srv.URL).PollUntilReady(context.Background(), "snap-1", time.Second, time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, "hello", rec["text"])
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestPollUntilReadyUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"failed","error":"target page removed"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).PollUntilReady(context.Background(), "snap-1", time.Second, time.Millisecond)
	var provErr *model.ProviderError
	if assert.ErrorAs(t, err, &provErr) {
		assert.Contains(t, provErr.Body, "target page removed")
	}
}

func TestPollUntilReadyTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"running"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).PollUntilReady(context.Background(), "snap-1", 20*time.Millisecond, 5*time.Millisecond)
	assert.Error(t, err)
	assert.IsType(t, &model.ProviderError{}, err)
}

// Malformed NDJSON lines are skipped; the first line that parses wins.
func TestParseSnapshotBodySkipsBadLines(t *testing.T) {
	body := strings.NewReader(`this line is not json
{"id":"first","text":"good"}
{"id":"second"}
`)
	rec, err := brightdata.ParseSnapshotBody(body, "snap-1")
	assert.NoError(t, err)
	assert.Equal(t, "first", rec["id"])
}

func TestParseSnapshotBodyEmpty(t *testing.T) {
	_, err := brightdata.ParseSnapshotBody(strings.NewReader("\n \nnot json\n"), "snap-1")
	var emptyErr *model.EmptySnapshotError
	if assert.ErrorAs(t, err, &emptyErr) {
		assert.Equal(t, "snap-1", emptyErr.SnapshotID)
	}
}
