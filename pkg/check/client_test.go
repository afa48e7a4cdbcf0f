package check

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ogulcanaydogan/benchmark-result-client/pkg/check/checktest"
	"github.com/ogulcanaydogan/benchmark-result-client/pkg/result"
)

func testRecord(t *testing.T) *result.Record {
	t.Helper()
	metrics, err := result.MetricSetFromMap(map[string]float64{
		"Top 1 Accuracy": 76.3,
		"Top 5 Accuracy": 93.1,
	})
	if err != nil {
		t.Fatal(err)
	}
	rec, err := result.New(metrics,
		result.WithModel("EfficientNet-B0"),
		result.WithDataset("ImageNet"),
		result.WithTask(result.TaskImageClassification),
		result.WithArxivID("1905.11946"),
	)
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestCheckAcceptedThenDuplicate(t *testing.T) {
	authority := &checktest.Authority{}
	srv := httptest.NewServer(authority)
	defer srv.Close()

	client := NewClient(srv.URL)
	rec := testRecord(t)

	first := client.Check(context.Background(), rec)
	if first.Status != StatusAccepted {
		t.Fatalf("first = %+v, want accepted", first)
	}
	second := client.Check(context.Background(), rec)
	if second.Status != StatusDuplicate {
		t.Fatalf("second = %+v, want duplicate", second)
	}
	if first.SubmissionID == second.SubmissionID {
		t.Fatal("each check must carry a fresh submission id")
	}
	if authority.Calls() != 2 {
		t.Fatalf("authority served %d calls, want 2 (no client-side caching)", authority.Calls())
	}
}

func TestCheckRejectedForUnknownTask(t *testing.T) {
	authority := &checktest.Authority{KnownTasks: []string{result.TaskObjectDetection}}
	srv := httptest.NewServer(authority)
	defer srv.Close()

	verdict := NewClient(srv.URL).Check(context.Background(), testRecord(t))
	if verdict.Status != StatusRejected {
		t.Fatalf("verdict = %+v, want rejected", verdict)
	}
	if !strings.Contains(verdict.Reason, "Image Classification") {
		t.Fatalf("reason = %q", verdict.Reason)
	}
	if verdict.Retryable() {
		t.Fatal("a rejection is not retryable")
	}
}

func TestCheckRequestShape(t *testing.T) {
	var got map[string]any
	var auth, requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-ID")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"accepted"}`))
	}))
	defer srv.Close()

	rec := testRecord(t)
	verdict := NewClient(srv.URL, WithAPIKey("secret-token")).Check(context.Background(), rec)
	if verdict.Status != StatusAccepted {
		t.Fatalf("verdict = %+v", verdict)
	}
	if auth != "Bearer secret-token" {
		t.Errorf("Authorization = %q", auth)
	}
	if requestID != verdict.SubmissionID || !strings.HasPrefix(requestID, "sub-") {
		t.Errorf("X-Request-ID = %q, submission id = %q", requestID, verdict.SubmissionID)
	}
	if got["config_key"] != rec.ConfigKey() {
		t.Errorf("config_key = %v", got["config_key"])
	}
	if got["model"] != "EfficientNet-B0" || got["dataset"] != "ImageNet" {
		t.Errorf("identity fields = %v / %v", got["model"], got["dataset"])
	}
	if got["arxiv_id"] != "1905.11946" {
		t.Errorf("arxiv_id = %v", got["arxiv_id"])
	}
	results, _ := got["results"].(map[string]any)
	if results["Top 1 Accuracy"] != 76.3 {
		t.Errorf("results = %v", got["results"])
	}
}

func TestCheckOmitsAbsentFields(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"status":"accepted"}`))
	}))
	defer srv.Close()

	metrics, err := result.MetricSetFromMap(map[string]float64{"acc": 1})
	if err != nil {
		t.Fatal(err)
	}
	rec, err := result.New(metrics)
	if err != nil {
		t.Fatal(err)
	}
	if v := NewClient(srv.URL).Check(context.Background(), rec); v.Status != StatusAccepted {
		t.Fatalf("verdict = %+v", v)
	}
	for _, field := range []string{"model", "dataset", "task", "arxiv_id"} {
		if _, present := got[field]; present {
			t.Errorf("absent field %q was sent", field)
		}
	}
}

func TestCheckTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http 500", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"http 404", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}},
		{"unparseable body", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("<html>gateway</html>"))
		}},
		{"unrecognized status", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"status":"maybe"}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			verdict := NewClient(srv.URL).Check(context.Background(), testRecord(t))
			if verdict.Status != StatusTransportFailure {
				t.Fatalf("verdict = %+v, want transport failure", verdict)
			}
			if verdict.Reason == "" {
				t.Fatal("transport failures must carry a reason")
			}
			if !verdict.Retryable() {
				t.Fatal("transport failures are retryable")
			}
		})
	}
}

func TestCheckUnreachableAuthority(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	verdict := NewClient(srv.URL).Check(context.Background(), testRecord(t))
	if verdict.Status != StatusTransportFailure {
		t.Fatalf("verdict = %+v, want transport failure", verdict)
	}
}

func TestCheckHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	verdict := NewClient(srv.URL).Check(ctx, testRecord(t))
	if verdict.Status != StatusTransportFailure {
		t.Fatalf("verdict = %+v, want transport failure", verdict)
	}
}
