package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCurrentTransfersNeverNegative(t *testing.T) {
	for CurrentTransfers() != 0 {
		DecCurrentTransfers()
	}

	IncCurrentTransfers()
	IncCurrentTransfers()
	DecCurrentTransfers()
	DecCurrentTransfers()
	DecCurrentTransfers()
	DecCurrentTransfers()

	if n := CurrentTransfers(); n != 0 {
		t.Fatalf("gauge went to %d, want clamp at 0", n)
	}
}

func TestClampUnderConcurrency(t *testing.T) {
	for ActiveCreations() != 0 {
		DecActiveCreations()
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			IncActiveCreations()
			DecActiveCreations()
			DecActiveCreations()
		}()
	}
	wg.Wait()

	if n := ActiveCreations(); n != 0 {
		t.Fatalf("gauge is %d after balanced load, want 0", n)
	}
}

func TestTimedObservesFailuresToo(t *testing.T) {
	hist := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "timed_test_seconds"})

	wantErr := errors.New("boom")
	if err := Timed(hist, func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("Timed swallowed the error: %v", err)
	}
	if err := Timed(hist, func() error { return nil }); err != nil {
		t.Fatalf("Timed returned unexpected error: %v", err)
	}

	ch := make(chan prometheus.Metric, 1)
	hist.Collect(ch)
	var pb dto.Metric
	if err := (<-ch).Write(&pb); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if got := pb.GetHistogram().GetSampleCount(); got != 2 {
		t.Fatalf("expected 2 observations, got %d", got)
	}
}

func TestInstrumentHandlerServes(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	resp := httptest.NewRecorder()
	InstrumentHandler(inner).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	if resp.Code != http.StatusTeapot {
		t.Fatalf("status %d lost in middleware, got %d", http.StatusTeapot, resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "stout") {
		t.Fatalf("body lost in middleware: %q", resp.Body.String())
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	IncTransferCalls()

	resp := httptest.NewRecorder()
	Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("metrics endpoint: %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "bankapp_transaction_transfer_calls_total") {
		t.Fatalf("transfer counter missing from exposition")
	}
}
