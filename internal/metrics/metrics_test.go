// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
		wantErrs  float64
	}{
		{"successful select", "select", "recipes_test_ok", nil, 0},
		{"failed insert", "insert", "recipes_test_err", errors.New("constraint violated"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)

			errType := ""
			if tt.err != nil {
				errType = tt.err.Error()
			}
			got := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, errType))
			if got != tt.wantErrs {
				t.Errorf("errors counter = %v, want %v", got, tt.wantErrs)
			}
		})
	}
}

// TestRecordDBQuery_ErrorTruncation verifies error messages are truncated at 50 chars
func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	err := errors.New(strings.Repeat("c", 100))
	RecordDBQuery("select", "truncation_test", time.Millisecond, err)

	got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "truncation_test", strings.Repeat("c", 50)))
	if got != 1 {
		t.Errorf("truncated label counter = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/recipes/{id}/", "200"))
	RecordAPIRequest("GET", "/api/recipes/{id}/", "200", 25*time.Millisecond)
	RecordAPIRequest("GET", "/api/recipes/{id}/", "200", 30*time.Millisecond)

	got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/recipes/{id}/", "200"))
	if got-before != 2 {
		t.Errorf("requests delta = %v, want 2", got-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordRedirect(t *testing.T) {
	tests := []struct {
		kind    string
		outcome string
	}{
		{"recipe", "found"},
		{"recipe", "not_found"},
		{"url", "found"},
		{"url", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"_"+tt.outcome, func(t *testing.T) {
			before := testutil.ToFloat64(RedirectsTotal.WithLabelValues(tt.kind, tt.outcome))
			RecordRedirect(tt.kind, tt.outcome)
			if got := testutil.ToFloat64(RedirectsTotal.WithLabelValues(tt.kind, tt.outcome)); got-before != 1 {
				t.Errorf("delta = %v, want 1", got-before)
			}
		})
	}
}

func TestRecordShoppingListDownload(t *testing.T) {
	before := testutil.ToFloat64(ShoppingListDownloads)
	RecordShoppingListDownload(3)
	RecordShoppingListDownload(0)
	if got := testutil.ToFloat64(ShoppingListDownloads); got-before != 2 {
		t.Errorf("downloads delta = %v, want 2", got-before)
	}
}

func TestRecordEvents(t *testing.T) {
	RecordEventPublished("recipe.created", "ok")
	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("recipe.created", "ok")); got < 1 {
		t.Errorf("published = %v, want >= 1", got)
	}

	beforeErr := testutil.ToFloat64(EventsHandled.WithLabelValues("tag.changed", "error"))
	RecordEventHandled("tag.changed", errors.New("boom"))
	RecordEventHandled("tag.changed", nil)
	if got := testutil.ToFloat64(EventsHandled.WithLabelValues("tag.changed", "error")); got-beforeErr != 1 {
		t.Errorf("handled errors delta = %v, want 1", got-beforeErr)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("lookup_test"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("lookup_test"))

	RecordCacheLookup("lookup_test", true)
	RecordCacheLookup("lookup_test", false)
	RecordCacheLookup("lookup_test", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("lookup_test")) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("lookup_test")) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestRecordImport(t *testing.T) {
	before := testutil.ToFloat64(ImportRows.WithLabelValues("imported"))
	RecordImport(7, 2, 1)
	if got := testutil.ToFloat64(ImportRows.WithLabelValues("imported")) - before; got != 7 {
		t.Errorf("imported delta = %v, want 7", got)
	}
}

func TestRecordAuthzDecision(t *testing.T) {
	before := testutil.ToFloat64(AuthzDecisions.WithLabelValues("tags", "deny"))
	RecordAuthzDecision("tags", false)
	if got := testutil.ToFloat64(AuthzDecisions.WithLabelValues("tags", "deny")) - before; got != 1 {
		t.Errorf("deny delta = %v, want 1", got)
	}
}

// TestAllMetricsDescribe verifies every collector yields a descriptor
func TestAllMetricsDescribe(t *testing.T) {
	collectors := []prometheus.Collector{
		DBQueryDuration,
		DBQueryErrors,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		ShortLinksIssued,
		ShortLinkCollisions,
		ShortLinkExhausted,
		RedirectsTotal,
		ShoppingListDownloads,
		ShoppingListLines,
		EventsPublished,
		EventsHandled,
		EventsBreakerState,
		CacheHits,
		CacheMisses,
		ImportRows,
		AuthAttempts,
		AuthzDecisions,
		AppInfo,
		AppUptime,
	}

	for _, c := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		c.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("collector has no descriptors")
		}
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordDBQuery("TEST", "test_table", time.Millisecond, nil)
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

func BenchmarkRecordDBQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordDBQuery("select", "recipes", 10*time.Millisecond, nil)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("GET", "/api/recipes/", "200", 25*time.Millisecond)
	}
}
