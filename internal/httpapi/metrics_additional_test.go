package httpapi

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncrementUploadRejected_IncrementsCounter(t *testing.T) {
	baseline := testutil.ToFloat64(uploadRejectedTotal.WithLabelValues("too_large"))
	IncrementUploadRejected("too_large")
	IncrementUploadRejected("too_large")
	if got := testutil.ToFloat64(uploadRejectedTotal.WithLabelValues("too_large")); got < baseline+2 {
		t.Fatalf("expected counter >= %v, got %v", baseline+2, got)
	}

	// Empty reason should default to "unspecified"
	before := testutil.ToFloat64(uploadRejectedTotal.WithLabelValues("unspecified"))
	IncrementUploadRejected("")
	if after := testutil.ToFloat64(uploadRejectedTotal.WithLabelValues("unspecified")); after < before+1 {
		t.Fatalf("expected unspecified reason to increment: before=%v after=%v", before, after)
	}
}

func TestItoa(t *testing.T) {
	for n, want := range map[int]string{0: "0", 7: "7", 200: "200", 503: "503"} {
		if got := itoa(n); got != want {
			t.Fatalf("itoa(%d)=%q", n, got)
		}
	}
}
