package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureWriterCountsFullSize(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	n, err := cw.Write([]byte(strings.Repeat("a", 20)))

	require.NoError(t, err)
	// The client receives everything; the buffer stops at the limit
	// and size keeps counting so the store decision sees the truth.
	assert.Equal(t, 20, n)
	assert.Equal(t, 20, rec.Body.Len())
	assert.Equal(t, 8, cw.buf.Len())
	assert.Equal(t, int64(20), cw.size)
}

func TestStorableRejectsOversizedBody(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		size, limit int64
		want        bool
	}{
		{"small body fits", http.StatusOK, 100, 1024, true},
		{"exactly at the limit", http.StatusOK, 1024, 1024, true},
		{"oversized body skipped", http.StatusOK, 2048, 1024, false},
		{"no limit stores everything", http.StatusOK, 1 << 30, 0, true},
		{"non-200 never stored", http.StatusNotFound, 10, 1024, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, storable(tc.status, tc.size, tc.limit))
		})
	}
}
