// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func casesPayload() string {
	return strings.Repeat(`{"flu_type":"H5N1","species":"Mallard"},`, 100)
}

func TestCompression_WithGzipAccept(t *testing.T) {
	payload := casesPayload()
	handler := Compression(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(payload)); err != nil {
			t.Fatalf("Failed to write response: %v", err)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Expected Content-Encoding: gzip, got: %q", rec.Header().Get("Content-Encoding"))
	}
	if rec.Header().Get("Vary") != "Accept-Encoding" {
		t.Errorf("Expected Vary: Accept-Encoding, got: %q", rec.Header().Get("Vary"))
	}

	reader, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("Failed to create gzip reader: %v", err)
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("Failed to read decompressed data: %v", err)
	}
	if string(decompressed) != payload {
		t.Error("Decompressed payload does not match original")
	}
}

func TestCompression_WithoutGzipAccept(t *testing.T) {
	payload := casesPayload()
	handler := Compression(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Header().Get("Content-Encoding") != "" {
		t.Errorf("Expected no Content-Encoding, got: %q", rec.Header().Get("Content-Encoding"))
	}
	if rec.Body.String() != payload {
		t.Error("Expected uncompressed payload")
	}
}

func TestCompression_HeadRequest(t *testing.T) {
	handler := Compression(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodHead, "/api/v1/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("HEAD responses should not be compressed")
	}
}

func TestGzipResponseWriter_WriteSetsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &gzipResponseWriter{ResponseWriter: rec}

	if _, err := w.Write([]byte("H5N1")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	w.finish()
	if !w.wroteHeader {
		t.Error("Expected wroteHeader after first Write")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Errorf("Expected gzip encoding, got %q", rec.Header().Get("Content-Encoding"))
	}
}

func TestCompression_NotModifiedPassesThrough(t *testing.T) {
	handler := Compression(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `W/"abc"`)
		w.WriteHeader(http.StatusNotModified)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chart", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Fatalf("Expected 304, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Encoding") != "" {
		t.Errorf("304 must not carry Content-Encoding, got %q", rec.Header().Get("Content-Encoding"))
	}
	if rec.Body.Len() != 0 {
		t.Errorf("304 must have an empty body, got %d bytes", rec.Body.Len())
	}
}

func TestCompression_AlreadyEncoded(t *testing.T) {
	handler := Compression(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write([]byte("brotli-bytes"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/data", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Header().Get("Content-Encoding") != "br" {
		t.Errorf("Expected handler encoding to win, got %q", rec.Header().Get("Content-Encoding"))
	}
	if rec.Body.String() != "brotli-bytes" {
		t.Errorf("Body was re-encoded: %q", rec.Body.String())
	}
}

func BenchmarkCompression(b *testing.B) {
	payload := []byte(casesPayload())
	handler := Compression(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler(httptest.NewRecorder(), req)
	}
}
