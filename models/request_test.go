package models

import (
	"errors"
	"testing"
)

func TestDefaults(t *testing.T) {
	req := &CaptureRequest{URL: "https://example.com"}
	req.Defaults()

	if req.Ext != "pdf" {
		t.Errorf("default ext = %q, want pdf", req.Ext)
	}
	if req.File != "screenshot" {
		t.Errorf("default file = %q, want screenshot", req.File)
	}
	if req.Format != "A4" {
		t.Errorf("default format = %q, want A4", req.Format)
	}
	if req.Scale != 1 {
		t.Errorf("default scale = %v, want 1", req.Scale)
	}
	if req.Width != 1200 {
		t.Errorf("default width = %d, want 1200", req.Width)
	}
	if req.Height != nil {
		t.Errorf("default height = %v, want nil (full page)", *req.Height)
	}
	if req.Delay != 0 {
		t.Errorf("default delay = %d, want 0", req.Delay)
	}
}

func TestDefaultsKeepsExplicitValues(t *testing.T) {
	h := 600
	req := &CaptureRequest{
		URL:    "https://example.com",
		Ext:    "PNG",
		File:   "page",
		Scale:  2,
		Width:  800,
		Height: &h,
	}
	req.Defaults()

	if req.Ext != "png" {
		t.Errorf("ext = %q, want lowercased png", req.Ext)
	}
	if req.File != "page" || req.Scale != 2 || req.Width != 800 {
		t.Errorf("explicit values were overwritten: %+v", req)
	}
	if req.Height == nil || *req.Height != 600 {
		t.Errorf("height = %v, want 600", req.Height)
	}
}

func TestValidate(t *testing.T) {
	intPtr := func(i int) *int { return &i }

	tests := []struct {
		name     string
		mutate   func(*CaptureRequest)
		wantCode string
	}{
		{"valid defaults", func(r *CaptureRequest) {}, ""},
		{"missing url", func(r *CaptureRequest) { r.URL = "" }, ErrCodeInvalidInput},
		{"unknown extension", func(r *CaptureRequest) { r.Ext = "gif" }, ErrCodeInvalidInput},
		{"negative delay", func(r *CaptureRequest) { r.Delay = -5 }, ErrCodeInvalidInput},
		{"zero scale", func(r *CaptureRequest) { r.Scale = 0 }, ErrCodeInvalidInput},
		{"negative width", func(r *CaptureRequest) { r.Width = -1 }, ErrCodeInvalidInput},
		{"zero height", func(r *CaptureRequest) { r.Height = intPtr(0) }, ErrCodeInvalidInput},
		{"file escaping output dir", func(r *CaptureRequest) { r.File = "../../outside/victim" }, ErrCodeInvalidInput},
		{"file with slash", func(r *CaptureRequest) { r.File = "sub/name" }, ErrCodeInvalidInput},
		{"file with backslash", func(r *CaptureRequest) { r.File = `sub\name` }, ErrCodeInvalidInput},
		{"file dot-dot", func(r *CaptureRequest) { r.File = ".." }, ErrCodeInvalidInput},
		{"file with dots inside", func(r *CaptureRequest) { r.File = "report.v2" }, ""},
		{"jpeg is valid", func(r *CaptureRequest) { r.Ext = "jpeg" }, ""},
		{"webp is valid", func(r *CaptureRequest) { r.Ext = "webp" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &CaptureRequest{URL: "https://example.com"}
			req.Defaults()
			tt.mutate(req)

			err := req.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var capErr *CaptureError
			if !errors.As(err, &capErr) {
				t.Fatalf("Validate() = %v, want *CaptureError", err)
			}
			if capErr.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", capErr.Code, tt.wantCode)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	req := &CaptureRequest{URL: "https://example.com"}
	req.Defaults()
	if got := req.OutputName(); got != "screenshot.pdf" {
		t.Errorf("OutputName() = %q, want screenshot.pdf", got)
	}

	req = &CaptureRequest{URL: "https://example.com", Ext: "png", File: "test"}
	req.Defaults()
	if got := req.OutputName(); got != "test.png" {
		t.Errorf("OutputName() = %q, want test.png", got)
	}
}

func TestCaptureErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewCaptureError(ErrCodeNavigation, "navigation to target URL failed", inner)

	if !errors.Is(err, inner) {
		t.Error("wrapped error not reachable via errors.Is")
	}
	if err.ToDetail().Code != ErrCodeNavigation {
		t.Errorf("ToDetail().Code = %q, want %q", err.ToDetail().Code, ErrCodeNavigation)
	}
}
