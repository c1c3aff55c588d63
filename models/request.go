package models

import (
	"fmt"
	"strings"
)

// Extensions accepted for the ext parameter. Everything except "pdf" is an
// image format passed to the browser's screenshot command.
var validExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"webp": {},
}

// CaptureRequest describes one capture job: a target URL plus output options.
// The same struct backs both the HTTP parameters and the CLI flags.
type CaptureRequest struct {
	// URL is the page to capture. Required.
	URL string `json:"url"`

	// Ext is the output extension: "pdf" (default) or an image format.
	Ext string `json:"ext,omitempty"`

	// File is the output base name (without extension). Default: "screenshot".
	File string `json:"file,omitempty"`

	// Cookie is a raw Cookie header string ("a=1; b=2") installed on the
	// page, scoped to URL, before navigation.
	Cookie string `json:"cookie,omitempty"`

	// Delay is an extra wait in milliseconds after the load event, for
	// pages that keep rendering client-side. Default: 0.
	Delay int `json:"delay,omitempty"`

	// Format is the PDF page format ("A4", "Letter", ...). Default: "A4".
	// Ignored for image captures.
	Format string `json:"format,omitempty"`

	// Orientation is "landscape" or "portrait" (default). PDF only.
	Orientation string `json:"orientation,omitempty"`

	// Scale multiplies the render scale. PDF print scale or image device
	// scale factor. Default: 1.
	Scale float64 `json:"scale,omitempty"`

	// Width is the viewport width in pixels. Image only. Default: 1200.
	Width int `json:"width,omitempty"`

	// Height is the viewport height in pixels. Image only. When nil the
	// screenshot covers the full scrollable page height instead of a fixed
	// viewport. Default viewport when growing: 768.
	Height *int `json:"height,omitempty"`

	// Selector is an optional CSS selector. When set, the screenshot is
	// clipped to the first matching element's bounding box. Image only.
	Selector string `json:"selector,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *CaptureRequest) Defaults() {
	if r.Ext == "" {
		r.Ext = "pdf"
	}
	r.Ext = strings.ToLower(r.Ext)
	if r.File == "" {
		r.File = "screenshot"
	}
	if r.Format == "" {
		r.Format = "A4"
	}
	if r.Scale == 0 {
		r.Scale = 1
	}
	if r.Width == 0 {
		r.Width = 1200
	}
}

// Validate checks fields that cannot be defaulted. Call after Defaults.
func (r *CaptureRequest) Validate() error {
	if r.URL == "" {
		return NewCaptureError(ErrCodeInvalidInput, "url is required", nil)
	}
	if _, ok := validExtensions[r.Ext]; !ok {
		return NewCaptureError(ErrCodeInvalidInput,
			fmt.Sprintf("unsupported extension %q (want pdf, png, jpg, jpeg or webp)", r.Ext), nil)
	}
	// File is a base name joined onto the output directory; a separator or
	// dot-dot would let a request write or delete outside that directory.
	if strings.ContainsAny(r.File, `/\`) || r.File == "." || r.File == ".." {
		return NewCaptureError(ErrCodeInvalidInput,
			fmt.Sprintf("file %q must be a plain base name without path separators", r.File), nil)
	}
	if r.Delay < 0 {
		return NewCaptureError(ErrCodeInvalidInput, "delay must not be negative", nil)
	}
	if r.Scale <= 0 {
		return NewCaptureError(ErrCodeInvalidInput, "scale must be positive", nil)
	}
	if r.Width <= 0 || (r.Height != nil && *r.Height <= 0) {
		return NewCaptureError(ErrCodeInvalidInput, "width and height must be positive", nil)
	}
	return nil
}

// OutputName returns the file name the capture will be written under.
func (r *CaptureRequest) OutputName() string {
	return r.File + "." + r.Ext
}

// IsPDF reports whether the request produces a PDF rather than an image.
func (r *CaptureRequest) IsPDF() bool {
	return r.Ext == "pdf"
}

// CaptureResult points at the finished output file. The file lives only
// until it is streamed back to the HTTP client (server mode); in CLI mode
// it stays on disk.
type CaptureResult struct {
	// Path is the absolute path of the written file.
	Path string `json:"path"`

	// FileName is the base name used for the Content-Disposition header.
	FileName string `json:"file_name"`
}

// StatusResponse is the response for GET /status.
type StatusResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
