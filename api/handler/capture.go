package handler

import (
	"context"
	_ "embed"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pagesnap/chromecapture/models"
)

//go:embed landing.html
var landingPage []byte

// Renderer performs one capture job. Implemented by capture.Capturer;
// tests substitute a stub.
type Renderer interface {
	Render(ctx context.Context, req *models.CaptureRequest) (*models.CaptureResult, error)
}

// Capture returns the handler for GET / and POST /.
//
// Flow:
//  1. Merge query and body parameters (body wins on key collisions).
//  2. No url parameter → serve the landing page.
//  3. Build and validate the CaptureRequest; cookie falls back to the
//     inbound Cookie header.
//  4. Render, stream the file as an attachment, delete the temp file.
//
// Failures return HTTP 200 with the error text as a plain-text body and a
// structured server-side log entry.
func Capture(r Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		url, _ := param(c, "url")
		if url == "" {
			c.Data(http.StatusOK, "text/html; charset=utf-8", landingPage)
			return
		}

		req, err := buildRequest(c, url)
		if err != nil {
			respondError(c, url, err)
			return
		}

		result, err := r.Render(c.Request.Context(), req)
		if err != nil {
			respondError(c, url, err)
			return
		}

		c.FileAttachment(result.Path, result.FileName)

		// The temp file exists only to be streamed once.
		if err := os.Remove(result.Path); err != nil {
			slog.Warn("failed to remove capture file", "path", result.Path, "error", err)
		}
	}
}

// buildRequest assembles a CaptureRequest from merged HTTP parameters.
func buildRequest(c *gin.Context, url string) (*models.CaptureRequest, error) {
	req := &models.CaptureRequest{URL: url}
	req.Ext, _ = param(c, "ext")
	req.File, _ = param(c, "file")
	req.Format, _ = param(c, "format")
	req.Orientation, _ = param(c, "orientation")
	req.Selector, _ = param(c, "selector")

	if v, ok := param(c, "cookie"); ok {
		req.Cookie = v
	} else {
		req.Cookie = c.GetHeader("Cookie")
	}

	var err error
	if req.Delay, err = intParam(c, "delay", 0); err != nil {
		return nil, err
	}
	if req.Width, err = intParam(c, "width", 0); err != nil {
		return nil, err
	}
	if req.Scale, err = floatParam(c, "scale", 0); err != nil {
		return nil, err
	}
	if v, ok := param(c, "height"); ok && v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return nil, models.NewCaptureError(models.ErrCodeInvalidInput, "height must be an integer", err)
		}
		req.Height = &h
	}

	req.Defaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// param returns the named parameter, body fields taking precedence over
// query fields.
func param(c *gin.Context, key string) (string, bool) {
	if v, ok := c.GetPostForm(key); ok {
		return v, true
	}
	return c.GetQuery(key)
}

func intParam(c *gin.Context, key string, fallback int) (int, error) {
	v, ok := param(c, key)
	if !ok || v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, models.NewCaptureError(models.ErrCodeInvalidInput, key+" must be an integer", err)
	}
	return i, nil
}

func floatParam(c *gin.Context, key string, fallback float64) (float64, error) {
	v, ok := param(c, key)
	if !ok || v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, models.NewCaptureError(models.ErrCodeInvalidInput, key+" must be a number", err)
	}
	return f, nil
}

// respondError writes the error text back to the client and logs it.
// The raw text is deliberately preserved: this is a rendering utility and
// the browser's error message is the most useful thing a caller can get.
func respondError(c *gin.Context, url string, err error) {
	slog.Error("capture failed", "url", url, "error", err)
	c.String(http.StatusOK, err.Error())
}
