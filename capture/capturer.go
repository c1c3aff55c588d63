package capture

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/pagesnap/chromecapture/config"
	"github.com/pagesnap/chromecapture/models"
)

// Default image viewport, used when the request supplies no height.
const defaultViewportHeight = 768

// Capturer drives the shared browser session through one render at a time:
// clear cookies, set cookies, navigate, wait, export PDF or screenshot,
// write the output file.
type Capturer struct {
	session    *Session
	outputDir  string
	navTimeout time.Duration

	// renders serialize on mu: the session holds a single page, and an
	// in-flight navigation must not be overwritten by the next request.
	mu sync.Mutex
}

// New creates a Capturer writing output files into cfg.OutputDir.
func New(session *Session, cfg config.CaptureConfig) *Capturer {
	return &Capturer{
		session:    session,
		outputDir:  cfg.OutputDir,
		navTimeout: cfg.NavigationTimeout,
	}
}

// OutputDir returns the directory capture files are written into.
func (c *Capturer) OutputDir() string {
	return c.outputDir
}

// Render performs one capture. The request must have Defaults applied and
// pass Validate. Render attempts each job exactly once; navigation and
// browser errors are surfaced to the caller unretried.
func (c *Capturer) Render(ctx context.Context, req *models.CaptureRequest) (*models.CaptureResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// ── 1. Target path; drop any stale file from an earlier render ───
	target := filepath.Join(c.outputDir, req.OutputName())
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return nil, models.NewCaptureError(models.ErrCodeInternal, "failed to remove stale output file", err)
	}

	// ── 2. Shared page (launches the browser on first use) ──────────
	page, err := c.session.Page()
	if err != nil {
		return nil, err
	}
	p := page.Context(ctx)

	// ── 3. Cookie state: clear whatever the last render left behind ─
	if err := clearCookies(p, req.URL); err != nil {
		return nil, models.NewCaptureError(models.ErrCodeCapture, "failed to clear cookies", err)
	}

	// ── 4. Install request cookies so navigation sends them ─────────
	if req.Cookie != "" {
		if err := setCookies(p, req.URL, ParseCookieHeader(req.Cookie)); err != nil {
			return nil, models.NewCaptureError(models.ErrCodeCapture, "failed to set cookies", err)
		}
	}

	// ── 5. Navigate and wait for the load event ──────────────────────
	if err := c.navigate(ctx, p, req.URL); err != nil {
		return nil, err
	}

	// ── 6. Extra delay for client-side rendering ─────────────────────
	if req.Delay > 0 {
		select {
		case <-time.After(time.Duration(req.Delay) * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// ── 7. Export ─────────────────────────────────────────────────────
	var data []byte
	if req.IsPDF() {
		data, err = c.exportPDF(p, req)
	} else {
		data, err = c.exportImage(p, req)
	}
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, models.NewCaptureError(models.ErrCodeInternal, "failed to write output file", err)
	}

	slog.Info("capture complete", "url", req.URL, "file", req.OutputName(), "bytes", len(data))
	return &models.CaptureResult{Path: target, FileName: req.OutputName()}, nil
}

// navigate drives the page to url and waits for load, bounded by the
// configured navigation timeout when one is set.
func (c *Capturer) navigate(ctx context.Context, p *rod.Page, url string) error {
	if c.navTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.navTimeout)
		defer cancel()
		p = p.Context(ctx)
	}

	if err := p.Navigate(url); err != nil {
		return models.NewCaptureError(models.ErrCodeNavigation, "navigation to target URL failed", err)
	}
	if err := p.WaitLoad(); err != nil {
		return models.NewCaptureError(models.ErrCodeNavigation, "page did not finish loading", err)
	}
	return nil
}

// exportPDF prints the full page as a PDF with the requested paper format,
// orientation and scale, and fixed 1cm margins on all sides.
func (c *Capturer) exportPDF(p *rod.Page, req *models.CaptureRequest) ([]byte, error) {
	width, height := paperSize(req.Format)
	margin := cmToInches(1)

	reader, err := p.PDF(&proto.PagePrintToPDF{
		Landscape:       req.Orientation == "landscape",
		Scale:           &req.Scale,
		PaperWidth:      &width,
		PaperHeight:     &height,
		MarginTop:       &margin,
		MarginBottom:    &margin,
		MarginLeft:      &margin,
		MarginRight:     &margin,
		PrintBackground: true,
	})
	if err != nil {
		return nil, models.NewCaptureError(models.ErrCodeCapture, "PDF export failed", err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, models.NewCaptureError(models.ErrCodeCapture, "reading PDF stream failed", err)
	}
	return data, nil
}

// exportImage captures a screenshot. With a selector the shot is clipped to
// the first matching element; with neither selector nor explicit height the
// viewport grows to the full scrollable page height first.
func (c *Capturer) exportImage(p *rod.Page, req *models.CaptureRequest) ([]byte, error) {
	height := defaultViewportHeight
	if req.Height != nil {
		height = *req.Height
	}
	if err := setViewport(p, req.Width, height, req.Scale); err != nil {
		return nil, err
	}

	shot := &proto.PageCaptureScreenshot{Format: screenshotFormat(req.Ext)}

	switch {
	case req.Selector != "":
		clip, err := selectorClip(p, req.Selector, req.Scale)
		if err != nil {
			return nil, err
		}
		shot.Clip = clip

	case req.Height == nil:
		full, err := scrollHeight(p)
		if err != nil {
			return nil, err
		}
		if full > height {
			if err := setViewport(p, req.Width, full, req.Scale); err != nil {
				return nil, err
			}
		}
	}

	data, err := p.Screenshot(false, shot)
	if err != nil {
		return nil, models.NewCaptureError(models.ErrCodeCapture, "screenshot failed", err)
	}
	return data, nil
}

func setViewport(p *rod.Page, width, height int, scale float64) error {
	err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: scale,
		Mobile:            false,
	})
	if err != nil {
		return models.NewCaptureError(models.ErrCodeCapture, "failed to set viewport", err)
	}
	return nil
}

// selectorClip evaluates sel in the page and returns the first matching
// element's bounding rect as a screenshot clip region.
func selectorClip(p *rod.Page, sel string, scale float64) (*proto.PageViewport, error) {
	res, err := p.Eval(`(sel) => {
		const el = document.querySelector(sel);
		if (!el) return null;
		const r = el.getBoundingClientRect();
		return {x: r.x, y: r.y, width: r.width, height: r.height};
	}`, sel)
	if err != nil {
		return nil, models.NewCaptureError(models.ErrCodeCapture, "selector evaluation failed", err)
	}
	if res.Value.Nil() {
		return nil, models.NewCaptureError(models.ErrCodeSelectorNotFound,
			fmt.Sprintf("no element matches selector %q", sel), nil)
	}
	return clipFromRect(res.Value, scale), nil
}

// clipFromRect converts a DOMRect-shaped JSON value into a clip region.
func clipFromRect(rect gson.JSON, scale float64) *proto.PageViewport {
	return &proto.PageViewport{
		X:      rect.Get("x").Num(),
		Y:      rect.Get("y").Num(),
		Width:  rect.Get("width").Num(),
		Height: rect.Get("height").Num(),
		Scale:  scale,
	}
}

// scrollHeight returns the full scrollable height of the page in pixels.
func scrollHeight(p *rod.Page) (int, error) {
	res, err := p.Eval(`() => Math.max(document.body.scrollHeight, document.documentElement.scrollHeight)`)
	if err != nil {
		return 0, models.NewCaptureError(models.ErrCodeCapture, "failed to measure page height", err)
	}
	return res.Value.Int(), nil
}

// screenshotFormat maps an output extension to the CDP screenshot format.
func screenshotFormat(ext string) proto.PageCaptureScreenshotFormat {
	switch ext {
	case "jpg", "jpeg":
		return proto.PageCaptureScreenshotFormatJpeg
	case "webp":
		return proto.PageCaptureScreenshotFormatWebp
	default:
		return proto.PageCaptureScreenshotFormatPng
	}
}
