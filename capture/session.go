package capture

import (
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/pagesnap/chromecapture/config"
	"github.com/pagesnap/chromecapture/models"
)

// Session holds the process-wide browser and page pair. Both are created
// lazily on the first render and reused for every capture afterwards, so
// repeated requests pay the Chrome startup cost only once.
type Session struct {
	cfg config.BrowserConfig

	mu      sync.Mutex
	browser *rod.Browser
	page    *rod.Page
}

// NewSession creates a Session without launching anything yet.
func NewSession(cfg config.BrowserConfig) *Session {
	return &Session{cfg: cfg}
}

// Page returns the shared page, launching the browser on first use.
func (s *Session) Page() (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page != nil {
		return s.page, nil
	}

	l := launcher.New().
		Headless(s.cfg.Headless).
		NoSandbox(s.cfg.NoSandbox)

	if s.cfg.Bin != "" {
		l = l.Bin(s.cfg.Bin)
	}
	if s.cfg.Proxy != "" {
		l = l.Proxy(s.cfg.Proxy)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewCaptureError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	return s.attach(controlURL, l.Kill)
}

// attach connects to the launched browser and creates the shared page.
// kill tears the Chrome process down when any step fails, so a half-built
// session never leaves a zombie process behind. Caller holds s.mu.
func (s *Session) attach(controlURL string, kill func()) (*rod.Page, error) {
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		kill()
		return nil, models.NewCaptureError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.MustClose()
		return nil, models.NewCaptureError(models.ErrCodeBrowserCrash, "failed to create page", err)
	}

	if s.cfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}

	s.browser = browser
	s.page = page
	return s.page, nil
}

// Close kills the browser process. Safe to call before the first render.
// Call this on shutdown to prevent zombie Chrome processes.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return
	}
	slog.Info("session shutting down: closing browser")
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	s.browser.MustClose()
	s.browser = nil
}
