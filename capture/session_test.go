package capture

import (
	"errors"
	"testing"

	"github.com/pagesnap/chromecapture/config"
	"github.com/pagesnap/chromecapture/models"
)

func TestAttachKillsProcessOnConnectFailure(t *testing.T) {
	s := NewSession(config.BrowserConfig{})

	killed := false
	// Nothing listens on this port, so the connect fails immediately.
	_, err := s.attach("ws://127.0.0.1:1", func() { killed = true })

	if err == nil {
		t.Fatal("attach to a dead control URL should fail")
	}
	var capErr *models.CaptureError
	if !errors.As(err, &capErr) || capErr.Code != models.ErrCodeBrowserCrash {
		t.Errorf("error = %v, want BROWSER_CRASH", err)
	}
	if !killed {
		t.Error("launched browser process was not killed on connect failure")
	}
	if s.browser != nil || s.page != nil {
		t.Error("session must stay empty after a failed attach")
	}
}

func TestCloseBeforeFirstRenderIsSafe(t *testing.T) {
	s := NewSession(config.BrowserConfig{})
	s.Close()
	s.Close()
}
