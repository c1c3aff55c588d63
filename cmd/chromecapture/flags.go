package main

import (
	flag "github.com/spf13/pflag"

	"github.com/pagesnap/chromecapture/models"
)

// cliFlags mirrors the HTTP capture parameters plus process-level options.
type cliFlags struct {
	url         string
	ext         string
	file        string
	cookie      string
	delay       int
	format      string
	orientation string
	scale       float64
	width       int
	height      int
	selector    string

	port       int
	out        string
	configFile string
}

// parseFlags parses the full argument list (including the program name).
// The returned FlagSet lets callers check which flags were explicitly set.
func parseFlags(args []string) (*cliFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("chromecapture", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVar(&f.url, "url", "", "page URL to capture")
	fs.StringVar(&f.ext, "ext", "", "output extension: pdf (default), png, jpg, jpeg, webp")
	fs.StringVar(&f.file, "file", "", "output base name (default \"screenshot\")")
	fs.StringVar(&f.cookie, "cookie", "", "raw Cookie header string sent during navigation")
	fs.IntVar(&f.delay, "delay", 0, "extra wait after load, in milliseconds")
	fs.StringVar(&f.format, "format", "", "PDF page format (default \"A4\")")
	fs.StringVar(&f.orientation, "orientation", "", "PDF orientation: landscape or portrait")
	fs.Float64Var(&f.scale, "scale", 0, "render scale (default 1)")
	fs.IntVar(&f.width, "width", 0, "viewport width in pixels (default 1200)")
	fs.IntVar(&f.height, "height", 0, "viewport height in pixels (default: full page height)")
	fs.StringVar(&f.selector, "selector", "", "CSS selector to clip the screenshot to")

	fs.IntVar(&f.port, "port", 0, "run as HTTP server on this port")
	fs.StringVar(&f.out, "out", "", "output directory (one-shot mode; default: executable directory)")
	fs.StringVarP(&f.configFile, "config", "c", "", "YAML config file path")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// serverMode decides the process mode: an explicit --port, or a bare
// invocation with no arguments at all, selects server mode; anything else
// is a one-shot CLI capture.
func serverMode(args []string, portSet bool) bool {
	return portSet || len(args) < 2
}

// captureRequest builds a CaptureRequest from the parsed flags. Height is
// only set when the flag was explicitly given, so a plain screenshot still
// captures the full page height.
func captureRequest(f *cliFlags, fs *flag.FlagSet) *models.CaptureRequest {
	req := &models.CaptureRequest{
		URL:         f.url,
		Ext:         f.ext,
		File:        f.file,
		Cookie:      f.cookie,
		Delay:       f.delay,
		Format:      f.format,
		Orientation: f.orientation,
		Scale:       f.scale,
		Width:       f.width,
		Selector:    f.selector,
	}
	if fs.Changed("height") {
		h := f.height
		req.Height = &h
	}
	return req
}
