package capture

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// ParseCookieHeader splits a raw Cookie header string ("a=1; b=2") into
// name/value pairs. Malformed fragments without a name are skipped; values
// may contain '='.
func ParseCookieHeader(header string) []*proto.NetworkCookieParam {
	parts := strings.Split(header, ";")
	cookies := make([]*proto.NetworkCookieParam, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies = append(cookies, &proto.NetworkCookieParam{
			Name:  name,
			Value: strings.TrimSpace(value),
		})
	}
	return cookies
}

// clearCookies deletes every cookie the page currently associates with url,
// so state from the previous render never leaks into this one.
func clearCookies(p *rod.Page, url string) error {
	cookies, err := p.Cookies([]string{url})
	if err != nil {
		return err
	}
	for _, c := range cookies {
		err := proto.NetworkDeleteCookies{
			Name: c.Name,
			URL:  url,
		}.Call(p)
		if err != nil {
			return err
		}
	}
	return nil
}

// setCookies installs cookies scoped to url on the page.
func setCookies(p *rod.Page, url string, cookies []*proto.NetworkCookieParam) error {
	if len(cookies) == 0 {
		return nil
	}
	for _, c := range cookies {
		c.URL = url
	}
	return p.SetCookies(cookies)
}
