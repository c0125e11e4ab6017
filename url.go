package artpdf

import (
	"net/url"
	"strings"
)

// ParseArticleURL checks that raw is an absolute http(s) URL.
// If hostSuffix is non-empty the URL's host must equal it or be a
// subdomain of it.
func ParseArticleURL(raw, hostSuffix string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "URL %q must use http or https", raw)
	}
	if u.Hostname() == "" {
		return nil, Errorf(EINVALID, "URL %q has no host", raw)
	}
	if hostSuffix != "" && !hostMatches(u.Hostname(), hostSuffix) {
		return nil, Errorf(EINVALID, "URL %q is not a %s article", raw, hostSuffix)
	}
	return u, nil
}

func hostMatches(host, suffix string) bool {
	host = strings.ToLower(host)
	suffix = strings.ToLower(strings.TrimPrefix(suffix, "."))
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}
