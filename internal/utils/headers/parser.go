package headers

import (
	"fmt"
	"net/textproto"
	"strings"
)

// managed headers are set by the browser or by dedicated options and are
// rejected as extra headers
var managed = map[string]string{
	"Host":            "set by the browser",
	"Content-Length":  "set by the browser",
	"Cookie":          "cookies come from the cookie jar",
	"User-Agent":      "use --user-agent",
	"Accept-Language": "set by the locale profile",
}

// ParseHeaders converts "Key: Value" strings into a map of extra request headers.
// Keys are canonicalized; later duplicates win.
func ParseHeaders(h []string) (map[string]string, error) {
	m := make(map[string]string, len(h))
	for _, hdr := range h {
		parts := strings.SplitN(hdr, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid header %q (want \"Key: Value\")", hdr)
		}
		key := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(parts[0]))
		if why, ok := managed[key]; ok {
			return nil, fmt.Errorf("header %s cannot be overridden: %s", key, why)
		}
		m[key] = strings.TrimSpace(parts[1])
	}
	return m, nil
}
