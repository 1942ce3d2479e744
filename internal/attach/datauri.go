package attach

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// IsDataURI reports whether s is a data: URI
func IsDataURI(s string) bool {
	return len(s) >= 5 && strings.EqualFold(s[:5], "data:")
}

// DecodeDataURI splits a data URI into its MIME type and decoded payload.
// Both base64 and percent-encoded payloads are accepted.
func DecodeDataURI(s string) (string, []byte, error) {
	if !IsDataURI(s) {
		return "", nil, fmt.Errorf("not a data URI")
	}

	header, payload, ok := strings.Cut(s[5:], ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI has no payload separator")
	}

	isBase64 := false
	mimeType := "text/plain"
	for i, param := range strings.Split(header, ";") {
		param = strings.TrimSpace(param)
		switch {
		case i == 0 && param != "":
			mimeType = strings.ToLower(param)
		case strings.EqualFold(param, "base64"):
			isBase64 = true
		}
	}

	if !isBase64 {
		decoded, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("failed to unescape data URI: %w", err)
		}
		return mimeType, []byte(decoded), nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some producers strip the padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, fmt.Errorf("failed to decode data URI: %w", err)
		}
	}
	return mimeType, data, nil
}

// DataURISize returns the decoded size of a base64 data URI without decoding it, or -1
func DataURISize(s string) int64 {
	if !IsDataURI(s) {
		return -1
	}
	header, payload, ok := strings.Cut(s[5:], ",")
	if !ok || !strings.HasSuffix(strings.ToLower(header), ";base64") {
		return -1
	}
	payload = strings.TrimRight(payload, "=")
	return int64(base64.RawStdEncoding.DecodedLen(len(payload)))
}

// DataURIMIMEType returns the MIME type declared by a data URI, or ""
func DataURIMIMEType(s string) string {
	if !IsDataURI(s) {
		return ""
	}
	header, _, ok := strings.Cut(s[5:], ",")
	if !ok {
		return ""
	}
	mimeType, _, _ := strings.Cut(header, ";")
	return strings.ToLower(strings.TrimSpace(mimeType))
}
