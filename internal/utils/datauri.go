package utils

import (
	"encoding/base64"
	"regexp"
	"strings"
)

var dataURIPattern = regexp.MustCompile(`^data:(.+);base64,(.+)$`)

// DataURI is a parsed data:<mime>;base64,<payload> string.
type DataURI struct {
	MIMEType string
	Data     string // base64 payload, not decoded
}

// ParseDataURI splits a base64 data URI. ok is false when s does not match.
func ParseDataURI(s string) (uri DataURI, ok bool) {
	m := dataURIPattern.FindStringSubmatch(s)
	if m == nil {
		return DataURI{}, false
	}
	return DataURI{MIMEType: m[1], Data: m[2]}, true
}

// EncodeDataURI base64-encodes data into a data URI.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DataURIPayload returns everything after the first comma, or s itself when there is none.
func DataURIPayload(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}
