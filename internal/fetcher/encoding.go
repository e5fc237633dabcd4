package fetcher

import (
	"bytes"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// DecodeText converts a response body to a UTF-8 string using the charset
// declared in contentType. Bodies without a declared charset, or with an
// unknown one, are returned as-is.
func DecodeText(body []byte, contentType string) string {
	label := charsetLabel(contentType)
	if label == "" || label == "utf-8" || label == "utf8" {
		return string(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf")))
	}

	enc, name := charset.Lookup(label)
	if enc == nil || name == "utf-8" {
		return string(body)
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(body), enc.NewDecoder()))
	if err != nil || !utf8.Valid(decoded) {
		return string(body)
	}
	return string(decoded)
}

func charsetLabel(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params["charset"]))
}
