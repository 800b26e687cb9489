// Package datauri encodes and decodes base64 image data URIs of the form
// data:image/<type>;base64,<payload>.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const defaultMIME = "image/jpeg"

var ErrEmpty = errors.New("empty image data")

// Encode returns data as a base64 data URI.
func Encode(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Split strips an image data URI prefix and returns the MIME type and the raw
// base64 payload. A string without a recognised prefix is returned unchanged
// as the payload with a jpeg MIME type.
func Split(s string) (mimeType, payload string) {
	rest, ok := strings.CutPrefix(s, "data:image/")
	if !ok {
		return defaultMIME, s
	}
	sub, payload, ok := strings.Cut(rest, ";base64,")
	if !ok || sub == "" || !isLowerAlpha(sub) {
		return defaultMIME, s
	}
	return "image/" + sub, payload
}

// Decode splits s and decodes its payload.
func Decode(s string) (data []byte, mimeType string, err error) {
	mimeType, payload := Split(strings.TrimSpace(s))
	if payload == "" {
		return nil, "", ErrEmpty
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrEmpty
	}
	return data, mimeType, nil
}

func isLowerAlpha(s string) bool {
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
