package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"

	"github.com/vbonduro/foodlens/internal/datauri"
)

const (
	jpegQuality  = 80
	maxImageSize = 50 * 1024 * 1024 // 50 MB
)

var ErrUnsupportedImage = errors.New("unsupported image type")

// allowedImageTypes is what DetectContentType can sniff. WebP is checked
// separately since the stdlib sniffer has no signature for it.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a RIFF container tagged WEBP.
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// imageMIME returns the sniffed MIME type of data and whether it is an
// accepted image format.
func imageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// toDataURI re-encodes frames as JPEG. Formats the image package cannot
// decode (webp) are passed through with their own MIME type.
func toDataURI(data []byte) (string, error) {
	mime, ok := imageMIME(data)
	if !ok {
		return "", ErrUnsupportedImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return datauri.Encode(mime, data), nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return datauri.Encode("image/jpeg", buf.Bytes()), nil
}

// Upload reads an image file chosen by the user and returns it as a data
// URI, the same as a camera snapshot would produce.
func Upload(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > maxImageSize {
		return "", fmt.Errorf("image %s is larger than %d bytes", path, maxImageSize)
	}
	return toDataURI(data)
}
