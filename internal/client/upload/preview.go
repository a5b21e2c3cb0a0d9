package upload

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

const (
	previewMaxDim  = 320
	previewQuality = 80
)

// previewDataURL decodes the selected image, downscales it to a thumbnail and
// re-encodes it as a JPEG data URL. The result is display-only; the original
// bytes are what get uploaded.
func previewDataURL(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	thumb := resize.Thumbnail(previewMaxDim, previewMaxDim, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: previewQuality}); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// imageDataURL encodes the original image bytes as a data URL for the AI
// generation request.
func imageDataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
