package report

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/imroc/req/v3"
)

const maxImageBytes = 10 << 20

// Image is a fetched picture ready for embedding.
type Image struct {
	Data []byte
	// Type is the fpdf image type: PNG, JPG or GIF.
	Type string
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Image, error)
}

// HTTPFetcher downloads images over HTTP and also accepts data URLs.
type HTTPFetcher struct {
	client *req.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: req.C().
			SetTimeout(timeout).
			SetUserAgent("tavlist-report"),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	if strings.HasPrefix(url, "data:") {
		return decodeInline(url)
	}
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsErrorState() {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	data := resp.Bytes()
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("fetch %s: image too large", url)
	}
	return sniff(data)
}

func decodeInline(dataURL string) (*Image, error) {
	comma := strings.IndexByte(dataURL, ',')
	if comma < 0 || !strings.Contains(dataURL[:comma], ";base64") {
		return nil, errors.New("unsupported data url")
	}
	data, err := base64.StdEncoding.DecodeString(dataURL[comma+1:])
	if err != nil {
		return nil, err
	}
	return sniff(data)
}

func sniff(data []byte) (*Image, error) {
	switch http.DetectContentType(data) {
	case "image/png":
		return &Image{Data: data, Type: "PNG"}, nil
	case "image/jpeg":
		return &Image{Data: data, Type: "JPG"}, nil
	case "image/gif":
		return &Image{Data: data, Type: "GIF"}, nil
	default:
		return nil, errors.New("unsupported image format")
	}
}
