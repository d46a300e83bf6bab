// Package cloudinary builds fetch-API URLs for on-the-fly image resizing.
// The storefront never downloads or processes image bytes itself; Cloudinary
// fetches the origin image (typically a Shopify CDN URL) and serves the
// transformed result.
package cloudinary

import (
	"fmt"
	"net/url"
	"strings"
)

const baseURL = "https://res.cloudinary.com"

// Builder constructs fetch URLs for a configured cloud. The zero value (no
// cloud name) passes origin URLs through untouched, which keeps local
// development working without a Cloudinary account.
type Builder struct {
	cloudName string
}

func NewBuilder(cloudName string) Builder {
	return Builder{cloudName: cloudName}
}

// Transform is the set of supported URL transformation parameters. Quality
// and format are always negotiated by Cloudinary (q_auto, f_auto).
type Transform struct {
	Width  int
	Height int
	// Crop mode, e.g. "fill" or "fit". Only applied when set.
	Crop string
	// Device pixel ratio multiplier, e.g. 2 for retina. Only applied when > 1.
	DPR int
}

// FetchURL returns the Cloudinary fetch URL for origin with the given
// transform, or origin itself when no cloud is configured or origin is empty.
func (b Builder) FetchURL(origin string, t Transform) string {
	if b.cloudName == "" || origin == "" {
		return origin
	}

	params := make([]string, 0, 5)
	if t.Width > 0 {
		params = append(params, fmt.Sprintf("w_%d", t.Width))
	}
	if t.Height > 0 {
		params = append(params, fmt.Sprintf("h_%d", t.Height))
	}
	if t.Crop != "" {
		params = append(params, "c_"+t.Crop)
	}
	if t.DPR > 1 {
		params = append(params, fmt.Sprintf("dpr_%d", t.DPR))
	}
	params = append(params, "q_auto", "f_auto")

	return fmt.Sprintf("%s/%s/image/fetch/%s/%s",
		baseURL, b.cloudName, strings.Join(params, ","), url.QueryEscape(origin))
}

// Enabled reports whether a cloud is configured.
func (b Builder) Enabled() bool {
	return b.cloudName != ""
}
