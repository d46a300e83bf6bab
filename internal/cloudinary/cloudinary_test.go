package cloudinary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchURL(t *testing.T) {
	b := NewBuilder("demo")
	origin := "https://cdn.shopify.com/s/files/1/print.jpg?v=2"

	got := b.FetchURL(origin, Transform{Width: 600})
	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/fetch/w_600,q_auto,f_auto/"+
			"https%3A%2F%2Fcdn.shopify.com%2Fs%2Ffiles%2F1%2Fprint.jpg%3Fv%3D2",
		got)
}

func TestFetchURLAllParams(t *testing.T) {
	b := NewBuilder("demo")

	got := b.FetchURL("https://example.com/a.jpg", Transform{Width: 320, Height: 400, Crop: "fill", DPR: 2})
	assert.Contains(t, got, "/image/fetch/w_320,h_400,c_fill,dpr_2,q_auto,f_auto/")
}

func TestFetchURLPassthrough(t *testing.T) {
	origin := "https://example.com/a.jpg"

	// No cloud configured: origin passes through untouched.
	assert.Equal(t, origin, NewBuilder("").FetchURL(origin, Transform{Width: 600}))
	assert.False(t, NewBuilder("").Enabled())

	// Empty origin stays empty.
	assert.Equal(t, "", NewBuilder("demo").FetchURL("", Transform{Width: 600}))
	assert.True(t, NewBuilder("demo").Enabled())
}
