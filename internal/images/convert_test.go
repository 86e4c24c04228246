package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacquerlab/salon-scheduler/internal/httperr"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestToWebP(t *testing.T) {
	t.Run("converts and keeps small images unscaled", func(t *testing.T) {
		out, err := ToWebP(pngBytes(t, 100, 50), 1600)
		require.NoError(t, err)

		cfg, err := webp.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Width)
		assert.Equal(t, 50, cfg.Height)
	})

	t.Run("downscales to the max edge, keeping aspect", func(t *testing.T) {
		out, err := ToWebP(pngBytes(t, 800, 400), 200)
		require.NoError(t, err)

		cfg, err := webp.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 200, cfg.Width)
		assert.Equal(t, 100, cfg.Height)
	})

	t.Run("rejects non-image input", func(t *testing.T) {
		_, err := ToWebP([]byte("not an image"), 1600)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
	})
}
