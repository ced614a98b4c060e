package imgutil

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/shouni/socialgen-nano/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecompose_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		{0x00},
		[]byte("fake-png"),
		{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0xff, 0xfe},
		bytes.Repeat([]byte{0xAB, 0xCD, 0xEF}, 1000),
	}

	for _, raw := range inputs {
		mt, payload, err := Decompose(Encode(raw, "image/png"))
		require.NoError(t, err)
		assert.Equal(t, "image/png", mt)
		assert.Equal(t, base64.StdEncoding.EncodeToString(raw), payload)

		_, decoded, err := DecodeBytes(Encode(raw, "image/png"))
		require.NoError(t, err)
		assert.Equal(t, raw, decoded)
	}
}

func TestDecompose_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   domain.EmbeddedImage
	}{
		{"空文字列", ""},
		{"プレフィックスなし", "image/png;base64,AAAA"},
		{"base64 区切りなし", "data:image/png,AAAA"},
		{"メディアタイプが空", "data:;base64,AAAA"},
		{"payload が空", "data:image/png;base64,"},
		{"URL", "https://example.com/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decompose(tt.in)
			assert.ErrorIs(t, err, domain.ErrMalformedImage)
		})
	}
}

func TestDecodeBytes_InvalidBase64(t *testing.T) {
	_, _, err := DecodeBytes("data:image/png;base64,@@not-base64@@")
	assert.ErrorIs(t, err, domain.ErrMalformedImage)
}

type blockingReader struct {
	release chan struct{}
}

func (r *blockingReader) Read(p []byte) (int, error) {
	<-r.release
	return 0, io.EOF
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestEncodeReader(t *testing.T) {
	ctx := context.Background()
	pngData := createDummyImageData(t, "png")

	t.Run("メディアタイプが空ならバイト列から推定するのだ", func(t *testing.T) {
		img, err := EncodeReader(ctx, bytes.NewReader(pngData), "")
		require.NoError(t, err)

		mt, _, err := Decompose(img)
		require.NoError(t, err)
		assert.Equal(t, "image/png", mt)
	})

	t.Run("指定されたメディアタイプを優先する", func(t *testing.T) {
		img, err := EncodeReader(ctx, bytes.NewReader(pngData), "image/webp")
		require.NoError(t, err)
		assert.Equal(t, Encode(pngData, "image/webp"), img)
	})

	t.Run("空ファイルはエラー", func(t *testing.T) {
		_, err := EncodeReader(ctx, bytes.NewReader(nil), "image/png")
		assert.ErrorIs(t, err, domain.ErrMalformedImage)
	})

	t.Run("読み込みエラーはラップして返す", func(t *testing.T) {
		_, err := EncodeReader(ctx, failingReader{}, "image/png")
		assert.ErrorContains(t, err, "disk gone")
	})

	t.Run("キャンセルされた場合は読み込み完了を待たずに戻る", func(t *testing.T) {
		r := &blockingReader{release: make(chan struct{})}
		defer close(r.release)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := EncodeReader(cctx, r, "image/png")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
