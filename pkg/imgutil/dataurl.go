package imgutil

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shouni/socialgen-nano/pkg/domain"
)

const (
	dataURLPrefix   = "data:"
	base64Delimiter = ";base64,"
)

// Encode はバイト列とメディアタイプから data URL を組み立てます。副作用はありません。
func Encode(raw []byte, mediaType string) domain.EmbeddedImage {
	return domain.EmbeddedImage(dataURLPrefix + mediaType + base64Delimiter + base64.StdEncoding.EncodeToString(raw))
}

// EncodeReader は r を一度だけ読み切って data URL に変換します。
// 読み込みは別 goroutine で行い、ctx のキャンセルで呼び出し側はすぐに戻れるのだ。
// mediaType が空の場合は先頭バイトから推定します。
func EncodeReader(ctx context.Context, r io.Reader, mediaType string) (domain.EmbeddedImage, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(r)
		done <- result{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("画像ファイルの読み込みに失敗しました: %w", res.err)
		}
		if len(res.data) == 0 {
			return "", fmt.Errorf("%w: empty file", domain.ErrMalformedImage)
		}
		mt := strings.TrimSpace(mediaType)
		if mt == "" || mt == "application/octet-stream" {
			mt = http.DetectContentType(res.data)
		}
		return Encode(res.data, mt), nil
	}
}

// Decompose は data URL を (mediaType, base64 payload) に分解します。
func Decompose(img domain.EmbeddedImage) (mediaType, payload string, err error) {
	s := strings.TrimSpace(string(img))
	if !strings.HasPrefix(s, dataURLPrefix) {
		return "", "", fmt.Errorf("%w: missing %q prefix", domain.ErrMalformedImage, dataURLPrefix)
	}
	header, payload, ok := strings.Cut(s[len(dataURLPrefix):], base64Delimiter)
	if !ok {
		return "", "", fmt.Errorf("%w: missing %q delimiter", domain.ErrMalformedImage, base64Delimiter)
	}
	if header == "" || strings.Contains(header, ",") {
		return "", "", fmt.Errorf("%w: invalid media type", domain.ErrMalformedImage)
	}
	if payload == "" {
		return "", "", fmt.Errorf("%w: empty payload", domain.ErrMalformedImage)
	}
	return header, payload, nil
}

// DecodeBytes は Decompose に加えて payload を base64 デコードします。
func DecodeBytes(img domain.EmbeddedImage) (mediaType string, data []byte, err error) {
	mediaType, payload, err := Decompose(img)
	if err != nil {
		return "", nil, err
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrMalformedImage, err)
	}
	return mediaType, data, nil
}
