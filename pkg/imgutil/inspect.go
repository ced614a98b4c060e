package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/shouni/socialgen-nano/pkg/domain"
)

// Inspect は画像ヘッダーだけを読み、フォーマットとサイズを返します。
// 画像の再エンコードは行いません。image.DecodeConfig がサポートする形式 (PNG, GIF, JPEG) に対応しています。
func Inspect(data []byte) (format string, width, height int, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", domain.ErrMalformedImage, err)
	}
	return format, cfg.Width, cfg.Height, nil
}

// InspectEmbedded は data URL の中身が画像として読めるかを確認します。
func InspectEmbedded(img domain.EmbeddedImage) (format string, width, height int, err error) {
	_, data, err := DecodeBytes(img)
	if err != nil {
		return "", 0, 0, err
	}
	return Inspect(data)
}
