package generator

const (
	DefaultImageModel = "gemini-2.5-flash-image"
	DefaultTextModel  = "gemini-3-flash-preview"

	// 編集済み画像は常に PNG として扱うのだ
	editedImageMediaType = "image/png"
)

// ImageOutput は Core の内部解析結果
type ImageOutput struct {
	Data []byte
}
