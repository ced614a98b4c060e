package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/socialgen-nano/pkg/domain"
	"github.com/shouni/socialgen-nano/pkg/imgutil"
	"google.golang.org/genai"
)

// GeminiImageEditor は Gemini の画像モデルでベース画像を編集します。
type GeminiImageEditor struct {
	aiClient ImageModel
	model    string
}

// NewGeminiImageEditor は GeminiImageEditor を初期化するのだ。
func NewGeminiImageEditor(aiClient ImageModel, model string) (*GeminiImageEditor, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (ImageModel) is required")
	}
	if model == "" {
		model = DefaultImageModel
	}
	return &GeminiImageEditor{
		aiClient: aiClient,
		model:    model,
	}, nil
}

// buildParts はベース画像、参照画像 (任意)、指示テキストの順にパーツを並べます。
func buildParts(base, reference domain.EmbeddedImage, instruction string) ([]*genai.Part, error) {
	basePart, err := toPart(base)
	if err != nil {
		return nil, fmt.Errorf("ベース画像の変換に失敗しました: %w", err)
	}
	parts := []*genai.Part{basePart}

	if reference.IsZero() {
		return append(parts, genai.NewPartFromText(BuildEditInstruction(instruction, false))), nil
	}

	refPart, err := toPart(reference)
	if err != nil {
		return nil, fmt.Errorf("参照画像の変換に失敗しました: %w", err)
	}
	return append(parts, refPart, genai.NewPartFromText(BuildEditInstruction(instruction, true))), nil
}

// EditImage は指示に従って画像を編集し、PNG の data URL として返します。
// 応答に画像パーツが含まれない場合は domain.ErrNoImageReturned を返すのだ。
func (e *GeminiImageEditor) EditImage(ctx context.Context, base, reference domain.EmbeddedImage, instruction string) (domain.EmbeddedImage, error) {
	parts, err := buildParts(base, reference, instruction)
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Gemini画像編集リクエストを送信します",
		"model", e.model, "parts", len(parts), "has_reference", !reference.IsZero())

	resp, err := e.aiClient.GenerateWithParts(ctx, e.model, parts, gemini.GenerateOptions{})
	if err != nil {
		return "", &domain.TransportError{Call: domain.CallEditImage, Err: err}
	}

	out, err := parseToResponse(resp)
	if err != nil {
		slog.WarnContext(ctx, "画像パーツが返されませんでした", "model", e.model, "error", err)
		return "", err
	}

	return imgutil.Encode(out.Data, editedImageMediaType), nil
}
