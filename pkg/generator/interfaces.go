package generator

import (
	"context"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/socialgen-nano/pkg/domain"
	"google.golang.org/genai"
)

// ImageModel はマルチモーダルな画像生成呼び出しを抽象化します。gemini.GenerativeModel のサブセットです。
type ImageModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// ContentModel は構造化出力付きのテキスト生成呼び出しを抽象化します。*genai.Models がそのまま満たします。
type ContentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageEditor はベース画像 (と任意の参照画像) を指示に従って編集します。
type ImageEditor interface {
	EditImage(ctx context.Context, base, reference domain.EmbeddedImage, instruction string) (domain.EmbeddedImage, error)
}

// CopyWriter は投稿用のマーケティングコピーを生成します。
type CopyWriter interface {
	GenerateMarketingCopy(ctx context.Context, instruction string, tone domain.Tone, emphasizeCTA bool) (*domain.GenerationResult, error)
}
