package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/shouni/socialgen-nano/pkg/domain"
	"google.golang.org/genai"
)

const responseMIMETypeJSON = "application/json"

// GeminiCopyWriter は構造化出力 (JSON スキーマ) でマーケティングコピーを生成します。
type GeminiCopyWriter struct {
	models ContentModel
	model  string
}

// NewGeminiCopyWriter は GeminiCopyWriter を初期化します。
func NewGeminiCopyWriter(models ContentModel, model string) (*GeminiCopyWriter, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ContentModel) is required")
	}
	if model == "" {
		model = DefaultTextModel
	}
	return &GeminiCopyWriter{models: models, model: model}, nil
}

// copyResponseSchema はサービスに渡す出力スキーマです。サーバー側のヒントであり保証ではありません。
func copyResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"visualPrompt": {
				Type:        genai.TypeString,
				Description: "Descrição técnica do estilo visual gerado.",
			},
			"mainText": {
				Type:        genai.TypeString,
				Description: "Texto de impacto para a imagem em MAIÚSCULO.",
			},
			"cta": {
				Type:        genai.TypeString,
				Nullable:    genai.Ptr(true),
				Description: "Botão de ação estratégica em MAIÚSCULO.",
			},
			"caption": {
				Type:        genai.TypeString,
				Description: "Legenda estruturada com storytelling e hashtags.",
			},
		},
		Required:         []string{"visualPrompt", "mainText", "caption"},
		PropertyOrdering: []string{"visualPrompt", "mainText", "cta", "caption"},
	}
}

// GenerateMarketingCopy はキャンペーン指示・トーン・CTA 強度からコピーを生成します。
func (w *GeminiCopyWriter) GenerateMarketingCopy(ctx context.Context, instruction string, tone domain.Tone, emphasizeCTA bool) (*domain.GenerationResult, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildCopySystemInstruction(instruction, tone, emphasizeCTA), genai.RoleUser),
		ResponseMIMEType:  responseMIMETypeJSON,
		ResponseSchema:    copyResponseSchema(),
	}

	slog.InfoContext(ctx, "Geminiコピー生成リクエストを送信します", "model", w.model, "tone", tone, "strong_cta", emphasizeCTA)

	resp, err := w.models.GenerateContent(ctx, w.model, genai.Text(copyTriggerText), config)
	if err != nil {
		return nil, &domain.TransportError{Call: domain.CallGenerateCopy, Err: err}
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyResponse
	}
	return ParseCopy(text)
}

// responseText は最初の候補のテキストパーツを連結します (thought パーツは除外)。
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// ParseCopy は応答テキストを GenerationResult にデコードし、必須フィールドをローカルでも検証します。
func ParseCopy(text string) (*domain.GenerationResult, error) {
	var out domain.GenerationResult
	if err := sonic.UnmarshalString(stripCodeFence(text), &out); err != nil {
		return nil, &domain.MalformedJSONError{Err: err}
	}

	var missing []string
	if strings.TrimSpace(out.VisualPrompt) == "" {
		missing = append(missing, "visualPrompt")
	}
	if strings.TrimSpace(out.MainText) == "" {
		missing = append(missing, "mainText")
	}
	if strings.TrimSpace(out.Caption) == "" {
		missing = append(missing, "caption")
	}
	if len(missing) > 0 {
		return nil, &domain.MalformedJSONError{Missing: missing}
	}
	return &out, nil
}

// stripCodeFence は ```json ... ``` で囲まれた応答を素の JSON に戻します。
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
