package generator

import (
	"context"
	"sync"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockImageModel は ImageModel のテスト用モックなのだ。呼び出し内容を記録します。
type mockImageModel struct {
	mu        sync.Mutex
	calls     int
	lastModel string
	lastParts []*genai.Part

	generateFunc func(parts []*genai.Part) (*gemini.Response, error)
}

func (m *mockImageModel) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	m.mu.Lock()
	m.calls++
	m.lastModel = model
	m.lastParts = parts
	m.mu.Unlock()

	if m.generateFunc != nil {
		return m.generateFunc(parts)
	}
	return imageResponse([]byte("edited-png")), nil
}

// mockContentModel は ContentModel のテスト用モックなのだ。
type mockContentModel struct {
	calls        int
	lastModel    string
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig

	text string
	err  error
}

func (m *mockContentModel) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastContents = contents
	m.lastConfig = config
	if m.err != nil {
		return nil, m.err
	}
	return textResponse(m.text), nil
}

// --- Fixtures ---

func imageResponse(data []byte) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "here you go"},
						{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: data}},
					},
				},
			}},
		},
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	if text == "" {
		return &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
		}
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func systemText(cfg *genai.GenerateContentConfig) string {
	if cfg == nil || cfg.SystemInstruction == nil {
		return ""
	}
	var s string
	for _, p := range cfg.SystemInstruction.Parts {
		s += p.Text
	}
	return s
}
