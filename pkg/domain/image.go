package domain

import "strings"

// EmbeddedImage は "data:<mediaType>;base64,<payload>" 形式の自己完結した画像文字列です。
// 空文字列は「画像なし」を表します。
type EmbeddedImage string

// IsZero は画像が指定されていない場合に true を返します。
func (e EmbeddedImage) IsZero() bool {
	return strings.TrimSpace(string(e)) == ""
}

func (e EmbeddedImage) String() string {
	return string(e)
}

// Tone はコピー生成に渡す文体の指定です。値は生成サービスへそのまま埋め込まれます。
type Tone string

const (
	ToneEducational   Tone = "Educativa"
	ToneInstitutional Tone = "Institucional"
)

// Tones は UI に並べる順序で全トーンを返します。
func Tones() []Tone {
	return []Tone{ToneEducational, ToneInstitutional}
}

// ParseTone は文字列から Tone を解決します。未知の値は既定の Educativa にフォールバックするのだ。
func ParseTone(s string) Tone {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "institucional", "institutional":
		return ToneInstitutional
	default:
		return ToneEducational
	}
}

// GenerationRequest は 1 回の投稿生成に必要な入力です。
type GenerationRequest struct {
	BaseImage      EmbeddedImage
	ReferenceImage EmbeddedImage // 任意。空ならスタイル参照なし
	Instruction    string
	Tone           Tone
	EmphasizeCTA   bool
}

// Validate は外部サービスへ送信する前の必須項目チェックです。
func (r GenerationRequest) Validate() error {
	if r.BaseImage.IsZero() {
		return &ValidationError{Field: "baseImage", Message: MsgMissingBaseImage}
	}
	if strings.TrimSpace(r.Instruction) == "" {
		return &ValidationError{Field: "instruction", Message: MsgEmptyInstruction}
	}
	return nil
}

// GenerationResult は構造化出力で得られるマーケティングコピーです。
type GenerationResult struct {
	VisualPrompt string  `json:"visualPrompt"`
	MainText     string  `json:"mainText"`
	CTA          *string `json:"cta"`
	Caption      string  `json:"caption"`
}

// HasCTA は CTA が空でない場合に true を返します。
func (r GenerationResult) HasCTA() bool {
	return r.CTA != nil && strings.TrimSpace(*r.CTA) != ""
}

// Generation は 2 つの生成呼び出しが両方成功したときだけ作られる集約結果です。
type Generation struct {
	EditedImage EmbeddedImage     `json:"editedImage"`
	Copy        *GenerationResult `json:"result"`
}
