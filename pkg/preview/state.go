package preview

import (
	"errors"
	"strings"

	"github.com/shouni/socialgen-nano/pkg/domain"
)

// Phase はプレビュー画面の表示フェーズです。
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// Slot は画像の差し込み先です。
type Slot int

const (
	SlotBase Slot = iota
	SlotReference
)

const (
	errorPrefix       = "Erro: "
	unexpectedMessage = "Ocorreu um erro inesperado."
)

// State はフォーム入力と生成結果をまとめた不変の画面状態です。
// 値として扱い、更新は Transition を通してのみ行うのだ。
type State struct {
	BaseImage      domain.EmbeddedImage
	ReferenceImage domain.EmbeddedImage
	Instruction    string
	Tone           domain.Tone
	EmphasizeCTA   bool

	Phase        Phase
	SubmissionID string
	EditedImage  domain.EmbeddedImage
	Result       *domain.GenerationResult
	ErrorMessage string
}

// Initial は初期状態を返します。
func Initial() State {
	return State{Tone: domain.ToneEducational, Phase: PhaseIdle}
}

// Request は現在のフォーム入力から生成リクエストを組み立てます。
func (s State) Request() domain.GenerationRequest {
	return domain.GenerationRequest{
		BaseImage:      s.BaseImage,
		ReferenceImage: s.ReferenceImage,
		Instruction:    s.Instruction,
		Tone:           s.Tone,
		EmphasizeCTA:   s.EmphasizeCTA,
	}
}

// CanSubmit は送信ボタンを有効にできるかを返します。
func (s State) CanSubmit() bool {
	return s.Phase != PhaseLoading && !s.BaseImage.IsZero() && strings.TrimSpace(s.Instruction) != ""
}

// Loading は生成中かどうかを返します。
func (s State) Loading() bool {
	return s.Phase == PhaseLoading
}

// Event は State を遷移させる入力です。
type Event interface {
	isEvent()
}

// ImageSelected は画像が選択されたことを表します。
type ImageSelected struct {
	Slot  Slot
	Image domain.EmbeddedImage
}

// InstructionChanged は指示テキストの変更です。
type InstructionChanged struct{ Instruction string }

// ToneChanged はトーンの変更です。
type ToneChanged struct{ Tone domain.Tone }

// CTAToggled は CTA 強調の切り替えです。
type CTAToggled struct{ Emphasize bool }

// Submitted は生成の開始要求です。ID は応答の突き合わせに使います。
type Submitted struct{ ID string }

// Succeeded は ID の送信が両方の結果とともに完了したことを表します。
type Succeeded struct {
	ID         string
	Generation *domain.Generation
}

// Failed は ID の送信が失敗したことを表します。
type Failed struct {
	ID  string
	Err error
}

// InputRejected はフォーム入力そのものを読み取れなかったことを表します。
type InputRejected struct{ Err error }

func (ImageSelected) isEvent()      {}
func (InstructionChanged) isEvent() {}
func (ToneChanged) isEvent()        {}
func (CTAToggled) isEvent()         {}
func (Submitted) isEvent()          {}
func (Succeeded) isEvent()          {}
func (Failed) isEvent()             {}
func (InputRejected) isEvent()      {}

// Transition は prev に ev を適用した新しい State を返す純粋関数です。
func Transition(prev State, ev Event) State {
	next := prev

	switch e := ev.(type) {
	case ImageSelected:
		switch e.Slot {
		case SlotBase:
			next.BaseImage = e.Image
		case SlotReference:
			next.ReferenceImage = e.Image
		}
		if next.Phase == PhaseError {
			next.Phase = PhaseIdle
		}
		next.ErrorMessage = ""

	case InstructionChanged:
		next.Instruction = e.Instruction

	case ToneChanged:
		next.Tone = e.Tone

	case CTAToggled:
		next.EmphasizeCTA = e.Emphasize

	case Submitted:
		// 生成中の再送信は無視する
		if prev.Phase == PhaseLoading {
			return prev
		}
		if err := prev.Request().Validate(); err != nil {
			return fail(next, err)
		}
		next.Phase = PhaseLoading
		next.SubmissionID = e.ID
		next.ErrorMessage = ""
		next.EditedImage = ""
		next.Result = nil

	case Succeeded:
		if prev.Phase != PhaseLoading || e.ID != prev.SubmissionID {
			return prev
		}
		if e.Generation == nil || e.Generation.Copy == nil || e.Generation.EditedImage.IsZero() {
			return fail(next, nil)
		}
		next.Phase = PhaseSuccess
		next.EditedImage = e.Generation.EditedImage
		next.Result = e.Generation.Copy
		next.ErrorMessage = ""

	case Failed:
		if prev.Phase != PhaseLoading || e.ID != prev.SubmissionID {
			return prev
		}
		return fail(next, e.Err)

	case InputRejected:
		if prev.Phase == PhaseLoading {
			return prev
		}
		return fail(next, e.Err)
	}

	return next
}

func fail(s State, err error) State {
	s.Phase = PhaseError
	s.EditedImage = ""
	s.Result = nil
	s.ErrorMessage = UserMessage(err)
	return s
}

// UserMessage はエラーを画面表示用の文言に変換します。
// 入力不備のメッセージはそのまま、それ以外は空のエラーも含めて "Erro: " を付けるのだ。
func UserMessage(err error) string {
	if err == nil {
		return errorPrefix + unexpectedMessage
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return errorPrefix + unexpectedMessage
	}
	return errorPrefix + msg
}
