package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ユーザー向けメッセージ (UI はポルトガル語)
const (
	MsgMissingBaseImage = "Por favor, selecione uma imagem base primeiro."
	MsgEmptyInstruction = "Por favor, digite uma instrução de edição."
)

var (
	// ErrMalformedImage は data URL が data:<type>;base64,<payload> の形でない場合に返ります。
	ErrMalformedImage = errors.New("malformed embedded image")
	// ErrNoImageReturned は画像編集呼び出しが成功したものの画像パーツを含まなかった場合です。
	ErrNoImageReturned = errors.New("O modelo não retornou uma imagem editada.")
	// ErrEmptyResponse はコピー生成呼び出しがテキストを返さなかった場合です。
	ErrEmptyResponse = errors.New("Falha ao gerar o conteúdo estratégico.")
	// ErrUnsupportedSource は画像参照のスキームを解決できない場合です。
	ErrUnsupportedSource = errors.New("unsupported image source")
	// ErrUnsafeURL は SSRF の可能性があるリモート URL を拒否した場合です。
	ErrUnsafeURL = errors.New("unsafe image url")
)

// ValidationError は送信前の入力不備です。Message はそのまま UI に表示できます。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MalformedJSONError はコピー生成の応答が期待する JSON 形状でない場合のエラーです。
type MalformedJSONError struct {
	Missing []string
	Err     error
}

func (e *MalformedJSONError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("resposta JSON inválida: campos obrigatórios ausentes (%s)", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("resposta JSON inválida: %v", e.Err)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Err
}

// 生成サービス呼び出しの名前
const (
	CallEditImage    = "editImage"
	CallGenerateCopy = "generateMarketingCopy"
)

// TransportError は生成サービスへの到達自体に失敗したことを表します (ネットワーク、認証、クォータ等)。
type TransportError struct {
	Call string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: falha de comunicação com o serviço de geração: %v", e.Call, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsValidation は err が ValidationError を含むかを判定します。
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
