package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/shouni/socialgen-nano/pkg/domain"
	"github.com/shouni/socialgen-nano/pkg/preview"
)

// pageData はテンプレートに渡す表示データです。
type pageData struct {
	State    preview.State
	Tones    []domain.Tone
	SceneURL string
}

// render は HTML テンプレートをレンダリングし、レスポンスを書き込みます。
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, state preview.State) {
	data := pageData{
		State:    state,
		Tones:    domain.Tones(),
		SceneURL: h.opts.SceneURL,
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		slog.ErrorContext(r.Context(), "テンプレートのレンダリングに失敗しました", "error", err)
		http.Error(w, "Ocorreu um erro inesperado.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.ErrorContext(r.Context(), "レスポンスの書き込みに失敗しました", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON は sonic でエンコードした JSON を書き込みます。
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		slog.ErrorContext(r.Context(), "JSON のエンコードに失敗しました", "error", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.ErrorContext(r.Context(), "レスポンスの書き込みに失敗しました", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// statusFor はエラーを HTTP ステータスに対応付けます。
// 入力不備は 400、生成サービス側の失敗は 502 なのだ。
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err),
		errors.Is(err, domain.ErrMalformedImage),
		errors.Is(err, domain.ErrUnsupportedSource),
		errors.Is(err, domain.ErrUnsafeURL):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
