package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/shouni/socialgen-nano/pkg/domain"
)

// generateRequest は /api/generate の入力です。画像は data URL またはリモート参照を受け付けます。
type generateRequest struct {
	BaseImage             string `json:"baseImage"`
	ReferenceImage        string `json:"referenceImage,omitempty"`
	Instruction           string `json:"instruction"`
	Tone                  string `json:"tone"`
	EmphasizeCallToAction bool   `json:"emphasizeCallToAction"`
}

// APIGenerate は JSON で投稿生成を受け付け、編集画像とコピーをまとめて返します。
func (h *Handler) APIGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body generateRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}

	base, err := h.resolver.Resolve(ctx, body.BaseImage)
	if err != nil {
		slog.WarnContext(ctx, "ベース画像の解決に失敗しました", "error", err)
		writeJSONError(w, r, statusFor(err), fmt.Sprintf("baseImage: %s", err))
		return
	}
	reference, err := h.resolver.Resolve(ctx, body.ReferenceImage)
	if err != nil {
		slog.WarnContext(ctx, "参照画像の解決に失敗しました", "error", err)
		writeJSONError(w, r, statusFor(err), fmt.Sprintf("referenceImage: %s", err))
		return
	}

	req := domain.GenerationRequest{
		BaseImage:      base,
		ReferenceImage: reference,
		Instruction:    body.Instruction,
		Tone:           domain.ParseTone(body.Tone),
		EmphasizeCTA:   body.EmphasizeCallToAction,
	}

	gen, err := h.generator.Generate(ctx, req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "投稿生成に失敗しました", "error", err)
		}
		writeJSONError(w, r, status, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, gen)
}
