package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/shouni/socialgen-nano/pkg/domain"
	"github.com/shouni/socialgen-nano/pkg/imgutil"
	"github.com/shouni/socialgen-nano/pkg/preview"
)

// フォームのフィールド名
const (
	fieldBaseImage        = "base_image"
	fieldReferenceImage   = "reference_image"
	fieldBaseDataURL      = "base_data_url"
	fieldReferenceDataURL = "reference_data_url"
	fieldInstruction      = "instruction"
	fieldTone             = "tone"
	fieldStrongCTA        = "strong_cta"
	fieldDownloadImage    = "image"

	downloadMediaType = "image/png"
)

// Index は初期状態のフォームを表示します。
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, preview.Initial())
}

// Healthz は死活監視用のエンドポイントです。
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleGenerate はフォーム送信を受け取り、状態遷移を経て結果またはエラーを描画します。
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.WarnContext(ctx, "フォームの解析に失敗しました", "error", err)
		h.render(w, r, http.StatusBadRequest, preview.Transition(preview.Initial(), preview.InputRejected{Err: err}))
		return
	}

	state := preview.Initial()

	for _, slot := range []struct {
		slot      preview.Slot
		fileField string
		urlField  string
	}{
		{preview.SlotBase, fieldBaseImage, fieldBaseDataURL},
		{preview.SlotReference, fieldReferenceImage, fieldReferenceDataURL},
	} {
		img, err := h.formImage(ctx, r, slot.fileField, slot.urlField)
		if err != nil {
			slog.WarnContext(ctx, "画像の読み込みに失敗しました", "field", slot.fileField, "error", err)
			h.render(w, r, statusFor(err), preview.Transition(state, preview.InputRejected{Err: err}))
			return
		}
		state = preview.Transition(state, preview.ImageSelected{Slot: slot.slot, Image: img})
	}

	state = preview.Transition(state, preview.InstructionChanged{Instruction: r.FormValue(fieldInstruction)})
	state = preview.Transition(state, preview.ToneChanged{Tone: domain.ParseTone(r.FormValue(fieldTone))})
	state = preview.Transition(state, preview.CTAToggled{Emphasize: r.FormValue(fieldStrongCTA) != ""})

	id := uuid.NewString()
	state = preview.Transition(state, preview.Submitted{ID: id})
	if !state.Loading() {
		h.render(w, r, http.StatusBadRequest, state)
		return
	}

	slog.InfoContext(ctx, "投稿生成を開始します", "submission_id", id, "tone", state.Tone, "strong_cta", state.EmphasizeCTA)
	gen, err := h.generator.Generate(ctx, state.Request())
	if err != nil {
		slog.ErrorContext(ctx, "投稿生成に失敗しました", "submission_id", id, "error", err)
		state = preview.Transition(state, preview.Failed{ID: id, Err: err})
		h.render(w, r, statusFor(err), state)
		return
	}

	state = preview.Transition(state, preview.Succeeded{ID: id, Generation: gen})
	h.render(w, r, http.StatusOK, state)
}

// formImage はアップロードファイルを優先し、なければ hidden フィールドの data URL を使います。
func (h *Handler) formImage(ctx context.Context, r *http.Request, fileField, urlField string) (domain.EmbeddedImage, error) {
	file, header, err := r.FormFile(fileField)
	switch {
	case err == nil:
		defer file.Close()
		return h.encodeUpload(ctx, file, header)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return h.resolver.Resolve(ctx, r.FormValue(urlField))
	default:
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedImage, err)
	}
}

func (h *Handler) encodeUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (domain.EmbeddedImage, error) {
	img, err := imgutil.EncodeReader(ctx, file, header.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	if format, width, height, err := imgutil.InspectEmbedded(img); err != nil {
		// WebP などヘッダーを解析できない形式もそのまま生成サービスへ渡す
		slog.DebugContext(ctx, "画像ヘッダーを解析できませんでした", "filename", header.Filename, "error", err)
	} else {
		slog.DebugContext(ctx, "画像を受け付けました", "filename", header.Filename, "format", format, "width", width, "height", height)
	}
	return img, nil
}

// Download は data URL の画像を PNG ファイルとして返します。
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requisição inválida.", http.StatusBadRequest)
		return
	}

	mediaType, data, err := imgutil.DecodeBytes(domain.EmbeddedImage(r.FormValue(fieldDownloadImage)))
	if err != nil {
		slog.WarnContext(r.Context(), "ダウンロード対象の画像が不正です", "error", err)
		http.Error(w, "Imagem inválida.", http.StatusBadRequest)
		return
	}
	if mediaType != downloadMediaType {
		slog.WarnContext(r.Context(), "PNG 以外の画像はダウンロードできません", "media_type", mediaType)
		http.Error(w, "Imagem inválida.", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", downloadMediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.opts.DownloadFilename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.ErrorContext(r.Context(), "レスポンスの書き込みに失敗しました", "error", err)
	}
}
