package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shouni/socialgen-nano/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseImage   = domain.EmbeddedImage("data:image/png;base64,AAAA")
	editedImage = domain.EmbeddedImage("data:image/png;base64,QUJD")
)

func validRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		BaseImage:    baseImage,
		Instruction:  "make it blue",
		Tone:         domain.ToneInstitutional,
		EmphasizeCTA: true,
	}
}

func copyResult() *domain.GenerationResult {
	cta := "COMPRE AGORA"
	return &domain.GenerationResult{VisualPrompt: "v", MainText: "M", CTA: &cta, Caption: "c"}
}

func TestNew(t *testing.T) {
	_, err := New(nil, &mockWriter{})
	assert.Error(t, err)

	_, err = New(&mockEditor{}, nil)
	assert.Error(t, err)
}

func TestOrchestrator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("成功: 両方の結果をまとめて返すのだ", func(t *testing.T) {
		editor := &mockEditor{img: editedImage}
		writer := &mockWriter{result: copyResult()}
		rec := &mockRecorder{}
		o, err := New(editor, writer, WithRecorder(rec))
		require.NoError(t, err)

		got, err := o.Generate(ctx, validRequest())
		require.NoError(t, err)
		assert.Equal(t, editedImage, got.EditedImage)
		assert.Equal(t, "M", got.Copy.MainText)
		assert.Equal(t, domain.ToneInstitutional, writer.lastTone)
		assert.True(t, writer.lastEmphasis)

		calls := rec.snapshot()
		assert.Contains(t, calls, domain.CallEditImage)
		assert.Contains(t, calls, domain.CallGenerateCopy)
		assert.NoError(t, calls[domain.CallEditImage])
	})

	t.Run("ベース画像なしは呼び出しゼロで ValidationError", func(t *testing.T) {
		editor := &mockEditor{img: editedImage}
		writer := &mockWriter{result: copyResult()}
		o, _ := New(editor, writer)

		req := validRequest()
		req.BaseImage = ""
		got, err := o.Generate(ctx, req)

		assert.Nil(t, got)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, domain.MsgMissingBaseImage, ve.Message)
		assert.Zero(t, editor.calls.Load())
		assert.Zero(t, writer.calls.Load())
	})

	t.Run("空白だけの指示も呼び出しゼロ", func(t *testing.T) {
		editor := &mockEditor{img: editedImage}
		writer := &mockWriter{result: copyResult()}
		o, _ := New(editor, writer)

		req := validRequest()
		req.Instruction = "   "
		_, err := o.Generate(ctx, req)

		assert.True(t, domain.IsValidation(err))
		assert.Zero(t, editor.calls.Load())
		assert.Zero(t, writer.calls.Load())
	})

	t.Run("片方の失敗で部分結果を返さない", func(t *testing.T) {
		editor := &mockEditor{img: editedImage}
		writer := &mockWriter{err: domain.ErrEmptyResponse}
		o, _ := New(editor, writer)

		got, err := o.Generate(ctx, validRequest())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrEmptyResponse)
		assert.Equal(t, int32(1), editor.calls.Load())
		assert.Equal(t, int32(1), writer.calls.Load())
	})

	t.Run("画像なしエラーもそのまま伝わる", func(t *testing.T) {
		o, _ := New(&mockEditor{err: domain.ErrNoImageReturned}, &mockWriter{result: copyResult()})

		_, err := o.Generate(ctx, validRequest())
		assert.ErrorIs(t, err, domain.ErrNoImageReturned)
	})

	t.Run("空の画像が返った場合は成功扱いにしない", func(t *testing.T) {
		o, _ := New(&mockEditor{img: ""}, &mockWriter{result: copyResult()})

		got, err := o.Generate(ctx, validRequest())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrNoImageReturned)
	})

	t.Run("コピーが nil の場合も成功扱いにしない", func(t *testing.T) {
		o, _ := New(&mockEditor{img: editedImage}, &mockWriter{})

		got, err := o.Generate(ctx, validRequest())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrEmptyResponse)
	})

	t.Run("最初の失敗を遅い呼び出しを待たずに返す", func(t *testing.T) {
		editor := &mockEditor{img: editedImage, delay: 2 * time.Second}
		writer := &mockWriter{err: errors.New("quota exceeded")}
		o, _ := New(editor, writer)

		start := time.Now()
		_, err := o.Generate(ctx, validRequest())
		elapsed := time.Since(start)

		assert.EqualError(t, err, "quota exceeded")
		assert.Less(t, elapsed, time.Second)
	})

	t.Run("呼び出し元のキャンセルは発行済みの呼び出しに伝わらない", func(t *testing.T) {
		editor := &mockEditor{img: editedImage, delay: 100 * time.Millisecond}
		writer := &mockWriter{result: copyResult()}
		o, _ := New(editor, writer)

		cctx, cancel := context.WithCancel(ctx)
		time.AfterFunc(10*time.Millisecond, cancel)

		got, err := o.Generate(cctx, validRequest())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Nil(t, editor.ctxErr.Load())
	})

	t.Run("上限時間は呼び出しに適用される", func(t *testing.T) {
		editor := &mockEditor{img: editedImage, delay: 50 * time.Millisecond}
		o, _ := New(editor, &mockWriter{result: copyResult()}, WithCallTimeout(10*time.Millisecond))

		_, _ = o.Generate(ctx, validRequest())
		assert.Equal(t, context.DeadlineExceeded, editor.ctxErr.Load())
	})
}
