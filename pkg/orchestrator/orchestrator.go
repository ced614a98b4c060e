package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/socialgen-nano/pkg/domain"
	"github.com/shouni/socialgen-nano/pkg/generator"
	"golang.org/x/sync/errgroup"
)

// DefaultCallTimeout は各生成呼び出しの上限時間です。
const DefaultCallTimeout = 2 * time.Minute

// Recorder は各生成呼び出しの結果とレイテンシを受け取ります。
type Recorder interface {
	ObserveCall(call string, err error, d time.Duration)
}

// Orchestrator は画像編集とコピー生成を並行に実行し、両方そろった場合だけ結果を返します。
type Orchestrator struct {
	editor      generator.ImageEditor
	writer      generator.CopyWriter
	recorder    Recorder
	callTimeout time.Duration
}

// Option は Orchestrator の任意設定です。
type Option func(*Orchestrator)

// WithRecorder は呼び出し結果の記録先を設定します。
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// WithCallTimeout は各呼び出しの上限時間を設定します。0 以下は既定値のままなのだ。
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// New は Orchestrator を生成します。
func New(editor generator.ImageEditor, writer generator.CopyWriter, opts ...Option) (*Orchestrator, error) {
	if editor == nil || writer == nil {
		return nil, errors.New("editor and writer are required")
	}
	o := &Orchestrator{
		editor:      editor,
		writer:      writer,
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Generate は入力を検証し、2 つの生成呼び出しを並行にディスパッチします。
// どちらかが失敗した時点でそのエラーを返し、部分的な結果は返しません。
// 呼び出し側のキャンセルは発行済みの呼び出しに伝播しないのだ。
func (o *Orchestrator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Generation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.callTimeout)

	var (
		g           errgroup.Group
		editedImage domain.EmbeddedImage
		copyResult  *domain.GenerationResult
	)
	failed := make(chan error, 2)

	g.Go(func() error {
		start := time.Now()
		img, err := o.editor.EditImage(callCtx, req.BaseImage, req.ReferenceImage, req.Instruction)
		o.observe(domain.CallEditImage, err, time.Since(start))
		if err != nil {
			failed <- err
			return err
		}
		editedImage = img
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		res, err := o.writer.GenerateMarketingCopy(callCtx, req.Instruction, req.Tone, req.EmphasizeCTA)
		o.observe(domain.CallGenerateCopy, err, time.Since(start))
		if err != nil {
			failed <- err
			return err
		}
		copyResult = res
		return nil
	})

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		cancel()
	}()

	select {
	case err := <-failed:
		slog.WarnContext(ctx, "生成処理が失敗しました", "error", err)
		return nil, err
	case err := <-done:
		if err != nil {
			return nil, err
		}
	}

	if editedImage.IsZero() {
		return nil, fmt.Errorf("%s: %w", domain.CallEditImage, domain.ErrNoImageReturned)
	}
	if copyResult == nil {
		return nil, fmt.Errorf("%s: %w", domain.CallGenerateCopy, domain.ErrEmptyResponse)
	}

	return &domain.Generation{
		EditedImage: editedImage,
		Copy:        copyResult,
	}, nil
}

func (o *Orchestrator) observe(call string, err error, d time.Duration) {
	if o.recorder != nil {
		o.recorder.ObserveCall(call, err, d)
	}
}
