package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shouni/socialgen-nano/pkg/domain"
)

// mockEditor は generator.ImageEditor を実装するのだ。
type mockEditor struct {
	calls atomic.Int32
	delay time.Duration
	img   domain.EmbeddedImage
	err   error
	// ctxErr は呼び出し完了時点の ctx.Err() を記録する
	ctxErr atomic.Value
}

func (m *mockEditor) EditImage(ctx context.Context, base, reference domain.EmbeddedImage, instruction string) (domain.EmbeddedImage, error) {
	m.calls.Add(1)
	time.Sleep(m.delay)
	if err := ctx.Err(); err != nil {
		m.ctxErr.Store(err)
	}
	if m.err != nil {
		return "", m.err
	}
	return m.img, nil
}

// mockWriter は generator.CopyWriter を実装するのだ。
type mockWriter struct {
	calls  atomic.Int32
	delay  time.Duration
	result *domain.GenerationResult
	err    error

	mu           sync.Mutex
	lastTone     domain.Tone
	lastEmphasis bool
}

func (m *mockWriter) GenerateMarketingCopy(ctx context.Context, instruction string, tone domain.Tone, emphasizeCTA bool) (*domain.GenerationResult, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.lastTone = tone
	m.lastEmphasis = emphasizeCTA
	m.mu.Unlock()
	time.Sleep(m.delay)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockRecorder は Recorder を実装するのだ。
type mockRecorder struct {
	mu    sync.Mutex
	calls map[string]error
}

func (m *mockRecorder) ObserveCall(call string, err error, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]error{}
	}
	m.calls[call] = err
}

func (m *mockRecorder) snapshot() map[string]error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]error, len(m.calls))
	for k, v := range m.calls {
		out[k] = v
	}
	return out
}
