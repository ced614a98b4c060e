package server

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shouni/socialgen-nano/pkg/domain"
)

// mockGenerator は Generator インターフェースを実装するのだ。
type mockGenerator struct {
	mu      sync.Mutex
	calls   int
	lastReq domain.GenerationRequest
	delay   time.Duration
	result  *domain.Generation
	err     error
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Generation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.calls++
	m.lastReq = req
	m.mu.Unlock()
	time.Sleep(m.delay)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockResolver は data URL だけを受け付ける ImageResolver なのだ。
type mockResolver struct {
	refs []string
}

func (m *mockResolver) Resolve(ctx context.Context, ref string) (domain.EmbeddedImage, error) {
	m.refs = append(m.refs, ref)
	switch {
	case ref == "":
		return "", nil
	case strings.HasPrefix(ref, "data:"):
		return domain.EmbeddedImage(ref), nil
	case strings.HasPrefix(ref, "http://127."):
		return "", domain.ErrUnsafeURL
	default:
		return "", domain.ErrUnsupportedSource
	}
}
