package builder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/socialgen-nano/internal/config"
	"github.com/shouni/socialgen-nano/internal/metrics"
	"github.com/shouni/socialgen-nano/internal/server"
	"github.com/shouni/socialgen-nano/pkg/adapters"
	"github.com/shouni/socialgen-nano/pkg/generator"
	"github.com/shouni/socialgen-nano/pkg/orchestrator"
	"google.golang.org/genai"
)

// AppContext はアプリケーションの依存関係を保持します。
type AppContext struct {
	Config       *config.Config
	IOFactory    remoteio.IOFactory
	Orchestrator *orchestrator.Orchestrator
	Resolver     *adapters.SourceResolver
}

// Close は、AppContext が保持するすべてのリソースを解放します。
func (a *AppContext) Close() {
	if a.IOFactory != nil {
		if err := a.IOFactory.Close(); err != nil {
			slog.Error("failed to close IOFactory", "error", err)
		}
	}
}

// BuildAppContext は外部サービスとの接続を確立し、依存関係を組み立てます。
func BuildAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	appCtx := &AppContext{Config: cfg}

	// 1. 生成クライアントの初期化
	editor, err := buildImageEditor(ctx, cfg)
	if err != nil {
		return nil, err
	}
	writer, err := buildCopyWriter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	orch, err := orchestrator.New(editor, writer,
		orchestrator.WithRecorder(metrics.GenerationRecorder{}),
		orchestrator.WithCallTimeout(cfg.Gemini.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	appCtx.Orchestrator = orch

	// 2. 画像ソース (リモート URL, GCS) の初期化
	var reader adapters.ObjectReader
	if cfg.Source.AllowRemote && cfg.Source.EnableGCS {
		factory, err := gcsfactory.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCS factory: %w", err)
		}
		appCtx.IOFactory = factory
		r, err := factory.InputReader()
		if err != nil {
			appCtx.Close()
			return nil, fmt.Errorf("failed to create input reader: %w", err)
		}
		reader = r
	}
	httpClient := httpkit.New(cfg.Source.FetchTimeout)
	appCtx.Resolver = adapters.NewSourceResolver(httpClient, reader, cfg.Source.AllowRemote)

	return appCtx, nil
}

// BuildHandler はルーティングとハンドラーを組み立てます。
func BuildHandler(appCtx *AppContext) (http.Handler, error) {
	cfg := appCtx.Config
	h, err := server.NewHandler(appCtx.Orchestrator, appCtx.Resolver, server.Options{
		SceneURL:         cfg.SceneURL,
		DownloadFilename: config.DownloadFilename,
		MaxUploadBytes:   cfg.Server.MaxUploadBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize web handler: %w", err)
	}

	return server.NewRouter(server.RouterConfig{Timeout: cfg.Server.Timeout}, h), nil
}

// buildImageEditor は画像編集用の gemini クライアントを初期化します。
func buildImageEditor(ctx context.Context, cfg *config.Config) (*generator.GeminiImageEditor, error) {
	aiClient, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.Gemini.APIKey})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	editor, err := generator.NewGeminiImageEditor(aiClient, cfg.Gemini.ImageModel)
	if err != nil {
		return nil, fmt.Errorf("画像エディターの初期化に失敗しました: %w", err)
	}
	return editor, nil
}

// buildCopyWriter は構造化出力用の genai クライアントを初期化します。
func buildCopyWriter(ctx context.Context, cfg *config.Config) (*generator.GeminiCopyWriter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai クライアントの初期化に失敗しました: %w", err)
	}
	writer, err := generator.NewGeminiCopyWriter(client.Models, cfg.Gemini.TextModel)
	if err != nil {
		return nil, fmt.Errorf("コピーライターの初期化に失敗しました: %w", err)
	}
	return writer, nil
}
