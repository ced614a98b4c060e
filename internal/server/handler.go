package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/shouni/socialgen-nano/pkg/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Generator は 1 回の投稿生成を実行します。orchestrator.Orchestrator が満たします。
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Generation, error)
}

// ImageResolver は画像参照 (data URL, リモート URL) を EmbeddedImage に解決します。
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) (domain.EmbeddedImage, error)
}

// Options は Handler の表示とアップロードに関する設定です。
type Options struct {
	SceneURL         string
	DownloadFilename string
	MaxUploadBytes   int64
}

type Handler struct {
	generator Generator
	resolver  ImageResolver
	tmpl      *template.Template
	opts      Options
}

// NewHandler は埋め込みテンプレートを解析してハンドラーを初期化します。
func NewHandler(generator Generator, resolver ImageResolver, opts Options) (*Handler, error) {
	if generator == nil || resolver == nil {
		return nil, errors.New("generator and resolver are required")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	if opts.DownloadFilename == "" {
		opts.DownloadFilename = "social-gen-nano.png"
	}

	funcMap := template.FuncMap{
		"imageURL": imageURL,
	}
	tmpl, err := template.New("index.html").Funcs(funcMap).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("テンプレートの解析に失敗しました: %w", err)
	}

	return &Handler{
		generator: generator,
		resolver:  resolver,
		tmpl:      tmpl,
		opts:      opts,
	}, nil
}

// imageURL は img の src に埋め込める data URL だけを通します。
func imageURL(img domain.EmbeddedImage) template.URL {
	s := string(img)
	if !strings.HasPrefix(s, "data:image/") {
		return ""
	}
	return template.URL(s)
}
