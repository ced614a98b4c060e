package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shouni/netarmor/securenet"
)

const (
	// DefaultSceneURL は装飾パネルに埋め込む 3D シーンです。
	DefaultSceneURL = "https://prod.spline.design/kZDDjO5HuC9GJUM2/scene.splinecode"
	// DownloadFilename は編集済み画像のダウンロード名です。
	DownloadFilename = "social-gen-nano.png"
)

// Config は環境変数から読み込まれたアプリケーションの全設定を保持します。
type Config struct {
	Server     ServerConfig
	Gemini     GeminiConfig
	Source     SourceConfig
	SceneURL   string `env:"DECORATIVE_SCENE_URL" envDefault:"https://prod.spline.design/kZDDjO5HuC9GJUM2/scene.splinecode"`
	ServiceURL string `env:"SERVICE_URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Timeout         time.Duration `env:"SERVER_TIMEOUT" envDefault:"3m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`
}

// GeminiConfig のモデル名が空の場合は generator パッケージの既定モデルを使います。
type GeminiConfig struct {
	APIKey     string `env:"GEMINI_API_KEY"`
	TextModel  string `env:"GEMINI_TEXT_MODEL"`
	ImageModel string `env:"GEMINI_IMAGE_MODEL"`
	// Timeout は各生成呼び出しの上限です。リトライはしません。
	Timeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"2m"`
}

type SourceConfig struct {
	AllowRemote  bool          `env:"ALLOW_REMOTE_IMAGES" envDefault:"false"`
	EnableGCS    bool          `env:"ENABLE_GCS" envDefault:"false"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
}

// Load は .env (存在すれば) と環境変数から設定を読み込みます。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(".env の読み込みに失敗しました", "error", err)
	}
	return parse()
}

func parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("環境変数の解析に失敗しました: %w", err)
	}
	// API_KEY は旧名称のフォールバック
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("API_KEY")
	}
	return cfg, nil
}

// Validate はアプリケーション実行に不可欠な設定を検証します。
func (c *Config) Validate() error {
	if !IsSecureURL(c.ServiceURL) {
		return fmt.Errorf("security error: SERVICE_URL ('%s') must be HTTPS in production", c.ServiceURL)
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("configuration error: GEMINI_API_KEY is not set")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("configuration error: MAX_UPLOAD_BYTES must be positive (%d)", c.Server.MaxUploadBytes)
	}
	return nil
}

// IsSecureURL は指定された URL が HTTPS または localhost であるか判定します。
func IsSecureURL(rawURL string) bool {
	return securenet.IsSecureServiceURL(rawURL)
}
