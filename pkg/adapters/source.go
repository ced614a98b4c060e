package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/shouni/socialgen-nano/pkg/domain"
	"github.com/shouni/socialgen-nano/pkg/imgutil"
)

// HTTPClient は httpkit.ClientInterface のうち画像取得に使う部分です。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// ObjectReader は remoteio.InputReader のうち gs:// 読み込みに使う部分です。
type ObjectReader interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// SourceResolver は data URL / http(s) URL / gs:// の画像参照を EmbeddedImage に解決するコンポーネントです。
type SourceResolver struct {
	httpClient  HTTPClient
	reader      ObjectReader
	allowRemote bool
	lookupIP    func(host string) ([]net.IP, error)
}

// NewSourceResolver は依存関係を注入して SourceResolver を生成します。
// reader が nil の場合 gs:// は解決できません。
func NewSourceResolver(httpClient HTTPClient, reader ObjectReader, allowRemote bool) *SourceResolver {
	return &SourceResolver{
		httpClient:  httpClient,
		reader:      reader,
		allowRemote: allowRemote,
		lookupIP:    net.LookupIP,
	}
}

// Resolve は画像参照を EmbeddedImage に変換します。空の参照は「画像なし」として空文字列を返すのだ。
func (r *SourceResolver) Resolve(ctx context.Context, ref string) (domain.EmbeddedImage, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", nil
	case strings.HasPrefix(ref, "data:"):
		img := domain.EmbeddedImage(ref)
		if _, _, err := imgutil.Decompose(img); err != nil {
			return "", err
		}
		return img, nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		if !r.allowRemote || r.httpClient == nil {
			return "", fmt.Errorf("%w: remote URLs are disabled", domain.ErrUnsupportedSource)
		}
		return r.fetchHTTP(ctx, ref)
	case strings.HasPrefix(ref, "gs://"):
		if !r.allowRemote || r.reader == nil {
			return "", fmt.Errorf("%w: gs:// is not enabled", domain.ErrUnsupportedSource)
		}
		return r.fetchObject(ctx, ref)
	default:
		return "", domain.ErrUnsupportedSource
	}
}

func (r *SourceResolver) fetchHTTP(ctx context.Context, rawURL string) (domain.EmbeddedImage, error) {
	// SSRF対策のバリデーション
	if safe, err := r.isSafeURL(rawURL); !safe || err != nil {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", rawURL, "error", err)
		return "", fmt.Errorf("%w: %v", domain.ErrUnsafeURL, err)
	}

	data, err := r.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("画像のダウンロードに失敗しました: %w", err)
	}
	return toEmbedded(data)
}

func (r *SourceResolver) fetchObject(ctx context.Context, uri string) (domain.EmbeddedImage, error) {
	rc, err := r.reader.Open(ctx, uri)
	if err != nil {
		return "", fmt.Errorf("オブジェクトのオープンに失敗しました: %w", err)
	}
	defer rc.Close()

	return imgutil.EncodeReader(ctx, rc, "")
}

// toEmbedded はバイト列のMIMEタイプを判定し、画像であれば data URL に変換します。
func toEmbedded(data []byte) (domain.EmbeddedImage, error) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: content is not an image (%s)", domain.ErrMalformedImage, mimeType)
	}
	return imgutil.Encode(data, mimeType), nil
}

// isSafeURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func (r *SourceResolver) isSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP

	// 1. IPアドレスが直接指定されているか確認
	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		// 2. ホスト名の場合、すべての IP を取得する
		resolvedIPs, err := r.lookupIP(host)
		if err != nil {
			return false, fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolvedIPs
	}

	if len(ips) == 0 {
		return false, fmt.Errorf("IPが見つかりません")
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
