package generator

import (
	"fmt"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/socialgen-nano/pkg/domain"
	"github.com/shouni/socialgen-nano/pkg/imgutil"
	"google.golang.org/genai"
)

// toPart は data URL を InlineData パーツに変換します。
func toPart(img domain.EmbeddedImage) (*genai.Part, error) {
	mimeType, data, err := imgutil.DecodeBytes(img)
	if err != nil {
		return nil, err
	}
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: mimeType,
			Data:     data,
		},
	}, nil
}

// parseToResponse は Gemini のレスポンスから最初の画像パーツを取り出します。
func parseToResponse(resp *gemini.Response) (*ImageOutput, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, domain.ErrNoImageReturned
	}

	// 最初の候補 (Candidate) のみを利用する。
	candidate := resp.RawResponse.Candidates[0]

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageOutput{Data: part.InlineData.Data}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, fmt.Errorf("%w (FinishReason: %s)", domain.ErrNoImageReturned, candidate.FinishReason)
	}

	return nil, domain.ErrNoImageReturned
}
