// Package vision はGoogle Cloud Vision APIを使用してPDFの表紙から企業ロゴを検出するクライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"advisor_backend/internal/feature/scorecard/usecase"
)

// MinLogoConfidence は企業名として採用するロゴ検出スコアの下限です。
const MinLogoConfidence = 0.5

// LogoCompanyIdentifier はPDFの1ページ目のロゴから企業名を推定します。
type LogoCompanyIdentifier struct {
	client *gvision.ImageAnnotatorClient
}

// LogoCompanyIdentifierがCompanyIdentifierを実装していることをコンパイル時に検証します。
var _ usecase.CompanyIdentifier = (*LogoCompanyIdentifier)(nil)

// NewLogoCompanyIdentifier はADCを使用してLogoCompanyIdentifierの新しいインスタンスを生成します。
func NewLogoCompanyIdentifier(ctx context.Context) (*LogoCompanyIdentifier, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &LogoCompanyIdentifier{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *LogoCompanyIdentifier) Close() error {
	return v.client.Close()
}

// IdentifyCompany はPDFの1ページ目でロゴ検出を行い、最もスコアの高いロゴ名を返します。
// 採用できるロゴがない場合は空文字を返します。
func (v *LogoCompanyIdentifier) IdentifyCompany(ctx context.Context, document []byte) (string, error) {
	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  document,
					MimeType: usecase.MIMETypePDF,
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LOGO_DETECTION},
				},
				Pages: []int32{1},
			},
		},
	}

	resp, err := v.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision API request failed: %w", err)
	}
	return BestLogo(resp, MinLogoConfidence)
}

// BestLogo はレスポンス中でスコアがminScore以上かつ最大のロゴ名を返します。
func BestLogo(resp *visionpb.BatchAnnotateFilesResponse, minScore float32) (string, error) {
	if resp == nil || len(resp.Responses) == 0 {
		return "", nil
	}
	file := resp.Responses[0]
	if file.Error != nil {
		return "", fmt.Errorf("vision API error: %s", file.Error.Message)
	}

	var (
		best      string
		bestScore float32
	)
	for _, page := range file.Responses {
		if page.Error != nil {
			return "", fmt.Errorf("vision API error: %s", page.Error.Message)
		}
		for _, logo := range page.LogoAnnotations {
			if logo.Score >= minScore && logo.Score > bestScore {
				best, bestScore = logo.Description, logo.Score
			}
		}
	}
	return best, nil
}
