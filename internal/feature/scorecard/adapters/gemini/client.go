// Package gemini はGoogle Gemini APIを使用したモデル一覧取得と文書分析のクライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"google.golang.org/genai"

	"advisor_backend/internal/feature/scorecard/usecase"
)

// generateContentAction はコンテンツ生成に対応したモデルが持つアクション名です。
const generateContentAction = "generateContent"

// GeminiClient はAPIキーで認証したGemini APIクライアントです。
type GeminiClient struct {
	client *genai.Client
}

// GeminiClientがModelListerとDocumentAnalyzerを実装していることをコンパイル時に検証します。
var (
	_ usecase.ModelLister      = (*GeminiClient)(nil)
	_ usecase.DocumentAnalyzer = (*GeminiClient)(nil)
)

// NewGeminiClient はAPIキーを使用してGeminiClientの新しいインスタンスを生成します。
// httpClientがnilの場合はgenaiのデフォルトを使用します。
func NewGeminiClient(ctx context.Context, apiKey string, httpClient *http.Client) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// ListGenerationModels はgenerateContentに対応したモデルIDを提供元の順序で返します。
func (g *GeminiClient) ListGenerationModels(ctx context.Context) ([]string, error) {
	var models []*genai.Model
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("gemini list models failed: %w", err)
		}
		models = append(models, m)
	}
	return GenerationModelNames(models), nil
}

// AnalyzeDocument は指示テキスト、PDF、締めの指示を1つのユーザーメッセージとして送信します。
func (g *GeminiClient) AnalyzeDocument(ctx context.Context, req usecase.AnalysisRequest) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(req.Instruction),
		genai.NewPartFromBytes(req.Document, req.MIMEType),
		genai.NewPartFromText(req.Closing),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}

// GenerationModelNames はgenerateContentをサポートするモデルの名前だけを順序を保って抽出します。
func GenerationModelNames(models []*genai.Model) []string {
	names := make([]string, 0, len(models))
	for _, m := range models {
		if m == nil || m.Name == "" {
			continue
		}
		if slices.Contains(m.SupportedActions, generateContentAction) {
			names = append(names, m.Name)
		}
	}
	return names
}
