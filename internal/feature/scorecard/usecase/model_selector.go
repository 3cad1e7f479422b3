package usecase

import (
	"context"
	"fmt"
	"strings"

	"advisor_backend/internal/feature/scorecard/domain"
	"advisor_backend/internal/feature/scorecard/domain/entity"
)

const (
	// DefaultTierMarker は優先して選ぶ高速モデルの名前に含まれる文字列です。
	DefaultTierMarker = "flash"
	// DefaultVersionMarker は優先して選ぶモデルのバージョン文字列です。
	DefaultVersionMarker = "1.5"
)

// ModelLister はコンテンツ生成に対応したモデルIDを列挙するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ModelLister interface {
	// ListGenerationModels はgenerateContentをサポートするモデルIDを提供元の順序で返します。
	ListGenerationModels(ctx context.Context) ([]string, error)
}

// ModelSelector はモデル一覧を取得し、デフォルトモデルを決定します。
type ModelSelector struct {
	lister  ModelLister
	tier    string
	version string
}

// NewModelSelector はModelSelectorの新しいインスタンスを生成します。
// tierまたはversionが空の場合はデフォルトのマーカーを使用します。
func NewModelSelector(lister ModelLister, tier, version string) *ModelSelector {
	if tier == "" {
		tier = DefaultTierMarker
	}
	if version == "" {
		version = DefaultVersionMarker
	}
	return &ModelSelector{lister: lister, tier: tier, version: version}
}

// Resolve はモデル一覧を取得してカタログを返します。
// 取得失敗や空の一覧はセッションにとって致命的なエラーとして扱い、再試行しません。
func (s *ModelSelector) Resolve(ctx context.Context) (entity.ModelCatalog, error) {
	models, err := s.lister.ListGenerationModels(ctx)
	if err != nil {
		return entity.ModelCatalog{}, fmt.Errorf("%w: %w", domain.ErrModelListing, err)
	}
	if len(models) == 0 {
		return entity.ModelCatalog{}, domain.ErrNoModels
	}
	return entity.ModelCatalog{
		Models:  models,
		Default: models[PickDefault(models, s.tier, s.version)],
	}, nil
}

// PickDefault はtierとversionの両方を名前に含む最初のモデルの位置を返します。
// 該当がなければ0を返します。
func PickDefault(models []string, tier, version string) int {
	for i, name := range models {
		if strings.Contains(name, tier) && strings.Contains(name, version) {
			return i
		}
	}
	return 0
}
