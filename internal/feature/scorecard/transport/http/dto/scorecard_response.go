package dto

import "advisor_backend/internal/feature/scorecard/domain/entity"

// CompanyResponse はスコアカードのヘッダー情報です。
type CompanyResponse struct {
	Name    string `json:"name"`
	Revenue string `json:"revenue"`
	Trend   string `json:"trend"`
	Rating  string `json:"rating"`
}

// AreaResponse は1エリアの評価です。
type AreaResponse struct {
	Name         string   `json:"name"`
	UrgencyScore int      `json:"urgency_score"`
	Band         string   `json:"band"`  // low / medium / high
	Label        string   `json:"label"` // BASSA / MEDIA / ALTA
	KPIs         []string `json:"kpis"`
	Commentary   string   `json:"commentary"`
	ModelColor   string   `json:"model_color,omitempty"`
}

// ScorecardResponse はアップロード1件の分析結果です。
type ScorecardResponse struct {
	Company  CompanyResponse `json:"company"`
	Summary  string          `json:"summary"`
	Areas    []AreaResponse  `json:"areas"`
	Model    string          `json:"model"`
	Warnings []string        `json:"warnings,omitempty"`
}

// NewScorecardResponse はエンティティからレスポンスDTOを生成します。
func NewScorecardResponse(sc entity.Scorecard) ScorecardResponse {
	areas := make([]AreaResponse, 0, len(sc.Areas))
	for _, a := range sc.Areas {
		kpis := a.KPIs
		if kpis == nil {
			kpis = []string{}
		}
		areas = append(areas, AreaResponse{
			Name:         a.Name,
			UrgencyScore: a.UrgencyScore,
			Band:         string(a.Band),
			Label:        a.Band.Label(),
			KPIs:         kpis,
			Commentary:   a.Commentary,
			ModelColor:   a.ModelColor,
		})
	}
	return ScorecardResponse{
		Company: CompanyResponse{
			Name:    sc.Company.Name,
			Revenue: sc.Company.Revenue,
			Trend:   sc.Company.Trend,
			Rating:  sc.Company.Rating,
		},
		Summary:  sc.Summary,
		Areas:    areas,
		Model:    sc.Model,
		Warnings: sc.Warnings,
	}
}
