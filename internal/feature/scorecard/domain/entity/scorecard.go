// Package entity はscorecardフィーチャーのドメインモデルを定義します。
package entity

// Band は緊急度スコアから導出される優先度帯です。
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

const (
	// MinUrgencyScore は緊急度スコアの下限です。
	MinUrgencyScore = 0
	// MaxUrgencyScore は緊急度スコアの上限です。
	MaxUrgencyScore = 100
	// LowBandMax はlow帯に含まれる最大スコアです。
	LowBandMax = 30
	// MediumBandMax はmedium帯に含まれる最大スコアです。
	MediumBandMax = 70
	// ExpectedAreaCount はスコアカードに期待されるエリア数です。
	ExpectedAreaCount = 5
)

// BandForScore はスコアから優先度帯を計算します。範囲外のスコアは先に丸められます。
// 0–30: low, 31–70: medium, 71–100: high
func BandForScore(score int) Band {
	switch s := ClampScore(score); {
	case s > MediumBandMax:
		return BandHigh
	case s > LowBandMax:
		return BandMedium
	default:
		return BandLow
	}
}

// ClampScore はスコアを0〜100の範囲に収めます。
func ClampScore(score int) int {
	if score < MinUrgencyScore {
		return MinUrgencyScore
	}
	if score > MaxUrgencyScore {
		return MaxUrgencyScore
	}
	return score
}

// Label はダッシュボードに表示する優先度ラベルを返します。
func (b Band) Label() string {
	switch b {
	case BandHigh:
		return "ALTA"
	case BandMedium:
		return "MEDIA"
	default:
		return "BASSA"
	}
}

// Company はスコアカードのヘッダーに表示される企業情報です。
type Company struct {
	Name    string // ragione_sociale
	Revenue string // fatturato_milioni（例: "€ 4.8M"）
	Trend   string // trend_fatturato（Crescente/Decrescente/Stabile）
	Rating  string // 外部格付けラベル
}

// AreaScore はスコアカードの1エリアの評価です。
type AreaScore struct {
	Name         string
	UrgencyScore int
	Band         Band // スコアからローカルに計算した帯
	KPIs         []string
	Commentary   string
	ModelColor   string // モデルが返したcolore（診断用、表示には使わない）
}

// Scorecard は1回のアップロードから生成される分析結果です。
// 生成後に変更されることはありません。
type Scorecard struct {
	Company  Company
	Summary  string
	Areas    []AreaScore
	Model    string
	Warnings []string
}
