package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"advisor_backend/internal/feature/scorecard/domain/entity"
)

// 欠落フィールドの代替値です。
const (
	PlaceholderCompanyName = "Azienda non identificata"
	PlaceholderRevenue     = "N/A"
	PlaceholderRating      = "N/A"
	PlaceholderSummary     = "Nessuna azione specifica rilevata."
	PlaceholderAreaName    = "N/A"
)

// BuildScorecard は緩く型付けされた解析結果をスコアカードに変換します。
// モデルはスキーマを守る保証がないため、すべてのフィールド参照は欠落や型違いを許容し、失敗しません。
// 優先度帯はモデルのcoloreではなくスコアからローカルに計算します。
func BuildScorecard(doc map[string]any, model string) entity.Scorecard {
	anag := mapField(doc, "anagrafica")

	sc := entity.Scorecard{
		Company: entity.Company{
			Name:    stringField(anag, "ragione_sociale", PlaceholderCompanyName),
			Revenue: stringField(anag, "fatturato_milioni", PlaceholderRevenue),
			Trend:   stringField(anag, "trend_fatturato", ""),
			Rating:  stringField(anag, "rating", PlaceholderRating),
		},
		Summary: stringField(doc, "sintesi_executive", PlaceholderSummary),
		Model:   model,
	}

	items, _ := doc["scorecard"].([]any)
	for i, it := range items {
		item, ok := it.(map[string]any)
		if !ok {
			sc.Warnings = append(sc.Warnings, fmt.Sprintf("area %d ignorata: formato non valido", i+1))
			continue
		}
		area := buildArea(item)
		if w := colorMismatch(area); w != "" {
			sc.Warnings = append(sc.Warnings, w)
		}
		sc.Areas = append(sc.Areas, area)
	}

	if len(sc.Areas) != entity.ExpectedAreaCount {
		sc.Warnings = append(sc.Warnings,
			fmt.Sprintf("attese %d aree, ricevute %d", entity.ExpectedAreaCount, len(sc.Areas)))
	}
	return sc
}

func buildArea(item map[string]any) entity.AreaScore {
	score := entity.ClampScore(intField(item, "priorita_score"))
	return entity.AreaScore{
		Name:         stringField(item, "area", PlaceholderAreaName),
		UrgencyScore: score,
		Band:         entity.BandForScore(score),
		KPIs:         kpiList(item["kpi_elenco"]),
		Commentary:   stringField(item, "analisi_consulente", ""),
		ModelColor:   stringField(item, "colore", ""),
	}
}

// colorMismatch はモデルのcoloreが計算した帯と食い違う場合に警告文を返します。
func colorMismatch(a entity.AreaScore) string {
	if a.ModelColor == "" {
		return ""
	}
	var b entity.Band
	switch strings.ToLower(strings.TrimSpace(a.ModelColor)) {
	case "rosso", "red":
		b = entity.BandHigh
	case "giallo", "yellow":
		b = entity.BandMedium
	case "verde", "green":
		b = entity.BandLow
	default:
		return ""
	}
	if b == a.Band {
		return ""
	}
	return fmt.Sprintf("%s: colore del modello %q non coerente con lo score %d", a.Name, a.ModelColor, a.UrgencyScore)
}

// kpiList はKPIのリストまたは単一文字列を箇条書き用のスライスに揃えます。
func kpiList(v any) []string {
	switch k := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(k))
		for _, x := range k {
			if s := toText(x); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := toText(k); s != "" {
			return []string{s}
		}
		return nil
	}
}

func mapField(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

// stringField はキーが存在しない、nullである、または空文字の場合にfallbackを返します。
func stringField(m map[string]any, key, fallback string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return fallback
	}
	if s := strings.TrimSpace(toText(v)); s != "" {
		return s
	}
	return fallback
}

// intField は数値または数値文字列を整数にします。解釈できない場合は0です。
func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		if f, err := v.Float64(); err == nil {
			return roundScore(f)
		}
	case float64:
		return roundScore(v)
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return roundScore(f)
		}
	}
	return 0
}

func roundScore(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Round(math.Max(-1, math.Min(f, entity.MaxUrgencyScore+1))))
}

func toText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
