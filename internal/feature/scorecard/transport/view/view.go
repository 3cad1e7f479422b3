// Package view はダッシュボードのHTMLテンプレートと表示用の補助関数を提供します。
package view

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"advisor_backend/internal/feature/scorecard/transport/http/dto"
)

// DashboardTemplate はダッシュボードのテンプレート名です。
const DashboardTemplate = "dashboard.html"

//go:embed templates/*.html
var templateFS embed.FS

// md はモデルの叙述テキストを変換するMarkdownレンダラーです。
// 生のHTMLは出力しません（goldmarkのデフォルト）。
var md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

// Dashboard はダッシュボード画面の表示内容です。
type Dashboard struct {
	Title     string
	Models    dto.ModelsResponse
	Halted    bool
	Error     string
	ErrorKind string
	Raw       string
	FileName  string
	Scorecard *dto.ScorecardResponse
}

// Templates は埋め込みテンプレートを補助関数付きで解析します。
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// FuncMap はテンプレートで使用する補助関数です。
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown":   Markdown,
		"trendArrow": TrendArrow,
		"trendClass": TrendClass,
		"bandClass":  BandClass,
		"leftColumn": func(areas []dto.AreaResponse) []dto.AreaResponse {
			return column(areas, 0)
		},
		"rightColumn": func(areas []dto.AreaResponse) []dto.AreaResponse {
			return column(areas, 1)
		},
	}
}

// Markdown はMarkdownをHTMLに変換します。変換に失敗した場合はエスケープ済みの原文を返します。
func Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

// TrendArrow は売上トレンドを矢印に変換します。
func TrendArrow(trend string) string {
	switch trendDirection(trend) {
	case 1:
		return "▲"
	case -1:
		return "▼"
	default:
		return ""
	}
}

// TrendClass は売上トレンドのCSSクラスを返します。
func TrendClass(trend string) string {
	switch trendDirection(trend) {
	case 1:
		return "trend-up"
	case -1:
		return "trend-down"
	default:
		return "trend-flat"
	}
}

// BandClass は優先度帯のCSSクラスを返します（high は赤、medium は黄、low は緑）。
func BandClass(band string) string {
	switch band {
	case "high":
		return "badge-high"
	case "medium":
		return "badge-medium"
	default:
		return "badge-low"
	}
}

func trendDirection(trend string) int {
	t := strings.ToLower(strings.TrimSpace(trend))
	switch {
	case strings.HasPrefix(t, "cresc"), strings.HasPrefix(t, "increas"), strings.HasPrefix(t, "+"):
		return 1
	case strings.HasPrefix(t, "decresc"), strings.HasPrefix(t, "decreas"), strings.HasPrefix(t, "-"):
		return -1
	default:
		return 0
	}
}

// column は2列グリッドの左（0）または右（1）の列に入るエリアを返します。
func column(areas []dto.AreaResponse, side int) []dto.AreaResponse {
	out := make([]dto.AreaResponse, 0, (len(areas)+1)/2)
	for i, a := range areas {
		if i%2 == side {
			out = append(out, a)
		}
	}
	return out
}
