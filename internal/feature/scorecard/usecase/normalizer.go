package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"advisor_backend/internal/feature/scorecard/domain"
)

var errNotObject = errors.New("top-level value is not a JSON object")

// Normalizer はモデルの返答テキストからJSONオブジェクトを取り出します。
type Normalizer struct {
	// lenient がtrueの場合、厳密な解析に失敗したスライスをjson-repairで修復してから再解析します。
	lenient bool
}

// NewNormalizer はNormalizerの新しいインスタンスを生成します。
func NewNormalizer(lenient bool) *Normalizer {
	return &Normalizer{lenient: lenient}
}

// Normalize は次の順序で返答を整形し、JSONオブジェクトとして解析します。
//  1. コードフェンス（```json と ```）を除去
//  2. 前後の空白を除去
//  3. `{` があれば最初の `{` から最後の `}` までを切り出す
//  4. 切り出した文字列を解析
//
// 失敗時は生の返答を保持した *domain.NormalizationError を返します。
func (n *Normalizer) Normalize(raw string) (map[string]any, error) {
	slice, hasBrace := ExtractJSON(raw)

	doc, err := decodeObject(slice)
	if err == nil {
		return doc, nil
	}

	if n.lenient && hasBrace {
		repaired, rerr := jsonrepair.RepairJSON(slice)
		if rerr == nil {
			if doc, err2 := decodeObject(repaired); err2 == nil {
				return doc, nil
			}
		}
	}

	return nil, &domain.NormalizationError{Raw: raw, Cause: err}
}

// ExtractJSON はフェンス除去とブレース切り出しを行った文字列と、`{` が存在したかを返します。
func ExtractJSON(raw string) (string, bool) {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	if start < 0 {
		return s, false
	}
	end := strings.LastIndex(s, "}")
	if end < start {
		// 閉じブレースがない場合は解析側で失敗させる
		return s[start:], true
	}
	return s[start : end+1], true
}

func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if rest := strings.TrimSpace(s[dec.InputOffset():]); rest != "" {
		return nil, fmt.Errorf("decode: unexpected data after JSON value")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}
