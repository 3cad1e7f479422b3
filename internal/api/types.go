// Package api はHTTPレスポンスで共通に使用するDTOを定義します。
package api

// ErrorResponse はエラー時のレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
	// Kind はエラーの分類（invocation、normalization など）です。
	Kind string `json:"kind,omitempty"`
	// Raw はモデルの返答がJSONとして解析できなかった場合の生テキストです。
	Raw string `json:"raw,omitempty"`
}
