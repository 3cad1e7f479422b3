// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// probeTimeout は依存先1件あたりの確認時間の上限です。
const probeTimeout = 2 * time.Second

// Check はヘルスチェックで確認する依存先（Redis、監査DBなど）です。
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// NewHealth は /healthz エンドポイントのハンドラーを生成します。
// GETでは登録された依存先を順に確認し、1件でも失敗すれば503を返します。
// HEADとOPTIONSは依存先を確認せずに応答します。
func NewHealth(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
			return
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
			return
		}

		status, code := "ok", http.StatusOK
		results := make(map[string]string, len(checks))
		for _, chk := range checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
			err := chk.Probe(ctx)
			cancel()
			if err != nil {
				results[chk.Name] = err.Error()
				status, code = "degraded", http.StatusServiceUnavailable
				continue
			}
			results[chk.Name] = "ok"
		}

		body := gin.H{"status": status}
		if len(results) > 0 {
			body["checks"] = results
		}
		c.JSON(code, body)
	}
}
