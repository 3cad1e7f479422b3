package jwtmw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextSessionID はgin.ContextにセッションIDを格納するキーです。
	ContextSessionID = "sessionID"
	// CookieName はセッショントークンを保持するCookie名です。
	CookieName = "advisor_session"
	// HeaderSessionToken は新しく発行したトークンをAPIクライアントに返すヘッダーです。
	HeaderSessionToken = "X-Session-Token"
)

// CookieOptions はセッションCookieの属性です。
type CookieOptions struct {
	MaxAge int // 秒
	Secure bool
}

// SessionRequired はリクエストにセッションIDを割り当てるGinミドルウェアを返します。
// Authorization: Bearer ヘッダー、Cookieの順にトークンを探し、
// どちらも無いか不正な場合は新しいセッションIDを発行してCookieとヘッダーで返します。
func SessionRequired(gen *Generator, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 既存トークンの検証
		if tokenStr := sessionToken(c); tokenStr != "" {
			if id, err := gen.ParseToken(tokenStr); err == nil {
				c.Set(ContextSessionID, id)
				c.Next()
				return
			}
			slog.Debug("discarding invalid session token", "remote_addr", c.ClientIP())
		}

		// 2. 新しいセッションの発行
		id := uuid.NewString()
		token, err := gen.GenerateToken(id)
		if err != nil {
			slog.Error("failed to issue session token", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, token, opts.MaxAge, "/", "", opts.Secure, true)
		c.Header(HeaderSessionToken, token)
		c.Set(ContextSessionID, id)

		c.Next()
	}
}

// SessionID はミドルウェアが割り当てたセッションIDを返します。
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}

func sessionToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if v, err := c.Cookie(CookieName); err == nil {
		return v
	}
	return ""
}
