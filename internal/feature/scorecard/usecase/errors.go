// Package usecase はscorecardフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrSessionNotFound is returned by a SessionRepository when no session exists for the given ID.
	ErrSessionNotFound = errors.New("session not found")
)
