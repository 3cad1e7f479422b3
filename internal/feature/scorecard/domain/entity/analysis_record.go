package entity

import "time"

// AnalysisRecord は1回のアップロード処理の監査記録です。分析結果そのものは含みません。
type AnalysisRecord struct {
	ID        string
	SessionID string
	FileName  string
	FileSize  int
	Model     string
	Outcome   UploadState // rendered または failed
	ErrorKind string
	AreaCount int
	Duration  time.Duration
	CreatedAt time.Time
}
