package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBandForScore(t *testing.T) {
	tests := []struct {
		score int
		want  Band
	}{
		{-5, BandLow},
		{0, BandLow},
		{30, BandLow},
		{31, BandMedium},
		{70, BandMedium},
		{71, BandHigh},
		{100, BandHigh},
		{250, BandHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandForScore(tt.score), "score=%d", tt.score)
	}
}

func TestBand_Label(t *testing.T) {
	assert.Equal(t, "ALTA", BandHigh.Label())
	assert.Equal(t, "MEDIA", BandMedium.Label())
	assert.Equal(t, "BASSA", BandLow.Label())
}

func TestSession_EffectiveModel(t *testing.T) {
	s := NewSession("s1", time.Now())
	s.Catalog = ModelCatalog{Models: []string{"a", "b"}, Default: "b"}

	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, "b", s.EffectiveModel())

	s.SelectedModel = "a"
	assert.Equal(t, "a", s.EffectiveModel())
	assert.True(t, s.Catalog.Contains("a"))
	assert.False(t, s.Catalog.Contains("c"))
}
