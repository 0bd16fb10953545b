package service

import (
	"math"
	"testing"
)

func TestBuildStatsZeroAttempts(t *testing.T) {
	stats := buildStats(0, 0, nil)

	if stats.TotalAttempts != 0 || stats.CorrectAttempts != 0 {
		t.Errorf("counts = %d/%d, want 0/0", stats.CorrectAttempts, stats.TotalAttempts)
	}
	if stats.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0", stats.SuccessRate)
	}
	if math.IsNaN(stats.SuccessRate) {
		t.Error("SuccessRate must never be NaN")
	}
	if stats.AverageTimeMs != nil {
		t.Errorf("AverageTimeMs = %v, want nil", *stats.AverageTimeMs)
	}
}

func TestBuildStatsSuccessRate(t *testing.T) {
	avg := 1500.0
	stats := buildStats(4, 3, &avg)

	if stats.SuccessRate != 75 {
		t.Errorf("SuccessRate = %v, want 75", stats.SuccessRate)
	}
	if stats.AverageTimeMs == nil || *stats.AverageTimeMs != 1500 {
		t.Errorf("AverageTimeMs = %v, want 1500", stats.AverageTimeMs)
	}
}

func TestBuildStatsAllCorrect(t *testing.T) {
	stats := buildStats(2, 2, nil)

	if stats.SuccessRate != 100 {
		t.Errorf("SuccessRate = %v, want 100", stats.SuccessRate)
	}
	if stats.AverageTimeMs != nil {
		t.Error("AverageTimeMs should stay nil when no attempt carried a timing")
	}
}
