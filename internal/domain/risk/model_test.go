package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// 0.5*(100-45) + 0.35*(100-35) + 0.15*100 = 27.5 + 22.75 + 15 = 65.25
	score := Score(Signals{AttendancePercent: 45, MarksPercent: 35, FeesPaid: false}, cfg)
	assert.InDelta(t, 65.25, score, 1e-9)
	assert.Equal(t, LevelHigh, Classify(score, cfg))
}

func TestScore_PerfectStudent(t *testing.T) {
	cfg := DefaultConfig()

	score := Score(Signals{AttendancePercent: 100, MarksPercent: 100, FeesPaid: true}, cfg)
	assert.Equal(t, 0.0, score)
	assert.Equal(t, LevelLow, Classify(score, cfg))
}

func TestScore_WorstCase(t *testing.T) {
	cfg := DefaultConfig()

	score := Score(Signals{AttendancePercent: 0, MarksPercent: 0, FeesPaid: false}, cfg)
	assert.InDelta(t, 100.0, score, 1e-9)
	assert.Equal(t, LevelHigh, Classify(score, cfg))
}

func TestScore_FeesSignalIsBinary(t *testing.T) {
	cfg := DefaultConfig()
	sig := Signals{AttendancePercent: 90, MarksPercent: 90, FeesPaid: true}

	paid := Score(sig, cfg)
	sig.FeesPaid = false
	unpaid := Score(sig, cfg)
	sig.FeesPaid = true
	paidAgain := Score(sig, cfg)

	assert.Equal(t, paid, unpaid-cfg.FeesWeight*100)
	assert.Equal(t, paid, paidAgain)
}

func TestScore_MonotonicInAttendance(t *testing.T) {
	cfg := DefaultConfig()

	prev := Score(Signals{AttendancePercent: 100, MarksPercent: 50, FeesPaid: true}, cfg)
	for att := 95.0; att >= 0; att -= 5 {
		cur := Score(Signals{AttendancePercent: att, MarksPercent: 50, FeesPaid: true}, cfg)
		assert.Greater(t, cur, prev, "score must rise as attendance falls (att=%v)", att)
		prev = cur
	}
}

func TestClassify_ThresholdBoundaries(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, LevelLow, Classify(29.999, cfg))
	assert.Equal(t, LevelMedium, Classify(30, cfg))
	assert.Equal(t, LevelMedium, Classify(59.999, cfg))
	assert.Equal(t, LevelHigh, Classify(60, cfg))
	assert.Equal(t, LevelHigh, Classify(100, cfg))
}

func TestClassify_HighTakesPrecedence(t *testing.T) {
	// An inverted configuration (medium above high) must keep the literal
	// rule: the high check runs first, so the medium band between the two
	// thresholds is unreachable. No silent correction.
	cfg := Config{
		AttendanceWeight: 0.5,
		MarksWeight:      0.35,
		FeesWeight:       0.15,
		HighThreshold:    30,
		MediumThreshold:  60,
	}

	assert.Equal(t, LevelHigh, Classify(45, cfg))
	assert.Equal(t, LevelHigh, Classify(75, cfg))
	assert.Equal(t, LevelLow, Classify(29, cfg))
}

func TestAssess(t *testing.T) {
	cfg := DefaultConfig()

	a := Assess(Signals{AttendancePercent: 72, MarksPercent: 65, FeesPaid: true}, cfg)
	// 0.5*28 + 0.35*35 = 14 + 12.25 = 26.25
	assert.InDelta(t, 26.25, a.Score, 1e-9)
	assert.Equal(t, LevelLow, a.Level)
}

func TestConfigValidate_Warnings(t *testing.T) {
	assert.Empty(t, DefaultConfig().Validate())

	inverted := DefaultConfig()
	inverted.MediumThreshold = 80
	warnings := inverted.Validate()
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "not below high threshold")

	negative := DefaultConfig()
	negative.AttendanceWeight = -0.5
	negative.FeesWeight = -1
	warnings = negative.Validate()
	assert.Len(t, warnings, 2)
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel("high")
	assert.True(t, ok)
	assert.Equal(t, LevelHigh, l)

	_, ok = ParseLevel("critical")
	assert.False(t, ok)

	_, ok = ParseLevel("")
	assert.False(t, ok)
}

func TestSummary_Add(t *testing.T) {
	var s Summary
	s.Add(LevelHigh)
	s.Add(LevelHigh)
	s.Add(LevelMedium)
	s.Add(LevelLow)

	assert.Equal(t, Summary{Total: 4, High: 2, Medium: 1, Low: 1}, s)
}
