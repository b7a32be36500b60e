// Package risk implements the dropout risk scoring model. Scoring is a pure
// computation over a student's latest metrics and a configurable set of
// weights and thresholds - no side effects, no I/O.
package risk

import "fmt"

// ══════════════════════════════════════════════════════════════════════════════
// RISK LEVELS
// ══════════════════════════════════════════════════════════════════════════════

// Level classifies a student's dropout risk.
type Level string

const (
	// LevelLow - the student is on track.
	LevelLow Level = "low"
	// LevelMedium - the student needs attention.
	LevelMedium Level = "medium"
	// LevelHigh - the student is at serious risk of dropping out.
	LevelHigh Level = "high"
)

// IsValid reports whether the level is one of the known values.
func (l Level) IsValid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the level.
func (l Level) String() string {
	return string(l)
}

// ParseLevel parses a string into a Level. The second return value is false
// for unknown input.
func ParseLevel(s string) (Level, bool) {
	l := Level(s)
	return l, l.IsValid()
}

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds the weights and thresholds of the scoring model. Weights are
// not required to sum to 1. The config is read-only during scoring.
type Config struct {
	// AttendanceWeight scales the attendance deficit (100 - attendance).
	AttendanceWeight float64 `json:"attendance_weight"`

	// MarksWeight scales the marks deficit (100 - marks).
	MarksWeight float64 `json:"marks_weight"`

	// FeesWeight scales the fee-payment signal (0 when paid, 100 when not).
	FeesWeight float64 `json:"fees_weight"`

	// HighThreshold is the score at or above which the level is high.
	HighThreshold float64 `json:"high_threshold"`

	// MediumThreshold is the score at or above which the level is medium,
	// unless the high threshold already matched.
	MediumThreshold float64 `json:"medium_threshold"`
}

// DefaultConfig returns the built-in scoring configuration.
func DefaultConfig() Config {
	return Config{
		AttendanceWeight: 0.5,
		MarksWeight:      0.35,
		FeesWeight:       0.15,
		HighThreshold:    60,
		MediumThreshold:  30,
	}
}

// Validate returns human-readable warnings about a suspicious configuration.
// Warnings never block scoring: the literal classification rule (high checked
// first) is preserved even for contradictory thresholds, so an inherited
// configuration keeps behaving exactly as it always has.
func (c Config) Validate() []string {
	var warnings []string

	if c.MediumThreshold >= c.HighThreshold {
		warnings = append(warnings, fmt.Sprintf(
			"medium threshold (%.2f) is not below high threshold (%.2f); the medium band is unreachable above the high cutoff",
			c.MediumThreshold, c.HighThreshold))
	}
	if c.AttendanceWeight < 0 {
		warnings = append(warnings, fmt.Sprintf("attendance weight is negative (%.2f)", c.AttendanceWeight))
	}
	if c.MarksWeight < 0 {
		warnings = append(warnings, fmt.Sprintf("marks weight is negative (%.2f)", c.MarksWeight))
	}
	if c.FeesWeight < 0 {
		warnings = append(warnings, fmt.Sprintf("fees weight is negative (%.2f)", c.FeesWeight))
	}

	return warnings
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORING
// ══════════════════════════════════════════════════════════════════════════════

// Signals carries the latest metrics of one student into the model.
type Signals struct {
	// AttendancePercent in [0, 100]. The caller guarantees the bounds;
	// scoring applies no clamping.
	AttendancePercent float64

	// MarksPercent in [0, 100].
	MarksPercent float64

	// FeesPaid reports whether the fees are currently paid.
	FeesPaid bool
}

// Assessment is the derived, ephemeral result of scoring one student.
// It is never persisted; it is recomputed on demand.
type Assessment struct {
	Level Level   `json:"level"`
	Score float64 `json:"score"`
}

// Score computes the weighted risk score. Higher means more at-risk.
func Score(sig Signals, cfg Config) float64 {
	attendanceScore := 100 - sig.AttendancePercent
	marksScore := 100 - sig.MarksPercent
	feesScore := 0.0
	if !sig.FeesPaid {
		feesScore = 100
	}

	return cfg.AttendanceWeight*attendanceScore +
		cfg.MarksWeight*marksScore +
		cfg.FeesWeight*feesScore
}

// Classify maps a score to a level. The high threshold is checked first and
// always takes precedence over the medium threshold.
func Classify(score float64, cfg Config) Level {
	if score >= cfg.HighThreshold {
		return LevelHigh
	}
	if score >= cfg.MediumThreshold {
		return LevelMedium
	}
	return LevelLow
}

// Assess computes the score and level in one step.
func Assess(sig Signals, cfg Config) Assessment {
	score := Score(sig, cfg)
	return Assessment{
		Level: Classify(score, cfg),
		Score: score,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SUMMARY
// ══════════════════════════════════════════════════════════════════════════════

// Summary counts students per risk band.
type Summary struct {
	Total  int `json:"total"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Add folds one classified student into the summary.
func (s *Summary) Add(level Level) {
	s.Total++
	switch level {
	case LevelHigh:
		s.High++
	case LevelMedium:
		s.Medium++
	case LevelLow:
		s.Low++
	}
}
