// Package stats scores typing attempts.
package stats

import (
	"fmt"
	"time"
)

const (
	// MinWPM is the speed an attempt must reach to pass.
	MinWPM = 50
	// MinAccuracy is the correct-keystroke percentage an attempt must reach to pass.
	MinAccuracy = 90
	// SpeedExemptBelow exempts attempts with fewer correct characters from the speed check.
	SpeedExemptBelow = 15
	// FeedbackWidth is the rendered width of FormatFeedback for values below 1000% and 10000 WPM.
	FeedbackWidth = 9
)

// Score is the outcome of one attempt at a chunk.
type Score struct {
	Correct    int
	Errors     int
	Elapsed    time.Duration
	WPM        int
	Accuracy   int
	SpeedOK    bool
	AccuracyOK bool
	// Skipped marks an attempt with nothing to type; it passes without measurement.
	Skipped bool
}

// Passed reports whether both thresholds were met.
func (s Score) Passed() bool {
	return s.SpeedOK && s.AccuracyOK
}

// Evaluate scores an attempt from its correct and mismatched keystroke counts
// and the time since the chunk was presented. Both metrics are truncated.
func Evaluate(correct, errors int, elapsed time.Duration) Score {
	if correct <= 0 {
		return Score{Errors: errors, Elapsed: elapsed, SpeedOK: true, AccuracyOK: true, Skipped: true}
	}
	wpm := WPM(correct, elapsed)
	acc := Accuracy(correct, errors)
	return Score{
		Correct:    correct,
		Errors:     errors,
		Elapsed:    elapsed,
		WPM:        wpm,
		Accuracy:   acc,
		SpeedOK:    wpm >= MinWPM || correct < SpeedExemptBelow,
		AccuracyOK: acc >= MinAccuracy,
	}
}

// WPM returns whole words (five correct characters each) per minute.
// Elapsed times below one millisecond count as one millisecond.
func WPM(correct int, elapsed time.Duration) int {
	ms := elapsed.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	words := int64(correct / 5)
	return int(words * 60000 / ms)
}

// Accuracy returns the percentage of keystrokes that were correct.
func Accuracy(correct, errors int) int {
	total := correct + errors
	if total <= 0 {
		return 0
	}
	return correct * 100 / total
}

// FormatFeedback renders "{accuracy}% {wpm}" with accuracy left-padded to
// three columns and wpm right-padded to four, so redraws overwrite older values.
func FormatFeedback(s Score) string {
	return FormatAccuracy(s) + " " + FormatWPM(s)
}

// FormatAccuracy renders the padded accuracy half of the feedback.
func FormatAccuracy(s Score) string {
	return fmt.Sprintf("%3d%%", s.Accuracy)
}

// FormatWPM renders the padded speed half of the feedback.
func FormatWPM(s Score) string {
	return fmt.Sprintf("%-4d", s.WPM)
}
