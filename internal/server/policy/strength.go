package policy

import (
	"unicode/utf8"

	"github.com/nbutton23/zxcvbn-go"
)

// Strength labels.
const (
	LabelWeak     = "Weak"
	LabelModerate = "Moderate"
	LabelStrong   = "Strong"
)

// Strength combines the rule score (0-5, one point per satisfied rule) with
// zxcvbn's entropy estimate.
type Strength struct {
	Score     int     `json:"score"`
	Label     string  `json:"label"`
	Entropy   float64 `json:"entropy"`
	CrackTime string  `json:"crack_time"`
	// Guessability is zxcvbn's own 0-4 score.
	Guessability int `json:"guessability"`
}

// Evaluate scores a secret. userInputs (username, email, site name) are
// penalised by zxcvbn when they appear in the secret.
func (p PasswordPolicy) Evaluate(secret string, userInputs ...string) Strength {
	score := 0
	if utf8.RuneCountInString(secret) >= p.MinLength {
		score++
	}
	c := classify(secret)
	for _, ok := range []bool{c.upper, c.lower, c.digit, c.special} {
		if ok {
			score++
		}
	}

	label := LabelStrong
	switch {
	case score <= 2:
		label = LabelWeak
	case score == 3:
		label = LabelModerate
	}

	s := Strength{Score: score, Label: label}
	if secret != "" {
		m := zxcvbn.PasswordStrength(secret, userInputs)
		s.Entropy = m.Entropy
		s.CrackTime = m.CrackTimeDisplay
		s.Guessability = m.Score
	}
	return s
}
