// Package strength scores password guessability on the usual 0-4 scale.
//
// The score blends a zxcvbn entropy estimate with a character-class
// heuristic and takes the lower of the two, so a long-but-predictable
// password cannot buy its way up on length alone. A dictionary hit,
// supplied by the caller from the wordlist matcher, caps the score at
// VeryWeak regardless of composition.
package strength

import (
	"strings"
	"unicode/utf8"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// Score classes, aligned with zxcvbn's scale.
const (
	VeryWeak = iota
	Weak
	Fair
	Strong
	VeryStrong
)

// maxScoredLength bounds the zxcvbn input; its matcher cost grows
// steeply with length, and 50 characters is plenty to classify.
const maxScoredLength = 50

// Result is the outcome of scoring a single password.
type Result struct {
	// Score is the 0-4 strength class.
	Score int
	// Entropy is zxcvbn's entropy estimate in bits.
	Entropy float64
	// DictionaryHit records whether the password appeared verbatim in
	// the configured wordlist.
	DictionaryHit bool
	// Warning is a short, human-readable problem statement, empty when
	// nothing stands out.
	Warning string
	// Suggestions are concrete improvements, ordered by impact.
	Suggestions []string
}

// Score rates a password. hints are caller-known strings (username,
// email, site name) the password must not lean on.
func Score(password string, hints ...string) Result {
	if password == "" {
		return Result{Score: VeryWeak, Warning: "empty password"}
	}

	scored := truncateRunes(password, maxScoredLength)
	match := zxcvbn.PasswordStrength(scored, hints)

	res := Result{
		Score:   match.Score,
		Entropy: match.Entropy,
	}
	if classScore := classHeuristic(password, hints); classScore < res.Score {
		res.Score = classScore
	}

	switch {
	case res.Score <= VeryWeak:
		res.Warning = "very guessable password"
		res.Suggestions = append(res.Suggestions,
			"use 12 or more characters mixing cases, digits, and symbols")
	case res.Score == Weak:
		res.Warning = "short or low-variety password"
		res.Suggestions = append(res.Suggestions,
			"add length and at least one more character class")
	case res.Score == Fair:
		res.Suggestions = append(res.Suggestions,
			"a three-or-four word passphrase is both longer and easier to remember")
	}
	return res
}

// PenalizeDictionaryHit records a verbatim wordlist hit and caps the
// score: a password an attacker's dictionary already contains is
// guessable no matter how it is composed.
func (r *Result) PenalizeDictionaryHit() {
	r.DictionaryHit = true
	if r.Score > VeryWeak {
		r.Score = VeryWeak
	}
	r.Warning = "password appears in the configured wordlist"
	r.Suggestions = []string{"pick a password that is not a dictionary word"}
}

// truncateRunes shortens s to at most max bytes, backing up so the cut
// never splits a multi-byte rune.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// classHeuristic is a coarse length-and-variety score, applied as a
// ceiling on the zxcvbn estimate.
func classHeuristic(password string, hints []string) int {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	classes := 0
	for _, present := range []bool{lower, upper, digit, symbol} {
		if present {
			classes++
		}
	}

	// Containing a known hint forfeits one class of credit.
	lowered := strings.ToLower(password)
	for _, hint := range hints {
		hint = strings.ToLower(strings.TrimSpace(hint))
		if hint != "" && strings.Contains(lowered, hint) {
			if classes > 1 {
				classes--
			}
			break
		}
	}

	length := len([]rune(password))
	switch {
	case length >= 14 && classes >= 3:
		return VeryStrong
	case length >= 12 && classes >= 3:
		return Strong
	case length >= 10 && classes >= 2:
		return Fair
	case length >= 8:
		return Weak
	default:
		return VeryWeak
	}
}
