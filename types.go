package passforge

// GenerateRequest overrides the engine's configured generation shape
// for one call. Zero fields fall back to the config.
type GenerateRequest struct {
	// WordLength of the dictionary word, in runes.
	WordLength int
	// DigitLength of the numeric affix; negative suppresses the affix
	// even when the config enables one.
	DigitLength int
}

// GenerateResult carries a generated password and its parts.
type GenerateResult struct {
	// Password is the assembled result.
	Password string
	// Word is the dictionary pick.
	Word string
	// Digits is the numeric affix, empty when disabled.
	Digits string
	// DigitsFirst reports whether the affix was placed before the word.
	DigitsFirst bool
}

// AnalyzeResult carries a strength verdict.
type AnalyzeResult struct {
	// Score is the 0-4 strength class after all penalties.
	Score int
	// Entropy is the scorer's entropy estimate in bits.
	Entropy float64
	// DictionaryHit reports a verbatim wordlist match.
	DictionaryHit bool
	// Acceptable compares Score against the configured minimum.
	Acceptable bool
	// Warning and Suggestions explain low scores.
	Warning     string
	Suggestions []string
}

// ResetToken pairs an issued token with its confirmation code.
type ResetToken struct {
	// Token is the signed JWT.
	Token string
	// Code is the short numeric confirmation code embedded in it.
	Code string
}
