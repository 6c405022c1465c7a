package strength

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestScoreOrdering(t *testing.T) {
	weak := Score("abc")
	strong := Score("kk3!fP9$wq7@Zr5x")
	if weak.Score >= strong.Score {
		t.Fatalf("expected %q (score %d) to outrank %q (score %d)",
			"kk3!fP9$wq7@Zr5x", strong.Score, "abc", weak.Score)
	}
	if weak.Score != VeryWeak {
		t.Fatalf("trivial password scored %d", weak.Score)
	}
	if weak.Warning == "" {
		t.Fatal("weak password must carry a warning")
	}
}

func TestScoreEmptyPassword(t *testing.T) {
	res := Score("")
	if res.Score != VeryWeak || res.Warning == "" {
		t.Fatalf("empty password must be very weak with a warning, got %+v", res)
	}
}

func TestScoreHintPenalty(t *testing.T) {
	const pw = "Annika2024x"
	without := Score(pw)
	with := Score(pw, "annika")
	if with.Score > without.Score {
		t.Fatalf("hint must not raise the score: %d > %d", with.Score, without.Score)
	}
}

func TestScoreLongPasswordBounded(t *testing.T) {
	// Scoring must not choke on very long inputs.
	long := ""
	for range 40 {
		long += "Xq7$rLp2!"
	}
	res := Score(long)
	if res.Score < Strong {
		t.Fatalf("long high-variety password scored %d", res.Score)
	}
}

func TestPenalizeDictionaryHit(t *testing.T) {
	res := Score("Tr0ub4dor&3xx")
	res.PenalizeDictionaryHit()
	if !res.DictionaryHit {
		t.Fatal("dictionary hit not recorded")
	}
	if res.Score != VeryWeak {
		t.Fatalf("dictionary hit must cap score at VeryWeak, got %d", res.Score)
	}
	if res.Warning == "" || len(res.Suggestions) == 0 {
		t.Fatal("dictionary hit must explain itself")
	}
}

func TestClassHeuristic(t *testing.T) {
	tests := []struct {
		password string
		want     int
	}{
		{password: "short", want: VeryWeak},
		{password: "eightchr", want: Weak},
		{password: "tenchars12", want: Fair},
		{password: "TwelveChars1", want: Strong},
		{password: "FourteenChars1!", want: VeryStrong},
	}
	for _, tt := range tests {
		if got := classHeuristic(tt.password, nil); got != tt.want {
			t.Fatalf("classHeuristic(%q) = %d, want %d", tt.password, got, tt.want)
		}
	}
}

func TestTruncateRunesKeepsRuneBoundaries(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{s: "abcdef", max: 4, want: "abcd"},
		{s: "abcdef", max: 10, want: "abcdef"},
		// Cutting inside the two-byte é must back up to before it.
		{s: "abcé", max: 4, want: "abc"},
		{s: "ééé", max: 3, want: "é"},
		{s: "日本語", max: 4, want: "日"},
		{s: "日本語", max: 2, want: ""},
	}
	for _, tt := range tests {
		got := truncateRunes(tt.s, tt.max)
		if got != tt.want {
			t.Fatalf("truncateRunes(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncateRunes(%q, %d) produced invalid UTF-8 %q", tt.s, tt.max, got)
		}
	}
}

func TestScoreLongMultiByteInput(t *testing.T) {
	// Longer than the scoring cutoff in bytes, with the cutoff landing
	// inside a rune; the scorer must still see valid UTF-8.
	long := strings.Repeat("パスワード", 8)
	res := Score(long)
	if res.Score < VeryWeak || res.Score > VeryStrong {
		t.Fatalf("score %d out of range", res.Score)
	}
	if res.Entropy < 0 {
		t.Fatalf("negative entropy %f", res.Entropy)
	}
}
