package dictionary

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func newTestHandle(t *testing.T, content string, chunkSize int, cached bool) *Handle {
	t.Helper()
	return NewHandle(HandleConfig{
		Path:         writeWordlist(t, content),
		ChunkSize:    chunkSize,
		CacheEnabled: cached,
	})
}

func TestContainsLineExactMatch(t *testing.T) {
	for _, cached := range []bool{false, true} {
		name := "streaming"
		if cached {
			name = "cached"
		}
		t.Run(name, func(t *testing.T) {
			h := newTestHandle(t, "foo\nbar\nbaz", 4096, cached)

			tests := []struct {
				target string
				want   bool
			}{
				{target: "bar", want: true},
				{target: "foo", want: true},
				{target: "baz", want: true}, // final line, no trailing newline
				{target: "ba", want: false}, // no partial-line match
				{target: "ar", want: false},
				{target: "foo\nbar", want: false},
				{target: "", want: false},
			}
			for _, tt := range tests {
				got, err := ContainsLine(h, tt.target)
				if err != nil {
					t.Fatalf("target %q: %v", tt.target, err)
				}
				if got != tt.want {
					t.Fatalf("target %q: got %v want %v", tt.target, got, tt.want)
				}
			}
		})
	}
}

func TestContainsLineSingleLineDictionary(t *testing.T) {
	for _, cached := range []bool{false, true} {
		h := newTestHandle(t, "onlyword", 4096, cached)

		if got, err := ContainsLine(h, "onlyword"); err != nil || !got {
			t.Fatalf("cached=%v: expected match for onlyword, got %v err %v", cached, got, err)
		}
		if got, err := ContainsLine(h, "only"); err != nil || got {
			t.Fatalf("cached=%v: expected no match for prefix, got %v err %v", cached, got, err)
		}
		if got, err := ContainsLine(h, "word"); err != nil || got {
			t.Fatalf("cached=%v: expected no match for suffix, got %v err %v", cached, got, err)
		}
	}
}

func TestContainsLineNoDictionaryConfigured(t *testing.T) {
	h := NewHandle(HandleConfig{})
	got, err := ContainsLine(h, "anything")
	if err != nil {
		t.Fatalf("unconfigured handle must not error: %v", err)
	}
	if got {
		t.Fatal("unconfigured handle must report no match")
	}
}

func TestContainsLineEmptyFile(t *testing.T) {
	for _, cached := range []bool{false, true} {
		h := newTestHandle(t, "", 4096, cached)
		got, err := ContainsLine(h, "word")
		if err != nil {
			t.Fatalf("cached=%v: %v", cached, err)
		}
		if got {
			t.Fatalf("cached=%v: empty file must not match", cached)
		}
	}
}

func TestContainsLineMissingFile(t *testing.T) {
	h := NewHandle(HandleConfig{Path: "/definitely/not/here.txt", CacheEnabled: true})
	if _, err := ContainsLine(h, "word"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestContainsLinePageBoundaryStraddle(t *testing.T) {
	// Place "split" so that the page boundary at chunkSize falls inside
	// the word, for every boundary offset across the word.
	const chunk = 16
	for shift := range len("split") + 1 {
		padding := strings.Repeat("a", chunk-shift-1)
		content := padding + "\nsplit\nzzz\n"

		for _, cached := range []bool{false, true} {
			h := newTestHandle(t, content, chunk, cached)
			got, err := ContainsLine(h, "split")
			if err != nil {
				t.Fatalf("shift %d cached=%v: %v", shift, cached, err)
			}
			if !got {
				t.Fatalf("shift %d cached=%v: straddling line not found", shift, cached)
			}
			if got, _ := ContainsLine(h, "spl"); got {
				t.Fatalf("shift %d cached=%v: fragment must not match", shift, cached)
			}
		}
	}
}

func TestContainsLineLongDictionaryStreaming(t *testing.T) {
	var b strings.Builder
	for i := range 2000 {
		b.WriteString("word")
		b.WriteByte(byte('a' + i%26))
		b.WriteString("\n")
	}
	b.WriteString("needle\n")
	for range 500 {
		b.WriteString("filler\n")
	}

	h := newTestHandle(t, b.String(), 64, false)
	got, err := ContainsLine(h, "needle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Fatal("needle not found in streamed dictionary")
	}
	if got, _ := ContainsLine(h, "needl"); got {
		t.Fatal("prefix fragment must not match")
	}
}

func TestContainsLineMultiBytePages(t *testing.T) {
	content := "пароль\nпарольнаяフレーズ\nключ\n"
	for chunk := 4; chunk <= 12; chunk++ {
		h := newTestHandle(t, content, chunk, false)
		for _, target := range []string{"пароль", "ключ", "парольнаяフレーズ"} {
			got, err := ContainsLine(h, target)
			if err != nil {
				t.Fatalf("chunk %d target %q: %v", chunk, target, err)
			}
			if !got {
				t.Fatalf("chunk %d: target %q not found", chunk, target)
			}
		}
		if got, _ := ContainsLine(h, "паро"); got {
			t.Fatalf("chunk %d: fragment matched", chunk)
		}
	}
}
