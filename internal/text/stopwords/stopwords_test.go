package stopwords

import (
	"testing"

	"github.com/kailas-cloud/contentrec/internal/domain/language"
)

func TestEnglish_ContainsCommonWords(t *testing.T) {
	s := English()
	for _, w := range []string{"the", "is", "at", "which", "on", "a", "an", "and", "or", "but", "in", "with", "to", "for", "of", "as", "by"} {
		if !s.Contains(w) {
			t.Errorf("English() missing %q", w)
		}
	}
}

func TestEnglish_ContainsStems(t *testing.T) {
	s := English()
	for _, w := range []string{"thi", "wa", "veri"} {
		if !s.Contains(w) {
			t.Errorf("English() missing stem %q", w)
		}
	}
}

func TestEnglish_KeepsContentWords(t *testing.T) {
	s := English()
	for _, w := range []string{"javascript", "machin", "learn", "python"} {
		if s.Contains(w) {
			t.Errorf("English() should not contain %q", w)
		}
	}
}

func TestJapanese(t *testing.T) {
	s := Japanese()
	if s.Len() != 16 {
		t.Errorf("Len() = %d, want 16", s.Len())
	}
	if !s.Contains("から") || s.Contains("技術") {
		t.Error("unexpected Japanese membership")
	}
}

func TestWith_DoesNotMutate(t *testing.T) {
	base := Japanese()
	ext := base.With("テスト")
	if base.Contains("テスト") {
		t.Error("With mutated the receiver")
	}
	if !ext.Contains("テスト") || !ext.Contains("は") {
		t.Error("With lost members")
	}
}

func TestFor(t *testing.T) {
	if For(language.English).Len() == 0 || For(language.Japanese).Len() == 0 {
		t.Error("known languages must have stopwords")
	}
	if For("xx").Len() != 0 {
		t.Error("unknown language must yield an empty set")
	}
}
