package dto

import "testing"

func TestFlagEmoji(t *testing.T) {
	str := func(s string) *string { return &s }

	cases := []struct {
		name string
		in   *string
		want *string
	}{
		{"us", str("US"), str("\U0001F1FA\U0001F1F8")},
		{"lowercase", str("de"), str("\U0001F1E9\U0001F1EA")},
		{"first and last letters", str("AZ"), str("\U0001F1E6\U0001F1FF")},
		{"nil", nil, nil},
		{"empty", str(""), nil},
		{"one letter", str("U"), nil},
		{"three letters", str("USA"), nil},
		{"digits", str("12"), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FlagEmoji(tc.in)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("FlagEmoji returned %q, want nil", *got)
			case tc.want != nil && got == nil:
				t.Fatalf("FlagEmoji returned nil, want %q", *tc.want)
			case tc.want != nil && *got != *tc.want:
				t.Fatalf("FlagEmoji returned %q, want %q", *got, *tc.want)
			}
		})
	}
}

func TestFlagEmojiIsTwoCodepoints(t *testing.T) {
	iso := "US"
	flag := FlagEmoji(&iso)
	if flag == nil {
		t.Fatal("FlagEmoji returned nil")
	}
	runes := []rune(*flag)
	if len(runes) != 2 || runes[0] != 0x1F1FA || runes[1] != 0x1F1F8 {
		t.Fatalf("unexpected codepoints %U", runes)
	}
}
