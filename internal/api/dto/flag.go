package dto

const regionalIndicatorA = 0x1F1E6

// FlagEmoji turns a two-letter ISO 3166 code into its flag, a pair of regional
// indicator symbols. Anything else yields nil.
func FlagEmoji(iso *string) *string {
	if iso == nil || len(*iso) != 2 {
		return nil
	}

	flag := make([]rune, 0, 2)
	for i := 0; i < 2; i++ {
		c := (*iso)[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			return nil
		}
		flag = append(flag, rune(regionalIndicatorA+int(c-'A')))
	}

	out := string(flag)
	return &out
}
