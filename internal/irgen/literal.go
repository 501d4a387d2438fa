package irgen

import "github.com/rustlite/ricc/internal/compilererr"

// parseIntLiteralText mirrors the semantic analyzer's constant-folding
// integer parse (0x prefix, `_` digit separators) for literals that appear
// in ordinary, non-constant-folded expression position.
func parseIntLiteralText(text string) (int64, error) {
	var val int64
	if len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		for _, r := range text[2:] {
			if r == '_' {
				continue
			}
			val = val*16 + int64(hexDigitValue(r))
		}
		return val, nil
	}
	for _, r := range text {
		if r == '_' {
			continue
		}
		if r < '0' || r > '9' {
			return 0, compilererr.NewInternalError("irgen: malformed integer literal %q", text)
		}
		val = val*10 + int64(r-'0')
	}
	return val, nil
}

// decodeEscapes resolves the lexer's pass-through backslash escapes (\n,
// \t, \r, \\, \", \', \0) into their actual runtime bytes.
func decodeEscapes(text string) (string, error) {
	runes := []rune(text)
	var sb []rune
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			sb = append(sb, r)
			continue
		}
		i++
		if i >= len(runes) {
			return "", compilererr.NewInternalError("irgen: dangling escape in literal %q", text)
		}
		switch runes[i] {
		case 'n':
			sb = append(sb, '\n')
		case 't':
			sb = append(sb, '\t')
		case 'r':
			sb = append(sb, '\r')
		case '\\':
			sb = append(sb, '\\')
		case '"':
			sb = append(sb, '"')
		case '\'':
			sb = append(sb, '\'')
		case '0':
			sb = append(sb, 0)
		default:
			return "", compilererr.NewInternalError("irgen: unknown escape \\%c in literal %q", runes[i], text)
		}
	}
	return string(sb), nil
}

func hexDigitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return 0
}
