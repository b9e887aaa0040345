package builders

import "strings"

// FormField is one decoded key/value pair from an
// application/x-www-form-urlencoded body, in the order it appeared.
type FormField struct {
	Key, Value string
}

// ParseForm splits body into '&'-separated "key=value" pairs and
// percent-decodes both sides, per §6. A pair missing '=' is treated as an
// empty value. '+' is left literal rather than decoded to space (see the
// Open Question resolutions in DESIGN.md).
func ParseForm(body []byte) []FormField {
	if len(body) == 0 {
		return nil
	}

	pairs := strings.Split(string(body), "&")
	fields := make([]FormField, 0, len(pairs))
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		fields = append(fields, FormField{
			Key:   percentDecode(key),
			Value: percentDecode(value),
		})
	}
	return fields
}

// percentDecode replaces "%HH" with the byte of hex value HH; any other
// byte, including '+', passes through unchanged.
func percentDecode(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if hi, ok := hexDigit(s[i+1]); ok {
				if lo, ok := hexDigit(s[i+2]); ok {
					b.WriteByte(byte(hi<<4 | lo))
					i += 2
					continue
				}
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func hexDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}
