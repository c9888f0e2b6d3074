package token

import (
	"strconv"
	"strings"
)

// Unquote decodes a Candid text literal including its surrounding quotes.
// Escapes: \n \r \t \\ \" \' , \hh (two hex digits forming one raw byte)
// and \u{hex}. Returns false when the literal is malformed.
func Unquote(raw string) (string, bool) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", false
	}
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body, true
	}

	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
			i++
		case 'r':
			sb.WriteByte('\r')
			i++
		case 't':
			sb.WriteByte('\t')
			i++
		case '\\', '"', '\'':
			sb.WriteByte(body[i])
			i++
		case 'u':
			i++
			if i >= len(body) || body[i] != '{' {
				return "", false
			}
			j := strings.IndexByte(body[i:], '}')
			if j < 2 {
				return "", false
			}
			v, err := strconv.ParseUint(body[i+1:i+j], 16, 32)
			if err != nil || v > 0x10FFFF {
				return "", false
			}
			sb.WriteRune(rune(v))
			i += j + 1
		default:
			if i+1 < len(body) && isHexByte(body[i]) && isHexByte(body[i+1]) {
				v, err := strconv.ParseUint(body[i:i+2], 16, 8)
				if err != nil {
					return "", false
				}
				sb.WriteByte(byte(v))
				i += 2
			} else {
				return "", false
			}
		}
	}
	return sb.String(), true
}

func isHexByte(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}
