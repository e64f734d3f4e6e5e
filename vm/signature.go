package vm

import "strings"

// Signature is a parsed function type such as "(ii)f": parameter type
// codes in order and the result type code. Type codes are
//
//	i int    f float   b boolean   s string
//	a any    o object  v void (result only)
//	[x       array of x
type Signature struct {
	Params []string
	Result string
}

// ParseSignature parses and validates an encoded function type.
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	if !strings.HasPrefix(s, "(") {
		return sig, newError(SignatureMismatch, "malformed signature %q", s)
	}
	rest := s[1:]
	for {
		if rest == "" {
			return sig, newError(SignatureMismatch, "malformed signature %q", s)
		}
		if rest[0] == ')' {
			rest = rest[1:]
			break
		}
		t, n := parseTypeCode(rest, false)
		if n == 0 {
			return sig, newError(SignatureMismatch, "bad parameter type in %q", s)
		}
		sig.Params = append(sig.Params, t)
		rest = rest[n:]
	}
	t, n := parseTypeCode(rest, true)
	if n == 0 || n != len(rest) {
		return sig, newError(SignatureMismatch, "bad result type in %q", s)
	}
	sig.Result = t
	return sig, nil
}

func parseTypeCode(s string, result bool) (string, int) {
	i := 0
	for i < len(s) && s[i] == '[' {
		i++
	}
	if i >= len(s) {
		return "", 0
	}
	switch s[i] {
	case 'i', 'f', 'b', 's', 'a', 'o':
	case 'v':
		if !result || i > 0 {
			return "", 0
		}
	default:
		return "", 0
	}
	return s[:i+1], i + 1
}

func (s Signature) String() string {
	return "(" + strings.Join(s.Params, "") + ")" + s.Result
}
