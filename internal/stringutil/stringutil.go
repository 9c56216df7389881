package stringutil

// TrimOne removes at most one leading and at most one trailing c from s. Both ends are handled
// independently, so "/a/" gives "a", "/a" gives "a" and "//" gives "".
func TrimOne(s string, c byte) string {
	if len(s) > 0 && s[0] == c {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == c {
		s = s[:len(s)-1]
	}
	return s
}

// HasEmpty reports whether at least one element of fields is the empty string.
func HasEmpty(fields []string) bool {
	for _, f := range fields {
		if f == "" {
			return true
		}
	}
	return false
}

// IsSingleChar reports whether s is made of exactly one UTF-8 encoded character.
func IsSingleChar(s string) bool {
	if s == "" {
		return false
	}
	for i := range s {
		if i > 0 {
			return false
		}
	}
	return true
}
