package match

import "strings"

// Terminal matches a fixed literal.
func Terminal(literal string) Matcher {
	return func(buf string) Result {
		if buf == literal {
			return matched(len(buf), literal)
		}
		if strings.HasPrefix(literal, buf) {
			return continuing()
		}
		// A previous step saw the whole literal; anything after it is excess.
		if strings.HasPrefix(buf, literal) {
			return matched(len(literal), literal)
		}
		return failed()
	}
}

// Enum matches the longest of a set of literals.
func Enum(options []string) Matcher {
	return func(buf string) Result {
		exact := false
		longer := false
		best := -1
		for i, opt := range options {
			switch {
			case opt == buf:
				exact = true
				best = i
			case strings.HasPrefix(opt, buf):
				longer = true
			case strings.HasPrefix(buf, opt):
				if best < 0 || len(opt) > len(options[best]) {
					best = i
				}
			}
		}
		switch {
		case exact && longer:
			return partial(len(buf), buf)
		case exact:
			return matched(len(buf), buf)
		case longer:
			return continuing()
		case best >= 0:
			return matched(len(options[best]), options[best])
		}
		return failed()
	}
}

// Null matches the empty string and yields no value.
func Null(string) Result {
	return matched(0, nil)
}
