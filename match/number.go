package match

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Converter turns a numeric literal into a value. Errors wrapping
// strconv.ErrRange mean the literal is well formed but does not fit.
type Converter func(text string) (any, error)

// ParseInt converts decimal integers to int64.
func ParseInt(text string) (any, error) {
	return strconv.ParseInt(text, 10, 64)
}

// ParseFloat converts decimal floating point literals to float64.
func ParseFloat(text string) (any, error) {
	return strconv.ParseFloat(text, 64)
}

// ParseBigInt converts decimal integers of any size to *big.Int.
func ParseBigInt(text string) (any, error) {
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", text)
	}
	return n, nil
}

// numericPrefix accepts buffers that are not numbers yet but may become one.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d*)?([eE][+-]?\d*)?$`)

// Number grows greedily while the buffer converts. Once conversion fails for a
// reason other than overflow, the maximal valid prefix becomes the match.
func Number(convert Converter) Matcher {
	return func(buf string) Result {
		if buf == "" {
			return continuing()
		}
		// Some converters trim whitespace; a trailing space never belongs to a number.
		if !strings.HasSuffix(buf, " ") {
			v, err := convert(buf)
			if err == nil {
				return partial(len(buf), v)
			}
			if errors.Is(err, strconv.ErrRange) {
				return failed()
			}
			if numericPrefix.MatchString(buf) {
				return continuing()
			}
		}
		for text := trimLast(buf); text != ""; text = trimLast(text) {
			v, err := convert(text)
			if err == nil {
				return matched(len(text), v)
			}
			if errors.Is(err, strconv.ErrRange) {
				return failed()
			}
		}
		return failed()
	}
}

func trimLast(s string) string {
	_, w := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-w]
}
