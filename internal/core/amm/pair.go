// Package amm holds the pure pricing math of the constant-product
// market maker: pair validation, quoting, and the invariant checks
// every reserve change must pass.
package amm

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// PairSeparator joins the base and quote symbols of a token pair.
// It is not a legal symbol character, so splitting is unambiguous.
const PairSeparator = ":"

var (
	ErrInvalidPair   = errors.New("invalid token pair")
	ErrInvalidSymbol = errors.New("invalid token symbol")
)

// Symbols are 1 to 10 uppercase alphanumerics; a dot is allowed for
// bridged-asset names such as SWAP.HIVE.
var symbolRE = regexp.MustCompile(`^[A-Z0-9.]{1,10}$`)

// ValidSymbol reports whether s is a well-formed token symbol.
func ValidSymbol(s string) bool {
	return symbolRE.MatchString(s)
}

// SplitPair parses a BASE:QUOTE pair into its two symbols. Both must
// be well-formed and distinct.
func SplitPair(pair string) (base, quote string, err error) {
	parts := strings.Split(pair, PairSeparator)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q is not BASE%sQUOTE", ErrInvalidPair, pair, PairSeparator)
	}
	base, quote = parts[0], parts[1]
	if !ValidSymbol(base) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSymbol, base)
	}
	if !ValidSymbol(quote) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSymbol, quote)
	}
	if base == quote {
		return "", "", fmt.Errorf("%w: base and quote are both %q", ErrInvalidPair, base)
	}
	return base, quote, nil
}

// ReversePair returns the pair with base and quote swapped.
func ReversePair(pair string) (string, error) {
	base, quote, err := SplitPair(pair)
	if err != nil {
		return "", err
	}
	return quote + PairSeparator + base, nil
}
