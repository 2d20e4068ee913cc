package measurement

import (
	"crypto/md5"
	"math/big"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	clientIDDigits = 9
	maxNonce       = 2147483647
)

var nineDigitModulus = big.NewInt(1_000_000_000)

// Rand is the source the per-hit nonce is drawn from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Int64N(n int64) int64
}

// globalRand draws from the math/rand/v2 top-level generator, which is safe
// for concurrent use.
type globalRand struct{}

func (globalRand) Int64N(n int64) int64 {
	return rand.Int64N(n)
}

// DeriveClientID forges a collector client id from an opaque visitor id.
// Version 4 UUIDs become "{9 digits}.{firstSeen}"; anything else is returned
// unchanged.
func DeriveClientID(visitorID string, firstSeen int64) string {
	if !isUUIDv4(visitorID) {
		return visitorID
	}
	return HashToNineDigits(visitorID) + "." + strconv.FormatInt(firstSeen, 10)
}

// HashToNineDigits reduces the md5 digest of id modulo 10^9 and left-pads the
// decimal result with '1' to exactly nine characters.
func HashToNineDigits(id string) string {
	sum := md5.Sum([]byte(id))

	n := new(big.Int).SetBytes(sum[:])
	n.Mod(n, nineDigitModulus)

	digits := n.String()
	if len(digits) < clientIDDigits {
		digits = strings.Repeat("1", clientIDDigits-len(digits)) + digits
	}
	return digits
}

// RandomNonce returns a decimal integer in [0, 2147483647] drawn from r
func RandomNonce(r Rand) string {
	return strconv.FormatInt(r.Int64N(maxNonce+1), 10)
}

func isUUIDv4(s string) bool {
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == 4
}
