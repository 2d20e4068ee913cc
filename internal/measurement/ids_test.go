package measurement

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHashToNineDigits_Fixtures(t *testing.T) {
	assert.Equal(t, "151760947", HashToNineDigits("00000000-0000-0000-0000-000000000000"))
	assert.Equal(t, "108670052", HashToNineDigits("be9f76b3-2c50-4d12-b14c-85c343745691"))
}

func TestHashToNineDigits_AlwaysNineDigits(t *testing.T) {
	inputs := []string{
		"",
		"invalid-uuid",
		"abc",
		uuid.NewString(),
		uuid.NewString(),
		"00000000-0000-0000-0000-000000000000",
	}

	for _, input := range inputs {
		result := HashToNineDigits(input)
		assert.Len(t, result, 9, "input %q", input)
		for _, c := range result {
			assert.True(t, c >= '0' && c <= '9', "non digit in %q", result)
		}
	}
}

func TestHashToNineDigits_Deterministic(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, HashToNineDigits(id), HashToNineDigits(id))
}

func TestDeriveClientID_UUIDv4(t *testing.T) {
	clientID := DeriveClientID(testVisitorUUID, 1723475000)

	assert.Equal(t, "108670052.1723475000", clientID)
	assert.Equal(t, clientID, DeriveClientID(testVisitorUUID, 1723475000), "same visitor must get the same client id")
	assert.NotEqual(t, clientID, DeriveClientID(testVisitorUUID, 1723475001))
}

func TestDeriveClientID_NonUUIDPassesThrough(t *testing.T) {
	assert.Equal(t, "abc", DeriveClientID("abc", 123))
	assert.Equal(t, "1234567.89", DeriveClientID("1234567.89", 123))
	assert.Equal(t, "", DeriveClientID("", 123))
}

func TestDeriveClientID_OtherUUIDVersionsPassThrough(t *testing.T) {
	v1 := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	assert.Equal(t, v1, DeriveClientID(v1, 123))
}

func TestRandomNonce_InRange(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 1000; i++ {
		nonce := RandomNonce(r)
		assert.NotEmpty(t, nonce)

		n, err := strconv.ParseInt(nonce, 10, 64)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(0))
		assert.LessOrEqual(t, n, int64(2147483647))
	}
}

type fixedRand int64

func (f fixedRand) Int64N(n int64) int64 {
	return int64(f) % n
}

func TestRandomNonce_UsesInjectedSource(t *testing.T) {
	assert.Equal(t, "42", RandomNonce(fixedRand(42)))
	assert.Equal(t, "2147483647", RandomNonce(fixedRand(2147483647)))
}

func TestRandomNonce_GlobalSourceConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := strconv.ParseUint(RandomNonce(globalRand{}), 10, 31)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
