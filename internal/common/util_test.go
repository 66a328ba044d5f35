package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	for _, n := range []int{0, 1, 16, 32} {
		t.Run(fmt.Sprintf("size=%d", n), func(t *testing.T) {
			s, err := MakeRandHexString(n)
			require.NoError(t, err)
			assert.Len(t, s, n*2)

			_, err = hex.DecodeString(s)
			assert.NoError(t, err)
		})
	}
}

func TestMakeRandHexString_Distinct(t *testing.T) {
	a, err := MakeRandHexString(32)
	require.NoError(t, err)
	b, err := MakeRandHexString(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(24)
	b := GenerateRandByteArray(24)

	require.Len(t, a, 24)
	require.Len(t, b, 24)
	assert.NotEqual(t, a, b)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("pw123")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, 5), buf)

	WipeByteArray(nil)
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	tokenErrs := []error{ErrInvalidToken, ErrTokenMalformed, ErrInvalidSignature, ErrTokenExpired}
	for _, err := range tokenErrs {
		assert.False(t, errors.Is(err, ErrorUnauthorized), "%v must not alias unauthorized", err)
	}

	wrapped := fmt.Errorf("db error: %w", ErrDuplicateUsername)
	assert.ErrorIs(t, wrapped, ErrDuplicateUsername)
}
