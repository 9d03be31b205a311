package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword_HashAndVerify(t *testing.T) {
	t.Parallel()

	h, err := Password("Secret123")
	require.NoError(t, err)
	require.NotEmpty(t, h)
	assert.NotEqual(t, "Secret123", h)

	assert.True(t, Verify("Secret123", h))
	assert.False(t, Verify("Secret124", h))
}

func TestPassword_SaltedHashesDiffer(t *testing.T) {
	t.Parallel()

	h1, err := Password("Secret123")
	require.NoError(t, err)
	h2, err := Password("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, Verify("Secret123", h1))
	assert.True(t, Verify("Secret123", h2))
}

func TestVerify_MutatedHashFails(t *testing.T) {
	t.Parallel()

	h, err := Password("Secret123")
	require.NoError(t, err)

	mutated := []byte(h)
	mutated[len(mutated)-1] ^= 0x01
	assert.False(t, Verify("Secret123", string(mutated)))
}

func TestVerify_MalformedHashIsMismatchNotError(t *testing.T) {
	t.Parallel()

	assert.False(t, Verify("Secret123", ""))
	assert.False(t, Verify("Secret123", "not-a-bcrypt-hash"))
	assert.False(t, Verify("Secret123", "$2a$garbage"))
}

func TestPassword_LongSecretsUseFullInput(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 100)
	h, err := Password(long)
	require.NoError(t, err)

	assert.True(t, Verify(long, h))
	// Without pre-hashing, bcrypt would ignore everything past byte 72 and
	// this variant would wrongly verify.
	assert.False(t, Verify(strings.Repeat("a", 72)+strings.Repeat("b", 28), h))
}

func TestAnswer_Normalization(t *testing.T) {
	t.Parallel()

	h, err := Answer("fluffy")
	require.NoError(t, err)

	for _, answer := range []string{"fluffy", "Fluffy", " fluffy ", "FLUFFY", "\tFLUFFY\n"} {
		assert.True(t, VerifyAnswer(answer, h), "answer %q should verify", answer)
	}
	assert.False(t, VerifyAnswer("fluffy2", h))
}

func TestAnswer_NormalizedBeforeHashing(t *testing.T) {
	t.Parallel()

	h, err := Answer("  Honda Civic  ")
	require.NoError(t, err)

	assert.True(t, VerifyAnswer("honda civic", h))
	assert.True(t, VerifyAnswer("HONDA CIVIC", h))
}
