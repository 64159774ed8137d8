package file_test

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ftt/internal/repo/store/file"
)

func TestFingerprint_Known(t *testing.T) {
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		file.Fingerprint([]byte("hello")))
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		file.Fingerprint(nil))
}

func TestFingerprintReader_MatchesFingerprint(t *testing.T) {
	data := bytes.Repeat([]byte("abc"), 10000)
	fp, n, err := file.FingerprintReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, file.Fingerprint(data), fp)
}

func TestIsFingerprint(t *testing.T) {
	assert.True(t, file.IsFingerprint(file.Fingerprint([]byte("x"))))
	assert.False(t, file.IsFingerprint("abc"))
	assert.False(t, file.IsFingerprint(".tmp-123"))
	assert.False(t, file.IsFingerprint("2CF24DBA5FB0A30E26E83B2AC5B9E29E1B161E5C1FA7425E73043362938B9824"))
}

func TestFingerprint_Properties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("deterministic and content-only", prop.ForAll(
		func(s string) bool {
			a := file.Fingerprint([]byte(s))
			b := file.Fingerprint(append([]byte(nil), s...))
			return a == b && file.IsFingerprint(a)
		},
		gen.AnyString(),
	))

	properties.Property("streaming equals in-memory", prop.ForAll(
		func(s string) bool {
			fp, n, err := file.FingerprintReader(bytes.NewReader([]byte(s)))
			return err == nil && n == int64(len(s)) && fp == file.Fingerprint([]byte(s))
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
