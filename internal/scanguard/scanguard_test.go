package scanguard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryGuard_Claim(t *testing.T) {
	guard := NewMemoryGuard()
	ctx := context.Background()

	fp := Fingerprint("CARD-3", []string{"Multimeter:2", "Mallet:1"})

	first, err := guard.Claim(ctx, fp)
	assert.NoError(t, err)
	assert.True(t, first)

	second, err := guard.Claim(ctx, fp)
	assert.NoError(t, err)
	assert.False(t, second)
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	a := Fingerprint("CARD-3", []string{"Multimeter:2", "Mallet:1"})
	b := Fingerprint("CARD-3", []string{"Mallet:1", "Multimeter:2"})
	assert.Equal(t, a, b)
}

func TestFingerprint_DistinctCarts(t *testing.T) {
	a := Fingerprint("CARD-3", []string{"Multimeter:2"})
	b := Fingerprint("CARD-3", []string{"Multimeter:3"})
	c := Fingerprint("CARD-4", []string{"Multimeter:2"})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}
