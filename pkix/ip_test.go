package pkix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIPv4Address(t *testing.T) {
	cases := []struct {
		in   string
		want [4]byte
		ok   bool
	}{
		{"192.0.2.1", [4]byte{192, 0, 2, 1}, true},
		{"0.0.0.0", [4]byte{0, 0, 0, 0}, true},
		{"255.255.255.255", [4]byte{255, 255, 255, 255}, true},
		{"01.2.3.4", [4]byte{}, false},  // leading zero
		{"256.0.0.1", [4]byte{}, false}, // component too large
		{"1.2.3", [4]byte{}, false},     // too few components
		{"1.2.3.4.5", [4]byte{}, false}, // too many components
		{"1.2.3.4 ", [4]byte{}, false},  // trailing garbage
		{"::1", [4]byte{}, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, ok := ParseIPv4Address(input(t, c.in))
			assert.Equal(t, c.ok, ok)
			if ok {
				assert.Equal(t, c.want, got)
			}
		})
	}
}

func TestParseIPv6Address(t *testing.T) {
	cases := []struct {
		in   string
		want [16]byte
		ok   bool
	}{
		{"::1", [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, true},
		{"::", [16]byte{}, false}, // bare all-zero contraction is rejected
		{"2001:db8::1", [16]byte{0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, true},
		{"0:0:0:0:0:0:0:1", [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, true},
		{"::ffff:192.0.2.1", [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 192, 0, 2, 1}, true},
		{"1:2:3:4:5:6:7:8:9", [16]byte{}, false}, // too many components
		{"1::2::3", [16]byte{}, false},           // two contractions
		{"gggg::1", [16]byte{}, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, ok := ParseIPv6Address(input(t, c.in))
			assert.Equal(t, c.ok, ok)
			if ok {
				assert.Equal(t, c.want, got)
			}
		})
	}
}

func TestMatchPresentedIPAddressWithConstraint(t *testing.T) {
	// 192.0.2.0/24
	constraint := mustInput(t, []byte{192, 0, 2, 0, 255, 255, 255, 0})

	match, err := MatchPresentedIPAddressWithConstraint(mustInput(t, []byte{192, 0, 2, 1}), constraint)
	assert.NoError(t, err)
	assert.True(t, match)

	match, err = MatchPresentedIPAddressWithConstraint(mustInput(t, []byte{192, 0, 3, 1}), constraint)
	assert.NoError(t, err)
	assert.False(t, match)

	// An IPv4 address never matches an IPv6 constraint.
	v6constraint := mustInput(t, make([]byte, 32))
	match, err = MatchPresentedIPAddressWithConstraint(mustInput(t, []byte{192, 0, 2, 1}), v6constraint)
	assert.NoError(t, err)
	assert.False(t, match)
}

func TestMaskCorrectness(t *testing.T) {
	address := []byte{192, 0, 2, 0}
	prefix := 24
	mask := prefixMask(prefix)
	constraint := mustInput(t, append(append([]byte{}, address...), mask...))

	match, err := MatchPresentedIPAddressWithConstraint(mustInput(t, address), constraint)
	assert.NoError(t, err)
	assert.True(t, match)

	// Flip the last bit inside the prefix.
	flipped := append([]byte{}, address...)
	flipped[(prefix-1)/8] ^= 1 << (7 - (prefix-1)%8)
	match, err = MatchPresentedIPAddressWithConstraint(mustInput(t, flipped), constraint)
	assert.NoError(t, err)
	assert.False(t, match)
}

func prefixMask(n int) []byte {
	mask := make([]byte, 4)
	for i := 0; i < n; i++ {
		mask[i/8] |= 1 << (7 - i%8)
	}
	return mask
}
