package routing

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/vyrodovalexey/routematch/internal/util"
)

// addressMatcher holds a normalized CIDR-style client address constraint.
// IPv4 constraints use a single 32-bit word; IPv6 constraints use four, with
// the prefix length split so that word i keeps min(max(prefixLen-32*i, 0), 32)
// significant bits.
type addressMatcher struct {
	v4    bool
	words [4]uint32
	bits  [4]uint8
}

// parseAddressMatcher normalizes an "addr" or "addr/prefixLen" constraint.
func parseAddressMatcher(s string) (*addressMatcher, error) {
	addrPart := s
	plenPart := ""
	if i := strings.IndexByte(s, '/'); i >= 0 {
		addrPart, plenPart = s[:i], s[i+1:]
	}

	ip, err := netip.ParseAddr(addrPart)
	if err != nil {
		return nil, util.NewAddressParseError(s, "not an IPv4 or IPv6 literal")
	}

	m := &addressMatcher{v4: ip.Is4()}

	maxLen := 128
	if m.v4 {
		maxLen = 32
	}
	plen := maxLen
	if plenPart != "" {
		plen, err = strconv.Atoi(plenPart)
		if err != nil || plen < 0 || plen > maxLen {
			return nil, util.NewAddressParseError(s, fmt.Sprintf("prefix length must be 0..%d", maxLen))
		}
	}

	if m.v4 {
		b := ip.As4()
		m.words[0] = binary.BigEndian.Uint32(b[:])
		m.bits[0] = uint8(plen)
		return m, nil
	}

	b := ip.As16()
	for i := 0; i < 4; i++ {
		m.words[i] = binary.BigEndian.Uint32(b[i*4 : i*4+4])
		m.bits[i] = clampBits(plen - 32*i)
	}
	return m, nil
}

func clampBits(n int) uint8 {
	if n < 0 {
		return 0
	}
	if n > 32 {
		return 32
	}
	return uint8(n)
}

// matches reports whether the query address falls within the constraint.
// Family mismatches and unparsable query addresses are non-matches, never
// errors.
func (m *addressMatcher) matches(addr string) bool {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return false
	}

	if m.v4 {
		if !ip.Is4() {
			return false
		}
		b := ip.As4()
		return wordMatches(binary.BigEndian.Uint32(b[:]), m.words[0], m.bits[0])
	}

	if ip.Is4() {
		return false
	}
	b := ip.As16()
	for i := 0; i < 4; i++ {
		if !wordMatches(binary.BigEndian.Uint32(b[i*4:i*4+4]), m.words[i], m.bits[i]) {
			return false
		}
	}
	return true
}

// wordMatches compares the top bits significant bits of two words. A zero
// width always matches.
func wordMatches(query, stored uint32, bits uint8) bool {
	if bits == 0 {
		return true
	}
	shift := 32 - bits
	return query>>shift == stored>>shift
}
