package mime

// boyerMoore precomputes the bad-character and good-suffix shift tables
// for a fixed pattern (the boundary marker) and searches for it inside a
// byte window that grows as more input arrives. The boundary is treated as
// opaque 7-bit-indexed bytes per spec's bad-character table sizing; a
// pattern byte with the top bit set collides in the table with its
// low-7-bit twin, which only costs a slightly smaller shift, never an
// incorrect match (the direct byte comparison in search always decides
// correctness).
type boyerMoore struct {
	pattern    []byte
	badChar    [128]int
	goodSuffix []int
}

func newBoyerMoore(pattern []byte) *boyerMoore {
	bm := &boyerMoore{pattern: pattern}
	bm.buildBadChar()
	bm.buildGoodSuffix()
	return bm
}

func (bm *boyerMoore) buildBadChar() {
	m := len(bm.pattern)
	for i := range bm.badChar {
		bm.badChar[i] = m
	}
	for i := 0; i < m-1; i++ {
		bm.badChar[bm.pattern[i]&0x7f] = m - 1 - i
	}
}

func (bm *boyerMoore) buildGoodSuffix() {
	m := len(bm.pattern)
	bm.goodSuffix = make([]int, m)
	for i := range bm.goodSuffix {
		bm.goodSuffix[i] = m
	}

	suff := computeSuffixes(bm.pattern)

	j := 0
	for i := m - 1; i >= 0; i-- {
		if suff[i] == i+1 {
			for ; j < m-1-i; j++ {
				if bm.goodSuffix[j] == m {
					bm.goodSuffix[j] = m - 1 - i
				}
			}
		}
	}
	for i := 0; i <= m-2; i++ {
		bm.goodSuffix[m-1-suff[i]] = m - 1 - i
	}
}

// computeSuffixes returns, for each i, the length of the longest suffix of
// pattern[0:i+1] that is also a suffix of pattern itself.
func computeSuffixes(pattern []byte) []int {
	m := len(pattern)
	suff := make([]int, m)
	suff[m-1] = m
	g := m - 1
	f := 0
	for i := m - 2; i >= 0; i-- {
		if i > g && suff[i+m-1-f] < i-g {
			suff[i] = suff[i+m-1-f]
			continue
		}
		if i < g {
			g = i
		}
		f = i
		for g >= 0 && pattern[g] == pattern[g+m-1-f] {
			g--
		}
		suff[i] = f - g
	}
	return suff
}

// search returns the index of the first occurrence of the pattern in
// window at or after from, or -1 if the pattern does not occur.
func (bm *boyerMoore) search(window []byte, from int) int {
	m := len(bm.pattern)
	n := len(window)
	if m == 0 {
		return from
	}
	s := from
	for s <= n-m {
		j := m - 1
		for j >= 0 && bm.pattern[j] == window[s+j] {
			j--
		}
		if j < 0 {
			return s
		}
		bc := bm.badChar[window[s+j]&0x7f] - m + 1 + j
		gs := bm.goodSuffix[j]
		shift := bc
		if gs > shift {
			shift = gs
		}
		if shift < 1 {
			shift = 1
		}
		s += shift
	}
	return -1
}
