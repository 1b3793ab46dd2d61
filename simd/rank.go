package simd

// commonBytes lists printable ASCII bytes from most to least frequent in
// mixed English text and source code.
const commonBytes = " etaoinsrhldcu\n.,mfpgwy_=b()v\"-'k0/1:x;*2{}<>[]3j5q4z9867@#$!|+&%?~^`\\\t"

// byteRanks maps a byte to its frequency rank: 255 for the most common
// byte, lower for rarer ones. Bytes outside commonBytes (control bytes and
// UTF-8 lead and continuation bytes) rank lowest.
var byteRanks = func() [256]byte {
	var ranks [256]byte
	for b := range ranks {
		ranks[b] = 1
	}
	for i := 0; i < len(commonBytes); i++ {
		ranks[commonBytes[i]] = byte(255 - 2*i)
	}
	for b := 'A'; b <= 'Z'; b++ {
		// Upper case trails its lower-case counterpart.
		ranks[b] = ranks[b+'a'-'A'] / 2
	}
	return ranks
}()

// ByteRank returns the frequency rank of b. Lower values are rarer and make
// better search candidates.
func ByteRank(b byte) byte {
	return byteRanks[b]
}

// RareBytes are the two rarest distinct bytes of a needle and their
// offsets in it.
type RareBytes struct {
	Byte1  byte
	Index1 int
	Byte2  byte
	Index2 int
}

// SelectRareBytes picks the two rarest bytes of needle. For needles with a
// single distinct byte both entries describe the same byte.
func SelectRareBytes(needle []byte) RareBytes {
	if len(needle) == 0 {
		return RareBytes{}
	}
	r := RareBytes{Byte1: needle[0], Byte2: needle[0]}
	for i := 1; i < len(needle); i++ {
		b := needle[i]
		switch {
		case ByteRank(b) < ByteRank(r.Byte1):
			if b != r.Byte1 {
				r.Byte2, r.Index2 = r.Byte1, r.Index1
			}
			r.Byte1, r.Index1 = b, i
		case b != r.Byte1 && (r.Byte2 == r.Byte1 || ByteRank(b) < ByteRank(r.Byte2)):
			r.Byte2, r.Index2 = b, i
		}
	}
	return r
}
