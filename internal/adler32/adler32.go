// Package adler32 computes the RFC 1950 Adler-32 checksum carried in the
// zlib trailer.
package adler32

import (
	"encoding/binary"
	"hash"
)

// Size is the length of a serialized checksum, in bytes.
const Size = 4

const modulus = 65521

// nmax is the largest n such that 255n(n+1)/2 + (n+1)(modulus-1) fits in
// 32 bits, i.e. how many bytes may be summed before reducing.
const nmax = 5552

// Update returns the checksum of the bytes summarized by sum followed by p.
func Update(sum uint32, p []byte) uint32 {
	s1, s2 := sum&0xffff, sum>>16
	for len(p) > 0 {
		chunk := p
		if len(chunk) > nmax {
			chunk = chunk[:nmax]
		}
		p = p[len(chunk):]

		for len(chunk) >= 4 {
			s1 += uint32(chunk[0])
			s2 += s1
			s1 += uint32(chunk[1])
			s2 += s1
			s1 += uint32(chunk[2])
			s2 += s1
			s1 += uint32(chunk[3])
			s2 += s1
			chunk = chunk[4:]
		}
		for _, ch := range chunk {
			s1 += uint32(ch)
			s2 += s1
		}
		s1 %= modulus
		s2 %= modulus
	}
	return (s2 << 16) | s1
}

// Checksum returns the Adler-32 checksum of p.
func Checksum(p []byte) uint32 {
	return Update(1, p)
}

// Digest is a running Adler-32 checksum.  The zero value is NOT ready to use;
// call Reset or use New.
type Digest struct {
	sum uint32
}

// New returns a Digest of the empty string.
func New() *Digest {
	return &Digest{sum: 1}
}

func (d *Digest) Size() int      { return Size }
func (d *Digest) BlockSize() int { return 4 }

// Reset returns d to the checksum of the empty string.
func (d *Digest) Reset() {
	d.sum = 1
}

func (d *Digest) Write(p []byte) (int, error) {
	d.sum = Update(d.sum, p)
	return len(p), nil
}

// WriteByte adds a single byte to the checksum.
func (d *Digest) WriteByte(ch byte) error {
	s1, s2 := d.sum&0xffff, d.sum>>16
	s1 = (s1 + uint32(ch)) % modulus
	s2 = (s2 + s1) % modulus
	d.sum = (s2 << 16) | s1
	return nil
}

func (d *Digest) Sum(slice []byte) []byte {
	var tmp [Size]byte
	binary.BigEndian.PutUint32(tmp[:], d.sum)
	return append(slice, tmp[:]...)
}

func (d *Digest) Sum32() uint32 {
	return d.sum
}

// High returns the half of the checksum that is transmitted first.
func (d *Digest) High() uint16 {
	return uint16(d.sum >> 16)
}

// Low returns the half of the checksum that is transmitted last.
func (d *Digest) Low() uint16 {
	return uint16(d.sum)
}

var _ hash.Hash32 = (*Digest)(nil)
