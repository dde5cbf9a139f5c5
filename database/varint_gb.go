// Copyright © 2018 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package database

// The index's two inverted lists (kmer -> sequence-id run,
// sequence-id -> k-mer run) are each stored as parallel offset/count
// slices into a flat array. Their values are always non-negative and
// usually small, so each such slice is group-varint encoded two
// consecutive elements at a time: one control byte selects each value's
// byte width (1-8 bytes), followed by the two values themselves.

var byteOffsets = []uint8{56, 48, 40, 32, 24, 16, 8, 0}

// encodeOffsetCountPair packs offset and count into buf, returning the
// control byte (bits 3-5: offset's width-1, low 3 bits: count's
// width-1) and the number of bytes written.
func encodeOffsetCountPair(buf []byte, offset, count int) (ctrl byte, n int) {
	ow := widthOf(uint64(offset))
	ctrl |= byte(ow - 1)
	for _, shift := range byteOffsets[8-ow:] {
		buf[n] = byte((uint64(offset) >> shift) & 0xff)
		n++
	}

	ctrl <<= 3
	cw := widthOf(uint64(count))
	ctrl |= byte(cw - 1)
	for _, shift := range byteOffsets[8-cw:] {
		buf[n] = byte((uint64(count) >> shift) & 0xff)
		n++
	}
	return
}

// decodeOffsetCountPair reverses encodeOffsetCountPair given its control
// byte and the bytes that followed it.
func decodeOffsetCountPair(ctrl byte, buf []byte) (offset, count int, n int) {
	widths := pairWidths[ctrl]
	if len(buf) < int(widths[0]+widths[1]) {
		return 0, 0, 0
	}

	var offsetVal, countVal uint64
	for j := uint8(0); j < widths[0]; j++ {
		offsetVal <<= 8
		offsetVal |= uint64(buf[n])
		n++
	}
	for j := uint8(0); j < widths[1]; j++ {
		countVal <<= 8
		countVal |= uint64(buf[n])
		n++
	}
	return int(offsetVal), int(countVal), n
}

// widthOf returns how many bytes it takes to hold n, 1-8.
func widthOf(n uint64) uint8 {
	switch {
	case n < 1<<8:
		return 1
	case n < 1<<16:
		return 2
	case n < 1<<24:
		return 3
	case n < 1<<32:
		return 4
	case n < 1<<40:
		return 5
	case n < 1<<48:
		return 6
	case n < 1<<56:
		return 7
	default:
		return 8
	}
}

// pairWidths maps a control byte to the (offset width, count width) it
// encodes, indexed by the 6-bit ctrl value produced by encodeOffsetCountPair.
var pairWidths = [64][2]uint8{
	{1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 5}, {1, 6}, {1, 7}, {1, 8},
	{2, 1}, {2, 2}, {2, 3}, {2, 4}, {2, 5}, {2, 6}, {2, 7}, {2, 8},
	{3, 1}, {3, 2}, {3, 3}, {3, 4}, {3, 5}, {3, 6}, {3, 7}, {3, 8},
	{4, 1}, {4, 2}, {4, 3}, {4, 4}, {4, 5}, {4, 6}, {4, 7}, {4, 8},
	{5, 1}, {5, 2}, {5, 3}, {5, 4}, {5, 5}, {5, 6}, {5, 7}, {5, 8},
	{6, 1}, {6, 2}, {6, 3}, {6, 4}, {6, 5}, {6, 6}, {6, 7}, {6, 8},
	{7, 1}, {7, 2}, {7, 3}, {7, 4}, {7, 5}, {7, 6}, {7, 7}, {7, 8},
	{8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5}, {8, 6}, {8, 7}, {8, 8},
}
