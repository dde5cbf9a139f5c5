package database

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gzip "github.com/klauspost/pgzip"

	"github.com/nsearch-go/nsearch/alphabet"
	"github.com/nsearch-go/nsearch/seqcore"
)

// MainVersion and MinorVersion tag the on-disk index format.
const (
	MainVersion  int64 = 0
	MinorVersion int64 = 1
)

var magic = [8]byte{'.', 'n', 's', 'd', 'b', 'i', 'd', 'x'}

var be = binary.BigEndian

// ErrInvalidFileFormat means the magic number did not match.
var ErrInvalidFileFormat = errors.New("database: invalid file format")

// ErrAlphabetMismatch means the file's alphabet does not match the one
// requested at Load time.
var ErrAlphabetMismatch = errors.New("database: alphabet mismatch")

// Save writes the index to w, gzip-compressed, preceded by a header
// carrying the format version, alphabet name, window size and sequence
// count.
func (d *Database) Save(w io.Writer) error {
	gw := gzip.NewWriter(w)
	defer gw.Close()

	if err := binary.Write(gw, be, magic); err != nil {
		return err
	}
	meta := [3]int64{MainVersion, MinorVersion, int64(d.Window)}
	if err := binary.Write(gw, be, meta); err != nil {
		return err
	}
	if err := writeString(gw, d.Alphabet.Name()); err != nil {
		return err
	}
	if err := binary.Write(gw, be, int64(len(d.Seqs))); err != nil {
		return err
	}
	for _, seq := range d.Seqs {
		if err := writeString(gw, seq.Identifier); err != nil {
			return err
		}
		if err := writeString(gw, seq.Symbols); err != nil {
			return err
		}
	}

	if err := writeIntSlice(gw, d.kmerOffsetBySeq); err != nil {
		return err
	}
	if err := writeIntSlice(gw, d.kmerCountBySeq); err != nil {
		return err
	}
	if err := writeUint32Slice(gw, d.kmersFlat); err != nil {
		return err
	}

	if err := writeIntSlice(gw, d.seqidOffsetByKmer); err != nil {
		return err
	}
	if err := writeIntSlice(gw, d.seqidCountByKmer); err != nil {
		return err
	}
	if err := writeInt32Slice(gw, d.seqidsFlat); err != nil {
		return err
	}

	return gw.Close()
}

// Load reads an index previously written by Save. a must be the same
// alphabet used when the index was built.
func Load(r io.Reader, a alphabet.Alphabet) (*Database, error) {
	br := bufio.NewReader(r)
	gr, err := gzip.NewReader(br)
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	var m [8]byte
	if err := binary.Read(gr, be, &m); err != nil {
		return nil, err
	}
	if m != magic {
		return nil, ErrInvalidFileFormat
	}

	var meta [3]int64
	if err := binary.Read(gr, be, &meta); err != nil {
		return nil, err
	}
	window := int(meta[2])

	name, err := readString(gr)
	if err != nil {
		return nil, err
	}
	if name != a.Name() {
		return nil, ErrAlphabetMismatch
	}

	var n int64
	if err := binary.Read(gr, be, &n); err != nil {
		return nil, err
	}
	seqs := make([]seqcore.Sequence, n)
	for i := range seqs {
		id, err := readString(gr)
		if err != nil {
			return nil, err
		}
		symbols, err := readString(gr)
		if err != nil {
			return nil, err
		}
		seqs[i] = seqcore.New(id, symbols)
	}

	d := &Database{
		Alphabet:   a,
		Window:     window,
		Seqs:       seqs,
		numBuckets: uniqueCount(window, a),
	}

	if d.kmerOffsetBySeq, err = readIntSlice(gr); err != nil {
		return nil, err
	}
	if d.kmerCountBySeq, err = readIntSlice(gr); err != nil {
		return nil, err
	}
	if d.kmersFlat, err = readUint32Slice(gr); err != nil {
		return nil, err
	}

	if d.seqidOffsetByKmer, err = readIntSlice(gr); err != nil {
		return nil, err
	}
	if d.seqidCountByKmer, err = readIntSlice(gr); err != nil {
		return nil, err
	}
	if d.seqidsFlat, err = readInt32Slice(gr); err != nil {
		return nil, err
	}

	return d, nil
}

func writeString(w io.Writer, s string) error {
	if err := writeVarint(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readVarint(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// writeIntSlice encodes vals two consecutive elements at a time with the
// group-varint pair codec (the first element in its offset slot, the
// second in its count slot); a trailing unpaired element is written with
// a 0 in the count slot.
func writeIntSlice(w io.Writer, vals []int) error {
	if err := writeVarint(w, uint64(len(vals))); err != nil {
		return err
	}
	buf := make([]byte, 16)
	for i := 0; i < len(vals); i += 2 {
		offset := vals[i]
		var count int
		if i+1 < len(vals) {
			count = vals[i+1]
		}
		ctrl, n := encodeOffsetCountPair(buf, offset, count)
		if _, err := w.Write([]byte{ctrl}); err != nil {
			return err
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return err
		}
	}
	return nil
}

func readIntSlice(r io.Reader) ([]int, error) {
	count, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]int, count)
	buf := make([]byte, 16)
	for i := 0; i < int(count); i += 2 {
		var ctrl [1]byte
		if _, err := io.ReadFull(r, ctrl[:]); err != nil {
			return nil, err
		}
		widths := pairWidths[ctrl[0]]
		total := int(widths[0]) + int(widths[1])
		if _, err := io.ReadFull(r, buf[:total]); err != nil {
			return nil, err
		}
		offset, cnt, n := decodeOffsetCountPair(ctrl[0], buf[:total])
		if n == 0 {
			return nil, fmt.Errorf("database: corrupt group-varint stream")
		}
		out[i] = offset
		if i+1 < int(count) {
			out[i+1] = cnt
		}
	}
	return out, nil
}

func writeUint32Slice(w io.Writer, vals []uint32) error {
	if err := writeVarint(w, uint64(len(vals))); err != nil {
		return err
	}
	for _, v := range vals {
		if err := writeVarint(w, uint64(v)); err != nil {
			return err
		}
	}
	return nil
}

func readUint32Slice(r io.Reader) ([]uint32, error) {
	count, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := range out {
		v, err := readVarint(r)
		if err != nil {
			return nil, err
		}
		out[i] = uint32(v)
	}
	return out, nil
}

func writeInt32Slice(w io.Writer, vals []int32) error {
	if err := writeVarint(w, uint64(len(vals))); err != nil {
		return err
	}
	for _, v := range vals {
		if err := writeVarint(w, uint64(v)); err != nil {
			return err
		}
	}
	return nil
}

func readInt32Slice(r io.Reader) ([]int32, error) {
	count, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]int32, count)
	for i := range out {
		v, err := readVarint(r)
		if err != nil {
			return nil, err
		}
		out[i] = int32(v)
	}
	return out, nil
}
