// Package dbfile is C6: the binary reference-database format. It is
// grounded on _examples/original_source/src/data/reference.cpp
// (ReferenceHeader/ReferenceHeader2, push_seq's offset arithmetic,
// Pos_record) and on the teacher's own db.go/coarse.go for the Go-side
// two-phase build/read pattern (create the output, stream records,
// finish with a header rewrite).
package dbfile

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"

	"github.com/ndaniels/swipe"
)

// DBVersion is bumped whenever the on-disk layout changes incompatibly.
const DBVersion = 3

// MinBuild is the oldest builder version this reader accepts.
const MinBuild = 1

const magicNumber uint64 = 0x24af8a415ee186dc

// ReferenceHeader is the fixed-size primary header, written first and
// rewritten once more after the sequence/position blocks are known, the
// same two-pass approach reference.cpp uses (write a zeroed header,
// stream records, seek back and rewrite it with final counts).
type ReferenceHeader struct {
	MagicNumber    uint64
	Build          uint32
	DBVersion      uint32
	Sequences      uint64
	Letters        uint64
	PosArrayOffset uint64
}

func (h *ReferenceHeader) write(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, h)
}

func (h *ReferenceHeader) read(r io.Reader) error {
	return binary.Read(r, binary.LittleEndian, h)
}

// ReferenceHeader2 is the variable secondary header: a 128-bit content
// hash (murmur3, grounded on spaolacci/murmur3 the way
// grailbio-bio/pileup/snp/firstread.go uses it for read identity) plus
// the optional taxonomy trailer offsets. Swipe doesn't implement
// taxonomy lookup but keeps
// the fields so the file format round-trips losslessly with a real
// DIAMOND-style database.
type ReferenceHeader2 struct {
	Hash              [16]byte
	TaxonArrayOffset  uint64
	TaxonArraySize    uint64
	TaxonNodesOffset  uint64
	TaxonNamesOffset  uint64
}

func (h *ReferenceHeader2) write(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, h)
}

func (h *ReferenceHeader2) read(r io.Reader) error {
	return binary.Read(r, binary.LittleEndian, h)
}

// posRecord is one entry in the position table: the byte offset of a
// sequence's framed record and its residue length, mirroring
// reference.cpp's Pos_record. The table ends with a terminator entry
// whose Len is 0 and whose Pos is the byte just past the last record;
// Open stops reading the table at that entry.
type posRecord struct {
	Pos uint64
	Len uint32
}

const recordDelimiter = 0xff

// Builder streams a FASTA-shaped stream of (id, residues) pairs into
// the on-disk format, computing the running content hash as it goes
// (push_seq's offset bookkeeping, reproduced exactly: each record is
// framed as 0xFF, residues, 0xFF, id, 0x00, and `offset` advances by
// len(residues)+len(id)+3 between records -- the same arithmetic both
// the writer here and the reader's seek_seq/read_seq must agree on).
type Builder struct {
	out        *os.File
	hash       murmur3.Hash128
	posArray   []posRecord
	offset     uint64
	nSeqs      uint64
	nLetters   uint64
}

// NewBuilder opens path for writing and reserves space for the header,
// to be filled in by Finish.
func NewBuilder(path string) (*Builder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "dbfile: create")
	}
	var zero ReferenceHeader
	var zero2 ReferenceHeader2
	if err := zero.write(f); err != nil {
		return nil, errors.Wrap(err, "dbfile: write placeholder header")
	}
	if err := zero2.write(f); err != nil {
		return nil, errors.Wrap(err, "dbfile: write placeholder header2")
	}
	return &Builder{out: f, hash: murmur3.New128()}, nil
}

// PushSeq writes one framed sequence record and its Pos_record entry,
// exactly reproducing push_seq's byte layout and offset increment.
func (b *Builder) PushSeq(id string, residues []byte) error {
	b.posArray = append(b.posArray, posRecord{Pos: b.offset, Len: uint32(len(residues))})

	frame := make([]byte, 0, len(residues)+len(id)+3)
	frame = append(frame, recordDelimiter)
	frame = append(frame, residues...)
	frame = append(frame, recordDelimiter)
	frame = append(frame, []byte(id)...)
	frame = append(frame, 0)

	if _, err := b.out.Write(frame); err != nil {
		return errors.Wrap(err, "dbfile: write record")
	}
	b.hash.Write(frame)

	b.nLetters += uint64(len(residues))
	b.nSeqs++
	b.offset += uint64(len(residues) + len(id) + 3)
	return nil
}

// Finish writes the position table (terminated by a zero-length
// record), then seeks back and rewrites both headers with final
// counts and the accumulated content hash.
func (b *Builder) Finish(build uint32) error {
	posArrayOffset, err := b.out.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "dbfile: tell")
	}
	for _, p := range b.posArray {
		if err := binary.Write(b.out, binary.LittleEndian, p); err != nil {
			return errors.Wrap(err, "dbfile: write pos record")
		}
	}
	if err := binary.Write(b.out, binary.LittleEndian, posRecord{Pos: b.offset}); err != nil {
		return errors.Wrap(err, "dbfile: write pos terminator")
	}

	header := ReferenceHeader{
		MagicNumber:    magicNumber,
		Build:          build,
		DBVersion:      DBVersion,
		Sequences:      b.nSeqs,
		Letters:        b.nLetters,
		PosArrayOffset: uint64(posArrayOffset),
	}
	var header2 ReferenceHeader2
	h1, h2 := b.hash.Sum128()
	binary.LittleEndian.PutUint64(header2.Hash[:8], h1)
	binary.LittleEndian.PutUint64(header2.Hash[8:], h2)

	if _, err := b.out.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "dbfile: seek header")
	}
	if err := header.write(b.out); err != nil {
		return errors.Wrap(err, "dbfile: rewrite header")
	}
	if err := header2.write(b.out); err != nil {
		return errors.Wrap(err, "dbfile: rewrite header2")
	}
	return b.out.Close()
}

// Reader opens a built database for random-access sequence lookup.
type Reader struct {
	f        *os.File
	Header   ReferenceHeader
	Header2  ReferenceHeader2
	posArray []posRecord
	cursor   int // database index the next LoadBlock/ReadSeq(cursor) call resumes from
}

// Open reads both headers and the full position table eagerly -- the
// position table is tiny relative to the sequence blob it indexes.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "dbfile: open")
	}
	r := &Reader{f: f}
	if err := r.Header.read(f); err != nil {
		return nil, errors.Wrap(err, "dbfile: read header")
	}
	if r.Header.MagicNumber != magicNumber {
		return nil, errors.New("dbfile: not a swipe reference database")
	}
	if r.Header.Build < MinBuild {
		return nil, errors.New("dbfile: database built with an incompatible version")
	}
	if r.Header.Sequences == 0 {
		return nil, errors.New("dbfile: incomplete database")
	}
	if err := r.Header2.read(f); err != nil {
		return nil, errors.Wrap(err, "dbfile: read header2")
	}
	if _, err := f.Seek(int64(r.Header.PosArrayOffset), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "dbfile: seek pos array")
	}
	for {
		var p posRecord
		if err := binary.Read(f, binary.LittleEndian, &p); err != nil {
			return nil, errors.Wrap(err, "dbfile: read pos record")
		}
		if p.Len == 0 {
			break
		}
		r.posArray = append(r.posArray, p)
	}
	return r, nil
}

// Len returns the number of sequences in the database.
func (r *Reader) Len() int { return len(r.posArray) }

// SeekSeq seeks the underlying file to the start of sequence i's framed
// record (the leading 0xFF) and sets the position cursor to i, mirroring
// DatabaseFile::seek_seq.
func (r *Reader) SeekSeq(i int) error {
	_, err := r.f.Seek(int64(r.posArray[i].Pos), io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "dbfile: seek seq")
	}
	r.cursor = i
	return nil
}

// TellSeq returns the current position cursor, mirroring
// DatabaseFile::tell_seq.
func (r *Reader) TellSeq() int { return r.cursor }

// ReadSeq reads sequence i's residues (without the framing delimiters
// or trailing id), mirroring DatabaseFile::read_seq.
func (r *Reader) ReadSeq(i int) ([]swipe.Letter, string, error) {
	if err := r.SeekSeq(i); err != nil {
		return nil, "", err
	}
	length := int(r.posArray[i].Len)
	buf := make([]byte, length+2)
	if _, err := io.ReadFull(r.f, buf); err != nil {
		return nil, "", errors.Wrap(err, "dbfile: read residues")
	}
	if buf[0] != recordDelimiter || buf[len(buf)-1] != recordDelimiter {
		return nil, "", errors.New("dbfile: corrupt sequence frame")
	}
	residues := make([]swipe.Letter, length)
	for i, b := range buf[1 : length+1] {
		residues[i] = swipe.Letter(b)
	}

	var idBuf []byte
	for {
		var b [1]byte
		if _, err := io.ReadFull(r.f, b[:]); err != nil {
			return nil, "", errors.Wrap(err, "dbfile: read id")
		}
		if b[0] == 0 {
			break
		}
		idBuf = append(idBuf, b[0])
	}
	return residues, string(idBuf), nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error { return r.f.Close() }

// Block is the in-memory working set for one pass over the database
// (§3 "Block"): a SequenceSet, its parallel identifier strings, a
// block-index -> database-index mapping, and whether this pass covered
// the whole database in one load.
type Block struct {
	Seqs              *swipe.SequenceSet
	Ids               []string
	BlockToDB         []int
	BlockedProcessing bool
}

// Len returns the number of sequences loaded into the block.
func (b *Block) Len() int { return b.Seqs.Len() }

// LoadBlock walks the position table forward from the current cursor,
// selecting sequences (subject to filter, if non-nil -- filter(dbIndex)
// returning false skips that sequence entirely) until the next
// selection would push the running letter count over maxLetters, then
// reserves a single SequenceSet, seeks to each selected sequence's
// stored offset and reads its residues and id directly into place,
// mirroring reference.cpp's two-pass "reserve, then fill" block loader
// (§4.6 "Block load"). At least one sequence is always admitted
// regardless of maxLetters, so a single oversized sequence still makes
// progress instead of spinning forever. Returns ok == false only when
// no sequences were selected (cursor already at the end of the
// filtered database).
func (r *Reader) LoadBlock(maxLetters uint64, filter func(dbIndex int) bool) (block *Block, ok bool, err error) {
	n := len(r.posArray)
	startCursor := r.cursor

	type selection struct {
		dbIndex int
		length  int
	}
	var selected []selection
	var letters uint64

	i := r.cursor
	for i < n {
		length := int(r.posArray[i].Len)
		if filter != nil && !filter(i) {
			i++
			continue
		}
		if len(selected) > 0 && letters+uint64(length) > maxLetters {
			break
		}
		selected = append(selected, selection{dbIndex: i, length: length})
		letters += uint64(length)
		i++
	}
	r.cursor = i

	if len(selected) == 0 {
		return nil, false, nil
	}

	seqs := swipe.NewSequenceSet()
	for _, s := range selected {
		seqs.Reserve(s.length)
	}
	seqs.FinishReserve()

	ids := make([]string, len(selected))
	blockToDB := make([]int, len(selected))
	for idx, s := range selected {
		if err := r.SeekSeq(s.dbIndex); err != nil {
			return nil, false, err
		}
		buf := make([]byte, s.length+2)
		if _, err := io.ReadFull(r.f, buf); err != nil {
			return nil, false, errors.Wrap(err, "dbfile: read block residues")
		}
		if buf[0] != recordDelimiter || buf[len(buf)-1] != recordDelimiter {
			return nil, false, errors.New("dbfile: corrupt sequence frame")
		}
		dst := seqs.Ptr(idx)
		for j, b := range buf[1 : s.length+1] {
			dst[j] = swipe.Letter(b)
		}

		var idBuf []byte
		for {
			var b [1]byte
			if _, err := io.ReadFull(r.f, b[:]); err != nil {
				return nil, false, errors.Wrap(err, "dbfile: read block id")
			}
			if b[0] == 0 {
				break
			}
			idBuf = append(idBuf, b[0])
		}
		ids[idx] = string(idBuf)
		blockToDB[idx] = s.dbIndex
	}
	r.cursor = i

	return &Block{
		Seqs:              seqs,
		Ids:               ids,
		BlockToDB:         blockToDB,
		BlockedProcessing: startCursor != 0 || r.cursor < n,
	}, true, nil
}
