package dbfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAndReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.swipedb")

	b, err := NewBuilder(path)
	require.NoError(t, err)

	seqs := []struct {
		id       string
		residues []byte
	}{
		{"seq1", []byte{1, 2, 3, 4}},
		{"seq2", []byte{5, 6}},
		{"seq3", []byte{7, 8, 9}},
	}
	for _, s := range seqs {
		require.NoError(t, b.PushSeq(s.id, s.residues))
	}
	require.NoError(t, b.Finish(1))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, len(seqs), r.Len())
	assert.EqualValues(t, len(seqs), r.Header.Sequences)
	assert.EqualValues(t, 9, r.Header.Letters)

	for i, want := range seqs {
		residues, id, err := r.ReadSeq(i)
		require.NoError(t, err)
		assert.Equal(t, want.id, id)
		require.Len(t, residues, len(want.residues))
		for j, res := range residues {
			assert.Equal(t, want.residues[j], byte(res))
		}
	}
}

func TestOpenRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-db.bin")
	require.NoError(t, writeJunk(path))

	_, err := Open(path)
	assert.Error(t, err, "expected Open to reject a file without the magic number")
}

// TestLoadBlockPartition is spec.md's S3 scenario: 10 sequences of 100
// residues each, loaded in budget-300-letter blocks, should partition
// into 3+3+3+1 with blocked_processing true on every load except a
// hypothetical single-block run over the whole database.
func TestLoadBlockPartition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partition.swipedb")

	b, err := NewBuilder(path)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		residues := make([]byte, 100)
		for j := range residues {
			residues[j] = byte('A' + (i+j)%20)
		}
		require.NoError(t, b.PushSeq(string(rune('a'+i)), residues))
	}
	require.NoError(t, b.Finish(1))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	wantCounts := []int{3, 3, 3, 1}
	var gotCounts []int
	seen := map[int]bool{}
	for {
		block, ok, err := r.LoadBlock(300, nil)
		require.NoError(t, err)
		if !ok {
			break
		}
		gotCounts = append(gotCounts, block.Len())
		assert.True(t, block.BlockedProcessing)
		for _, dbIdx := range block.BlockToDB {
			assert.False(t, seen[dbIdx], "sequence %d loaded twice", dbIdx)
			seen[dbIdx] = true
		}
	}
	assert.Equal(t, wantCounts, gotCounts)
	assert.Len(t, seen, 10)
}

// TestLoadBlockSingleBlock covers property 4: a budget exceeding the
// total letter count returns every sequence in one load, with
// blocked_processing false.
func TestLoadBlockSingleBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.swipedb")

	b, err := NewBuilder(path)
	require.NoError(t, err)
	require.NoError(t, b.PushSeq("a", []byte{1, 2, 3}))
	require.NoError(t, b.PushSeq("b", []byte{4, 5}))
	require.NoError(t, b.Finish(1))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	block, ok, err := r.LoadBlock(1<<20, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, block.Len())
	assert.False(t, block.BlockedProcessing)

	_, ok, err = r.LoadBlock(1<<20, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestLoadBlockFilter covers the optional inclusion-filter path: only
// even database indices are admitted.
func TestLoadBlockFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtered.swipedb")

	b, err := NewBuilder(path)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		require.NoError(t, b.PushSeq(string(rune('a'+i)), []byte{byte(i), byte(i + 1)}))
	}
	require.NoError(t, b.Finish(1))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	evenOnly := func(dbIndex int) bool { return dbIndex%2 == 0 }
	block, ok, err := r.LoadBlock(1<<20, evenOnly)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, block.Len())
	assert.Equal(t, []int{0, 2, 4}, block.BlockToDB)

	for i, id := range block.Ids {
		assert.Equal(t, string(rune('a'+block.BlockToDB[i])), id)
	}
}

func writeJunk(path string) error {
	b, err := NewBuilder(path)
	if err != nil {
		return err
	}
	// Close without Finish: header stays zeroed, magic number never written.
	return b.out.Close()
}
