package catalog

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/structscan/scanner"
)

func TestCompare(t *testing.T) {
	before, err := scanner.Parse(`
#[e(code = "A")] pub struct Kept { pub x: String }
#[e(code = "B")] pub struct Edited { pub x: String }
#[e(code = "C")] pub struct Dropped {}
`)
	assert.NoError(t, err)

	after, err := scanner.Parse(`
#[e(code = "N")] pub struct Fresh {}
#[e(code = "A")] pub struct Kept { pub x: String }
#[e(code = "B")] pub struct Edited { pub x: u64 }
#[e(code = "N2")] pub struct Fresh {}
`)
	assert.NoError(t, err)

	diff := Compare(before, after)
	assert.Equal(t, Diff{
		Added:   []string{"Fresh"},
		Removed: []string{"Dropped"},
		Changed: []string{"Edited"},
	}, diff)
	assert.False(t, diff.Empty())

	assert.True(t, Compare(after, after).Empty())
	assert.True(t, Compare(nil, nil).Empty())
}
