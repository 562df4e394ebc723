package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableRejectsMisalignedColumns(t *testing.T) {
	_, err := NewTable(Ints("id", 1, 2), Strings("room_type", "Private room"))
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = NewTable(Ints("id", 1), Ints("id", 2))
	require.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestCloneIsIndependent(t *testing.T) {
	src := MustTable(Ints("id", 1, 2))
	cp := src.Clone()
	col, _ := cp.Column("id")
	col.Values[0] = Int(99)

	orig, _ := src.Column("id")
	assert.Equal(t, int64(1), orig.Values[0].I)
}

func TestSelectDropRename(t *testing.T) {
	tbl := MustTable(Ints("id", 1, 2), Strings("room_type", "a", "b"), Floats("beds", 1, 2))

	sel, err := tbl.Select("beds", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"beds", "id"}, sel.Names())

	_, err = tbl.Select("missing")
	assert.ErrorIs(t, err, ErrMissingColumn)

	assert.Equal(t, []string{"id", "beds"}, tbl.Drop("room_type", "nope").Names())

	ren, err := tbl.Rename("id", "listing_id")
	require.NoError(t, err)
	assert.Equal(t, []string{"listing_id", "room_type", "beds"}, ren.Names())
	assert.True(t, tbl.Has("id"), "rename must not touch the source")
}

func TestDropNullKeepsOrder(t *testing.T) {
	price := NewColumn("price_float", TypeFloat, []Value{Float(10), Null(), Float(30)})
	tbl := MustTable(Ints("id", 1, 2, 3), price)

	out, err := tbl.DropNull("price_float")
	require.NoError(t, err)
	ids, _ := out.Column("id")
	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, int64(1), ids.Values[0].I)
	assert.Equal(t, int64(3), ids.Values[1].I)
}

func TestValueKeyMatchesAcrossTypes(t *testing.T) {
	a, _ := Int(7).Key(TypeInt)
	b, _ := Float(7).Key(TypeFloat)
	c, _ := Str(" 7").Key(TypeString)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)

	_, ok := Null().Key(TypeInt)
	assert.False(t, ok)
}

func TestGroupBySkipsNullsAndSorts(t *testing.T) {
	key := NewColumn("listing_id", TypeInt, []Value{Int(3), Int(1), Null(), Int(3)})
	tbl := MustTable(key)

	groups, err := tbl.GroupBy("listing_id")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, int64(1), groups[0].Key.I)
	assert.Equal(t, []int{1}, groups[0].Rows)
	assert.Equal(t, int64(3), groups[1].Key.I)
	assert.Equal(t, []int{0, 3}, groups[1].Rows)
}

func TestLeftJoinKeepsEveryLeftRow(t *testing.T) {
	left := MustTable(Ints("id", 1, 2, 3), Strings("room_type", "a", "b", "c"))
	right := MustTable(Ints("listing_id", 3, 1), Floats("booking_rate", 0.3, 0.1))

	out, err := LeftJoin(left, "id", right, "listing_id", "_cal")
	require.NoError(t, err)
	assert.Equal(t, 3, out.NumRows())
	assert.Equal(t, []string{"id", "room_type", "listing_id", "booking_rate"}, out.Names())

	rate, _ := out.Column("booking_rate")
	assert.Equal(t, 0.1, rate.Values[0].F)
	assert.True(t, rate.Values[1].Null)
	assert.Equal(t, 0.3, rate.Values[2].F)
}

func TestLeftJoinSuffixesCollisionsAndMergesSameKey(t *testing.T) {
	left := MustTable(Ints("listing_id", 1, 2), Ints("reviews_count", 9, 9))
	right := MustTable(Ints("listing_id", 2), Ints("reviews_count", 4))

	out, err := LeftJoin(left, "listing_id", right, "listing_id", "_rv")
	require.NoError(t, err)
	assert.Equal(t, []string{"listing_id", "reviews_count", "reviews_count_rv"}, out.Names())
}

func TestLeftJoinRejectsDuplicateRightKeys(t *testing.T) {
	left := MustTable(Ints("id", 1))
	right := MustTable(Ints("listing_id", 1, 1))

	_, err := LeftJoin(left, "id", right, "listing_id", "_cal")
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestRowCountSurvivesDroppingEveryColumn(t *testing.T) {
	tbl := MustTable(Ints("id", 1, 2, 3))

	bare := tbl.Drop("id")
	assert.Equal(t, 0, bare.NumCols())
	assert.Equal(t, 3, bare.NumRows())
	assert.Equal(t, 2, bare.Take([]int{2, 0}).NumRows())

	sel, err := tbl.Select()
	require.NoError(t, err)
	assert.Equal(t, 3, sel.NumRows())
}

func TestEmptyTableWithRowsChecksLength(t *testing.T) {
	tbl := EmptyTableWithRows(2)

	assert.ErrorIs(t, tbl.Set(Ints("id", 1)), ErrLengthMismatch)
	require.NoError(t, tbl.Set(Ints("id", 1, 2)))
	assert.Equal(t, 2, tbl.NumRows())
}
