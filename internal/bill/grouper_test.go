package bill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGroupByOrder_PreservesFirstSeenOrder(t *testing.T) {
	lines := []BillLine{
		line("B", DocOrder, FeeGoodsPayment, "1", "p1", "1", "10"),
		line("A", DocOrder, FeeGoodsPayment, "2", "p2", "1", "20"),
		line("B", DocOrder, FeeDirectService, "1", "p1", "1", "-1"),
		line("C", DocOrder, FeeGoodsPayment, "3", "p3", "1", "30"),
	}

	groups := GroupByOrder(zap.NewNop(), lines)

	assert.Equal(t, []string{"B", "A", "C"}, groups.Keys())
	b, ok := groups.Get("B")
	require.True(t, ok)
	require.Len(t, b, 2)
	assert.Equal(t, FeeGoodsPayment, b[0].FeeCategory)
	assert.Equal(t, FeeDirectService, b[1].FeeCategory)
}

func TestGroupByOrder_SkipsEmptyOrderNumber(t *testing.T) {
	lines := []BillLine{
		line("", DocOrder, FeeGoodsPayment, "1", "p1", "1", "10"),
		line("A", DocOrder, FeeGoodsPayment, "2", "p2", "1", "20"),
	}

	groups := GroupByOrder(zap.NewNop(), lines)

	assert.Equal(t, 1, groups.Len())
	_, ok := groups.Get("")
	assert.False(t, ok)
}

func TestGroupByProduct_NormalizesCodes(t *testing.T) {
	lines := []BillLine{
		line("A", DocOrder, FeeGoodsPayment, `="100"`, "p1", "1", "10"),
		line("B", DocOrder, FeeGoodsPayment, "100", "p1", "1", "20"),
	}

	groups := GroupByProduct(zap.NewNop(), lines)

	assert.Equal(t, []string{"100"}, groups.Keys())
	g, _ := groups.Get("100")
	assert.Len(t, g, 2)
}
