package bill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeProductCode(t *testing.T) {
	cases := map[string]string{
		`="10200796175741"`: "10200796175741",
		"10200796175741":    "10200796175741",
		` ="abc" `:          "abc",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeProductCode(in), "input %q", in)
	}
}

func TestParseDocumentType_UnknownFallback(t *testing.T) {
	assert.Equal(t, DocOrder, ParseDocumentType("订单"))
	assert.Equal(t, DocCancelRefund, ParseDocumentType(" 取消退款 "))
	assert.Equal(t, DocAfterSales, ParseDocumentType("售后服务单"))
	assert.Equal(t, DocNonSales, ParseDocumentType("非销售内容"))
	assert.Equal(t, DocUnknown, ParseDocumentType("全新单据"))
}

func TestParseFeeCategory_UnknownFallback(t *testing.T) {
	assert.Equal(t, FeeGoodsPayment, ParseFeeCategory("货款"))
	assert.Equal(t, FeeDirectService, ParseFeeCategory("直营服务费"))
	assert.Equal(t, FeeDeliveryRecovery, ParseFeeCategory("集约送货回收服务费"))
	assert.Equal(t, FeeAfterSalesComp, ParseFeeCategory("售后商家赔付款"))
	assert.Equal(t, FeeUnknown, ParseFeeCategory("运费"))
}

func TestSafeDiv_ZeroDenominator(t *testing.T) {
	assert.True(t, SafeDiv(dec("10"), dec("0")).IsZero())
	assert.True(t, SafeDiv(dec("105"), dec("2")).Equal(dec("52.5")))
}

func TestFormatMoney_TwoPlacesAtBoundary(t *testing.T) {
	assert.Equal(t, "52.50", FormatMoney(dec("52.5")))
	assert.Equal(t, "0.33", FormatMoney(dec("1").Div(dec("3")).Round(2)))
	assert.Equal(t, "-20.00", FormatMoney(dec("-20")))
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("1,234.56")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1234.56")))

	got, err = ParseAmount("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseAmount("abc")
	assert.Error(t, err)
}

func TestParseQuantity_EmptyIsNull(t *testing.T) {
	got, err := ParseQuantity("")
	require.NoError(t, err)
	assert.False(t, got.Valid)

	got, err = ParseQuantity("0")
	require.NoError(t, err)
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.IsZero())
}
