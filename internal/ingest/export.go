package ingest

import (
	"io"

	"github.com/jinzhepro/jd-bill-filter/internal/bill"
	"github.com/jinzhepro/jd-bill-filter/internal/settlement"
)

var mergedHeaders = []string{"商品名称", "商品编号", "单价", "商品数量", "总价"}

var settlementHeaders = []string{"商品编号", "应结金额", "数量", "直营服务费", "净结金额"}

// WriteMergedXLSX exports order-pipeline output as a workbook.
func WriteMergedXLSX(w io.Writer, lines []bill.MergedLine) error {
	rows := make([][]interface{}, len(lines))
	for i, l := range lines {
		rows[i] = []interface{}{
			l.ProductName,
			l.ProductCode,
			bill.FormatMoney(l.UnitPrice),
			l.Quantity.String(),
			bill.FormatMoney(l.TotalPrice.Decimal),
		}
	}
	return writeXLSX(w, mergedHeaders, rows)
}

// WriteMergedCSV exports order-pipeline output as CSV.
func WriteMergedCSV(w io.Writer, lines []bill.MergedLine) error {
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = []string{
			l.ProductName,
			l.ProductCode,
			bill.FormatMoney(l.UnitPrice),
			l.Quantity.String(),
			bill.FormatMoney(l.TotalPrice.Decimal),
		}
	}
	return writeCSV(w, mergedHeaders, rows)
}

// WriteSettlementXLSX exports settlement-pipeline output as a workbook.
func WriteSettlementXLSX(w io.Writer, lines []settlement.Line) error {
	rows := make([][]interface{}, len(lines))
	for i, l := range lines {
		rows[i] = []interface{}{
			l.ProductCode,
			bill.FormatMoney(l.SettledAmount),
			settlementQuantity(l),
			bill.FormatMoney(l.DirectOperationFee),
			bill.FormatMoney(l.NetAmount),
		}
	}
	return writeXLSX(w, settlementHeaders, rows)
}

// WriteSettlementCSV exports settlement-pipeline output as CSV.
func WriteSettlementCSV(w io.Writer, lines []settlement.Line) error {
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = []string{
			l.ProductCode,
			bill.FormatMoney(l.SettledAmount),
			settlementQuantity(l),
			bill.FormatMoney(l.DirectOperationFee),
			bill.FormatMoney(l.NetAmount),
		}
	}
	return writeCSV(w, settlementHeaders, rows)
}

func settlementQuantity(l settlement.Line) string {
	if !l.Quantity.Valid {
		return ""
	}
	return l.Quantity.Decimal.String()
}
