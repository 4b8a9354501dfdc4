// Package bill implements the deterministic bill reconciliation pipeline for
// marketplace order exports: grouping, business-rule filtering, after-sales
// netting, non-sales absorption and SKU merging.
package bill

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one raw export row keyed by column header.
type Record map[string]string

// Column headers of the order export.
const (
	ColOrderNumber  = "订单编号"
	ColDocumentType = "单据类型"
	ColFeeCategory  = "费用项"
	ColProductCode  = "商品编号"
	ColProductName  = "商品名称"
	ColQuantity     = "商品数量"
	ColAmount       = "金额"
)

// RequiredColumns are the headers every order-export batch must carry.
var RequiredColumns = []string{
	ColOrderNumber,
	ColDocumentType,
	ColFeeCategory,
	ColProductCode,
	ColProductName,
	ColQuantity,
	ColAmount,
}

// DocumentType is the business classification of a bill line.
type DocumentType string

const (
	DocOrder        DocumentType = "order"
	DocCancelRefund DocumentType = "cancel-refund"
	DocAfterSales   DocumentType = "after-sales-service"
	DocNonSales     DocumentType = "non-sales"
	DocUnknown      DocumentType = "unknown"
)

// ParseDocumentType maps a raw export value to its closed document type.
// Unrecognised values become DocUnknown and match no filtering rule.
func ParseDocumentType(raw string) DocumentType {
	switch strings.TrimSpace(raw) {
	case "订单", string(DocOrder):
		return DocOrder
	case "取消退款", string(DocCancelRefund):
		return DocCancelRefund
	case "售后服务单", string(DocAfterSales):
		return DocAfterSales
	case "非销售内容", string(DocNonSales):
		return DocNonSales
	default:
		return DocUnknown
	}
}

// FeeCategory is the sub-classification of the monetary value on a line.
type FeeCategory string

const (
	FeeGoodsPayment     FeeCategory = "goods-payment"
	FeeDirectService    FeeCategory = "direct-operation-service-fee"
	FeeDeliveryRecovery FeeCategory = "consolidated-delivery-recovery-fee"
	FeeAfterSalesComp   FeeCategory = "after-sales-seller-compensation"
	FeeUnknown          FeeCategory = "unknown"
)

// ParseFeeCategory maps a raw export value to its closed fee category.
func ParseFeeCategory(raw string) FeeCategory {
	switch strings.TrimSpace(raw) {
	case "货款", string(FeeGoodsPayment):
		return FeeGoodsPayment
	case "直营服务费", string(FeeDirectService):
		return FeeDirectService
	case "集约送货回收服务费", string(FeeDeliveryRecovery):
		return FeeDeliveryRecovery
	case "售后商家赔付款", string(FeeAfterSalesComp):
		return FeeAfterSalesComp
	default:
		return FeeUnknown
	}
}

// BillLine is one parsed export row. Pipeline stages never mutate a BillLine
// in place; every stage returns fresh copies.
type BillLine struct {
	OrderNumber  string
	DocumentType DocumentType
	FeeCategory  FeeCategory
	ProductCode  string
	ProductName  string
	Quantity     decimal.NullDecimal
	Amount       decimal.Decimal
}

// MergedLine is one row of the order-pipeline output, at most one per
// distinct product code. JSON field names follow the export contract.
type MergedLine struct {
	ProductName string              `json:"商品名称"`
	ProductCode string              `json:"商品编号"`
	UnitPrice   decimal.Decimal     `json:"单价"`
	Quantity    decimal.Decimal     `json:"商品数量"`
	TotalPrice  decimal.NullDecimal `json:"总价"`
}

// NormalizeProductCode strips the ="..." wrapper Excel exports put around
// numeric codes, plus stray quotes and whitespace.
func NormalizeProductCode(code string) string {
	s := strings.TrimSpace(code)
	if strings.HasPrefix(s, "=") {
		s = strings.TrimPrefix(s, "=")
		s = strings.Trim(s, "\"")
	}
	return strings.TrimSpace(s)
}
