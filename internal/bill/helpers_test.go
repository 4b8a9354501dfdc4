package bill

import (
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func qty(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func line(order string, dt DocumentType, fee FeeCategory, code, name, quantity, amount string) BillLine {
	return BillLine{
		OrderNumber:  order,
		DocumentType: dt,
		FeeCategory:  fee,
		ProductCode:  code,
		ProductName:  name,
		Quantity:     qty(quantity),
		Amount:       dec(amount),
	}
}
