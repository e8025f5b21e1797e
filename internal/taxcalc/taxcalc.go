// Package taxcalc splits GST into CGST+SGST or IGST based on the parties' state codes.
package taxcalc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"gstreport/internal/domain"
	"gstreport/internal/gstin"
)

// Calculator computes tax breakdowns. The zero value uses structural GSTIN validation.
type Calculator struct {
	Validator gstin.Validator
}

// New returns a Calculator using the given GSTIN validator.
func New(v gstin.Validator) *Calculator {
	return &Calculator{Validator: v}
}

// ComputeSplit validates both GSTINs and splits round_half_up(taxable * rate / 100) paise.
// Equal state codes give an intra-state split where any odd paisa goes to CGST; otherwise the
// whole tax is IGST. The supplier GSTIN is checked first.
func (c *Calculator) ComputeSplit(supplierGSTIN, customerGSTIN string, taxable domain.Money, rate domain.Rate) (domain.TaxBreakdown, error) {
	supplier := c.Validator.Validate(supplierGSTIN)
	if !supplier.Valid {
		return domain.TaxBreakdown{}, &domain.InvalidTaxpayerIDError{
			Side: domain.PartySupplier, GSTIN: supplierGSTIN, Reason: supplier.Reason,
		}
	}
	customer := c.Validator.Validate(customerGSTIN)
	if !customer.Valid {
		return domain.TaxBreakdown{}, &domain.InvalidTaxpayerIDError{
			Side: domain.PartyCustomer, GSTIN: customerGSTIN, Reason: customer.Reason,
		}
	}
	if taxable.IsNegative() {
		return domain.TaxBreakdown{}, fmt.Errorf("%w: taxable value %s is negative", domain.ErrInvalidAmount, taxable)
	}
	if err := rate.Validate(); err != nil {
		return domain.TaxBreakdown{}, err
	}

	total := TotalTax(taxable, rate)
	tb := domain.TaxBreakdown{TaxableValue: taxable, Rate: rate}
	if supplier.StateCode == customer.StateCode {
		tb.Type = domain.TaxTypeIntraState
		tb.StateTax = total / 2
		tb.CentralTax = total - tb.StateTax
	} else {
		tb.Type = domain.TaxTypeInterState
		tb.IntegratedTax = total
	}
	return tb, nil
}

// TotalTax returns taxable * rate / 100 rounded half-up to the paisa.
func TotalTax(taxable domain.Money, rate domain.Rate) domain.Money {
	// taxable is in paise, so the product only needs the percent shift.
	d := decimal.NewFromInt(int64(taxable)).Mul(rate.Decimal).Shift(-2).Round(0)
	return domain.Money(d.IntPart())
}

var defaultCalculator = &Calculator{}

// ComputeSplit runs the default structural-validation calculator.
func ComputeSplit(supplierGSTIN, customerGSTIN string, taxable domain.Money, rate domain.Rate) (domain.TaxBreakdown, error) {
	return defaultCalculator.ComputeSplit(supplierGSTIN, customerGSTIN, taxable, rate)
}
