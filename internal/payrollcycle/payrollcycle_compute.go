package payrollcycle

import (
	"time"

	"kazini-payroll/internal/payrollcalc"
	payrollcycleerrors "kazini-payroll/internal/payrollcycle/errors"
	"kazini-payroll/internal/payrollconfig"
	"kazini-payroll/internal/payrollemployee"

	"github.com/google/uuid"
)

// Computation is one evaluation of the active pay records against a rate set
// and the company's toggles. Items carry no CycleID yet.
type Computation struct {
	Items          []PayrollCycleItem
	Totals         Totals
	FeeBps         int
	TaxYear        int
	RateSetVersion int
}

// Compute prices every employee. The service fee is charged on net pay and
// the amount due is net pay plus fees.
func Compute(employees []payrollemployee.PayrollEmployee, cfg payrollconfig.PayrollConfigResponse, rates payrollcalc.RateSet, at time.Time) (Computation, error) {
	comp := Computation{
		Items:          make([]PayrollCycleItem, 0, len(employees)),
		FeeBps:         cfg.ServiceFeeRateBps,
		TaxYear:        rates.TaxYear,
		RateSetVersion: rates.Version,
	}

	for _, emp := range employees {
		result, err := payrollcalc.Calculate(payrollcalc.PayrollInput{
			BasicSalary:        payrollcalc.FromCents(emp.Amount),
			IncomePeriod:       payrollcalc.PeriodMonthly,
			IncludeNhif:        cfg.IncludeNhif,
			IncludeNssf:        cfg.IncludeNssf,
			IncludeHousingLevy: cfg.IncludeHousingLevy,
			IsPensionable:      cfg.IsPensionable,
			CalculationDate:    at,
		}, rates)
		if err != nil {
			return Computation{}, payrollcycleerrors.ErrEmployeeCalculation.WithDetails(map[string]string{
				"employee_id": emp.ID.String(),
				"full_name":   emp.FullName,
				"reason":      err.Error(),
			})
		}

		net := payrollcalc.ToCents(result.NetSalary)
		item := PayrollCycleItem{
			ID:                  uuid.New(),
			CompanyID:           emp.CompanyID,
			EmployeeID:          emp.ID,
			FullName:            emp.FullName,
			BankCode:            emp.BankCode,
			AccountNumber:       emp.AccountNumber,
			GrossPay:            payrollcalc.ToCents(result.GrossSalary),
			PayeTax:             payrollcalc.ToCents(result.Paye),
			StatutoryDeductions: payrollcalc.ToCents(result.StatutoryDeductions()),
			NetPay:              net,
			ServiceFee:          payrollcalc.ApplyBasisPoints(net, cfg.ServiceFeeRateBps),
		}
		comp.Items = append(comp.Items, item)

		comp.Totals.TotalGrossPay += item.GrossPay
		comp.Totals.TotalPayeTax += item.PayeTax
		comp.Totals.TotalStatutoryDeductions += item.StatutoryDeductions
		comp.Totals.TotalNetPay += item.NetPay
		comp.Totals.TotalKaziniHRFees += item.ServiceFee
	}
	comp.Totals.TotalDisbursementAmount = comp.Totals.TotalNetPay + comp.Totals.TotalKaziniHRFees

	return comp, nil
}

// ApplyTotals copies the computed figures onto a cycle being processed.
func (c *PayrollCycle) ApplyTotals(comp Computation) {
	c.EmployeeCount = len(comp.Items)
	c.TotalGrossPay = comp.Totals.TotalGrossPay
	c.TotalNetPay = comp.Totals.TotalNetPay
	c.TotalPayeTax = comp.Totals.TotalPayeTax
	c.TotalStatutoryDeductions = comp.Totals.TotalStatutoryDeductions
	c.TotalKaziniHRFees = comp.Totals.TotalKaziniHRFees
	c.TotalDisbursementAmount = comp.Totals.TotalDisbursementAmount
	c.ServiceFeeRateBps = comp.FeeBps
	taxYear, version := comp.TaxYear, comp.RateSetVersion
	c.TaxYear = &taxYear
	c.RateSetVersion = &version
}
