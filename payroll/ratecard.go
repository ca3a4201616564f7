/*
ratecard.go - Rate resolution from the organization rate table

PURPOSE:
  Builds a RateResolver over the organization-configured rate card.
  Global employees resolve to their monthly rate (the input to daily
  rate derivation); everyone else resolves to the most recent rate
  entry effective on the date, preferring a service-specific entry over
  the employee default.
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateCardEntry is one row of the organization rate table.
// An empty ServiceID marks the employee's default rate.
type RateCardEntry struct {
	EmployeeID EmployeeID
	ServiceID  ServiceID
	ValidFrom  time.Time
	Rate       decimal.Decimal
}

// Resolution reason labels carried on RateQuote for display and audit.
const (
	RateReasonMonthly = "monthly_rate"
	RateReasonService = "service_rate"
	RateReasonDefault = "default_rate"
	RateReasonNone    = "no_rate"
)

// RateCardResolver builds the resolver both the validator and the API
// layer consume.
func RateCardResolver(entries []RateCardEntry, employees map[EmployeeID]Employee) RateResolver {
	return func(employeeID EmployeeID, date time.Time, serviceID ServiceID) (RateQuote, error) {
		if emp, ok := employees[employeeID]; ok && emp.Type == EmployeeGlobal {
			return RateQuote{Rate: emp.MonthlyRate, Reason: RateReasonMonthly}, nil
		}

		day := dayOf(date)
		var best *RateCardEntry
		bestService := false

		for i := range entries {
			entry := &entries[i]
			if entry.EmployeeID != employeeID || dayOf(entry.ValidFrom).After(day) {
				continue
			}
			serviceMatch := serviceID != "" && entry.ServiceID == serviceID
			if !serviceMatch && entry.ServiceID != "" {
				continue
			}
			// Service-specific beats default; within a tier, latest wins.
			switch {
			case best == nil,
				serviceMatch && !bestService,
				serviceMatch == bestService && entry.ValidFrom.After(best.ValidFrom):
				best = entry
				bestService = serviceMatch
			}
		}

		if best == nil {
			return RateQuote{Rate: decimal.Zero, Reason: RateReasonNone}, nil
		}
		reason := RateReasonDefault
		if bestService {
			reason = RateReasonService
		}
		return RateQuote{Rate: best.Rate, Reason: reason}, nil
	}
}
