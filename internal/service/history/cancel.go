package history

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/annual"
)

const taxTypeDecember = "DECEMBER"

type cancelCandidate struct {
	name       string
	isDecember bool
	date       time.Time
}

// CascadeCancel cancels every salary slip a ledger references, then
// removes the ledger itself. December reconciliation slips go first so
// their corrections unwind before the regular months they depend on;
// within each group, later slips cancel before earlier ones.
func (s *Service) CascadeCancel(ctx context.Context, req *annual.CancelCascadeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	history, err := s.histories.Get(ctx, req.Employee, req.FiscalYear)
	if err != nil {
		return err
	}

	candidates := make([]cancelCandidate, 0, len(history.Monthly))
	for _, row := range history.Monthly {
		if row.SalarySlip == "" {
			continue
		}
		slip, err := s.slips.GetSlip(ctx, row.SalarySlip)
		if err != nil {
			s.logger.Warn("referenced slip not found, skipping",
				"salary_slip", row.SalarySlip,
				"error", err,
			)
			continue
		}
		candidates = append(candidates, cancelCandidate{
			name:       slip.Name,
			isDecember: isDecemberSlip(*slip),
			date:       slipDate(*slip),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].isDecember != candidates[j].isDecember {
			return candidates[i].isDecember
		}
		return candidates[i].date.After(candidates[j].date)
	})

	for _, candidate := range candidates {
		if err := s.slips.CancelSlip(ctx, candidate.name); err != nil {
			return err
		}
		s.logger.Info("cancelled salary slip",
			"salary_slip", candidate.name,
			"december", candidate.isDecember,
		)
	}

	return s.histories.Delete(ctx, history.ID)
}

// isDecemberSlip checks the explicit tax type field, then the _tax_type
// marker inside the serialized pph21_info blob, then the slip month.
func isDecemberSlip(slip annual.SlipRef) bool {
	if strings.EqualFold(slip.TaxType, taxTypeDecember) {
		return true
	}

	if slip.PPh21Info != "" {
		var info struct {
			TaxType string `json:"_tax_type"`
		}
		if err := json.Unmarshal([]byte(slip.PPh21Info), &info); err == nil {
			if strings.EqualFold(info.TaxType, taxTypeDecember) {
				return true
			}
		}
	}

	return slipDate(slip).Month() == time.December
}

// slipDate prefers the posting date, falling back to the start date.
func slipDate(slip annual.SlipRef) time.Time {
	if t, err := time.Parse("2006-01-02", slip.PostingDate); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", slip.StartDate); err == nil {
		return t
	}
	return time.Time{}
}
