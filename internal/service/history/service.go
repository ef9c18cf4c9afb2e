package history

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/annual"
	"github.com/shopspring/decimal"
)

// nettoTolerance bounds the cross-check of a row's netto against
// bruto - pengurang - biaya jabatan. Beyond it we warn but still save.
var nettoTolerance = decimal.NewFromFloat(0.1)

// Transactor bounds a ledger mutation in a database transaction. The
// postgresql package provides the pgx implementation.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Service keeps the annual PPh 21 ledger in step with salary slip
// submissions and cancellations.
type Service struct {
	tx        Transactor
	histories annual.Repository
	slips     annual.SlipGateway
	logger    *slog.Logger
}

func NewService(tx Transactor, histories annual.Repository, slips annual.SlipGateway, logger *slog.Logger) *Service {
	return &Service{tx: tx, histories: histories, slips: slips, logger: logger}
}

// Sync applies a host-system sync payload. Monthly results are grouped by
// bulan and applied group by group; the summary and error state ride only
// on the final group so intermediate saves never carry a stale summary.
func (s *Service) Sync(ctx context.Context, req *annual.SyncRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	ref, err := req.EmployeeRef()
	if err != nil {
		return "", err
	}

	errorState := decodeErrorState(req.ErrorState)

	if req.Cancelled {
		return s.syncCancellation(ctx, ref, req.FiscalYear, req.CancelledSlip, errorState)
	}

	if len(req.MonthlyResults) == 0 {
		if req.Summary == nil && errorState == nil {
			return "", annual.ErrNothingToSync
		}
		return s.SyncForBulan(ctx, ref, req.FiscalYear, 0, nil, req.Summary, errorState)
	}

	// Group by bulan, preserving first-appearance order.
	var order []int
	groups := make(map[int][]annual.MonthlyResult)
	for _, result := range req.MonthlyResults {
		if _, seen := groups[result.Bulan]; !seen {
			order = append(order, result.Bulan)
		}
		groups[result.Bulan] = append(groups[result.Bulan], result)
	}

	var historyID string
	for i, bulan := range order {
		var summary *annual.Summary
		var groupError *string
		if i == len(order)-1 {
			summary = req.Summary
			groupError = errorState
		}

		historyID, err = s.SyncForBulan(ctx, ref, req.FiscalYear, bulan, groups[bulan], summary, groupError)
		if err != nil {
			return "", err
		}
	}
	return historyID, nil
}

// SyncForBulan merges one month's results into the ledger. Rows upsert by
// salary slip reference so re-submission is idempotent; every path ends in
// a parent save so an error annotation is never dropped.
func (s *Service) SyncForBulan(
	ctx context.Context,
	ref annual.EmployeeRef,
	fiscalYear int,
	bulan int,
	results []annual.MonthlyResult,
	summary *annual.Summary,
	errorState *string,
) (string, error) {
	var historyID string

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		history, err := s.lookupOrCreate(txCtx, ref, fiscalYear)
		if err != nil {
			return err
		}
		historyID = history.ID

		for _, result := range results {
			detail := detailFromResult(history.ID, result, bulan)
			mergeDetail(history, detail)
			if err := s.histories.UpsertMonthly(txCtx, history.ID, &detail); err != nil {
				return err
			}
		}

		s.recomputeAggregates(history)
		if summary != nil {
			history.BrutoTotal = summary.BrutoTotal
			history.NettoTotal = summary.NettoTotal
			history.PTKPAnnual = summary.PTKPAnnual
			history.PKPAnnual = summary.PKPAnnual
			history.PPh21Annual = summary.PPh21Annual
			history.KoreksiPPh21 = summary.KoreksiPPh21
		}
		if errorState != nil {
			history.ErrorState = errorState
		}

		return s.histories.UpdateParent(txCtx, history)
	})
	if err != nil {
		return "", err
	}
	return historyID, nil
}

// syncCancellation handles a cancelled slip. Without an error state the
// row is removed and aggregates shrink by its contribution; with one, the
// row is preserved and both row and parent are stamped so reconciliation
// tooling can inspect the failed period.
func (s *Service) syncCancellation(
	ctx context.Context,
	ref annual.EmployeeRef,
	fiscalYear int,
	cancelledSlip string,
	errorState *string,
) (string, error) {
	var historyID string

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		history, err := s.histories.GetForUpdate(txCtx, ref.Name, fiscalYear)
		if err != nil {
			return err
		}
		historyID = history.ID

		if errorState != nil {
			for i := range history.Monthly {
				if history.Monthly[i].SalarySlip == cancelledSlip {
					history.Monthly[i].ErrorState = errorState
					if err := s.histories.UpsertMonthly(txCtx, history.ID, &history.Monthly[i]); err != nil {
						return err
					}
					break
				}
			}
			history.ErrorState = errorState
			return s.histories.UpdateParent(txCtx, history)
		}

		kept := history.Monthly[:0]
		removed := false
		for _, row := range history.Monthly {
			if row.SalarySlip == cancelledSlip {
				removed = true
				continue
			}
			kept = append(kept, row)
		}
		history.Monthly = kept

		if removed {
			if err := s.histories.DeleteMonthly(txCtx, history.ID, cancelledSlip); err != nil {
				return err
			}
		} else {
			s.logger.Warn("cancelled slip not found in history",
				"employee", ref.Name,
				"fiscal_year", fiscalYear,
				"salary_slip", cancelledSlip,
			)
		}

		s.recomputeAggregates(history)
		return s.histories.UpdateParent(txCtx, history)
	})
	if err != nil {
		return "", err
	}
	return historyID, nil
}

// Get returns the ledger with its monthly rows.
func (s *Service) Get(ctx context.Context, employee string, fiscalYear int) (*annual.HistoryResponse, error) {
	history, err := s.histories.Get(ctx, employee, fiscalYear)
	if err != nil {
		return nil, err
	}
	return mapToHistoryResponse(history), nil
}

func (s *Service) lookupOrCreate(ctx context.Context, ref annual.EmployeeRef, fiscalYear int) (*annual.PayrollHistory, error) {
	history, err := s.histories.GetForUpdate(ctx, ref.Name, fiscalYear)
	if err == nil {
		return history, nil
	}
	if !errors.Is(err, annual.ErrHistoryNotFound) {
		return nil, err
	}

	history = &annual.PayrollHistory{
		Employee:   ref.Name,
		Company:    ref.Company,
		FiscalYear: fiscalYear,
	}
	if err := s.histories.Create(ctx, history); err != nil {
		return nil, err
	}
	return history, nil
}

// recomputeAggregates rebuilds every total as a sum over the current rows.
// KoreksiPPh21 and PTKPAnnual are deliberately left alone; only an explicit
// summary from the December reconciliation may change them.
func (s *Service) recomputeAggregates(history *annual.PayrollHistory) {
	bruto := decimal.Zero
	pengurang := decimal.Zero
	biaya := decimal.Zero
	netto := decimal.Zero
	pkp := decimal.Zero
	pph21 := decimal.Zero

	for _, row := range history.Monthly {
		expected := row.Bruto.Sub(row.PengurangNetto).Sub(row.BiayaJabatan)
		if expected.Sub(row.Netto).Abs().GreaterThan(nettoTolerance) {
			s.logger.Warn("netto mismatch in monthly row",
				"salary_slip", row.SalarySlip,
				"netto", row.Netto.String(),
				"expected", expected.String(),
			)
		}

		bruto = bruto.Add(row.Bruto)
		pengurang = pengurang.Add(row.PengurangNetto)
		biaya = biaya.Add(row.BiayaJabatan)
		netto = netto.Add(row.Netto)
		pkp = pkp.Add(row.PKP)
		pph21 = pph21.Add(row.PPh21)
	}

	history.BrutoTotal = bruto
	history.PengurangNettoTotal = pengurang
	history.BiayaJabatanTotal = biaya
	history.NettoTotal = netto
	history.PKPAnnual = pkp
	history.PPh21Annual = pph21
}

// mergeDetail updates the in-memory row set the same way the repository
// upsert does, so aggregate recomputation sees the new values.
func mergeDetail(history *annual.PayrollHistory, detail annual.MonthlyDetail) {
	for i := range history.Monthly {
		if sameDetailKey(history.Monthly[i], detail) {
			detail.ID = history.Monthly[i].ID
			history.Monthly[i] = detail
			return
		}
	}
	history.Monthly = append(history.Monthly, detail)
}

// sameDetailKey matches rows by salary slip reference, falling back to the
// month number for rows synced without one.
func sameDetailKey(a, b annual.MonthlyDetail) bool {
	if a.SalarySlip != "" || b.SalarySlip != "" {
		return a.SalarySlip == b.SalarySlip
	}
	return a.Bulan == b.Bulan
}

func detailFromResult(historyID string, result annual.MonthlyResult, bulan int) annual.MonthlyDetail {
	if result.Bulan == 0 {
		result.Bulan = bulan
	}
	return annual.MonthlyDetail{
		HistoryID:      historyID,
		Bulan:          result.Bulan,
		SalarySlip:     result.SalarySlip,
		Bruto:          result.Bruto,
		PengurangNetto: result.PengurangNetto,
		BiayaJabatan:   result.BiayaJabatan,
		Netto:          result.Netto,
		PKP:            result.PKP,
		Rate:           result.Rate,
		PPh21:          result.PPh21,
	}
}

func decodeErrorState(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	encoded := string(raw)
	return &encoded
}

func mapToHistoryResponse(history *annual.PayrollHistory) *annual.HistoryResponse {
	resp := &annual.HistoryResponse{
		Employee:            history.Employee,
		Company:             history.Company,
		FiscalYear:          history.FiscalYear,
		BrutoTotal:          history.BrutoTotal.String(),
		PengurangNettoTotal: history.PengurangNettoTotal.String(),
		BiayaJabatanTotal:   history.BiayaJabatanTotal.String(),
		NettoTotal:          history.NettoTotal.String(),
		PTKPAnnual:          history.PTKPAnnual.String(),
		PKPAnnual:           history.PKPAnnual.String(),
		PPh21Annual:         history.PPh21Annual.String(),
		KoreksiPPh21:        history.KoreksiPPh21.String(),
		ErrorState:          history.ErrorState,
	}
	for _, row := range history.Monthly {
		resp.Monthly = append(resp.Monthly, annual.MonthlyDetailResponse{
			Bulan:          row.Bulan,
			SalarySlip:     row.SalarySlip,
			Bruto:          row.Bruto.String(),
			PengurangNetto: row.PengurangNetto.String(),
			BiayaJabatan:   row.BiayaJabatan.String(),
			Netto:          row.Netto.String(),
			PKP:            row.PKP.String(),
			Rate:           row.Rate.String(),
			PPh21:          row.PPh21.String(),
			ErrorState:     row.ErrorState,
		})
	}
	return resp
}
