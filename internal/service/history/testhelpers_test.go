package history

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/annual"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughTransactor runs the callback on the bare context; the
// repository fakes below have no transactional state to protect.
type passthroughTransactor struct{}

func (passthroughTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// memHistoryRepo is an in-memory annual.Repository. Reads hand out copies
// so service-side mutations only land through the write methods, the same
// contract the postgresql repository gives.
type memHistoryRepo struct {
	histories   map[string]*annual.PayrollHistory
	nextID      int
	parentSaves []annual.PayrollHistory
	deleted     []string
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{histories: make(map[string]*annual.PayrollHistory)}
}

func historyKey(employee string, fiscalYear int) string {
	return fmt.Sprintf("%s|%d", employee, fiscalYear)
}

func copyHistory(h *annual.PayrollHistory) *annual.PayrollHistory {
	dup := *h
	dup.Monthly = append([]annual.MonthlyDetail(nil), h.Monthly...)
	return &dup
}

func (r *memHistoryRepo) GetForUpdate(ctx context.Context, employee string, fiscalYear int) (*annual.PayrollHistory, error) {
	return r.Get(ctx, employee, fiscalYear)
}

func (r *memHistoryRepo) Get(_ context.Context, employee string, fiscalYear int) (*annual.PayrollHistory, error) {
	history, ok := r.histories[historyKey(employee, fiscalYear)]
	if !ok {
		return nil, annual.ErrHistoryNotFound
	}
	return copyHistory(history), nil
}

func (r *memHistoryRepo) Create(_ context.Context, history *annual.PayrollHistory) error {
	r.nextID++
	history.ID = fmt.Sprintf("HIST-%04d", r.nextID)
	r.histories[historyKey(history.Employee, history.FiscalYear)] = copyHistory(history)
	return nil
}

func (r *memHistoryRepo) UpdateParent(_ context.Context, history *annual.PayrollHistory) error {
	stored := r.byID(history.ID)
	if stored == nil {
		return annual.ErrHistoryNotFound
	}
	stored.BrutoTotal = history.BrutoTotal
	stored.PengurangNettoTotal = history.PengurangNettoTotal
	stored.BiayaJabatanTotal = history.BiayaJabatanTotal
	stored.NettoTotal = history.NettoTotal
	stored.PTKPAnnual = history.PTKPAnnual
	stored.PKPAnnual = history.PKPAnnual
	stored.PPh21Annual = history.PPh21Annual
	stored.KoreksiPPh21 = history.KoreksiPPh21
	stored.ErrorState = history.ErrorState
	r.parentSaves = append(r.parentSaves, *copyHistory(stored))
	return nil
}

func (r *memHistoryRepo) UpsertMonthly(_ context.Context, historyID string, detail *annual.MonthlyDetail) error {
	stored := r.byID(historyID)
	if stored == nil {
		return annual.ErrHistoryNotFound
	}
	for i := range stored.Monthly {
		existing := stored.Monthly[i]
		match := existing.SalarySlip == detail.SalarySlip
		if existing.SalarySlip == "" && detail.SalarySlip == "" {
			match = existing.Bulan == detail.Bulan
		}
		if match {
			detail.ID = existing.ID
			stored.Monthly[i] = *detail
			return nil
		}
	}
	detail.ID = fmt.Sprintf("%s-M%d", historyID, len(stored.Monthly)+1)
	stored.Monthly = append(stored.Monthly, *detail)
	return nil
}

func (r *memHistoryRepo) DeleteMonthly(_ context.Context, historyID string, salarySlip string) error {
	stored := r.byID(historyID)
	if stored == nil {
		return annual.ErrHistoryNotFound
	}
	kept := stored.Monthly[:0]
	for _, row := range stored.Monthly {
		if row.SalarySlip == salarySlip {
			continue
		}
		kept = append(kept, row)
	}
	stored.Monthly = kept
	return nil
}

func (r *memHistoryRepo) Delete(_ context.Context, historyID string) error {
	for key, history := range r.histories {
		if history.ID == historyID {
			delete(r.histories, key)
			r.deleted = append(r.deleted, historyID)
			return nil
		}
	}
	return annual.ErrHistoryNotFound
}

func (r *memHistoryRepo) byID(historyID string) *annual.PayrollHistory {
	for _, history := range r.histories {
		if history.ID == historyID {
			return history
		}
	}
	return nil
}

// fakeSlipGateway records cancellations in call order.
type fakeSlipGateway struct {
	slips     map[string]*annual.SlipRef
	cancelled []string
}

func (g *fakeSlipGateway) GetSlip(_ context.Context, name string) (*annual.SlipRef, error) {
	slip, ok := g.slips[name]
	if !ok {
		return nil, fmt.Errorf("salary slip %s not found", name)
	}
	return slip, nil
}

func (g *fakeSlipGateway) CancelSlip(_ context.Context, name string) error {
	g.cancelled = append(g.cancelled, name)
	return nil
}

func newTestService(repo *memHistoryRepo, slips *fakeSlipGateway) *Service {
	if slips == nil {
		slips = &fakeSlipGateway{slips: map[string]*annual.SlipRef{}}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(passthroughTransactor{}, repo, slips, logger)
}

func assertDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	expected, err := decimal.NewFromString(want)
	require.NoError(t, err)
	assert.True(t, expected.Equal(got), "expected %s, got %s", want, got.String())
}

func monthlyResult(bulan int, slip string, bruto, pengurang, biaya, pph21 int64) annual.MonthlyResult {
	brutoD := decimal.NewFromInt(bruto)
	pengurangD := decimal.NewFromInt(pengurang)
	biayaD := decimal.NewFromInt(biaya)
	return annual.MonthlyResult{
		Bulan:          bulan,
		SalarySlip:     slip,
		Bruto:          brutoD,
		PengurangNetto: pengurangD,
		BiayaJabatan:   biayaD,
		Netto:          brutoD.Sub(pengurangD).Sub(biayaD),
		PKP:            decimal.NewFromInt(bruto / 2),
		Rate:           decimal.NewFromInt(5),
		PPh21:          decimal.NewFromInt(pph21),
	}
}
