package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// AnalyticsUseCase consultas de reporte: dashboard, resumen del ledger y
// componentes más consumidos.
type AnalyticsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(analyticsRepo repository.AnalyticsRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{analyticsRepo: analyticsRepo}
}

// GetDashboard arma el resumen ejecutivo. Las tres agregaciones son
// independientes, así que van en paralelo; la primera que falle manda.
func (uc *AnalyticsUseCase) GetDashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error

		stockSummary *repository.StockSummaryResult
		orderCounts  []repository.OrderStatusCount
		dueSoon      int
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		s, err := uc.analyticsRepo.GetStockSummary(ctx)
		if err != nil {
			setErr(err)
			return
		}
		stockSummary = s
	}()
	go func() {
		defer wg.Done()
		c, err := uc.analyticsRepo.CountOrdersByStatus(ctx)
		if err != nil {
			setErr(err)
			return
		}
		orderCounts = c
	}()
	go func() {
		defer wg.Done()
		n, err := uc.analyticsRepo.CountOrdersDueBefore(ctx, time.Now().AddDate(0, 0, 7))
		if err != nil {
			setErr(err)
			return
		}
		dueSoon = n
	}()
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	byStatus := make(map[string]int, len(orderCounts))
	for _, c := range orderCounts {
		byStatus[c.Status] = c.Count
	}
	return &dto.DashboardSummaryDTO{
		StockItemCount: stockSummary.ItemCount,
		StockValue:     stockSummary.TotalValue.Round(2),
		LowStockCount:  stockSummary.LowStockCount,
		OrdersByStatus: byStatus,
		OrdersDueSoon:  dueSoon,
	}, nil
}

// GetMovementSummary resume el ledger por tipo en el período.
func (uc *AnalyticsUseCase) GetMovementSummary(ctx context.Context, from, to time.Time) ([]dto.MovementSummaryDTO, error) {
	rows, err := uc.analyticsRepo.GetMovementSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementSummaryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MovementSummaryDTO{
			Type:     r.Type,
			Count:    r.Count,
			NetDelta: r.NetDelta,
		})
	}
	return out, nil
}

// GetTopConsumedComponents lista los componentes con más salidas del período.
func (uc *AnalyticsUseCase) GetTopConsumedComponents(ctx context.Context, from, to time.Time, limit int) ([]dto.ConsumedComponentDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := uc.analyticsRepo.GetTopConsumedComponents(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConsumedComponentDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ConsumedComponentDTO{
			StockItemID: r.StockItemID,
			SKU:         r.SKU,
			Name:        r.Name,
			Quantity:    r.Quantity,
			TotalCost:   r.TotalCost.Round(2),
		})
	}
	return out, nil
}
