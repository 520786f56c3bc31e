package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // número de productos en el widget del dashboard

// DashboardUseCase resumen agregado de producción: hoy, últimos 7 días y mes
// en curso, top de productos y actividad por usuario.
//
// Fuente de datos: DashboardRepository (consultas read-only). Si hay cache
// configurado, el resumen se sirve desde ahí durante el TTL; un fallo de
// cache degrada a consulta directa, nunca rompe el dashboard.
type DashboardUseCase struct {
	repo     repository.DashboardRepository
	cache    DashboardCache // nil = sin cache
	cacheTTL time.Duration
	now      func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(repo repository.DashboardRepository, cache DashboardCache, cacheTTL time.Duration) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, cache: cache, cacheTTL: cacheTTL, now: time.Now}
}

// WithClock reemplaza el reloj (tests de rangos de fecha).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	clone := *uc
	clone.now = now
	return &clone
}

// GetSummary construye el DashboardSummaryDTO para la organización.
//
// Cuatro llamadas en paralelo:
//  1. GetProductionTotals(hoy)
//  2. GetProductionTotals(últimos 7 días)
//  3. GetProductionTotals(mes) + GetTopProducts(mes, top 5)
//  4. GetUserActivity(hoy)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor Actor) (*dto.DashboardSummaryDTO, error) {
	cacheKey := fmt.Sprintf("dashboard:summary:%d", actor.OrganizationID)
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, cacheKey); err == nil && raw != nil {
			var cached dto.DashboardSummaryDTO
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	now := uc.now()

	// ── Rangos de fecha ───────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	weekStart := todayStart.AddDate(0, 0, -6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// ── Goroutines para paralelizar las consultas DB ──────────────────────────
	type totalsResult struct {
		qty  decimal.Decimal
		logs int64
		err  error
	}
	type topResult struct {
		products []repository.TopProductResult
		err      error
	}
	type activityResult struct {
		users []repository.UserActivityResult
		err   error
	}

	todayCh := make(chan totalsResult, 1)
	weekCh := make(chan totalsResult, 1)
	monthCh := make(chan totalsResult, 1)
	topCh := make(chan topResult, 1)
	usersCh := make(chan activityResult, 1)

	orgID := actor.OrganizationID
	go func() {
		qty, logs, err := uc.repo.GetProductionTotals(ctx, orgID, todayStart, todayEnd)
		todayCh <- totalsResult{qty, logs, err}
	}()
	go func() {
		qty, logs, err := uc.repo.GetProductionTotals(ctx, orgID, weekStart, todayEnd)
		weekCh <- totalsResult{qty, logs, err}
	}()
	go func() {
		qty, logs, err := uc.repo.GetProductionTotals(ctx, orgID, monthStart, todayEnd)
		monthCh <- totalsResult{qty, logs, err}
	}()
	go func() {
		products, err := uc.repo.GetTopProducts(ctx, orgID, monthStart, todayEnd, dashboardTopProducts)
		topCh <- topResult{products, err}
	}()
	go func() {
		users, err := uc.repo.GetUserActivity(ctx, orgID, todayStart, todayEnd)
		usersCh <- activityResult{users, err}
	}()

	today := <-todayCh
	week := <-weekCh
	month := <-monthCh
	top := <-topCh
	users := <-usersCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: totales de hoy: %w", today.err)
	}
	if week.err != nil {
		return nil, fmt.Errorf("dashboard: totales de la semana: %w", week.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: totales del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}
	if users.err != nil {
		return nil, fmt.Errorf("dashboard: actividad por usuario: %w", users.err)
	}

	summary := &dto.DashboardSummaryDTO{
		TodayQuantity: today.qty,
		TodayLogs:     today.logs,
		WeekQuantity:  week.qty,
		WeekLogs:      week.logs,
		MonthQuantity: month.qty,
		MonthLogs:     month.logs,
		TopProducts:   toTopProductDTOs(top.products),
		TodayByUser:   toUserActivityDTOs(users.users),
		GeneratedAt:   now,
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, raw, uc.cacheTTL)
		}
	}
	return summary, nil
}

func toTopProductDTOs(in []repository.TopProductResult) []dto.TopProductDTO {
	out := make([]dto.TopProductDTO, 0, len(in))
	for _, p := range in {
		out = append(out, dto.TopProductDTO{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			SKU:         p.SKU,
			Quantity:    p.Quantity,
			LogCount:    p.LogCount,
		})
	}
	return out
}

func toUserActivityDTOs(in []repository.UserActivityResult) []dto.UserActivityDTO {
	out := make([]dto.UserActivityDTO, 0, len(in))
	for _, u := range in {
		out = append(out, dto.UserActivityDTO{
			UserID:   u.UserID,
			UserName: u.UserName,
			LogCount: u.LogCount,
			Quantity: u.Quantity,
		})
	}
	return out
}
