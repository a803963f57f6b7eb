package reports_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/scims-analytics/internal/application/dto"
	"github.com/jhoicas/scims-analytics/internal/domain/entity"
	"github.com/jhoicas/scims-analytics/internal/domain/repository"
	"github.com/jhoicas/scims-analytics/internal/domain/sales"
)

// El directorio solo expone lo que usan el resolver y la zona horaria del reporte.
var _ repository.StoreDirectory = (*fakeDirectory)(nil)

// fakeDirectory StoreDirectory en memoria.
type fakeDirectory struct {
	stores     map[string][]string
	businesses map[string]*entity.Business
	listErr    error
	listCalls  atomic.Int32
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		stores:     map[string][]string{},
		businesses: map[string]*entity.Business{},
	}
}

func (d *fakeDirectory) ListStoreIDs(_ context.Context, businessID string) ([]string, error) {
	d.listCalls.Add(1)
	if d.listErr != nil {
		return nil, d.listErr
	}
	return d.stores[businessID], nil
}

func (d *fakeDirectory) GetBusiness(_ context.Context, id string) (*entity.Business, error) {
	return d.businesses[id], nil
}

// fakeSales SaleRepository en memoria; aplica el rango de fechas como lo haría SQL.
type fakeSales struct {
	mu      sync.Mutex
	byStore map[string][]entity.Sale
	errs    map[string]error
	calls   map[string]int
}

func newFakeSales() *fakeSales {
	return &fakeSales{
		byStore: map[string][]entity.Sale{},
		errs:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeSales) FetchSales(_ context.Context, storeID string, from, to time.Time) ([]entity.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[storeID]++
	if err := f.errs[storeID]; err != nil {
		return nil, err
	}
	out := make([]entity.Sale, 0)
	for _, s := range f.byStore[storeID] {
		d, ok := s.EffectiveDate()
		if !from.IsZero() && (!ok || d.Before(from)) {
			continue
		}
		if !to.IsZero() && (!ok || d.After(to)) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// fakeCache StatsCache en memoria que cuenta aciertos.
type fakeCache struct {
	mu     sync.Mutex
	data   map[string]sales.StatisticsBundle
	hits   int
	sets   int
	ttl    time.Duration
	getErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]sales.StatisticsBundle{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (*sales.StatisticsBundle, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return &b, true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, b *sales.StatisticsBundle, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = *b
	c.sets++
	c.ttl = ttl
	return nil
}

// fakePDF devuelve un documento fijo y recuerda el resumen recibido.
type fakePDF struct {
	summary *dto.SalesSummaryDTO
}

func (p *fakePDF) GenerateSalesSummaryPDF(_ context.Context, _ string, s *dto.SalesSummaryDTO) ([]byte, error) {
	p.summary = s
	return []byte("%PDF-1.4 fake"), nil
}
