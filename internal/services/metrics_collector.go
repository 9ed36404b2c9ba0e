package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"billing-backend/internal/billing"
	"billing-backend/internal/metrics"
	"billing-backend/internal/timeutil"
)

// MetricsCollector periodically publishes record counts per effective
// status and outstanding invoice amounts. Overdue and Expired depend on the
// clock, so they cannot be counted at write time.
type MetricsCollector struct {
	invoices        InvoiceStore
	contracts       ContractStore
	collectInterval time.Duration
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

func NewMetricsCollector(invoices InvoiceStore, contracts ContractStore, interval time.Duration) *MetricsCollector {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &MetricsCollector{
		invoices:        invoices,
		contracts:       contracts,
		collectInterval: interval,
		stopChan:        make(chan struct{}),
	}
}

// Start collects once and then on every tick until Stop.
func (c *MetricsCollector) Start() {
	log.Info().Dur("interval", c.collectInterval).Msg("Starting status metrics collector")

	c.collectAll()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.collectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.collectAll()
			case <-c.stopChan:
				log.Info().Msg("Stopping status metrics collector")
				return
			}
		}
	}()
}

func (c *MetricsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}

func (c *MetricsCollector) collectAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := timeutil.Now()
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		c.collectInvoices(ctx, now)
	}()
	go func() {
		defer wg.Done()
		c.collectContracts(ctx, now)
	}()
	wg.Wait()
}

func (c *MetricsCollector) collectInvoices(ctx context.Context, now time.Time) {
	invoices, err := c.invoices.List(ctx, billing.ListFilter{})
	if err != nil {
		log.Warn().Err(err).Msg("Status collector: failed to list invoices")
		return
	}

	counts := make(map[string]int)
	open := make(billing.CurrencyTotals)
	overdue := make(billing.CurrencyTotals)
	for _, inv := range invoices {
		status := billing.InvoiceStatus(inv.Status, inv.DueDate, now)
		counts[status]++

		cur := inv.Currency
		if cur == "" {
			cur = billing.DefaultCurrency
		}
		switch status {
		case billing.StatusOverdue:
			overdue[cur] = billing.AddAmounts(overdue[cur], inv.Total.Float())
		case billing.StatusSent, billing.StatusViewed:
			open[cur] = billing.AddAmounts(open[cur], inv.Total.Float())
		}
	}

	publishCounts("invoice", counts, append(billing.InvoiceStatuses, billing.StatusOverdue))
	metrics.OutstandingAmount.Reset()
	for cur, v := range open {
		metrics.OutstandingAmount.WithLabelValues(cur, "open").Set(v)
	}
	for cur, v := range overdue {
		metrics.OutstandingAmount.WithLabelValues(cur, "overdue").Set(v)
	}
}

func (c *MetricsCollector) collectContracts(ctx context.Context, now time.Time) {
	contracts, err := c.contracts.List(ctx, billing.ListFilter{})
	if err != nil {
		log.Warn().Err(err).Msg("Status collector: failed to list contracts")
		return
	}

	counts := make(map[string]int)
	for _, ct := range contracts {
		counts[billing.ContractStatus(ct.Status, ct.EndDate, now)]++
	}
	publishCounts("contract", counts, append(billing.ContractStatuses, billing.StatusExpired))
}

// publishCounts sets every known status, so statuses that dropped to zero
// do not keep their last value.
func publishCounts(kind string, counts map[string]int, statuses []string) {
	for _, s := range statuses {
		metrics.RecordsByStatus.WithLabelValues(kind, s).Set(float64(counts[s]))
	}
}
