package metrics

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/farmsim-go/internal/application/farm/queries"
	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/domain/events"
)

// FarmMetricsCollector exports the state of a running farm.
//
// Gauges are refreshed by polling the status and price queries; counters
// are fed from the engine's event stream through HandleEvent.
type FarmMetricsCollector struct {
	mediator mediator.Mediator
	logger   logging.SimLogger
	runID    string

	// State gauges
	money       prometheus.Gauge
	resources   *prometheus.GaugeVec
	land        *prometheus.GaugeVec
	cropArea    *prometheus.GaugeVec
	cropHealth  *prometheus.GaugeVec
	inventory   *prometheus.GaugeVec
	marketPrice *prometheus.GaugeVec
	gameWeek    prometheus.Gauge

	// Event counters
	eventsTotal    *prometheus.CounterVec
	decisionsTotal *prometheus.CounterVec
	decisionScore  *prometheus.CounterVec
	cropDeaths     *prometheus.CounterVec
	harvestYield   *prometheus.CounterVec
	weeklyNet      prometheus.Histogram

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewFarmMetricsCollector creates a collector for one run
func NewFarmMetricsCollector(m mediator.Mediator, runID string, logger logging.SimLogger) *FarmMetricsCollector {
	if logger == nil {
		logger = logging.NoOp()
	}
	constLabels := prometheus.Labels{"run_id": runID}

	gaugeVec := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}, labels)
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}, labels)
	}

	return &FarmMetricsCollector{
		mediator: m,
		logger:   logger,
		runID:    runID,

		money: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "money",
			Help:        "Current money balance; negative when the farm is in debt",
			ConstLabels: constLabels,
		}),
		resources:   gaugeVec("resource_stock", "Stock of each consumable resource", "resource"),
		land:        gaugeVec("land_hectares", "Farm land by state", "state"),
		cropArea:    gaugeVec("crop_hectares", "Planted area by crop type", "crop_type"),
		cropHealth:  gaugeVec("crop_health", "Area-weighted mean health by crop type", "crop_type"),
		inventory:   gaugeVec("inventory_units", "Harvested units held by crop type", "crop_type"),
		marketPrice: gaugeVec("market_price", "Current market price by crop type", "crop_type"),
		gameWeek: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "game_week",
			Help:        "Current absolute game week",
			ConstLabels: constLabels,
		}),

		eventsTotal:    counterVec("events_total", "Outbound simulation events by type", "type"),
		decisionsTotal: counterVec("decisions_total", "Recorded decisions by kind and outcome", "kind", "outcome"),
		decisionScore:  counterVec("decision_score_total", "Cumulative positive decision score by kind", "kind"),
		cropDeaths:     counterVec("crop_deaths_total", "Crops lost by crop type", "crop_type"),
		harvestYield:   counterVec("harvest_yield_units_total", "Units harvested by crop type", "crop_type"),
		weeklyNet: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "weekly_net",
			Help:        "Net income per settled week",
			Buckets:     []float64{-5000, -1000, -500, -200, 0, 200, 500, 1000, 5000, 20000},
			ConstLabels: constLabels,
		}),
	}
}

// Register registers all farm metrics with the Prometheus registry
func (c *FarmMetricsCollector) Register() error {
	return register(
		c.money,
		c.resources,
		c.land,
		c.cropArea,
		c.cropHealth,
		c.inventory,
		c.marketPrice,
		c.gameWeek,
		c.eventsTotal,
		c.decisionsTotal,
		c.decisionScore,
		c.cropDeaths,
		c.harvestYield,
		c.weeklyNet,
	)
}

// Start begins polling farm state every interval
func (c *FarmMetricsCollector) Start(ctx context.Context, interval time.Duration) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.poll(interval)
}

// Stop gracefully stops the polling goroutine
func (c *FarmMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *FarmMetricsCollector) poll(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.Update(c.ctx)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.Update(c.ctx)
		}
	}
}

// Update refreshes every gauge from the status and price queries
func (c *FarmMetricsCollector) Update(ctx context.Context) {
	if c.mediator == nil {
		return
	}

	resp, err := c.mediator.Send(ctx, &queries.GetFarmStatusQuery{})
	if err != nil {
		c.logger.Log(logging.LevelWarn, "Failed to fetch farm status for metrics", map[string]interface{}{"error": err.Error()})
		return
	}
	status, ok := resp.(*queries.GetFarmStatusResponse)
	if !ok {
		c.logger.Log(logging.LevelWarn, "Unexpected response type for status query", map[string]interface{}{"type": typeName(resp)})
		return
	}
	state := status.State

	c.money.Set(state.Resources.Money)
	c.resources.WithLabelValues("water").Set(state.Resources.Water)
	c.resources.WithLabelValues("fertilizer").Set(state.Resources.Fertilizer)
	c.resources.WithLabelValues("seeds").Set(state.Resources.Seeds)
	c.resources.WithLabelValues("fuel").Set(state.Resources.Fuel)
	c.land.WithLabelValues("available").Set(state.Land.Available)
	c.land.WithLabelValues("cultivated").Set(state.Land.Cultivated)
	c.land.WithLabelValues("recovering").Set(state.Land.Recovering)
	c.gameWeek.Set(float64(state.Clock.Week))

	area := make(map[string]float64)
	weighted := make(map[string]float64)
	for _, cr := range state.Crops {
		t := string(cr.Type)
		area[t] += cr.Area
		weighted[t] += cr.Area * cr.Health
	}
	c.cropArea.Reset()
	c.cropHealth.Reset()
	for t, a := range area {
		c.cropArea.WithLabelValues(t).Set(a)
		if a > 0 {
			c.cropHealth.WithLabelValues(t).Set(weighted[t] / a)
		}
	}

	c.inventory.Reset()
	for _, t := range state.Inventory.Types() {
		c.inventory.WithLabelValues(string(t)).Set(state.Inventory.Get(t))
	}

	resp, err = c.mediator.Send(ctx, &queries.GetMarketPricesQuery{})
	if err != nil {
		c.logger.Log(logging.LevelWarn, "Failed to fetch market prices for metrics", map[string]interface{}{"error": err.Error()})
		return
	}
	if prices, ok := resp.(*queries.GetMarketPricesResponse); ok {
		for _, p := range prices.Prices {
			c.marketPrice.WithLabelValues(p.CropType).Set(p.Price)
		}
	}
}

// HandleEvent counts one engine event. It is meant to be passed to
// Engine.Subscribe and does not call back into the engine.
func (c *FarmMetricsCollector) HandleEvent(e events.Event) {
	c.eventsTotal.WithLabelValues(string(e.Type)).Inc()

	switch p := e.Payload.(type) {
	case events.DecisionAppliedPayload:
		c.decisionsTotal.WithLabelValues(string(p.Kind), string(p.Outcome)).Inc()
		if p.Score > 0 {
			c.decisionScore.WithLabelValues(string(p.Kind)).Add(p.Score)
		}
	case events.CropDiedPayload:
		c.cropDeaths.WithLabelValues(string(p.Crop.Type)).Inc()
	case events.CropHarvestedPayload:
		c.harvestYield.WithLabelValues(string(p.Crop.Type)).Add(p.Yield)
	case events.WeekSettledPayload:
		c.weeklyNet.Observe(p.Report.Net)
	}
}

func typeName(v interface{}) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
