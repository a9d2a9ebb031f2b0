package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

var (
	statuses     = []string{"Shipped", "Cancelled", "Resolved", "On Hold", "In Process", "Disputed"}
	productLines = []string{"Motorcycles", "Classic Cars", "Trucks and Buses", "Vintage Cars", "Planes", "Ships", "Trains"}
	countries    = []string{"USA", "France", "Norway", "Australia", "Finland", "Austria", "UK", "Spain", "Sweden", "Singapore", "Canada", "Japan", "Italy", "Denmark", "Belgium", "Philippines", "Germany", "Switzerland", "Ireland"}
	cities       = []string{"NYC", "Reims", "Paris", "Pasadena", "Burbank", "San Francisco", "Nantes", "Melbourne", "Madrid", "Oulu", "Lyon", "Torino"}
	lastNames    = []string{"Yu", "Henriot", "Da Cunha", "Young", "Brown", "Hirano", "Frick", "Freyre", "Saveley", "Murphy"}
	firstNames   = []string{"Kwai", "Paul", "Daniel", "Julie", "William", "Juri", "Michael", "Diego", "Mary", "Leslie"}
	dealSizes    = []string{"Small", "Medium", "Large"}
	months       = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	idSuffixes   = []string{"_x", "!", "@#"}
)

// Generator appends synthetic sales records to a JSON-lines file.
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	now    func() time.Time
	logger *zap.Logger
}

// NewGenerator creates a generator. A zero seed uses the current time.
func NewGenerator(cfg Config, seed int64, logger *zap.Logger) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		now:    time.Now,
		logger: logger,
	}
}

// Next builds one record.
func (g *Generator) Next() Record {
	quantity := g.rng.Intn(50) + 1
	price := float64(g.rng.Intn(9000)+1000) / 100
	line := g.rng.Intn(18) + 1
	date := g.now().AddDate(0, 0, -g.rng.Intn(5*365))
	month := int(date.Month())

	r := Record{
		"order_id":       g.field(g.rng.Intn(90000)+10000, func() any { return fmt.Sprintf("%d%s", g.rng.Intn(90000)+10000, pick(g.rng, idSuffixes)) }),
		"order_quantity": g.field(quantity, func() any { return "ten" }),
		"price":          g.field(price, func() any { return strconv.FormatFloat(price, 'f', 2, 64) + "$" }),
		"line_item":      g.field(line, func() any { return pick(g.rng, []string{"5a", "two"}) }),
		"sales":          g.field(float64(int(float64(quantity)*price*100))/100, func() any { return "N/A" }),
		"order_date":     g.field(date.Format("01/02/2006"), func() any { return date.Format("2006.01.02") }),
		"order_status":   g.field(pick(g.rng, statuses), nil),
		"order_quarter":  g.field((month-1)/3+1, func() any { return fmt.Sprintf("Quarter %d", (month-1)/3+1) }),
		"order_month":    g.field(month, func() any { return months[month-1] }),
		"order_year":     g.field(date.Year(), func() any { return "Twenty Twenty" }),
		"product_line":   g.field(pick(g.rng, productLines), nil),
		"msrp":           g.field(g.rng.Intn(180)+30, func() any { return "one hundred" }),
		"product_id":     g.field(fmt.Sprintf("S%d_%d", g.rng.Intn(90)+10, g.rng.Intn(9000)+1000), nil),
		"customer_name":  g.field(pick(g.rng, lastNames)+" Trading Co.", nil),
		"phone":          g.field(fmt.Sprintf("%d%07d", g.rng.Intn(900)+100, g.rng.Intn(10000000)), nil),
		"address":        g.field(fmt.Sprintf("%d Main Street", g.rng.Intn(999)+1), nil),
		"city":           g.field(pick(g.rng, cities), nil),
		"country":        g.field(pick(g.rng, countries), nil),
		"last_name":      g.field(pick(g.rng, lastNames), nil),
		"first_name":     g.field(pick(g.rng, firstNames), nil),
		"deal_size":      g.field(pick(g.rng, dealSizes), nil),
	}
	return r
}

// field returns nil, a dirty value or the clean value.
func (g *Generator) field(clean any, dirty func() any) any {
	roll := g.rng.Float64()
	if roll < g.cfg.NullRate {
		return nil
	}
	if dirty != nil && roll < g.cfg.NullRate+g.cfg.DirtyRate {
		return dirty()
	}
	return clean
}

// Append writes one record as a JSON line.
func (g *Generator) Append(r Record) error {
	if err := os.MkdirAll(filepath.Dir(g.cfg.File), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(g.cfg.File), err)
	}
	f, err := os.OpenFile(g.cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", g.cfg.File, err)
	}
	defer f.Close()

	line, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write %s: %w", g.cfg.File, err)
	}
	return f.Close()
}

// Run appends a record every interval until ctx is done. A positive limit
// stops after that many records. It returns the number written.
func (g *Generator) Run(ctx context.Context, limit int) (int, error) {
	interval := g.cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.logger.Info("Stream generator started", zap.String("file", g.cfg.File), zap.Duration("interval", interval))
	written := 0
	for {
		if err := g.Append(g.Next()); err != nil {
			return written, err
		}
		written++
		g.logger.Debug("Record generated", zap.Int("count", written))
		if limit > 0 && written >= limit {
			return written, nil
		}

		select {
		case <-ctx.Done():
			g.logger.Info("Stream generator stopped", zap.Int("records", written))
			return written, nil
		case <-ticker.C:
		}
	}
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
