package market

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rickgao/kalshi-markets/internal/model"
)

var refreshed = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func liquid(ticker, category string, volume int64, yesBid, yesAsk int) model.MarketRecord {
	return model.MarketRecord{
		Ticker:    ticker,
		Category:  category,
		Volume:    volume,
		YesBid:    model.Int(yesBid),
		YesAsk:    model.Int(yesAsk),
		NoBid:     model.Int(100 - yesAsk),
		NoAsk:     model.Int(100 - yesBid),
		SpreadYes: model.Int(yesAsk - yesBid),
		SpreadNo:  model.Int(yesAsk - yesBid),
	}
}

func sampleRecords() []model.MarketRecord {
	return []model.MarketRecord{
		liquid("POL-1", "Politics", 500, 40, 45),
		liquid("ECO-1", "Economics", 50, 10, 30),
		{Ticker: "POL-2", Category: "Politics", Volume: 1000, YesBid: model.Int(20), YesAsk: model.Int(22), SpreadYes: model.Int(2)},
		{Ticker: "SPT-1", Category: "Sports", Volume: 0},
		{Ticker: "ECO-2", Category: "Economics", Volume: 7, OrderbookError: "timeout"},
	}
}

func TestTable_ReplaceAndRead(t *testing.T) {
	tbl := NewTable()
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tbl.Len())
	}
	if !tbl.LastUpdated().IsZero() {
		t.Errorf("LastUpdated() = %v, want zero", tbl.LastUpdated())
	}

	recs := sampleRecords()
	tbl.Replace(recs, refreshed)

	if tbl.Len() != len(recs) {
		t.Errorf("Len() = %d, want %d", tbl.Len(), len(recs))
	}
	if !tbl.LastUpdated().Equal(refreshed) {
		t.Errorf("LastUpdated() = %v, want %v", tbl.LastUpdated(), refreshed)
	}

	// Mutating the caller's slice or the returned copy does not touch the table.
	recs[0].Ticker = "CHANGED"
	got := tbl.Records()
	if got[0].Ticker != "POL-1" {
		t.Errorf("Records()[0] = %q, want POL-1", got[0].Ticker)
	}
	got[1].Ticker = "CHANGED"
	if tk := tbl.Records()[1].Ticker; tk != "ECO-1" {
		t.Errorf("Records()[1] = %q, want ECO-1", tk)
	}

	tbl.Replace(nil, refreshed.Add(time.Minute))
	if tbl.Len() != 0 {
		t.Errorf("Len() after empty replace = %d, want 0", tbl.Len())
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"no criteria", Criteria{}, []string{"POL-1", "ECO-1", "POL-2", "SPT-1", "ECO-2"}},
		{"category", Criteria{Category: "Politics"}, []string{"POL-1", "POL-2"}},
		{"min volume", Criteria{MinVolume: 100}, []string{"POL-1", "POL-2"}},
		{"max spread", Criteria{MaxSpreadYes: model.Int(5)}, []string{"POL-1", "POL-2"}},
		{"max spread zero", Criteria{MaxSpreadYes: model.Int(0)}, []string{}},
		{"has liquidity", Criteria{HasLiquidity: true}, []string{"POL-1", "ECO-1"}},
		{"combined", Criteria{Category: "Politics", HasLiquidity: true}, []string{"POL-1"}},
		{"unknown category", Criteria{Category: "Weather"}, []string{}},
	}

	tbl := NewTable()
	tbl.Replace(sampleRecords(), refreshed)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tickers(tbl.Filter(tt.criteria))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%+v) = %v, want %v", tt.criteria, got, tt.want)
			}
		})
	}
}

func TestFilterRecords_Idempotent(t *testing.T) {
	criteria := []Criteria{
		{Category: "Economics"},
		{MinVolume: 10, MaxSpreadYes: model.Int(20)},
		{HasLiquidity: true},
	}

	for _, c := range criteria {
		once := FilterRecords(sampleRecords(), c)
		twice := FilterRecords(once, c)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("FilterRecords(%+v) not idempotent: %v then %v", c, tickers(once), tickers(twice))
		}
	}
}

func TestStats(t *testing.T) {
	tbl := NewTable()
	tbl.Replace(sampleRecords(), refreshed)

	s, err := tbl.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if s.TotalMarkets != 5 {
		t.Errorf("TotalMarkets = %d, want 5", s.TotalMarkets)
	}
	if s.TotalVolume != 1557 {
		t.Errorf("TotalVolume = %d, want 1557", s.TotalVolume)
	}
	if s.MarketsWithLiquidity != 3 {
		t.Errorf("MarketsWithLiquidity = %d, want 3", s.MarketsWithLiquidity)
	}
	if s.LiquidityPercentage != "60.00" {
		t.Errorf("LiquidityPercentage = %q, want %q", s.LiquidityPercentage, "60.00")
	}
	if !s.LastUpdated.Equal(refreshed) {
		t.Errorf("LastUpdated = %v, want %v", s.LastUpdated, refreshed)
	}
	wantCats := []CategoryCount{
		{Category: "Politics", Count: 2},
		{Category: "Economics", Count: 2},
		{Category: "Sports", Count: 1},
	}
	if !reflect.DeepEqual(s.Categories, wantCats) {
		t.Errorf("Categories = %+v, want %+v", s.Categories, wantCats)
	}
}

func TestStats_Rounding(t *testing.T) {
	recs := []model.MarketRecord{
		liquid("A", "X", 1, 1, 2),
		{Ticker: "B", Category: "X"},
		{Ticker: "C", Category: "X"},
	}

	s, err := ComputeStats(recs, refreshed)
	if err != nil {
		t.Fatalf("ComputeStats failed: %v", err)
	}
	if s.LiquidityPercentage != "33.33" {
		t.Errorf("LiquidityPercentage = %q, want 33.33", s.LiquidityPercentage)
	}

	recs = append(recs[:1], liquid("B", "X", 1, 1, 2), recs[2])
	s, err = ComputeStats(recs, refreshed)
	if err != nil {
		t.Fatalf("ComputeStats failed: %v", err)
	}
	if s.LiquidityPercentage != "66.67" {
		t.Errorf("LiquidityPercentage = %q, want 66.67", s.LiquidityPercentage)
	}
}

func TestStats_Empty(t *testing.T) {
	if _, err := NewTable().Stats(); !errors.Is(err, ErrNoData) {
		t.Errorf("Stats() on empty table = %v, want ErrNoData", err)
	}
}

func TestExport(t *testing.T) {
	exportedAt := refreshed.Add(time.Hour)
	tbl := NewTable(WithClock(func() time.Time { return exportedAt }))

	exp := tbl.Export()
	if len(exp.Data) != 0 {
		t.Errorf("len(Data) = %d, want 0", len(exp.Data))
	}
	if exp.Metadata != nil {
		t.Errorf("Metadata = %+v, want nil", exp.Metadata)
	}
	if !exp.ExportedAt.Equal(exportedAt) {
		t.Errorf("ExportedAt = %v, want %v", exp.ExportedAt, exportedAt)
	}

	tbl.Replace(sampleRecords(), refreshed)
	exp = tbl.Export()
	if len(exp.Data) != 5 {
		t.Errorf("len(Data) = %d, want 5", len(exp.Data))
	}
	if exp.Metadata == nil {
		t.Fatal("Metadata should be set once data exists")
	}
	if exp.Metadata.TotalMarkets != 5 {
		t.Errorf("Metadata.TotalMarkets = %d, want 5", exp.Metadata.TotalMarkets)
	}
}

func TestRandomTradeable(t *testing.T) {
	var gotN int
	tbl := NewTable(WithRand(func(n int) int {
		gotN = n
		return n - 1
	}))

	if _, ok := tbl.RandomTradeable(); ok {
		t.Error("RandomTradeable() on empty table should report false")
	}

	tbl.Replace(sampleRecords(), refreshed)
	rec, ok := tbl.RandomTradeable()
	if !ok {
		t.Fatal("RandomTradeable() should find a market")
	}
	if gotN != 2 {
		t.Errorf("rand bound = %d, want 2 tradeable markets", gotN)
	}
	if rec.Ticker != "ECO-1" {
		t.Errorf("Ticker = %q, want ECO-1", rec.Ticker)
	}
	if !rec.HasLiquidity() {
		t.Error("picked market should have liquidity")
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTable().WriteSummary(&buf); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No market data available") {
		t.Errorf("empty summary = %q", buf.String())
	}

	tbl := NewTable()
	tbl.Replace(sampleRecords(), refreshed)

	buf.Reset()
	if err := tbl.WriteSummary(&buf); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"KALSHI MARKETS SUMMARY", "3 (60.00%)", "2024-01-15T12:00:00Z", "Politics", "Sports"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestTable_ConcurrentAccess(t *testing.T) {
	tbl := NewTable()
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tbl.Replace(sampleRecords(), refreshed)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tbl.Filter(Criteria{HasLiquidity: true})
				_, _ = tbl.Stats()
				_ = tbl.Export()
			}
		}()
	}

	wg.Wait()
	if tbl.Len() != 5 {
		t.Errorf("Len() = %d, want 5", tbl.Len())
	}
}

func tickers(recs []model.MarketRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Ticker)
	}
	return out
}
