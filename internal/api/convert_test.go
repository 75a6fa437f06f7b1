package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  *time.Time
	}{
		{"2024-01-15T12:30:45Z", ptrTime(time.Date(2024, 1, 15, 12, 30, 45, 0, time.UTC))},
		{"2024-01-15T12:30:45", ptrTime(time.Date(2024, 1, 15, 12, 30, 45, 0, time.UTC))},
		{"2024-01-15T07:30:45-05:00", ptrTime(time.Date(2024, 1, 15, 12, 30, 45, 0, time.UTC))},
		{"", nil},
		{"invalid", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseTimestamp(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseTimestamp(%q) = %v, want nil", tt.input, *got)
			case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, *tt.want)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestAPIMarket_ToModel(t *testing.T) {
	t.Run("subtitle preferred", func(t *testing.T) {
		am := APIMarket{Ticker: "T", Title: "Title", Subtitle: "Sub", Volume: 5, OpenInterest: 2}
		m := am.ToModel()
		if m.Title != "Sub" {
			t.Errorf("Title = %q, want %q", m.Title, "Sub")
		}
		if m.Volume != 5 || m.OpenInterest != 2 {
			t.Errorf("Volume/OpenInterest = %d/%d", m.Volume, m.OpenInterest)
		}
	})

	t.Run("falls back to title then empty", func(t *testing.T) {
		if got := (&APIMarket{Title: "Title"}).ToModel().Title; got != "Title" {
			t.Errorf("Title = %q, want %q", got, "Title")
		}
		if got := (&APIMarket{}).ToModel().Title; got != "" {
			t.Errorf("Title = %q, want empty", got)
		}
	})

	t.Run("missing numeric fields", func(t *testing.T) {
		var am APIMarket
		if err := json.Unmarshal([]byte(`{"ticker":"T"}`), &am); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		m := am.ToModel()
		if m.Volume != 0 || m.OpenInterest != 0 {
			t.Errorf("Volume/OpenInterest = %d/%d, want 0/0", m.Volume, m.OpenInterest)
		}
		if m.LastPrice != nil {
			t.Errorf("LastPrice = %d, want nil", *m.LastPrice)
		}
		if m.OpenTime != nil {
			t.Errorf("OpenTime = %v, want nil", m.OpenTime)
		}
	})

	t.Run("last price present", func(t *testing.T) {
		var am APIMarket
		json.Unmarshal([]byte(`{"ticker":"T","last_price":0,"close_time":"2025-01-01T00:00:00Z"}`), &am)
		m := am.ToModel()
		if m.LastPrice == nil || *m.LastPrice != 0 {
			t.Errorf("LastPrice = %v, want 0", m.LastPrice)
		}
		if m.CloseTime == nil {
			t.Error("CloseTime should be parsed")
		}
	})
}

func TestOrderbookResponse_Top(t *testing.T) {
	t.Run("full levels", func(t *testing.T) {
		ob := OrderbookResponse{Orderbook: APIOrderbook{
			Yes: [][]int{{40, 45, 10, 20}, {39, 46, 1, 1}},
			No:  [][]int{{55, 60, 7, 8}},
		}}
		top := ob.Top()
		if *top.Yes.Bid != 40 || *top.Yes.Ask != 45 || *top.Yes.BidSize != 10 || *top.Yes.AskSize != 20 {
			t.Errorf("Yes = %+v", top.Yes)
		}
		if *top.No.Bid != 55 || *top.No.Ask != 60 {
			t.Errorf("No = %+v", top.No)
		}
	})

	t.Run("empty and missing sides are nil", func(t *testing.T) {
		ob := OrderbookResponse{Orderbook: APIOrderbook{Yes: [][]int{}}}
		top := ob.Top()
		if top.Yes.Bid != nil || top.Yes.Ask != nil || top.Yes.BidSize != nil || top.Yes.AskSize != nil {
			t.Errorf("Yes = %+v, want all nil", top.Yes)
		}
		if top.No.Bid != nil || top.No.Ask != nil {
			t.Errorf("No = %+v, want all nil", top.No)
		}
	})

	t.Run("short level", func(t *testing.T) {
		ob := OrderbookResponse{Orderbook: APIOrderbook{Yes: [][]int{{40, 120}}}}
		top := ob.Top()
		if top.Yes.Bid == nil || *top.Yes.Bid != 40 {
			t.Errorf("Bid = %v, want 40", top.Yes.Bid)
		}
		if top.Yes.BidSize != nil || top.Yes.AskSize != nil {
			t.Errorf("sizes should be nil for a two-element level: %+v", top.Yes)
		}
	})
}
