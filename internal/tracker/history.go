// ABOUTME: Profile tracking history with per-metric summary statistics
// ABOUTME: Filters are validated before any query runs; averages use decimal rounding

package tracker

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/2389/calorie-gateway/internal/store"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// HistoryQuery selects tracking rows. Date is exclusive with StartDate/EndDate.
// Nil Limit/Offset take their defaults.
type HistoryQuery struct {
	Date      string
	StartDate string
	EndDate   string
	Limit     *int
	Offset    *int
}

// DateRange echoes a start/end filter.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// QueryInfo describes how a history result was produced.
type QueryInfo struct {
	TotalEntries int        `json:"total_entries"`
	DateFilter   string     `json:"date_filter,omitempty"`
	DateRange    *DateRange `json:"date_range"`
	Limit        int        `json:"limit"`
	Offset       int        `json:"offset"`
}

// MetricStats summarises one measurement over a result set. Current is the
// value from the most recent row that has it.
type MetricStats struct {
	Current      float64 `json:"current"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Average      float64 `json:"average"`
	EntriesCount int     `json:"entries_count"`
}

// Statistics holds summaries for each measurement present in the result set.
type Statistics struct {
	Weight     *MetricStats `json:"weight,omitempty"`
	BodyFat    *MetricStats `json:"body_fat,omitempty"`
	MuscleMass *MetricStats `json:"muscle_mass,omitempty"`
}

// History is the result of ProfileHistory.
type History struct {
	TrackingHistory []*store.ProfileTracking `json:"tracking_history"`
	Statistics      *Statistics              `json:"statistics"`
	QueryInfo       QueryInfo                `json:"query_info"`
}

// pagination resolves optional limit/offset to concrete values, collecting problems.
func pagination(limit, offset *int, problems []string) (int, int, []string) {
	l, o := defaultLimit, 0
	if limit != nil {
		l = *limit
		if l < 1 || l > maxLimit {
			problems = append(problems, "limit must be between 1 and 100.")
		}
	}
	if offset != nil {
		o = *offset
		if o < 0 {
			problems = append(problems, "offset cannot be negative.")
		}
	}
	return l, o, problems
}

func (q HistoryQuery) validate() (limit, offset int, err error) {
	var problems []string
	for _, d := range []struct{ name, value string }{
		{"date", q.Date}, {"start_date", q.StartDate}, {"end_date", q.EndDate},
	} {
		if d.value != "" && !validDate(d.value) {
			problems = append(problems, d.name+" must be in YYYY-MM-DD format.")
		}
	}
	if len(problems) == 0 && q.StartDate != "" && q.EndDate != "" && q.StartDate > q.EndDate {
		problems = append(problems, "start_date cannot be later than end_date")
	}
	if q.Date != "" && (q.StartDate != "" || q.EndDate != "") {
		problems = append(problems, "Cannot use date parameter with start_date or end_date. Use either date for specific day or start_date/end_date for range.")
	}

	limit, offset, problems = pagination(q.Limit, q.Offset, problems)
	if len(problems) > 0 {
		return 0, 0, validationError(problems...)
	}
	return limit, offset, nil
}

// ProfileHistory returns tracking rows matching q, newest first, with statistics.
func (s *Service) ProfileHistory(ctx context.Context, userID string, q HistoryQuery) (*History, error) {
	limit, offset, err := q.validate()
	if err != nil {
		return nil, err
	}

	st, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	rows, err := st.ListTracking(ctx, userID, store.TrackingFilter{
		Date:      q.Date,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, s.storageFailure("get profile history", err, "user_id", userID)
	}
	if rows == nil {
		rows = []*store.ProfileTracking{}
	}

	info := QueryInfo{
		TotalEntries: len(rows),
		DateFilter:   q.Date,
		Limit:        limit,
		Offset:       offset,
	}
	if q.StartDate != "" && q.EndDate != "" {
		info.DateRange = &DateRange{Start: q.StartDate, End: q.EndDate}
	}

	return &History{
		TrackingHistory: rows,
		Statistics:      computeStatistics(rows),
		QueryInfo:       info,
	}, nil
}

// computeStatistics summarises rows, which must be ordered newest first.
// Returns nil when no row carries any measurement.
func computeStatistics(rows []*store.ProfileTracking) *Statistics {
	if len(rows) == 0 {
		return nil
	}

	var weights, fats, muscles []float64
	for _, r := range rows {
		if r.WeightKG != nil {
			weights = append(weights, *r.WeightKG)
		}
		if r.BodyFatPercentage != nil {
			fats = append(fats, *r.BodyFatPercentage)
		}
		if r.MuscleMassKG != nil {
			muscles = append(muscles, *r.MuscleMassKG)
		}
	}

	stats := &Statistics{
		Weight:     summarise(weights),
		BodyFat:    summarise(fats),
		MuscleMass: summarise(muscles),
	}
	if stats.Weight == nil && stats.BodyFat == nil && stats.MuscleMass == nil {
		return nil
	}
	return stats
}

func summarise(values []float64) *MetricStats {
	if len(values) == 0 {
		return nil
	}

	ms := &MetricStats{
		Current:      values[0],
		Min:          values[0],
		Max:          values[0],
		EntriesCount: len(values),
	}
	sum := decimal.Zero
	for _, v := range values {
		ms.Min = min(ms.Min, v)
		ms.Max = max(ms.Max, v)
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	ms.Average = sum.Div(decimal.NewFromInt(int64(len(values)))).Round(2).InexactFloat64()
	return ms
}
