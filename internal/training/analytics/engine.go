// Package analytics computes adherence and progress aggregates over a
// user's training records. All computations are pure functions over
// already-fetched collections; fetching and caching live in the
// handler.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/ksasaki/traininglog/internal/training/menus"
	"github.com/ksasaki/traininglog/internal/training/records"
)

type WeeklyFrequency struct {
	WeekStartDate string `json:"weekStartDate"`
	Count         int    `json:"count"`
}

type MonthlyFrequency struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type ProgressPoint struct {
	Date          string  `json:"date"`
	MaxWeight     float64 `json:"maxWeight"`
	TotalReps     int     `json:"totalReps"`
	Volume        float64 `json:"volume"`
	AverageWeight float64 `json:"averageWeight"`
	AverageReps   float64 `json:"averageReps"`
}

type MuscleGroupStats struct {
	MuscleGroup   string  `json:"muscleGroup"`
	Sessions      int     `json:"sessions"`
	TotalVolume   float64 `json:"totalVolume"`
	AverageWeight float64 `json:"averageWeight"`
	LastTrained   string  `json:"lastTrained"`
}

// FilterRecentRecords keeps records dated within the last `days` days.
// The reference time is taken once, as a parameter, so every record is
// compared against the same cutoff.
func FilterRecentRecords(recordList []records.Record, days int, now time.Time) []records.Record {
	cutoff := now.AddDate(0, 0, -days)

	var recent []records.Record
	for _, record := range recordList {
		date, err := time.Parse(records.DateLayout, record.Date)
		if err != nil {
			continue
		}
		if !date.Before(cutoff) {
			recent = append(recent, record)
		}
	}
	return recent
}

// CalculateWeeklyFrequency buckets records by the Monday starting their
// week. A Sunday record belongs to the week begun six days earlier.
// Only non-empty buckets appear, sorted ascending by week start.
func CalculateWeeklyFrequency(recordList []records.Record) []WeeklyFrequency {
	buckets := make(map[string]int)
	for _, record := range recordList {
		date, err := time.Parse(records.DateLayout, record.Date)
		if err != nil {
			continue
		}
		buckets[weekStartOf(date)]++
	}

	frequencies := make([]WeeklyFrequency, 0, len(buckets))
	for weekStart, count := range buckets {
		frequencies = append(frequencies, WeeklyFrequency{WeekStartDate: weekStart, Count: count})
	}
	sort.Slice(frequencies, func(i, j int) bool {
		return frequencies[i].WeekStartDate < frequencies[j].WeekStartDate
	})
	return frequencies
}

func weekStartOf(date time.Time) string {
	offset := int(date.Weekday())
	if offset == 0 {
		offset = 7
	}
	return date.AddDate(0, 0, 1-offset).Format(records.DateLayout)
}

// CalculateMonthlyFrequency buckets records by calendar month
// (YYYY-MM), sorted ascending, sparse like the weekly series.
func CalculateMonthlyFrequency(recordList []records.Record) []MonthlyFrequency {
	buckets := make(map[string]int)
	for _, record := range recordList {
		date, err := time.Parse(records.DateLayout, record.Date)
		if err != nil {
			continue
		}
		buckets[date.Format("2006-01")]++
	}

	frequencies := make([]MonthlyFrequency, 0, len(buckets))
	for month, count := range buckets {
		frequencies = append(frequencies, MonthlyFrequency{Month: month, Count: count})
	}
	sort.Slice(frequencies, func(i, j int) bool {
		return frequencies[i].Month < frequencies[j].Month
	})
	return frequencies
}

// CalculateProgress computes one point per record with at least one
// set, sorted ascending by date. Records without sets are skipped.
func CalculateProgress(recordList []records.Record) []ProgressPoint {
	points := make([]ProgressPoint, 0, len(recordList))
	for _, record := range recordList {
		if len(record.Sets) == 0 {
			continue
		}

		var (
			maxWeight    float64
			totalReps    int
			volume       float64
			weightsTotal float64
		)
		for _, set := range record.Sets {
			if set.Weight > maxWeight {
				maxWeight = set.Weight
			}
			totalReps += set.Reps
			volume += set.Weight * float64(set.Reps)
			weightsTotal += set.Weight
		}

		setCount := float64(len(record.Sets))
		points = append(points, ProgressPoint{
			Date:          record.Date,
			MaxWeight:     maxWeight,
			TotalReps:     totalReps,
			Volume:        volume,
			AverageWeight: weightsTotal / setCount,
			AverageReps:   float64(totalReps) / setCount,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

type muscleGroupRule struct {
	group    string
	keywords []string
}

// Inference rules are evaluated in order; the first matching rule wins,
// so "bench press" lands on Chest before the press rule is reached.
var muscleGroupRules = []muscleGroupRule{
	{"Chest", []string{"bench", "push", "chest", "ベンチ", "プッシュ", "胸"}},
	{"Legs", []string{"squat", "leg", "スクワット", "レッグ", "脚"}},
	{"Back", []string{"deadlift", "back", "row", "デッドリフト", "ロウ", "背"}},
	{"Shoulders", []string{"shoulder", "press", "ショルダー", "プレス", "肩"}},
	{"Arms", []string{"curl", "arm", "カール", "アーム", "腕"}},
	{"Abs", []string{"abs", "core", "crunch", "腹", "アブ", "クランチ"}},
}

// InferMuscleGroup maps a menu name to a muscle group label by
// case-insensitive keyword matching. Unmatched names map to "Other".
func InferMuscleGroup(menuName string) string {
	name := strings.ToLower(menuName)
	for _, rule := range muscleGroupRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(name, keyword) {
				return rule.group
			}
		}
	}
	return "Other"
}

// CalculateMuscleGroupStats aggregates sessions per inferred muscle
// group. Records whose menu is missing, or which carry no sets, are
// skipped silently. The average weight is the mean over every
// accumulated set weight, not a mean of per-record means. Output is
// sorted by session count descending, ties by group name.
func CalculateMuscleGroupStats(recordList []records.Record, menuList []menus.Menu) []MuscleGroupStats {
	menusByID := make(map[string]menus.Menu, len(menuList))
	for _, menu := range menuList {
		menusByID[menu.ID] = menu
	}

	type accumulator struct {
		sessions    int
		totalVolume float64
		weights     []float64
		lastTrained string
	}
	groups := make(map[string]*accumulator)

	for _, record := range recordList {
		menu, ok := menusByID[record.MenuID]
		if !ok || len(record.Sets) == 0 {
			continue
		}

		group := InferMuscleGroup(menu.Name)
		acc := groups[group]
		if acc == nil {
			acc = &accumulator{}
			groups[group] = acc
		}

		acc.sessions++
		for _, set := range record.Sets {
			acc.totalVolume += set.Weight * float64(set.Reps)
			acc.weights = append(acc.weights, set.Weight)
		}
		if record.Date > acc.lastTrained {
			acc.lastTrained = record.Date
		}
	}

	stats := make([]MuscleGroupStats, 0, len(groups))
	for group, acc := range groups {
		var weightsTotal float64
		for _, weight := range acc.weights {
			weightsTotal += weight
		}
		stats = append(stats, MuscleGroupStats{
			MuscleGroup:   group,
			Sessions:      acc.sessions,
			TotalVolume:   acc.totalVolume,
			AverageWeight: weightsTotal / float64(len(acc.weights)),
			LastTrained:   acc.lastTrained,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Sessions != stats[j].Sessions {
			return stats[i].Sessions > stats[j].Sessions
		}
		return stats[i].MuscleGroup < stats[j].MuscleGroup
	})
	return stats
}
