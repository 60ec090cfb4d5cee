// Package stats provides descriptive statistics over a single column of
// values.
//
// Every function takes the values already extracted for one column. The
// numeric functions expect numbers only; callers filter columns with
// OnlyNumberColumnFilter first. A non-number in the input makes the numeric
// functions return NaN.
//
//	ages := []core.Value{core.Number(30), core.Number(25), core.Number(35)}
//	stats.Mean(ages)     // 30
//	stats.Median(ages)   // 30
//	stats.Variance(ages) // population variance
package stats

import (
	"math"
	"sort"

	"github.com/nickyhof/CommitFrame/core"
)

// Frequency is the number of occurrences of one stringified value.
type Frequency struct {
	Value string
	Count int
}

// Count returns the number of values, whatever their kind.
func Count(values []core.Value) int {
	return len(values)
}

// floats extracts the numeric payloads. ok is false if any value is not a
// number.
func floats(values []core.Value) (nums []float64, ok bool) {
	nums = make([]float64, len(values))
	for i, v := range values {
		n, isNum := v.Float()
		if !isNum {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}

func Sum(values []core.Value) float64 {
	nums, ok := floats(values)
	if !ok {
		return math.NaN()
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return sum
}

// Min returns the smallest number, or +Inf for an empty input.
func Min(values []core.Value) float64 {
	nums, ok := floats(values)
	if !ok {
		return math.NaN()
	}
	minVal := math.Inf(1)
	for _, n := range nums {
		if n < minVal {
			minVal = n
		}
	}
	return minVal
}

// Max returns the largest number, or -Inf for an empty input.
func Max(values []core.Value) float64 {
	nums, ok := floats(values)
	if !ok {
		return math.NaN()
	}
	maxVal := math.Inf(-1)
	for _, n := range nums {
		if n > maxVal {
			maxVal = n
		}
	}
	return maxVal
}

func Mean(values []core.Value) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return Sum(values) / float64(Count(values))
}

// Median returns the middle value of the sorted input, or the average of
// the two central values for an even count.
func Median(values []core.Value) float64 {
	nums, ok := floats(values)
	if !ok || len(nums) == 0 {
		return math.NaN()
	}
	sort.Float64s(nums)

	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return nums[mid]
	}
	return (nums[mid-1] + nums[mid]) / 2
}

// Mode counts the occurrences of every stringified value. Values that are
// array indexes (canonical non-negative integers below 2^32-1) come first in
// ascending numeric order; every other value follows in order of first
// occurrence.
func Mode(values []core.Value) []Frequency {
	index := make(map[string]int)
	var freqs []Frequency
	for _, v := range values {
		key := v.String()
		if i, ok := index[key]; ok {
			freqs[i].Count++
			continue
		}
		index[key] = len(freqs)
		freqs = append(freqs, Frequency{Value: key, Count: 1})
	}

	sort.SliceStable(freqs, func(i, j int) bool {
		a, aok := arrayIndex(freqs[i].Value)
		b, bok := arrayIndex(freqs[j].Value)
		if aok && bok {
			return a < b
		}
		return aok && !bok
	})
	return freqs
}

// arrayIndex parses s as a canonical array index: digits only, no leading
// zero unless s is "0", and below 2^32-1.
func arrayIndex(s string) (uint64, bool) {
	if s == "" || len(s) > 10 || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
	}
	return n, n < math.MaxUint32
}

// ResolveModes picks the modes from a frequency list. When every value
// occurs equally often, all of them are modes; otherwise the values with
// the highest count are.
func ResolveModes(freqs []Frequency) []string {
	if len(freqs) == 0 {
		return []string{}
	}

	maxCount := 0
	allSame := true
	for i, f := range freqs {
		if i > 0 && f.Count != freqs[0].Count {
			allSame = false
		}
		if f.Count > maxCount {
			maxCount = f.Count
		}
	}

	modes := make([]string, 0, len(freqs))
	for _, f := range freqs {
		if allSame || f.Count == maxCount {
			modes = append(modes, f.Value)
		}
	}
	return modes
}

// Variance returns the population variance (divisor N).
func Variance(values []core.Value) float64 {
	return variance(values, 0)
}

// StandardDeviation returns the square root of the population variance.
func StandardDeviation(values []core.Value) float64 {
	return math.Sqrt(Variance(values))
}

// SampleVariance returns the sample variance (divisor N-1). It is NaN for
// fewer than two values.
func SampleVariance(values []core.Value) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return variance(values, 1)
}

// SampleStandardDeviation returns the square root of the sample variance.
func SampleStandardDeviation(values []core.Value) float64 {
	return math.Sqrt(SampleVariance(values))
}

func variance(values []core.Value, ddof int) float64 {
	nums, ok := floats(values)
	if !ok || len(nums) == 0 {
		return math.NaN()
	}

	mean := 0.0
	for _, n := range nums {
		mean += n
	}
	mean /= float64(len(nums))

	squares := 0.0
	for _, n := range nums {
		d := n - mean
		squares += d * d
	}
	return squares / float64(len(nums)-ddof)
}

// OnlyNumberColumnFilter keeps the candidate columns whose type is number,
// in candidate order. It returns an empty slice if either input is empty.
func OnlyNumberColumnFilter(types map[string]core.Kind, candidates []string) []string {
	columns := []string{}
	if len(types) == 0 || len(candidates) == 0 {
		return columns
	}
	for _, c := range candidates {
		if kind, ok := types[c]; ok && kind == core.NumberKind {
			columns = append(columns, c)
		}
	}
	return columns
}
