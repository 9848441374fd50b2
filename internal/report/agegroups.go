// Package report builds the PDF patient report: an age-distribution pie
// chart followed by the master patient list.
package report

import (
	"time"

	"pmrs/internal/domain/patient"
)

// BucketCount is one slice of the age distribution.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type ageBucket struct {
	label string
	max   int // inclusive upper bound; -1 means unbounded
}

// The five reporting buckets, in display order.
var ageBuckets = []ageBucket{
	{"0-12", 12},
	{"13-19", 19},
	{"20-35", 35},
	{"36-59", 59},
	{"60+", -1},
}

// GroupByAge counts patients per age bucket as of the reference time.
// Every bucket appears in the result, including empty ones.
func GroupByAge(patients []*patient.Patient, now time.Time) []BucketCount {
	counts := make([]BucketCount, len(ageBuckets))
	for i, b := range ageBuckets {
		counts[i].Label = b.label
	}

	for _, p := range patients {
		age := patient.AgeAt(p.BirthDate, now)
		for i, b := range ageBuckets {
			if b.max < 0 || age <= b.max {
				counts[i].Count++
				break
			}
		}
	}

	return counts
}
