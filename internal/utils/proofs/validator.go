// Package proofs checks proof-of-work submissions before a task goes to review.
package proofs

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
)

const (
	MinPhotos = 3
	MinVideos = 1
)

// CountRuleMessage is reported when no sufficiency rule is met.
var CountRuleMessage = fmt.Sprintf("insufficient proof: need at least %d photos, %d video, or a completed checklist", MinPhotos, MinVideos)

// NoStartDateMessage is reported when the task has no start date to check timestamps against.
const NoStartDateMessage = "task has no start date; proof timestamps cannot be verified"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a device timestamp in any accepted layout. Layouts
// without a zone are read as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

// Validate checks a candidate proof set for task. Every problem is collected
// so the submitter sees all of them at once.
func Validate(task domain.Task, proofs []domain.Proof) domain.ProofValidation {
	if task.StartDate == nil {
		return domain.ProofValidation{Valid: false, Errors: []string{NoStartDateMessage}}
	}
	start := *task.StartDate

	var errs []string
	photos, videos := 0, 0
	for _, p := range proofs {
		switch p.Type {
		case domain.ProofPhoto:
			photos++
		case domain.ProofVideo:
			videos++
		}
	}
	if photos < MinPhotos && videos < MinVideos && !task.ChecklistComplete() {
		errs = append(errs, CountRuleMessage)
	}

	for i, p := range proofs {
		errs = append(errs, validateItem(i, p, start)...)
	}

	return domain.ProofValidation{Valid: len(errs) == 0, Errors: errs}
}

func validateItem(i int, p domain.Proof, start time.Time) []string {
	var errs []string
	label := fmt.Sprintf("proof %d (%s)", i+1, p.Type)

	switch {
	case p.GPS == nil:
		errs = append(errs, label+": GPS location is required")
	default:
		if p.GPS.Latitude < -90 || p.GPS.Latitude > 90 {
			errs = append(errs, fmt.Sprintf("%s: latitude %v out of range [-90,90]", label, p.GPS.Latitude))
		}
		if p.GPS.Longitude < -180 || p.GPS.Longitude > 180 {
			errs = append(errs, fmt.Sprintf("%s: longitude %v out of range [-180,180]", label, p.GPS.Longitude))
		}
	}

	if strings.TrimSpace(p.Timestamp) == "" {
		errs = append(errs, label+": timestamp is required")
	} else if ts, err := ParseTimestamp(p.Timestamp); err != nil {
		errs = append(errs, fmt.Sprintf("%s: timestamp %q is not a valid date", label, p.Timestamp))
	} else if ts.Before(start) {
		errs = append(errs, fmt.Sprintf("%s: timestamp %s is before the task start date %s", label, ts.Format(time.RFC3339), start.Format(time.RFC3339)))
	}

	if strings.TrimSpace(p.URL) == "" {
		errs = append(errs, label+": url is required")
	}
	// Video thumbnails are optional.
	return errs
}
