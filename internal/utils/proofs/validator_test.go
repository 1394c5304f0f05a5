package proofs

import (
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startDate = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func taskWithStart() domain.Task {
	start := startDate
	return domain.Task{TaskID: "t1", StartDate: &start}
}

func photo(ts string) domain.Proof {
	return domain.Proof{
		Type:      domain.ProofPhoto,
		URL:       "https://media.example.com/p.jpg",
		GPS:       &domain.GPS{Latitude: 12.97, Longitude: 77.59},
		Timestamp: ts,
	}
}

func containsError(errs []string, fragment string) bool {
	for _, e := range errs {
		if strings.Contains(e, fragment) {
			return true
		}
	}
	return false
}

func TestValidate_ThreePhotosPass(t *testing.T) {
	ts := "2024-05-02T10:00:00Z"
	result := Validate(taskWithStart(), []domain.Proof{photo(ts), photo(ts), photo(ts)})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_TwoPhotosFailCountRule(t *testing.T) {
	ts := "2024-05-02T10:00:00Z"
	result := Validate(taskWithStart(), []domain.Proof{photo(ts), photo(ts)})
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, CountRuleMessage)
}

func TestValidate_SingleVideoPasses(t *testing.T) {
	video := photo("2024-05-02")
	video.Type = domain.ProofVideo
	result := Validate(taskWithStart(), []domain.Proof{video})
	assert.True(t, result.Valid, "video without thumbnail is accepted: %v", result.Errors)
}

func TestValidate_CompletedChecklistPasses(t *testing.T) {
	task := taskWithStart()
	task.Checklist = []domain.ChecklistItem{{Label: "shuttering", Completed: true}, {Label: "curing", Completed: true}}
	assert.True(t, Validate(task, nil).Valid)

	task.Checklist[1].Completed = false
	result := Validate(task, nil)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, CountRuleMessage)
}

func TestValidate_NoStartDateFailsOutright(t *testing.T) {
	result := Validate(domain.Task{TaskID: "t1"}, []domain.Proof{photo("bad"), photo("bad"), photo("bad")})
	assert.False(t, result.Valid)
	assert.Equal(t, []string{NoStartDateMessage}, result.Errors)
}

func TestValidate_ReportsEveryItemProblem(t *testing.T) {
	noGPS := photo("2024-05-02T10:00:00Z")
	noGPS.GPS = nil

	badCoords := photo("2024-05-02T10:00:00Z")
	badCoords.GPS = &domain.GPS{Latitude: 91, Longitude: -181}

	early := photo("2024-04-30T23:59:59Z")
	early.URL = "   "

	unparseable := photo("yesterday")
	missingTS := photo("")

	result := Validate(taskWithStart(), []domain.Proof{noGPS, badCoords, early, unparseable, missingTS})
	require.False(t, result.Valid)

	assert.NotContains(t, result.Errors, CountRuleMessage, "five photos satisfy the count rule")
	assert.True(t, containsError(result.Errors, "proof 1 (photo): GPS location is required"))
	assert.True(t, containsError(result.Errors, "proof 2 (photo): latitude 91"))
	assert.True(t, containsError(result.Errors, "proof 2 (photo): longitude -181"))
	assert.True(t, containsError(result.Errors, "proof 3 (photo): timestamp 2024-04-30T23:59:59Z is before"))
	assert.True(t, containsError(result.Errors, "proof 3 (photo): url is required"))
	assert.True(t, containsError(result.Errors, `proof 4 (photo): timestamp "yesterday" is not a valid date`))
	assert.True(t, containsError(result.Errors, "proof 5 (photo): timestamp is required"))
	assert.Len(t, result.Errors, 7)
}

func TestValidate_CountAndItemErrorsTogether(t *testing.T) {
	bad := photo("2024-05-02T10:00:00Z")
	bad.URL = ""
	result := Validate(taskWithStart(), []domain.Proof{bad})
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, CountRuleMessage, result.Errors[0])
}

func TestValidate_BoundaryCoordinatesAndStartInstant(t *testing.T) {
	edge := photo(startDate.Format(time.RFC3339))
	edge.GPS = &domain.GPS{Latitude: -90, Longitude: 180}
	result := Validate(taskWithStart(), []domain.Proof{edge, edge, edge})
	assert.True(t, result.Valid, "%v", result.Errors)
}

func TestParseTimestamp(t *testing.T) {
	for _, raw := range []string{
		"2024-05-02T10:00:00Z",
		"2024-05-02T10:00:00.123456Z",
		"2024-05-02T10:00:00+05:30",
		"2024-05-02T10:00:00",
		"2024-05-02 10:00:00",
		"2024-05-02",
	} {
		_, err := ParseTimestamp(raw)
		assert.NoError(t, err, raw)
	}
	_, err := ParseTimestamp("02/05/2024")
	assert.Error(t, err)
}
