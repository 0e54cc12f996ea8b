package streak

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/julianstephens/learnlit/internal/models"
)

type logRecord struct {
	DayKey int              `json:"yyyymmdd"`
	Status models.DayStatus `json:"status"`
}

// EncodeLogs serializes logs as a JSON array ordered by day key.
func EncodeLogs(logs map[DayKey]models.DayStatus) ([]byte, error) {
	records := make([]logRecord, 0, len(logs))
	for _, k := range SortedDays(logs) {
		records = append(records, logRecord{DayKey: int(k), Status: logs[k]})
	}
	return json.Marshal(records)
}

// LogEntry is one persisted day record, as stored.
type LogEntry struct {
	Day    DayKey
	Status models.DayStatus
}

// DecodeLogEntries parses the payload without validating or collapsing
// repeated days.
func DecodeLogEntries(data []byte) ([]LogEntry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var records []logRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}
	entries := make([]LogEntry, len(records))
	for i, r := range records {
		entries[i] = LogEntry{Day: DayKey(r.DayKey), Status: r.Status}
	}
	return entries, nil
}

// DecodeLogs parses a payload written by EncodeLogs. An empty payload is an
// empty log. Unknown statuses and impossible dates are errors; a repeated day
// keeps its last entry.
func DecodeLogs(data []byte) (map[DayKey]models.DayStatus, error) {
	entries, err := DecodeLogEntries(data)
	if err != nil {
		return nil, err
	}

	logs := make(map[DayKey]models.DayStatus, len(entries))
	for _, e := range entries {
		if !e.Day.Valid() {
			return nil, fmt.Errorf("decode logs: invalid day key %d", int(e.Day))
		}
		if !e.Status.Valid() {
			return nil, fmt.Errorf("decode logs: invalid status %q on %s", e.Status, e.Day)
		}
		logs[e.Day] = e.Status
	}
	return logs, nil
}

// SortedDays returns the keys of logs in ascending order.
func SortedDays(logs map[DayKey]models.DayStatus) []DayKey {
	days := make([]DayKey, 0, len(logs))
	for k := range logs {
		days = append(days, k)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}
