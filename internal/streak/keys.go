package streak

import (
	"strings"

	"github.com/julianstephens/learnlit/internal/models"
)

// KeyPrefix starts every key a tracker writes.
const KeyPrefix = "learn-"

const (
	suffixLogs     = "-logs"
	suffixLearned  = "-learned"
	suffixFrozen   = "-frozen"
	suffixLastDate = "-lastDate"
)

// Keys names the four storage entries of one goal.
type Keys struct {
	Prefix   string
	Logs     string
	Learned  string
	Frozen   string
	LastDate string
}

// KeysFor builds the "learn-{subject}-{period}" namespace.
func KeysFor(subject string, period models.Period) Keys {
	prefix := KeyPrefix + subject + "-" + string(period)
	return Keys{
		Prefix:   prefix,
		Logs:     prefix + suffixLogs,
		Learned:  prefix + suffixLearned,
		Frozen:   prefix + suffixFrozen,
		LastDate: prefix + suffixLastDate,
	}
}

// All returns every key in the namespace.
func (k Keys) All() []string {
	return []string{k.Logs, k.Learned, k.Frozen, k.LastDate}
}

// NamespaceOf returns the "learn-{subject}-{period}" part of a tracker key.
func NamespaceOf(key string) (string, bool) {
	if !strings.HasPrefix(key, KeyPrefix) {
		return "", false
	}
	for _, suffix := range []string{suffixLogs, suffixLearned, suffixFrozen, suffixLastDate} {
		if ns, ok := strings.CutSuffix(key, suffix); ok && len(ns) > len(KeyPrefix) {
			return ns, true
		}
	}
	return "", false
}
