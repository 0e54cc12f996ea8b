// Package storagetest holds the behavior every storage.Provider must share.
// Each backend's tests call Run with a constructor for an initialized store.
package storagetest

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/storage"
)

// Run exercises p's key-value, settings and goal operations. newStore must
// return an initialized, empty store and register its own cleanup.
func Run(t *testing.T, newStore func(t *testing.T) storage.Provider) {
	t.Run("KeyValue", func(t *testing.T) { testKeyValue(t, newStore(t)) })
	t.Run("Keys", func(t *testing.T) { testKeys(t, newStore(t)) })
	t.Run("Settings", func(t *testing.T) { testSettings(t, newStore(t)) })
	t.Run("Goals", func(t *testing.T) { testGoals(t, newStore(t)) })
	t.Run("Values", func(t *testing.T) { testValues(t, newStore(t)) })
}

func testKeyValue(t *testing.T, s storage.Provider) {
	if _, err := s.Get("learn-go-Week-logs"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get on missing key: got %v, want ErrNotFound", err)
	}

	payload := []byte(`[{"yyyymmdd":20250101,"status":"learned"}]`)
	if err := s.Set("learn-go-Week-logs", payload); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get("learn-go-Week-logs")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Get = %q, want %q", got, payload)
	}

	if err := s.Set("learn-go-Week-logs", []byte("[]")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _ = s.Get("learn-go-Week-logs")
	if string(got) != "[]" {
		t.Errorf("overwrite not visible, got %q", got)
	}

	if err := s.Delete("learn-go-Week-logs"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get("learn-go-Week-logs"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get after Delete: got %v, want ErrNotFound", err)
	}
	if err := s.Delete("learn-go-Week-logs"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}

func testKeys(t *testing.T, s storage.Provider) {
	for _, k := range []string{
		"learn-go-Week-learned",
		"learn-go-Week-frozen",
		"learn-go-Month-learned",
		"learn-rust-Week-learned",
	} {
		if err := s.Set(k, []byte("1")); err != nil {
			t.Fatalf("Set(%s) failed: %v", k, err)
		}
	}

	keys, err := s.Keys("learn-go-Week")
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	want := []string{"learn-go-Week-frozen", "learn-go-Week-learned"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys = %v, want %v", keys, want)
	}

	// prefix characters that are wildcards in SQL LIKE match literally
	if err := s.Set("learn-a_b-Week-learned", []byte("1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("learn-axb-Week-learned", []byte("1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	keys, err = s.Keys("learn-a_b-")
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "learn-a_b-Week-learned" {
		t.Errorf("Keys with wildcard characters = %v", keys)
	}
}

func testSettings(t *testing.T, s storage.Provider) {
	settings, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("fresh settings = %+v, want defaults", settings)
	}

	updated := models.Settings{Timezone: "America/New_York", NotificationsEnabled: false, ActiveGoalID: "goal-1"}
	if err := s.SaveSettings(updated); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	got, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got != updated {
		t.Errorf("GetSettings = %+v, want %+v", got, updated)
	}
}

func testGoals(t *testing.T, s storage.Provider) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	first := models.Goal{ID: "goal-1", Subject: "Go", Period: models.PeriodWeek, CreatedAt: created}
	second := models.Goal{ID: "goal-2", Subject: "Go", Period: models.PeriodMonth, CreatedAt: created.Add(time.Hour)}

	if err := s.AddGoal(first); err != nil {
		t.Fatalf("AddGoal failed: %v", err)
	}
	if err := s.AddGoal(second); err != nil {
		t.Fatalf("AddGoal failed: %v", err)
	}

	dup := models.Goal{ID: "goal-3", Subject: "Go", Period: models.PeriodWeek, CreatedAt: created}
	if err := s.AddGoal(dup); !errors.Is(err, storage.ErrGoalExists) {
		t.Errorf("duplicate AddGoal: got %v, want ErrGoalExists", err)
	}

	got, err := s.GetGoal("goal-1")
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if got.ID != first.ID || got.Subject != first.Subject || got.Period != first.Period || !got.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("GetGoal = %+v, want %+v", got, first)
	}

	got, err = s.GetGoalBySubject("Go", models.PeriodMonth)
	if err != nil {
		t.Fatalf("GetGoalBySubject failed: %v", err)
	}
	if got.ID != "goal-2" {
		t.Errorf("GetGoalBySubject = %s, want goal-2", got.ID)
	}

	if _, err := s.GetGoal("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetGoal(missing): got %v, want ErrNotFound", err)
	}
	if _, err := s.GetGoalBySubject("Go", models.PeriodYear); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetGoalBySubject(missing): got %v, want ErrNotFound", err)
	}

	all, err := s.GetAllGoals()
	if err != nil {
		t.Fatalf("GetAllGoals failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "goal-1" || all[1].ID != "goal-2" {
		t.Errorf("GetAllGoals = %+v", all)
	}
}

func testValues(t *testing.T, s storage.Provider) {
	v := storage.NewValues(s)

	if n, err := v.GetInt("learn-go-Week-learned"); err != nil || n != 0 {
		t.Errorf("GetInt on missing key = %d, %v", n, err)
	}
	if ts, err := v.GetTime("learn-go-Week-lastDate"); err != nil || ts != nil {
		t.Errorf("GetTime on missing key = %v, %v", ts, err)
	}

	if err := v.SetInt("learn-go-Week-learned", 42); err != nil {
		t.Fatalf("SetInt failed: %v", err)
	}
	if n, err := v.GetInt("learn-go-Week-learned"); err != nil || n != 42 {
		t.Errorf("GetInt = %d, %v; want 42", n, err)
	}

	when := time.Date(2025, 6, 1, 21, 30, 15, 123456789, time.FixedZone("X", -4*60*60))
	if err := v.SetTime("learn-go-Week-lastDate", &when); err != nil {
		t.Fatalf("SetTime failed: %v", err)
	}
	ts, err := v.GetTime("learn-go-Week-lastDate")
	if err != nil || ts == nil || !ts.Equal(when) {
		t.Errorf("GetTime = %v, %v; want %v", ts, err, when)
	}

	if err := v.SetTime("learn-go-Week-lastDate", nil); err != nil {
		t.Fatalf("SetTime(nil) failed: %v", err)
	}
	if err := v.SetTime("learn-go-Week-lastDate", nil); err != nil {
		t.Errorf("clearing an absent time should succeed, got %v", err)
	}
	if ts, _ := v.GetTime("learn-go-Week-lastDate"); ts != nil {
		t.Errorf("GetTime after clear = %v", ts)
	}

	if err := s.Set("learn-go-Week-frozen", []byte("lots")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := v.GetInt("learn-go-Week-frozen"); err == nil {
		t.Error("GetInt should fail on non-numeric data")
	}
}
