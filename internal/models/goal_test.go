package models

import "testing"

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input   string
		want    Period
		wantErr bool
	}{
		{"week", PeriodWeek, false},
		{"Week", PeriodWeek, false},
		{" MONTH ", PeriodMonth, false},
		{"y", PeriodYear, false},
		{"fortnight", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePeriod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePeriod(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPeriodValid(t *testing.T) {
	for _, p := range Periods {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if Period("week").Valid() {
		t.Error("lowercase period should not be valid as a stored value")
	}
}

func TestMapToSettings(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]string
		want    Settings
		wantErr bool
	}{
		{
			name: "empty uses defaults",
			data: map[string]string{},
			want: Settings{Timezone: "Local", NotificationsEnabled: true},
		},
		{
			name: "all keys",
			data: map[string]string{
				"timezone":              "Europe/Berlin",
				"notifications_enabled": "false",
				"active_goal":           "abc",
				"unknown":               "ignored",
			},
			want: Settings{Timezone: "Europe/Berlin", NotificationsEnabled: false, ActiveGoalID: "abc"},
		},
		{
			name:    "bad bool",
			data:    map[string]string{"notifications_enabled": "sometimes"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapToSettings(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MapToSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("MapToSettings() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSettingsToMapRoundTrip(t *testing.T) {
	in := Settings{Timezone: "Asia/Tokyo", NotificationsEnabled: false, ActiveGoalID: "g-1"}
	out, err := MapToSettings(SettingsToMap(in))
	if err != nil {
		t.Fatalf("MapToSettings failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
