package game

import "testing"

const playHistoriesPayload = `{
	"lastUpdatedAt": "2023-08-27T21:28:38+09:00",
	"hiddenTitleList": [],
	"playHistories": [
		{"titleId": "0100000000000001", "titleName": "A", "imageUrl": "https://img.example/a", "deviceType": "HAC", "totalPlayedMinutes": 120, "totalPlayedDays": 4},
		{"titleId": "0004000000000002", "titleName": "B", "imageUrl": "https://img.example/b", "deviceType": "CTR", "totalPlayedMinutes": 60, "totalPlayedDays": 2}
	],
	"recentPlayHistories": []
}`

func TestParseGameListFiltersByDevice(t *testing.T) {
	entries := ParseGameList([]byte(playHistoriesPayload), OnlyDevice(DeviceSwitch))
	if len(entries) != 1 {
		t.Fatalf("ParseGameList() returned %d entries, expected 1", len(entries))
	}
	expected := Entry{Title: "A", Icon: "https://img.example/a", TotalPlayedHours: 2.0}
	if entries[0] != expected {
		t.Errorf("entry = %+v, expected %+v", entries[0], expected)
	}
}

func TestParseGameListKeepsAllDevices(t *testing.T) {
	entries := ParseGameList([]byte(playHistoriesPayload), KeepAllDevices)
	if len(entries) != 2 {
		t.Fatalf("ParseGameList() returned %d entries, expected 2", len(entries))
	}
	if entries[0].Title != "A" || entries[1].Title != "B" {
		t.Errorf("entries out of payload order: %+v", entries)
	}
	if entries[1].TotalPlayedHours != 1.0 {
		t.Errorf("entry B hours = %v, expected 1.0", entries[1].TotalPlayedHours)
	}
}

func TestParseGameListRoundsToOneDecimal(t *testing.T) {
	payload := `{"playHistories":[{"titleName":"C","imageUrl":"i","deviceType":"HAC","totalPlayedMinutes":23827}]}`
	entries := ParseGameList([]byte(payload), KeepAllDevices)
	if len(entries) != 1 {
		t.Fatalf("ParseGameList() returned %d entries, expected 1", len(entries))
	}
	// 23827 minutes is 397.116... hours.
	if entries[0].TotalPlayedHours != 397.1 {
		t.Errorf("hours = %v, expected 397.1", entries[0].TotalPlayedHours)
	}
}

func TestDeviceFilterFromName(t *testing.T) {
	tests := []struct {
		name       string
		filterName string
		keepHAC    bool
		keepCTR    bool
		wantErr    bool
	}{
		{"switch drops 3DS titles", "switch", true, false, false},
		{"3ds drops Switch titles", "3ds", false, true, false},
		{"all keeps both", "all", true, true, false},
		{"empty keeps both", "", true, true, false},
		{"unknown name", "wii-u", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keep, err := DeviceFilterFromName(tt.filterName)
			if tt.wantErr {
				if err == nil {
					t.Errorf("DeviceFilterFromName(%q) expected error", tt.filterName)
				}
				return
			}
			if err != nil {
				t.Fatalf("DeviceFilterFromName(%q) error = %v", tt.filterName, err)
			}
			if got := keep(DeviceSwitch); got != tt.keepHAC {
				t.Errorf("keep(HAC) = %v, expected %v", got, tt.keepHAC)
			}
			if got := keep(Device3DS); got != tt.keepCTR {
				t.Errorf("keep(CTR) = %v, expected %v", got, tt.keepCTR)
			}
		})
	}
}

func TestSortByPlayTime(t *testing.T) {
	entries := []Entry{
		{Title: "one", TotalPlayedHours: 1.0},
		{Title: "three", TotalPlayedHours: 3.0},
		{Title: "two", TotalPlayedHours: 2.0},
	}

	sorted := SortByPlayTime(entries, 0)
	if len(sorted) != 3 {
		t.Fatalf("SortByPlayTime() returned %d entries, expected 3", len(sorted))
	}
	for i, expected := range []float64{3.0, 2.0, 1.0} {
		if sorted[i].TotalPlayedHours != expected {
			t.Errorf("sorted[%d].TotalPlayedHours = %v, expected %v", i, sorted[i].TotalPlayedHours, expected)
		}
	}

	// Input order must be untouched.
	if entries[0].TotalPlayedHours != 1.0 {
		t.Errorf("input slice was modified: %+v", entries)
	}
}

func TestSortByPlayTimeTruncates(t *testing.T) {
	entries := []Entry{
		{Title: "one", TotalPlayedHours: 1.0},
		{Title: "three", TotalPlayedHours: 3.0},
		{Title: "two", TotalPlayedHours: 2.0},
	}

	sorted := SortByPlayTime(entries, 2)
	if len(sorted) != 2 {
		t.Fatalf("SortByPlayTime(quantity=2) returned %d entries, expected 2", len(sorted))
	}
	if sorted[0].TotalPlayedHours != 3.0 || sorted[1].TotalPlayedHours != 2.0 {
		t.Errorf("truncated list = %+v, expected the top two", sorted)
	}

	// A quantity beyond the list length keeps everything.
	if got := len(SortByPlayTime(entries, 10)); got != 3 {
		t.Errorf("SortByPlayTime(quantity=10) returned %d entries, expected 3", got)
	}
}

func TestSortByPlayTimeIsStableOnTies(t *testing.T) {
	entries := []Entry{
		{Title: "first", TotalPlayedHours: 2.0},
		{Title: "second", TotalPlayedHours: 2.0},
		{Title: "third", TotalPlayedHours: 2.0},
	}

	sorted := SortByPlayTime(entries, 0)
	for i, expected := range []string{"first", "second", "third"} {
		if sorted[i].Title != expected {
			t.Errorf("sorted[%d].Title = %q, expected %q (ties must keep input order)", i, sorted[i].Title, expected)
		}
	}
}
