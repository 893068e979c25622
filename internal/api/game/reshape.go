package game

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// Device type tags as they appear in the play-history payload.
const (
	DeviceSwitch = "HAC"
	Device3DS    = "CTR"
)

// Entry is the reshaped view of one played title.
type Entry struct {
	Title            string  `json:"title"`
	Icon             string  `json:"icon"`
	TotalPlayedHours float64 `json:"total_played_hours"`
}

// DevicePredicate decides whether a play-history entry with the given device
// type tag is kept during reshaping.
type DevicePredicate func(deviceType string) bool

// KeepAllDevices keeps every entry regardless of device type.
func KeepAllDevices(string) bool { return true }

// OnlyDevice keeps entries whose device type equals the given tag.
func OnlyDevice(device string) DevicePredicate {
	return func(deviceType string) bool { return deviceType == device }
}

// ExcludingDevice keeps entries whose device type differs from the given tag.
func ExcludingDevice(device string) DevicePredicate {
	return func(deviceType string) bool { return deviceType != device }
}

// DeviceFilterFromName maps a configuration value to a device predicate.
// "switch" drops 3DS titles, "3ds" drops Switch titles, "all" keeps both.
func DeviceFilterFromName(name string) (DevicePredicate, error) {
	switch name {
	case "switch":
		return ExcludingDevice(Device3DS), nil
	case "3ds":
		return ExcludingDevice(DeviceSwitch), nil
	case "all", "":
		return KeepAllDevices, nil
	default:
		return nil, fmt.Errorf("unknown device filter %q (want switch, 3ds or all)", name)
	}
}

// ParseGameList reshapes a raw play-history payload into entries, dropping
// everything but title, icon, and play time. Minutes are converted to hours
// rounded to one decimal place. Entries keep the payload order.
func ParseGameList(payload []byte, keep DevicePredicate) []Entry {
	if keep == nil {
		keep = KeepAllDevices
	}

	var entries []Entry
	gjson.GetBytes(payload, "playHistories").ForEach(func(_, value gjson.Result) bool {
		if !keep(value.Get("deviceType").String()) {
			return true
		}
		entries = append(entries, Entry{
			Title:            value.Get("titleName").String(),
			Icon:             value.Get("imageUrl").String(),
			TotalPlayedHours: math.Round(value.Get("totalPlayedMinutes").Float()/60*10) / 10,
		})
		return true
	})
	return entries
}
