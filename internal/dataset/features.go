package dataset

import (
	"sort"
)

// Engineer returns a copy of the cleaned table with the derived columns
// populated:
//
//   - ZoneCapacity: zone → max safe occupancy lookup, defaultCapacity when
//     the zone is unrecognized
//   - CongestionIndex: footfall / zone capacity
//   - WastePercent: (prepared - sold) / prepared
//   - TransportUtilization: passengers / bus capacity
//   - ZoneEncoded / TimeSlotEncoded: label codes from sorted distinct values
//
// Every ratio falls back to 0 when its denominator is 0; derived columns are
// never NaN or infinite on a cleaned table.
func Engineer(t Table, zoneCapacity map[string]int, defaultCapacity int) Table {
	out := t.Clone()

	zoneCodes := labelCodes(out, func(r *Record) string { return r.Zone })
	slotCodes := labelCodes(out, func(r *Record) string { return r.TimeSlot })

	for i := range out {
		r := &out[i]

		capacity, ok := zoneCapacity[r.Zone]
		if !ok {
			capacity = defaultCapacity
		}
		r.ZoneCapacity = capacity

		r.CongestionIndex = safeDiv(r.Footfall, float64(capacity))
		r.WastePercent = safeDiv(r.PreparedQty-r.Orders, r.PreparedQty)
		r.TransportUtilization = safeDiv(r.Passengers, r.BusCapacity)

		r.ZoneEncoded = zoneCodes[r.Zone]
		r.TimeSlotEncoded = slotCodes[r.TimeSlot]
	}

	return out
}

// labelCodes assigns stable integer codes to the distinct category values
// seen in the table, ordered alphabetically.
func labelCodes(t Table, get func(*Record) string) map[string]int {
	seen := make(map[string]struct{})
	for i := range t {
		seen[get(&t[i])] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)

	codes := make(map[string]int, len(values))
	for i, v := range values {
		codes[v] = i
	}
	return codes
}

// safeDiv divides numerator by denominator, falling back to 0 when the
// denominator is 0 so ratios never propagate NaN or infinities.
func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
