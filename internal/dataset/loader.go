package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Column headers expected in the campus dataset workbook. Matching is
// case-insensitive and tolerant of surrounding whitespace.
var requiredHeaders = []string{
	"date",
	"zone",
	"time_slot",
	"meal_type",
	"footfall",
	"prepared_qty",
	"orders",
	"waste_qty",
	"passengers",
	"bus_capacity",
	"avg_delay_min",
	"security_incidents",
	"satisfaction",
	"response_time_hr",
}

// dateLayouts covers the formats excelize renders date cells as, plus plain
// ISO dates from CSV-converted sheets.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
	"01/02/2006",
	"2006/01/02",
	time.RFC3339,
}

// Load reads the campus activity dataset from the first sheet of an .xlsx
// workbook. No cleaning is performed: unparseable or empty numeric cells are
// carried as NaN for the cleaner to resolve.
func Load(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("dataset %s contains no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	columns, err := mapHeaders(rows[0])
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	table := make(Table, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		table = append(table, parseRow(row, columns))
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}
	return table, nil
}

// mapHeaders builds a header name → column index map and verifies that every
// required column is present.
func mapHeaders(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeHeader(name)] = i
	}

	var missing []string
	for _, name := range requiredHeaders {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func normalizeHeader(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return strings.ReplaceAll(name, " ", "_")
}

func parseRow(row []string, columns map[string]int) Record {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	num := func(name string) float64 {
		v, err := strconv.ParseFloat(cell(name), 64)
		if err != nil {
			return math.NaN()
		}
		return v
	}

	return Record{
		Date:              parseDate(cell("date")),
		Zone:              cell("zone"),
		TimeSlot:          cell("time_slot"),
		MealType:          cell("meal_type"),
		Footfall:          num("footfall"),
		PreparedQty:       num("prepared_qty"),
		Orders:            num("orders"),
		WasteQty:          num("waste_qty"),
		Passengers:        num("passengers"),
		BusCapacity:       num("bus_capacity"),
		AvgDelayMin:       num("avg_delay_min"),
		SecurityIncidents: num("security_incidents"),
		Satisfaction:      num("satisfaction"),
		ResponseTimeHr:    num("response_time_hr"),
	}
}

func parseDate(value string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	// Excel serial date numbers survive in sheets without a date style
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
