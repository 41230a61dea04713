package dataset

// Process runs the full pipeline: load the workbook, clean it, then append
// the engineered features.
func Process(path string, zoneCapacity map[string]int, defaultCapacity int) (Table, error) {
	raw, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Engineer(Clean(raw), zoneCapacity, defaultCapacity), nil
}
