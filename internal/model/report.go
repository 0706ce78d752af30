package model

// Report is tabular output of a report reader. Columns are the display
// names and double as the CSV header row.
type Report struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
