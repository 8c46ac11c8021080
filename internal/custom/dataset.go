package custom

import (
	"sort"
	"strconv"
)

// Dataset is the structured record of a Data block.
type Dataset struct {
	Name   string              `json:"name" yaml:"name"`
	Fields []string            `json:"fields,omitempty" yaml:"fields,omitempty"`
	Rows   []map[string]string `json:"data" yaml:"data"`
}

// Columns returns the declared fields followed by the remaining row keys in
// sorted order.
func (d *Dataset) Columns() []string {
	seen := make(map[string]bool)
	columns := make([]string, 0, len(d.Fields))

	for _, f := range d.Fields {
		if !seen[f] {
			seen[f] = true
			columns = append(columns, f)
		}
	}

	var rest []string

	for _, row := range d.Rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}

	sort.Strings(rest)

	return append(columns, rest...)
}

// Table returns the dataset as a table whose first column is the 1-based
// row number, headed "#".
func (d *Dataset) Table() ([]string, [][]string) {
	columns := d.Columns()
	head := append([]string{"#"}, columns...)
	rows := make([][]string, 0, len(d.Rows))

	for i, row := range d.Rows {
		cells := make([]string, 0, len(head))
		cells = append(cells, strconv.Itoa(i+1))

		for _, c := range columns {
			cells = append(cells, row[c])
		}

		rows = append(rows, cells)
	}

	return head, rows
}
