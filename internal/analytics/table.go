package analytics

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"

	"regi/m/internal/saleslog"
)

// Table is the detailed log in display form.
type Table struct {
	Available bool       `json:"available"`
	Header    []string   `json:"header"`
	Rows      [][]string `json:"rows"`
}

// ListAll returns the whole detailed log.
func (s *Service) ListAll(ctx context.Context) (Table, error) {
	rows, ok, err := s.source.Details(ctx)
	if err != nil {
		return Table{}, fmt.Errorf("unable to read sales: %w", err)
	}
	header := append([]string(nil), saleslog.DetailedHeader...)
	if !ok {
		return Table{Available: false, Header: header, Rows: [][]string{}}, nil
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			strconv.FormatInt(row.TransactionID, 10),
			row.Product,
			row.UnitPrice.String(),
			strconv.FormatInt(row.Quantity, 10),
			row.Timestamp,
		})
	}
	return Table{Available: true, Header: header, Rows: out}, nil
}

var tableTemplate = template.Must(template.New("sales").Parse(
	`{{if .Available}}<table class="sales">
<thead><tr><th></th>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range $i, $row := .Rows}}<tr><th>{{$i}}</th>{{range $row}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>{{else}}<p>` + NoDataMessage + `</p>{{end}}`))

// HTML renders the table with a leading row-index column.
func (t Table) HTML() (string, error) {
	var buf bytes.Buffer
	if err := tableTemplate.Execute(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}
