package damsa

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// RenderConsistency prints the per-origin average energy and record count.
func RenderConsistency(w io.Writer, stats []PathStats) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Path (Origin)", "Avg E per Part", "Total Count").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, s := range stats {
		t.Row(s.Name(), fmt.Sprintf("%.6f", s.AverageEnergy()), strconv.Itoa(s.Records))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
