package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/okian/medaldraft/internal/domain/model"
)

const columnGap = "  "

// Console prints an aligned plain-text standings table.
type Console struct {
	w io.Writer
}

// NewConsole writes to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Render prints the standings with a one-line header naming the source.
func (c *Console) Render(standings []model.Standing, meta Meta) error {
	bw := bufio.NewWriter(c.w)

	title := meta.Title
	if title == "" {
		title = DefaultTitle
	}
	source := meta.Source
	if source == "" {
		source = "none (no medal data)"
	}
	fmt.Fprintf(bw, "%s (source: %s)\n", title, source)

	rows := [][]string{{"#", "Friend", "Points", "Countries"}}
	for _, s := range standings {
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			s.Result.Friend,
			FormatPoints(s.Result.Points),
			countries(s.Result.Countries),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			switch {
			case i == len(row)-1:
				cells[i] = cell
			case i == 0 || i == 2:
				cells[i] = runewidth.FillLeft(cell, widths[i])
			default:
				cells[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		fmt.Fprintln(bw, strings.TrimRight(strings.Join(cells, columnGap), " "))
	}
	return bw.Flush()
}

func countries(cs []model.CountryScore) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = fmt.Sprintf("%s %s", c.Code, FormatPoints(c.Points))
	}
	return strings.Join(parts, ", ")
}
