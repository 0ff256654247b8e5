package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/patro/calendar-engine/calendar"
)

// renderMonth prints a Sunday-first grid. Holidays (Saturdays included)
// carry a '*' and named holidays are listed below the grid.
func renderMonth(w io.Writer, v calendar.MonthView, lang calendar.Lang) {
	year := strconv.Itoa(v.Year)
	if lang == calendar.Nepali {
		year = calendar.DevanagariDigits(year)
	}
	fmt.Fprintf(w, "%s %s  (%s to %s)\n", calendar.MonthName(v.Month, lang), year, v.First(), v.Last())
	fmt.Fprintln(w, " Su  Mo  Tu  We  Th  Fr  Sa")

	col := 0
	for ; col < v.Leading; col++ {
		fmt.Fprint(w, "    ")
	}
	for _, d := range v.Days {
		label := strconv.Itoa(d.BS.Day)
		if lang == calendar.Nepali {
			label = calendar.DevanagariDigits(label)
		}
		mark := " "
		if d.IsHoliday() {
			mark = "*"
		}
		fmt.Fprintf(w, "%3s%s", label, mark)

		col++
		if col == 7 {
			fmt.Fprintln(w)
			col = 0
		}
	}
	if col != 0 {
		fmt.Fprintln(w)
	}

	for _, d := range v.Days {
		for _, h := range d.Holidays {
			fmt.Fprintf(w, "%s  %s\n", calendar.Format(d.BS, lang), h.Name)
		}
	}
}
