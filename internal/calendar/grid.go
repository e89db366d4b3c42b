package calendar

// Cell is one slot of a month grid. Leading blanks have Day == 0.
type Cell struct {
	Day      int
	Date     Date
	Selected bool
	Today    bool
	Disabled bool // strictly before today
}

func (c Cell) Blank() bool {
	return c.Day == 0
}

// Grid lays out view as leading blanks (one per weekday before the 1st) followed
// by one cell per day of the month.
func Grid(view Month, selected *Date, today Date) []Cell {
	lead := view.FirstWeekday()
	days := view.Days()

	cells := make([]Cell, 0, lead+days)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{})
	}
	for day := 1; day <= days; day++ {
		date := view.Date(day)
		cells = append(cells, Cell{
			Day:      day,
			Date:     date,
			Selected: selected != nil && selected.Equal(date),
			Today:    date.Equal(today),
			Disabled: date.Before(today),
		})
	}
	return cells
}
