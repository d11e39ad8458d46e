package postgres

import "time"

type seasonTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
}

type seasonWeekTableModel struct {
	ID          string    `db:"id"`
	SeasonID    string    `db:"season_id"`
	Date        time.Time `db:"week_date"`
	DisplayName string    `db:"display_name"`
	Kind        string    `db:"kind"`
	Completed   bool      `db:"completed"`
}

type blackoutPreferenceTableModel struct {
	ID         string    `db:"id"`
	SeasonID   string    `db:"season_id"`
	Source     string    `db:"source_type"`
	Action     string    `db:"action"`
	Label      string    `db:"label"`
	RangeStart time.Time `db:"range_start"`
	RangeEnd   time.Time `db:"range_end"`
}
