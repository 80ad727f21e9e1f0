package task

import "time"

// EnergyColumn classifies a task by the focus level it needs, or marks it
// shipped. Tasks enter the shipped column through the ship operation or a
// later column update, never at creation.
type EnergyColumn string

const (
	ColumnHyperfocus EnergyColumn = "hyperfocus"
	ColumnQuickWin   EnergyColumn = "quick_win"
	ColumnLowEnergy  EnergyColumn = "low_energy"
	ColumnShipped    EnergyColumn = "shipped"
)

func (c EnergyColumn) Valid() bool {
	switch c {
	case ColumnHyperfocus, ColumnQuickWin, ColumnLowEnergy, ColumnShipped:
		return true
	}
	return false
}

// Active reports whether the column counts toward the active board.
func (c EnergyColumn) Active() bool {
	return c.Valid() && c != ColumnShipped
}

// CreatedVia records which front end created the task.
type CreatedVia string

const (
	ViaCLI   CreatedVia = "cli"
	ViaSlack CreatedVia = "slack"
	ViaWeb   CreatedVia = "web"
	ViaAPI   CreatedVia = "api"
)

func (v CreatedVia) Valid() bool {
	switch v {
	case ViaCLI, ViaSlack, ViaWeb, ViaAPI:
		return true
	}
	return false
}

type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Body         *string      `json:"body"`
	RawInput     string       `json:"raw_input"`
	EnergyColumn EnergyColumn `json:"energy_column"`
	Position     int          `json:"position"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	ShippedAt    *time.Time   `json:"shipped_at"`
	CreatedVia   CreatedVia   `json:"created_via"`
}
