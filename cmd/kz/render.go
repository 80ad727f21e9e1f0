package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/TerminallyLazy/kanban-zero/internal/task"
)

var columnColors = map[task.EnergyColumn]*color.Color{
	task.ColumnHyperfocus: color.New(color.FgRed, color.Bold),
	task.ColumnQuickWin:   color.New(color.FgYellow, color.Bold),
	task.ColumnLowEnergy:  color.New(color.FgBlue, color.Bold),
	task.ColumnShipped:    color.New(color.FgGreen, color.Bold),
}

func columnLabel(col task.EnergyColumn) string {
	label := strings.ToUpper(strings.ReplaceAll(string(col), "_", " "))
	if c, ok := columnColors[col]; ok {
		return c.Sprint(label)
	}
	return label
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printTask(t *task.Task) {
	fmt.Printf("%s  %s  %s\n", color.New(color.Faint).Sprint(shortID(t.ID)), columnLabel(t.EnergyColumn), t.Title)
}

func printTaskDetail(t *task.Task) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Println(bold.Sprint(t.Title))
	fmt.Printf("  %s %s\n", faint.Sprint("id:"), t.ID)
	fmt.Printf("  %s %s\n", faint.Sprint("column:"), columnLabel(t.EnergyColumn))
	fmt.Printf("  %s %s\n", faint.Sprint("input:"), t.RawInput)
	if t.Body != nil && *t.Body != "" {
		fmt.Printf("  %s %s\n", faint.Sprint("body:"), *t.Body)
	}
	fmt.Printf("  %s %s\n", faint.Sprint("created:"), t.CreatedAt.Local().Format("2006-01-02 15:04"))
	if t.ShippedAt != nil {
		fmt.Printf("  %s %s\n", faint.Sprint("shipped:"), t.ShippedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Printf("  %s %s\n", faint.Sprint("via:"), t.CreatedVia)
}

// printTasksGrouped renders the board view: one section per column in the
// order the server returned them.
func printTasksGrouped(tasks []*task.Task) {
	if len(tasks) == 0 {
		color.Yellow("No tasks. Add one with: kz add 'something small'")
		return
	}

	var current task.EnergyColumn
	for _, t := range tasks {
		if t.EnergyColumn != current {
			if current != "" {
				fmt.Println()
			}
			current = t.EnergyColumn
			fmt.Println(columnLabel(current))
		}
		printTask(t)
	}
}

func printTasksTable(tasks []*task.Task) {
	if len(tasks) == 0 {
		color.Yellow("No tasks.")
		return
	}
	for _, t := range tasks {
		printTask(t)
	}
}
