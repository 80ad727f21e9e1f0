package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/TerminallyLazy/kanban-zero/internal/client"
	"github.com/TerminallyLazy/kanban-zero/internal/task"
)

const version = "0.1.0"

var (
	app     = kingpin.New("kz", "Energy-aware kanban for your terminal")
	apiFlag = app.Flag("api", "API base URL (overrides config and KZ_API_BASE_URL)").String()

	addCmd    = app.Command("add", "Add a new task with AI parsing")
	addText   = addCmd.Arg("text", "Task description (free text)").Required().String()
	addEnergy = addCmd.Flag("energy", "Energy column: hyperfocus, quick_win, low_energy").Short('e').Enum("hyperfocus", "quick_win", "low_energy")

	listCmd    = app.Command("list", "List active tasks")
	listColumn = listCmd.Flag("column", "Filter by energy column").Short('c').Enum("hyperfocus", "quick_win", "low_energy", "shipped")
	listTable  = listCmd.Flag("table", "Flat list instead of grouped board").Short('t').Bool()

	winsCmd = app.Command("wins", "Show quick wins only")

	showCmd = app.Command("show", "Show task details")
	showID  = showCmd.Arg("id", "Task ID (full or unique prefix)").Required().String()

	shipCmd = app.Command("ship", "Ship (complete) a task")
	shipID  = shipCmd.Arg("id", "Task ID (full or unique prefix)").Required().String()

	moveCmd    = app.Command("move", "Move a task to another column")
	moveID     = moveCmd.Arg("id", "Task ID (full or unique prefix)").Required().String()
	moveColumn = moveCmd.Arg("column", "Target column").Required().Enum("hyperfocus", "quick_win", "low_energy", "shipped")

	rmCmd = app.Command("rm", "Delete a task")
	rmID  = rmCmd.Arg("id", "Task ID (full or unique prefix)").Required().String()
)

func main() {
	app.Version(version)
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := loadConfig()
	if err != nil {
		fatal(err)
	}
	baseURL := cfg.APIBaseURL
	if *apiFlag != "" {
		baseURL = *apiFlag
	}
	c := client.New(baseURL)
	ctx := context.Background()

	switch command {
	case addCmd.FullCommand():
		err = handleAdd(ctx, c, *addText, *addEnergy)
	case listCmd.FullCommand():
		err = handleList(ctx, c, *listColumn, *listTable)
	case winsCmd.FullCommand():
		err = handleWins(ctx, c)
	case showCmd.FullCommand():
		err = handleShow(ctx, c, *showID)
	case shipCmd.FullCommand():
		err = handleShip(ctx, c, *shipID)
	case moveCmd.FullCommand():
		err = handleMove(ctx, c, *moveID, *moveColumn)
	case rmCmd.FullCommand():
		err = handleRemove(ctx, c, *rmID)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
	os.Exit(1)
}

func handleAdd(ctx context.Context, c *client.Client, text, energy string) error {
	t, err := c.CreateTask(ctx, text, energy)
	if err != nil {
		return err
	}
	color.Green("Task added")
	printTask(t)
	return nil
}

func handleList(ctx context.Context, c *client.Client, column string, table bool) error {
	tasks, err := c.ListTasks(ctx, column)
	if err != nil {
		return err
	}
	if table || column != "" {
		printTasksTable(tasks)
	} else {
		printTasksGrouped(tasks)
	}
	return nil
}

func handleWins(ctx context.Context, c *client.Client) error {
	tasks, err := c.ListTasks(ctx, string(task.ColumnQuickWin))
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		color.Yellow("No quick wins right now. Add some!")
		fmt.Println(color.New(color.Faint).Sprint("kz add 'small task' --energy quick_win"))
		return nil
	}
	fmt.Println(color.New(color.FgYellow, color.Bold).Sprint("QUICK WINS"))
	printTasksTable(tasks)
	return nil
}

func handleShow(ctx context.Context, c *client.Client, idOrPrefix string) error {
	id, err := c.ResolveTaskID(ctx, idOrPrefix)
	if err != nil {
		return err
	}
	t, err := c.GetTask(ctx, id)
	if err != nil {
		return err
	}
	printTaskDetail(t)
	return nil
}

func handleShip(ctx context.Context, c *client.Client, idOrPrefix string) error {
	id, err := c.ResolveTaskID(ctx, idOrPrefix)
	if err != nil {
		return err
	}
	t, err := c.ShipTask(ctx, id)
	if err != nil {
		return err
	}
	color.Green("Shipped: %s", t.Title)
	return nil
}

func handleMove(ctx context.Context, c *client.Client, idOrPrefix, column string) error {
	id, err := c.ResolveTaskID(ctx, idOrPrefix)
	if err != nil {
		return err
	}
	t, err := c.UpdateTask(ctx, id, client.TaskPatch{EnergyColumn: &column})
	if err != nil {
		return err
	}
	fmt.Printf("Moved to %s\n", columnLabel(t.EnergyColumn))
	printTask(t)
	return nil
}

func handleRemove(ctx context.Context, c *client.Client, idOrPrefix string) error {
	id, err := c.ResolveTaskID(ctx, idOrPrefix)
	if err != nil {
		return err
	}
	if err := c.DeleteTask(ctx, id); err != nil {
		return err
	}
	color.Yellow("Deleted %s", shortID(id))
	return nil
}
