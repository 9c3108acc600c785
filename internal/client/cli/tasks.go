package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

var getMultiline = GetMultiline

func (a *App) List(ctx context.Context) error {
	list, err := a.api.ListTasks(ctx)
	if err != nil {
		return report(err)
	}

	if len(list) == 0 {
		printlnFn("No tasks")
		return nil
	}
	for _, task := range list {
		printlnFn(task.String())
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return report(err)
	}

	desc, err := getMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return report(err)
	}

	task, err := a.api.CreateTask(ctx, title, desc)
	if err != nil {
		return report(err)
	}

	printlnFn("Created", task.ID)
	return nil
}

func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter task id to show", a.out)
	if err != nil {
		return report(err)
	}

	task, err := a.api.GetTask(ctx, id)
	if err != nil {
		return report(err)
	}

	printTask(task)
	return nil
}

// Status moves a task to to-do, in-progress or done.
func (a *App) Status(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter task id", a.out)
	if err != nil {
		return report(err)
	}

	status, err := getSimpleText(a.reader, "Enter status (to-do, in-progress, done)", a.out)
	if err != nil {
		return report(err)
	}

	task, err := a.api.SetTaskStatus(ctx, id, status)
	if err != nil {
		return report(err)
	}

	printlnFn(task.String())
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter task id to delete", a.out)
	if err != nil {
		return report(err)
	}

	if _, err := a.api.DeleteTask(ctx, id); err != nil {
		return report(err)
	}

	printlnFn("Deleted", id)
	return nil
}

func printTask(t *models.Task) {
	printlnFn("ID:", t.ID)
	printlnFn("Title:", t.Title)
	printlnFn("Status:", t.Status)
	if t.Description != "" {
		printlnFn("Description:", t.Description)
	}
	printlnFn(fmt.Sprintf("Created: %s  Updated: %s", t.CreatedAt.Format("2006-01-02 15:04"), t.UpdatedAt.Format("2006-01-02 15:04")))
}
