package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list <projectID>",
	Short: "List tasks in a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskList,
}

var taskAddCmd = &cobra.Command{
	Use:   "add <projectID> <title...>",
	Short: "Add a task to a project",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTaskAdd,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <taskID>",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

func init() {
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskDoneCmd)

	taskAddCmd.Flags().String("priority", "", "Task priority (low, medium, high, urgent)")
	taskAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
}

func runTaskList(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	tasks, err := client.ProjectTasks(args[0])
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks in this project.")
		return nil
	}

	for _, t := range tasks {
		marker := " "
		if t.Status == "done" {
			marker = "x"
		}
		fmt.Printf("[%s] %-36s  %-8s  %s\n", marker, t.ID, t.Priority, t.Title)
	}
	return nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	priority, _ := cmd.Flags().GetString("priority")
	due, _ := cmd.Flags().GetString("due")
	title := strings.Join(args[1:], " ")

	task, err := client.CreateTask(args[0], title, priority, due)
	if err != nil {
		return err
	}

	fmt.Printf("Added task %s (%s)\n", task.Title, task.ID)
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	if err := client.CompleteTask(args[0]); err != nil {
		return err
	}

	fmt.Println("Task completed.")
	return nil
}
