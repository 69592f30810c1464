package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects",
	RunE:  runProjectList,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectAdd,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectShowCmd)

	projectAddCmd.Flags().String("desc", "", "Project description")
}

func runProjectList(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	projects, err := client.MyProjects()
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Println("No projects yet. Create one with 'taskforge project add <name>'.")
		return nil
	}

	for _, p := range projects {
		fmt.Printf("%-36s  %-12s  %s\n", p.ID, p.Status, p.Name)
	}
	return nil
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	desc, _ := cmd.Flags().GetString("desc")
	project, err := client.CreateProject(args[0], desc)
	if err != nil {
		return err
	}

	fmt.Printf("Created project %s (%s)\n", project.Name, project.ID)
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	project, err := client.GetProject(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s [%s]\n", project.Name, project.Status)
	if project.Description != "" {
		fmt.Println(project.Description)
	}

	tasks, err := client.ProjectTasks(project.ID)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("\nNo tasks.")
		return nil
	}

	fmt.Println()
	for _, t := range tasks {
		marker := " "
		if t.Status == "done" {
			marker = "x"
		}
		fmt.Printf("[%s] %-36s  %-8s  %s\n", marker, t.ID, t.Priority, t.Title)
	}
	return nil
}
