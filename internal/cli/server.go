package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server [url]",
	Short: "Show or set the API server URL",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Println(client.session.ServerURL)
		return nil
	}

	if err := client.SetServer(args[0]); err != nil {
		return err
	}
	fmt.Printf("Server set to %s\n", args[0])
	return nil
}
