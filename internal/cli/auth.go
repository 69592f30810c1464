package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Manage authentication with the TaskForge server.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from the server",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset a forgotten password",
	RunE:  runReset,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(resetCmd)

	resetCmd.Flags().String("email", "", "Request a reset link for this email")
	resetCmd.Flags().String("token", "", "Redeem a reset token from the email link")
}

func promptLine(label string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword(label string) string {
	fmt.Print(label)
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(passwordBytes)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	username := promptLine("Username: ")
	password := promptPassword("Password: ")

	if err := client.Login(username, password); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s.\n", username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	if !client.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := client.Logout(); err != nil {
		return err
	}

	fmt.Println("Logged out.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	username := promptLine("Username: ")
	email := promptLine("Email: ")
	fullName := promptLine("Full name: ")
	password := promptPassword("Password: ")
	confirm := promptPassword("Confirm password: ")

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := client.Register(username, email, fullName, password); err != nil {
		return err
	}

	fmt.Println("Account created and logged in.")
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")
	token, _ := cmd.Flags().GetString("token")

	if token != "" {
		password := promptPassword("New password: ")
		confirm := promptPassword("Confirm password: ")
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		if err := client.ResetPassword(token, password); err != nil {
			return err
		}
		fmt.Println("Password updated and logged in.")
		return nil
	}

	if email == "" {
		email = promptLine("Email: ")
	}
	if err := client.RequestPasswordReset(email); err != nil {
		return err
	}

	fmt.Println("Reset link sent. Check your email, then run:")
	fmt.Println("  taskforge auth reset --token <token>")
	return nil
}
