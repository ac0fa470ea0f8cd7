package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smolina-v/go-capstone-cli/internal/models"
	"github.com/smolina-v/go-capstone-cli/internal/session"
)

func newLoginCmd(configPath *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			if err := a.sess.Login(cmd.Context(), email, password); err != nil {
				return err
			}

			user := a.sess.User()
			fmt.Printf("logged in as %s %s (%s)\n", user.FirstName, user.LastName, user.Role)

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear stored tokens",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			a.sess.Logout()
			fmt.Println("logged out")

			return nil
		},
	}
}

func newRegisterCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
	}

	cmd.AddCommand(
		newRegisterRoleCmd(configPath, "student"),
		newRegisterRoleCmd(configPath, "professor"),
		newRegisterRoleCmd(configPath, "admin"),
	)

	return cmd
}

// newRegisterRoleCmd — одна команда на роль: у каждой роли свой
// регистрационный эндпойнт, payload общий.
func newRegisterRoleCmd(configPath *string, role string) *cobra.Command {
	var in models.RegisterRequest

	cmd := &cobra.Command{
		Use:   role,
		Short: fmt.Sprintf("Register a %s account", role),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			var rerr error
			switch role {
			case "student":
				rerr = a.sess.RegisterStudent(cmd.Context(), in)
			case "professor":
				rerr = a.sess.RegisterProfessor(cmd.Context(), in)
			case "admin":
				rerr = a.sess.RegisterAdmin(cmd.Context(), in)
			}
			if rerr != nil {
				return rerr
			}

			user := a.sess.User()
			fmt.Printf("registered %s (%s)\n", user.Email, user.Role)

			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Username, "username", "", "username")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")
	cmd.Flags().StringVar(&in.Password2, "password2", "", "password confirmation")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("password2")

	return cmd
}

func newWhoamiCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			if a.sess.Restore(cmd.Context()) != session.StateAuthenticated {
				fmt.Println("not logged in")
				return nil
			}

			return printJSON(a.sess.User())
		},
	}
}

func newDashboardCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the role dashboard entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			// Незалогиненного с дашборда уводит на экран логина.
			if a.sess.Restore(cmd.Context()) != session.StateAuthenticated {
				fmt.Printf("-> %s\n", session.RouteLogin)
				return nil
			}

			user := a.sess.User()
			fmt.Printf("%s %s — %s\n", user.FirstName, user.LastName, user.Role)
			fmt.Printf("-> %s\n", session.RouteForRole(user.Role))

			return nil
		},
	}
}

func printJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
