// Package main is the entry point for groupdirctl, the command-line
// front end of the directory. It talks to the server exclusively through
// the HTTP API client and never opens the store itself.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/groupdir/groupdir/internal/client"
	"github.com/groupdir/groupdir/internal/config"
	"github.com/groupdir/groupdir/internal/service"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "Error: not found")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		serverURL  string
	)

	rootCmd := &cobra.Command{
		Use:           "groupdirctl",
		Short:         "Directory client CLI",
		Long:          "Manage users and inspect groups through the directory HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "directory server base URL (overrides config)")

	// Flag beats config beats built-in default.
	newClient := func() (*client.Client, error) {
		if serverURL != "" {
			return client.New(serverURL)
		}
		cfg, errLoad := config.Load(configPath)
		if errLoad != nil {
			return nil, errLoad
		}
		return client.New(cfg.Client.BaseURL)
	}

	rootCmd.AddCommand(newUserCmd(newClient), newGroupCmd(newClient))
	return rootCmd
}

func newUserCmd(newClient func() (*client.Client, error)) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage directory users",
	}

	userCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, errNew := newClient()
			if errNew != nil {
				return errNew
			}
			users, errList := c.ListUsers(cmd.Context())
			if errList != nil {
				return errList
			}
			return printJSON(users)
		},
	})

	userCmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one user with its groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, errNew := newClient()
			if errNew != nil {
				return errNew
			}
			id, errParse := parseIDArg(args[0])
			if errParse != nil {
				return errParse
			}
			user, errGet := c.GetUser(cmd.Context(), id)
			if errGet != nil {
				return errGet
			}
			return printJSON(user)
		},
	})

	var createGroups []uint
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a user, optionally assigning groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, errNew := newClient()
			if errNew != nil {
				return errNew
			}
			id, errAdd := c.AddUser(cmd.Context(), args[0], toGroupIDs(createGroups))
			if errAdd != nil {
				return errAdd
			}
			return printJSON(map[string]uint64{"id": id})
		},
	}
	createCmd.Flags().UintSliceVar(&createGroups, "group", nil, "group id to assign (repeatable)")
	userCmd.AddCommand(createCmd)

	var (
		updateName   string
		updateGroups []uint
	)
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a user and replace its group set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, errNew := newClient()
			if errNew != nil {
				return errNew
			}
			id, errParse := parseIDArg(args[0])
			if errParse != nil {
				return errParse
			}
			name := updateName
			if name == "" {
				current, errGet := c.GetUser(cmd.Context(), id)
				if errGet != nil {
					return errGet
				}
				name = current.UserName
			}
			desired := make([]service.Group, 0, len(updateGroups))
			for _, groupID := range toGroupIDs(updateGroups) {
				desired = append(desired, service.Group{ID: groupID})
			}
			updated, errUpdate := c.UpdateUser(cmd.Context(), id, name, desired)
			if errUpdate != nil {
				return errUpdate
			}
			return printJSON(updated)
		},
	}
	updateCmd.Flags().StringVar(&updateName, "name", "", "new display name (keeps current when omitted)")
	updateCmd.Flags().UintSliceVar(&updateGroups, "group", nil, "desired group id (repeatable; replaces the whole set)")
	userCmd.AddCommand(updateCmd)

	userCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, errNew := newClient()
			if errNew != nil {
				return errNew
			}
			id, errParse := parseIDArg(args[0])
			if errParse != nil {
				return errParse
			}
			found, errDelete := c.DeleteUser(cmd.Context(), id)
			if errDelete != nil {
				return errDelete
			}
			if !found {
				return service.ErrNotFound
			}
			fmt.Printf("deleted user %d\n", id)
			return nil
		},
	})

	userCmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Show the total number of users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, errNew := newClient()
			if errNew != nil {
				return errNew
			}
			count, errCount := c.CountUsers(cmd.Context())
			if errCount != nil {
				return errCount
			}
			fmt.Println(count)
			return nil
		},
	})

	return userCmd
}

func newGroupCmd(newClient func() (*client.Client, error)) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Inspect directory groups",
	}

	groupCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all groups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, errNew := newClient()
			if errNew != nil {
				return errNew
			}
			groups, errList := c.ListGroups(cmd.Context())
			if errList != nil {
				return errList
			}
			return printJSON(groups)
		},
	})

	groupCmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, errNew := newClient()
			if errNew != nil {
				return errNew
			}
			id, errParse := parseIDArg(args[0])
			if errParse != nil {
				return errParse
			}
			group, errGet := c.GetGroup(cmd.Context(), id)
			if errGet != nil {
				return errGet
			}
			return printJSON(group)
		},
	})

	groupCmd.AddCommand(&cobra.Command{
		Use:   "members <id>",
		Short: "Show the member count of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, errNew := newClient()
			if errNew != nil {
				return errNew
			}
			id, errParse := parseIDArg(args[0])
			if errParse != nil {
				return errParse
			}
			count, errCount := c.CountMembers(cmd.Context(), id)
			if errCount != nil {
				return errCount
			}
			fmt.Println(count)
			return nil
		},
	})

	return groupCmd
}

func toGroupIDs(values []uint) []uint64 {
	ids := make([]uint64, 0, len(values))
	for _, value := range values {
		ids = append(ids, uint64(value))
	}
	return ids
}

func parseIDArg(arg string) (uint64, error) {
	id, errParse := strconv.ParseUint(arg, 10, 64)
	if errParse != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
