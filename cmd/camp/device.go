package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/angristan/camp-tui/internal/config"
)

func deviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage the devices on the campsite battery",
	}
	cmd.AddCommand(deviceListCmd(), deviceAddCmd(), deviceRemoveCmd())
	return cmd
}

func deviceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range cfg.Energy.Devices {
				state := "off"
				if d.On {
					state = "on"
				}
				fmt.Fprintf(out, "%-16s %5d W  %s\n", d.Name, d.PowerW, state)
			}
			return nil
		},
	}
}

func deviceAddCmd() *cobra.Command {
	var on bool

	cmd := &cobra.Command{
		Use:   "add [name] [watts]",
		Short: "Add a device or update an existing one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			watts, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid power %q: %w", args[1], err)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.AddDevice(config.DeviceConfig{Name: args[0], PowerW: watts, On: on})
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d W)\n", args[0], watts)
			return nil
		},
	}
	cmd.Flags().BoolVar(&on, "on", false, "switch the device on at startup")
	return cmd
}

func deviceRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [name]",
		Aliases: []string{"remove"},
		Short:   "Remove a device",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if _, err := cfg.GetDevice(args[0]); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			cfg.RemoveDevice(args[0])
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
