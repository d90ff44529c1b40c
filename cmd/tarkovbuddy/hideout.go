package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Oddey86/TarkovBuddy/internal/hideout"
	"github.com/Oddey86/TarkovBuddy/internal/reporter"
	"github.com/Oddey86/TarkovBuddy/internal/ui"
)

func hideoutCmd() *cobra.Command {
	var includeCurrency bool

	cmd := &cobra.Command{
		Use:   "hideout",
		Short: "List items still needed for the selected hideout levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			stations, err := e.provider.Hideout(cmd.Context())
			if err != nil {
				return err
			}

			items := hideout.Aggregate(stations, e.store.HideoutSelection(includeCurrency))
			if flagJSON {
				return outputJSON(items)
			}
			reporter.PrintHideout(os.Stdout, items)
			return nil
		},
	}
	cmd.Flags().BoolVar(&includeCurrency, "currency", false, "Include roubles, euros and dollars")

	cmd.AddCommand(&cobra.Command{
		Use:   "select <station-id> <level>",
		Short: "Toggle whether a station level is in the shopping list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := levelKey(args[0], args[1])
			if err != nil {
				return err
			}
			e, err := loadEnv()
			if err != nil {
				return err
			}
			on, err := e.store.ToggleHideoutLevel(key)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s %s\n", ui.StatusIcon(onOff(on, "available", "locked")), key, ui.Dim(onOff(on, "selected", "deselected")))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "select-all",
		Short: "Select every level of every station",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			stations, err := e.provider.Hideout(cmd.Context())
			if err != nil {
				return err
			}
			var keys []string
			for _, st := range stations {
				for _, lvl := range st.Levels {
					keys = append(keys, hideout.LevelKey(st.ID, lvl.Level))
				}
			}
			if err := e.store.SelectHideoutLevels(true, keys); err != nil {
				return err
			}
			fmt.Printf("✅ %s levels selected\n", ui.Bold(len(keys)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "built <station-id> <level>",
		Short: "Toggle whether a station level is built",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := levelKey(args[0], args[1])
			if err != nil {
				return err
			}
			e, err := loadEnv()
			if err != nil {
				return err
			}
			done, err := e.store.ToggleHideoutLevelCompleted(key)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", ui.StatusIcon(onOff(done, "completed", "available")), key)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "count <station-id> <level> <item-id> <count>",
		Short: "Set how many of an item you have handed in for a station level",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("level must be a number: %w", err)
			}
			n, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("count must be a number: %w", err)
			}
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return e.store.SetHideoutItemCount(hideout.ItemKey(args[0], level, args[2]), n)
		},
	})

	return cmd
}

func levelKey(station, level string) (string, error) {
	n, err := strconv.Atoi(level)
	if err != nil {
		return "", fmt.Errorf("level must be a number: %w", err)
	}
	return hideout.LevelKey(station, n), nil
}

func onOff(b bool, on, off string) string {
	if b {
		return on
	}
	return off
}
