package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Oddey86/TarkovBuddy/internal/progress"
	"github.com/Oddey86/TarkovBuddy/internal/ui"
)

func progressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "progress",
		Aliases: []string{"p"},
		Short:   "Record quest progress and player level",
	}

	cmd.AddCommand(progressShowCmd())
	cmd.AddCommand(progressCompleteCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "uncomplete <task-id>",
		Short: "Mark a quest as not completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			if err := e.store.UncompleteQuest(args[0]); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", ui.StatusIcon("available"), args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "objective <task-id> <objective-id>",
		Short: "Toggle a single objective",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			done, err := e.store.ToggleObjective(args[0], args[1])
			if err != nil {
				return err
			}
			status := "available"
			if done {
				status = "completed"
			}
			fmt.Printf("%s %s:%s\n", ui.StatusIcon(status), args[0], args[1])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "level <n>",
		Short: "Set the player level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("level must be a number: %w", err)
			}
			e, err := loadEnv()
			if err != nil {
				return err
			}
			if err := e.store.SetPlayerLevel(level); err != nil {
				if errors.Is(err, progress.ErrInvalidLevel) {
					return fmt.Errorf("level must be between %d and %d", progress.MinPlayerLevel, progress.MaxPlayerLevel)
				}
				return err
			}
			fmt.Printf("✅ Level set to %s\n", ui.Bold(level))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "item <key> <count>",
		Short: "Set how many of a quest item you have handed in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("count must be a number: %w", err)
			}
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return e.store.SetQuestItemCount(args[0], n)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "undo <scope>",
		Short: "Undo the last change in a scope (quest, questItems, hideout, optimizer)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := progress.ParseScope(args[0])
			if err != nil {
				return err
			}
			e, err := loadEnv()
			if err != nil {
				return err
			}
			if err := e.store.Undo(scope); err != nil {
				if errors.Is(err, progress.ErrNothingToUndo) {
					fmt.Println(ui.Dim("Nothing to undo."))
					return nil
				}
				return err
			}
			fmt.Printf("↩️  Undid last %s change (%d more available)\n", ui.Bold(scope), e.store.UndoCount(scope))
			return nil
		},
	})

	return cmd
}

func progressCompleteCmd() *cobra.Command {
	var withPrereqs bool

	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a quest completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}

			var prereqs []string
			if withPrereqs {
				tasks, err := e.provider.Tasks(cmd.Context())
				if err != nil {
					return fmt.Errorf("load catalog: %w", err)
				}
				prereqs = progress.PrerequisiteClosure(tasks, args[0])
			}

			if err := e.store.CompleteQuest(args[0], prereqs...); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", ui.StatusIcon("completed"), args[0])
			for _, id := range prereqs {
				fmt.Printf("  %s %s\n", ui.StatusIcon("completed"), ui.Dim(id))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withPrereqs, "with-prereqs", false, "Also complete every prerequisite quest")
	return cmd
}

func progressShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show stored progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			st := e.store.State()
			if flagJSON {
				return outputJSON(st)
			}

			fmt.Printf("📋 %s\n", ui.BoldCyan("Progress"))
			fmt.Println(ui.Cyan("════════"))
			fmt.Printf("Level:       %s\n", ui.Bold(e.store.PlayerLevel()))
			fmt.Printf("Quests:      %s completed\n", ui.Bold(len(st.CompletedQuests)))
			fmt.Printf("Objectives:  %s completed\n", ui.Bold(len(st.CompletedObjectives)))
			fmt.Printf("Hideout:     %s levels selected, %s built\n", ui.Bold(countTrue(st.HideoutSelected)), ui.Bold(countTrue(st.HideoutCompleted)))
			fmt.Println()
			fmt.Println(ui.Dim("Undo available:"))
			for _, scope := range progress.Scopes {
				fmt.Printf("  %-11s %d\n", scope, e.store.UndoCount(scope))
			}
			return nil
		},
	}
}

func countTrue(m map[string]bool) int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}
