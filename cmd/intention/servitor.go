package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intention/internal/config"
	"intention/internal/logging"
	"intention/internal/servitor"
)

var (
	flagServitorInitialCharge float64
	flagServitorStatus        string
	flagServitorChargeMethod  string
	flagServitorFeedAmount    float64
	flagServitorTask          string
	flagServitorTaskParams    []string
	flagServitorReason        string
)

var servitorCmd = &cobra.Command{
	Use:   "servitor",
	Short: "Create, charge, and run digital servitors",
	Long: `Manages digital servitors: named thought-forms with a purpose, a
generated sigil, a charge level that decays daily, and tasks they can run.
Records live under ~/.intention as JSON files.`,
}

var servitorCreateCmd = &cobra.Command{
	Use:   "create <name> <purpose>",
	Short: "Create a new servitor with a generated sigil",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, purpose := args[0], args[1]
		store, err := openServitorStore()
		if err != nil {
			return err
		}
		if _, err := store.Load(name); err == nil {
			return fmt.Errorf("servitor %q already exists", name)
		}

		sv := servitor.New(name, purpose)
		sv.ChargeLevel = flagServitorInitialCharge

		sigilPath, err := servitor.NewSigilGenerator().GenerateFor(sv, store.SigilDir())
		if err != nil {
			// A sigil-less servitor still works.
			fmt.Printf("Warning: could not generate sigil: %v\n", err)
		} else {
			sv.SigilPath = sigilPath
		}

		if err := store.Save(sv); err != nil {
			return err
		}
		logging.L(logging.CategoryServitor).Info("servitor created",
			zap.String("name", name), zap.Float64("charge", sv.ChargeLevel))

		fmt.Printf("Servitor %q created.\n", name)
		fmt.Printf("  Purpose: %s\n", purpose)
		if sv.SigilPath != "" {
			fmt.Printf("  Sigil: %s\n", sv.SigilPath)
		}
		fmt.Printf("  Initial Charge: %.1f%%\n", sv.ChargeLevel)
		return nil
	},
}

var servitorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List servitors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openServitorStore()
		if err != nil {
			return err
		}
		var filter servitor.Status
		if flagServitorStatus != "" {
			if filter, err = servitor.ParseStatus(flagServitorStatus); err != nil {
				return err
			}
		}
		names, err := store.List(filter)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No servitors found.")
			return nil
		}
		fmt.Printf("%-20s %-12s %-10s %s\n", "Name", "Status", "Charge", "Purpose")
		fmt.Println(strings.Repeat("-", 85))
		for _, name := range names {
			sv, err := store.Load(name)
			if err != nil {
				return err
			}
			purpose := sv.Purpose
			if len(purpose) > 37 {
				purpose = purpose[:37]
			}
			fmt.Printf("%-20s %-12s %5.1f%%    %s\n", sv.Name, sv.Status, sv.ChargeLevel, purpose)
		}
		return nil
	},
}

var servitorShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show servitor details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openServitorStore()
		if err != nil {
			return err
		}
		sv, err := store.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("\n=== %s ===\n", sv.Name)
		fmt.Printf("Purpose: %s\n", sv.Purpose)
		fmt.Printf("Status: %s\n", sv.Status)
		fmt.Printf("Charge Level: %.1f%%\n", sv.ChargeLevel)
		fmt.Printf("Activation Threshold: %.1f%%\n", sv.ActivationThreshold)
		fmt.Printf("Created: %s\n", sv.CreationDate.Format("2006-01-02 15:04:05"))
		if sv.LastFed != nil {
			fmt.Printf("Last Fed: %s\n", sv.LastFed.Format("2006-01-02 15:04:05"))
		}
		if sv.LastCharged != nil {
			fmt.Printf("Last Charged: %s\n", sv.LastCharged.Format("2006-01-02 15:04:05"))
		}
		if sv.SigilPath != "" {
			fmt.Printf("Sigil: %s\n", sv.SigilPath)
		}
		if len(sv.Tasks) > 0 {
			fmt.Printf("\nTasks (%d):\n", len(sv.Tasks))
			for _, task := range sv.Tasks {
				fmt.Printf("  - %s: %s\n", task.Name, task.Description)
				fmt.Printf("    Type: %s, Executions: %d\n", task.Type, task.ExecutionCount)
			}
		}
		if sv.Notes != "" {
			fmt.Printf("\nNotes:\n%s\n", sv.Notes)
		}
		return nil
	},
}

var servitorChargeCmd = &cobra.Command{
	Use:   "charge <name> <amount>",
	Short: "Add charge to a servitor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("charge amount %q: %w", args[1], err)
		}
		store, err := openServitorStore()
		if err != nil {
			return err
		}
		sv, err := store.Load(args[0])
		if err != nil {
			return err
		}
		sv.AddCharge(amount, flagServitorChargeMethod)
		if err := store.Save(sv); err != nil {
			return err
		}
		logging.L(logging.CategoryServitor).Info("servitor charged",
			zap.String("name", sv.Name), zap.Float64("amount", amount),
			zap.Float64("level", sv.ChargeLevel))
		fmt.Printf("Charged %s by %.1f%% (new level: %.1f%%)\n", sv.Name, amount, sv.ChargeLevel)
		return nil
	},
}

var servitorActivateCmd = &cobra.Command{
	Use:   "activate <name>",
	Short: "Activate a charged servitor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openServitorStore()
		if err != nil {
			return err
		}
		sv, err := store.Load(args[0])
		if err != nil {
			return err
		}
		if !sv.Activate() {
			return fmt.Errorf("cannot activate %s (charge level: %.1f%%, threshold: %.1f%%)",
				sv.Name, sv.ChargeLevel, sv.ActivationThreshold)
		}
		if err := store.Save(sv); err != nil {
			return err
		}
		fmt.Printf("Servitor %q activated.\n", sv.Name)
		return nil
	},
}

var servitorFeedCmd = &cobra.Command{
	Use:   "feed <name>",
	Short: "Feed a servitor to recharge it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openServitorStore()
		if err != nil {
			return err
		}
		sv, err := store.Load(args[0])
		if err != nil {
			return err
		}
		sv.Feed(flagServitorFeedAmount)
		if err := store.Save(sv); err != nil {
			return err
		}
		fmt.Printf("Fed %s (+%.1f%% charge, new level: %.1f%%)\n",
			sv.Name, flagServitorFeedAmount, sv.ChargeLevel)
		return nil
	},
}

var servitorExecuteCmd = &cobra.Command{
	Use:   "execute <name>",
	Short: "Execute a servitor's tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openServitorStore()
		if err != nil {
			return err
		}
		sv, err := store.Load(args[0])
		if err != nil {
			return err
		}
		executor := servitor.NewExecutor(sv)
		log := logging.L(logging.CategoryServitor)

		if flagServitorTask != "" {
			res, err := executor.ExecuteByName(flagServitorTask)
			if err != nil {
				return err
			}
			printTaskResult(res, log)
		} else {
			results := executor.ExecuteAll()
			fmt.Printf("Executed %d tasks for %s\n", len(results), sv.Name)
			for _, res := range results {
				printTaskResult(res, log)
			}
		}
		return store.Save(sv)
	},
}

func printTaskResult(res servitor.TaskResult, log *zap.Logger) {
	if res.Err != nil {
		fmt.Printf("  - %s: failed: %v\n", res.Task, res.Err)
		log.Warn("task failed", zap.String("task", res.Task), zap.Error(res.Err))
		return
	}
	fmt.Printf("  - %s: %s\n", res.Task, res.Message)
	log.Info("task executed", zap.String("task", res.Task), zap.Bool("success", res.Success))
}

var servitorAddTaskCmd = &cobra.Command{
	Use:   "add-task <servitor> <task-name> <description> <task-type>",
	Short: "Add a task to a servitor",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskType := args[3]
		valid := false
		for _, t := range servitor.TaskTypes {
			if t == taskType {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("task type %q: want one of %s", taskType, strings.Join(servitor.TaskTypes, ", "))
		}
		params, err := parseTaskParams(flagServitorTaskParams)
		if err != nil {
			return err
		}
		store, err := openServitorStore()
		if err != nil {
			return err
		}
		sv, err := store.Load(args[0])
		if err != nil {
			return err
		}
		sv.Tasks = append(sv.Tasks, servitor.Task{
			Name:        args[1],
			Description: args[2],
			Type:        taskType,
			Parameters:  params,
		})
		if err := store.Save(sv); err != nil {
			return err
		}
		fmt.Printf("Task %q added to %s\n", args[1], sv.Name)
		return nil
	},
}

var servitorHealthCmd = &cobra.Command{
	Use:   "health [name]",
	Short: "Check servitor health",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openServitorStore()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			sv, err := store.Load(args[0])
			if err != nil {
				return err
			}
			h := servitor.CheckHealth(sv)
			fmt.Printf("\n=== Health Check: %s ===\n", sv.Name)
			fmt.Printf("Charge Level: %.1f%%\n", h.ChargeLevel)
			fmt.Printf("Status: %s\n", h.Status)
			fmt.Printf("Healthy: %v\n", h.Healthy)
			if h.DaysSinceFed >= 0 {
				fmt.Printf("Days since fed: %.1f\n", h.DaysSinceFed)
			}
			if h.DaysSinceCharged >= 0 {
				fmt.Printf("Days since charged: %.1f\n", h.DaysSinceCharged)
			}
			if h.NeedsFeeding {
				fmt.Println("Needs feeding!")
			}
			if h.NeedsCharging {
				fmt.Println("Needs charging!")
			}
			return nil
		}

		servitors, err := store.All()
		if err != nil {
			return err
		}
		reminders := servitor.Reminders(servitors)
		if len(reminders) == 0 {
			fmt.Println("All servitors are healthy.")
			return nil
		}
		fmt.Println("\n=== Maintenance Reminders ===")
		for _, r := range reminders {
			fmt.Printf("[%s] %s\n", strings.ToUpper(r.Priority), r.Message)
		}
		return nil
	},
}

var servitorDismissCmd = &cobra.Command{
	Use:   "dismiss <name>",
	Short: "Dismiss a servitor with the release ritual",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openServitorStore()
		if err != nil {
			return err
		}
		sv, err := store.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Println(servitor.Ritual(sv))

		fmt.Print("Do you wish to proceed with dismissal? (yes/no): ")
		stdin := bufio.NewScanner(os.Stdin)
		if !stdin.Scan() {
			fmt.Println("Dismissal cancelled.")
			return nil
		}
		answer := strings.ToLower(strings.TrimSpace(stdin.Text()))
		if answer != "y" && answer != "yes" {
			fmt.Println("Dismissal cancelled.")
			return nil
		}

		reason := flagServitorReason
		if reason == "" {
			reason = "Ritual dismissal"
		}
		if err := servitor.Dismiss(store, sv, reason); err != nil {
			return err
		}
		logging.L(logging.CategoryServitor).Info("servitor dismissed",
			zap.String("name", sv.Name), zap.String("reason", reason))
		fmt.Printf("Servitor %s has been dismissed and archived.\n", sv.Name)
		return nil
	},
}

// parseTaskParams turns repeated key=value flags into a parameter map.
func parseTaskParams(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("task parameter %q: want key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

func openServitorStore() (*servitor.Store, error) {
	dir, err := config.StateDir()
	if err != nil {
		return nil, err
	}
	return servitor.NewStore(dir)
}

func init() {
	servitorCreateCmd.Flags().Float64Var(&flagServitorInitialCharge, "initial-charge", 0, "starting charge level 0-100")
	servitorListCmd.Flags().StringVar(&flagServitorStatus, "status", "", "filter by status: dormant, active, or dismissed")
	servitorChargeCmd.Flags().StringVar(&flagServitorChargeMethod, "method", "manual", "charging method recorded in the history")
	servitorFeedCmd.Flags().Float64Var(&flagServitorFeedAmount, "amount", 10, "charge added by the feeding")
	servitorExecuteCmd.Flags().StringVar(&flagServitorTask, "task", "", "run only the named task")
	servitorAddTaskCmd.Flags().StringArrayVar(&flagServitorTaskParams, "param", nil, "task parameter key=value; repeatable")
	servitorDismissCmd.Flags().StringVar(&flagServitorReason, "reason", "", "reason recorded in the dismissal note")

	servitorCmd.AddCommand(
		servitorCreateCmd,
		servitorListCmd,
		servitorShowCmd,
		servitorChargeCmd,
		servitorActivateCmd,
		servitorFeedCmd,
		servitorExecuteCmd,
		servitorAddTaskCmd,
		servitorHealthCmd,
		servitorDismissCmd,
	)
}
