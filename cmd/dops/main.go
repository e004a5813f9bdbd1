package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"droneops/internal/app"
	"droneops/internal/config"
	"droneops/internal/db"
	"droneops/internal/domain"
	"droneops/internal/engine"
	"droneops/internal/repo"
	"droneops/internal/server"
	"droneops/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "dops",
	Short: "Drone operations coordinator",
	Long: `dops matches pilots and drones to missions and flags conflicts before they become incidents.
Core concepts:
- Workspace: a directory holding droneops.yml, the sqlite database and (optionally) the CSV roster.
- Roster: three tables (pilot_roster, drone_fleet, missions). Import CSVs with 'dops import'.
- Matching: pilots and drones are sorted into perfect, with-warnings and ineligible tiers per mission.
- Conflicts: a fleet-wide scan of assigned missions, ordered Critical, High, Medium.
- Assignments never block: conflicts are reported next to the write.
- Event log: every write is recorded, view with 'dops log tail'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := db.EnsureWorkspace(viper.GetString("workspace"))
		return err
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DROPS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
}

func registerCommands() {
	rootCmd.AddCommand(pilotCmd())
	rootCmd.AddCommand(droneCmd())
	rootCmd.AddCommand(missionCmd())
	rootCmd.AddCommand(conflictsCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tokenCmd())
}

// --- pilots ---

func pilotCmd() *cobra.Command {
	p := &cobra.Command{Use: "pilot", Short: "Pilot roster"}
	p.AddCommand(pilotListCmd())
	p.AddCommand(pilotCostCmd())
	p.AddCommand(pilotAssignmentsCmd())
	p.AddCommand(pilotStatusCmd())
	p.AddCommand(pilotMatchCmd())
	p.AddCommand(pilotAssignCmd())
	return p
}

func pilotListCmd() *cobra.Command {
	var f engine.PilotFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Query pilots by skill, certification, location or status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				pilots, err := e.QueryPilots(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(pilots)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"ID", "Name", "Status", "Location", "Skills", "Certifications", "Rate", "Assignment"})
				for _, p := range pilots {
					tw.AppendRow(table.Row{p.ID, p.Name, p.Status, p.Location, p.Skills, p.Certifications, p.DailyRate, p.CurrentAssignment})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Skill, "skill", "", "skill filter")
	cmd.Flags().StringVar(&f.Certification, "cert", "", "certification filter")
	cmd.Flags().StringVar(&f.Location, "location", "", "location filter")
	cmd.Flags().StringVar(&f.Status, "status", "", "status filter")
	return cmd
}

func pilotCostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost <pilot-id> <mission-id>",
		Short: "Price a pilot for a mission against its budget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				rep, err := e.CalculatePilotCost(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSONOrTable(rep)
			})
		},
	}
	return cmd
}

func pilotAssignmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assignments",
		Short: "Pilots currently assigned, with mission details",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.PilotAssignments(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(res)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"Pilot", "Name", "Mission", "Client", "Location", "Dates"})
				for _, a := range res.Assignments {
					client, loc, dates := "", "", ""
					if a.Mission != nil {
						client, loc = a.Mission.Client, a.Mission.Location
						dates = a.Mission.StartDate + " .. " + a.Mission.EndDate
					}
					tw.AppendRow(table.Row{a.Pilot.ID, a.Pilot.Name, a.Pilot.CurrentAssignment, client, loc, dates})
				}
				tw.AppendFooter(table.Row{"", "", "", "", "Assigned", res.Count})
				tw.Render()
				return nil
			})
		},
	}
}

func pilotStatusCmd() *cobra.Command {
	var assignment string
	cmd := &cobra.Command{
		Use:   "status <pilot-id> <status>",
		Short: "Set a pilot's status (Available, Assigned, On Leave, Unavailable)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.UpdatePilotStatus(ctx, args[0], args[1], assignment)
				if err != nil {
					return err
				}
				return printUpdate(res)
			})
		},
	}
	cmd.Flags().StringVar(&assignment, "assignment", "", "current assignment (empty clears it)")
	return cmd
}

func pilotMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <mission-id>",
		Short: "Rank pilots for a mission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				rep, err := e.MatchPilots(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(rep)
				}
				fmt.Printf("Mission %s in %s (skills: %s; certs: %s; budget %.0f)\n",
					rep.MissionID, rep.MissionLocation, rep.RequiredSkills, rep.RequiredCerts, rep.Budget)
				tw := newTable()
				tw.AppendHeader(table.Row{"Tier", "Pilot", "Name", "Location", "Est. cost", "Notes"})
				addPilotRows(tw, "perfect", rep.Perfect)
				addPilotRows(tw, "warnings", rep.WithWarnings)
				addPilotRows(tw, "ineligible", rep.Ineligible)
				tw.Render()
				return nil
			})
		},
	}
}

func addPilotRows(tw table.Writer, tier string, items []domain.PilotCandidate) {
	for _, c := range items {
		tw.AppendRow(table.Row{tier, c.PilotID, c.Name, c.Location, c.EstimatedCost, notes(c.Issues, c.Warnings)})
	}
}

func pilotAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <pilot-id> <mission-id>",
		Short: "Assign a pilot to a mission (conflicts are reported, not blocking)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.AssignPilot(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printAssignment(res)
			})
		},
	}
}

// --- drones ---

func droneCmd() *cobra.Command {
	d := &cobra.Command{Use: "drone", Short: "Drone fleet"}
	d.AddCommand(droneListCmd())
	d.AddCommand(droneStatusCmd())
	d.AddCommand(droneMatchCmd())
	d.AddCommand(droneAssignCmd())
	d.AddCommand(droneMaintenanceCmd())
	return d
}

func droneListCmd() *cobra.Command {
	var f engine.DroneFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Query drones by capability, location, weather rating or status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				drones, err := e.QueryDrones(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(drones)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"ID", "Model", "Status", "Location", "Capabilities", "Weather", "Maintenance due", "Assignment"})
				for _, d := range drones {
					tw.AppendRow(table.Row{d.ID, d.Model, d.Status, d.Location, d.Capabilities, d.WeatherResistance, d.MaintenanceDueRaw, d.CurrentAssignment})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Capability, "capability", "", "capability filter")
	cmd.Flags().StringVar(&f.Location, "location", "", "location filter")
	cmd.Flags().StringVar(&f.WeatherResistance, "weather", "", "weather resistance filter")
	cmd.Flags().StringVar(&f.Status, "status", "", "status filter")
	return cmd
}

func droneStatusCmd() *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "status <drone-id> <status>",
		Short: "Set a drone's status (Available, Deployed, Maintenance)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.UpdateDroneStatus(ctx, args[0], args[1], location)
				if err != nil {
					return err
				}
				return printUpdate(res)
			})
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "new location (unchanged when empty)")
	return cmd
}

func droneMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <mission-id>",
		Short: "Rank drones for a mission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				rep, err := e.MatchDrones(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(rep)
				}
				fmt.Printf("Mission %s (forecast: %s)\n", rep.MissionID, rep.WeatherForecast)
				tw := newTable()
				tw.AppendHeader(table.Row{"Tier", "Drone", "Model", "Location", "Weather", "Notes"})
				addDroneRows(tw, "suitable", rep.Suitable)
				addDroneRows(tw, "warnings", rep.WithWarnings)
				addDroneRows(tw, "blocked", rep.Blocked)
				tw.Render()
				return nil
			})
		},
	}
}

func addDroneRows(tw table.Writer, tier string, items []domain.DroneCandidate) {
	for _, c := range items {
		tw.AppendRow(table.Row{tier, c.DroneID, c.Model, c.Location, c.WeatherResistance, notes(c.Issues, c.Warnings)})
	}
}

func droneAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <drone-id> <mission-id>",
		Short: "Assign a drone to a mission (conflicts are reported, not blocking)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.AssignDrone(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printAssignment(res)
			})
		},
	}
}

func droneMaintenanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maintenance",
		Short: "Drones overdue or due for maintenance within the horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				rep, err := e.FlagMaintenance(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(rep)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"Drone", "Model", "Location", "Status", "Due", "Flag"})
				for _, f := range append(rep.Overdue, rep.Upcoming...) {
					tw.AppendRow(table.Row{f.DroneID, f.Model, f.Location, f.Status, f.MaintenanceDue, f.Flag})
				}
				tw.AppendFooter(table.Row{"", "", "", "", "Overdue / upcoming", fmt.Sprintf("%d / %d (%d days)", rep.OverdueCount, rep.UpcomingCount, rep.HorizonDays)})
				tw.Render()
				return nil
			})
		},
	}
}

// --- missions and conflicts ---

func missionCmd() *cobra.Command {
	m := &cobra.Command{Use: "mission", Short: "Missions"}
	m.AddCommand(missionActiveCmd())
	m.AddCommand(missionConflictsCmd())
	return m
}

func missionActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Missions with a pilot or drone assigned",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				missions, err := e.ActiveAssignments(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(missions)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"Mission", "Client", "Location", "Start", "End", "Priority", "Pilot", "Drone"})
				for _, m := range missions {
					tw.AppendRow(table.Row{m.ID, m.Client, m.Location, m.StartDate, m.EndDate, m.Priority, m.AssignedPilot, m.AssignedDrone})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func missionConflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts <mission-id>",
		Short: "Conflicts for one mission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.CheckMissionConflicts(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(res)
				}
				renderConflicts(res.Conflicts)
				return nil
			})
		},
	}
}

func conflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "Scan every assigned mission for conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				rep, err := e.DetectAllConflicts(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(rep)
				}
				renderConflicts(rep.Conflicts)
				fmt.Printf("%d conflicts: %d critical, %d high, %d medium\n", rep.Total, rep.Critical, rep.High, rep.Medium)
				return nil
			})
		},
	}
}

func renderConflicts(items []domain.Conflict) {
	tw := newTable()
	tw.AppendHeader(table.Row{"Severity", "Type", "Mission", "Pilot", "Drone", "Detail"})
	for _, c := range items {
		tw.AppendRow(table.Row{c.Severity, c.Type, c.MissionID, c.PilotID, c.DroneID, c.Detail})
	}
	tw.Render()
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Fleet readiness at a glance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.Summary(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(s)
				}
				tw := newTable()
				tw.AppendRows([]table.Row{
					{"Pilots ready", s.PilotsReady},
					{"Drones ready", s.DronesReady},
					{"Drones in maintenance", s.DronesInMaintenance},
					{"Missions", s.Missions},
					{"Active missions", s.ActiveMissions},
				})
				tw.Render()
				return nil
			})
		},
	}
}

// --- workspace ---

func importCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load pilot_roster.csv, drone_fleet.csv and missions.csv into the workspace database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				counts, err := a.Import(ctx, dir)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(counts)
				}
				for _, t := range store.Tables {
					fmt.Printf("%s: %d rows\n", t, counts[t])
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory with the CSV files (default: config source.csv_dir)")
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect workspace config",
		Long:  "Config lives in droneops.yml: the data source, the rule constants (rain markers, maintenance horizon, currency), the API server and logging.",
	}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	cfg.AddCommand(configInitCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			if cfg.Server.JWTSecret != "" {
				cfg.Server.JWTSecret = "********"
			}
			if viper.GetBool("json") {
				return printJSON(cfg)
			}
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(b))
			return nil
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate droneops.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.Load(viper.GetString("workspace"))
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": fmt.Sprint(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("config OK")
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default droneops.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
		Long:  "Every assignment, status change and import is recorded with its actor.",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var f repo.EventFilter
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if a.Repo == nil {
					return app.ErrReadOnlySource
				}
				events, err := a.Repo.LatestEvents(ctx, n, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(events)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"ID", "Time", "Type", "Entity", "Actor", "Payload"})
				for _, ev := range events {
					tw.AppendRow(table.Row{ev.ID, ev.TS, ev.Type, strings.TrimSuffix(ev.EntityKind+":"+ev.EntityID, ":"), ev.ActorID, ev.Payload})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&f.Type, "type", "", "event type filter")
	cmd.Flags().StringVar(&f.EntityKind, "entity-kind", "", "entity kind (pilot, drone, roster)")
	cmd.Flags().StringVar(&f.EntityID, "entity-id", "", "entity id")
	return cmd
}

// --- server ---

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if !cmd.Flags().Changed("addr") && a.Config.Server.Addr != "" {
					addr = a.Config.Server.Addr
				}
				if !cmd.Flags().Changed("base-path") && a.Config.Server.BasePath != "" {
					basePath = a.Config.Server.BasePath
				}
				secret := viper.GetString("jwt_secret")
				if secret == "" {
					secret = a.Config.Server.JWTSecret
				}
				scfg := server.Config{
					Engine:   a.Engine,
					BasePath: basePath,
					Auth:     server.AuthConfig{JWTSecret: secret},
					Log:      a.Log,
				}
				if a.Repo != nil {
					scfg.Events = a.Repo
				}
				handler, err := server.New(scfg)
				if err != nil {
					return err
				}
				srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
				mode := "header actor (X-Actor-Id)"
				if secret != "" {
					mode = "bearer JWT"
				}
				fmt.Printf("Serving drone ops API on http://%s%s (OpenAPI at %s/openapi.json, auth: %s)\n", addr, basePath, basePath, mode)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

func tokenCmd() *cobra.Command {
	t := &cobra.Command{Use: "token", Short: "API bearer tokens"}
	var ttl time.Duration
	var roles []string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed token for --actor-id (secret from DROPS_JWT_SECRET or server.jwt_secret)",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := viper.GetString("jwt_secret")
			if secret == "" {
				cfg, err := config.LoadOptional(viper.GetString("workspace"))
				if err != nil {
					return err
				}
				secret = cfg.Server.JWTSecret
			}
			if secret == "" {
				return fmt.Errorf("DROPS_JWT_SECRET or server.jwt_secret is required")
			}
			tok, err := server.IssueToken(secret, viper.GetString("actor-id"), ttl, roles...)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(map[string]string{"token": tok})
			}
			fmt.Println(tok)
			return nil
		},
	}
	issue.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	issue.Flags().StringSliceVar(&roles, "role", nil, "role claim (repeatable)")
	t.AddCommand(issue)
	return t
}

// --- helpers ---

func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	a, err := app.Open(ctx, app.Options{Workspace: viper.GetString("workspace"), LogOut: os.Stderr})
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(engine.WithActor(ctx, viper.GetString("actor-id")), a)
}

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	return withApp(ctx, func(ctx context.Context, a *app.App) error {
		return fn(ctx, a.Engine)
	})
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	return tw
}

func notes(issues, warnings []string) string {
	all := make([]string, 0, len(issues)+len(warnings))
	all = append(all, issues...)
	all = append(all, warnings...)
	return strings.Join(all, "\n")
}

func printUpdate(res domain.MultiUpdateResult) error {
	if viper.GetBool("json") {
		return printJSON(res)
	}
	fmt.Println(res.Message)
	if !res.Success {
		return errors.New("update failed")
	}
	return nil
}

func printAssignment(res domain.AssignmentResult) error {
	if viper.GetBool("json") {
		return printJSON(res)
	}
	fmt.Printf("assignment %s: success=%t\n", res.AssignmentID, res.Success)
	for _, c := range res.ConflictsDetected {
		fmt.Println("  -", c)
	}
	if res.Warning != nil {
		fmt.Println(*res.Warning)
	}
	if !res.Success {
		return errors.New("assignment write failed")
	}
	return nil
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
