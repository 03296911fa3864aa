// Command maintenancectl runs the maintenance agent's checks locally against
// YAML reference files and a SQLite conversation store.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spf13/cobra"

	"maintenance-agent/handler"
	"maintenance-agent/internal/domain"
	"maintenance-agent/internal/reference"
	"maintenance-agent/internal/repository"
	"maintenance-agent/internal/usecase"
)

const defaultConfigPath = "maintenancectl.yaml"

var (
	configPath string
	logLevel   string
	logger     *slog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "maintenancectl",
		Short:        "Check maintenance windows, inductions and conversation status locally",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: ./"+defaultConfigPath+")")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(windowCmd())
	root.AddCommand(inductionCmd())
	root.AddCommand(contactCmd())
	root.AddCommand(listCmd())
	return root
}

func windowCmd() *cobra.Command {
	var equipment, company, date, email, subject string
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Check a requested date against the maintenance schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(cmd, "/check_maintenance", map[string]any{
				"equipment_name": equipment,
				"company_name":   company,
				"requested_date": date,
				"email":          email,
				"subject":        subject,
			})
		},
	}
	cmd.Flags().StringVar(&equipment, "equipment", "", "equipment or maintenance subject")
	cmd.Flags().StringVar(&company, "company", "", "company name")
	cmd.Flags().StringVar(&date, "date", "", "requested date (DD/MM/YYYY or YYYY-MM-DD)")
	cmd.Flags().StringVar(&email, "email", "", "sender address; reports the sender's conversation")
	cmd.Flags().StringVar(&subject, "subject", "", "conversation subject (default: \"<equipment> request\")")
	_ = cmd.MarkFlagRequired("equipment")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func inductionCmd() *cobra.Command {
	var (
		company   string
		engineers []string
		date      string
	)
	cmd := &cobra.Command{
		Use:   "induction",
		Short: "Check engineers' induction expiry against a maintenance date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(cmd, "/check_inductions", map[string]any{
				"company":          company,
				"engineers":        engineers,
				"maintenance_date": date,
			})
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "company name")
	cmd.Flags().StringArrayVar(&engineers, "engineer", nil, "engineer name (repeatable, or comma separated)")
	cmd.Flags().StringVar(&date, "date", "", "maintenance date (default: today)")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("engineer")
	return cmd
}

func contactCmd() *cobra.Command {
	var (
		email, subject, engineers string
		attachment                bool
	)
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Record an inbound email and print the next instruction",
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(cmd, "/conversations", map[string]any{
				"email":              email,
				"subject":            subject,
				"attachment_present": attachment,
				"engineer_names":     engineers,
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "sender address")
	cmd.Flags().StringVar(&subject, "subject", "", "email subject")
	cmd.Flags().BoolVar(&attachment, "attachment", false, "a RAMS document was attached")
	cmd.Flags().StringVar(&engineers, "engineers", "", "comma separated engineer names")
	return cmd
}

func listCmd() *cobra.Command {
	var (
		status string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			var filter domain.Status
			if status != "" {
				st, ok := domain.ParseStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				filter = st
			}
			store, err := repository.NewSQLiteStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.ListConversations(cmd.Context(), filter, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range recs {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", r.LastUpdated, r.Status, r.Address, r.Subject)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only show conversations in this status")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to print")
	return cmd
}

func resolveConfig() (cliConfig, error) {
	if configPath != "" {
		return loadConfig(configPath, true)
	}
	return loadConfig(defaultConfigPath, false)
}

// invoke runs body through the same handler the Lambda uses and prints the
// JSON response. A non-2xx response becomes a command error. The conversation
// database is only opened when the request reads or writes a conversation.
func invoke(cmd *cobra.Command, route string, body map[string]any) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := &lazyStore{path: cfg.DBPath}
	defer store.Close()

	refs := reference.FileProvider{SchedulePath: cfg.SchedulePath, InductionsPath: cfg.InductionsPath}
	svc, err := usecase.NewService(refs, store, logger)
	if err != nil {
		return err
	}
	h, err := handler.NewHandler(svc, logger)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := h.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       route,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(payload),
	})
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(resp.Body), "", "  "); err != nil {
		pretty.WriteString(resp.Body)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(pretty.String()))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s failed with status %d", route, resp.StatusCode)
	}
	return nil
}
