package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/careermentor/internal/analysis"
	"github.com/kalambet/careermentor/internal/api"
	"github.com/kalambet/careermentor/internal/chat"
	"github.com/kalambet/careermentor/internal/config"
	"github.com/kalambet/careermentor/internal/profile"
	"github.com/kalambet/careermentor/internal/render"
	"github.com/kalambet/careermentor/internal/wizard"
)

// newRemote builds the analysis service client from config.
var newRemote = func() (api.Remote, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return analysis.NewClient(cfg.API.BaseURL, cfg.API.Timeout), nil
}

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Validate a profile and print recommended roles",
	Long: `Validate a profile and print recommended roles.

Examples:
  careermentor analyze --name "Aryan Soni" --email aryan.soni@example.com --skills "Python, SQL"
  careermentor analyze --demo --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		demo, _ := cmd.Flags().GetBool("demo")
		asJSON, _ := cmd.Flags().GetBool("json")

		var f profile.Fields
		if demo {
			f = profile.DemoFields()
		}
		flagInto := func(name string, dst *string) {
			if cmd.Flags().Changed(name) {
				*dst, _ = cmd.Flags().GetString(name)
			}
		}
		flagInto("name", &f.Name)
		flagInto("email", &f.Email)
		flagInto("education", &f.Education)
		flagInto("skills", &f.Skills)
		flagInto("projects", &f.Projects)
		flagInto("interests", &f.Interests)

		if err := wizard.NewValidator().CheckAll(f); err != nil {
			var verr *wizard.ValidationError
			if errors.As(err, &verr) {
				printError("step %d: %s", verr.Step, verr.Message)
			}
			return err
		}

		remote, err := newRemote()
		if err != nil {
			return err
		}

		printStep("Analyzing profile for %s", f.Name)
		resp, err := remote.AnalyzeProfile(cmd.Context(), profile.Build(f).Payload())
		if err != nil {
			printError("%s", wizard.SubmitFailedNotice)
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		if summary := resp.SummaryText(); summary != "" {
			fmt.Fprintf(out, "%s\n\n", summary)
		}
		printCards(out, render.BuildCards(resp.Roles, 0))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("name", "", "full name (step 1)")
	analyzeCmd.Flags().String("email", "", "email address (step 2)")
	analyzeCmd.Flags().String("education", "", "education (step 3)")
	analyzeCmd.Flags().String("skills", "", "comma-separated skills (step 4)")
	analyzeCmd.Flags().String("projects", "", "projects (step 5)")
	analyzeCmd.Flags().String("interests", "", "comma-separated interests (step 6)")
	analyzeCmd.Flags().Bool("demo", false, "start from the demo profile")
	analyzeCmd.Flags().Bool("json", false, "print the raw response as JSON")
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the career assistant a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.TrimSpace(strings.Join(args, " "))
		if message == "" {
			return chat.ErrEmptyMessage
		}

		remote, err := newRemote()
		if err != nil {
			return err
		}

		reply, err := remote.Chat(cmd.Context(), message)
		fmt.Fprintln(cmd.OutOrStdout(), chat.ReplyText(reply, err))
		return err
	},
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, err := newRemote()
		if err != nil {
			return err
		}
		srv := api.NewMCPServer(api.MCPDeps{Remote: remote, Version: version})
		err = server.NewStdioServer(srv).Listen(cmd.Context(), os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp stdio server: %w", err)
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s  (%s)\n", colorize(colorBold, k.Key), k.Value, k.EnvVar)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value, restoring its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}
		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}
