package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/careermentor/internal/chat"
	"github.com/kalambet/careermentor/internal/profile"
	"github.com/kalambet/careermentor/internal/wizard"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Remote  Remote
	Version string
}

// NewMCPServer creates an MCP server exposing the intake flow as tools.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	if deps.Version == "" {
		deps.Version = "dev"
	}
	s := server.NewMCPServer(
		"careermentor",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithInstructions("careermentor: validate a career profile, get role recommendations, and ask the career assistant."),
		server.WithRecovery(),
	)

	v := wizard.NewValidator()

	s.AddTool(
		mcp.NewTool("validate_step", withProfileFields(
			mcp.WithDescription("Check one step of the profile form. Steps 1 (name), 2 (email) and 4 (skills) have rules."),
			mcp.WithNumber("step", mcp.Description("Step number 1-6"), mcp.Required()),
		)...),
		mcpValidateStep(v),
	)

	s.AddTool(
		mcp.NewTool("analyze_profile", withProfileFields(
			mcp.WithDescription("Validate a full profile and return recommended career roles as JSON."),
		)...),
		mcpAnalyzeProfile(deps, v),
	)

	s.AddTool(
		mcp.NewTool("career_chat",
			mcp.WithDescription("Ask the career assistant a question."),
			mcp.WithString("message", mcp.Description("The question to send"), mcp.Required()),
		),
		mcpCareerChat(deps),
	)

	return s
}

// withProfileFields appends the six form fields as string arguments.
func withProfileFields(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(opts,
		mcp.WithString("name", mcp.Description("Full name")),
		mcp.WithString("email", mcp.Description("Email address")),
		mcp.WithString("education", mcp.Description("Education background")),
		mcp.WithString("skills", mcp.Description("Comma-separated skills")),
		mcp.WithString("projects", mcp.Description("Projects worked on")),
		mcp.WithString("interests", mcp.Description("Comma-separated interests")),
	)
}

func fieldsFromRequest(req mcp.CallToolRequest) profile.Fields {
	return profile.Fields{
		Name:      req.GetString("name", ""),
		Email:     req.GetString("email", ""),
		Education: req.GetString("education", ""),
		Skills:    req.GetString("skills", ""),
		Projects:  req.GetString("projects", ""),
		Interests: req.GetString("interests", ""),
	}
}

func mcpValidateStep(v *wizard.Validator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		step := req.GetInt("step", 0)
		if step < wizard.FirstStep || step > wizard.LastStep {
			return mcpError(fmt.Sprintf("step must be between %d and %d", wizard.FirstStep, wizard.LastStep)), nil
		}

		if err := v.Check(step, fieldsFromRequest(req)); err != nil {
			var verr *wizard.ValidationError
			if errors.As(err, &verr) {
				return mcpError(verr.Message), nil
			}
			return mcpError(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Step %d is valid", step)), nil
	}
}

func mcpAnalyzeProfile(deps MCPDeps, v *wizard.Validator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f := fieldsFromRequest(req)
		if err := v.CheckAll(f); err != nil {
			var verr *wizard.ValidationError
			if errors.As(err, &verr) {
				return mcpError(verr.Message), nil
			}
			return mcpError(fmt.Sprintf("validation failed: %v", err)), nil
		}

		resp, err := deps.Remote.AnalyzeProfile(ctx, profile.Build(f).Payload())
		if err != nil {
			return mcpError(fmt.Sprintf("%s (%v)", wizard.SubmitFailedNotice, err)), nil
		}

		type result struct {
			Roles   any    `json:"roles"`
			Summary string `json:"profile_summary,omitempty"`
		}
		b, err := json.Marshal(result{Roles: resp.Roles, Summary: resp.SummaryText()})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal roles: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpCareerChat(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil || strings.TrimSpace(message) == "" {
			return mcpError("message is required"), nil
		}

		reply, err := deps.Remote.Chat(ctx, message)
		text := chat.ReplyText(reply, err)
		if err != nil {
			return mcpError(text), nil
		}
		return mcpText(text), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
