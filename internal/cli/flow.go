package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/adapters/execution"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/app/dto"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/app/services"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/config"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/layout"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/sanitize"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/validation"
)

// newValidateCmd creates the validate command. It reports every
// structural violation and exits non-zero when any are found.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <flow.json>",
		Short: "Check a flow file for structural violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())
			fd, err := readFlowFile(args[0])
			if err != nil {
				return err
			}

			violations := validation.ValidateFlow(fd)
			if len(violations) == 0 {
				logger.Infof("%s is structurally valid (%d nodes, %d edges)", args[0], len(fd.Nodes), len(fd.Edges))
				return nil
			}
			for _, v := range violations {
				logger.Warnf("%s [%s]: %s", v.Kind, v.EntityID, v.Message)
			}
			return fmt.Errorf("%d violation(s) found", len(violations))
		},
	}
}

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output   string
	spacingX float64
	spacingY float64
	startX   float64
	startY   float64
}

// newLayoutCmd creates the layout command. Defaults mirror the layout
// engine's canvas spacing.
func newLayoutCmd() *cobra.Command {
	defaults := layout.DefaultOptions()
	opts := layoutOpts{
		spacingX: defaults.SpacingX,
		spacingY: defaults.SpacingY,
		startX:   defaults.StartX,
		startY:   defaults.StartY,
	}

	cmd := &cobra.Command{
		Use:   "layout <flow.json>",
		Short: "Assign canvas positions to every node in a flow file",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())
			fd, err := readFlowFile(args[0])
			if err != nil {
				return err
			}
			if err := requireValid(c.Context(), fd); err != nil {
				return err
			}

			layout.ApplyWithOptions(fd.Nodes, fd.Edges, layout.Options{
				SpacingX: opts.spacingX,
				SpacingY: opts.spacingY,
				StartX:   opts.startX,
				StartY:   opts.startY,
			})
			b := layout.Bounds(fd.Nodes)
			logger.Infof("Laid out %d nodes (canvas %.0fx%.0f)", len(fd.Nodes), b.Width, b.Height)

			return writeFlow(fd, opts.output, logger)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().Float64Var(&opts.spacingX, "spacing-x", opts.spacingX, "horizontal spacing between depth levels")
	cmd.Flags().Float64Var(&opts.spacingY, "spacing-y", opts.spacingY, "vertical spacing between siblings")
	cmd.Flags().Float64Var(&opts.startX, "start-x", opts.startX, "canvas X origin")
	cmd.Flags().Float64Var(&opts.startY, "start-y", opts.startY, "canvas Y origin")

	return cmd
}

// newSanitizeCmd creates the sanitize command producing the API-safe
// projection of a flow file.
func newSanitizeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sanitize <flow.json>",
		Short: "Reduce a flow file to its API-safe projection",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())
			fd, err := readFlowFile(args[0])
			if err != nil {
				return err
			}
			if err := requireValid(c.Context(), fd); err != nil {
				return err
			}

			clean := sanitize.CleanFlowData(fd)
			logger.Infof("Sanitized %d nodes", len(clean.Nodes))

			return writeFlow(clean, output, logger)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// newSubmitCmd creates the submit command. It runs the full pipeline
// against the execution host named by EXECUTION_BASE_URL.
func newSubmitCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "submit <flow.json>",
		Short: "Validate, lay out, sanitize and submit a flow to the execution host",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if !cfg.SubmissionEnabled() {
				return fmt.Errorf("no execution host configured (set EXECUTION_BASE_URL)")
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			client, err := execution.NewClient(execution.Config{
				BaseURL: cfg.Execution.BaseURL,
				APIKey:  cfg.Execution.APIKey,
				Timeout: cfg.Execution.Timeout,
			})
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			resp, err := services.NewFlowService(client).Submit(c.Context(), &dto.SubmitFlowRequest{
				Name: name,
				Flow: raw,
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Submitted %q as %s", resp.Name, resp.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "flow name on the execution host")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// readFlowFile loads and parses a flow envelope from disk.
func readFlowFile(path string) (*flow.FlowData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fd, err := flow.ParseFlowData(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return fd, nil
}

// requireValid refuses flows carrying structural violations, logging
// each one before failing.
func requireValid(ctx context.Context, fd *flow.FlowData) error {
	violations := validation.ValidateFlow(fd)
	if len(violations) == 0 {
		return nil
	}
	logger := loggerFromContext(ctx)
	for _, v := range violations {
		logger.Warnf("%s [%s]: %s", v.Kind, v.EntityID, v.Message)
	}
	return fmt.Errorf("flow failed validation with %d violation(s)", len(violations))
}

// writeFlow serializes fd as indented JSON to path, or stdout when
// path is empty.
func writeFlow(fd *flow.FlowData, path string, logger *charmlog.Logger) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fd); err != nil {
		return err
	}
	if path != "" {
		logger.Infof("Wrote flow to %s", path)
	}
	return nil
}

// nopCloser makes os.Stdout usable where a WriteCloser is expected.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, or stdout when path is
// empty. Existing files are overwritten.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
