package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/fluentmind"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/prebuilt"
)

// newTemplatesCmd creates the templates command listing every built-in
// template.
func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in templates",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			tpls, err := prebuilt.Templates()
			if err != nil {
				return err
			}
			for _, tpl := range tpls {
				fmt.Fprintf(c.OutOrStdout(), "%-18s %-14s %s\n", tpl.TemplateID, tpl.Name, tpl.Description)
			}
			return nil
		},
	}
}

// instantiateOpts holds the command-line flags for instantiate.
type instantiateOpts struct {
	output string
	params []string
}

// newInstantiateCmd creates the instantiate command building a working
// flow from a built-in template.
func newInstantiateCmd() *cobra.Command {
	var opts instantiateOpts

	cmd := &cobra.Command{
		Use:   "instantiate <template-id>",
		Short: "Build a working flow from a built-in template",
		Long: `Build a working flow from a built-in template.

Parameters override the template's defaults and fill its {{name}}
placeholders. Templates without stored flow data produce a typed
starter flow instead.

Examples:
  fluentmind instantiate tmpl_basic_chat
  fluentmind instantiate tmpl_basic_chat -p model=gpt-4o -p temperature=0.2
  fluentmind instantiate tmpl_rag_qa -o rag.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())

			params, err := parseParams(opts.params)
			if err != nil {
				return err
			}

			rt := fluentmind.NewRuntime()
			tpls, err := prebuilt.Templates()
			if err != nil {
				return err
			}
			for _, tpl := range tpls {
				if err := rt.RegisterTemplate(c.Context(), tpl); err != nil {
					return err
				}
			}

			fd, err := rt.Instantiate(c.Context(), args[0], params)
			if err != nil {
				return err
			}
			logger.Infof("Instantiated %s (%d nodes, %d edges)", args[0], len(fd.Nodes), len(fd.Edges))

			return writeFlow(fd, opts.output, logger)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "template parameter as key=value (repeatable)")

	return cmd
}

// parseParams converts repeated key=value flags into a parameter map.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed parameter %q, want key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
