package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"rmmz-mcp/internal/config"
	"rmmz-mcp/internal/logging"
	"rmmz-mcp/internal/mcp"
	"rmmz-mcp/internal/project"
	"rmmz-mcp/internal/ui"
)

// options hold the persistent flags shared by every subcommand.
type options struct {
	projectPath      string
	configPath       string
	structuredErrors bool
	httpAddr         string
	logger           *logging.AppLogger
}

// settings are the effective values after merging flags, environment and config file.
type settings struct {
	projectPath      string
	structuredErrors bool
	httpAddr         string
}

func newRootCmd(logger *logging.AppLogger) *cobra.Command {
	opts := &options{logger: logger}

	root := &cobra.Command{
		Use:   "rmmz-mcp",
		Short: "MCP server for editing RPG Maker MZ project data",
		Long: "rmmz-mcp exposes the database, maps and system settings of an RPG Maker MZ\n" +
			"project as Model Context Protocol tools. Run without a subcommand to serve on stdio.",
		Version:       version,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.runServe(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.projectPath, "project", "p", "", "project root (overrides "+project.EnvVar+" and the config file)")
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+defaultConfigPath()+")")
	flags.BoolVar(&opts.structuredErrors, "structured-errors", false, "flag failed tool results with isError")
	root.Flags().StringVar(&opts.httpAddr, "http", "", "serve streamable HTTP on this address instead of stdio")

	root.AddCommand(
		opts.serveCmd(),
		opts.validateCmd(),
		opts.toolsCmd(),
		opts.callCmd(),
		opts.configCmd(),
	)
	return root
}

func defaultConfigPath() string {
	path, err := config.ConfigPath()
	if err != nil {
		return "config.yaml"
	}
	return path
}

// resolve merges flags over the environment over the config file.
func (o *options) resolve(cmd *cobra.Command) (settings, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return settings{}, err
	}

	s := settings{
		projectPath:      cfg.ResolveProjectPath(o.projectPath),
		structuredErrors: cfg.StructuredErrors,
		httpAddr:         cfg.HTTPAddr,
	}
	if cmd.Flags().Changed("structured-errors") {
		s.structuredErrors = o.structuredErrors
	}
	if o.httpAddr != "" {
		s.httpAddr = o.httpAddr
	}

	o.logger.DebugObject("settings", s)
	return s, nil
}

func (o *options) dispatcher(s settings) *mcp.Dispatcher {
	return mcp.NewDispatcher(mcp.Options{
		ProjectPath:      s.projectPath,
		StructuredErrors: s.structuredErrors,
		Logger:           o.logger,
	})
}

func (o *options) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.runServe(cmd)
		},
	}
	cmd.Flags().StringVar(&o.httpAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	return cmd
}

func (o *options) runServe(cmd *cobra.Command) error {
	s, err := o.resolve(cmd)
	if err != nil {
		return err
	}

	// A bad project is not fatal here: every tool call reports it instead.
	if err := project.Validate(s.projectPath); err != nil {
		o.logger.Warn("Project is not usable, tool calls will fail", "project", s.projectPath, "error", err)
		if o.configPath == "" && config.IsFirstRun() {
			o.logger.Info("No config file found, run 'rmmz-mcp config init --project <dir>' to create one")
		}
	}

	srv := mcp.NewServer(o.dispatcher(s), version, o.logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if s.httpAddr == "" {
		return srv.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	}
	return srv.ServeHTTP(ctx, s.httpAddr)
}

func (o *options) validateCmd() *cobra.Command {
	var concurrency int
	var plain bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the project root and parse every data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o.logger.SetVerbose()
			s, err := o.resolve(cmd)
			if err != nil {
				return err
			}

			report, err := project.Audit(cmd.Context(), s.projectPath, concurrency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !plain && ui.IsTerminal(out) {
				title := fmt.Sprintf("%s: %s", mcp.ServerName, s.projectPath)
				pager := ui.NewPager(title, func(int) (string, error) {
					return ui.RenderReport(report), nil
				})
				if err := ui.RunPager(pager, cmd.InOrStdin(), out); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, ui.RenderReport(report))
			}
			if failed := len(report.Failed()); failed > 0 {
				return fmt.Errorf("%d data files failed to parse", failed)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", project.DefaultAuditConcurrency, "files parsed at once")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the report without the interactive pager")
	return cmd
}

func (o *options) toolsCmd() *cobra.Command {
	var plain bool
	var width int

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Describe every tool the server exposes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := o.resolve(cmd)
			if err != nil {
				return err
			}

			md := ui.CatalogMarkdown(mcp.ServerName+" tools", o.dispatcher(s).Tools())
			out := cmd.OutOrStdout()
			if plain {
				fmt.Fprint(out, md)
				return nil
			}

			style := ui.DetectGlamourStyle(50 * time.Millisecond)
			if ui.IsTerminal(out) {
				pager := ui.NewPager(mcp.ServerName+" tools", func(w int) (string, error) {
					return ui.RenderMarkdown(md, style, w)
				})
				return ui.RunPager(pager, cmd.InOrStdin(), out)
			}

			rendered, err := ui.RenderMarkdown(md, style, width)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown without the interactive pager")
	cmd.Flags().IntVar(&width, "width", ui.DefaultWordWrap, "word wrap width")
	return cmd
}

func (o *options) callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [json-arguments]",
		Short: "Run one tool and print its result",
		Example: "  rmmz-mcp call get_actor '{\"actorId\": 1}'\n" +
			"  echo '{\"title\": \"Quest\"}' | rmmz-mcp call update_game_title -",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.resolve(cmd)
			if err != nil {
				return err
			}

			arguments, err := parseArguments(cmd, args[1:])
			if err != nil {
				return err
			}

			res := o.dispatcher(s).Call(cmd.Context(), args[0], arguments)
			text := mcp.ResultText(res)
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if res.IsError || strings.HasPrefix(text, "Error: ") {
				return fmt.Errorf("tool %s failed", args[0])
			}
			return nil
		},
	}
}

// parseArguments decodes the optional JSON object argument; "-" reads it from stdin.
func parseArguments(cmd *cobra.Command, rest []string) (map[string]any, error) {
	if len(rest) == 0 {
		return map[string]any{}, nil
	}

	var dec *json.Decoder
	if rest[0] == "-" {
		dec = json.NewDecoder(cmd.InOrStdin())
	} else {
		dec = json.NewDecoder(strings.NewReader(rest[0]))
	}

	var arguments map[string]any
	if err := dec.Decode(&arguments); err != nil {
		return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	return arguments, nil
}

func (o *options) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the rmmz-mcp config file",
	}

	initCmd := &cobra.Command{
		Use:     "init",
		Short:   "Write a config file pointing at a project",
		Example: "  rmmz-mcp config init --project ~/Games/MyGame",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o.logger.SetVerbose()
			if o.projectPath == "" {
				return fmt.Errorf("--project is required")
			}

			cfg, err := config.CreateNewConfig(o.configPath, o.projectPath, o.structuredErrors)
			if err != nil {
				return err
			}
			path := o.configPath
			if path == "" {
				path = defaultConfigPath()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (project %s)\n", path, cfg.ProjectPath)
			return nil
		},
	}
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the config file and the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadOrDefault(o.configPath)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			s, err := o.resolve(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, string(data))
			fmt.Fprintf(out, "# effective project: %s\n", s.projectPath)
			fmt.Fprintf(out, "# effective structured_errors: %t\n", s.structuredErrors)
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
