package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/config"
)

// skipInitAnnotation marks commands that run without a session
const skipInitAnnotation = "gymctl/skip-init"

// SkipInit returns the annotations for a command that needs no session
func SkipInit() map[string]string {
	return map[string]string{skipInitAnnotation: "true"}
}

// SkipsInit reports whether cmd runs without a session
func SkipsInit(cmd *cobra.Command) bool {
	return cmd.Annotations[skipInitAnnotation] == "true"
}

// NewConfigCmd creates the config command group
func NewConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Read and write gymctl settings",
		Annotations: SkipInit(),
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: SkipInit(),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.out, path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "get <key>",
		Short:       "Print a setting",
		Args:        cobra.ExactArgs(1),
		ValidArgs:   config.Keys(),
		Annotations: SkipInit(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadConfig(); err != nil {
				return err
			}
			value, err := app.cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(app.out, value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "set <key> <value>",
		Short:       "Change a setting in the config file",
		Args:        cobra.ExactArgs(2),
		Annotations: SkipInit(),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			// Environment overrides must not leak into the file
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(app.out, "%s = %s\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}
