package cmd

import (
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"bootstrap-machine/internal/dotfiles"
	"bootstrap-machine/internal/execx"
	"bootstrap-machine/internal/installer"
	"bootstrap-machine/internal/layout"
	"bootstrap-machine/internal/logger"
	"bootstrap-machine/internal/pkgmgr"
	"bootstrap-machine/internal/platform"
	"bootstrap-machine/internal/provision"
	"bootstrap-machine/internal/shell"
)

// toolsPath optionally points at a YAML tool plan that replaces the built-in
// baseline toolchain. Passed via the `--tools` flag.
var toolsPath string

// targetShell is the login shell the provisioner converges on.
var targetShell string

// provisionCmd is the top-level command running the full pipeline:
// directories, package ecosystem, tools, login shell, dotfiles, plugin lock.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision this workstation (dirs, tools, shell, dotfiles)",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan()
		if err != nil {
			return err
		}

		runner := execx.System()
		host := platform.Detect(runner)
		orch := installer.New(host, pkgmgr.ForPlatform(host, runner), runner)

		return provision.Run(provision.Steps{
			Layout:        layout.Ensure,
			EnsureManager: orch.EnsureManager,
			Bootstrap: func() error {
				return orch.Bootstrap(installer.BootstrapTool())
			},
			InstallTools: func() *installer.Report {
				return orch.Install(plan)
			},
			ConfigureShell: func() error {
				return shell.New(runner).EnsureDefault(targetShell)
			},
			Apply: func() error {
				return dotfiles.Apply(resolveTarget(), runner)
			},
			LockPlugins: func() error {
				return dotfiles.LockPlugins(runner)
			},
		})
	},
}

// provisionToolsCmd runs only the tool installation loop.
var provisionToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Install only the baseline toolchain",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan()
		if err != nil {
			return err
		}

		runner := execx.System()
		host := platform.Detect(runner)
		orch := installer.New(host, pkgmgr.ForPlatform(host, runner), runner)
		orch.EnsureManager()

		report := orch.Install(plan)
		report.Log()
		return nil
	},
}

// provisionDirsCmd runs only the directory layout step.
var provisionDirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Create only the standard directory layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs, err := layout.Ensure()
		if err != nil {
			return err
		}
		for _, dir := range dirs {
			logger.Info("[INFO] Ensured %s\n", dir)
		}
		return nil
	},
}

// provisionShellCmd runs only the login-shell step.
var provisionShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Set only the default login shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := shell.New(execx.System()).EnsureDefault(targetShell); err != nil {
			// Recoverable even standalone: report, do not fail the command.
			logger.Warn("[WARN] Login shell not changed: %v\n", err)
		}
		return nil
	},
}

// provisionApplyCmd runs only the dotfiles apply step.
var provisionApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply only the dotfiles configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := execx.System()
		if err := dotfiles.Apply(resolveTarget(), runner); err != nil {
			return err
		}
		if err := dotfiles.LockPlugins(runner); err != nil {
			logger.Warn("[WARN] Plugin lock failed: %v\n", err)
		}
		return nil
	},
}

// loadPlan returns the YAML plan from --tools when given, else the built-in one.
func loadPlan() ([]installer.Tool, error) {
	if toolsPath == "" {
		return installer.DefaultPlan(), nil
	}
	return installer.LoadPlan(toolsPath)
}

// resolveTarget picks the dotfiles source for the current working directory
// and operator identity.
func resolveTarget() dotfiles.Target {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return dotfiles.ResolveTarget(cwd, os.Getenv, fallbackOperator())
}

// fallbackOperator is the invoking account's username, used to derive the
// remote dotfiles URL when no environment override is set.
func fallbackOperator() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

// init sets up CLI flags and adds subcommands to the root command.
func init() {
	provisionCmd.PersistentFlags().StringVar(&toolsPath, "tools", "", "Path to a YAML tool plan (default: built-in plan)")
	provisionCmd.PersistentFlags().StringVar(&targetShell, "shell", "/bin/zsh", "Target login shell")

	// Add subcommands for more granular control
	provisionCmd.AddCommand(provisionToolsCmd)
	provisionCmd.AddCommand(provisionDirsCmd)
	provisionCmd.AddCommand(provisionShellCmd)
	provisionCmd.AddCommand(provisionApplyCmd)
	// Register the `provision` command with the root command
	rootCmd.AddCommand(provisionCmd)
}
