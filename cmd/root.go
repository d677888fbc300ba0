package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vt-styler",
	Short: "Translate and inspect vector-tile map styles",
	Long: `Vector Tile Styler - imports MapLibre-style v8 stylesheets and converts
them into the renderer's rule-based style documents.

Commands:
  import      - Translate a stylesheet (file, URL or bundled demo) into a style document
  show        - Render a saved style document as text or JSON
  completion  - Generate shell completion scripts

Workflow:
  1. Import:  vt-styler import https://api.example.com/maps/basic/style.json -o basic.yaml
  2. Inspect: vt-styler show basic.yaml`,
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for vt-styler.

To load completions:

Bash:
  $ source <(vt-styler completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ vt-styler completion bash > /etc/bash_completion.d/vt-styler
  # macOS:
  $ vt-styler completion bash > $(brew --prefix)/etc/bash_completion.d/vt-styler

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ vt-styler completion zsh > "${fpath[1]}/_vt-styler"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ vt-styler completion fish | source

  # To load completions for each session, execute once:
  $ vt-styler completion fish > ~/.config/fish/completions/vt-styler.fish

PowerShell:
  PS> vt-styler completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> vt-styler completion powershell > vt-styler.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		switch args[0] {
		case "bash":
			err = cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			err = cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			err = cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			err = cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating completion: %v\n", err)
			os.Exit(1)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(completionCmd)
}
