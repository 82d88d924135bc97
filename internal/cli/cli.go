// Package cli wires the configuration store into cobra commands. The
// store is injected by the composition root; no package-level state.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kkarlsen/shade/internal/config"
)

// New builds the root command around an injected store.
func New(store *config.Store) *cobra.Command {
	root := &cobra.Command{
		Use:   "shade",
		Short: "Configuration core for the shade overlay assistant",
		Long: `Manages the persisted settings of the shade overlay assistant:
AI provider and model selection, API key, window opacity, and the
programming-language preference used for code extraction.`,
		SilenceUsage: true,
	}

	root.AddCommand(newConfigCmd(store))
	root.AddCommand(newProvidersCmd(store))
	root.AddCommand(newModelsCmd(store))
	root.AddCommand(newTestKeyCmd(store))
	root.AddCommand(newDetectCmd(store))

	return root
}

func newConfigCmd(store *config.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the stored settings",
	}
	cmd.AddCommand(newConfigShowCmd(store))
	cmd.AddCommand(newConfigSetCmd(store))
	cmd.AddCommand(newConfigPathCmd(store))
	return cmd
}

func newConfigShowCmd(store *config.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := store.Load()
			fmt.Println(titleStyle.Render("shade settings"))
			fmt.Printf("  provider:         %s\n", valueStyle.Render(cfg.APIProvider))
			fmt.Printf("  api key:          %s\n", valueStyle.Render(maskKey(cfg.APIKey)))
			fmt.Printf("  extraction model: %s\n", valueStyle.Render(cfg.ExtractionModel))
			fmt.Printf("  solution model:   %s\n", valueStyle.Render(cfg.SolutionModel))
			fmt.Printf("  debugging model:  %s\n", valueStyle.Render(cfg.DebuggingModel))
			lang := cfg.Language
			if lang == "" {
				lang = "(auto-detect)"
			}
			fmt.Printf("  language:         %s\n", valueStyle.Render(lang))
			fmt.Printf("  opacity:          %s\n", valueStyle.Render(fmt.Sprintf("%.2f", store.Opacity())))
		},
	}
}

func newConfigSetCmd(store *config.Store) *cobra.Command {
	var (
		apiKey          string
		providerName    string
		extractionModel string
		solutionModel   string
		debuggingModel  string
		language        string
		clearLanguage   bool
		opacity         float64
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		Run: func(cmd *cobra.Command, args []string) {
			var u config.Update
			flags := cmd.Flags()

			if flags.Changed("api-key") {
				u.APIKey = &apiKey
			}
			if flags.Changed("provider") {
				u.APIProvider = &providerName
			}
			if flags.Changed("extraction-model") {
				u.ExtractionModel = &extractionModel
			}
			if flags.Changed("solution-model") {
				u.SolutionModel = &solutionModel
			}
			if flags.Changed("debugging-model") {
				u.DebuggingModel = &debuggingModel
			}
			if flags.Changed("language") {
				u.Language = &language
			}
			if clearLanguage {
				empty := ""
				u.Language = &empty
			}
			if flags.Changed("opacity") {
				u.Opacity = &opacity
			}

			if u == (config.Update{}) {
				fmt.Println(subtleStyle.Render("nothing to change; see --help for flags"))
				return
			}

			cfg := store.Update(u)
			fmt.Println(successStyle.Render("settings saved"))
			fmt.Printf("  provider: %s, models: %s / %s / %s\n",
				cfg.APIProvider, cfg.ExtractionModel, cfg.SolutionModel, cfg.DebuggingModel)
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (provider is inferred from the prefix unless --provider is given)")
	cmd.Flags().StringVar(&providerName, "provider", "", "API provider (openai, gemini, anthropic, openrouter)")
	cmd.Flags().StringVar(&extractionModel, "extraction-model", "", "model used for problem extraction")
	cmd.Flags().StringVar(&solutionModel, "solution-model", "", "model used for solution generation")
	cmd.Flags().StringVar(&debuggingModel, "debugging-model", "", "model used for debugging help")
	cmd.Flags().StringVar(&language, "language", "", "programming language preference")
	cmd.Flags().BoolVar(&clearLanguage, "clear-language", false, "clear the language preference (revert to auto-detect)")
	cmd.Flags().Float64Var(&opacity, "opacity", 1.0, "window opacity in [0.1, 1.0]")

	return cmd
}

func newConfigPathCmd(store *config.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(store.Path())
		},
	}
}

func newProvidersCmd(store *config.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the supported AI providers",
		Run: func(cmd *cobra.Command, args []string) {
			current := store.Load().APIProvider
			for _, p := range store.AvailableProviders() {
				marker := "  "
				if string(p.ID) == current {
					marker = successStyle.Render("* ")
				}
				fmt.Printf("%s%s %s\n", marker, valueStyle.Render(string(p.ID)), subtleStyle.Render(p.Name))
			}
		},
	}
}

func newModelsCmd(store *config.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "models [provider]",
		Short: "List the models allowed for a provider",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			name := store.Load().APIProvider
			if len(args) == 1 {
				name = args[0]
			}
			models := store.AvailableModels(name)
			if models == nil {
				fmt.Println(errorStyle.Render(fmt.Sprintf("unknown provider %q", name)))
				return
			}
			fmt.Println(titleStyle.Render(name))
			for _, m := range models {
				fmt.Printf("  %s\n", m)
			}
		},
	}
}

func newTestKeyCmd(store *config.Store) *cobra.Command {
	var providerName string

	cmd := &cobra.Command{
		Use:   "test-key [key]",
		Short: "Check whether an API key is likely valid",
		Long: `Checks the key format and, for providers that support it, performs a
single live reachability probe. With no argument the stored key is
tested.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			key := store.Load().APIKey
			if len(args) == 1 {
				key = args[0]
			}
			if strings.TrimSpace(key) == "" {
				fmt.Println(errorStyle.Render("no API key given and none stored"))
				return
			}

			res := store.TestAPIKey(cmd.Context(), key, providerName)
			if res.Valid {
				fmt.Println(successStyle.Render("key looks valid"))
				return
			}
			fmt.Println(errorStyle.Render("key check failed: " + res.Err))
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "", "provider to test against (inferred from the key prefix when omitted)")
	return cmd
}

func newDetectCmd(store *config.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file]",
		Short: "Guess the programming language of a file",
		Long: `Prints the stored language preference if one is set, otherwise guesses
from the filename extension and the file's first lines. With no
argument only the default applies.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				fmt.Println(store.Language("", ""))
				return
			}

			filename := args[0]
			content := ""
			if data, err := os.ReadFile(filename); err == nil {
				content = string(data)
			}
			fmt.Println(store.Language(filename, content))
		},
	}
}

// maskKey hides all but the edges of a stored secret.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
