package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for xmldecode.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xmldecode",
		Short: "Decode Base64 payloads embedded in XML documents",
		Long: `xmldecode finds the elements of an XML document whose text is Base64,
decodes them as UTF-8 and exports the decoded payloads as a new XML document.

The decoded payloads are often XML themselves; xmldecode pretty-prints them
and can pull a named element (webformData by default) out of them.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateLogFormat(logFormatFlag(cmd))
		},
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .xmldecode in current or home directory)")
	cmd.PersistentFlags().StringP("profile", "p", "",
		"Profile from the configuration file to apply")
	cmd.PersistentFlags().String("log-format", logFormatText,
		"Log record format on stderr: text or json")

	cmd.AddCommand(NewDecodeCmd())
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewFormatCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
