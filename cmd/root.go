package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sceneweave/sceneweave/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "sceneweave",
	Short: "Co-create characters, backgrounds and scenes with a generation agent",
	Long: `SceneWeave is a terminal front end for co-creating visual artifacts
with an autonomous generation agent. Every image-generation prompt the
agent proposes can be approved, edited, or cancelled before it runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: run the session application
		application, err := app.NewApplication()
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
