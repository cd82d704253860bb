// Файл: main.go

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "guard-analytics",
	Short: "Аналитика работы охраны по выгрузкам activity и attendance",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// config.New читает путь к YAML из окружения
		if configPath != "" {
			os.Setenv("CONFIG_PATH", configPath)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "путь к YAML-файлу конфигурации")
	rootCmd.AddCommand(serveCmd, reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
