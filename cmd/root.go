/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sumwatshade/fueldash/cmd/client"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fueldash",
	Short: "Watch the cheapest fuel prices around you",
	Long: `Shows the cheapest stations for a fuel type next to a map of every
station, refreshed from a fuel price backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		log, closer, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		svc := client.NewService(cfg.BaseURL,
			client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			client.WithLogger(log.With("component", "client")),
		)
		log.Info("starting", "api", cfg.BaseURL, "fuel", cfg.DefaultFuel)

		p := tea.NewProgram(newModel(cfg, svc, log), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fueldash.yaml)")
	rootCmd.Flags().String("api", "", "base URL of the fuel price backend")
	rootCmd.Flags().String("fuel", "", "fuel type selected at start (E10, U91, P95, P98, Diesel, LPG, EV)")
	cobra.CheckErr(viper.BindPFlag("api.base_url", rootCmd.Flags().Lookup("api")))
	cobra.CheckErr(viper.BindPFlag("fuel.default", rootCmd.Flags().Lookup("fuel")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fueldash")
	}

	// FUELDASH_API_BASE_URL, FUELDASH_FUEL_DEFAULT, ...
	viper.SetEnvPrefix("fueldash")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
