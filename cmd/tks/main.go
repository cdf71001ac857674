package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/takestash/internal/library"
	"github.com/franz/takestash/internal/report"
	"github.com/franz/takestash/internal/store"
	"github.com/franz/takestash/internal/util"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "tks",
		Short: "takestash - organize song takes across formats",
		Long: `tks (takestash) organizes folders of recorded song takes. Files sharing a
base name are grouped into one version with multiple formats; versions carry
ratings, colored tags, timestamped notes, and attached images, all stored in
a local database that never moves your audio files.`,
		Version: Version,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/tks.yaml)")
	rootCmd.PersistentFlags().String("db", "takestash.db", "state database file")
	rootCmd.PersistentFlags().String("events-dir", "", "directory for JSONL event logs (disabled when empty)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("events-dir", rootCmd.PersistentFlags().Lookup("events-dir"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("tks")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TKS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.DebugLog("Using config file: %s", viper.ConfigFileUsed())
	}

	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
}

// openLibrary opens the store and wires the optional event logger. The
// returned closer shuts both down.
func openLibrary() (*library.Library, func(), error) {
	st, err := store.Open(viper.GetString("db"))
	if err != nil {
		return nil, nil, err
	}

	var logger *report.EventLogger
	if dir := viper.GetString("events-dir"); dir != "" {
		logger, err = report.NewEventLogger(dir, report.LevelInfo)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
	}

	closer := func() {
		logger.Close()
		st.Close()
	}
	return library.New(st, logger), closer, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
