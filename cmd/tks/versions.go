package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <version-id>",
	Short: "Show a version's formats, tags, and notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		versionID, err := parseID(args[0])
		if err != nil {
			return err
		}

		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		v, err := lib.GetVersion(versionID)
		if err != nil {
			return err
		}

		var rows [][]string
		for i, f := range v.Formats {
			marker := ""
			if i == v.SelectedFormat {
				marker = ">"
			}
			bitrate, duration := "-", "-"
			if f.BitrateKbps != nil {
				bitrate = fmt.Sprintf("%d kbps", *f.BitrateKbps)
			}
			if f.DurationSec != nil {
				duration = fmt.Sprintf("%.1fs", *f.DurationSec)
			}
			rows = append(rows, []string{
				strconv.Itoa(i),
				marker,
				f.FileName,
				f.Format,
				bitrate,
				duration,
				humanize.Bytes(uint64(f.FileSize)),
			})
		}

		fmt.Printf("Version %d %q", v.ID, v.VersionName)
		if v.DurationMismatch {
			fmt.Printf("  (duration mismatch)")
		}
		fmt.Println()
		fmt.Println(renderTable(
			[]string{"#", "", "File", "Format", "Bitrate", "Duration", "Size"},
			rows))

		tags, err := lib.Store().TagsForVersion(versionID)
		if err != nil {
			return err
		}
		for _, t := range tags {
			fmt.Printf("tag: %s (%s)\n", t.Name, t.Color)
		}
		return nil
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate <version-id> <1-5|clear>",
	Short: "Rate a version, or clear its rating",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		versionID, err := parseID(args[0])
		if err != nil {
			return err
		}

		var rating *int
		if args[1] != "clear" {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating %q", args[1])
			}
			rating = &n
		}

		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		return lib.RateVersion(versionID, rating)
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <version-id> <format-index>",
	Short: "Choose which format plays by default",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		versionID, err := parseID(args[0])
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid format index %q", args[1])
		}

		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		return lib.Store().SetSelectedFormat(versionID, index)
	},
}

var rmVersionCmd = &cobra.Command{
	Use:   "rm-version <version-id>",
	Short: "Delete a version and its tags, notes, and images",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		versionID, err := parseID(args[0])
		if err != nil {
			return err
		}

		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		return lib.DeleteVersion(versionID)
	},
}

func init() {
	rootCmd.AddCommand(showCmd, rateCmd, selectCmd, rmVersionCmd)
}
