package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/franz/takestash/internal/util"
)

var addCmd = &cobra.Command{
	Use:   "add <folder>",
	Short: "Add a song from a folder of audio files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		song, res, err := lib.AddSong(cmd.Context(), args[0])
		if errors.Is(err, util.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		util.SuccessLog("Song %d %q: %d file(s), %d version(s), %d skipped",
			song.ID, song.Name, res.FilesSeen, res.VersionsCreated, res.FilesSkipped)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List songs and their versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		songs, err := lib.ListSongsWithVersions()
		if err != nil {
			return err
		}

		var rows [][]string
		for _, sv := range songs {
			for _, v := range sv.Versions {
				sel := v.Formats[v.SelectedFormat]
				rating := "-"
				if v.Rating != nil {
					rating = strings.Repeat("*", *v.Rating)
				}
				mismatch := ""
				if v.DurationMismatch {
					mismatch = "!"
				}
				rows = append(rows, []string{
					strconv.FormatInt(v.ID, 10),
					sv.Song.Name,
					v.VersionName,
					fmt.Sprintf("%d (%s)", len(v.Formats), sel.Format),
					humanize.Bytes(uint64(sel.FileSize)),
					rating,
					mismatch,
					humanize.Time(v.ModifiedAt),
				})
			}
		}

		fmt.Println(renderTable(
			[]string{"ID", "Song", "Version", "Formats", "Size", "Rating", "", "Modified"},
			rows))
		return nil
	},
}

var rescanCmd = &cobra.Command{
	Use:   "rescan <song-id>",
	Short: "Rescan a song's folder for new files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		songID, err := parseID(args[0])
		if err != nil {
			return err
		}

		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		res, err := lib.Rescan(cmd.Context(), songID)
		if err != nil {
			return err
		}

		util.SuccessLog("Rescan: %d file(s) seen, %d new version(s), %d appended format(s)",
			res.FilesSeen, res.VersionsCreated, res.FormatsAppended)
		return nil
	},
}

var rmSongCmd = &cobra.Command{
	Use:   "rm-song <song-id>",
	Short: "Delete a song and all its versions, tags, notes, and images",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		songID, err := parseID(args[0])
		if err != nil {
			return err
		}

		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		return lib.DeleteSong(songID)
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort <song-id> <created|name|rating|notes>",
	Short: "Set a song's version sort order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		songID, err := parseID(args[0])
		if err != nil {
			return err
		}

		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		return lib.Store().UpdateSortPreference(songID, args[1])
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, rescanCmd, rmSongCmd, sortCmd)
}
