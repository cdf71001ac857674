package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franz/takestash/internal/library"
)

var (
	noteAt     float64
	editNoteAt float64
)

var noteCmd = &cobra.Command{
	Use:   "note <version-id> <content>",
	Short: "Attach a note to a version",
	Long: `Attach a Markdown note to a version. With --at, the note is anchored at an
offset (in seconds) into the version's audio.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		versionID, err := parseID(args[0])
		if err != nil {
			return err
		}

		var timestamp *float64
		if cmd.Flags().Changed("at") {
			timestamp = &noteAt
		}

		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		_, err = lib.AddNote(versionID, args[1], timestamp)
		return err
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes <version-id>",
	Short: "List a version's notes",
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

		notes, err := lib.ListNotesForVersion(versionID)
		if err != nil {
			return err
		}

		asHTML, _ := cmd.Flags().GetBool("html")
		for _, n := range notes {
			at := ""
			if n.Timestamp != nil {
				at = fmt.Sprintf(" @%.1fs", *n.Timestamp)
			}
			content := n.Content
			if asHTML {
				content, err = library.RenderNoteHTML(n.Content)
				if err != nil {
					return err
				}
			}
			fmt.Printf("[%d]%s %s\n", n.ID, at, content)
		}
		return nil
	},
}

var editNoteCmd = &cobra.Command{
	Use:   "edit-note <note-id> <content>",
	Short: "Replace a note's content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		noteID, err := parseID(args[0])
		if err != nil {
			return err
		}

		var timestamp *float64
		if cmd.Flags().Changed("at") {
			timestamp = &editNoteAt
		}

		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		return lib.Store().UpdateNote(noteID, args[1], timestamp)
	},
}

var rmNoteCmd = &cobra.Command{
	Use:   "rm-note <note-id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noteID, err := parseID(args[0])
		if err != nil {
			return err
		}

		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		return lib.Store().DeleteNote(noteID)
	},
}

func init() {
	noteCmd.Flags().Float64Var(&noteAt, "at", 0, "anchor the note at an offset in seconds")
	editNoteCmd.Flags().Float64Var(&editNoteAt, "at", 0, "move the note's anchor offset in seconds")
	notesCmd.Flags().Bool("html", false, "render note content as HTML")
	rootCmd.AddCommand(noteCmd, editNoteCmd, notesCmd, rmNoteCmd)
}
