package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var tagColor string

var tagCmd = &cobra.Command{
	Use:   "tag <version-id> <name>",
	Short: "Tag a version, creating the tag if needed",
	Args:  cobra.ExactArgs(2),
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

		return lib.TagVersion(versionID, args[1], tagColor)
	},
}

var untagCmd = &cobra.Command{
	Use:   "untag <version-id> <name>",
	Short: "Remove a tag from a version",
	Args:  cobra.ExactArgs(2),
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

		return lib.UntagVersion(versionID, args[1])
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List all tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		tags, err := lib.ListTags()
		if err != nil {
			return err
		}

		var rows [][]string
		for _, t := range tags {
			rows = append(rows, []string{strconv.FormatInt(t.ID, 10), t.Name, t.Color})
		}
		fmt.Println(renderTable([]string{"ID", "Name", "Color"}, rows))
		return nil
	},
}

var rmTagCmd = &cobra.Command{
	Use:   "rm-tag <tag-name>",
	Short: "Delete a tag everywhere",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		t, err := lib.Store().GetTagByName(args[0])
		if err != nil {
			return err
		}
		return lib.Store().DeleteTag(t.ID)
	},
}

func init() {
	tagCmd.Flags().StringVar(&tagColor, "color", "#808080", "tag color (hex)")
	rootCmd.AddCommand(tagCmd, untagCmd, tagsCmd, rmTagCmd)
}
