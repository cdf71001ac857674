package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var imageCaption string

var attachCmd = &cobra.Command{
	Use:   "attach <version-id> <image-path>",
	Short: "Attach a picture to a version",
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

		img, err := lib.AttachImage(versionID, args[1], imageCaption)
		if err != nil {
			return err
		}
		fmt.Printf("attached %s\n", img.FileName)
		return nil
	},
}

var imagesCmd = &cobra.Command{
	Use:   "images <version-id>",
	Short: "List a version's images",
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

		images, err := lib.ListImagesForVersion(versionID)
		if err != nil {
			return err
		}

		var rows [][]string
		for _, img := range images {
			rows = append(rows, []string{strconv.FormatInt(img.ID, 10), img.FileName, img.Caption})
		}
		fmt.Println(renderTable([]string{"ID", "File", "Caption"}, rows))
		return nil
	},
}

var rmImageCmd = &cobra.Command{
	Use:   "rm-image <image-id>",
	Short: "Delete an image link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imageID, err := parseID(args[0])
		if err != nil {
			return err
		}

		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		return lib.Store().DeleteImage(imageID)
	},
}

var imagesFolderCmd = &cobra.Command{
	Use:   "images-folder <path>",
	Short: "Set the storage folder for attached pictures",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		return lib.SetImagesFolder(args[0])
	},
}

func init() {
	attachCmd.Flags().StringVar(&imageCaption, "caption", "", "image caption")
	rootCmd.AddCommand(attachCmd, imagesCmd, rmImageCmd, imagesFolderCmd)
}
