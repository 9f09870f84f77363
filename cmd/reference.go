package cmd

import (
	"context"
	"os"
	"strconv"

	v1 "github.com/Tiag8/bible-study-sub001/apis/v1"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var refCmd = &cobra.Command{
	Use:   "ref",
	Short: "reference commands",
}

func init() {
	rootCmd.AddCommand(refCmd)
	refCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	refCmd.AddCommand(addRefCmd())
	refCmd.AddCommand(listRefsCmd())
	refCmd.AddCommand(removeRefCmd())
	refCmd.AddCommand(reorderRefCmd())
}

func addRefCmd() *cobra.Command {
	var studyID string
	var targetID string
	var externalURL string

	var required = []string{"study-id"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "add a reference to a study",
		Long:    "add a reference to another study or to an external url, exactly one of --target-id and --url",
		Example: "study ref add -s <study-id> -r <target-id>\nstudy ref add -s <study-id> -u <url>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := &v1.CreateReferenceRequest{}
			if targetID != "" {
				req.TargetStudyID = &targetID
			}
			if externalURL != "" {
				req.ExternalURL = &externalURL
			}

			res, err := apiClient().AddReference(context.Background(), studyID, req)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("reference created with id: %s", res.Reference.ID)
		},
	}

	command.Flags().StringVarP(&studyID, "study-id", "s", "", "study id (required)")
	command.Flags().StringVarP(&targetID, "target-id", "r", "", "target study id")
	command.Flags().StringVarP(&externalURL, "url", "u", "", "external url")

	command.Flags().SortFlags = false

	return command
}

func listRefsCmd() *cobra.Command {
	var studyID string

	var required = []string{"study-id"}

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the references of a study",
		Example: "study ref list -s <study-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().ListReferences(context.Background(), studyID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "ID", "Kind", "Label", "Target"})
			for _, ref := range res.References {
				target := ""
				if ref.TargetStudyID != nil {
					target = ref.TargetTitle
				} else if ref.ExternalURL != nil {
					target = *ref.ExternalURL
				}

				table.Append([]string{
					strconv.Itoa(ref.DisplayOrder),
					ref.ID,
					ref.Kind,
					ref.Label,
					target,
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&studyID, "study-id", "s", "", "study id (required)")

	return command
}

func removeRefCmd() *cobra.Command {
	var referenceID string

	var required = []string{"ref-id"}

	command := &cobra.Command{
		Use:     "remove",
		Short:   "remove a reference",
		Example: "study ref remove -i <ref-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if err := apiClient().DeleteReference(context.Background(), referenceID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("reference %s removed", referenceID)
		},
	}

	command.Flags().StringVarP(&referenceID, "ref-id", "i", "", "reference id (required)")

	return command
}

func reorderRefCmd() *cobra.Command {
	var referenceID string
	var direction string

	var required = []string{"ref-id", "direction"}

	command := &cobra.Command{
		Use:     "reorder",
		Short:   "move a reference up or down",
		Example: "study ref reorder -i <ref-id> -d up",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().ReorderReference(context.Background(), referenceID, direction)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "ID", "Label", "Target"})
			for _, ref := range res.References {
				target := ""
				if ref.TargetStudyID != nil {
					target = ref.TargetTitle
				} else if ref.ExternalURL != nil {
					target = *ref.ExternalURL
				}

				table.Append([]string{
					strconv.Itoa(ref.DisplayOrder),
					ref.ID,
					ref.Label,
					target,
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&referenceID, "ref-id", "i", "", "reference id (required)")
	command.Flags().StringVarP(&direction, "direction", "d", "", "up or down (required)")

	command.Flags().SortFlags = false

	return command
}
