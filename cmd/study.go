package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	v1 "github.com/Tiag8/bible-study-sub001/apis/v1"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createStudyCmd())
	rootCmd.AddCommand(getStudyCmd())
	rootCmd.AddCommand(listStudiesCmd())
	rootCmd.AddCommand(updateStudyCmd())
	rootCmd.AddCommand(deleteStudyCmd())
	rootCmd.AddCommand(restoreStudyCmd())
	rootCmd.AddCommand(trashCmd())
	rootCmd.AddCommand(revisionsCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(booksCmd())
}

func createStudyCmd() *cobra.Command {
	var studyID string
	var title string
	var book string
	var chapter int
	var content string
	var tags string

	var required = []string{"title"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a study",
		Example: "study create -t <title> -b <book> -n <chapter> -c <content>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := &v1.CreateStudyRequest{
				Title:         title,
				BookName:      book,
				ChapterNumber: chapter,
				Content:       content,
			}

			if tags != "" {
				req.Tags = strings.Split(tags, ",")
			}

			if studyID != "" {
				_, err := uuid.Parse(studyID)
				if err != nil {
					logrus.Error("invalid study id, expected a valid uuid")
					return
				}
				req.StudyID = &studyID
			}

			res, err := apiClient().CreateStudy(context.Background(), req)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("study created with id: %s", res.Study.ID)
		},
	}

	command.Flags().StringVarP(&title, "title", "t", "", "title of the study (required)")
	command.Flags().StringVarP(&studyID, "study-id", "s", "", "study id")
	command.Flags().StringVarP(&book, "book", "b", "", "book name")
	command.Flags().IntVarP(&chapter, "chapter", "n", 0, "chapter number")
	command.Flags().StringVarP(&content, "content", "c", "", "content of the study")
	command.Flags().StringVarP(&tags, "tags", "g", "", "comma separated tags")

	command.Flags().SortFlags = false

	return command
}

func getStudyCmd() *cobra.Command {
	var studyID string

	var required = []string{"study-id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a study",
		Example: "study get -s <study-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().GetStudy(context.Background(), studyID)
			if err != nil {
				logrus.Error(err)
				return
			}

			study := res.Study
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Book", "Chapter", "Version"})
			table.Append([]string{
				study.ID,
				study.Title,
				study.BookName,
				strconv.Itoa(study.ChapterNumber),
				strconv.FormatInt(study.Version, 10),
			})
			table.Render()

			if study.Content != "" {
				fmt.Println(study.Content)
			}
		},
	}

	command.Flags().StringVarP(&studyID, "study-id", "s", "", "study id (required)")

	return command
}

func listStudiesCmd() *cobra.Command {
	var book string
	var chapter int

	command := &cobra.Command{
		Use:     "list",
		Short:   "list studies",
		Example: "study list -b <book> -n <chapter>",
		Run: func(cmd *cobra.Command, args []string) {
			res, err := apiClient().ListStudies(context.Background(), book, chapter)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Book", "Chapter", "Version"})
			for _, study := range res.Studies {
				table.Append([]string{
					study.ID,
					study.Title,
					study.BookName,
					strconv.Itoa(study.ChapterNumber),
					strconv.FormatInt(study.Version, 10),
				})
			}
			table.SetFooter([]string{"", "", "", "Total", strconv.FormatInt(res.Total, 10)})
			table.Render()
		},
	}

	command.Flags().StringVarP(&book, "book", "b", "", "book name")
	command.Flags().IntVarP(&chapter, "chapter", "n", 0, "chapter number")

	return command
}

func updateStudyCmd() *cobra.Command {
	var studyID string
	var title string
	var content string
	var version int64

	var required = []string{"study-id", "version"}

	command := &cobra.Command{
		Use:     "update",
		Short:   "update a study",
		Long:    "update a study, the version must be the current version plus one, -1 overwrites",
		Example: "study update -s <study-id> -t <title> -v <version>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := &v1.UpdateStudyRequest{Version: version}
			if title != "" {
				req.Title = &title
			}
			if content != "" {
				req.Content = &content
			}

			res, err := apiClient().UpdateStudy(context.Background(), studyID, req)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("study %s updated to version %d", res.ID, res.Version)
		},
	}

	command.Flags().StringVarP(&studyID, "study-id", "s", "", "study id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "new title")
	command.Flags().StringVarP(&content, "content", "c", "", "new content")
	command.Flags().Int64VarP(&version, "version", "v", 0, "expected version (required)")

	command.Flags().SortFlags = false

	return command
}

func deleteStudyCmd() *cobra.Command {
	var studyID string

	var required = []string{"study-id"}

	command := &cobra.Command{
		Use:     "delete",
		Short:   "move a study to the trash",
		Example: "study delete -s <study-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().DeleteStudy(context.Background(), studyID)
			if err != nil {
				logrus.Error(err)
				return
			}

			if res.Deleted {
				logrus.Infof("study %s moved to the trash", res.ID)
			} else {
				color.Yellow("study %s was not found or is already in the trash", res.ID)
			}
		},
	}

	command.Flags().StringVarP(&studyID, "study-id", "s", "", "study id (required)")

	return command
}

func restoreStudyCmd() *cobra.Command {
	var studyID string

	var required = []string{"study-id"}

	command := &cobra.Command{
		Use:     "restore",
		Short:   "restore a study from the trash",
		Example: "study restore -s <study-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().RestoreStudy(context.Background(), studyID)
			if err != nil {
				logrus.Error(err)
				return
			}

			if res.Restored {
				logrus.Infof("study %s restored", res.ID)
			} else {
				color.Yellow("study %s is not in the trash", res.ID)
			}
		},
	}

	command.Flags().StringVarP(&studyID, "study-id", "s", "", "study id (required)")

	return command
}

func trashCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "trash",
		Short:   "list studies in the trash",
		Example: "study trash",
		Run: func(cmd *cobra.Command, args []string) {
			res, err := apiClient().ListDeletedStudies(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Deleted At"})
			for _, study := range res.Studies {
				deletedAt := ""
				if study.DeletedAt != nil {
					deletedAt = study.DeletedAt.Format("2006-01-02 15:04")
				}
				table.Append([]string{study.ID, study.Title, deletedAt})
			}
			table.Render()
		},
	}

	bindContextFlags(command)

	return command
}

func revisionsCmd() *cobra.Command {
	var studyID string

	var required = []string{"study-id"}

	command := &cobra.Command{
		Use:     "revisions",
		Short:   "list the revisions of a study",
		Example: "study revisions -s <study-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().ListStudyRevisions(context.Background(), studyID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Version", "Title", "Created At"})
			for _, rev := range res.Revisions {
				table.Append([]string{
					strconv.FormatInt(rev.Version, 10),
					rev.Title,
					rev.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			table.SetFooter([]string{"Latest", strconv.FormatInt(res.LatestVersion, 10), ""})
			table.Render()
		},
	}

	command.Flags().StringVarP(&studyID, "study-id", "s", "", "study id (required)")

	return command
}

func searchCmd() *cobra.Command {
	var query string

	var required = []string{"query"}

	command := &cobra.Command{
		Use:     "search",
		Short:   "search studies",
		Example: "study search -q <query>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().Search(context.Background(), query)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Score"})
			for _, hit := range res.Hits {
				table.Append([]string{
					hit.StudyID,
					hit.Title,
					strconv.FormatFloat(hit.Score, 'f', 4, 64),
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&query, "query", "q", "", "search query (required)")

	return command
}

func booksCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "books",
		Short:   "list the book catalogue",
		Example: "study books",
		Run: func(cmd *cobra.Command, args []string) {
			res, err := apiClient().ListBooks(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "Name", "Abbr", "Testament", "Chapters"})
			for _, book := range res.Books {
				table.Append([]string{
					strconv.Itoa(book.Position),
					book.Name,
					book.Abbreviation,
					book.Testament,
					strconv.Itoa(book.ChapterCount),
				})
			}
			table.Render()
		},
	}

	return command
}

func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if cmd.Flag(required).Changed == false {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Yellow("provided: %s\n", provided)
		}

		return true
	}

	return false
}
