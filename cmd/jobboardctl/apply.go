package main

import (
	"jobboard/internal/domain"
	"jobboard/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	applyJob  int64
	applyUser int64
	applyData string
	applyCV   string
	applyLink string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply to a job",
	Long: `Submit a job application. A first application needs --cv. Later applications
reuse the CV on record unless --cv or --link is given.`,
	Example: `  jobboardctl apply --job 7 --user 5 --data '{"fullName":"Ann","email":"ann@example.com"}' --cv ./ann.pdf
  jobboardctl apply --job 9 --user 5 --data @me.json --link https://cv.example.com/ann`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := readDraft(applyData)
		if err != nil {
			return err
		}
		flow, err := workflow.StartApplication(cmd.Context(), current.exec, current.client, current.notifier,
			domain.ID(applyJob), domain.ID(applyUser), func(body []byte) { printBody(cmd, body) })
		if err != nil {
			return errFailed
		}
		for k, v := range draft {
			flow.Set(k, v)
		}
		if applyLink != "" {
			flow.UseLink(true)
			flow.Set("cvLink", applyLink)
		}
		if applyCV != "" {
			if err := attachFiles(flow.Attach, []string{"cv=" + applyCV}); err != nil {
				return err
			}
		}
		return finish(flow.Submit(cmd.Context()))
	},
}

func init() {
	f := applyCmd.Flags()
	f.Int64Var(&applyJob, "job", 0, "job id")
	f.Int64Var(&applyUser, "user", 0, "applicant user id")
	f.StringVar(&applyData, "data", "{}", "applicant details as JSON, or @file")
	f.StringVar(&applyCV, "cv", "", "CV file to upload")
	f.StringVar(&applyLink, "link", "", "CV link, used instead of the CV on record")
	_ = applyCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(applyCmd)
}
