package main

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/scoring"
	"github.com/sells-group/leadgen-cli/pkg/mailer"
	"github.com/sells-group/leadgen-cli/pkg/notion"
)

var outreachDryRun bool

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Send the drafted email to every reviewed lead",
	Long:  `Fetches leads whose Notion status is "Reviewed", emails each one its approved draft, and moves the page to "Sent". Leads without a stored draft are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Notion.Token == "" || cfg.Notion.LeadDB == "" {
			return eris.New("outreach: notion token and lead database must be configured")
		}
		if !outreachDryRun && (cfg.SMTP.Username == "" || cfg.SMTP.From == "") {
			return eris.New("outreach: smtp username and from address must be configured")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		notionClient := notion.NewClient(cfg.Notion.Token)
		sender := mailer.New(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})

		pages, err := notion.QueryReviewedLeads(ctx, notionClient, cfg.Notion.LeadDB)
		if err != nil {
			return err
		}
		zap.L().Info("reviewed leads found", zap.Int("count", len(pages)))

		sent, skipped := 0, 0
		for _, page := range pages {
			placeID := notion.PropertyText(page, "Google Place ID")
			if placeID == "" {
				zap.L().Warn("reviewed page has no place id", zap.String("page_id", string(page.ID)))
				skipped++
				continue
			}

			lead, err := st.GetLead(ctx, placeID)
			if err != nil {
				zap.L().Warn("reviewed lead not in store",
					zap.String("place_id", placeID), zap.Error(err))
				skipped++
				continue
			}
			if lead.Enrichment == nil || lead.Enrichment.EmailBody == "" {
				zap.L().Warn("reviewed lead has no drafted email",
					zap.String("place_id", placeID))
				skipped++
				continue
			}

			to, _ := scoring.BestEmail(lead.Emails)
			if to == "" {
				zap.L().Warn("reviewed lead has no recipient address",
					zap.String("place_id", placeID))
				skipped++
				continue
			}

			if outreachDryRun {
				zap.L().Info("dry run, would send",
					zap.String("place_id", placeID),
					zap.String("to", to),
					zap.String("subject", lead.Enrichment.EmailSubject))
				sent++
				continue
			}

			if err := sender.Send(ctx, to, lead.Enrichment.EmailSubject, lead.Enrichment.EmailBody); err != nil {
				zap.L().Error("send failed",
					zap.String("place_id", placeID),
					zap.String("to", to),
					zap.Error(err))
				skipped++
				continue
			}

			if err := markSent(ctx, notionClient, string(page.ID)); err != nil {
				zap.L().Error("status update failed",
					zap.String("page_id", string(page.ID)), zap.Error(err))
			}
			zap.L().Info("outreach sent",
				zap.String("place_id", placeID),
				zap.String("to", to))
			sent++
		}

		zap.L().Info("outreach complete", zap.Int("sent", sent), zap.Int("skipped", skipped))
		return nil
	},
}

// markSent moves a lead page to the "Sent" status.
func markSent(ctx context.Context, c notion.Client, pageID string) error {
	_, err := c.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			"Lead Status": notionapi.StatusProperty{
				Status: notionapi.Option{Name: "Sent"},
			},
		},
	})
	return err
}

func init() {
	outreachCmd.Flags().BoolVar(&outreachDryRun, "dry-run", false, "log instead of sending email")
	rootCmd.AddCommand(outreachCmd)
}
