package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"highlights/internal/domain"
)

func newUploadCmd(a *app) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Upload a highlights CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(args[0])
			if !strings.HasSuffix(path, ".csv") {
				return fmt.Errorf("please select a CSV file")
			}
			ctx := cmd.Context()
			if overwrite {
				if _, err := a.api.ClearHighlights(ctx); err != nil {
					return fmt.Errorf("clear existing highlights: %w", err)
				}
			}
			resp, err := a.api.UploadFile(ctx, path)
			if err != nil {
				return err
			}
			return a.print(cmd, resp, func(p *printer) {
				p.success("%s", resp.Message)
				p.info("%d highlight(s) stored", resp.Count)
			})
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Clear all highlights before uploading")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		tags  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "search <prompt>",
		Short: "Semantic search over highlights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(args[0])
			if prompt == "" {
				return fmt.Errorf("please enter a search query")
			}
			req := domain.SearchRequest{Prompt: prompt, Tags: domain.ParseTags(tags)}
			if !cmd.Flags().Changed("limit") && a.cfg.UI.SearchLimit > 0 {
				limit = a.cfg.UI.SearchLimit
			}
			if limit > 0 {
				req.Limit = &limit
			}
			results, err := a.api.SearchHighlights(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.print(cmd, results, func(p *printer) {
				if len(results) == 0 {
					p.muted("No results found")
					return
				}
				p.info("Found %d result(s)", len(results))
				for _, h := range results {
					p.highlight(h, true)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "Comma-separated tag filter")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (0 = server default)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var skip, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored highlights a page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.UI.PageSize
			}
			if skip < 0 || limit < 1 {
				return fmt.Errorf("skip must be >= 0 and limit >= 1")
			}
			page, err := a.api.GetAllHighlights(cmd.Context(), skip, limit)
			if err != nil {
				return err
			}
			return a.print(cmd, page, func(p *printer) {
				if len(page.Highlights) == 0 {
					p.muted("No highlights (total %d)", page.Total)
					return
				}
				p.info("Showing %d-%d of %d", page.Skip+1, page.Skip+len(page.Highlights), page.Total)
				for _, h := range page.Highlights {
					p.highlight(h, false)
				}
			})
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of highlights to skip")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Page size (defaults to ui.page_size)")
	return cmd
}

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored highlights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := a.api.GetHighlightsCount(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd, domain.CountResponse{Count: n}, func(p *printer) {
				p.plain("%d", n)
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete ALL stored highlights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Delete ALL highlights? This cannot be undone. [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes":
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			msg, err := a.api.ClearHighlights(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd, domain.MessageResponse{Message: msg}, func(p *printer) {
				p.success("%s", msg)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newChatCmd(a *app) *cobra.Command {
	var tags string
	cmd := &cobra.Command{
		Use:   "chat <question>",
		Short: "Ask a question answered from your highlights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(args[0])
			if prompt == "" {
				return fmt.Errorf("please enter a question")
			}
			resp, err := a.api.RAGChat(cmd.Context(), domain.ChatRequest{Prompt: prompt, Tags: domain.ParseTags(tags)})
			if err != nil {
				return err
			}
			return a.print(cmd, resp, func(p *printer) {
				p.plain("%s", resp.Response)
				if len(resp.Sources) == 0 {
					return
				}
				p.plain("")
				p.info("Sources:")
				for _, h := range resp.Sources {
					p.source(h)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "Comma-separated tag filter")
	return cmd
}
