package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trailerseerr/internal/client/overseerr"
	"github.com/trailerseerr/internal/config"
	"github.com/trailerseerr/internal/parser"
	"github.com/trailerseerr/internal/scrape"
	"github.com/trailerseerr/internal/service/requester"
	"github.com/trailerseerr/internal/version"
)

const titleWidth = 50

func newCleanCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "clean <title>",
		Short: "Normalise a video title and guess its media type",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := parser.CleanAndClassify(strings.Join(args, " "), description)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Query: %s\n", cc.Cleaned)
			fmt.Fprintf(out, "Type:  %s\n", cc.MediaType)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Video description used for media type detection")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var raw bool
	var page int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search Overseerr",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := ctx.buildApp()
			query := strings.Join(args, " ")

			var results []overseerr.MediaResult
			if raw {
				res, err := a.overseerr.Search(cmd.Context(), query, page)
				if err != nil {
					return err
				}
				if res != nil {
					results = res.Results
				}
			} else {
				var err error
				results, err = a.requester.SearchTitle(cmd.Context(), query)
				if err != nil {
					return err
				}
			}

			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Show the unfiltered Overseerr response")
	cmd.Flags().IntVar(&page, "page", 1, "Result page (with --raw)")
	return cmd
}

func printResults(w io.Writer, results []overseerr.MediaResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}

	rows := make([][]string, 0, len(results))
	requestable := false
	for _, r := range results {
		year := ""
		if y := r.Year(); y > 0 {
			year = strconv.Itoa(y)
		}
		status := "-"
		if r.MediaType.Valid() {
			ds := requester.ProjectStatus(r.MediaInfo)
			status = string(ds)
			requestable = requestable || ds.Requestable()
		}
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			string(r.MediaType),
			parser.Truncate(r.DisplayTitle(), titleWidth),
			year,
			status,
		})
	}

	fmt.Fprintln(w, renderTable(
		[]string{"TMDB", "Type", "Title", "Year", "Status"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	))
	if requestable {
		fmt.Fprintln(w, "Request one with: trailerseerr request <type> <tmdb-id>")
	}
}

func newRequestCommand(ctx *commandContext) *cobra.Command {
	var tvdbID int
	var title string
	var seasons []int

	cmd := &cobra.Command{
		Use:   "request <movie|tv> <tmdb-id>",
		Short: "Request a movie or show",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[1])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid tmdb id %q", args[1])
			}

			payload := overseerr.RequestPayload{
				MediaType: overseerr.MediaType(args[0]),
				MediaID:   id,
				Seasons:   seasons,
			}
			if !payload.MediaType.Valid() {
				return fmt.Errorf("unsupported media type %q: want movie or tv", args[0])
			}
			if tvdbID > 0 && payload.MediaType == overseerr.MediaTypeTV {
				payload.TVDBID = &tvdbID
			}

			a := ctx.buildApp()
			req, err := a.requester.RequestMedia(cmd.Context(), payload, title)
			if err != nil {
				return err
			}

			if req == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Request sent")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Request #%d created\n", req.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&tvdbID, "tvdb", 0, "TVDB id (tv only)")
	cmd.Flags().StringVar(&title, "title", "", "Title used in notifications")
	cmd.Flags().IntSliceVar(&seasons, "season", nil, "Season numbers to request (tv only)")
	return cmd
}

func newTestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test the Overseerr connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := ctx.buildApp().overseerr.TestConnection(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			if !res.Success {
				return errors.New("connection test failed")
			}
			return nil
		},
	}
}

func newScrapeCommand(ctx *commandContext) *cobra.Command {
	var lookup bool

	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Extract the video title from a watch page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.IsValidURL(args[0]) {
				return fmt.Errorf("invalid url %q", args[0])
			}

			a := ctx.buildApp()
			info, err := a.fetcher.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			page := scrape.Process(info)
			if page.Title == "" {
				return errors.New("no video title found")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:   %s\n", page.Title)
			if page.VideoID != "" {
				fmt.Fprintf(out, "Video:   %s\n", page.VideoID)
			}
			if page.ChannelName != "" {
				fmt.Fprintf(out, "Channel: %s\n", page.ChannelName)
			}
			fmt.Fprintf(out, "Query:   %s\n", page.CleanedTitle)
			fmt.Fprintf(out, "Type:    %s\n", page.MediaType)

			if !lookup {
				return nil
			}
			results, err := a.requester.SearchTitle(cmd.Context(), page.CleanedTitle)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			printResults(out, results)
			return nil
		},
	}
	cmd.Flags().BoolVar(&lookup, "lookup", false, "Search Overseerr for the cleaned title")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		},
	}
}
