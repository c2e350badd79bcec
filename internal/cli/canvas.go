package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/pixelcanvas/internal/api/response"
)

func newCanvasCmd() *cobra.Command {
	var ansi bool

	cmd := &cobra.Command{
		Use:   "canvas",
		Short: "Show the current canvas",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Canvas

			if err := client.Get("/api/v1/canvas", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.ansi = ansi
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&ansi, "color", false, "Render cells in colour (needs a 24-bit terminal)")

	return cmd
}

func newPixelCmd() *cobra.Command {
	var x, y int
	var color string

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Paint one pixel",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"x": x, "y": y, "color": color}
			var result response.Pixel

			if err := client.Post("/api/v1/pixel", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&x, "x", 0, "Column (required)")
	cmd.Flags().IntVar(&y, "y", 0, "Row (required)")
	cmd.Flags().StringVar(&color, "color", "", "Colour as #RRGGBB (required)")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	_ = cmd.MarkFlagRequired("color")

	return cmd
}

func newHistoryCmd() *cobra.Command {
	var since int64
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List placements in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("since", strconv.FormatInt(since, 10))
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}

			var result response.History
			if err := client.Get("/api/v1/history?"+q.Encode(), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&since, "since", 0, "Only records after this sequence number")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to return (server default when zero)")

	return cmd
}
