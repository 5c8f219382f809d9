package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pders01/rdash/internal/action"
	"github.com/pders01/rdash/internal/config"
	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/tui"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rdash %s\n", Version)
			fmt.Fprintln(out, "Debrid download dashboard")
			fmt.Fprintln(out, "github.com/pders01/rdash")
		},
	}
}

func newGenerateConfigCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "generate-config",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return fmt.Errorf("failed to generate config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
			return nil
		},
	}
}

func newListCmd(g *globals) *cobra.Command {
	var downloadsOnly, mediaOnly bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List downloads and media",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := g.client()

			var (
				downloads []download.Download
				items     []download.MediaItem
			)
			grp, ctx := errgroup.WithContext(cmd.Context())
			if !mediaOnly {
				grp.Go(func() error {
					var err error
					downloads, err = client.Downloads(ctx)
					return err
				})
			}
			if !downloadsOnly {
				grp.Go(func() error {
					var err error
					items, err = client.Media(ctx)
					return err
				})
			}
			if err := grp.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !mediaOnly {
				printDownloads(out, downloads)
			}
			if !downloadsOnly {
				if !mediaOnly {
					fmt.Fprintln(out)
				}
				printMedia(out, items)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&downloadsOnly, "downloads", false, "Only list downloads")
	cmd.Flags().BoolVar(&mediaOnly, "media", false, "Only list media")
	cmd.MarkFlagsMutuallyExclusive("downloads", "media")
	return cmd
}

func printDownloads(out io.Writer, downloads []download.Download) {
	fmt.Fprintf(out, "Downloads (%d)\n", len(downloads))
	if len(downloads) == 0 {
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS")
	for _, d := range downloads {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.ID, d.DisplayName(), download.StatusText(d))
	}
	w.Flush()
}

func printMedia(out io.Writer, items []download.MediaItem) {
	fmt.Fprintf(out, "Media (%d titles)\n", len(items))
	if len(items) == 0 {
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tTYPE\tPATH")
	for _, m := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", humanBytes(m.Size), m.FileType, m.Path)
	}
	w.Flush()
}

func newFilesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "files <download-id>",
		Short: "List the selectable files of a download",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := g.client().Files(cmd.Context(), download.ID(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No files")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSIZE\tPATH")
			for _, f := range files {
				fmt.Fprintf(w, "%s\t%s\t%s\n", f.ID, humanBytes(f.Bytes), f.Label())
			}
			return w.Flush()
		},
	}
}

func newAddCmd(g *globals) *cobra.Command {
	var subs bool
	cmd := &cobra.Command{
		Use:   "add <magnet>",
		Short: "Add a magnet link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.submit(cmd, action.AddMagnet{Magnet: args[0], DownloadSubs: subs})
		},
	}
	cmd.Flags().BoolVar(&subs, "subs", false, "Also fetch subtitles")
	return cmd
}

func newAddFileCmd(g *globals) *cobra.Command {
	var subs bool
	cmd := &cobra.Command{
		Use:   "add-file <path>",
		Short: "Upload a .torrent file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.submit(cmd, action.AddTorrentFile{Path: args[0], DownloadSubs: subs})
		},
	}
	cmd.Flags().BoolVar(&subs, "subs", false, "Also fetch subtitles")
	return cmd
}

func newSelectCmd(g *globals) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "select <download-id> [file-id...]",
		Short: "Choose which files of a download to fetch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := download.ID(args[0])
			fileIDs := args[1:]
			if all {
				if len(fileIDs) > 0 {
					return errors.New("--all cannot be combined with file ids")
				}
				files, err := g.client().Files(cmd.Context(), id)
				if err != nil {
					return err
				}
				for _, f := range files {
					fileIDs = append(fileIDs, f.ID)
				}
			}
			return g.submit(cmd, action.SelectFiles{DownloadID: id, FileIDs: fileIDs})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Select every file")
	return cmd
}

func newRemoveCmd(g *globals) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <download-id>",
		Short: "Delete a download",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed := yes || confirm(cmd, fmt.Sprintf("Delete download %s?", args[0]))
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			return g.submit(cmd, action.DeleteDownload{ID: download.ID(args[0]), Confirmed: true})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newRemoveMediaCmd(g *globals) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm-media <path>",
		Short: "Delete a file from the media collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed := yes || confirm(cmd, fmt.Sprintf("Delete %s?", args[0]))
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			return g.submit(cmd, action.DeleteMedia{Path: args[0], Confirmed: true})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// submit runs one action and reports its outcome the way the dashboard
// words it.
func (g *globals) submit(cmd *cobra.Command, req action.Request) error {
	o := action.NewSubmitter(g.client()).Do(cmd.Context(), req)
	if !o.OK() {
		return errors.New(o.Message())
	}
	fmt.Fprintln(cmd.OutOrStdout(), successMessage(req.Kind()))
	return nil
}

func successMessage(k action.Kind) string {
	switch k {
	case action.KindAddMagnet, action.KindAddTorrent:
		return tui.MsgDownloadAdded
	case action.KindSelectFiles:
		return tui.MsgFilesSelected
	case action.KindDeleteDownload:
		return tui.MsgDownloadDeleted
	case action.KindDeleteMedia:
		return tui.MsgFileDeleted
	default:
		return "Done"
	}
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (yes/no): ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func humanBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
