package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sft-go/internal/app"
	"sft-go/internal/config"
	"sft-go/internal/model"
	"sft-go/internal/sft"
	"sft-go/internal/watcher"
)

func main() {
	// Plain output when piped into another program.
	color.NoColor = color.NoColor || !term.IsTerminal(int(os.Stdout.Fd()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an SFTApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Ingest", "SoftDelete").
func newApp(operation string) (*app.SFTApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewSFTApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var (
	headerColor  = color.New(color.FgHiCyan)
	identColor   = color.New(color.FgYellow)
	deletedColor = color.New(color.FgRed)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgHiYellow)
)

func printRevision(rev *model.Revision) {
	identColor.Printf("%s", rev.Identity)
	fmt.Printf("  r%d  %s  [%s]", rev.Revision, rev.OriginalFilename, rev.Category)
	if rev.Deleted() {
		deletedColor.Printf("  (deleted)")
	}
	fmt.Println()
	fmt.Printf("    hash:     %s\n", rev.ContentHash)
	fmt.Printf("    archive:  %s\n", rev.ArchivePath)
	fmt.Printf("    created:  %s (%s)\n", rev.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(rev.CreatedAt))
	if rev.Notes != "" {
		fmt.Printf("    notes:    %s\n", rev.Notes)
	}
	if len(rev.Tags) > 0 {
		fmt.Printf("    tags:     %s\n", strings.Join(rev.Tags, ", "))
	}
}

func printRevisionLine(rev *model.Revision) {
	marker := " "
	if rev.Deleted() {
		marker = deletedColor.Sprint("D")
	}
	fmt.Printf("%s %s  r%-3d  %-8s  %s\n", marker, identColor.Sprint(rev.Identity), rev.Revision, rev.Category, rev.OriginalFilename)
}

var rootCmd = &cobra.Command{
	Use:   "sft",
	Short: "Personal archival file registry",
}

// init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and the on-disk layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		if err := app.InitializeBase(cfg); err != nil {
			return fmt.Errorf("failed to initialize base directory: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

// ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest PATH...",
	Short: "Bring files under management",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Ingest")
		if err != nil {
			return err
		}
		defer a.Close()

		for _, path := range args {
			rev, err := a.Ingest(path)
			if err != nil {
				a.MarkFailed()
				return fmt.Errorf("ingesting %s: %w", path, err)
			}
			okColor.Printf("ingested ")
			fmt.Printf("%s -> %s (%s)\n", path, rev.Identity, rev.Category)
		}
		return nil
	},
}

// update command
var updateCmd = &cobra.Command{
	Use:   "update PATH",
	Short: "Archive a new revision of the identity matching the file's name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("UpdateFromFile")
		if err != nil {
			return err
		}
		defer a.Close()

		rev, err := a.UpdateFromFile(args[0])
		if err != nil {
			a.MarkFailed()
			return err
		}
		okColor.Printf("updated ")
		fmt.Printf("%s -> r%d of %s\n", args[0], rev.Revision, rev.Identity)
		return nil
	},
}

// revise command
var reviseCmd = &cobra.Command{
	Use:   "revise TERM PATH",
	Short: "Archive a file as the next revision of an identity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddRevision")
		if err != nil {
			return err
		}
		defer a.Close()

		rev, err := a.AddRevision(args[0], args[1])
		if err != nil {
			a.MarkFailed()
			return err
		}
		okColor.Printf("revised ")
		fmt.Printf("%s is now r%d\n", rev.Identity, rev.Revision)
		return nil
	},
}

// find command
var findCmd = &cobra.Command{
	Use:   "find TERM",
	Short: "Search identities by filename fragment or identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Find")
		if err != nil {
			return err
		}
		defer a.Close()

		revs, err := a.Find(args[0])
		if err != nil {
			return err
		}
		if len(revs) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, rev := range revs {
			printRevisionLine(rev)
		}
		return nil
	},
}

// view command
var viewCmd = &cobra.Command{
	Use:   "view TERM",
	Short: "Show the latest revision of one identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Resolve")
		if err != nil {
			return err
		}
		defer a.Close()

		rev, err := a.Resolve(args[0])
		if err != nil {
			return err
		}
		printRevision(rev)
		return nil
	},
}

// ls command
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all identities",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		a, err := newApp("List")
		if err != nil {
			return err
		}
		defer a.Close()

		revs, err := a.List(all)
		if err != nil {
			return err
		}
		if len(revs) == 0 {
			fmt.Println("Registry is empty.")
			return nil
		}
		for _, rev := range revs {
			printRevisionLine(rev)
		}
		return nil
	},
}

// checkout command
var checkoutCmd = &cobra.Command{
	Use:   "checkout TERM [DIR]",
	Short: "Copy the latest revision out under a barcode filename",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Checkout")
		if err != nil {
			return err
		}
		defer a.Close()

		destDir := "."
		if len(args) > 1 {
			destDir = args[1]
		}

		written, err := a.Checkout(args[0], destDir)
		if err != nil {
			return err
		}
		fmt.Printf("Checked out to %s\n", written)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history TERM",
	Short: "Show every revision of an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		revs, err := a.History(args[0])
		if err != nil {
			return err
		}
		for _, rev := range revs {
			fmt.Printf("r%-3d  %s  %s  %s\n", rev.Revision, rev.ContentHash[:12],
				rev.CreatedAt.Format("2006-01-02 15:04:05"), rev.ArchivePath)
		}
		return nil
	},
}

// diff command
var diffCmd = &cobra.Command{
	Use:   "diff TERM REV_A REV_B",
	Short: "Compare two revisions of an identity",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		revA, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid revision number: %s", args[1])
		}
		revB, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid revision number: %s", args[2])
		}

		a, err := newApp("Diff")
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.Diff(args[0], revA, revB)
		if err != nil {
			return err
		}

		fmt.Printf("%s r%d vs r%d\n", d.Identity, d.A.Revision, d.B.Revision)
		if d.SameBytes {
			okColor.Println("Content identical.")
			return nil
		}
		warnColor.Println("Content differs.")
		fmt.Printf("  r%d  %s  %s\n", d.A.Revision, d.A.ContentHash[:12], humanize.Bytes(uint64(d.SizeA)))
		fmt.Printf("  r%d  %s  %s\n", d.B.Revision, d.B.ContentHash[:12], humanize.Bytes(uint64(d.SizeB)))
		return nil
	},
}

// note command
var noteCmd = &cobra.Command{
	Use:   "note TERM NOTES",
	Short: "Set the notes on an identity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetNotes")
		if err != nil {
			return err
		}
		defer a.Close()

		rev, err := a.SetNotes(args[0], args[1])
		if err != nil {
			a.MarkFailed()
			return err
		}
		fmt.Printf("Notes set on %s r%d\n", rev.Identity, rev.Revision)
		return nil
	},
}

// tag commands
var tagCmd = &cobra.Command{
	Use:   "tag TERM TAG...",
	Short: "Add tags to an identity",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddTags")
		if err != nil {
			return err
		}
		defer a.Close()

		rev, err := a.AddTags(args[0], args[1:])
		if err != nil {
			a.MarkFailed()
			return err
		}
		fmt.Printf("Tags on %s: %s\n", rev.Identity, strings.Join(rev.Tags, ", "))
		return nil
	},
}

var untagCmd = &cobra.Command{
	Use:   "untag TERM TAG...",
	Short: "Remove tags from an identity",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RemoveTags")
		if err != nil {
			return err
		}
		defer a.Close()

		rev, err := a.RemoveTags(args[0], args[1:])
		if err != nil {
			a.MarkFailed()
			return err
		}
		fmt.Printf("Tags on %s: %s\n", rev.Identity, strings.Join(rev.Tags, ", "))
		return nil
	},
}

// link commands
var linkCmd = &cobra.Command{
	Use:   "link SOURCE TARGET",
	Short: "Create a directed link between two identities",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, _ := cmd.Flags().GetString("notes")

		a, err := newApp("CreateLink")
		if err != nil {
			return err
		}
		defer a.Close()

		link, err := a.CreateLink(args[0], args[1], notes)
		if err != nil {
			a.MarkFailed()
			return err
		}
		fmt.Printf("Linked %s -> %s\n", link.Source, link.Target)
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink SOURCE TARGET",
	Short: "Remove the link between two identities",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RemoveLink")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveLink(args[0], args[1]); err != nil {
			a.MarkFailed()
			return err
		}
		fmt.Println("Link removed.")
		return nil
	},
}

var linkTagCmd = &cobra.Command{
	Use:   "link-tag SOURCE TARGET TAG...",
	Short: "Add tags to a link",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("TagLink")
		if err != nil {
			return err
		}
		defer a.Close()

		link, err := a.TagLink(args[0], args[1], args[2:])
		if err != nil {
			a.MarkFailed()
			return err
		}
		fmt.Printf("Tags on link: %s\n", strings.Join(link.Tags, ", "))
		return nil
	},
}

var linkUntagCmd = &cobra.Command{
	Use:   "link-untag SOURCE TARGET TAG...",
	Short: "Remove tags from a link",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("UntagLink")
		if err != nil {
			return err
		}
		defer a.Close()

		link, err := a.UntagLink(args[0], args[1], args[2:])
		if err != nil {
			a.MarkFailed()
			return err
		}
		fmt.Printf("Tags on link: %s\n", strings.Join(link.Tags, ", "))
		return nil
	},
}

var linkNoteCmd = &cobra.Command{
	Use:   "link-note SOURCE TARGET NOTES",
	Short: "Set the notes on a link",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetLinkNotes")
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.SetLinkNotes(args[0], args[1], args[2]); err != nil {
			a.MarkFailed()
			return err
		}
		fmt.Println("Link notes set.")
		return nil
	},
}

func printLinked(links []*sft.LinkedRevision, arrow string) {
	for _, lr := range links {
		identColor.Printf("%s %s", arrow, lr.Revision.Identity)
		fmt.Printf("  %s", lr.Revision.OriginalFilename)
		if lr.Revision.Deleted() {
			deletedColor.Printf("  (deleted)")
		}
		if lr.Link.Notes != "" {
			fmt.Printf("  — %s", lr.Link.Notes)
		}
		if len(lr.Link.Tags) > 0 {
			fmt.Printf("  [%s]", strings.Join(lr.Link.Tags, ", "))
		}
		fmt.Println()
	}
}

var linksCmd = &cobra.Command{
	Use:   "links TERM",
	Short: "Show links originating at an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("OutgoingLinks")
		if err != nil {
			return err
		}
		defer a.Close()

		links, err := a.OutgoingLinks(args[0])
		if err != nil {
			return err
		}
		if len(links) == 0 {
			fmt.Println("No outgoing links.")
			return nil
		}
		printLinked(links, "->")
		return nil
	},
}

var backlinksCmd = &cobra.Command{
	Use:   "backlinks TERM",
	Short: "Show links pointing at an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("IncomingLinks")
		if err != nil {
			return err
		}
		defer a.Close()

		links, err := a.IncomingLinks(args[0])
		if err != nil {
			return err
		}
		if len(links) == 0 {
			fmt.Println("No incoming links.")
			return nil
		}
		printLinked(links, "<-")
		return nil
	},
}

var allLinksCmd = &cobra.Command{
	Use:   "all-links TERM",
	Short: "Show every link touching an identity, both directions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AllLinksFor")
		if err != nil {
			return err
		}
		defer a.Close()

		outgoing, incoming, err := a.AllLinksFor(args[0])
		if err != nil {
			return err
		}
		if len(outgoing) == 0 && len(incoming) == 0 {
			fmt.Println("No links.")
			return nil
		}
		printLinked(outgoing, "->")
		printLinked(incoming, "<-")
		return nil
	},
}

// trace command
var traceCmd = &cobra.Command{
	Use:   "trace START END",
	Short: "Find and narrate the link path between two identities",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Trace")
		if err != nil {
			return err
		}
		defer a.Close()

		thread, err := a.Trace(args[0], args[1])
		if err != nil {
			return err
		}

		headerColor.Printf("Thread (%d steps)\n", len(thread))
		for _, entry := range thread {
			fmt.Printf("%2d. ", entry.Step)
			identColor.Printf("%s", entry.Identity)
			if entry.Revision != nil {
				fmt.Printf("  %s", entry.Revision.OriginalFilename)
			}
			fmt.Println()
			if entry.Step > 1 {
				if entry.LinkNotes != "" {
					fmt.Printf("      via: %s\n", entry.LinkNotes)
				}
				if len(entry.LinkTags) > 0 {
					fmt.Printf("      tags: %s\n", strings.Join(entry.LinkTags, ", "))
				}
			}
		}
		return nil
	},
}

// delete / restore commands
var deleteCmd = &cobra.Command{
	Use:   "delete TERM",
	Short: "Soft-delete an identity (files move to trash)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SoftDelete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SoftDelete(args[0]); err != nil {
			a.MarkFailed()
			return err
		}
		fmt.Println("Deleted. Files are recoverable from trash via 'sft restore'.")
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore TERM",
	Short: "Restore a soft-deleted identity from trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Restore(args[0]); err != nil {
			a.MarkFailed()
			return err
		}
		fmt.Println("Restored.")
		return nil
	},
}

// repair command
var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Audit the symlink projection and optionally fix it",
	RunE: func(cmd *cobra.Command, args []string) error {
		fix, _ := cmd.Flags().GetBool("fix")

		operation := "Audit"
		if fix {
			operation = "Repair"
		}
		a, err := newApp(operation)
		if err != nil {
			return err
		}
		defer a.Close()

		var report *sft.AuditReport
		if fix {
			report, err = a.Repair()
		} else {
			report, err = a.Audit()
		}
		if err != nil {
			a.MarkFailed()
			return err
		}

		headerColor.Printf("Projection health: %.1f%% (%d/%d valid)\n",
			report.HealthPercent(), report.ValidCnt, report.Total)
		for _, issue := range report.Issues() {
			status := string(issue.State)
			if report.RepairApplied {
				if issue.Fixed {
					status += okColor.Sprint("  fixed")
				} else {
					status += deletedColor.Sprintf("  fix failed: %s", issue.FixError)
				}
			}
			fmt.Printf("  %-9s  %s  %s\n", status, issue.Entry.Identity, issue.Entry.Filename)
			if issue.Detail != "" {
				fmt.Printf("             %s\n", issue.Detail)
			}
		}
		if !report.RepairApplied && len(report.Issues()) > 0 {
			fmt.Println("\nRun with --fix to repair.")
		}
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registry statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Stats")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Stats()
		if err != nil {
			return err
		}

		headerColor.Println("Registry")
		fmt.Printf("  identities:  %s (%s deleted)\n", humanize.Comma(stats.Identities), humanize.Comma(stats.DeletedIdentities))
		fmt.Printf("  revisions:   %s\n", humanize.Comma(stats.Revisions))
		fmt.Printf("  links:       %s\n", humanize.Comma(stats.Links))
		fmt.Printf("  archive:     %s\n", humanize.Bytes(uint64(stats.ArchiveBytes)))
		if len(stats.ByCategory) > 0 {
			headerColor.Println("By category")
			for _, cat := range []model.Category{model.CategoryText, model.CategoryImages, model.CategoryAudio, model.CategoryBlobs, model.CategoryUnknown} {
				if n, ok := stats.ByCategory[cat]; ok {
					fmt.Printf("  %-8s %s\n", cat, humanize.Comma(n))
				}
			}
		}
		return nil
	},
}

// log command
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the operation journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("ListOperations")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.ListOperations(limit)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt != nil {
				d := op.FinishedAt.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-15s  %s  %-10s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
			)
		}
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the ingest and update directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Watch")
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := a.Config()
		opts := watcher.Options{
			SettleDelay:  time.Duration(cfg.Watcher.SettleDelayMS) * time.Millisecond,
			PollInterval: time.Duration(cfg.Watcher.PollIntervalMS) * time.Millisecond,
		}
		w, err := watcher.NewDirWatcher(cfg.IngestDir, cfg.UpdateDir, a, a.Logger(), opts)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Printf("Watching %s and %s. Ctrl-C to stop.\n", cfg.IngestDir, cfg.UpdateDir)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(reviseCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().BoolP("all", "a", false, "Include deleted identities")
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(untagCmd)
	rootCmd.AddCommand(linkCmd)
	linkCmd.Flags().StringP("notes", "m", "", "Notes describing the link")
	rootCmd.AddCommand(unlinkCmd)
	rootCmd.AddCommand(linkTagCmd)
	rootCmd.AddCommand(linkUntagCmd)
	rootCmd.AddCommand(linkNoteCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(backlinksCmd)
	rootCmd.AddCommand(allLinksCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(repairCmd)
	repairCmd.Flags().Bool("fix", false, "Rewrite divergent symlinks")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	rootCmd.AddCommand(watchCmd)
}
