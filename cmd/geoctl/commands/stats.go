package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/alexivanou/geocommunity/cmd/geoctl/output"
	"github.com/alexivanou/geocommunity/internal/stats"
	"github.com/spf13/cobra"
)

var outputFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print memory, runtime and per-table statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		statistics, err := stats.NewCollector(db, cfg.DB).Collect(ctx)
		if err != nil {
			return fmt.Errorf("failed to collect statistics: %w", err)
		}

		out := cmd.OutOrStdout()
		format := outputFormat
		if format == "" {
			format = "json"
			if output.IsTerminal(out) {
				format = "text"
			}
		}
		switch format {
		case "json":
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(statistics)
		case "text", "human":
			printHumanReadable(out, statistics)
			return nil
		default:
			return fmt.Errorf("unknown output format %q", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: json or text (default: text on a terminal, json otherwise)")
}

func printHumanReadable(w io.Writer, s *stats.Stats) {
	output.Section(w, "Application Statistics")
	fmt.Fprintf(w, "Timestamp: %s\n\n", s.Timestamp.Format("2006-01-02 15:04:05"))

	output.Section(w, "Memory")
	fmt.Fprintf(w, "Allocated:        %s\n", formatBytes(s.Memory.Alloc))
	fmt.Fprintf(w, "Total Allocated:  %s\n\n", formatBytes(s.Memory.TotalAlloc))

	output.Section(w, "Database")
	fmt.Fprintf(w, "Type:            %s\n", s.Database.Type)
	fmt.Fprintf(w, "Total Records:   %d\n", s.Database.TotalRecords)
	fmt.Fprintf(w, "Registrations:   %d\n", s.Database.RegistrationsTotal)
	printStatusCounts(w, "Posts", s.Database.PostsByStatus)
	printStatusCounts(w, "Events", s.Database.EventsByStatus)
	fmt.Fprintln(w, "\nTable Statistics:")
	for _, ts := range s.Database.TableStats {
		fmt.Fprintf(w, "  %-25s: %10d rows", ts.Name, ts.RowCount)
		if ts.SizeBytes > 0 {
			fmt.Fprintf(w, " (%s)", formatBytes(uint64(ts.SizeBytes)))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	output.Section(w, "Community")
	fmt.Fprintf(w, "Active Sessions: %d\n", s.Community.ActiveSessions)
	fmt.Fprintf(w, "Upcoming Events: %d\n", s.Community.UpcomingEvents)
	fmt.Fprintf(w, "Full Events:     %d\n", s.Community.FullEvents)
	fmt.Fprintf(w, "Verified Users:  %d\n\n", s.Community.VerifiedUsers)

	output.Section(w, "Runtime")
	fmt.Fprintf(w, "Goroutines:      %d\n", s.Runtime.NumGoroutines)
	fmt.Fprintf(w, "Uptime:          %ds\n", s.Runtime.UptimeSeconds)
}

func printStatusCounts(w io.Writer, label string, counts stats.StatusCount) {
	if len(counts) == 0 {
		return
	}
	statuses := make([]string, 0, len(counts))
	for st := range counts {
		statuses = append(statuses, st)
	}
	sort.Strings(statuses)
	fmt.Fprintf(w, "%s:\n", label)
	for _, st := range statuses {
		fmt.Fprintf(w, "  %-12s %d\n", st, counts[st])
	}
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
