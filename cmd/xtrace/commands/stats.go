package commands

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/xtrace11/xtrace/internal/cli/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats <trace-log>",
	Short: "Summarise a trace log by request/event name",
	Long: `Read a trace log produced by "xtrace proxy", "xtrace run", or
"xtrace attach" and print a table of how many times each request and
event name occurred.

Example:
  xtrace stats /tmp/xtrace.log`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

// nameRe matches a CamelCase X11 request/event/error name immediately
// followed by its parenthesised argument list, e.g. "CreateWindow(" or
// "--- KeyPress(".
var nameRe = regexp.MustCompile(`\b([A-Z][A-Za-z0-9]*)\(`)

func runStats(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open trace log %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	counts := make(map[string]int)
	var lines, bytes int

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		lines++
		bytes += len(line) + 1

		m := nameRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		counts[m[1]]++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read trace log %q: %w", path, err)
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	data := output.NewTableData("Name", "Count")
	for _, name := range names {
		data.AddRow(name, fmt.Sprintf("%d", counts[name]))
	}

	if err := output.PrintTable(os.Stdout, data); err != nil {
		return fmt.Errorf("failed to print stats table: %w", err)
	}

	fmt.Printf("\n%d lines, %s scanned, %d distinct names\n", lines, humanize.Bytes(uint64(bytes)), len(names))
	return nil
}
