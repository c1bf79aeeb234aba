package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"jobboard/internal/client"
	"jobboard/internal/listquery"
	"jobboard/internal/query"
	"jobboard/internal/utils"

	"github.com/spf13/cobra"
)

var columns = map[listquery.Entity][]string{
	listquery.Users:        {"id", "fullName", "email", "role", "status"},
	listquery.Employers:    {"id", "name", "email", "provinceId", "districtId"},
	listquery.Jobs:         {"id", "title", "jobType", "salary", "deadline", "status"},
	listquery.Applications: {"id", "jobId", "userId", "fullName", "status"},
	listquery.Provinces:    {"id", "name"},
	listquery.Districts:    {"id", "provinceId", "name"},
	listquery.Industries:   {"id", "name"},
}

var (
	listKeyword  string
	listSorts    []string
	listFilters  []string
	listPage     int
	listPageSize int
)

var listCmd = &cobra.Command{
	Use:   "list <entity>",
	Short: "List one page of an entity",
	Example: `  jobboardctl list jobs --keyword golang --sort salaryMin:desc --filter provinceId=31
  jobboardctl list users --page 2 --page-size 25`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := entityArg(args[0])
		if err != nil {
			return err
		}
		m, err := buildManager(schema)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "?%s\n", m.Query().Encode())

		list := query.NewList(current.cache, schema.Entity,
			client.Fetcher[map[string]any](current.client, schema),
			query.WithTimeout(current.env.Timeout))
		res := list.Load(cmd.Context(), m.State())
		if res.IsError {
			return fmt.Errorf("%s", res.Error.Message)
		}
		return printPage(cmd.OutOrStdout(), columns[schema.Entity], res)
	},
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listKeyword, "keyword", "", "search keyword")
	f.StringArrayVar(&listSorts, "sort", nil, "sort as field[:asc|desc], repeatable; replaces the default order")
	f.StringArrayVar(&listFilters, "filter", nil, "filter as key=value, repeatable")
	f.IntVar(&listPage, "page", 1, "page number")
	f.IntVar(&listPageSize, "page-size", listquery.DefaultPageSize, "page size (10, 25, 50, 100)")
	rootCmd.AddCommand(listCmd)
}

// buildManager applies the flags through the list state manager so they get
// the same checks as interactive updates. The page is set last since every
// other update resets it.
func buildManager(schema listquery.Schema) (*listquery.Manager, error) {
	initial := url.Values{}
	if len(listSorts) > 0 {
		initial.Set("sorts", "")
	}
	m := listquery.NewManager(schema, initial, nil)

	if listKeyword != "" {
		m.SetKeyword(listKeyword)
	}
	for _, raw := range listSorts {
		field, dir, _ := strings.Cut(raw, ":")
		if _, err := m.ToggleSort(listquery.SortField(field), listquery.Direction(strings.ToLower(dir))); err != nil {
			return nil, err
		}
	}
	for _, raw := range listFilters {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q must be key=value", raw)
		}
		if _, err := m.SetFilter(key, value); err != nil {
			return nil, err
		}
	}
	if listPageSize != listquery.DefaultPageSize {
		if _, err := m.SetPageSize(listPageSize); err != nil {
			return nil, err
		}
	}
	if listPage != 1 {
		if _, err := m.SetPage(listPage); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func printPage(w io.Writer, cols []string, res query.Result[map[string]any]) error {
	if res.Data == nil {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	for _, item := range res.Data.Items {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = cellFor(item, col)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d, %d total\n", res.State.PageNumber, res.Data.TotalPages, res.Data.NumberOfElements)
	return err
}

// cellFor renders one column. "salary" is derived from the salary bounds.
func cellFor(item map[string]any, col string) string {
	if col == "salary" {
		return utils.FormatSalaryRange(number(item["salaryMin"]), number(item["salaryMax"]))
	}
	return cell(item[col])
}

func number(v any) int64 {
	if f, ok := v.(float64); ok {
		return int64(f)
	}
	return 0
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case float64:
		return fmt.Sprintf("%.0f", t)
	case string:
		if t == "" {
			return "-"
		}
		return t
	default:
		return fmt.Sprint(t)
	}
}
