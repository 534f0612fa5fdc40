package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kailas-cloud/studiodex/internal/domain"
	"github.com/kailas-cloud/studiodex/internal/domain/search/query"
	"github.com/kailas-cloud/studiodex/internal/domain/search/result"
)

// searchFlags mirror query.Options; skip and take only apply when set explicitly.
type searchFlags struct {
	query    string
	favorite bool
	bookmark bool
	include  []string
	exclude  []string
	sortBy   string
	sortDir  string
	skip     int
	take     int
	page     int
	seed     string
	json     bool
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	f := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the live studio index",
		Long: `Compiles the flags into a studio query and runs it against the live index.
Use --sort '$shuffle' with --seed for a stable random order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			qo, err := f.options(cmd.Flags())
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
				ok, err := a.attach(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return domain.ErrIndexNotBuilt
				}
				page, err := a.search.Search(ctx, qo, f.seed)
				if err != nil {
					return err
				}
				if f.json {
					return writePageJSON(cmd.OutOrStdout(), page)
				}
				writePageTable(cmd.OutOrStdout(), page)
				return nil
			})
		},
	}

	f.register(cmd.Flags())
	return cmd
}

// register binds the search flags to fl.
func (f *searchFlags) register(fl *pflag.FlagSet) {
	fl.StringVarP(&f.query, "query", "q", "", "free text matched against name and label names")
	fl.BoolVar(&f.favorite, "favorite", false, "only favorite studios")
	fl.BoolVar(&f.bookmark, "bookmark", false, "only bookmarked studios")
	fl.StringSliceVar(&f.include, "include", nil, "label IDs every studio must carry")
	fl.StringSliceVar(&f.exclude, "exclude", nil, "label IDs no studio may carry")
	fl.StringVar(&f.sortBy, "sort", "", "sort field: addedOn, name, bookmark, numScenes or $shuffle")
	fl.StringVar(&f.sortDir, "dir", query.Desc, "sort direction: asc or desc")
	fl.IntVar(&f.skip, "skip", 0, "results to skip (overrides --page)")
	fl.IntVar(&f.take, "take", 0, "results to return (overrides the page size)")
	fl.IntVar(&f.page, "page", 0, "zero-based page number")
	fl.StringVar(&f.seed, "seed", "", "shuffle seed (default from config)")
	fl.BoolVar(&f.json, "json", false, "output results as JSON")
}

// options converts the flags into query options.
func (f *searchFlags) options(fs *pflag.FlagSet) (query.Options, error) {
	switch f.sortDir {
	case query.Asc, query.Desc:
	default:
		return query.Options{}, fmt.Errorf("%w: --dir must be %q or %q", domain.ErrInvalidQuery, query.Asc, query.Desc)
	}

	o := query.Options{
		Query:    f.query,
		Favorite: f.favorite,
		Bookmark: f.bookmark,
		Include:  f.include,
		Exclude:  f.exclude,
		SortBy:   f.sortBy,
		SortDir:  f.sortDir,
		Page:     f.page,
	}
	if fs.Changed("skip") {
		skip := f.skip
		o.Skip = &skip
	}
	if fs.Changed("take") {
		take := f.take
		o.Take = &take
	}
	return o, nil
}

type hitJSON struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type pageJSON struct {
	Total int       `json:"total"`
	Hits  []hitJSON `json:"hits"`
}

func writePageJSON(w io.Writer, page *result.Page) error {
	out := pageJSON{Total: page.Total(), Hits: make([]hitJSON, 0, len(page.Hits()))}
	for _, h := range page.Hits() {
		out.Hits = append(out.Hits, hitJSON{ID: h.ID(), Score: h.Score()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

func writePageTable(w io.Writer, page *result.Page) {
	hits := page.Hits()
	if len(hits) == 0 {
		fmt.Fprintf(w, "No studios found (total %d).\n", page.Total())
		return
	}
	fmt.Fprintf(w, "Showing %d of %d studios:\n", len(hits), page.Total())
	for i, h := range hits {
		fmt.Fprintf(w, "  [%d] %s (%.2f)\n", i+1, h.ID(), h.Score())
	}
}
