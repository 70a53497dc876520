package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirdesai22/registration-dashboard/internal/models"
	"github.com/sirdesai22/registration-dashboard/internal/view"
)

// viewFlags are the search, filter and sort controls shared by list and
// export --view.
type viewFlags struct {
	search  string
	event   string
	college string
	sort    string
	order   string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "case-insensitive match on name or email")
	cmd.Flags().StringVar(&f.event, "event", "", "only this event")
	cmd.Flags().StringVar(&f.college, "college", "", "only this college")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort field: "+strings.Join(fieldKeys(), ", "))
	cmd.Flags().StringVar(&f.order, "order", "asc", "asc or desc")
}

func (f *viewFlags) state() (view.State, error) {
	st := view.State{}.WithSearch(f.search).WithEvent(f.event).WithCollege(f.college)
	dir, err := view.ParseDirection(f.order)
	if err != nil {
		return st, err
	}
	if f.sort == "" {
		return st, nil
	}
	if _, ok := models.FieldByKey(f.sort); !ok {
		return st, fmt.Errorf("unknown sort field %q (want one of %s)", f.sort, strings.Join(fieldKeys(), ", "))
	}
	return st.WithSort(view.SortSpec{Field: f.sort, Dir: dir}), nil
}

func fieldKeys() []string {
	keys := make([]string, len(models.Fields))
	for i, f := range models.Fields {
		keys[i] = f.Key
	}
	return keys
}

func newListCmd(a *app) *cobra.Command {
	var (
		vf     viewFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List registrations",
		GroupID: "records",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := vf.state()
			if err != nil {
				return err
			}
			if err := a.load(cmd); err != nil {
				return err
			}
			a.dash.SetState(st)

			rows := a.dash.View()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			printRegistrationTable(cmd.OutOrStdout(), rows, len(a.dash.Records()))
			return nil
		},
	}
	vf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
