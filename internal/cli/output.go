package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/birbparty/clusterapi/sdk"
	"github.com/birbparty/clusterapi/sdk/models"
)

type modelPtr[T any] interface {
	*T
	models.Model
}

type operation func() (*sdk.Response, error)

// print writes v to stdout in the selected format
func (a *app) print(v any) error {
	if a.format == formatYAML {
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// record notes the clusters a response touched and tells the user on
// stderr, keeping stdout parseable.
func (a *app) record(resp *sdk.Response) {
	ids := resp.AffectedClusters()
	if len(ids) == 0 {
		return
	}
	a.affected.Merge(resp)
	fmt.Fprintf(a.errOut, "Affected clusters: %s\n", joinIDs(ids))
}

func joinIDs(ids []int) string {
	return strings.Join(lo.Map(ids, func(id int, _ int) string { return strconv.Itoa(id) }), ", ")
}

// show prints the model stored under key
func show[T any, PT modelPtr[T]](a *app, key string, op operation) error {
	resp, err := op()
	m, err := sdk.Result[*T](resp, err)(key)
	if err != nil {
		return err
	}
	a.record(resp)
	return a.print(PT(m).ToMap())
}

// showList prints the models stored under key
func showList[T any, PT modelPtr[T]](a *app, key string, op operation) error {
	resp, err := op()
	items, err := sdk.Result[[]*T](resp, err)(key)
	if err != nil {
		return err
	}
	return a.print(lo.Map(items, func(m *T, _ int) map[string]any { return PT(m).ToMap() }))
}

// done reports an operation whose data is not printed
func (a *app) done(op operation, summary map[string]any) error {
	resp, err := op()
	if err := sdk.Check(resp, err); err != nil {
		return err
	}
	a.record(resp)
	return a.print(summary)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: expected a positive integer", raw)
	}
	return id, nil
}

// parseScalar reads a command line value the way YAML reads a scalar, so
// that 3 is a number, true a boolean and anything else a string.
func parseScalar(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	switch v.(type) {
	case string, bool, int, float64:
		return v
	}
	return raw
}

// input collects a model's fields from --file and --set
type input struct {
	file string
	set  []string
}

func (in *input) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "YAML or JSON file with the fields, - for stdin")
	cmd.Flags().StringArrayVar(&in.set, "set", nil, "field=value, repeatable; applied after --file")
}

// fields returns the collected fields. --set values override the file.
func (in *input) fields(stdin io.Reader) (map[string]any, error) {
	out := map[string]any{}
	if in.file != "" {
		var (
			data []byte
			err  error
		)
		if in.file == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(in.file)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", in.file, err)
		}
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", in.file, err)
		}
		if out == nil {
			out = map[string]any{}
		}
	}
	for _, raw := range in.set {
		field, value, ok := strings.Cut(raw, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --set %q: expected field=value", raw)
		}
		out[field] = parseScalar(value)
	}
	return out, nil
}

// decode builds a model from the collected fields
func decode[T any, PT modelPtr[T]](cmd *cobra.Command, in *input) (*T, error) {
	fields, err := in.fields(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return models.Decode[T, PT](fields)
}

// patch applies the collected fields on top of current
func patch[T any, PT modelPtr[T]](cmd *cobra.Command, in *input, current *T) (*T, error) {
	fields, err := in.fields(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	merged := PT(current).ToMap()
	maps.Copy(merged, fields)
	return models.Decode[T, PT](merged)
}

// listFlags builds an sdk.ListFilter from the command line
type listFlags struct {
	filters []string
	sorts   []string
	skip    int
	limit   int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "field=value, repeatable")
	cmd.Flags().StringArrayVar(&f.sorts, "sort", nil, "field[:ASC|DESC], repeatable")
	cmd.Flags().IntVar(&f.skip, "skip", 0, "results to skip")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum number of results")
}

func (f *listFlags) build() (*sdk.ListFilter, error) {
	filter := sdk.NewListFilter()
	for _, raw := range f.filters {
		field, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --filter %q: expected field=value", raw)
		}
		if err := filter.AddFilter(field, value); err != nil {
			return nil, err
		}
	}
	for _, raw := range f.sorts {
		field, order, _ := strings.Cut(raw, ":")
		dir := sdk.SortAscending
		if order != "" {
			dir = sdk.SortOrder(strings.ToUpper(order))
		}
		if err := filter.AddSort(field, dir); err != nil {
			return nil, err
		}
	}
	if err := filter.SetSkip(f.skip); err != nil {
		return nil, err
	}
	if err := filter.SetLimit(f.limit); err != nil {
		return nil, err
	}
	return filter, nil
}
