package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type showRow struct {
	Option  string `json:"option"`
	Key     string `json:"key"`
	Value   any    `json:"value"`
	Origin  string `json:"origin"`
	Default any    `json:"default"`
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective value of every option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver, src, err := openResolver(cmd, flags)
			if err != nil {
				return err
			}
			defer src.close()
			defer resolver.Close()

			var rows []showRow
			for _, field := range resolver.Describe() {
				value, trace, err := resolver.ResolveWithTrace(field.Name)
				if err != nil {
					return err
				}
				rows = append(rows, showRow{
					Option:  field.Name,
					Key:     field.Key,
					Value:   value,
					Origin:  string(trace.Origin),
					Default: field.Default,
				})
			}

			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			case "text":
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				if _, err := fmt.Fprintln(w, "OPTION\tKEY\tVALUE\tORIGIN"); err != nil {
					return err
				}
				for _, row := range rows {
					if _, err := fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", row.Option, row.Key, row.Value, row.Origin); err != nil {
						return err
					}
				}
				return w.Flush()
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	return cmd
}
