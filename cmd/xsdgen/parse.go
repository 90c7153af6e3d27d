package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	xsdgen "github.com/agentflare-ai/go-xsdgen"
)

func newParseCmd(a *app) *cobra.Command {
	var color bool

	cmd := &cobra.Command{
		Use:   "parse <schema.xsd>",
		Short: "Print the element tree of a schema as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := a.loadSchema(args[0])
			if err != nil {
				return err
			}

			source, _ := os.ReadFile(args[0])
			formatter := &xsdgen.ErrorFormatter{Color: color}
			for _, diag := range schema.Diagnostics {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Format(diag, string(source)))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(schema)
		},
	}

	cmd.Flags().BoolVar(&color, "color", false, "colorize diagnostics")
	return cmd
}

// loadSchema parses a schema file and logs the outcome.
func (a *app) loadSchema(path string) (*xsdgen.ParsedSchema, error) {
	start := time.Now()
	cache := xsdgen.NewSchemaCache("", xsdgen.WithCacheLogger(a.log.Component("cache").Zerolog()))
	schema, err := cache.Get(path)
	if err != nil {
		a.log.LogParse(path, 0, 0, time.Since(start), err)
		return nil, err
	}
	a.log.LogParse(path, len(schema.Elements), len(schema.Warnings()), time.Since(start), nil)
	return schema, nil
}
