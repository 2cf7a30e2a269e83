package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/openholdings/internal/config"
	"github.com/ginjaninja78/openholdings/internal/converter"
	"github.com/ginjaninja78/openholdings/internal/holding"
	"github.com/ginjaninja78/openholdings/internal/provider"
	"github.com/ginjaninja78/openholdings/internal/xmlwriter"
)

// fundJSON is the JSON shape of one converted fund.
type fundJSON struct {
	Provider string            `json:"provider"`
	Fund     string            `json:"fund"`
	Format   provider.Format   `json:"format,omitempty"`
	Error    string            `json:"error,omitempty"`
	Holdings []holding.Holding `json:"holdings"`
}

// writeResults renders results in the configured format to --out or the
// command's stdout.
func writeResults(cmd *cobra.Command, results []converter.Result) error {
	var w io.Writer = cmd.OutOrStdout()
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return render(w, current.cfg.OutputFormat, results)
}

// render writes results as XML or JSON. One fund renders as a single
// document; several funds render as a list.
func render(w io.Writer, format string, results []converter.Result) error {
	var data []byte
	var err error

	switch format {
	case config.FormatXML:
		data, err = xmlwriter.Generate(results...)
	case config.FormatJSON:
		funds := make([]fundJSON, 0, len(results))
		for _, res := range results {
			funds = append(funds, toJSON(res))
		}
		if len(funds) == 1 {
			data, err = json.MarshalIndent(funds[0], "", "  ")
		} else {
			data, err = json.MarshalIndent(funds, "", "  ")
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to render holdings: %w", err)
	}

	_, err = w.Write(data)
	return err
}

func toJSON(res converter.Result) fundJSON {
	out := fundJSON{
		Provider: res.Provider,
		Fund:     res.Fund,
		Format:   res.Format,
		Holdings: res.Holdings,
	}
	if out.Holdings == nil {
		out.Holdings = []holding.Holding{}
	}
	if res.Error != nil {
		out.Error = res.Error.Error()
	}
	return out
}
