package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
)

// PrintLanguageReference displays what each supported grammar counts as a
// function and how names are qualified. This is a static display that does
// not require Git analysis.
func PrintLanguageReference(cfg *contract.Config) error {
	renderModel := schema.BuildLanguageRenderModel()

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, renderModel)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLanguageCSV(w, renderModel)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLanguageText(w, renderModel)
		}, "Wrote text")
	}
}

// writeLanguageText displays the reference in human-readable text format.
func writeLanguageText(w io.Writer, renderModel *schema.LanguageRenderModel) error {
	if _, err := fmt.Fprintf(w, "🌲 Supported Languages\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "======================\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n%s\n\n", renderModel.Description); err != nil {
		return err
	}

	for _, language := range renderModel.Languages {
		if _, err := fmt.Fprintf(w, "%s (%s)\n", strings.ToUpper(language.Name), strings.Join(language.Extensions, ", ")); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Counts: %s\n", strings.Join(language.Definitions, ", ")); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Naming: %s\n", language.Qualifier); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Anonymous: %s\n\n", language.Anonymous); err != nil {
			return err
		}
	}

	return nil
}

// writeLanguageCSV displays the reference in CSV format.
func writeLanguageCSV(w io.Writer, renderModel *schema.LanguageRenderModel) error {
	header := []string{"language", "extensions", "definitions", "qualifier", "anonymous"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, language := range renderModel.Languages {
			row := []string{
				language.Name,
				strings.Join(language.Extensions, "|"),
				strings.Join(language.Definitions, "|"),
				language.Qualifier,
				language.Anonymous,
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
