package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"censo-df/internal/infra/csvexport"
	"censo-df/internal/infra/sidra"
	"censo-df/internal/usecase/census"
)

const (
	rule         = "============================================================"
	bannerTitle  = "Social Data Pipeline - IBGE Census 2022 (Federal District)"
	microdataURL = "https://www.ibge.gov.br/estatisticas/sociais/populacao/22827-censo-demografico-2022.html"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errColor     = color.New(color.FgRed)
)

// printBanner prints the run header.
func printBanner(w io.Writer) {
	fmt.Fprintln(w, rule)
	headingColor.Fprintln(w, bannerTitle)
	fmt.Fprintln(w, rule)
}

// printRemoteStatus prints one line describing the statistics API outcome.
func printRemoteStatus(w io.Writer, report *census.RunReport) {
	switch {
	case report.RemoteOK():
		okColor.Fprintf(w, "[ok] %d Federal District subdistricts retrieved from SIDRA.\n", report.RemoteRows)
	case sidra.KindOf(report.RemoteErr) == sidra.KindEmpty:
		warnColor.Fprintln(w, "[warn] No data returned by the SIDRA API for subdistricts.")
	default:
		errColor.Fprintf(w, "[error] Error querying SIDRA: %v\n", report.RemoteErr)
	}
}

// printReport prints the outcome of a successful run.
func printReport(w io.Writer, report *census.RunReport) {
	printRemoteStatus(w, report)

	fmt.Fprintf(w, "\nFile saved: %s\n", report.OutputPath)
	fmt.Fprintf(w, "   -> %d sectors/RAs\n", len(report.Rows))
	fmt.Fprintf(w, "   -> Columns: %s\n", formatColumns(csvexport.Header))
	if report.Stored {
		fmt.Fprintln(w, "   -> Loaded into region_social_indicators")
	}

	fmt.Fprintln(w)
	printTable(w, report)

	if p := report.Profile; p != nil {
		fmt.Fprintf(w, "Total population: %d\n", p.TotalPopulation)
		fmt.Fprintf(w, "Mean density: %s inhab/km2 (densest: %s, sparsest: %s)\n",
			csvexport.FormatFloat(p.MeanDensity), p.DensestRegion, p.SparsestRegion)
	}
}

// printTable renders the written rows.
func printTable(w io.Writer, report *census.RunReport) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Sector", "Region", "Population", "Area (km2)", "Income", "Elderly %", "Households", "Density"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range report.Rows {
		table.Append([]string{
			r.SectorCode,
			r.RegionName,
			strconv.FormatInt(r.Population, 10),
			csvexport.FormatFloat(r.AreaKm2),
			csvexport.FormatFloat(r.AverageIncome),
			csvexport.FormatFloat(r.ElderlyPercentage),
			strconv.FormatInt(r.HouseholdCount, 10),
			csvexport.FormatFloat(r.PopulationDensity),
		})
	}
	table.Render()
}

// printInstructions prints the fixed guidance for obtaining per-sector data.
func printInstructions(w io.Writer) {
	fmt.Fprintln(w, "\n"+rule)
	headingColor.Fprintln(w, "For real data PER CENSUS SECTOR:")
	fmt.Fprintln(w, "  1. Download the Censo 2022 microdata:")
	fmt.Fprintf(w, "     %s\n", microdataURL)
	fmt.Fprintln(w, "  2. Filter by UF=53 (DF)")
	fmt.Fprintln(w, "  3. Aggregate by cd_setor (sector code)")
	fmt.Fprintln(w, rule)
}

// printFailure prints a fatal error.
func printFailure(w io.Writer, err error) {
	errColor.Fprintf(w, "\n[error] %v\n", err)
}

func formatColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = "'" + c + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
