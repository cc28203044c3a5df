package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/monotributo-historico/internal/analysis"
	"github.com/jonathan/monotributo-historico/internal/charts"
	"github.com/jonathan/monotributo-historico/internal/export"
	"github.com/jonathan/monotributo-historico/internal/inflation"
	"github.com/jonathan/monotributo-historico/internal/logging"
	"github.com/jonathan/monotributo-historico/internal/observability"
	"github.com/jonathan/monotributo-historico/internal/rendering"
	"github.com/jonathan/monotributo-historico/internal/store"
	"github.com/jonathan/monotributo-historico/internal/types"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare nominal and inflation-adjusted amounts per category",
	Long: "Loads the store, adjusts the chosen component for inflation against a base month, prints growth " +
		"and CAGR per category, writes the charts and regenerates the landing page.",
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var (
	analyzeTipo      string
	analyzeBase      string
	analyzeComponent string
	analyzeStrict    bool
	analyzeXLSX      bool
	analyzeChartsDir string
	analyzeStore     string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTipo, "tipo", types.ActivityServices, "Activity type: servicios or ventas")
	analyzeCmd.Flags().StringVar(&analyzeBase, "ipc-base", "", "Base month YYYY-MM for real amounts (defaults to the first period with data)")
	analyzeCmd.Flags().StringVar(&analyzeComponent, "componente", string(analysis.ComponentTotal), "Component: total, impuesto_integrado, aporte_sipa or aporte_obra_social")
	analyzeCmd.Flags().BoolVar(&analyzeStrict, "strict-ipc", false, "Fail when a period has no inflation value instead of leaving it unadjusted")
	analyzeCmd.Flags().BoolVar(&analyzeXLSX, "xlsx", false, "Also write the growth summary as a spreadsheet")
	analyzeCmd.Flags().StringVar(&analyzeChartsDir, "charts-dir", "", "Chart output directory (defaults to charts_dir)")
	analyzeCmd.Flags().StringVar(&analyzeStore, "store", "", "Store file (defaults to store_path)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if analyzeTipo != types.ActivityServices && analyzeTipo != types.ActivitySales {
		return fmt.Errorf("--tipo must be %s or %s, got %q", types.ActivityServices, types.ActivitySales, analyzeTipo)
	}
	component, err := analysis.ParseComponent(analyzeComponent)
	if err != nil {
		return fmt.Errorf("--componente: %w", err)
	}
	if analyzeBase != "" {
		if err := checkYearMonth("ipc-base", analyzeBase); err != nil {
			return err
		}
	}

	log := logging.ForRun("analyze").WithFields(logging.Fields{
		"tipo":       analyzeTipo,
		"componente": component,
	})
	storePath := orDefault(analyzeStore, cfg.StorePath)
	chartsDir := orDefault(analyzeChartsDir, cfg.ChartsDir)

	ds, err := store.Load(storePath)
	if err != nil {
		return err
	}
	records := 0
	for i := range ds.Data {
		if ds.Data[i].TipoActividad == analyzeTipo {
			records++
		}
	}
	if records == 0 {
		return fmt.Errorf("store %s has no %s records", storePath, analyzeTipo)
	}

	series, err := inflation.NewClient(cfg.InflationURL, cfg.HTTPTimeout).Fetch(cmd.Context())
	if err != nil {
		return err
	}
	first, last := series.Range()
	log.Debugf("inflation series: %d point(s) from %s to %s", series.Len(), first, last)

	base, err := series.Base(analyzeBase, analysis.FirstPeriod(ds, analyzeTipo))
	if err != nil {
		return err
	}
	baseLabel := base.Label()

	result, err := analysis.Analyze(ds, analyzeTipo, component, series.NewDeflator(base))
	if err != nil {
		return err
	}
	if len(result.MissingPeriods) > 0 {
		missing := strings.Join(result.MissingPeriods, ", ")
		if analyzeStrict {
			return fmt.Errorf("%w: %s", inflation.ErrMissingPeriods, missing)
		}
		log.Warnf("no inflation value for %s, amounts left unadjusted", missing)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintAnalysisHeader(result, records, baseLabel)
	printer.PrintGrowthSummary(result.Growth)
	printer.PrintCAGR(result.Growth)
	printer.PrintRealVerdicts(result.Growth)

	outputs, err := charts.RenderAll(result, chartsDir, baseLabel)
	if err != nil {
		return err
	}
	if analyzeXLSX {
		path := filepath.Join(chartsDir, export.FileName(result.Tipo, result.Component))
		if err := export.WriteSummary(result, path); err != nil {
			return err
		}
		outputs = append(outputs, path)
	}

	page, err := rendering.WriteIndex(rendering.IndexOptions{
		ChartsDir:    chartsDir,
		IndexPath:    cfg.IndexPath,
		StorePath:    storePath,
		TemplatePath: cfg.IndexTemplate,
	})
	if err != nil {
		return err
	}
	outputs = append(outputs, cfg.IndexPath)
	log.WithField("charts", len(page.Charts)).Infof("landing page written to %s", cfg.IndexPath)

	printer.PrintOutputs(outputs)
	return nil
}
