package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"procova/adapters/stats/extract"
	"procova/adapters/stats/power"
	"procova/adapters/stats/prognostic"
	"procova/adapters/tabular"
	"procova/app"
	"procova/domain/design"
	"procova/domain/trial"
	"procova/internal/report"
	"procova/internal/testkit"
)

func main() {
	var (
		dataFile    = flag.String("data", "", "historical dataset (CSV or XLSX)")
		demo        = flag.Bool("demo", false, "use a simulated cohort instead of a data file")
		demoRows    = flag.Int("rows", 200, "rows of the simulated cohort")
		demoRho     = flag.Float64("rho", 0.6, "outcome/covariate correlation of the simulated cohort")
		seed        = flag.Int64("seed", 1, "simulation seed")
		outcome     = flag.String("outcome", "outcome", "outcome column")
		treatment   = flag.String("treatment", "treatment", "treatment indicator column")
		covList     = flag.String("covs", "", "comma-separated covariate columns")
		interaction = flag.Bool("interaction", false, "add covariate-by-treatment interaction terms")
		score       = flag.Bool("score", false, "fit a prognostic model on the covariates and adjust on its score")
		n           = flag.Int("n", 100, "total sample size")
		ratio       = flag.Float64("r", 1, "treatment:control allocation ratio")
		ate         = flag.Float64("ate", 0, "target average treatment effect")
		margin      = flag.Float64("margin", 0, "superiority / non-inferiority margin")
		alpha       = flag.Float64("alpha", 0.05, "significance level")
		sweepSpec   = flag.String("sweep", "", "sample-size sweep as start:stop:step")
		reportFile  = flag.String("report", "", "write an HTML report to this file")
	)
	flag.Parse()

	frame, datasetName, err := loadFrame(*dataFile, *demo, *demoRows, *demoRho, *seed)
	if err != nil {
		log.Fatalf("loading data: %v", err)
	}

	covariates := splitCovariates(*covList)
	if *score {
		frame, covariates, err = adjustOnScore(frame, *outcome, covariates)
		if err != nil {
			log.Fatalf("prognostic score: %v", err)
		}
	}

	powerService := app.NewPowerService(
		extract.NewExtractor(),
		power.NewNoncentralModel(),
		power.NewGuentherSchoutenModel(),
	)

	req := app.EstimationRequest{
		Frame:       frame,
		Outcome:     *outcome,
		Treatment:   *treatment,
		Covariates:  covariates,
		Interaction: *interaction,
		Design: design.Parameters{
			N:      *n,
			Ratio:  *ratio,
			ATE:    *ate,
			Margin: *margin,
			Alpha:  *alpha,
		},
	}

	result, err := powerService.Estimate(req)
	if err != nil {
		log.Fatalf("estimation: %v", err)
	}

	fmt.Printf("dataset: %s (%d rows)\n\n", datasetName, frame.NumRows())
	printResult(result)

	md := report.Markdown(req, result)
	if *sweepSpec != "" {
		sizes, err := parseSweep(*sweepSpec)
		if err != nil {
			log.Fatalf("sweep: %v", err)
		}
		sweepService := app.NewSweepService(powerService, 4)
		points, err := sweepService.Run(context.Background(), app.SweepRequest{Base: req, SampleSizes: sizes})
		if err != nil {
			log.Fatalf("sweep: %v", err)
		}
		fmt.Printf("\n%-8s %-12s %-12s\n", "n", "power_NC", "power_GS")
		for _, pt := range points {
			fmt.Printf("%-8d %-12.6f %-12.6f\n", pt.N, pt.Result[design.KeyPowerNC], pt.Result[design.KeyPowerGS])
		}
		md = report.SweepMarkdown(req, points)
	}

	if *reportFile != "" {
		if err := os.WriteFile(*reportFile, report.HTML(md), 0o644); err != nil {
			log.Fatalf("report: %v", err)
		}
		log.Printf("report written to %s", *reportFile)
	}
}

func loadFrame(dataFile string, demo bool, rows int, rho float64, seed int64) (*trial.Frame, string, error) {
	if demo {
		frame, err := testkit.GenerateCohort(testkit.CohortSpec{
			Rows:           rows,
			Covariates:     2,
			Correlation:    rho,
			TreatmentShare: 0.5,
			Seed:           seed,
		})
		return frame, "simulated", err
	}
	if dataFile == "" {
		return nil, "", fmt.Errorf("either -data or -demo is required")
	}
	frame, err := tabular.NewReader(dataFile).Read()
	return frame, dataFile, err
}

func adjustOnScore(frame *trial.Frame, outcome string, covariates []string) (*trial.Frame, []string, error) {
	model, err := prognostic.NewScorer().Fit(frame, outcome, covariates)
	if err != nil {
		return nil, nil, err
	}
	augmented, err := model.Augment(frame, prognostic.ScoreColumn)
	if err != nil {
		return nil, nil, err
	}
	return augmented, []string{prognostic.ScoreColumn}, nil
}

func splitCovariates(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	covs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			covs = append(covs, trimmed)
		}
	}
	return covs
}

func parseSweep(spec string) ([]int, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected start:stop:step, got %q", spec)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("expected integer in %q: %w", spec, err)
		}
		vals[i] = v
	}
	start, stop, step := vals[0], vals[1], vals[2]
	if step <= 0 || stop < start {
		return nil, fmt.Errorf("sweep %q must have stop >= start and step > 0", spec)
	}
	var sizes []int
	for n := start; n <= stop; n += step {
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func printResult(result design.ResultVector) {
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-10s %.6f\n", k, result[k])
	}
}
