package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lmoretti/storeiq/internal/engine"
	"github.com/lmoretti/storeiq/internal/forecast"
	domain "github.com/lmoretti/storeiq/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printProductsTable(products []domain.Product) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tPRICE\tCATEGORY\tTAGS\n")
	for i := range products {
		p := &products[i]
		tw.writef("%s\t%s\t$%.2f\t%s\t%s\n",
			p.ID,
			truncate(p.Name, 40),
			p.Price,
			p.LeafCategory(),
			truncate(strings.Join(p.Tags, ","), 30),
		)
	}
	return tw.finish()
}

func printProductDetail(p *domain.Product) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", p.ID)
	tw.writef("Name:\t%s\n", p.Name)
	tw.writef("Price:\t$%.2f\n", p.Price)
	tw.writef("Categories:\t%s\n", strings.Join(p.CategoryPaths, ", "))
	tw.writef("Tags:\t%s\n", strings.Join(p.Tags, ", "))
	if p.Description != "" {
		tw.writef("Description:\t%s\n", truncate(p.Description, 80))
	}
	for k, v := range p.Specs {
		tw.writef("Spec %s:\t%s\n", k, v)
	}
	return tw.finish()
}

func printRecommendation(rec *engine.Recommendation) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Strategy:\t%s\n", rec.Strategy)
	if rec.Fallback {
		tw.writef("Fallback:\tcold start (recent products)\n")
	}
	if err := tw.finish(); err != nil {
		return err
	}
	return printScoredTable(rec.Products)
}

func printScoredTable(products []domain.ScoredProduct) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("PRODUCT\tSCORE\n")
	for i := range products {
		tw.writef("%s\t%.4f\n", products[i].ProductID, products[i].Score)
	}
	return tw.finish()
}

func printRulesTable(rules []domain.AssociationRule) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ANTECEDENT\tCONSEQUENT\tSUPPORT\tCONFIDENCE\tLIFT\n")
	for i := range rules {
		r := &rules[i]
		tw.writef("%s\t%s\t%.3f\t%.3f\t%.3f\n",
			r.Antecedent, r.Consequent, r.Support, r.Confidence, r.Lift)
	}
	return tw.finish()
}

func printSentimentDetail(rec *domain.SentimentRecord) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Product:\t%s\n", rec.ProductID)
	tw.writef("Score:\t%.3f\n", rec.Score)
	tw.writef("Category:\t%s\n", rec.Category)
	tw.writef("Opinions:\t%d positive, %d negative, %d neutral\n",
		rec.PositiveCount, rec.NegativeCount, rec.NeutralCount)
	tw.writef("\nSOURCE\tWEIGHT\tSCORE\tCATEGORY\tWORDS\n")
	for i := range rec.Sources {
		s := &rec.Sources[i]
		if s.Absent {
			tw.writef("%s\t%.2f\t-\tabsent\t-\n", s.Source, s.Weight)
			continue
		}
		tw.writef("%s\t%.2f\t%.3f\t%s\t+%d/-%d of %d\n",
			s.Source, s.Weight, s.Score, s.Category,
			s.PositiveCount, s.NegativeCount, s.TotalWords)
	}
	return tw.finish()
}

func printFuzzyTable(results []domain.FuzzyResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("PRODUCT\tSCORE\tCATEGORY MATCH\tTOP RULE\n")
	for i := range results {
		r := &results[i]
		topRule := "-"
		if len(r.Activations) > 0 {
			topRule = r.Activations[0].Rule
		}
		tw.writef("%s\t%.3f\t%.2f\t%s\n", r.ProductID, r.Score, r.CategoryMatch, topRule)
	}
	return tw.finish()
}

func printDemandForecast(df *forecast.DemandForecast) error {
	tw := newTabWriter(os.Stdout)
	if df.Insufficient {
		tw.writef("Insufficient history:\t%d observed days\n", df.Observations)
		return tw.finish()
	}
	tw.writef("Daily rate:\t%.2f units/day\n", df.DailyRate)
	tw.writef("Expected demand:\t%.1f units\n", df.ExpectedDemand)
	tw.writef("Reorder point:\t%d units\n", df.ReorderPoint)
	tw.writef("Suggested stock:\t%d units\n", df.SuggestedStock)
	tw.writef("\nDATE\tPREDICTED\tLOW\tHIGH\n")
	for i := range df.Points {
		p := &df.Points[i]
		tw.writef("%s\t%.2f\t%.2f\t%.2f\n",
			p.Date.Format("2006-01-02"), p.Predicted, p.Low, p.High)
	}
	return tw.finish()
}

func printNextPurchase(np *forecast.NextPurchase) error {
	tw := newTabWriter(os.Stdout)
	if np.Insufficient {
		tw.writef("Insufficient history:\t%d purchases\n", np.Observations)
		return tw.finish()
	}
	tw.writef("Current state:\t%s\n", np.CurrentState)
	tw.writef("Expected days to next purchase:\t%.1f\n", np.ExpectedDays)
	tw.writef("\nCATEGORY\tPROBABILITY\n")
	for i := range np.Distribution {
		tw.writef("%s\t%.3f\n", np.Distribution[i].ProductID, np.Distribution[i].Score)
	}
	return tw.finish()
}

func printJobRunsTable(runs []domain.JobRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("JOB\tSTATUS\tROWS\tSTARTED\tFINISHED\tERROR\n")
	for i := range runs {
		r := &runs[i]
		finished := "-"
		if r.FinishedAt != nil {
			finished = r.FinishedAt.Format("2006-01-02 15:04:05")
		}
		tw.writef("%s\t%s\t%d\t%s\t%s\t%s\n",
			r.JobName,
			r.Status,
			r.RowsAffected,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			finished,
			truncate(r.Error, 40),
		)
	}
	return tw.finish()
}

func printSystemState(state *domain.SystemState) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Products:\t%d\n", state.Products)
	tw.writef("Orders:\t%d\n", state.Orders)
	tw.writef("Opinions:\t%d\n", state.Opinions)
	tw.writef("Content similarities:\t%d\n", state.ContentSimilarities)
	tw.writef("Collaborative similarities:\t%d\n", state.CollabSimilarities)
	tw.writef("Association rules:\t%d\n", state.AssociationRules)
	tw.writef("Sentiment records:\t%d\n", state.SentimentRecords)
	tw.writef("Forecast points:\t%d\n", state.ForecastPoints)
	tw.writef("Last similarity run:\t%s\n", formatRunTime(state.LastSimilarityRun))
	tw.writef("Last rule mining run:\t%s\n", formatRunTime(state.LastRuleMiningRun))
	tw.writef("Last sentiment run:\t%s\n", formatRunTime(state.LastSentimentRun))
	tw.writef("Last forecast run:\t%s\n", formatRunTime(state.LastForecastRun))
	return tw.finish()
}

func formatRunTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
