package app

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"

	"signalsort/internal/bootstrap"
	"signalsort/internal/classify"
	"signalsort/internal/config"
	"signalsort/internal/domain"
	"signalsort/internal/ingest"
	"signalsort/internal/llm"
	"signalsort/internal/readiness"
	"signalsort/internal/report"
	"signalsort/internal/storage/sqlite"
	"signalsort/internal/suggest"
	"signalsort/internal/teams"
)

func Main() {
	cfg := config.LoadConfig()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open feedback store: %v", err)
	}
	defer store.Close()

	teamList, err := teams.Load(cfg.TeamsPath)
	if err != nil {
		log.Fatalf("Failed to load teams: %v", err)
	}
	log.Printf("Config loaded. Teams=%d DB=%s Workers=%d ReviewThreshold=%.2f",
		len(teamList), cfg.DBPath, cfg.BatchWorkers, cfg.ReviewConfidence)

	scorer := &classify.Scorer{}
	if cfg.SemanticLLM {
		scorer.Semantic = llm.NewSemanticScorer(cfg.AnthropicAPIKey, cfg.LLMModel)
		log.Printf("LLM semantic scoring enabled (model=%s)", cfg.LLMModel)
	}
	classifier := classify.NewClassifier(scorer)

	var api *slack.Client
	if cfg.SlackConfigured() {
		api = slack.New(cfg.SlackBotToken)
	}

	var index ingest.SignalIndex
	if cfg.SignalsCSVPath != "" {
		index = runBatch(cfg, classifier, store, teamList, api)
	}

	if cfg.DigestSchedule != "" {
		startDigestScheduler(cfg, store, teamList, index, api)
		select {} // schedulers run until the process is stopped
	}
}

// runBatch ingests the configured CSV, classifies it for the default team,
// writes the categorized CSV and summary report, and posts the summary when
// Slack is configured. Returns the signal index for the digest scheduler.
func runBatch(
	cfg config.Config,
	classifier *classify.Classifier,
	store *sqlite.FeedbackStore,
	teamList []domain.TeamConfiguration,
	api *slack.Client,
) ingest.SignalIndex {
	team, ok := pickTeam(teamList, cfg.DefaultTeam)
	if !ok {
		log.Fatalf("default_team %q not found in %s", cfg.DefaultTeam, cfg.TeamsPath)
	}

	signals, err := ingest.ReadSignalsFile(cfg.SignalsCSVPath)
	if err != nil {
		log.Fatalf("Failed to read signals: %v", err)
	}
	log.Printf("Ingested %d signals from %s", len(signals), cfg.SignalsCSVPath)

	start := time.Now()
	classified := ClassifyBatch(classifier, team, store.TeamHistory(team.TeamName), signals, cfg.BatchWorkers, cfg.ReviewConfidence)
	log.Printf("Classified %d signals for %s in %s", len(classified), team.TeamName, time.Since(start).Round(time.Millisecond))

	outPath := strings.TrimSuffix(cfg.SignalsCSVPath, ".csv") + "_categorized.csv"
	if err := ingest.WriteCategorizedCSV(outPath, classified); err != nil {
		log.Printf("Failed to write categorized csv: %v", err)
	} else {
		log.Printf("Wrote %s", outPath)
	}

	summary := report.Render(report.Summarize(team.TeamName, classified))
	if path, err := report.WriteReportFile(summary, cfg.ReportOutputDir, time.Now(), team.TeamName); err != nil {
		log.Printf("Failed to write report: %v", err)
	} else {
		log.Printf("Wrote %s", path)
	}
	postDigest(api, cfg.ReportChannelID, summary)

	return ingest.NewSignalIndex(classified)
}

// startDigestScheduler periodically recomputes keyword suggestions and ML
// readiness for every team and posts the digest.
// The schedule is a standard 5-field cron expression (minute hour day-of-month month day-of-week).
func startDigestScheduler(
	cfg config.Config,
	store *sqlite.FeedbackStore,
	teamList []domain.TeamConfiguration,
	index ingest.SignalIndex,
	api *slack.Client,
) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(cfg.DigestSchedule)
	if err != nil {
		log.Printf("Invalid digest_schedule '%s': %v, digest disabled", cfg.DigestSchedule, err)
		return
	}
	log.Printf("Digest scheduled (cron: %s) for %d teams", cfg.DigestSchedule, len(teamList))

	engine := &suggest.Engine{Feedback: store, Signals: index}

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next digest at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			for _, team := range teamList {
				digest := buildTeamDigest(engine, store, team)
				log.Printf("Digest for %s:\n%s", team.TeamName, digest)
				postDigest(api, cfg.ReportChannelID, digest)
			}
		}
	}()
}

func buildTeamDigest(engine *suggest.Engine, store *sqlite.FeedbackStore, team domain.TeamConfiguration) string {
	var parts []string

	suggestions, err := engine.Suggest(team)
	if err != nil {
		log.Printf("Suggestion error for %s: %v", team.TeamName, err)
	} else {
		parts = append(parts, report.RenderSuggestions(team.TeamName, suggestions))
	}

	stats, err := store.Stats(team.TeamName)
	if err != nil {
		log.Printf("Stats error for %s: %v", team.TeamName, err)
	} else {
		parts = append(parts, report.RenderReadiness(team.TeamName, readiness.Evaluate(team.TeamName, stats)))
	}

	return strings.Join(parts, "\n")
}

func postDigest(api *slack.Client, channelID, text string) {
	if api == nil || channelID == "" || text == "" {
		return
	}
	if _, _, err := api.PostMessage(channelID, slack.MsgOptionText(text, false)); err != nil {
		log.Printf("Digest post error: %v", err)
	}
}

func pickTeam(teamList []domain.TeamConfiguration, name string) (domain.TeamConfiguration, bool) {
	if name == "" && len(teamList) > 0 {
		return teamList[0], true
	}
	team, ok := teams.ByName(teamList)[name]
	return team, ok
}

// AnalyzeNewTeam is the onboarding entry point: it proposes categories and
// similar teams for a sample corpus without touching existing configuration.
func AnalyzeNewTeam(name string, samples []domain.SupportSignal, existing []domain.TeamConfiguration) string {
	analyzer := &bootstrap.Analyzer{Scorer: &classify.Scorer{}}
	suggestions, similar := analyzer.AnalyzeNewTeam(name, samples, existing)

	var out strings.Builder
	fmt.Fprintf(&out, "Proposed categories for %s:\n", name)
	if len(suggestions) == 0 {
		out.WriteString("  (sample corpus too sparse to propose categories)\n")
	}
	for _, s := range suggestions {
		fmt.Fprintf(&out, "  %-24s keywords=%s confidence=%.2f (%d sample hits)\n",
			s.Name, strings.Join(s.Keywords, ","), s.Confidence, s.SampleHits)
	}
	if len(similar) > 0 {
		out.WriteString("Similar teams:\n")
		for _, m := range similar {
			fmt.Fprintf(&out, "  %-24s %.2f overlap: %s\n",
				m.TeamName, m.SimilarityScore, strings.Join(m.OverlappingKeywords, ","))
		}
	}
	return out.String()
}
