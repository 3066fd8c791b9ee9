package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"weaktrace/internal/components"
	"weaktrace/internal/config"
	"weaktrace/internal/stats"
	"weaktrace/internal/styles"
	"weaktrace/internal/trace"
)

var log = logging.Logger("weaktrace/cli")

const (
	rule       = "======================================================================"
	sparkWidth = 60
	LaunchHint = "./scripts/server-gcc.sh --video assets/Ultra.mp4 --mmlink"
)

// Link is one direction of the emulated link.
type Link struct {
	Name   string
	Path   string
	Params trace.Params

	Trace   trace.Trace
	Summary stats.Summary
}

// Result is what a successful Run produced.
type Result struct {
	RunID    string
	Uplink   *Link
	Downlink *Link
}

// Run validates cfg, creates the output directory and writes the uplink and
// downlink traces. The report goes to out.
func Run(cfg config.Config, out io.Writer) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Quiet {
		out = io.Discard
	}

	res := &Result{
		RunID:    uuid.New().String(),
		Uplink:   &Link{Name: "Uplink", Path: cfg.UplinkPath(), Params: cfg.UplinkParams()},
		Downlink: &Link{Name: "Downlink", Path: cfg.DownlinkPath(), Params: cfg.DownlinkParams()},
	}
	log.Debugw("starting run", "run", res.RunID, "dir", cfg.OutputDir)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, xerrors.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	printHeader(out, cfg, res.RunID)

	// The two directions share nothing but the directory.
	var eg errgroup.Group
	for _, l := range []*Link{res.Uplink, res.Downlink} {
		l := l
		eg.Go(func() error {
			tr, err := trace.GenerateFile(l.Path, l.Params)
			if err != nil {
				return xerrors.Errorf("generating %s trace: %w", strings.ToLower(l.Name), err)
			}
			l.Trace = tr
			l.Summary = stats.Summarize(tr, l.Params)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	printLink(out, res.Uplink)
	printLink(out, res.Downlink)
	printFooter(out, res)

	log.Debugw("run complete", "run", res.RunID,
		"up", res.Uplink.Summary.Opportunities, "down", res.Downlink.Summary.Opportunities)
	return res, nil
}

func printHeader(w io.Writer, cfg config.Config, runID string) {
	fmt.Fprintf(w, "\n%s\n", styles.Title.Render("Generating weak network trace files..."))
	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "%s\n", styles.KV("Run ID          ", runID))
	fmt.Fprintf(w, "%s\n", styles.KV("Output directory", cfg.OutputDir))
	fmt.Fprintf(w, "%s\n", styles.KV("Duration        ", fmt.Sprintf("%g seconds", cfg.DurationSec)))
	fmt.Fprintf(w, "%s\n", styles.KV("Bandwidth range ", fmt.Sprintf("%g-%g kbps", cfg.MinKbps, cfg.MaxKbps)))
	fmt.Fprintf(w, "%s\n", styles.KV("Variation       ", fmt.Sprintf("±%g%%", cfg.Variation*100)))
	fmt.Fprintf(w, "%s\n\n", rule)
}

func printLink(w io.Writer, l *Link) {
	s := l.Summary
	p := l.Params

	fmt.Fprintf(w, "Generated trace file: %s\n", styles.Path.Render(l.Path))
	fmt.Fprintf(w, "  %s\n", styles.KV("Duration           ", fmt.Sprintf("%g seconds", p.DurationSec)))
	fmt.Fprintf(w, "  %s\n", styles.KV("Bandwidth range    ", fmt.Sprintf("%g-%g kbps", p.MinKbps, p.MaxKbps)))
	fmt.Fprintf(w, "  %s\n", styles.KV("Total opportunities", fmt.Sprintf("%d", s.Opportunities)))
	fmt.Fprintf(w, "  %s\n", styles.KV("Average interval   ", fmt.Sprintf("%.2f ms", s.AvgIntervalMs)))
	fmt.Fprintf(w, "  %s\n", styles.KV("Gap P50 / P99 / Max", fmt.Sprintf("%.2f / %.2f / %.2f ms", s.P50GapMs, s.P99GapMs, s.MaxGapMs)))
	fmt.Fprintf(w, "  %s\n", styles.KV("Mean bandwidth     ", fmt.Sprintf("%.1f kbps", s.MeanKbps)))

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage())
	fmt.Fprintf(w, "  %s %s\n", styles.Label.Render("Load               "), bar.ViewAs(s.LoadFraction(p)))

	spark := components.NewSparkline(sparkWidth, styles.Label.Render("kbps/s             "), styles.Spark)
	spark.Min, spark.Max = uint64(p.MinKbps), uint64(p.MaxKbps)
	spark.Set(stats.Downsample(s.KbpsPerSecond(), sparkWidth))
	fmt.Fprintf(w, "  %s\n\n", spark.View())
}

func printFooter(w io.Writer, res *Result) {
	fmt.Fprintf(w, "%s\n", styles.Value.Render("Trace files generated successfully!"))
	fmt.Fprintf(w, "  Uplink:   %s\n", styles.Path.Render(res.Uplink.Path))
	fmt.Fprintf(w, "  Downlink: %s\n", styles.Path.Render(res.Downlink.Path))
	fmt.Fprintf(w, "\nUsage example:\n")
	fmt.Fprintf(w, "  %s %s %s\n", LaunchHint, res.Uplink.Path, res.Downlink.Path)
	fmt.Fprintf(w, "  mm-link %s %s\n\n", res.Uplink.Path, res.Downlink.Path)
}
