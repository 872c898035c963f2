package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/utils"
)

type StepStatus string

const (
	StepDetected StepStatus = "detected"
	StepMissed   StepStatus = "missed"
	StepSkipped  StepStatus = "skipped"
	StepFailed   StepStatus = "failed"
)

type StepReport struct {
	Name        string         `json:"name"`
	Status      StepStatus     `json:"status"`
	Label       string         `json:"label,omitempty"`
	Screenshots []string       `json:"screenshots,omitempty"`
	Inspect     *InspectResult `json:"inspect,omitempty"`
	Error       string         `json:"error,omitempty"`
}

type Report struct {
	Scenario    string       `json:"scenario"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Success     bool         `json:"success"`
	Steps       []StepReport `json:"steps"`
	Screenshots []string     `json:"screenshots"`
	Error       string       `json:"error,omitempty"`
}

type Runner struct {
	RunnerOpts
	launcher Launcher
}

func NewRunner(launcher Launcher, opts RunnerOpts) *Runner {
	opts.Init()
	return &Runner{RunnerOpts: opts, launcher: launcher}
}

// Run executes the scenario against a fresh page. The page is always released,
// failures end up in the report.
func (r *Runner) Run(sc Scenario) (report Report) {
	log := NewScenarioLogger(sc.Name)
	report = Report{Scenario: sc.Name, StartedAt: time.Now(), Steps: []StepReport{}, Screenshots: []string{}}
	defer func() { report.FinishedAt = time.Now() }()

	page, err := r.launcher.Open()
	if err != nil {
		log.Error("Error: cannot open browser: %v", err)
		report.Error = err.Error()
		return report
	}
	defer r.release(page, log)

	err = r.runSafe(page, sc, &report, log)
	if err != nil {
		log.Error("Error: %v", err)
		report.Error = err.Error()

		if sc.FailureScreenshot != "" {
			path, serr := r.capture(page, sc.FailureScreenshot)
			if serr != nil {
				log.Error("Cannot take failure screenshot: %v", serr)
			} else {
				report.Screenshots = append(report.Screenshots, path)
			}
		}
		return report
	}

	report.Success = true
	log.Info("Scenario finished, %d screenshots in %s", len(report.Screenshots), r.OutputDir)
	return report
}

func (r *Runner) runSafe(page Page, sc Scenario, report *Report, log *ScenarioLogger) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return r.run(page, sc, report, log)
}

func (r *Runner) run(page Page, sc Scenario, report *Report, log *ScenarioLogger) error {
	navTimeout := sc.NavigateTimeout
	if navTimeout == 0 {
		navTimeout = r.NavTimeout
	}

	log.Info("Navigating to %s", sc.URL)
	if err := page.Navigate(sc.URL, navTimeout); err != nil {
		return fmt.Errorf("navigate to %s: %w", sc.URL, err)
	}

	for _, step := range sc.Steps {
		sr := StepReport{Name: step.Name}
		err := r.runStep(page, step, &sr, log)

		if err != nil {
			sr.Error = err.Error()
			if step.Required {
				sr.Status = StepFailed
				report.Steps = append(report.Steps, sr)
				report.Screenshots = append(report.Screenshots, sr.Screenshots...)
				return fmt.Errorf("step %s: %w", step.Name, err)
			}

			sr.Status = StepMissed
			r.miss(page, step, &sr, err, log)
		}

		report.Steps = append(report.Steps, sr)
		report.Screenshots = append(report.Screenshots, sr.Screenshots...)
	}
	return nil
}

func (r *Runner) runStep(page Page, step Step, sr *StepReport, log *ScenarioLogger) error {
	log.Debug("Step %s", step.Name)

	for _, a := range step.Before {
		if err := r.act(page, a, log); err != nil {
			return err
		}
	}

	if len(step.Markers) > 0 {
		m, err := r.waitAny(page, step.Markers, log)
		if err != nil {
			return err
		}
		sr.Label = m.Label
	}

	if step.Guard != nil {
		visible, err := page.IsVisible(*step.Guard)
		if err != nil {
			return fmt.Errorf("check %s: %w", step.Guard, err)
		}
		if !visible {
			log.Debug("%s is not visible, skip rest of %s", step.Guard, step.Name)
			sr.Status = StepSkipped
			return nil
		}
	}

	if sr.Label != "" {
		log.Info("%s", sr.Label)
	}

	if step.Screenshot != "" {
		path, err := r.capture(page, step.Screenshot)
		if err != nil {
			return err
		}
		sr.Screenshots = append(sr.Screenshots, path)
	}

	if step.Inspect != nil {
		res, err := r.inspect(page, *step.Inspect)
		if err != nil {
			return err
		}
		log.Info("Page Title: %s", res.Title)
		log.Info("Page Content Snippet: %s", res.Snippet)
		if res.State != "" {
			log.Info("%s", res.State)
		}
		sr.Inspect = &res
	}

	for _, a := range step.After {
		if err := r.act(page, a, log); err != nil {
			return err
		}
	}

	sr.Status = StepDetected
	return nil
}

// waitAny tries markers in order and returns the first one found
func (r *Runner) waitAny(page Page, markers []Marker, log *ScenarioLogger) (Marker, error) {
	var lastErr error
	for _, m := range markers {
		timeout := m.Timeout
		if timeout == 0 {
			timeout = r.StepTimeout
		}

		err := page.WaitFor(m.Locator, timeout)
		if err == nil {
			return m, nil
		}
		log.Debug("%s not found within %s: %v", m.Locator, timeout, err)
		lastErr = err
	}

	if len(markers) > 1 {
		return Marker{}, fmt.Errorf("none of %d markers found: %w", len(markers), lastErr)
	}
	return Marker{}, lastErr
}

func (r *Runner) act(page Page, a Action, log *ScenarioLogger) error {
	log.Debug("%s", a)

	var err error
	switch a.Kind {
	case ActionFill:
		err = page.Fill(a.Target, a.Value, r.ActionTimeout)
	case ActionClick:
		err = page.Click(a.Target, r.ActionTimeout)
	default:
		err = fmt.Errorf("unknown action %q", a.Kind)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", a, err)
	}
	return nil
}

func (r *Runner) miss(page Page, step Step, sr *StepReport, err error, log *ScenarioLogger) {
	if step.Miss.Message != "" {
		log.Info("%s", step.Miss.Message)
	} else {
		log.Info("%s skipped: %v", step.Name, err)
	}
	log.Debug("%s miss reason: %v", step.Name, err)

	if step.Miss.Screenshot != "" {
		path, serr := r.capture(page, step.Miss.Screenshot)
		if serr != nil {
			log.Error("Cannot take screenshot: %v", serr)
		} else {
			sr.Screenshots = append(sr.Screenshots, path)
		}
	}

	if step.Miss.Dump > 0 {
		html, herr := page.HTML()
		if herr != nil {
			log.Error("Cannot get page content: %v", herr)
			return
		}
		log.Info("%s", snippet(html, step.Miss.Dump))
	}
}

func (r *Runner) inspect(page Page, in Inspection) (InspectResult, error) {
	html, err := page.HTML()
	if err != nil {
		return InspectResult{}, fmt.Errorf("get page content: %w", err)
	}

	res, err := InspectHTML(strings.NewReader(html), in)
	if err != nil {
		return InspectResult{}, err
	}

	// Rendered title has priority over the parsed one
	if title, err := page.Title(); err == nil && title != "" {
		res.Title = title
	}
	return res, nil
}

// capture writes screenshot to <output>/<name>.png, overwriting previous runs
func (r *Runner) capture(page Page, name string) (string, error) {
	img, err := page.Screenshot()
	if err != nil {
		return "", fmt.Errorf("screenshot %s: %w", name, err)
	}

	path := filepath.Join(r.OutputDir, name+".png")
	if err := utils.OutputFile(path, img); err != nil {
		return "", fmt.Errorf("save screenshot %s: %w", path, err)
	}
	return path, nil
}

func (r *Runner) release(page Page, log *ScenarioLogger) {
	if err := page.Close(); err != nil {
		log.Error("Cannot close browser: %v", err)
	}
}
