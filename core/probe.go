package core

import (
	"fmt"
	"net/http"
	"time"

	"github.com/corpix/uarand"
	"github.com/sirupsen/logrus"
)

type ProbeResult struct {
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code"`
	Elapsed    time.Duration `json:"elapsed"`
	InspectResult
}

// Probe fetches target page without browser. Client-rendered apps mostly return a shell,
// so the state is often unknown here.
func Probe(targetURL string, timeout time.Duration, in Inspection) (ProbeResult, error) {
	logrus.Debugf("Probe %s, timeout %s", targetURL, timeout)
	res := ProbeResult{URL: targetURL}

	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequest("GET", targetURL, nil)
	if err != nil {
		return res, err
	}
	req.Header.Set("User-Agent", uarand.GetRandom())

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return res, fmt.Errorf("target is not reachable: %w", err)
	}
	defer resp.Body.Close()

	res.Elapsed = time.Since(start)
	res.StatusCode = resp.StatusCode
	if resp.StatusCode >= 400 {
		return res, fmt.Errorf("target responded with %s", resp.Status)
	}

	res.InspectResult, err = InspectHTML(resp.Body, in)
	if err != nil {
		return res, fmt.Errorf("cannot parse target page: %w", err)
	}
	return res, nil
}
