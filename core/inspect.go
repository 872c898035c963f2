package core

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type InspectResult struct {
	Title   string `json:"title"`
	State   string `json:"state"`
	Snippet string `json:"snippet"`
}

// InspectHTML parses page content and reports the first state whose text is present
func InspectHTML(r io.Reader, in Inspection) (InspectResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return InspectResult{}, err
	}
	content := string(raw)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return InspectResult{}, err
	}

	res := InspectResult{
		Title:   strings.TrimSpace(doc.Find("title").First().Text()),
		Snippet: snippet(content, in.Snippet),
		State:   in.Unknown,
	}

	bodyText := doc.Find("body").Text()
	for _, st := range in.States {
		if strings.Contains(content, st.Text) || strings.Contains(bodyText, st.Text) {
			res.State = st.Label
			break
		}
	}
	return res, nil
}
