package controller

// Panel is the stage of the page. Only one is shown at a time.
type Panel string

const (
	PanelIdle    Panel = "idle"
	PanelPreview Panel = "preview"
	PanelLoading Panel = "loading"
	PanelResult  Panel = "result"
)

const (
	LabelProcess        = "Extract Text"
	LabelExportText     = "Download TXT"
	LabelExportDocument = "Download DOCX"
	LabelAudio          = "Generate & Download Audio (MP3)"
	LabelAudioBusy      = "Generating audio..."
	LabelSummary        = "Generate Summary"
	LabelSummaryBusy    = "Generating summary..."

	loadingPDF   = "Processing PDF... This may take a while"
	loadingImage = "Processing image..."
	noTextShown  = "No text detected"
)

// Trigger is a button. Busy is set while its own request is in flight.
type Trigger struct {
	Enabled bool   `json:"enabled"`
	Busy    bool   `json:"busy"`
	Label   string `json:"label"`
}

// Preview shows the selected file: an inline image or a PDF placeholder.
type Preview struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	DataURI string `json:"data_uri,omitempty"`
}

// View is everything the page renders.
type View struct {
	Panel          Panel    `json:"panel"`
	Preview        *Preview `json:"preview,omitempty"`
	LoadingMessage string   `json:"loading_message"`

	Process        Trigger `json:"process"`
	ExportText     Trigger `json:"export_txt"`
	ExportDocument Trigger `json:"export_docx"`
	Audio          Trigger `json:"audio"`
	Summary        Trigger `json:"summary"`

	ResultTitle    string `json:"result_title"`
	ResultText     string `json:"result_text"`
	Badge          string `json:"badge"`
	ActionsVisible bool   `json:"actions_visible"`

	SummaryVisible bool   `json:"summary_visible"`
	SummaryText    string `json:"summary_text"`

	Notices []string `json:"notices"`
}

func initialView() View {
	return View{
		Panel:          PanelIdle,
		Process:        Trigger{Label: LabelProcess},
		ExportText:     Trigger{Label: LabelExportText},
		ExportDocument: Trigger{Label: LabelExportDocument},
		Audio:          Trigger{Label: LabelAudio},
		Summary:        Trigger{Label: LabelSummary},
		Notices:        make([]string, 0),
	}
}

func (v View) clone() View {
	out := v
	if v.Preview != nil {
		p := *v.Preview
		out.Preview = &p
	}
	out.Notices = append(make([]string, 0, len(v.Notices)), v.Notices...)
	return out
}

func (v *View) actionTriggers() []*Trigger {
	return []*Trigger{&v.ExportText, &v.ExportDocument, &v.Audio, &v.Summary}
}

// setActionsEnabled toggles the action triggers that are not in flight.
func (v *View) setActionsEnabled(enabled bool) {
	for _, t := range v.actionTriggers() {
		if !t.Busy {
			t.Enabled = enabled
		}
	}
}
